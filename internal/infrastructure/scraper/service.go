package scraper

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
	"github.com/amit-kumar9766/ipl-dashboard/internal/usecase"
)

const (
	defaultAcquireTimeout = 15 * time.Second
	defaultPoolSize       = 4
)

var errNoUsableContent = crerr.New("scraper: no usable content extracted")

// ServiceConfig wires the acquisition service. PrimaryURL is required; the
// section URLs are optional secondary pages consulted only for sections the
// primary page left empty.
type ServiceConfig struct {
	Client    *Client
	Extractor *Extractor
	Fallback  *FallbackGenerator
	Logger    *logging.Logger

	PrimaryURL     string
	MatchesURL     string
	PointsTableURL string

	// Timeout bounds one whole Acquire run, defaulting to 15s.
	Timeout  time.Duration
	PoolSize int
}

// Service is the acquisition pipeline: fetch, extract, merge secondary pages,
// and degrade to synthetic data when nothing usable came back. Acquire never
// fails.
type Service struct {
	client    *Client
	extractor *Extractor
	fallback  *FallbackGenerator
	logger    *logging.Logger

	primaryURL     string
	matchesURL     string
	pointsTableURL string
	timeout        time.Duration

	pool *ants.Pool
	now  func() time.Time
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.PrimaryURL == "" {
		return nil, crerr.New("scraper: primary url is required")
	}
	if cfg.Client == nil {
		return nil, crerr.New("scraper: client is required")
	}
	if cfg.Extractor == nil {
		cfg.Extractor = NewExtractor()
	}
	if cfg.Fallback == nil {
		cfg.Fallback = NewFallbackGenerator()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAcquireTimeout
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}

	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, crerr.Wrap(err, "scraper: create worker pool")
	}

	return &Service{
		client:         cfg.Client,
		extractor:      cfg.Extractor,
		fallback:       cfg.Fallback,
		logger:         cfg.Logger,
		primaryURL:     cfg.PrimaryURL,
		matchesURL:     cfg.MatchesURL,
		pointsTableURL: cfg.PointsTableURL,
		timeout:        cfg.Timeout,
		pool:           pool,
		now:            time.Now,
	}, nil
}

// Close releases the secondary-page worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Acquire runs the full pipeline once. Whatever goes wrong upstream, the
// returned Acquisition always carries a complete dataset.
func (s *Service) Acquire(ctx context.Context) usecase.Acquisition {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.client.FetchDocument(ctx, s.primaryURL)
	if err != nil {
		s.logger.WarnContext(ctx, "primary page fetch failed, serving fallback",
			"url", s.primaryURL, "error", err)
		return s.degrade(err)
	}

	result := s.extractor.Extract(doc)
	s.fillFromSecondaryPages(ctx, &result)

	data := cricket.ScrapedData{
		LiveMatch:       result.LiveMatch,
		UpcomingMatches: result.UpcomingMatches,
		PointsTable:     result.PointsTable,
		LastUpdated:     s.now().UTC().Format(time.RFC3339),
		DataSource:      cricket.SourceOfficial,
	}
	if !data.HasContent() {
		s.logger.WarnContext(ctx, "no usable content in scraped pages, serving fallback",
			"url", s.primaryURL)
		return s.degrade(errNoUsableContent)
	}

	if data.UpcomingMatches == nil {
		data.UpcomingMatches = []cricket.Match{}
	}
	if data.PointsTable == nil {
		data.PointsTable = []cricket.PointsTableEntry{}
	}
	data.Schedule = append([]cricket.Match(nil), data.UpcomingMatches...)

	s.logger.InfoContext(ctx, "acquisition complete",
		"live", data.LiveMatch != nil,
		"upcoming", len(data.UpcomingMatches),
		"standings", len(data.PointsTable))
	return usecase.Acquisition{Data: data}
}

func (s *Service) degrade(reason error) usecase.Acquisition {
	return usecase.Acquisition{
		Data:           s.fallback.Generate(),
		FallbackReason: reason,
	}
}

// fillFromSecondaryPages fetches the dedicated section pages for whichever
// sections the primary page left empty. Fetches run concurrently on the
// worker pool; a secondary failure only leaves its section as-is.
func (s *Service) fillFromSecondaryPages(ctx context.Context, result *ExtractResult) {
	type fill struct {
		url   string
		apply func(ExtractResult)
	}

	var fills []fill
	if len(result.UpcomingMatches) == 0 && s.matchesURL != "" {
		fills = append(fills, fill{
			url: s.matchesURL,
			apply: func(extra ExtractResult) {
				result.UpcomingMatches = extra.UpcomingMatches
				if result.LiveMatch == nil {
					result.LiveMatch = extra.LiveMatch
				}
			},
		})
	}
	if len(result.PointsTable) == 0 && s.pointsTableURL != "" {
		fills = append(fills, fill{
			url: s.pointsTableURL,
			apply: func(extra ExtractResult) {
				result.PointsTable = extra.PointsTable
			},
		})
	}
	if len(fills) == 0 {
		return
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, f := range fills {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			doc, err := s.client.FetchDocument(ctx, f.url)
			if err != nil {
				s.logger.WarnContext(ctx, "secondary page fetch failed",
					"url", f.url, "error", err)
				return
			}
			extra := s.extractor.Extract(doc)
			mu.Lock()
			f.apply(extra)
			mu.Unlock()
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool exhausted or released; run inline rather than drop the fill.
			task()
		}
	}
	wg.Wait()
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amit-kumar9766/ipl-dashboard/internal/config"
	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/preferences"
	"github.com/amit-kumar9766/ipl-dashboard/internal/infrastructure/dashclient"
	"github.com/amit-kumar9766/ipl-dashboard/internal/infrastructure/repository/memory"
	"github.com/amit-kumar9766/ipl-dashboard/internal/infrastructure/repository/postgres"
	"github.com/amit-kumar9766/ipl-dashboard/internal/infrastructure/scraper"
	"github.com/amit-kumar9766/ipl-dashboard/internal/interfaces/httpapi"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/cache"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/resilience"
	"github.com/amit-kumar9766/ipl-dashboard/internal/poller"
	"github.com/amit-kumar9766/ipl-dashboard/internal/usecase"
)

// App owns every long-lived component: the HTTP server, the TTL cache and
// its sweeper, the acquisition service, the optional self-poller and the
// optional database handle. Built once at process start.
type App struct {
	Server *http.Server

	store   *cache.Store
	scraper *scraper.Service
	poller  *poller.Poller
	db      *sqlx.DB
	logger  *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store := cache.NewStore(cfg.CacheTTL)

	client := scraper.NewClient(scraper.ClientConfig{
		Timeout:    cfg.ScrapeTimeout,
		MaxRetries: cfg.ScrapeMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScrapeCircuitEnabled,
			FailureThreshold: cfg.ScrapeCircuitFailureCount,
			OpenTimeout:      cfg.ScrapeCircuitOpenTimeout,
		},
	})
	scrapeSvc, err := scraper.NewService(scraper.ServiceConfig{
		Client:         client,
		Logger:         logger,
		PrimaryURL:     cfg.ScrapeBaseURL,
		MatchesURL:     cfg.ScrapeMatchesURL,
		PointsTableURL: cfg.ScrapePointsTableURL,
		Timeout:        cfg.ScrapeTimeout,
		PoolSize:       cfg.ScrapeWorkerPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("build scraper service: %w", err)
	}

	dashboards, err := usecase.NewDashboardService(scrapeSvc, store, cfg.CacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("build dashboard service: %w", err)
	}

	var (
		db        *sqlx.DB
		prefsRepo preferences.Repository
	)
	if cfg.DBURL != "" {
		db, err = openDB(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		prefsRepo = postgres.NewPreferencesRepository(db)
		logger.Info("preferences backed by postgres", "database", dbNameFromURL(cfg.DBURL))
	} else {
		prefsRepo = memory.NewPreferencesRepository()
		logger.Info("preferences backed by process memory")
	}

	prefsSvc, err := usecase.NewPreferencesService(prefsRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("build preferences service: %w", err)
	}

	var (
		pol    *poller.Poller
		polCtl httpapi.PollerControl
	)
	pollerInterval := cfg.PollerInterval
	pollerEnabled := cfg.PollerEnabled
	if prefs, err := prefsSvc.Get(ctx); err != nil {
		logger.WarnContext(ctx, "load stored preferences, keeping configured poller settings", "error", err)
	} else {
		pollerInterval = prefs.RefreshInterval
		pollerEnabled = pollerEnabled && prefs.AutoRefresh
	}

	if pollerEnabled {
		fetcher, err := dashclient.New(dashclient.Config{
			BaseURL: selfBaseURL(cfg.HTTPAddr),
			Timeout: cfg.ScrapeTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("build dashboard client: %w", err)
		}

		notify := newLiveMatchNotifier(logger)
		pol, err = poller.New(poller.Config{
			Fetcher:          fetcher,
			Interval:         pollerInterval,
			FailureThreshold: cfg.PollerFailureThreshold,
			Mirror:           cache.NewStore(cfg.CacheTTL),
			MirrorTTL:        cfg.CacheTTL,
			Logger:           logger,
			OnSuccess:        notify.observe,
		})
		if err != nil {
			return nil, fmt.Errorf("build poller: %w", err)
		}
		polCtl = pol
	}

	handler := httpapi.NewHandler(dashboards, prefsSvc, polCtl, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:  server,
		store:   store,
		scraper: scrapeSvc,
		poller:  pol,
		db:      db,
		logger:  logger,
	}, nil
}

// Start launches the background pieces: the cache sweeper and, when enabled,
// the self-poller. The HTTP server itself is started by the caller.
func (a *App) Start(ctx context.Context, sweepInterval time.Duration) {
	a.store.StartSweep(sweepInterval)
	if a.poller != nil {
		a.poller.Start(ctx)
	}
}

// Close stops background work and releases owned resources. Safe after a
// partial Start.
func (a *App) Close() {
	if a.poller != nil {
		a.poller.Stop()
	}
	a.store.StopSweep()
	a.scraper.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

// selfBaseURL turns a listen address into a URL the in-process poller can
// dial.
func selfBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}

// liveMatchNotifier logs a notification when the dataset transitions from no
// live match to a live match.
type liveMatchNotifier struct {
	mu      sync.Mutex
	wasLive bool
	logger  *logging.Logger
}

func newLiveMatchNotifier(logger *logging.Logger) *liveMatchNotifier {
	return &liveMatchNotifier{logger: logger}
}

func (n *liveMatchNotifier) observe(data cricket.ScrapedData) {
	n.mu.Lock()
	defer n.mu.Unlock()

	isLive := data.LiveMatch != nil
	if isLive && !n.wasLive {
		n.logger.Info("match went live",
			"team1", data.LiveMatch.Team1.ShortName,
			"team2", data.LiveMatch.Team2.ShortName,
			"venue", data.LiveMatch.Venue,
		)
	}
	n.wasLive = isLive
}

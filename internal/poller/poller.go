// Package poller drives periodic dashboard refreshes for consumers of the
// API, with a local result mirror and a halt-after-repeated-failures guard.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/preferences"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/cache"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"

	crerr "github.com/cockroachdb/errors"
)

const (
	defaultFailureThreshold = 3
	mirrorKey               = "dashboard"
)

// Fetcher fetches one fresh dashboard dataset.
type Fetcher interface {
	Fetch(ctx context.Context) (cricket.ScrapedData, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (cricket.ScrapedData, error)

func (f FetcherFunc) Fetch(ctx context.Context) (cricket.ScrapedData, error) { return f(ctx) }

// Snapshot is the poller's externally visible state at one instant.
type Snapshot struct {
	Data              *cricket.ScrapedData
	Loading           bool
	LastError         error
	ConsecutiveErrors int
	// Polling stays true while the loop is running, including during a
	// threshold halt; a halt is observable via ConsecutiveErrors reaching the
	// threshold. It turns false only when the loop exits.
	Polling bool
}

type Config struct {
	Fetcher Fetcher
	// Interval between automatic refreshes; clamped to the preference bounds.
	Interval         time.Duration
	FailureThreshold int
	// Mirror, when set, short-circuits an automatic refresh while a recent
	// result is still fresh. Manual refreshes bypass and invalidate it.
	Mirror    *cache.Store
	MirrorTTL time.Duration
	Logger    *logging.Logger

	OnSuccess func(cricket.ScrapedData)
	OnError   func(error)
}

// Poller fetches on a timer. Consecutive failures are counted and, at the
// threshold, automatic polling halts rather than hammering a broken backend;
// RefreshNow clears the count and resumes. A successful fetch always resets
// the count.
type Poller struct {
	fetcher       Fetcher
	interval      time.Duration
	failThreshold int
	mirror        *cache.Store
	mirrorTTL     time.Duration
	logger        *logging.Logger
	onSuccess     func(cricket.ScrapedData)
	onError       func(error)

	mu     sync.Mutex
	snap   Snapshot
	halted bool

	started    bool
	refreshCh  chan struct{}
	intervalCh chan time.Duration
	done       chan struct{}
	loopDone   chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once
}

func New(cfg Config) (*Poller, error) {
	if cfg.Fetcher == nil {
		return nil, crerr.New("poller: fetcher is required")
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.MirrorTTL <= 0 {
		cfg.MirrorTTL = preferences.DefaultRefreshInterval
	}

	return &Poller{
		fetcher:       cfg.Fetcher,
		interval:      clampInterval(cfg.Interval),
		failThreshold: cfg.FailureThreshold,
		mirror:        cfg.Mirror,
		mirrorTTL:     cfg.MirrorTTL,
		logger:        cfg.Logger,
		onSuccess:     cfg.OnSuccess,
		onError:       cfg.OnError,
		snap:          Snapshot{Polling: true},
		refreshCh:     make(chan struct{}, 1),
		intervalCh:    make(chan time.Duration, 1),
		done:          make(chan struct{}),
		loopDone:      make(chan struct{}),
	}, nil
}

func clampInterval(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return preferences.DefaultRefreshInterval
	case d < preferences.MinRefreshInterval:
		return preferences.MinRefreshInterval
	case d > preferences.MaxRefreshInterval:
		return preferences.MaxRefreshInterval
	default:
		return d
	}
}

// Start launches the loop; the first fetch happens immediately.
func (p *Poller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.started = true
		go p.loop(ctx)
	})
}

// Stop terminates the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	if p.started {
		<-p.loopDone
	}
}

// RefreshNow forces an immediate fetch. It invalidates the mirror, clears the
// failure count and resumes a halted loop. Coalesces when a refresh is
// already pending.
func (p *Poller) RefreshNow() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// SetInterval applies a new automatic refresh interval, clamped to the
// preference bounds.
func (p *Poller) SetInterval(d time.Duration) {
	select {
	case p.intervalCh <- clampInterval(d):
	default:
	}
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.loopDone)
	defer func() {
		p.mu.Lock()
		p.snap.Polling = false
		p.mu.Unlock()
	}()

	p.runOnce(ctx, false)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ctx.Done():
			return
		case <-p.refreshCh:
			p.manualRefresh(ctx)
		case d := <-p.intervalCh:
			p.interval = d
		case <-timer.C:
			if !p.isHalted() {
				p.runOnce(ctx, false)
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(p.interval)
	}
}

func (p *Poller) manualRefresh(ctx context.Context) {
	if p.mirror != nil {
		p.mirror.Delete(ctx, mirrorKey)
	}

	p.mu.Lock()
	p.halted = false
	p.snap.ConsecutiveErrors = 0
	p.snap.LastError = nil
	p.mu.Unlock()

	p.runOnce(ctx, true)
}

func (p *Poller) isHalted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.halted
}

func (p *Poller) runOnce(ctx context.Context, force bool) {
	if !force && p.mirror != nil {
		if cached, ok := p.mirror.Get(ctx, mirrorKey); ok {
			if data, ok := cached.(cricket.ScrapedData); ok {
				data.DataSource = cricket.SourceCache
				p.mu.Lock()
				p.snap.Data = &data
				p.snap.LastError = nil
				p.snap.ConsecutiveErrors = 0
				p.mu.Unlock()
				return
			}
		}
	}

	p.mu.Lock()
	p.snap.Loading = true
	p.mu.Unlock()

	data, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.recordFailure(ctx, err)
		return
	}

	if p.mirror != nil {
		p.mirror.SetWithTTL(ctx, mirrorKey, data, p.mirrorTTL)
	}

	p.mu.Lock()
	p.snap.Data = &data
	p.snap.Loading = false
	p.snap.LastError = nil
	p.snap.ConsecutiveErrors = 0
	p.halted = false
	p.mu.Unlock()

	if p.onSuccess != nil {
		p.onSuccess(data)
	}
}

func (p *Poller) recordFailure(ctx context.Context, err error) {
	p.mu.Lock()
	p.snap.Loading = false
	p.snap.LastError = err
	p.snap.ConsecutiveErrors++
	if p.snap.ConsecutiveErrors >= p.failThreshold {
		p.halted = true
	}
	errors, halted := p.snap.ConsecutiveErrors, p.halted
	p.mu.Unlock()

	if halted {
		p.logger.WarnContext(ctx, "automatic polling halted after repeated failures",
			"consecutive_errors", errors, "error", err)
	} else {
		p.logger.WarnContext(ctx, "dashboard refresh failed",
			"consecutive_errors", errors, "error", err)
	}

	if p.onError != nil {
		p.onError(err)
	}
}

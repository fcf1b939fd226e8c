package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/cache"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/resilience"
)

// Cache disposition of one dashboard read.
const (
	CacheStatusHit      = "hit"
	CacheStatusMiss     = "miss"
	CacheStatusFallback = "fallback"
)

const (
	dashboardCacheKey   = "dashboard"
	defaultDashboardTTL = 3 * time.Minute
)

// DashboardResult is what a dashboard read hands to the transport layer.
// Err carries the reason for a degraded dataset; reads themselves never fail.
type DashboardResult struct {
	Data        cricket.ScrapedData
	CacheStatus string
	CacheAge    time.Duration
	Err         error
}

// DashboardService fronts the acquisition pipeline with the process-wide TTL
// cache. Fresh official results are cached; fallback results are not, so the
// next read retries the source instead of pinning synthetic data for a whole
// TTL window. Concurrent cache misses collapse into a single acquisition.
type DashboardService struct {
	provider CricketDataProvider
	store    *cache.Store
	ttl      time.Duration
	logger   *logging.Logger
	flight   resilience.SingleFlight
}

func NewDashboardService(provider CricketDataProvider, store *cache.Store, ttl time.Duration, logger *logging.Logger) (*DashboardService, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: data provider is required", ErrInvalidInput)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: cache store is required", ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DashboardService{
		provider: provider,
		store:    store,
		ttl:      ttl,
		logger:   logger,
	}, nil
}

// GetDashboard returns the current dataset, serving from cache while fresh.
func (s *DashboardService) GetDashboard(ctx context.Context) DashboardResult {
	ctx, span := startSpan(ctx, "DashboardService.GetDashboard")
	defer span.End()

	if cached, age, ok := s.store.GetWithAge(ctx, dashboardCacheKey); ok {
		if data, valid := cached.(cricket.ScrapedData); valid {
			return DashboardResult{Data: data, CacheStatus: CacheStatusHit, CacheAge: age}
		}
	}

	out, _, _ := s.flight.Do(dashboardCacheKey, func() (any, error) {
		acq := s.provider.Acquire(ctx)
		if !acq.Fallback() {
			s.store.SetWithTTL(ctx, dashboardCacheKey, acq.Data, s.ttl)
		}
		return acq, nil
	})
	acq, ok := out.(Acquisition)
	if !ok {
		// Unreachable unless the flight group is misused; degrade anyway.
		acq = s.provider.Acquire(ctx)
	}

	if acq.Fallback() {
		s.logger.WarnContext(ctx, "serving degraded dashboard dataset", "error", acq.FallbackReason)
		return DashboardResult{Data: acq.Data, CacheStatus: CacheStatusFallback, Err: acq.FallbackReason}
	}
	return DashboardResult{Data: acq.Data, CacheStatus: CacheStatusMiss}
}

// Invalidate drops the cached dataset so the next read acquires fresh data.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.store.Delete(ctx, dashboardCacheKey)
}

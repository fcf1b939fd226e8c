package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/preferences"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/cache"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
)

func sampleData() cricket.ScrapedData {
	return cricket.ScrapedData{
		DataSource:  cricket.SourceOfficial,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}

func newTestPoller(t *testing.T, cfg Config) *Poller {
	t.Helper()
	cfg.Logger = logging.NewNop()
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func TestNew_RequiresFetcher(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_ClampsInterval(t *testing.T) {
	t.Parallel()

	p := newTestPoller(t, Config{
		Fetcher:  FetcherFunc(func(context.Context) (cricket.ScrapedData, error) { return sampleData(), nil }),
		Interval: time.Second,
	})
	assert.Equal(t, preferences.MinRefreshInterval, p.interval)

	p = newTestPoller(t, Config{
		Fetcher: FetcherFunc(func(context.Context) (cricket.ScrapedData, error) { return sampleData(), nil }),
	})
	assert.Equal(t, preferences.DefaultRefreshInterval, p.interval)

	p.SetInterval(time.Hour)
	assert.Equal(t, preferences.MaxRefreshInterval, <-p.intervalCh)
}

func TestPoller_HaltsAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	fetchErr := crerr.New("backend down")
	var errSeen atomic.Int32
	p := newTestPoller(t, Config{
		Fetcher: FetcherFunc(func(context.Context) (cricket.ScrapedData, error) {
			return cricket.ScrapedData{}, fetchErr
		}),
		FailureThreshold: 3,
		OnError:          func(error) { errSeen.Add(1) },
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p.runOnce(ctx, true)
	}

	snap := p.Snapshot()
	// Polling stays true through a halt; consumers detect the halted circuit
	// from the error count, not from Polling flipping.
	assert.True(t, snap.Polling)
	assert.Equal(t, 3, snap.ConsecutiveErrors)
	assert.ErrorIs(t, snap.LastError, fetchErr)
	assert.True(t, p.isHalted())
	assert.Equal(t, int32(3), errSeen.Load())
}

func TestPoller_SuccessResetsFailureRun(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	fail.Store(true)
	p := newTestPoller(t, Config{
		Fetcher: FetcherFunc(func(context.Context) (cricket.ScrapedData, error) {
			if fail.Load() {
				return cricket.ScrapedData{}, crerr.New("flaky")
			}
			return sampleData(), nil
		}),
		FailureThreshold: 3,
	})

	ctx := context.Background()
	p.runOnce(ctx, true)
	p.runOnce(ctx, true)
	assert.Equal(t, 2, p.Snapshot().ConsecutiveErrors)

	fail.Store(false)
	p.runOnce(ctx, true)

	snap := p.Snapshot()
	assert.True(t, snap.Polling)
	assert.Zero(t, snap.ConsecutiveErrors)
	assert.NoError(t, snap.LastError)
	require.NotNil(t, snap.Data)
	assert.Equal(t, cricket.SourceOfficial, snap.Data.DataSource)
}

func TestPoller_ManualRefreshResumesHaltedLoop(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	fail.Store(true)
	p := newTestPoller(t, Config{
		Fetcher: FetcherFunc(func(context.Context) (cricket.ScrapedData, error) {
			if fail.Load() {
				return cricket.ScrapedData{}, crerr.New("backend down")
			}
			return sampleData(), nil
		}),
		FailureThreshold: 2,
	})

	ctx := context.Background()
	p.runOnce(ctx, true)
	p.runOnce(ctx, true)
	require.True(t, p.isHalted())

	fail.Store(false)
	p.manualRefresh(ctx)

	snap := p.Snapshot()
	assert.True(t, snap.Polling)
	assert.Zero(t, snap.ConsecutiveErrors)
	require.NotNil(t, snap.Data)
}

func TestPoller_MirrorShortCircuitsAutomaticRefresh(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	mirror := cache.NewStore(time.Minute)
	p := newTestPoller(t, Config{
		Fetcher: FetcherFunc(func(context.Context) (cricket.ScrapedData, error) {
			fetches.Add(1)
			return sampleData(), nil
		}),
		Mirror:    mirror,
		MirrorTTL: time.Minute,
	})

	ctx := context.Background()

	// First automatic run misses the mirror and fetches.
	p.runOnce(ctx, false)
	assert.Equal(t, int32(1), fetches.Load())

	// Second automatic run is served from the mirror and stamped as such.
	p.runOnce(ctx, false)
	assert.Equal(t, int32(1), fetches.Load())
	snap := p.Snapshot()
	require.NotNil(t, snap.Data)
	assert.Equal(t, cricket.SourceCache, snap.Data.DataSource)

	// A manual refresh invalidates the mirror and fetches again.
	p.manualRefresh(ctx)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestPoller_SuccessCallbackReceivesData(t *testing.T) {
	t.Parallel()

	got := make(chan cricket.ScrapedData, 1)
	p := newTestPoller(t, Config{
		Fetcher:   FetcherFunc(func(context.Context) (cricket.ScrapedData, error) { return sampleData(), nil }),
		OnSuccess: func(d cricket.ScrapedData) { got <- d },
	})

	p.runOnce(context.Background(), true)
	select {
	case d := <-got:
		assert.Equal(t, cricket.SourceOfficial, d.DataSource)
	default:
		t.Fatal("success callback not invoked")
	}
}

func TestPoller_StartStop(t *testing.T) {
	t.Parallel()

	p := newTestPoller(t, Config{
		Fetcher: FetcherFunc(func(context.Context) (cricket.ScrapedData, error) { return sampleData(), nil }),
	})

	p.Start(context.Background())
	deadline := time.After(2 * time.Second)
	for p.Snapshot().Data == nil {
		select {
		case <-deadline:
			t.Fatal("initial fetch never completed")
		case <-time.After(10 * time.Millisecond):
		}
	}
	p.Stop()
	assert.False(t, p.Snapshot().Polling)

	// Stop without Start must not block.
	q := newTestPoller(t, Config{
		Fetcher: FetcherFunc(func(context.Context) (cricket.ScrapedData, error) { return sampleData(), nil }),
	})
	q.Stop()
}

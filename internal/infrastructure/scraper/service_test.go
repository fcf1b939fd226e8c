package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
)

const standingsPage = `
	<table><tbody>
		<tr><td>1</td><td>Mumbai Indians</td><td>14</td><td>10</td><td>4</td><td>20</td><td>1.234</td></tr>
		<tr><td>2</td><td>Chennai Super Kings</td><td>14</td><td>9</td><td>5</td><td>18</td><td>0.412</td></tr>
	</tbody></table>`

const fixturesPage = `
	<div class="fixture"><span class="team1">Rajasthan Royals</span><span class="team2">Gujarat Titans</span></div>
	<div class="fixture"><span class="team1">Punjab Kings</span><span class="team2">Delhi Capitals</span></div>`

func newTestService(t *testing.T, cfg ServiceConfig) *Service {
	t.Helper()
	if cfg.Client == nil {
		cfg.Client = NewClient(ClientConfig{Logger: logging.NewNop()})
	}
	cfg.Logger = logging.NewNop()
	svc, err := NewService(cfg)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestService_AcquireOfficialData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(standingsPage))
	}))
	t.Cleanup(srv.Close)

	svc := newTestService(t, ServiceConfig{PrimaryURL: srv.URL})
	got := svc.Acquire(context.Background())

	require.False(t, got.Fallback())
	require.NoError(t, got.FallbackReason)
	assert.Equal(t, cricket.SourceOfficial, got.Data.DataSource)
	require.Len(t, got.Data.PointsTable, 2)
	assert.Equal(t, "MI", got.Data.PointsTable[0].Team.ShortName)
	assert.Equal(t, 20, got.Data.PointsTable[0].Points)

	// Sections the page lacked come back empty, never nil, and the schedule
	// mirrors the fixture list.
	assert.NotNil(t, got.Data.UpcomingMatches)
	assert.Equal(t, got.Data.UpcomingMatches, got.Data.Schedule)
	assert.Empty(t, got.Data.HistoricalMatches)
}

func TestService_FallsBackOnServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	svc := newTestService(t, ServiceConfig{PrimaryURL: srv.URL})
	got := svc.Acquire(context.Background())

	require.True(t, got.Fallback())
	assert.Error(t, got.FallbackReason)
	assert.Equal(t, cricket.SourceFallback, got.Data.DataSource)
	assert.Len(t, got.Data.PointsTable, 5)
	assert.Len(t, got.Data.UpcomingMatches, 2)
	assert.Len(t, got.Data.HistoricalMatches, 5)
}

func TestService_FallsBackOnEmptyMarkup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>maintenance window</p></body></html>`))
	}))
	t.Cleanup(srv.Close)

	svc := newTestService(t, ServiceConfig{PrimaryURL: srv.URL})
	got := svc.Acquire(context.Background())

	require.True(t, got.Fallback())
	assert.ErrorIs(t, got.FallbackReason, errNoUsableContent)
}

func TestService_SecondaryPageFillsEmptySection(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(standingsPage))
	})
	mux.HandleFunc("/matches", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(fixturesPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := newTestService(t, ServiceConfig{
		PrimaryURL: srv.URL + "/",
		MatchesURL: srv.URL + "/matches",
	})
	got := svc.Acquire(context.Background())

	require.False(t, got.Fallback())
	require.Len(t, got.Data.UpcomingMatches, 2)
	assert.Equal(t, "Rajasthan Royals", got.Data.UpcomingMatches[0].Team1.Name)
	require.Len(t, got.Data.PointsTable, 2)
	assert.Equal(t, got.Data.UpcomingMatches, got.Data.Schedule)
}

func TestService_SecondaryFailureLeavesSectionEmpty(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(standingsPage))
	})
	mux.HandleFunc("/matches", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := newTestService(t, ServiceConfig{
		PrimaryURL: srv.URL + "/",
		MatchesURL: srv.URL + "/matches",
	})
	got := svc.Acquire(context.Background())

	require.False(t, got.Fallback())
	assert.Empty(t, got.Data.UpcomingMatches)
	require.Len(t, got.Data.PointsTable, 2)
}

package dashclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
)

func TestClient_FetchDecodesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/scrape", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"liveMatch": null,
			"upcomingMatches": [],
			"pointsTable": [{"team":{"id":"mumbaiindians","name":"Mumbai Indians","shortName":"MI"},"played":14,"won":10,"lost":4,"tied":0,"noResult":0,"points":20,"netRunRate":1.234,"position":1}],
			"schedule": [],
			"lastUpdated": "2026-04-10T18:00:00Z",
			"dataSource": "official",
			"cacheStatus": "hit",
			"cacheAge": 42.5
		}`))
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	data, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cricket.SourceOfficial, data.DataSource)
	require.Len(t, data.PointsTable, 1)
	assert.Equal(t, "MI", data.PointsTable[0].Team.ShortName)
	assert.Equal(t, 20, data.PointsTable[0].Points)
}

func TestClient_FetchRejectsNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background())
	assert.Error(t, err)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	assert.Error(t, err)
}

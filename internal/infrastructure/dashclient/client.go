// Package dashclient is the Go client for the dashboard HTTP API, used by
// the embedded poller and by external consumers.
package dashclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

type Config struct {
	// BaseURL of the dashboard API, without the /api/scrape path.
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches dashboard datasets over HTTP. The endpoint always answers
// 200 with a complete dataset, so any non-200 or decode failure is a real
// error worth surfacing to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// dashboardEnvelope mirrors the /api/scrape wire format.
type dashboardEnvelope struct {
	cricket.ScrapedData
	CacheStatus     string  `json:"cacheStatus"`
	CacheAgeSeconds float64 `json:"cacheAge"`
	Error           string  `json:"error,omitempty"`
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, crerr.New("dashclient: base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// Fetch retrieves the current dashboard dataset.
func (c *Client) Fetch(ctx context.Context) (cricket.ScrapedData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/scrape", nil)
	if err != nil {
		return cricket.ScrapedData{}, crerr.Wrap(err, "dashclient: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cricket.ScrapedData{}, crerr.Wrap(err, "dashclient: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cricket.ScrapedData{}, crerr.Newf("dashclient: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return cricket.ScrapedData{}, crerr.Wrap(err, "dashclient: read response")
	}

	var envelope dashboardEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return cricket.ScrapedData{}, crerr.Wrap(err, "dashclient: decode response")
	}

	return envelope.ScrapedData, nil
}

package scraper

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/resilience"
)

const (
	defaultTimeout  = 15 * time.Second
	maxDocumentSize = 6 << 20
)

var errSourceTransient = crerr.New("source transient failure")

// Browser-like headers; the origin serves different markup to obvious bots.
// Accept-Encoding is left to the transport so gzip is decompressed for us.
var documentHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches HTML documents from the data origin. Retries cover
// transient transport failures; the breaker stops hammering an origin that
// keeps failing; singleflight collapses concurrent fetches of one URL.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
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
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchDocument downloads pageURL and parses it into a selector-queryable
// document.
func (c *Client) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, crerr.New("page url is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "source circuit breaker rejected fetch", "state", c.breaker.State())
			return nil, err
		}
	}

	out, err, _ := c.flight.Do(pageURL, func() (any, error) {
		doc, reqErr := c.fetchOnce(ctx, pageURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errSourceTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return doc, reqErr
	})
	if err != nil {
		return nil, err
	}

	doc, ok := out.(*goquery.Document)
	if !ok {
		return nil, crerr.Newf("unexpected fetch payload type %T", out)
	}
	return doc, nil
}

func (c *Client) fetchOnce(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		doc, err := c.executeRequest(ctx, pageURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !crerr.Is(err, errSourceTransient) {
			return nil, err
		}
		if attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

func (c *Client) executeRequest(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	for key, value := range documentHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(errSourceTransient, "fetch document: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxDocumentSize)); err != nil {
		return nil, crerr.Wrapf(errSourceTransient, "read document body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, crerr.Wrapf(errSourceTransient, "source status=%d", resp.StatusCode)
		}
		return nil, crerr.Newf("source status=%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.B))
	if err != nil {
		return nil, crerr.Wrap(err, "parse document")
	}
	return doc, nil
}

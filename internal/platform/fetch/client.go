// Package fetch is the JSON-over-HTTP core shared by the provider clients.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
	"github.com/riskibarqy/tennis-history/internal/platform/resilience"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 6 << 20
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var (
	ErrNotFound     = errors.New("provider resource not found")
	ErrAccessDenied = errors.New("provider denied access")
	ErrUnavailable  = errors.New("provider temporarily unavailable")

	errTransient = crerr.New("transient provider failure")
)

// IsTransient reports whether err was marked retryable.
func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

type Config struct {
	Provider   string
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	Retry      resilience.RetryPolicy
	Breaker    resilience.BreakerConfig
	Logger     *logging.Logger
	Metrics    *metrics.Recorder
}

type Client struct {
	provider   string
	httpClient *http.Client
	baseURL    string
	userAgent  string
	retry      resilience.RetryPolicy
	breaker    *resilience.Breaker
	logger     *logging.Logger
	metrics    *metrics.Recorder
	flight     resilience.Flight[[]byte]
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("provider", cfg.Provider)

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	retry := cfg.Retry
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}

	breaker := resilience.NewBreaker(cfg.Breaker)
	breaker.OnTransition(func(from, to resilience.State) {
		logger.Warn("provider circuit breaker changed state", "from", string(from), "to", string(to))
	})

	return &Client{
		provider:   cfg.Provider,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent:  userAgent,
		retry:      retry,
		breaker:    breaker,
		logger:     logger,
		metrics:    cfg.Metrics,
	}
}

// GetJSON fetches path under the base URL and decodes the body into target.
// Identical concurrent requests share one round trip.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) error {
	raw, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		c.metrics.ProviderRequest(c.provider, "decode_error")
		return crerr.Wrapf(err, "decode %s payload %s", c.provider, path)
	}
	return nil
}

// Get returns the raw body of a successful response.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.metrics.ProviderRequest(c.provider, "rejected")
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "path", path, "state", string(c.breaker.State()))
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, c.provider)
	}

	fullURL := c.buildURL(path, query)
	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		raw, reqErr := c.execute(ctx, fullURL)
		c.breaker.Record(reqErr != nil && IsTransient(reqErr))
		c.metrics.ProviderRequest(c.provider, outcome(reqErr))
		return raw, reqErr
	})
	return raw, err
}

func (c *Client) buildURL(path string, query url.Values) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	if !strings.HasPrefix(path, "/") {
		_ = buf.WriteByte('/')
	}
	_, _ = buf.WriteString(path)
	if encoded := query.Encode(); encoded != "" {
		_ = buf.WriteByte('?')
		_, _ = buf.WriteString(encoded)
	}
	return buf.String()
}

func (c *Client) execute(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		raw, err := c.roundTrip(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !IsTransient(err) || attempt == c.retry.MaxRetries {
			break
		}
		c.logger.DebugContext(ctx, "retrying provider request", "url", fullURL, "attempt", attempt+1, "error", err)
		if waitErr := c.retry.Wait(ctx, attempt); waitErr != nil {
			return nil, waitErr
		}
	}

	if !errors.Is(lastErr, ErrNotFound) {
		c.logger.WarnContext(ctx, "provider request failed", "url", fullURL, "error", lastErr)
	}
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, crerr.Mark(crerr.Wrap(err, "send request"), errTransient)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, crerr.Mark(crerr.Wrap(readErr, "read response body"), errTransient)
	}

	switch status := resp.StatusCode; {
	case status >= 200 && status < 300:
		return raw, nil
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: status=%d", ErrNotFound, status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrAccessDenied, status, abbreviate(raw))
	case isRetryableStatus(status):
		return nil, crerr.Mark(crerr.Newf("provider status=%d body=%s", status, abbreviate(raw)), errTransient)
	default:
		return nil, crerr.Newf("provider status=%d body=%s", status, abbreviate(raw))
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAccessDenied):
		return "denied"
	case IsTransient(err):
		return "transient"
	default:
		return "error"
	}
}

func abbreviate(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

// Package httpclient provides the HTTP client shared by the upstream
// adapters: bounded timeout, optional retries and rate limiting.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"finsight/internal/platform/errors"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/rate"
)

// Client is an HTTP client with retry logic, rate limiting and timeout.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout. Default: 5 seconds.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts. Default: 0,
	// a failed source is excluded within the aggregation pass instead
	// of retried.
	MaxRetries int

	// RetryBackoff is the initial backoff duration between retries.
	RetryBackoff time.Duration

	// UserAgent is the User-Agent header value.
	UserAgent string

	// RateLimit is the maximum requests per second (0 = no limit).
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        5 * time.Second,
		MaxRetries:     0,
		RetryBackoff:   500 * time.Millisecond,
		UserAgent:      "finsight/1.0 (+https://github.com/finsight/finsight)",
		RateLimit:      0,
		RateLimitBurst: 1,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 500 * time.Millisecond
	}
	if config.UserAgent == "" {
		config.UserAgent = "finsight/1.0"
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = 1
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: limiter,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}
}

// Get performs a GET request with retry logic and rate limiting.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limit wait failed")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create request for %s", url)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Warn("HTTP request failed",
				"url", url,
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			lastErr = err
			if attempt >= c.config.MaxRetries {
				break
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Wrap(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("HTTP response received",
			"url", url,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if !c.isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastErr = CheckStatus(resp)
		resp.Body.Close()
		if attempt >= c.config.MaxRetries {
			break
		}
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", c.config.MaxRetries+1)
}

// isRetryableStatus checks if a status code should trigger a retry.
func (c *Client) isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// backoff implements exponential backoff between retries.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	wait := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// FetchJSON performs a GET request and returns the validated body bytes.
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	return c.FetchJSONWithHeaders(ctx, url, nil)
}

// FetchJSONWithHeaders es FetchJSON con headers extra (auth tokens, etc.).
func (c *Client) FetchJSONWithHeaders(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	h := map[string]string{"Accept": "application/json"}
	for k, v := range headers {
		h[k] = v
	}

	resp, err := c.Get(ctx, url, h)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}

	return ReadBody(resp)
}

// FetchHTML performs a GET request expecting an HTML body and returns the
// open response. El caller es responsable de cerrar el body.
func (c *Client) FetchHTML(ctx context.Context, url string) (*http.Response, error) {
	resp, err := c.Get(ctx, url, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}
	return resp, nil
}

// ReadBody reads the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return body, nil
}

// CheckStatus validates the HTTP status code, mapping known failures to
// the shared sentinel errors.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return errors.ErrRateLimit
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return errors.ErrServiceUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}

// String returns a human-readable representation of the configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, rate_limit=%.1f/s}",
		c.config.Timeout, c.config.MaxRetries, c.config.RateLimit)
}

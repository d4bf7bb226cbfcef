package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	DefaultUserAgent    = "Mozilla/5.0 (compatible; gutenshelf/1.0)"
	DefaultFetchTimeout = 60 * time.Second
	DefaultMaxBytes     = 200 << 20
)

// statusError is a non-2xx HTTP response.
type statusError struct {
	URL        string
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *statusError) notFound() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

// HTTPConfig holds configuration shared by the HTTP-based fetchers.
type HTTPConfig struct {
	UserAgent string
	Timeout   time.Duration // Per attempt
	MaxBytes  int64
	Limiter   *RateLimiter // Optional
	Client    *http.Client // Defaults to a client without its own timeout
	Logger    *slog.Logger
}

// httpClient performs polite, bounded GET requests.
type httpClient struct {
	userAgent string
	timeout   time.Duration
	maxBytes  int64
	limiter   *RateLimiter
	client    *http.Client
	logger    *slog.Logger
}

func newHTTPClient(cfg HTTPConfig) *httpClient {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultFetchTimeout
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &httpClient{
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		maxBytes:  cfg.MaxBytes,
		limiter:   cfg.Limiter,
		client:    cfg.Client,
		logger:    cfg.Logger,
	}
}

// get fetches url within timeout. Responses larger than maxBytes fail.
func (c *httpClient) get(ctx context.Context, url string, timeout time.Duration, maxBytes int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
		c.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, maxBytes)
	}

	c.logger.Debug("http get", "url", url, "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}

// HTTPFetcher downloads a candidate's URL directly.
type HTTPFetcher struct {
	http *httpClient
}

// NewHTTPFetcher creates a direct URL fetcher.
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	return &HTTPFetcher{http: newHTTPClient(cfg)}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, c Candidate) (*FetchResult, error) {
	data, err := f.http.get(ctx, c.Location, f.http.timeout, f.http.maxBytes)
	if err != nil {
		return nil, &FetchError{Candidate: c, Kind: classify(err), Err: err}
	}
	return &FetchResult{Data: data, Candidate: c, URL: c.Location}, nil
}

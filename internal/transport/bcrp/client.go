// Package bcrp talks to the BCRP statistics endpoints: the full metadata
// catalog download and the numeric series data API. All requests go through a
// shared politeness rate limiter; the upstream is known to throttle bursty
// clients.
package bcrp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://estadisticas.bcrp.gob.pe/estadisticas/series"
	defaultTimeout    = 30 * time.Second
	metadataTimeout   = 120 * time.Second
	defaultRequestGap = 500 * time.Millisecond
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config holds the BCRP client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RequestGap time.Duration
	UserAgent  string
	Logger     *zap.Logger
}

// Client fetches metadata and series data from BCRP.
type Client struct {
	baseURL   string
	http      *http.Client
	metaHTTP  *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *zap.Logger
}

// NewClient creates a BCRP API client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	gap := cfg.RequestGap
	if gap <= 0 {
		gap = defaultRequestGap
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		// The metadata download is ~17MB and slow on the upstream side.
		metaHTTP:  &http.Client{Timeout: metadataTimeout},
		limiter:   rate.NewLimiter(rate.Every(gap), 1),
		userAgent: ua,
		logger:    logger,
	}
}

// get performs a rate-limited GET.
func (c *Client) get(ctx context.Context, hc *http.Client, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bcrp request: %w", err)
	}
	return resp, nil
}

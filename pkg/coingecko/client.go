package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"cryptohealth-api/internal/cache"
)

const maxResponseBytes = 8 << 20

// Client wraps access to the CoinGecko REST API. Every read goes through the
// shared TTL cache when one is configured.
type Client struct {
	baseURL      string
	timeout      time.Duration
	apiKey       string
	apiKeyHeader string
	userAgent    string
	httpClient   *http.Client

	cache *cache.TTLCache
	ttl   cache.TTLSet
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAPIKey attaches an API key header to each request.
func WithAPIKey(header, key string) Option {
	return func(c *Client) {
		c.apiKey = key
		if header != "" {
			c.apiKeyHeader = header
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCache routes reads through the given cache using the per-endpoint TTLs.
func WithCache(tc *cache.TTLCache, ttl cache.TTLSet) Option {
	return func(c *Client) {
		c.cache = tc
		c.ttl = ttl
	}
}

// NewClient constructs a CoinGecko API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:      DefaultBaseURL,
		timeout:      DefaultTimeout,
		apiKeyHeader: DefaultAPIKeyHeader,
		userAgent:    "cryptohealth-api",
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}
	return client
}

// NewClientFromConfig builds a client from a loaded section config.
func NewClientFromConfig(cfg *Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithTimeout(cfg.Timeout),
		WithAPIKey(cfg.APIKeyHeader, cfg.APIKey),
		WithUserAgent(cfg.UserAgent),
	}
	return NewClient(append(base, opts...)...)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs a GET against path and decodes the JSON body into out.
// Failures of any kind surface as *UpstreamError.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return newUpstreamError(0, fmt.Sprintf("build request: %v", err), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return newUpstreamError(0, fmt.Sprintf("request timed out after %s", c.timeout), err)
		}
		return newUpstreamError(0, err.Error(), err)
	}
	defer resp.Body.Close()

	logx.WithContext(ctx).WithDuration(time.Since(start)).
		Debugf("coingecko: GET %s -> %d", path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		reason := http.StatusText(resp.StatusCode)
		if reason == "" {
			reason = "unexpected status"
		}
		return newUpstreamError(resp.StatusCode, reason, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return newUpstreamError(0, fmt.Sprintf("read response: %v", err), err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newUpstreamError(0, fmt.Sprintf("decode response: %v", err), err)
	}
	return nil
}

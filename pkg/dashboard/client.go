package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"cryptohealth-api/pkg/market"
	"cryptohealth-api/pkg/market/analysis"
	"cryptohealth-api/pkg/metrics"
)

const (
	DefaultTimeout   = 15 * time.Second
	maxResponseBytes = 8 << 20
)

// Client talks to the cryptohealth HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
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

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError carries the status and message of a non-2xx API reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// CoinsParams mirrors the /api/coins query. Zero values defer to the server defaults.
type CoinsParams struct {
	IDs            []string
	VsCurrency     string
	IncludeDetails *bool
}

// Analysis is the /api/coins/:id/analysis payload.
type Analysis struct {
	ID         string                     `json:"id"`
	VsCurrency string                     `json:"vsCurrency"`
	Metrics    *metrics.CalculatedMetrics `json:"metrics"`
	Analysis   *analysis.Result           `json:"analysis"`
}

func (c *Client) Coins(ctx context.Context, p CoinsParams) ([]market.CoinMetrics, error) {
	q := url.Values{}
	if len(p.IDs) > 0 {
		q.Set("ids", strings.Join(p.IDs, ","))
	}
	if p.VsCurrency != "" {
		q.Set("vs_currency", p.VsCurrency)
	}
	if p.IncludeDetails != nil {
		q.Set("include_details", strconv.FormatBool(*p.IncludeDetails))
	}
	var out []market.CoinMetrics
	if err := c.get(ctx, "/api/coins", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) History(ctx context.Context, id, timeframe, vsCurrency string) ([]market.HistoricalPoint, error) {
	var out []market.HistoricalPoint
	path := "/api/coins/" + url.PathEscape(id) + "/history"
	if err := c.get(ctx, path, timeframeQuery(timeframe, vsCurrency), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Analysis(ctx context.Context, id, timeframe, vsCurrency string) (*Analysis, error) {
	var out Analysis
	path := "/api/coins/" + url.PathEscape(id) + "/analysis"
	if err := c.get(ctx, path, timeframeQuery(timeframe, vsCurrency), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Overview(ctx context.Context, vsCurrency string) (*market.Overview, error) {
	q := url.Values{}
	if vsCurrency != "" {
		q.Set("vs_currency", vsCurrency)
	}
	var out market.Overview
	if err := c.get(ctx, "/api/market/overview", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func timeframeQuery(timeframe, vsCurrency string) url.Values {
	q := url.Values{}
	if timeframe != "" {
		q.Set("timeframe", timeframe)
	}
	if vsCurrency != "" {
		q.Set("vs_currency", vsCurrency)
	}
	return q
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dashboard: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dashboard: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("dashboard: read %s: %w", path, err)
	}
	logx.WithContext(ctx).WithDuration(time.Since(start)).Debugf("dashboard: GET %s status=%d", path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("dashboard: decode %s: %w", path, err)
	}
	return nil
}

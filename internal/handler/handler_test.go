package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/go-zero/rest/pathvar"

	"cryptohealth-api/internal/config"
	"cryptohealth-api/internal/errorx"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/confkit"
)

func TestMain(m *testing.M) {
	logx.Disable()
	httpx.SetErrorHandlerCtx(errorx.Handler)
	os.Exit(m.Run())
}

const marketsBody = `[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":100,"high_24h":110,"low_24h":90,
  "total_volume":50,"market_cap":1000,"price_change_percentage_24h":5,"sparkline_in_7d":{"price":[90,100]}}]`

func newServiceContext(t *testing.T, handler http.HandlerFunc) *svc.ServiceContext {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)
	return svc.NewServiceContext(config.Config{
		Env:                "test",
		DefaultCoins:       []string{"bitcoin"},
		DefaultVsCurrency:  "usd",
		MaxCoinsPerRequest: 2,
		RequestTimeoutMs:   2000,
		Upstream: confkit.Section[coingecko.Config]{Value: &coingecko.Config{
			BaseURL: upstream.URL,
			Timeout: 2 * time.Second,
		}},
	})
}

func routes(bodies map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}
}

func serve(h http.HandlerFunc, target string, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if vars != nil {
		req = pathvar.WithVars(req, vars)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorx.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestCoinsHandler(t *testing.T) {
	svcCtx := newServiceContext(t, routes(map[string]string{"/coins/markets": marketsBody}))

	rec := serve(CoinsHandler(svcCtx), "/api/coins?ids=bitcoin&include_details=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload []struct {
		Coin    map[string]any     `json:"coin"`
		Metrics map[string]float64 `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload, 1)
	require.Equal(t, "bitcoin", payload[0].Coin["id"])
	require.Contains(t, payload[0].Coin, "sparkline_in_7d")
	for _, k := range []string{"healthScore", "volatilityScore", "liquidityScore", "momentumScore", "developmentScore"} {
		require.Contains(t, payload[0].Metrics, k)
	}
	require.InDelta(t, 20.0, payload[0].Metrics["volatilityScore"], 1e-9)
}

func TestCoinsHandlerTooMany(t *testing.T) {
	svcCtx := newServiceContext(t, routes(nil))

	rec := serve(CoinsHandler(svcCtx), "/api/coins?ids=a,b,c", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "A maximum of 2 coins can be requested at once", decodeMessage(t, rec))
}

func TestCoinsHandlerUpstreamStatus(t *testing.T) {
	svcCtx := newServiceContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	rec := serve(CoinsHandler(svcCtx), "/api/coins?include_details=false", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "CoinGecko API error (429): Too Many Requests", decodeMessage(t, rec))
}

func TestHistoryHandler(t *testing.T) {
	svcCtx := newServiceContext(t, routes(map[string]string{
		"/coins/bitcoin/market_chart": `{"prices":[[1000,10],[2000,11]],"market_caps":[[1000,100]],"total_volumes":[]}`,
	}))

	rec := serve(HistoryHandler(svcCtx), "/api/coins/bitcoin/history?timeframe=7D", map[string]string{"id": "bitcoin"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[
		{"timestamp":1000,"price":10,"marketCap":100,"volume":0},
		{"timestamp":2000,"price":11,"marketCap":0,"volume":0}
	]`, rec.Body.String())
}

func TestHistoryHandlerValidation(t *testing.T) {
	svcCtx := newServiceContext(t, routes(nil))

	rec := serve(HistoryHandler(svcCtx), "/api/coins/bitcoin/history?timeframe=2W", map[string]string{"id": "bitcoin"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, `Invalid timeframe "2W". Supported: 1D, 7D, 30D, 90D, 1Y`, decodeMessage(t, rec))

	rec = serve(HistoryHandler(svcCtx), "/api/coins//history", map[string]string{"id": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Coin id is required", decodeMessage(t, rec))
}

func TestOverviewHandler(t *testing.T) {
	svcCtx := newServiceContext(t, routes(map[string]string{
		"/global":          `{"data":{"total_market_cap":{"usd":5},"total_volume":{"usd":2},"market_cap_percentage":{"btc":50},"market_cap_change_percentage_24h_usd":3}}`,
		"/search/trending": `{"coins":[{"item":{"id":"sui","symbol":"SUI","score":0,"name":"Sui"}}]}`,
	}))

	rec := serve(OverviewHandler(svcCtx), "/api/market/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"totalMarketCap":5,"totalVolume":2,"marketCapChange24h":3,
		"dominance":{"btc":50},
		"trending":[{"id":"sui","symbol":"SUI","score":0}]
	}`, rec.Body.String())
}

func TestAnalysisHandler(t *testing.T) {
	svcCtx := newServiceContext(t, routes(map[string]string{
		"/coins/markets":              marketsBody,
		"/coins/bitcoin/market_chart": `{"prices":[[1,100],[2,102],[3,101],[4,105]],"total_volumes":[[1,5],[2,6],[3,5],[4,9]]}`,
	}))

	rec := serve(AnalysisHandler(svcCtx), "/api/coins/bitcoin/analysis?timeframe=1D", map[string]string{"id": "bitcoin"})
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		ID       string `json:"id"`
		Metrics  map[string]float64
		Analysis struct {
			Timeframe string `json:"timeframe"`
			Points    int    `json:"points"`
			Signals   []struct {
				Kind string `json:"kind"`
			} `json:"signals"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "bitcoin", payload.ID)
	require.Equal(t, "1D", payload.Analysis.Timeframe)
	require.Equal(t, 4, payload.Analysis.Points)
	require.NotEmpty(t, payload.Analysis.Signals)
	require.Equal(t, "trend", payload.Analysis.Signals[0].Kind)
}

func TestHealthzHandler(t *testing.T) {
	svcCtx := newServiceContext(t, routes(nil))
	svcCtx.StartedAt = time.Now().Add(-90 * time.Second)

	rec := serve(HealthzHandler(svcCtx), "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Status string  `json:"status"`
		Uptime float64 `json:"uptime"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "ok", payload.Status)
	require.GreaterOrEqual(t, payload.Uptime, 90.0)
}

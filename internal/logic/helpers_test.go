package logic

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"

	"cryptohealth-api/internal/config"
	"cryptohealth-api/internal/errorx"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/confkit"
)

type upstream struct {
	mu     sync.Mutex
	hits   map[string]int
	server *httptest.Server
}

func (u *upstream) count(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

func newUpstream(t *testing.T, routes map[string]string, failing map[string]int) *upstream {
	t.Helper()
	u := &upstream{hits: map[string]int{}}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.hits[r.URL.Path]++
		u.mu.Unlock()
		if status, ok := failing[r.URL.Path]; ok {
			w.WriteHeader(status)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newTestServiceContext(t *testing.T, u *upstream) *svc.ServiceContext {
	t.Helper()
	logx.Disable()
	cfg := config.Config{
		Env:                "test",
		DefaultCoins:       []string{"bitcoin", "ethereum"},
		DefaultVsCurrency:  "usd",
		MaxCoinsPerRequest: 3,
		RequestTimeoutMs:   2000,
		Upstream: confkit.Section[coingecko.Config]{Value: &coingecko.Config{
			BaseURL:      u.server.URL,
			Timeout:      2 * time.Second,
			APIKeyHeader: coingecko.DefaultAPIKeyHeader,
		}},
	}
	return svc.NewServiceContext(cfg)
}

func requireCodeError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	gotStatus, body := errorx.Resolve(err)
	require.Equal(t, status, gotStatus)
	require.Equal(t, message, body.Message)
}

const marketsBody = `[
 {"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":100,"high_24h":110,"low_24h":90,
  "total_volume":50,"market_cap":1000,"price_change_percentage_24h":5},
 {"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":10,"high_24h":11,"low_24h":9,
  "total_volume":5,"market_cap":100,"price_change_percentage_24h":-2}
]`

const bitcoinDetailsBody = `{"id":"bitcoin",
 "developer_data":{"stars":1000,"forks":500,"commit_count_4_weeks":100,"pull_requests_merged":200},
 "community_data":{"twitter_followers":1000000,"reddit_subscribers":250000}}`

package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis/redistest"

	"cryptohealth-api/internal/cache"
	"cryptohealth-api/internal/config"
	"cryptohealth-api/internal/persistence/snapshot"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/confkit"
)

type fakeUpstream struct {
	mu       sync.Mutex
	hits     map[string]int
	throttle map[string]int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	throttled := f.throttle[r.URL.Path] > 0
	if throttled {
		f.throttle[r.URL.Path]--
	}
	f.mu.Unlock()
	if throttled {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	switch r.URL.Path {
	case "/coins/markets":
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":100}]`))
	case "/global":
		_, _ = w.Write([]byte(`{"data":{"total_market_cap":{"usd":1}}}`))
	case "/search/trending":
		_, _ = w.Write([]byte(`{"coins":[]}`))
	default:
		if r.URL.Query().Get("days") != "" {
			_, _ = w.Write([]byte(`{"prices":[[1,1]]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"bitcoin"}`))
	}
}

func (f *fakeUpstream) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func setup(t *testing.T, throttle map[string]int) (*svc.ServiceContext, *fakeUpstream, snapshot.Store) {
	t.Helper()
	logx.Disable()
	prev := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(prev) })

	up := &fakeUpstream{hits: map[string]int{}, throttle: throttle}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	svcCtx := svc.NewServiceContext(config.Config{
		Env:                "test",
		DefaultVsCurrency:  "usd",
		MaxCoinsPerRequest: 10,
		RequestTimeoutMs:   2000,
		Upstream: confkit.Section[coingecko.Config]{Value: &coingecko.Config{
			BaseURL: srv.URL,
			Timeout: 2 * time.Second,
		}},
	})
	store := snapshot.NewRedisStore(redistest.CreateRedis(t), time.Hour)
	svcCtx.Snapshots = snapshot.Refreshing(store)
	return svcCtx, up, store
}

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
}

func TestPrefetchWarmsSnapshots(t *testing.T) {
	svcCtx, up, store := setup(t, nil)
	rec := &sleepRecorder{}

	err := newPrefetcher(svcCtx, rec.sleep).run(context.Background(), plan{
		coins:      []string{"bitcoin"},
		vsCurrency: "usd",
		timeframes: []string{"1D", "7D"},
		pause:      time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, up.count("/coins/markets"))
	assert.Equal(t, 2, up.count("/coins/bitcoin/market_chart"))
	assert.Equal(t, 1, up.count("/global"))
	assert.Equal(t, 1, up.count("/search/trending"))
	// coins, two histories, overview
	assert.Len(t, rec.waits, 4)

	var overview types.MarketOverview
	ok, err := store.Load(context.Background(), cache.OverviewResponseKey("usd"), &overview)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, overview.TotalMarketCap)

	var history []types.HistoricalPoint
	ok, err = store.Load(context.Background(), cache.HistoryResponseKey("bitcoin", "usd", "7D"), &history)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, history, 1)
}

func TestPrefetchContinuesPastFailures(t *testing.T) {
	svcCtx, up, store := setup(t, map[string]int{"/coins/markets": 1, "/global": 1})
	rec := &sleepRecorder{}

	err := newPrefetcher(svcCtx, rec.sleep).run(context.Background(), plan{
		coins:      []string{"bitcoin"},
		vsCurrency: "usd",
		timeframes: []string{"30D"},
		pause:      time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coins [bitcoin]")
	assert.Contains(t, err.Error(), "market overview")
	// each upstream call is made once
	assert.Equal(t, 1, up.count("/coins/markets"))
	assert.Equal(t, 1, up.count("/global"))
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, rec.waits)

	var history []types.HistoricalPoint
	ok, err := store.Load(context.Background(), cache.HistoryResponseKey("bitcoin", "usd", "30D"), &history)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPrefetchStopsOnCancel(t *testing.T) {
	svcCtx, up, _ := setup(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newPrefetcher(svcCtx, (&sleepRecorder{}).sleep).run(ctx, plan{
		coins:      []string{"bitcoin"},
		vsCurrency: "usd",
		timeframes: []string{"1D"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), context.Canceled.Error())
	assert.Zero(t, up.count("/coins/markets"))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"1D", "7D"}, splitCSV(" 1d, ,7D", strings.ToUpper))
}

package logic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"cryptohealth-api/internal/types"
)

const chartBody = `{"prices":[[1000,10],[2000,11],[3000,12]],"market_caps":[[1000,100],[2000,110]],"total_volumes":[[1000,5]]}`

func TestHistoryZipsSeries(t *testing.T) {
	u := newUpstream(t, map[string]string{"/coins/bitcoin/market_chart": chartBody}, nil)
	l := NewHistoryLogic(context.Background(), newTestServiceContext(t, u))

	points, err := l.History(&types.HistoryRequest{ID: "bitcoin", Timeframe: "7D"})
	require.NoError(t, err)
	require.Equal(t, []types.HistoricalPoint{
		{Timestamp: 1000, Price: 10, MarketCap: 100, Volume: 5},
		{Timestamp: 2000, Price: 11, MarketCap: 110},
		{Timestamp: 3000, Price: 12},
	}, points)
}

func TestHistoryLowercasesCoinID(t *testing.T) {
	u := newUpstream(t, map[string]string{"/coins/bitcoin/market_chart": chartBody}, nil)
	l := NewHistoryLogic(context.Background(), newTestServiceContext(t, u))

	points, err := l.History(&types.HistoryRequest{ID: "BITCOIN", Timeframe: "1D"})
	require.NoError(t, err)
	require.Len(t, points, 3)
	require.Equal(t, 1, u.count("/coins/bitcoin/market_chart"))
}

func TestHistoryDefaultTimeframe(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query = map[string]string{"days": q.Get("days"), "interval": q.Get("interval"), "vs_currency": q.Get("vs_currency")}
		_, _ = w.Write([]byte(chartBody))
	}))
	defer server.Close()
	u := &upstream{hits: map[string]int{}, server: server}

	_, err := NewHistoryLogic(context.Background(), newTestServiceContext(t, u)).
		History(&types.HistoryRequest{ID: "bitcoin", VsCurrency: "GBP"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"days": "30", "interval": "daily", "vs_currency": "gbp"}, query)
}

func TestHistoryValidation(t *testing.T) {
	u := newUpstream(t, nil, nil)
	l := NewHistoryLogic(context.Background(), newTestServiceContext(t, u))

	_, err := l.History(&types.HistoryRequest{ID: "bitcoin", Timeframe: "2D"})
	requireCodeError(t, err, http.StatusBadRequest, `Invalid timeframe "2D". Supported: 1D, 7D, 30D, 90D, 1Y`)

	_, err = l.History(&types.HistoryRequest{ID: "  ", Timeframe: "7D"})
	requireCodeError(t, err, http.StatusBadRequest, "Coin id is required")

	require.Zero(t, u.count("/coins/bitcoin/market_chart"))
}

func TestHistoryUnknownCoin(t *testing.T) {
	u := newUpstream(t, nil, nil)
	_, err := NewHistoryLogic(context.Background(), newTestServiceContext(t, u)).
		History(&types.HistoryRequest{ID: "nope"})
	requireCodeError(t, err, http.StatusNotFound, "CoinGecko API error (404): Not Found")
}

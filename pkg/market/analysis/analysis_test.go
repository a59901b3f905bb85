package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cryptohealth-api/pkg/market"
	"cryptohealth-api/pkg/metrics"
)

func ramp(n int, start, step float64) []market.HistoricalPoint {
	points := make([]market.HistoricalPoint, n)
	for i := range points {
		points[i] = market.HistoricalPoint{
			Timestamp: int64(i+1) * 86_400_000,
			Price:     start + float64(i)*step,
			Volume:    10,
		}
	}
	return points
}

func kinds(signals []Signal) []SignalKind {
	out := make([]SignalKind, len(signals))
	for i, s := range signals {
		out[i] = s.Kind
	}
	return out
}

func thirtyDays() market.Timeframe {
	tf, _ := market.ParseTimeframe("30D")
	return tf
}

func TestAnalyzeRisingSeries(t *testing.T) {
	history := ramp(30, 100, 1)
	history[29].Volume = 20
	m := &metrics.CalculatedMetrics{HealthScore: 71.6, LiquidityScore: 12.2, MomentumScore: 64.5}

	res, ok := Analyze(Input{History: history, Metrics: m, Timeframe: thirtyDays(), VsCurrency: "usd"})
	require.True(t, ok)
	require.Equal(t, 30, res.Points)
	require.Equal(t, "30D", res.Timeframe)

	require.InDelta(t, 29.0, *res.ChangePct, 1e-9)
	require.Equal(t, 100.0, *res.Support)
	require.Equal(t, 129.0, *res.Resistance)
	require.Equal(t, 103.0, *res.PercentileLow)
	require.Equal(t, 127.0, *res.PercentileHigh)
	require.Equal(t, 100.0, *res.RSI)
	require.InDelta(t, 20/(310.0/30)*100, *res.VolumeRatio, 1e-9)
	require.Greater(t, *res.EMAShort, *res.EMALong*1.01)

	require.InDelta(t, 1.0, *res.ForecastSlope, 1e-9)
	require.InDelta(t, 130.0, *res.ForecastPrice, 1e-9)
	require.InDelta(t, 1.0, *res.ForecastConfidence, 1e-9)
	require.InDelta(t, 100.0/129.0, *res.ForecastSlopePct, 1e-9)

	require.NotNil(t, res.AnnualVolatility)
	require.Greater(t, *res.AnnualVolatility, 0.0)

	require.Equal(t, []SignalKind{
		SignalTrend, SignalMovingAverage, SignalVolume, SignalVolatility,
		SignalRange, SignalHealth, SignalRSI, SignalRegression,
	}, kinds(res.Signals))

	require.Equal(t, "Uptrend", res.Signals[0].Title)
	require.Contains(t, res.Signals[0].Detail, "+29.00%")
	require.Contains(t, res.Signals[0].Detail, "last 30 days")
	require.Contains(t, res.Signals[1].Detail, "above the long EMA")
	require.Contains(t, res.Signals[2].Detail, "expanding")
	require.Contains(t, res.Signals[3].Detail, "calm")
	require.Contains(t, res.Signals[4].Detail, "103.00 USD")
	require.Contains(t, res.Signals[5].Detail, "Health score 72, liquidity 12, momentum 65")
	require.Contains(t, res.Signals[6].Detail, "overheated")
	require.Contains(t, res.Signals[7].Detail, "upward")
}

func TestAnalyzeFallingSeries(t *testing.T) {
	history := ramp(20, 200, -5)
	history[19].Volume = 5

	res, ok := Analyze(Input{History: history, Timeframe: thirtyDays()})
	require.True(t, ok)
	require.Less(t, *res.ChangePct, 0.0)
	require.InDelta(t, 0.0, *res.RSI, 1e-9)

	require.Equal(t, []SignalKind{
		SignalTrend, SignalMovingAverage, SignalVolume, SignalVolatility,
		SignalRange, SignalRSI, SignalRegression,
	}, kinds(res.Signals), "no health signal without metrics")
	require.Equal(t, "Under pressure", res.Signals[0].Title)
	require.Contains(t, res.Signals[1].Detail, "crossed below")
	require.Contains(t, res.Signals[2].Detail, "contracting")
	require.Contains(t, res.Signals[5].Detail, "oversold")
	require.Contains(t, res.Signals[6].Detail, "downward")
}

func TestAnalyzeSortsByTimestamp(t *testing.T) {
	history := ramp(10, 50, 2)
	reversed := make([]market.HistoricalPoint, len(history))
	for i := range history {
		reversed[len(history)-1-i] = history[i]
	}

	a, ok := Analyze(Input{History: history, Timeframe: thirtyDays()})
	require.True(t, ok)
	b, ok := Analyze(Input{History: reversed, Timeframe: thirtyDays()})
	require.True(t, ok)
	require.Equal(t, a, b)
	require.Equal(t, int64(10*86_400_000), reversed[0].Timestamp, "input order is untouched")
}

func TestAnalyzeTwoPoints(t *testing.T) {
	history := []market.HistoricalPoint{
		{Timestamp: 1, Price: 100},
		{Timestamp: 2, Price: 90},
	}
	res, ok := Analyze(Input{History: history, Timeframe: market.Timeframe{Key: "1D", Days: 1}, VsCurrency: "eur"})
	require.True(t, ok)

	require.Nil(t, res.RSI)
	require.Nil(t, res.ForecastPrice)
	require.Nil(t, res.ForecastSlopePct)
	require.Nil(t, res.AnnualVolatility)
	require.Nil(t, res.VolumeRatio)
	require.NotNil(t, res.EMAShort)
	require.Equal(t, *res.EMAShort, *res.EMALong)

	require.Equal(t, []SignalKind{SignalTrend, SignalMovingAverage, SignalRange}, kinds(res.Signals))
	require.Contains(t, res.Signals[0].Detail, "last 24 hours")
	require.Contains(t, res.Signals[0].Detail, "-10.00%")
	require.Contains(t, res.Signals[1].Detail, "no clear trend")
	require.Contains(t, res.Signals[2].Detail, "90.00 EUR")
}

func TestAnalyzeInsufficientHistory(t *testing.T) {
	_, ok := Analyze(Input{})
	require.False(t, ok)

	_, ok = Analyze(Input{History: []market.HistoricalPoint{{Timestamp: 1, Price: 10}}})
	require.False(t, ok)

	_, ok = Analyze(Input{History: []market.HistoricalPoint{
		{Timestamp: 1, Price: 10},
		{Timestamp: 2, Price: 0},
		{Timestamp: 3, Price: -1},
	}})
	require.False(t, ok, "non-positive prices are dropped")
}

func TestAnnualVolatility(t *testing.T) {
	// returns +10%, -10%: mean 0, sample variance 0.02
	vol, ok := annualVolatility([]float64{100, 110, 99})
	require.True(t, ok)
	require.InDelta(t, 0.1414213562*19.1049731745*100, vol, 1e-6)

	_, ok = annualVolatility([]float64{100, 110})
	require.False(t, ok)
}

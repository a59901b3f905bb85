// Package analysis turns a price history into the indicator readout and
// plain-language signals shown on the coin detail view.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cryptohealth-api/pkg/market"
	"cryptohealth-api/pkg/market/indicators"
	"cryptohealth-api/pkg/metrics"
)

const (
	shortEMAWindow = 12
	longEMAWindow  = 26
	daysPerYear    = 365

	emaBand = 0.01

	volumeExpanding   = 130.0
	volumeContracting = 80.0

	volatilityHigh = 120.0
	volatilityLow  = 60.0

	rsiOverbought = 70.0
	rsiOversold   = 30.0

	bandLowPct  = 10.0
	bandHighPct = 90.0
)

// SignalKind identifies which reading produced a signal.
type SignalKind string

const (
	SignalTrend         SignalKind = "trend"
	SignalMovingAverage SignalKind = "moving_average"
	SignalVolume        SignalKind = "volume"
	SignalVolatility    SignalKind = "volatility"
	SignalRange         SignalKind = "range"
	SignalHealth        SignalKind = "health"
	SignalRSI           SignalKind = "rsi"
	SignalRegression    SignalKind = "regression"
)

// Signal is one human readable observation.
type Signal struct {
	Kind   SignalKind `json:"kind"`
	Title  string     `json:"title"`
	Detail string     `json:"detail"`
}

// Result is the indicator readout for one history window. Nil fields could
// not be computed from the data available.
type Result struct {
	Timeframe          string   `json:"timeframe"`
	Points             int      `json:"points"`
	ChangePct          *float64 `json:"changePct"`
	AnnualVolatility   *float64 `json:"annualVolatility"`
	VolumeRatio        *float64 `json:"volumeRatio"`
	Support            *float64 `json:"support"`
	Resistance         *float64 `json:"resistance"`
	RSI                *float64 `json:"rsi"`
	EMAShort           *float64 `json:"emaShort"`
	EMALong            *float64 `json:"emaLong"`
	ForecastPrice      *float64 `json:"forecastPrice"`
	ForecastSlope      *float64 `json:"forecastSlope"`
	ForecastSlopePct   *float64 `json:"forecastSlopePct"`
	ForecastConfidence *float64 `json:"forecastConfidence"`
	PercentileLow      *float64 `json:"percentileLow"`
	PercentileHigh     *float64 `json:"percentileHigh"`
	Signals            []Signal `json:"signals"`
}

// Input bundles what Analyze reads. Metrics is optional.
type Input struct {
	History    []market.HistoricalPoint
	Metrics    *metrics.CalculatedMetrics
	Timeframe  market.Timeframe
	VsCurrency string
}

// Analyze computes the readout. It reports false when fewer than two
// positive prices are available.
func Analyze(in Input) (*Result, bool) {
	if len(in.History) < 2 {
		return nil, false
	}
	ordered := append([]market.HistoricalPoint(nil), in.History...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp < ordered[j].Timestamp })

	prices := make([]float64, 0, len(ordered))
	volumes := make([]float64, 0, len(ordered))
	for _, p := range ordered {
		if p.Price > 0 {
			prices = append(prices, p.Price)
		}
		if p.Volume >= 0 {
			volumes = append(volumes, p.Volume)
		}
	}
	if len(prices) < 2 {
		return nil, false
	}

	n := len(prices)
	first, last := prices[0], prices[n-1]
	res := &Result{
		Timeframe: in.Timeframe.Key,
		Points:    n,
		Signals:   []Signal{},
	}

	change := (last - first) / first * 100
	res.ChangePct = &change

	low, high := minMax(prices)
	res.Support, res.Resistance = &low, &high

	if vol, ok := annualVolatility(prices); ok {
		res.AnnualVolatility = &vol
	}

	var avgVolume float64
	if len(volumes) > 0 {
		avgVolume = mean(volumes)
		lastVolume := volumes[len(volumes)-1]
		if avgVolume != 0 && lastVolume != 0 {
			ratio := lastVolume / avgVolume * 100
			res.VolumeRatio = &ratio
		}
	}

	res.EMAShort = optional(indicators.EMA(prices, min(shortEMAWindow, n)))
	res.EMALong = optional(indicators.EMA(prices, min(longEMAWindow, n)))
	res.RSI = optional(indicators.RSI(prices, min(indicators.DefaultRSIPeriod, max(2, n-1))))

	reg, hasReg := indicators.LinearRegressionForecast(indicators.IndexSeries(prices))
	if hasReg {
		res.ForecastPrice = &reg.NextY
		res.ForecastSlope = &reg.Slope
		res.ForecastConfidence = &reg.RSquared
	}

	res.PercentileLow = optional(indicators.Percentile(prices, bandLowPct))
	res.PercentileHigh = optional(indicators.Percentile(prices, bandHighPct))

	res.Signals = append(res.Signals, trendSignal(change, in.Timeframe))
	if s, ok := movingAverageSignal(res.EMAShort, res.EMALong); ok {
		res.Signals = append(res.Signals, s)
	}
	if res.VolumeRatio != nil && avgVolume != 0 {
		res.Signals = append(res.Signals, volumeSignal(*res.VolumeRatio))
	}
	if res.AnnualVolatility != nil {
		res.Signals = append(res.Signals, volatilitySignal(*res.AnnualVolatility))
	}
	if nonZero(res.PercentileLow) && nonZero(res.PercentileHigh) {
		res.Signals = append(res.Signals, rangeSignal(*res.PercentileLow, *res.PercentileHigh, in.VsCurrency))
	}
	if in.Metrics != nil {
		res.Signals = append(res.Signals, healthSignal(*in.Metrics))
	}
	if res.RSI != nil {
		res.Signals = append(res.Signals, rsiSignal(*res.RSI))
	}
	if hasReg && last != 0 {
		slopePct := reg.Slope / last * 100
		res.ForecastSlopePct = &slopePct
		res.Signals = append(res.Signals, regressionSignal(slopePct, reg.RSquared))
	}
	return res, true
}

// annualVolatility is the sample standard deviation of simple returns,
// annualised over 365 periods, in percent.
func annualVolatility(prices []float64) (float64, bool) {
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prev := prices[i-1]; prev != 0 {
			returns = append(returns, (prices[i]-prev)/prev)
		}
	}
	if len(returns) < 2 {
		return 0, false
	}
	m := mean(returns)
	var ss float64
	for _, r := range returns {
		ss += (r - m) * (r - m)
	}
	variance := math.Max(ss/float64(len(returns)-1), 0)
	return math.Sqrt(variance) * math.Sqrt(daysPerYear) * 100, true
}

func trendSignal(change float64, tf market.Timeframe) Signal {
	title, tail := "Uptrend", "upward momentum continues"
	if change < 0 {
		title, tail = "Under pressure", "watch for further downside"
	}
	return Signal{
		Kind:   SignalTrend,
		Title:  title,
		Detail: fmt.Sprintf("Price moved about %s over the %s; %s.", formatPercent(change), timeframeLabel(tf), tail),
	}
}

func movingAverageSignal(short, long *float64) (Signal, bool) {
	if !nonZero(short) || !nonZero(long) {
		return Signal{}, false
	}
	var detail string
	switch {
	case *short > *long*(1+emaBand):
		detail = "Short EMA is above the long EMA; momentum is strong."
	case *short < *long*(1-emaBand):
		detail = "Short EMA has crossed below the long EMA; momentum is fading."
	default:
		detail = "Short and long EMAs are close; no clear trend."
	}
	return Signal{Kind: SignalMovingAverage, Title: "Moving averages", Detail: detail}, true
}

func volumeSignal(ratio float64) Signal {
	state := "volume is steady"
	switch {
	case ratio >= volumeExpanding:
		state = "volume is expanding"
	case ratio <= volumeContracting:
		state = "volume is contracting"
	}
	return Signal{
		Kind:   SignalVolume,
		Title:  "Volume",
		Detail: fmt.Sprintf("Latest volume is about %.0f%% of the period average; %s.", ratio, state),
	}
}

func volatilitySignal(vol float64) Signal {
	state := "within the usual range"
	switch {
	case vol >= volatilityHigh:
		state = "elevated risk"
	case vol <= volatilityLow:
		state = "calm conditions"
	}
	return Signal{
		Kind:   SignalVolatility,
		Title:  "Volatility",
		Detail: fmt.Sprintf("Annualised volatility is about %.1f%%; %s.", vol, state),
	}
}

func rangeSignal(low, high float64, vsCurrency string) Signal {
	return Signal{
		Kind:   SignalRange,
		Title:  "Support / resistance",
		Detail: fmt.Sprintf("Estimated support %s, resistance %s.", formatCurrency(low, vsCurrency), formatCurrency(high, vsCurrency)),
	}
}

func healthSignal(m metrics.CalculatedMetrics) Signal {
	return Signal{
		Kind:  SignalHealth,
		Title: "Health",
		Detail: fmt.Sprintf("Health score %.0f, liquidity %.0f, momentum %.0f.",
			math.Round(m.HealthScore), math.Round(m.LiquidityScore), math.Round(m.MomentumScore)),
	}
}

func rsiSignal(rsi float64) Signal {
	state := "neutral zone"
	switch {
	case rsi >= rsiOverbought:
		state = "overheated, a pullback is possible"
	case rsi <= rsiOversold:
		state = "weak demand, possibly oversold"
	}
	return Signal{
		Kind:   SignalRSI,
		Title:  "RSI",
		Detail: fmt.Sprintf("RSI is about %.1f; %s.", rsi, state),
	}
}

func regressionSignal(slopePct, rSquared float64) Signal {
	direction := "upward"
	if slopePct < 0 {
		direction = "downward"
	}
	return Signal{
		Kind:   SignalRegression,
		Title:  "Linear trend",
		Detail: fmt.Sprintf("Regression slope is %s (%.2f%% per step), fit %.0f%%.", direction, slopePct, rSquared*100),
	}
}

func timeframeLabel(tf market.Timeframe) string {
	switch {
	case tf.Days <= 0:
		return "selected period"
	case tf.Days == 1:
		return "last 24 hours"
	case tf.Days == daysPerYear:
		return "last year"
	default:
		return fmt.Sprintf("last %d days", tf.Days)
	}
}

func formatPercent(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

func formatCurrency(v float64, vsCurrency string) string {
	code := strings.ToUpper(strings.TrimSpace(vsCurrency))
	if code == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, code)
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

func nonZero(v *float64) bool {
	return v != nil && *v != 0
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Package indicators implements the scalar price indicators used by the
// coin analysis view. Every function reports ok=false instead of returning
// a value when the input cannot support the calculation.
package indicators

import (
	"math"
	"sort"
)

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// EMA returns the exponential moving average at the end of prices. The
// average is seeded with the first price and smoothed with k = 2/(window+1).
func EMA(prices []float64, window int) (float64, bool) {
	if window <= 0 || len(prices) < window {
		return 0, false
	}
	k := 2.0 / float64(window+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*k + ema*(1-k)
	}
	return ema, true
}

// RSI computes the Relative Strength Index at the end of prices. The first
// period differences are averaged, later ones are Wilder smoothed. A flat
// difference counts as a zero gain.
func RSI(prices []float64, period int) (float64, bool) {
	if period <= 0 || len(prices) <= period {
		return 0, false
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		diff := prices[i] - prices[i-1]
		if diff >= 0 {
			gainSum += diff
		} else {
			lossSum -= diff
		}
	}
	n := float64(period)
	avgGain := gainSum / n
	avgLoss := lossSum / n

	for i := period + 1; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		gain := math.Max(diff, 0)
		loss := math.Max(-diff, 0)
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
	}
	return computeRSI(avgGain, avgLoss), true
}

func computeRSI(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// Point is one (x, y) observation for regression.
type Point struct {
	X float64
	Y float64
}

// Regression is an ordinary least squares fit plus a one-step forecast.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	NextY     float64 `json:"nextY"`
	RSquared  float64 `json:"rSquared"`
}

// LinearRegressionForecast fits y = intercept + slope*x and forecasts y at
// the last x + 1. It needs at least three points with distinct x values.
func LinearRegressionForecast(points []Point) (Regression, bool) {
	n := float64(len(points))
	if len(points) < 3 {
		return Regression{}, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}
	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return Regression{}, false
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n
	nextX := points[len(points)-1].X + 1

	meanY := sumY / n
	var ssTot, ssRes float64
	for _, p := range points {
		ssTot += (p.Y - meanY) * (p.Y - meanY)
		residual := p.Y - (intercept + slope*p.X)
		ssRes += residual * residual
	}
	rSquared := 0.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return Regression{
		Slope:     slope,
		Intercept: intercept,
		NextY:     intercept + slope*nextX,
		RSquared:  rSquared,
	}, true
}

// IndexSeries pairs each value with its position.
func IndexSeries(values []float64) []Point {
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{X: float64(i), Y: v}
	}
	return points
}

// Percentile returns the nearest-rank percentile: the element at
// floor(pct/100*n) of the sorted values, clamped to the valid range.
// values is not modified.
func Percentile(values []float64, pct float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	idx := int(math.Floor(pct / 100 * float64(len(sorted))))
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx], true
}

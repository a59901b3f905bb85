// Package metrics derives the composite 0-100 scores shown next to every
// coin. All functions are pure.
package metrics

import (
	"math"

	"cryptohealth-api/pkg/coingecko"
)

const (
	// DefaultDevelopmentScore is the raw development score used when no
	// developer data is available.
	DefaultDevelopmentScore = 50.0
	// DefaultCommunityScore is the raw community score used when no
	// community data is available.
	DefaultCommunityScore = 40.0

	// change30dFallbackFactor extrapolates a 30d change from the 24h change
	// when the detail payload has none. Unverified heuristic.
	change30dFallbackFactor = 1.6
)

// CalculatedMetrics holds the five scores, each in [0,100].
type CalculatedMetrics struct {
	HealthScore      float64 `json:"healthScore"`
	VolatilityScore  float64 `json:"volatilityScore"`
	LiquidityScore   float64 `json:"liquidityScore"`
	MomentumScore    float64 `json:"momentumScore"`
	DevelopmentScore float64 `json:"developmentScore"`
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Scale returns the position of v inside [lo, hi] clamped to [0,1]. A zero
// width range yields 0.
func Scale(v, lo, hi float64) float64 {
	if hi-lo == 0 {
		return 0
	}
	return Clamp((v-lo)/(hi-lo), 0, 1)
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// PriceVolatilityRatio is the 24h range relative to the current price, or
// the absolute 24h change as a fraction when the range is unknown.
func PriceVolatilityRatio(coin coingecko.MarketCoin) float64 {
	high, low := deref(coin.High24h), deref(coin.Low24h)
	if high != 0 && low != 0 && coin.CurrentPrice != 0 {
		return (high - low) / coin.CurrentPrice
	}
	return math.Abs(coin.PriceChangePercentage24h) / 100
}

// LiquidityRatio is volume over market cap, 0 without a market cap.
func LiquidityRatio(coin coingecko.MarketCoin) float64 {
	return safeRatio(coin.TotalVolume, coin.MarketCap)
}

// Change7d prefers the sparkline, then the detail payload, then 0.
func Change7d(coin coingecko.MarketCoin, details *coingecko.CoinDetails) float64 {
	if coin.Sparkline7d != nil && len(coin.Sparkline7d.Price) > 0 {
		if base := coin.Sparkline7d.Price[0]; base != 0 {
			return (coin.CurrentPrice - base) / base * 100
		}
	}
	if details != nil && details.MarketData != nil {
		return deref(details.MarketData.PriceChangePercentage7d)
	}
	return 0
}

// Change30d uses the detail payload when present, else extrapolates from
// the 24h change.
func Change30d(coin coingecko.MarketCoin, details *coingecko.CoinDetails) float64 {
	if details != nil && details.MarketData != nil && details.MarketData.PriceChangePercentage30d != nil {
		return *details.MarketData.PriceChangePercentage30d
	}
	return coin.PriceChangePercentage24h * change30dFallbackFactor
}

func developmentRaw(details *coingecko.CoinDetails) float64 {
	if details == nil || details.DeveloperData == nil {
		return DefaultDevelopmentScore
	}
	dev := details.DeveloperData
	weighted := dev.Stars*0.2 + dev.Forks*0.2 + dev.CommitCount4Weeks*0.4 + dev.PullRequestsMerged*0.2
	return Clamp(Scale(weighted, 0, 500)*100, 0, 100)
}

func communityRaw(details *coingecko.CoinDetails) float64 {
	if details == nil || details.CommunityData == nil {
		return DefaultCommunityScore
	}
	c := details.CommunityData
	weighted := c.TwitterFollowers*0.00002 + c.RedditSubscribers*0.00004
	return Clamp(Scale(weighted, 0, 30)*100, 0, 100)
}

// Compute scores a coin. details may be nil.
func Compute(coin coingecko.MarketCoin, details *coingecko.CoinDetails) CalculatedMetrics {
	volatility := Clamp(100-Scale(PriceVolatilityRatio(coin), 0, 0.25)*100, 0, 100)
	liquidity := Clamp(Scale(LiquidityRatio(coin), 0, 1)*100, 0, 100)

	change24h := coin.PriceChangePercentage24h
	composite := (change24h*0.35 + Change7d(coin, details)*0.4 + Change30d(coin, details)*0.25) / 3
	momentum := Clamp(Scale(composite, -20, 20)*100, 0, 100)

	development := developmentRaw(details)
	community := communityRaw(details)

	health := Clamp(
		volatility*0.2+
			liquidity*0.3+
			momentum*0.25+
			development*0.15+
			community*0.1,
		0, 100)

	return CalculatedMetrics{
		HealthScore:      health,
		VolatilityScore:  volatility,
		LiquidityScore:   liquidity,
		MomentumScore:    momentum,
		DevelopmentScore: Clamp((development+community*0.4)/1.4, 0, 100),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

package market

import (
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/metrics"
)

// CoinMetrics pairs a listing entry with its computed scores.
type CoinMetrics struct {
	Coin    coingecko.MarketCoin      `json:"coin"`
	Metrics metrics.CalculatedMetrics `json:"metrics"`
}

// HistoricalPoint is one aligned sample of the chart series. Timestamp is
// unix milliseconds.
type HistoricalPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	MarketCap float64 `json:"marketCap"`
	Volume    float64 `json:"volume"`
}

// TrendingItem keeps only the identity and rank score of a trending coin.
type TrendingItem struct {
	ID     string  `json:"id"`
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

// Overview is the market-wide snapshot for one quote currency.
type Overview struct {
	TotalMarketCap     float64            `json:"totalMarketCap"`
	TotalVolume        float64            `json:"totalVolume"`
	MarketCapChange24h float64            `json:"marketCapChange24h"`
	Dominance          map[string]float64 `json:"dominance"`
	Trending           []TrendingItem     `json:"trending"`
}

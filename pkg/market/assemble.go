package market

import (
	"time"

	"cryptohealth-api/pkg/coingecko"
)

// ZipHistory aligns the three chart series by index. Prices drive the
// length; missing market cap or volume samples read as 0. now supplies the
// timestamp for a price sample without one.
func ZipHistory(chart *coingecko.MarketChart, now func() time.Time) []HistoricalPoint {
	if chart == nil {
		return []HistoricalPoint{}
	}
	if now == nil {
		now = time.Now
	}
	points := make([]HistoricalPoint, len(chart.Prices))
	for i, sample := range chart.Prices {
		ts := now().UnixMilli()
		if len(sample) > 0 {
			ts = int64(sample[0])
		}
		points[i] = HistoricalPoint{
			Timestamp: ts,
			Price:     pairValue(sample),
			MarketCap: seriesValue(chart.MarketCaps, i),
			Volume:    seriesValue(chart.TotalVolumes, i),
		}
	}
	return points
}

func seriesValue(series [][]float64, i int) float64 {
	if i >= len(series) {
		return 0
	}
	return pairValue(series[i])
}

func pairValue(sample []float64) float64 {
	if len(sample) < 2 {
		return 0
	}
	return sample[1]
}

// BuildOverview extracts the currency-specific aggregates and trims the
// trending list to id, symbol and score.
func BuildOverview(global *coingecko.GlobalResponse, trending *coingecko.TrendingResponse, vsCurrency string) Overview {
	overview := Overview{
		Dominance: map[string]float64{},
		Trending:  []TrendingItem{},
	}
	if global != nil {
		overview.TotalMarketCap = global.Data.TotalMarketCap[vsCurrency]
		overview.TotalVolume = global.Data.TotalVolume[vsCurrency]
		overview.MarketCapChange24h = global.Data.MarketCapChangePercentage24hUSD
		if global.Data.MarketCapPercentage != nil {
			overview.Dominance = global.Data.MarketCapPercentage
		}
	}
	if trending != nil {
		for _, c := range trending.Coins {
			overview.Trending = append(overview.Trending, TrendingItem{
				ID:     c.Item.ID,
				Symbol: c.Item.Symbol,
				Score:  c.Item.Score,
			})
		}
	}
	return overview
}

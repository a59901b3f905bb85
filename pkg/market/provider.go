package market

import (
	"context"

	"cryptohealth-api/pkg/coingecko"
)

// Provider exposes the upstream market-data reads the assemblers need.
// *coingecko.Client satisfies it.
type Provider interface {
	// Markets lists market snapshots for ids, in upstream listing order.
	Markets(ctx context.Context, ids []string, vsCurrency string, sparkline bool) ([]coingecko.MarketCoin, error)
	// MarketChart returns the raw parallel series for id over days.
	MarketChart(ctx context.Context, id, vsCurrency string, days int) (*coingecko.MarketChart, error)
	// Global returns the market-wide aggregates.
	Global(ctx context.Context) (*coingecko.GlobalResponse, error)
	// Trending returns the trending search list.
	Trending(ctx context.Context) (*coingecko.TrendingResponse, error)
	// CoinDetails returns optional per-coin detail sections.
	CoinDetails(ctx context.Context, id string) (*coingecko.CoinDetails, error)
}

var _ Provider = (*coingecko.Client)(nil)

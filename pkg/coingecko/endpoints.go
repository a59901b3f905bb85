package coingecko

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"cryptohealth-api/internal/cache"
)

const priceChangeWindows = "1h,24h,7d,30d,1y"

// Interval picks the chart granularity for a day span.
func Interval(days int) string {
	if days <= 1 {
		return "hourly"
	}
	return "daily"
}

// Markets lists market data for ids in vsCurrency.
func (c *Client) Markets(ctx context.Context, ids []string, vsCurrency string, sparkline bool) ([]MarketCoin, error) {
	key := cache.MarketsKey(vsCurrency, ids, sparkline)
	return cache.Wrap(ctx, c.cache, key, c.ttl.Default, func(ctx context.Context) ([]MarketCoin, error) {
		params := url.Values{}
		params.Set("vs_currency", vsCurrency)
		params.Set("ids", strings.Join(ids, ","))
		params.Set("sparkline", strconv.FormatBool(sparkline))
		params.Set("price_change_percentage", priceChangeWindows)
		params.Set("precision", "6")

		var coins []MarketCoin
		if err := c.doRequest(ctx, "/coins/markets", params, &coins); err != nil {
			return nil, err
		}
		return coins, nil
	})
}

// MarketChart returns the price, market cap and volume series for id.
func (c *Client) MarketChart(ctx context.Context, id, vsCurrency string, days int) (*MarketChart, error) {
	key := cache.MarketChartKey(id, vsCurrency, days)
	return cache.Wrap(ctx, c.cache, key, c.ttl.Default, func(ctx context.Context) (*MarketChart, error) {
		params := url.Values{}
		params.Set("vs_currency", vsCurrency)
		params.Set("days", strconv.Itoa(days))
		params.Set("interval", Interval(days))

		var chart MarketChart
		if err := c.doRequest(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", params, &chart); err != nil {
			return nil, err
		}
		return &chart, nil
	})
}

// Global returns market-wide aggregates.
func (c *Client) Global(ctx context.Context) (*GlobalResponse, error) {
	return cache.Wrap(ctx, c.cache, cache.GlobalKey(), c.ttl.Global, func(ctx context.Context) (*GlobalResponse, error) {
		var global GlobalResponse
		if err := c.doRequest(ctx, "/global", nil, &global); err != nil {
			return nil, err
		}
		return &global, nil
	})
}

// Trending returns the current trending search list.
func (c *Client) Trending(ctx context.Context) (*TrendingResponse, error) {
	return cache.Wrap(ctx, c.cache, cache.TrendingKey(), c.ttl.Trending, func(ctx context.Context) (*TrendingResponse, error) {
		var trending TrendingResponse
		if err := c.doRequest(ctx, "/search/trending", nil, &trending); err != nil {
			return nil, err
		}
		return &trending, nil
	})
}

// CoinDetails returns the market, developer and community sections for id.
func (c *Client) CoinDetails(ctx context.Context, id string) (*CoinDetails, error) {
	return cache.Wrap(ctx, c.cache, cache.CoinDetailsKey(id), c.ttl.Details, func(ctx context.Context) (*CoinDetails, error) {
		params := url.Values{}
		params.Set("localization", "false")
		params.Set("tickers", "false")
		params.Set("market_data", "true")
		params.Set("community_data", "true")
		params.Set("developer_data", "true")
		params.Set("sparkline", "false")

		var details CoinDetails
		if err := c.doRequest(ctx, "/coins/"+url.PathEscape(id), params, &details); err != nil {
			return nil, err
		}
		return &details, nil
	})
}

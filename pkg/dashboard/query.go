package dashboard

import (
	"context"
	"time"
)

// Query is one polled resource. A read within StaleTime of the last
// success is served from memory; the poller refetches every RefreshInterval.
type Query struct {
	Key             string
	RefreshInterval time.Duration
	StaleTime       time.Duration
	Fetch           func(ctx context.Context) (any, error)
}

// Refresh cadences used by the web dashboard.
const (
	CoinsStaleTime          = 30 * time.Second
	CoinsRefreshInterval    = 60 * time.Second
	OverviewStaleTime       = 60 * time.Second
	OverviewRefreshInterval = 120 * time.Second
	HistoryStaleTime        = 30 * time.Second
	HistoryRefreshInterval  = 120 * time.Second
)

func CoinsQuery(c *Client, p CoinsParams) Query {
	return Query{
		Key:             "coins",
		RefreshInterval: CoinsRefreshInterval,
		StaleTime:       CoinsStaleTime,
		Fetch: func(ctx context.Context) (any, error) {
			return c.Coins(ctx, p)
		},
	}
}

func OverviewQuery(c *Client, vsCurrency string) Query {
	return Query{
		Key:             "overview",
		RefreshInterval: OverviewRefreshInterval,
		StaleTime:       OverviewStaleTime,
		Fetch: func(ctx context.Context) (any, error) {
			return c.Overview(ctx, vsCurrency)
		},
	}
}

func HistoryQuery(c *Client, id, timeframe, vsCurrency string) Query {
	return Query{
		Key:             "history:" + id + ":" + timeframe,
		RefreshInterval: HistoryRefreshInterval,
		StaleTime:       HistoryStaleTime,
		Fetch: func(ctx context.Context) (any, error) {
			return c.History(ctx, id, timeframe, vsCurrency)
		},
	}
}

// AnalysisQuery follows the history cadence since it is derived from it.
func AnalysisQuery(c *Client, id, timeframe, vsCurrency string) Query {
	return Query{
		Key:             "analysis:" + id + ":" + timeframe,
		RefreshInterval: HistoryRefreshInterval,
		StaleTime:       HistoryStaleTime,
		Fetch: func(ctx context.Context) (any, error) {
			return c.Analysis(ctx, id, timeframe, vsCurrency)
		},
	}
}

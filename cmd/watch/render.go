package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"cryptohealth-api/pkg/dashboard"
	"cryptohealth-api/pkg/market"
)

type watchOptions struct {
	coins      []string
	vsCurrency string
	coin       string
	timeframe  string
}

type watcher struct {
	client *dashboard.Client
	opts   watchOptions
	keys   struct {
		coins, overview, history, analysis string
	}
}

func newWatcher(client *dashboard.Client, opts watchOptions) *watcher {
	return &watcher{client: client, opts: opts}
}

func (w *watcher) poller(popts ...dashboard.PollerOption) (*dashboard.Poller, error) {
	p := dashboard.NewPoller(popts...)
	queries := []dashboard.Query{
		dashboard.CoinsQuery(w.client, dashboard.CoinsParams{IDs: w.opts.coins, VsCurrency: w.opts.vsCurrency}),
		dashboard.OverviewQuery(w.client, w.opts.vsCurrency),
		dashboard.HistoryQuery(w.client, w.opts.coin, w.opts.timeframe, w.opts.vsCurrency),
		dashboard.AnalysisQuery(w.client, w.opts.coin, w.opts.timeframe, w.opts.vsCurrency),
	}
	w.keys.coins = queries[0].Key
	w.keys.overview = queries[1].Key
	w.keys.history = queries[2].Key
	w.keys.analysis = queries[3].Key
	for _, q := range queries {
		if err := p.Add(q); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type latestReader interface {
	Latest(key string) (dashboard.Result, bool)
}

func (w *watcher) render(out io.Writer, state latestReader) {
	vs := strings.ToUpper(w.opts.vsCurrency)

	fmt.Fprintln(out, "== Market overview ==")
	if res, ok := state.Latest(w.keys.overview); ok {
		if o, ok := res.Value.(*market.Overview); ok && o != nil {
			fmt.Fprintf(out, "Market cap: %s %s  Volume 24h: %s %s  Change 24h: %+.2f%%\n",
				compact(o.TotalMarketCap), vs, compact(o.TotalVolume), vs, o.MarketCapChange24h)
			fmt.Fprintf(out, "Dominance: %s\n", dominance(o.Dominance))
			syms := make([]string, 0, len(o.Trending))
			for _, t := range o.Trending {
				syms = append(syms, t.Symbol)
			}
			fmt.Fprintf(out, "Trending: %s\n", strings.Join(syms, " "))
		}
		writeErr(out, res)
	} else {
		fmt.Fprintln(out, "loading...")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "== Coins ==")
	if res, ok := state.Latest(w.keys.coins); ok {
		if coins, ok := res.Value.([]market.CoinMetrics); ok {
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "COIN\tPRICE\t24H%\tHEALTH\tVOL\tLIQ\tMOM\tDEV\t")
			for _, c := range coins {
				fmt.Fprintf(tw, "%s\t%.4f\t%+.2f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
					strings.ToUpper(c.Coin.Symbol), c.Coin.CurrentPrice, c.Coin.PriceChangePercentage24h,
					c.Metrics.HealthScore, c.Metrics.VolatilityScore, c.Metrics.LiquidityScore,
					c.Metrics.MomentumScore, c.Metrics.DevelopmentScore)
			}
			tw.Flush()
		}
		writeErr(out, res)
	} else {
		fmt.Fprintln(out, "loading...")
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "== %s %s ==\n", w.opts.coin, w.opts.timeframe)
	if res, ok := state.Latest(w.keys.history); ok {
		if points, ok := res.Value.([]market.HistoricalPoint); ok && len(points) > 0 {
			first, last := points[0], points[len(points)-1]
			fmt.Fprintf(out, "Points: %d  First: %.4f  Last: %.4f\n", len(points), first.Price, last.Price)
		}
		writeErr(out, res)
	}
	if res, ok := state.Latest(w.keys.analysis); ok {
		if a, ok := res.Value.(*dashboard.Analysis); ok && a != nil && a.Analysis != nil {
			for _, s := range a.Analysis.Signals {
				fmt.Fprintf(out, "- %s: %s\n", s.Title, s.Detail)
			}
		}
		writeErr(out, res)
	}
}

func writeErr(out io.Writer, res dashboard.Result) {
	if res.Err != nil {
		fmt.Fprintf(out, "! %v\n", res.Err)
	}
}

func dominance(d map[string]float64) string {
	syms := make([]string, 0, len(d))
	for s := range d {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return d[syms[i]] > d[syms[j]] })
	if len(syms) > 3 {
		syms = syms[:3]
	}
	parts := make([]string, 0, len(syms))
	for _, s := range syms {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", strings.ToUpper(s), d[s]))
	}
	return strings.Join(parts, "  ")
}

func compact(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

package cache

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Namespace prefixes every key so snapshots can share a Redis instance.
const Namespace = "cryptohealth"

// Conf is the cache section of the service config. All durations are seconds.
type Conf struct {
	TTL         int  `json:",default=60"`
	GlobalTTL   int  `json:",default=60"`
	TrendingTTL int  `json:",default=120"`
	DetailsTTL  int  `json:",default=600"`
	Coalesce    bool `json:",optional"`
}

// TTLSet turns Conf seconds into durations per upstream resource.
type TTLSet struct {
	Default  time.Duration
	Global   time.Duration
	Trending time.Duration
	Details  time.Duration
}

// NewTTLSet converts config seconds into durations, substituting the
// documented defaults for zero values.
func NewTTLSet(c Conf) TTLSet {
	def := durationOrDefault(c.TTL, time.Minute)
	return TTLSet{
		Default:  def,
		Global:   durationOrDefault(c.GlobalTTL, time.Minute),
		Trending: durationOrDefault(c.TrendingTTL, 2*time.Minute),
		Details:  durationOrDefault(c.DetailsTTL, 10*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// sortedIDs returns a sorted copy so that id order never changes the key.
func sortedIDs(ids []string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// --- Upstream keys ----------------------------------------------------------

// MarketsKey identifies a /coins/markets listing.
func MarketsKey(vsCurrency string, ids []string, sparkline bool) string {
	return formatKey("markets", vsCurrency, sortedIDs(ids), "sparkline", strconv.FormatBool(sparkline))
}

func MarketChartKey(id, vsCurrency string, days int) string {
	return formatKey("market-chart", id, vsCurrency, strconv.Itoa(days))
}

func GlobalKey() string {
	return formatKey("global")
}

func TrendingKey() string {
	return formatKey("trending")
}

func CoinDetailsKey(id string) string {
	return formatKey("coin-details", id)
}

// --- Response snapshot keys -------------------------------------------------

// CoinsResponseKey identifies an assembled /api/coins response.
func CoinsResponseKey(vsCurrency string, ids []string, includeDetails bool) string {
	flag := "0"
	if includeDetails {
		flag = "1"
	}
	return formatKey("coins", vsCurrency, sortedIDs(ids), flag)
}

func HistoryResponseKey(id, vsCurrency, timeframe string) string {
	return formatKey("history", id, vsCurrency, timeframe)
}

func OverviewResponseKey(vsCurrency string) string {
	return formatKey("market-overview", vsCurrency)
}

package market

import "strings"

// Timeframe is a supported history window.
type Timeframe struct {
	Key  string
	Days int
}

// DefaultTimeframe is used when a request names none.
const DefaultTimeframe = "30D"

var timeframes = []Timeframe{
	{Key: "1D", Days: 1},
	{Key: "7D", Days: 7},
	{Key: "30D", Days: 30},
	{Key: "90D", Days: 90},
	{Key: "1Y", Days: 365},
}

// Timeframes returns the supported windows, shortest first.
func Timeframes() []Timeframe {
	return append([]Timeframe(nil), timeframes...)
}

// SupportedTimeframes renders the supported keys for error messages.
func SupportedTimeframes() string {
	keys := make([]string, len(timeframes))
	for i, tf := range timeframes {
		keys[i] = tf.Key
	}
	return strings.Join(keys, ", ")
}

// ParseTimeframe resolves key, falling back to DefaultTimeframe when empty.
// Keys are case sensitive.
func ParseTimeframe(key string) (Timeframe, bool) {
	if key == "" {
		key = DefaultTimeframe
	}
	for _, tf := range timeframes {
		if tf.Key == key {
			return tf, true
		}
	}
	return Timeframe{}, false
}

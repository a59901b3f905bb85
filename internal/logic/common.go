package logic

import (
	"strings"

	"cryptohealth-api/internal/errorx"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/pkg/market"
)

func vsCurrency(svcCtx *svc.ServiceContext, requested string) string {
	if vs := strings.ToLower(strings.TrimSpace(requested)); vs != "" {
		return vs
	}
	return svcCtx.Config.DefaultVsCurrency
}

// coinID normalises a path id the same way ParseIDs does for the coins list.
func coinID(raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" {
		return "", errorx.BadRequest("Coin id is required")
	}
	return id, nil
}

func timeframe(raw string) (market.Timeframe, error) {
	key := strings.TrimSpace(raw)
	tf, ok := market.ParseTimeframe(key)
	if !ok {
		return market.Timeframe{}, errorx.BadRequest("Invalid timeframe %q. Supported: %s", key, market.SupportedTimeframes())
	}
	return tf, nil
}

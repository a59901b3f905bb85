package logic

import (
	"context"
	"strconv"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"

	"cryptohealth-api/internal/cache"
	"cryptohealth-api/internal/config"
	"cryptohealth-api/internal/errorx"
	"cryptohealth-api/internal/persistence/snapshot"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/market"
	"cryptohealth-api/pkg/metrics"
)

type CoinsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCoinsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CoinsLogic {
	return &CoinsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CoinsLogic) Coins(req *types.CoinsRequest) ([]types.CoinMetrics, error) {
	ids := l.svcCtx.Config.DefaultCoins
	if strings.TrimSpace(req.IDs) != "" {
		ids = config.ParseIDs(req.IDs)
	}
	if len(ids) == 0 {
		return nil, errorx.BadRequest("At least one coin id is required")
	}
	if limit := l.svcCtx.Config.MaxCoinsPerRequest; len(ids) > limit {
		return nil, errorx.BadRequest("A maximum of %d coins can be requested at once", limit)
	}

	includeDetails := true
	if raw := strings.TrimSpace(req.IncludeDetails); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errorx.BadRequest("include_details must be a boolean, got %q", raw)
		}
		includeDetails = v
	}
	vs := vsCurrency(l.svcCtx, req.VsCurrency)

	key := cache.CoinsResponseKey(vs, ids, includeDetails)
	return snapshot.Loader(l.ctx, l.svcCtx.Snapshots, key, func() ([]types.CoinMetrics, error) {
		return l.compute(ids, vs, includeDetails)
	})
}

func (l *CoinsLogic) compute(ids []string, vs string, includeDetails bool) ([]types.CoinMetrics, error) {
	coins, err := l.svcCtx.Market.Markets(l.ctx, ids, vs, true)
	if err != nil {
		return nil, err
	}

	details := make([]*coingecko.CoinDetails, len(coins))
	if includeDetails {
		group := threading.NewRoutineGroup()
		for i := range coins {
			i := i
			group.RunSafe(func() {
				d, err := l.svcCtx.Market.CoinDetails(l.ctx, coins[i].ID)
				if err != nil {
					l.Infof("coin details unavailable, using defaults: id=%s err=%v", coins[i].ID, err)
					return
				}
				details[i] = d
			})
		}
		group.Wait()
	}

	out := make([]types.CoinMetrics, len(coins))
	for i, coin := range coins {
		out[i] = market.CoinMetrics{
			Coin:    coin,
			Metrics: metrics.Compute(coin, details[i]),
		}
	}
	return out, nil
}

package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"cryptohealth-api/internal/cache"
	"cryptohealth-api/internal/persistence/snapshot"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
	"cryptohealth-api/pkg/coingecko"
	"cryptohealth-api/pkg/market"
)

type OverviewLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewOverviewLogic(ctx context.Context, svcCtx *svc.ServiceContext) *OverviewLogic {
	return &OverviewLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *OverviewLogic) Overview(req *types.OverviewRequest) (*types.MarketOverview, error) {
	vs := vsCurrency(l.svcCtx, req.VsCurrency)
	key := cache.OverviewResponseKey(vs)
	return snapshot.Loader(l.ctx, l.svcCtx.Snapshots, key, func() (*types.MarketOverview, error) {
		var (
			global   *coingecko.GlobalResponse
			trending *coingecko.TrendingResponse
		)
		err := mr.Finish(func() (err error) {
			global, err = l.svcCtx.Market.Global(l.ctx)
			return err
		}, func() (err error) {
			trending, err = l.svcCtx.Market.Trending(l.ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		overview := market.BuildOverview(global, trending, vs)
		return &overview, nil
	})
}

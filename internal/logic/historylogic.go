package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"cryptohealth-api/internal/cache"
	"cryptohealth-api/internal/persistence/snapshot"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
	"cryptohealth-api/pkg/market"
)

type HistoryLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHistoryLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HistoryLogic {
	return &HistoryLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *HistoryLogic) History(req *types.HistoryRequest) ([]types.HistoricalPoint, error) {
	id, err := coinID(req.ID)
	if err != nil {
		return nil, err
	}
	tf, err := timeframe(req.Timeframe)
	if err != nil {
		return nil, err
	}
	vs := vsCurrency(l.svcCtx, req.VsCurrency)
	return l.history(id, vs, tf)
}

func (l *HistoryLogic) history(id, vs string, tf market.Timeframe) ([]types.HistoricalPoint, error) {
	key := cache.HistoryResponseKey(id, vs, tf.Key)
	return snapshot.Loader(l.ctx, l.svcCtx.Snapshots, key, func() ([]types.HistoricalPoint, error) {
		chart, err := l.svcCtx.Market.MarketChart(l.ctx, id, vs, tf.Days)
		if err != nil {
			return nil, err
		}
		return market.ZipHistory(chart, l.svcCtx.Now), nil
	})
}

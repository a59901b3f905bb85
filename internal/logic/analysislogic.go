package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
	"cryptohealth-api/pkg/market/analysis"
)

type AnalysisLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAnalysisLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalysisLogic {
	return &AnalysisLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Analysis combines the coin's scores with indicators over its history.
// Either part is null when the upstream has nothing to offer for it.
func (l *AnalysisLogic) Analysis(req *types.AnalysisRequest) (*types.AnalysisResponse, error) {
	id, err := coinID(req.ID)
	if err != nil {
		return nil, err
	}
	tf, err := timeframe(req.Timeframe)
	if err != nil {
		return nil, err
	}
	vs := vsCurrency(l.svcCtx, req.VsCurrency)

	var (
		coins   []types.CoinMetrics
		history []types.HistoricalPoint
	)
	err = mr.Finish(func() (err error) {
		coins, err = NewCoinsLogic(l.ctx, l.svcCtx).Coins(&types.CoinsRequest{
			IDs:            id,
			VsCurrency:     vs,
			IncludeDetails: "false",
		})
		return err
	}, func() (err error) {
		history, err = NewHistoryLogic(l.ctx, l.svcCtx).history(id, vs, tf)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &types.AnalysisResponse{ID: id, VsCurrency: vs}
	if len(coins) > 0 {
		m := coins[0].Metrics
		resp.Metrics = &m
	}
	if res, ok := analysis.Analyze(analysis.Input{
		History:    history,
		Metrics:    resp.Metrics,
		Timeframe:  tf,
		VsCurrency: vs,
	}); ok {
		resp.Analysis = res
	} else {
		l.Infof("not enough history to analyse: id=%s timeframe=%s points=%d", id, tf.Key, len(history))
	}
	return resp, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	zerrorx "github.com/zeromicro/go-zero/core/errorx"

	"cryptohealth-api/internal/logic"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
)

type plan struct {
	coins      []string
	vsCurrency string
	timeframes []string
	pause      time.Duration
}

type prefetcher struct {
	svcCtx *svc.ServiceContext
	sleep  func(context.Context, time.Duration)
}

func newPrefetcher(svcCtx *svc.ServiceContext, sleep func(context.Context, time.Duration)) *prefetcher {
	return &prefetcher{svcCtx: svcCtx, sleep: sleep}
}

// run walks the coin list in request-sized batches, then every
// coin × timeframe history, then the overview. A failed step is logged and
// skipped; the failures are returned together at the end.
func (p *prefetcher) run(ctx context.Context, pl plan) error {
	var errs zerrorx.BatchError

	batch := p.svcCtx.Config.MaxCoinsPerRequest
	if batch <= 0 {
		batch = len(pl.coins)
	}
	for start := 0; start < len(pl.coins); start += batch {
		ids := pl.coins[start:min(start+batch, len(pl.coins))]
		p.step(ctx, &errs, fmt.Sprintf("coins %v", ids), pl.pause, func() error {
			_, err := logic.NewCoinsLogic(ctx, p.svcCtx).Coins(&types.CoinsRequest{
				IDs:            strings.Join(ids, ","),
				VsCurrency:     pl.vsCurrency,
				IncludeDetails: "true",
			})
			return err
		})
	}

	for _, coin := range pl.coins {
		for _, tf := range pl.timeframes {
			p.step(ctx, &errs, "history "+coin+" "+tf, pl.pause, func() error {
				_, err := logic.NewHistoryLogic(ctx, p.svcCtx).History(&types.HistoryRequest{
					ID:         coin,
					Timeframe:  tf,
					VsCurrency: pl.vsCurrency,
				})
				return err
			})
		}
	}

	p.step(ctx, &errs, "market overview", pl.pause, func() error {
		_, err := logic.NewOverviewLogic(ctx, p.svcCtx).Overview(&types.OverviewRequest{VsCurrency: pl.vsCurrency})
		return err
	})
	return errs.Err()
}

func (p *prefetcher) step(ctx context.Context, errs *zerrorx.BatchError, name string, pause time.Duration, fn func() error) {
	if err := ctx.Err(); err != nil {
		errs.Add(fmt.Errorf("%s: %w", name, err))
		return
	}
	log.Printf("[prefetch] %s", name)
	if err := fn(); err != nil {
		log.Printf("[prefetch] %s failed: %v", name, err)
		errs.Add(fmt.Errorf("%s: %w", name, err))
	}
	p.sleep(ctx, pause)
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cryptohealth-api/internal/cli"
	"cryptohealth-api/internal/config"
	"cryptohealth-api/internal/persistence/snapshot"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/pkg/confkit"
)

var (
	configFile = flag.String("f", "etc/cryptohealth.yaml", "the config file")
	coinsFlag  = flag.String("coins", "", "comma-separated coin ids (default: DefaultCoins)")
	vsFlag     = flag.String("vs", "", "quote currency (default: DefaultVsCurrency)")
	tfFlag     = flag.String("timeframes", "1D,7D,30D", "comma-separated timeframes to prefetch")
	sleepFlag  = flag.Duration("sleep", 2*time.Second, "pause between upstream calls")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.MustLoad(confkit.DefaultConfigPath(*configFile))
	for _, line := range cli.ConfigSummaryLines(cfg) {
		log.Printf("  - %s", line)
	}

	svcCtx := svc.NewServiceContext(*cfg)
	if svcCtx.Snapshots == nil {
		log.Fatalf("[prefetch] snapshot store is not configured; set Redis.Host in %s", *configFile)
	}
	// Overwrite entries even when a fresh one exists.
	svcCtx.Snapshots = snapshot.Refreshing(svcCtx.Snapshots)

	p := plan{
		coins:      cfg.DefaultCoins,
		vsCurrency: cfg.DefaultVsCurrency,
		timeframes: splitCSV(*tfFlag, strings.ToUpper),
		pause:      *sleepFlag,
	}
	if ids := config.ParseIDs(*coinsFlag); len(ids) > 0 {
		p.coins = ids
	}
	if vs := strings.ToLower(strings.TrimSpace(*vsFlag)); vs != "" {
		p.vsCurrency = vs
	}
	if len(p.coins) == 0 {
		log.Println("[prefetch] no coins specified")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newPrefetcher(svcCtx, sleepCtx).run(ctx, p); err != nil {
		log.Fatalf("[prefetch] %v", err)
	}
	log.Println("[prefetch] completed, snapshots stored")
}

func splitCSV(raw string, norm func(string) string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, norm(part))
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

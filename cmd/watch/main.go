package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cryptohealth-api/internal/config"
	"cryptohealth-api/pkg/dashboard"
)

var (
	apiFlag       = flag.String("api", "http://localhost:4000", "cryptohealth API base URL")
	coinsFlag     = flag.String("coins", "", "comma-separated coin ids (default: server defaults)")
	vsFlag        = flag.String("vs", "usd", "quote currency")
	coinFlag      = flag.String("coin", "bitcoin", "coin whose history and analysis are shown")
	timeframeFlag = flag.String("timeframe", "30D", "history timeframe")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	client := dashboard.NewClient(*apiFlag)
	w := newWatcher(client, watchOptions{
		coins:      config.ParseIDs(*coinsFlag),
		vsCurrency: *vsFlag,
		coin:       *coinFlag,
		timeframe:  *timeframeFlag,
	})
	poller, err := w.poller()
	if err != nil {
		log.Fatalf("[watch] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller.Start(ctx)
	log.Printf("[watch] polling %s, press Ctrl+C to stop", *apiFlag)
	for {
		select {
		case <-ctx.Done():
			poller.Wait()
			return
		case <-poller.Updates():
			os.Stdout.WriteString("\033[H\033[2J")
			w.render(os.Stdout, poller)
		}
	}
}

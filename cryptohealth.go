// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"fmt"

	"cryptohealth-api/internal/cli"
	"cryptohealth-api/internal/config"
	"cryptohealth-api/internal/errorx"
	"cryptohealth-api/internal/handler"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/pkg/confkit"

	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
)

var configFile = flag.String("f", "etc/cryptohealth.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(confkit.DefaultConfigPath(*configFile))

	server := rest.MustNewServer(cfg.RestConf, rest.WithCors())
	defer server.Stop()

	httpx.SetErrorHandlerCtx(errorx.Handler)

	ctx := svc.NewServiceContext(*cfg)
	handler.RegisterHandlers(server, ctx)
	cli.LogConfigSummary(cfg)

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}

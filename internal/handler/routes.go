package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"cryptohealth-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/coins",
				Handler: CoinsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/coins/:id/history",
				Handler: HistoryHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/coins/:id/analysis",
				Handler: AnalysisHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/market/overview",
				Handler: OverviewHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthzHandler(serverCtx),
			},
		},
	)
}

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
)

func HealthzHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, types.HealthResponse{
			Status: "ok",
			Uptime: svcCtx.Uptime().Seconds(),
		})
	}
}

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"cryptohealth-api/internal/errorx"
	"cryptohealth-api/internal/logic"
	"cryptohealth-api/internal/svc"
	"cryptohealth-api/internal/types"
)

func AnalysisHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AnalysisRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.BadRequest("%s", err.Error()))
			return
		}

		l := logic.NewAnalysisLogic(r.Context(), svcCtx)
		resp, err := l.Analysis(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

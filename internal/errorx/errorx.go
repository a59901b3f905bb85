// Package errorx maps domain errors onto HTTP responses.
package errorx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"cryptohealth-api/pkg/coingecko"
)

const unexpectedMessage = "Unexpected server error"

// CodeError is a client-facing error with an explicit HTTP status.
type CodeError struct {
	Status  int
	Message string
}

func (e *CodeError) Error() string {
	return e.Message
}

// BadRequest builds a 400 CodeError from a format string.
func BadRequest(format string, args ...any) *CodeError {
	return &CodeError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Body is the JSON error payload.
type Body struct {
	Message string `json:"message"`
}

// Resolve picks the status and body for err.
func Resolve(err error) (int, Body) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Status, Body{Message: ce.Message}
	}
	if ue, ok := coingecko.AsUpstreamError(err); ok {
		return ue.StatusCode(), Body{Message: ue.Message}
	}
	return http.StatusInternalServerError, Body{Message: unexpectedMessage}
}

// Handler is installed with httpx.SetErrorHandlerCtx. Server side failures
// are logged at error level, client errors at info.
func Handler(ctx context.Context, err error) (int, any) {
	status, body := Resolve(err)
	if status >= http.StatusInternalServerError {
		logx.WithContext(ctx).Errorf("request failed: status=%d err=%v", status, err)
	} else {
		logx.WithContext(ctx).Infof("request rejected: status=%d msg=%s", status, body.Message)
	}
	return status, body
}

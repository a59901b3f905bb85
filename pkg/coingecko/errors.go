package coingecko

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError reports a failed upstream call. Status mirrors the upstream
// HTTP status, or 500 when the call never produced one.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func newUpstreamError(status int, reason string, cause error) *UpstreamError {
	if status <= 0 {
		status = http.StatusInternalServerError
	}
	return &UpstreamError{
		Status:  status,
		Message: fmt.Sprintf("CoinGecko API error (%d): %s", status, reason),
		Err:     cause,
	}
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status to surface to API callers.
func (e *UpstreamError) StatusCode() int {
	return e.Status
}

// AsUpstreamError reports whether err carries an *UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

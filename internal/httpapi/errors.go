package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"propadvisor/internal/advisor"
	"propadvisor/internal/manager"
	"propadvisor/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// httpError is a request problem detected by the HTTP layer itself.
type httpError struct {
	code int
	msg  string
}

func (e httpError) Error() string   { return e.msg }
func (e httpError) StatusCode() int { return e.code }

func errBadRequest(msg string) error       { return httpError{code: http.StatusBadRequest, msg: msg} }
func errUnsupportedMedia(msg string) error { return httpError{code: http.StatusUnsupportedMediaType, msg: msg} }
func errTooLarge(msg string) error         { return httpError{code: http.StatusRequestEntityTooLarge, msg: msg} }

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var ve *advisor.ValidationError
	var he HTTPError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case manager.IsTooBusy(err):
		return http.StatusTooManyRequests
	case manager.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case manager.IsUpstream(err):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// canceled while the caller is still connected
		return http.StatusServiceUnavailable
	case errors.As(err, &he):
		return he.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with its mapped status and returns that status.
func writeError(w http.ResponseWriter, err error) int {
	status := statusFor(err)
	resp := types.ErrorResponse{Error: err.Error(), Code: status}
	var ve *advisor.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("queue_timeout")
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, resp)
	return status
}

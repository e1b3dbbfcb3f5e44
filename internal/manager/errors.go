package manager

import (
	"context"
	"errors"
)

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ backend string }

func (e tooBusyError) Error() string { return "too busy: " + e.backend }

// ErrTooBusy constructs a tooBusyError for backend.
func ErrTooBusy(backend string) error { return tooBusyError{backend: backend} }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a missing or unloadable backend (e.g. a
// binary built without llama support, or weights that fail to load) so the
// HTTP layer can return 503 Service Unavailable instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}

// upstreamError wraps a failed call to the model backend (connection refused,
// non-2xx status, empty completion).
type upstreamError struct{ err error }

func (e upstreamError) Error() string { return "model server call failed: " + e.err.Error() }

func (e upstreamError) Unwrap() error { return e.err }

// ErrUpstream wraps err as a backend call failure. Context errors pass through.
func ErrUpstream(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if IsUpstream(err) || IsDependencyUnavailable(err) || IsTooBusy(err) {
		return err
	}
	return upstreamError{err: err}
}

// IsUpstream reports whether err is a backend call failure (return 502).
func IsUpstream(err error) bool {
	var e upstreamError
	return errors.As(err, &e)
}

// IsDeadline reports whether err is a context deadline (return 504).
func IsDeadline(err error) bool { return errors.Is(err, context.DeadlineExceeded) }

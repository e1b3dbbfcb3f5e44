package httpapi

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "", "disabled":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// defaultLogLevel applies when a request carries no override.
var defaultLogLevel = LevelInfo

// SetDefaultLogLevel sets the per-request log level used without an override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// requestLog writes the start and end lines of one advisory request.
type requestLog struct {
	lvl      LogLevel
	endpoint string
	rid      string
	start    time.Time
}

func beginRequestLog(r *http.Request, endpoint string) *requestLog {
	rl := &requestLog{
		lvl:      requestLogLevel(r),
		endpoint: endpoint,
		rid:      middleware.GetReqID(r.Context()),
		start:    time.Now(),
	}
	if rl.lvl >= LevelInfo {
		if zlog != nil {
			zlog.Info().Str("endpoint", endpoint).Str("request_id", rl.rid).Msg("request start")
		} else {
			log.Printf("request start endpoint=%s request_id=%s", endpoint, rl.rid)
		}
	}
	return rl
}

// withLogger attaches a request-scoped logger to ctx when the request asked
// for debug output, so model output diagnostics reach the log.
func (rl *requestLog) withLogger(ctx context.Context) context.Context {
	if rl.lvl < LevelDebug || zlog == nil {
		return ctx
	}
	l := zlog.With().Str("request_id", rl.rid).Logger().Level(zerolog.DebugLevel)
	return l.WithContext(ctx)
}

func (rl *requestLog) end(status int, err error) {
	if rl.lvl == LevelOff || (rl.lvl == LevelError && err == nil) {
		return
	}
	dur := time.Since(rl.start)
	if zlog != nil {
		z := zlog.Info()
		if err != nil {
			z = zlog.Error().Err(err)
		}
		z.Str("endpoint", rl.endpoint).Str("request_id", rl.rid).Int("status", status).Dur("dur", dur).Msg("request end")
		return
	}
	if err != nil {
		log.Printf("request end endpoint=%s request_id=%s status=%d dur=%s err=%v", rl.endpoint, rl.rid, status, dur, err)
		return
	}
	log.Printf("request end endpoint=%s request_id=%s status=%d dur=%s", rl.endpoint, rl.rid, status, dur)
}

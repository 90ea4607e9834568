package httpapi

import (
	"log"
	"net/http"
	"os"
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
	case "off", "":
		return LevelOff
	case "error", "warn", "warning":
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
var defaultLogLevel = parseLevel(os.Getenv("STYLERD_LOG_LEVEL"))

// SetDefaultLogLevel sets the per-request log level used without overrides.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
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

func logStart(r *http.Request, lvl LogLevel, model string, size int) {
	if lvl < LevelInfo {
		return
	}
	if zlog == nil {
		log.Printf("stylize start path=%s model=%s bytes=%d", r.URL.Path, model, size)
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("model", model).Int("bytes", size)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("stylize start")
}

// logEnd logs the outcome; at LevelError only server-side failures are logged.
func logEnd(r *http.Request, lvl LogLevel, model string, status int, dur time.Duration, err error) {
	if lvl < LevelInfo && (lvl < LevelError || status < http.StatusInternalServerError) {
		return
	}
	if zlog == nil {
		log.Printf("stylize end model=%s status=%d dur=%s err=%v", model, status, dur, err)
		return
	}
	z := zlog.Info()
	if status >= http.StatusInternalServerError {
		z = zlog.Error()
	}
	z = z.Str("model", model).Int("status", status).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("stylize end")
}

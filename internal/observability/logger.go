package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the process JSON logger. Records carry trace_id and
// span_id whenever the context holds an active span.
//
// level is a slog level name ("debug", "warn", ...); empty picks debug in
// dev and info everywhere else.
func NewLogger(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     logLevel(env, level),
		AddSource: env == "dev",
	})

	return slog.New(NewTraceHandler(handler)).With(
		slog.String("service", "chamalog-api"),
		slog.String("env", env),
	)
}

func logLevel(env, raw string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(raw))); err == nil {
		return lvl
	}
	if env == "dev" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

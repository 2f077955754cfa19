package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/chamalog/chamalog/internal/actorctx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 128
)

// RequestID keeps a caller supplied X-Request-Id when it is short and
// printable, otherwise mints a uuid. The id is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)
		ctx.Set(CtxRequestID, id)

		ctx.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestLogger writes one access line per request. user_id comes from the
// trace handler, which reads the identity off the request context.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := ctx.Writer.Status()

		attrs := []slog.Attr{
			slog.String("method", ctx.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.Int("bytes", ctx.Writer.Size()),
			slog.String("client_ip", ctx.ClientIP()),
			slog.String("request_id", ctx.GetString(CtxRequestID)),
		}

		if id, ok := actorctx.From(ctx.Request.Context()); ok {
			attrs = append(attrs, slog.String("role", string(id.Role)))
		}
		if len(ctx.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", ctx.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status == http.StatusTooManyRequests:
			level = slog.LevelWarn
		}

		slog.Default().LogAttrs(ctx.Request.Context(), level, "http_request", attrs...)
	}
}

package logging

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// ContextWithRequestID stores id so that log records made with the returned
// context carry a request_id attribute.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// NewHandler returns the process log handler. Debug mode uses a colored text
// handler at debug level with source locations; otherwise JSON at info level.
func NewHandler(w io.Writer, debug bool) slog.Handler {
	var h slog.Handler
	if debug {
		h = tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return contextHandler{h}
}

// Init installs the process logger as the slog default.
func Init(w io.Writer, debug bool) *slog.Logger {
	logger := slog.New(NewHandler(w, debug))
	slog.SetDefault(logger)
	return logger
}

// contextHandler adds request_id from the record's context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

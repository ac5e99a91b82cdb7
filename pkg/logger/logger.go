// Package logger wraps log/slog with a per-request logger carried in the
// request context.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("book created", "book_id", book.ID)
//	// → time=... level=INFO msg="book created" request_id=a1b2c3d4 book_id=...
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Init replaces the base logger. Production gets JSON at INFO, everything
// else human-readable text at DEBUG.
func Init(env string) {
	L = New(os.Stdout, env)
	slog.SetDefault(L)
}

// New builds a logger writing to w for the given environment name.
func New(w io.Writer, env string) *slog.Logger {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the request logging middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }

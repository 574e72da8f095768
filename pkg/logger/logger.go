// Package logger provides a structured, levelled logger built on log/slog.
//
// Handlers and services log through WithCtx so every line carries the
// request_id of the request that produced it:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/shashiranjanraj/canteen/config"
)

var L *slog.Logger

var (
	sinkMu sync.Mutex
	sink   *MongoHandler
)

func init() {
	L = slog.New(newHandler(os.Stdout))
	slog.SetDefault(L)
}

// newHandler picks JSON output for production and text output otherwise.
func newHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: level()}
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

func level() slog.Level {
	switch strings.ToLower(config.Get("LOG_LEVEL", "")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	}
	if env := config.AppEnv(); env == "production" || env == "prod" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// SetOutput rebuilds the base logger writing to w. Used by tests.
func SetOutput(w io.Writer) {
	L = slog.New(newHandler(w))
	slog.SetDefault(L)
}

// UseMongo adds a MongoDB sink next to stdout. Records are shipped
// asynchronously; call Close on shutdown to flush them.
func UseMongo(uri, db, collection string) error {
	h, err := NewMongoHandler(uri, db, collection)
	if err != nil {
		return err
	}

	sinkMu.Lock()
	sink = h
	sinkMu.Unlock()

	L = slog.New(NewMultiHandler(newHandler(os.Stdout), h))
	slog.SetDefault(L)
	return nil
}

// Close flushes and disconnects the optional Mongo sink.
func Close() {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the Logger middleware,
// or the base logger when ctx carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a pre-tagged logger into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }

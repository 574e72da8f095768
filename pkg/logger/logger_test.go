package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/canteen/pkg/logger"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))
}

func TestInjectedLoggerCarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	reqLog := logger.L.With("request_id", "abc123")
	ctx := logger.InjectLogger(context.Background(), reqLog)
	logger.WithCtx(ctx).Info("basket updated", "item_count", 2)

	out := buf.String()
	assert.Contains(t, out, "request_id=abc123")
	assert.Contains(t, out, "item_count=2")
}

type recordingHandler struct {
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandlerFansOut(t *testing.T) {
	a, b := &recordingHandler{}, &recordingHandler{}
	log := slog.New(logger.NewMultiHandler(a, b))

	log.Warn("rating recorded")

	assert.Len(t, a.records, 1)
	assert.Len(t, b.records, 1)
	assert.Equal(t, "rating recorded", b.records[0].Message)
}

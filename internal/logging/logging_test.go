package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themessagevault/vault-backend/internal/models"
)

type memoryWriter struct {
	mu   sync.Mutex
	rows []models.SystemLog
	err  error
}

func (w *memoryWriter) WriteLogs(batch []models.SystemLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows, batch...)
	return nil
}

func (w *memoryWriter) snapshot() []models.SystemLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.SystemLog(nil), w.rows...)
}

func TestPGHandler_OnlyErrors(t *testing.T) {
	w := &memoryWriter{}
	h := newPGHandler(w, time.Hour)
	logger := slog.New(h)

	logger.Info("ignored")
	logger.Warn("ignored too")
	logger.Error("perspective api request failed",
		"action", "moderate",
		"error", "timeout",
		"latency_ms", 5012.4,
		"stage", "scorer",
	)
	h.Stop()

	rows := w.snapshot()
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "perspective api request failed", row.Message)
	assert.Equal(t, "moderate", row.Action)
	assert.Equal(t, "timeout", row.Error)
	assert.Equal(t, 5012, row.LatencyMs)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, "scorer", extra["stage"])
}

func TestPGHandler_BoundAttrs(t *testing.T) {
	w := &memoryWriter{}
	h := newPGHandler(w, time.Hour)

	slog.New(h).With("request_id", "req-1", "session_hash", "abc").Error("boom")
	h.Stop()

	rows := w.snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "req-1", rows[0].RequestID)
	assert.Equal(t, "abc", rows[0].SessionHash)
}

func TestPGHandler_FlushesWhenFull(t *testing.T) {
	w := &memoryWriter{}
	h := newPGHandler(w, time.Hour)
	defer h.Stop()

	logger := slog.New(h)
	for i := 0; i < pgBatchSize; i++ {
		logger.Error("fail", "n", i)
	}

	assert.Eventually(t, func() bool {
		return len(w.snapshot()) == pgBatchSize
	}, time.Second, 10*time.Millisecond)
}

func TestPGHandler_WriterFailureDoesNotPanic(t *testing.T) {
	w := &memoryWriter{err: errors.New("db down")}
	h := newPGHandler(w, time.Hour)

	slog.New(h).Error("boom")
	assert.NotPanics(t, h.Stop)
	assert.NotPanics(t, h.Stop, "stop is idempotent")
}

func TestFanoutHandler(t *testing.T) {
	var info, errs bytes.Buffer
	fan := NewFanoutHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(fan).With("component", "test")

	assert.False(t, fan.Enabled(context.Background(), slog.LevelDebug))
	logger.Info("hello")
	logger.Error("bad")

	assert.Contains(t, info.String(), `"msg":"hello"`)
	assert.Contains(t, info.String(), `"msg":"bad"`)
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), `"component":"test"`)
}

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/themessagevault/vault-backend/internal/models"
)

const (
	pgBatchSize     = 50
	pgFlushInterval = 5 * time.Second
)

// BatchWriter persists a batch of log rows.
type BatchWriter interface {
	WriteLogs(batch []models.SystemLog) error
}

// GormWriter writes log rows to the system_logs table.
type GormWriter struct {
	DB *gorm.DB
}

func (w GormWriter) WriteLogs(batch []models.SystemLog) error {
	return w.DB.CreateInBatches(batch, pgBatchSize).Error
}

// PGHandler is an slog.Handler that buffers ERROR+ records and writes them
// in batches, either every flush interval or once the buffer is full.
type PGHandler struct {
	state *pgState
	attrs []slog.Attr
}

type pgState struct {
	writer BatchWriter
	mu     sync.Mutex
	buffer []models.SystemLog
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewPGHandler(writer BatchWriter) *PGHandler {
	return newPGHandler(writer, pgFlushInterval)
}

func newPGHandler(writer BatchWriter, interval time.Duration) *PGHandler {
	s := &pgState{
		writer: writer,
		buffer: make([]models.SystemLog, 0, pgBatchSize),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.flushLoop(interval)
	return &PGHandler{state: s}
}

func (s *pgState) flushLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *pgState) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, pgBatchSize)
	s.mu.Unlock()

	if err := s.writer.WriteLogs(batch); err != nil {
		// Written to stdout only; this handler ignores its own failures.
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and waits for the flush loop to exit.
func (h *PGHandler) Stop() {
	h.state.once.Do(func() { close(h.state.done) })
	h.state.wg.Wait()
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]any)
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "session_hash":
			entry.SessionHash = a.Value.String()
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			switch a.Value.Kind() {
			case slog.KindFloat64:
				entry.LatencyMs = int(math.Round(a.Value.Float64()))
			case slog.KindInt64:
				entry.LatencyMs = int(a.Value.Int64())
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.state
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	full := len(s.buffer) >= pgBatchSize
	s.mu.Unlock()

	if full {
		go s.flush()
	}
	return nil
}

// WithAttrs binds attrs to every record; groups are flattened.
func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	bound = append(bound, h.attrs...)
	bound = append(bound, attrs...)
	return &PGHandler{state: h.state, attrs: bound}
}

func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}

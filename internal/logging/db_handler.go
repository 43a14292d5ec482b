package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/movieclub-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultBatchSize = 50

// dbSink owns the buffer shared by a DBHandler and every handler derived from
// it through WithAttrs or WithGroup.
type dbSink struct {
	db        *gorm.DB
	batchSize int

	mu     sync.Mutex
	buffer []models.SystemLog

	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	sink   *dbSink
	attrs  []slog.Attr
	prefix string
}

func NewDBHandler(db *gorm.DB, flushEvery time.Duration) *DBHandler {
	s := &dbSink{
		db:        db,
		batchSize: defaultBatchSize,
		buffer:    make([]models.SystemLog, 0, defaultBatchSize),
		ticker:    time.NewTicker(flushEvery),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go s.flushLoop()
	return &DBHandler{sink: s}
}

func (s *dbSink) flushLoop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *dbSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, s.batchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, s.batchSize).Error; err != nil {
		// Warn stays below this handler's level, so it cannot recurse.
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes pending records and waits for the flush loop to exit.
func (h *DBHandler) Stop() {
	h.sink.stopOnce.Do(func() {
		h.sink.ticker.Stop()
		close(h.sink.done)
	})
	<-h.sink.stopped
}

// Enabled only handles ERROR and above.
func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	for _, a := range h.attrs {
		applyAttr(&entry, extra, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		applyAttr(&entry, extra, h.prefix, a)
		return true
	})

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.sink
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= s.batchSize
	s.mu.Unlock()

	if needFlush {
		go s.flush()
	}
	return nil
}

// applyAttr maps well-known keys onto columns; grouped or unknown keys go to Extra.
func applyAttr(entry *models.SystemLog, extra map[string]interface{}, prefix string, a slog.Attr) {
	if prefix != "" {
		extra[prefix+a.Key] = a.Value.Resolve().Any()
		return
	}

	switch a.Key {
	case "request_id":
		entry.RequestID = a.Value.String()
	case "user_id":
		s := a.Value.String()
		entry.UserID = &s
	case "movie_id":
		s := a.Value.String()
		entry.MovieID = &s
	case "path":
		entry.Path = a.Value.String()
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
		extra[a.Key] = a.Value.Resolve().Any()
	}
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		merged = append(merged, a)
	}
	return &DBHandler{sink: h.sink, attrs: merged, prefix: h.prefix}
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &DBHandler{sink: h.sink, attrs: h.attrs, prefix: h.prefix + name + "."}
}

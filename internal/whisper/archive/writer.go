// Package archive copies stored whisper events into the analytical event store.
package archive

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"github.com/goodnatureofminers/whisper-indexer/pkg/batcher"
)

// ErrQueueFull is returned by Record when the archive cannot keep up.
var ErrQueueFull = errors.New("archive queue full")

type Config struct {
	BatchSize        int
	FlushInterval    time.Duration
	FlushesPerSecond int
}

func DefaultConfig() Config {
	return Config{
		BatchSize:        500,
		FlushInterval:    2 * time.Second,
		FlushesPerSecond: 5,
	}
}

// Writer queues event records and inserts them in batches. Record never blocks.
type Writer struct {
	batcher *batcher.Batcher[model.EventRecord]
	logger  *zap.Logger
}

func NewWriter(inserter Inserter, cfg Config, logger *zap.Logger) (*Writer, error) {
	if inserter == nil {
		return nil, errors.New("archive inserter is required")
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("archive batch size must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("archive")

	return &Writer{
		batcher: batcher.New(logger, inserter.InsertEvents, cfg.BatchSize, cfg.FlushInterval, cfg.FlushesPerSecond),
		logger:  logger,
	}, nil
}

// Start begins flushing queued records until ctx is done or Stop is called.
func (w *Writer) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

// Stop flushes queued records and waits for the flush loop to exit.
func (w *Writer) Stop() {
	w.batcher.Stop()
	if dropped := w.batcher.Dropped(); dropped > 0 {
		w.logger.Warn("archive records dropped", zap.Uint64("count", dropped))
	}
}

func (w *Writer) Record(_ context.Context, rec model.EventRecord) error {
	if !w.batcher.TryAdd(rec) {
		return ErrQueueFull
	}
	return nil
}

// Dropped returns the number of records rejected because the queue was full or stopped.
func (w *Writer) Dropped() uint64 {
	return w.batcher.Dropped()
}

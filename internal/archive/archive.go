package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Batch is one export ready to ship.
type Batch struct {
	ID     string
	Events int
	Data   []byte
}

// Destination is an archive target (S3, git, ...).
type Destination interface {
	Write(ctx context.Context, batch Batch) error
}

// Run exports src once and writes the result to every destination. All
// destinations are attempted; the first error is returned.
func Run(ctx context.Context, src Source, dests []Destination, logger *slog.Logger) (*Batch, error) {
	var buf bytes.Buffer
	h, err := ExportJSONL(ctx, src, &buf)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	batch := &Batch{ID: h.BatchID, Events: h.EventCount, Data: buf.Bytes()}

	var firstErr error
	for _, dest := range dests {
		if err := dest.Write(ctx, *batch); err != nil {
			logger.Error("archive: destination write failed", "destination", fmt.Sprint(dest), "batch", batch.ID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	logger.Info("archive: export completed", "batch", batch.ID, "events", batch.Events, "bytes", len(batch.Data), "destinations", len(dests))
	return batch, firstErr
}

// Scheduler runs an export to its destinations at a fixed interval.
type Scheduler struct {
	src          Source
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports src to destinations every
// interval.
func NewScheduler(src Source, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		src:          src,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start runs an export immediately and then on every tick until Stop.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for a running export to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.once(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.once(ctx)
		}
	}
}

func (s *Scheduler) once(ctx context.Context) {
	if _, err := Run(ctx, s.src, s.destinations, s.logger); err != nil {
		s.logger.Error("archive: scheduled export failed", "err", err)
	}
}

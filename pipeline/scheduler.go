package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/insightlab/datasight/dataset"
	dserrors "github.com/insightlab/datasight/pkg/errors"
	"github.com/insightlab/datasight/pkg/log"
)

// DatasetSource produces a fresh dataset snapshot for each scheduled run,
// typically by re-reading a file or re-issuing a query.
type DatasetSource func(context.Context) (*dataset.Dataset, error)

// Scheduler re-runs the pipeline on a fixed interval. A tick that fires
// while a run is still in flight is skipped rather than queued, so runs
// never overlap. The latest result fully replaces the previous one.
type Scheduler struct {
	pipeline *Pipeline
	interval time.Duration
	source   DatasetSource
	logger   log.Logger

	mu      sync.Mutex
	running bool
	latest  *AnalysisResults
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewScheduler wraps a pipeline in a periodic refresh loop over source.
func NewScheduler(p *Pipeline, interval time.Duration, source DatasetSource) (*Scheduler, error) {
	if interval <= 0 {
		return nil, dserrors.NewValueError("pipeline.NewScheduler", "interval must be positive")
	}
	if source == nil {
		return nil, dserrors.NewValueError("pipeline.NewScheduler", "dataset source is required")
	}
	return &Scheduler{
		pipeline: p,
		interval: interval,
		source:   source,
		logger:   log.GetLoggerWithName("pipeline.scheduler"),
	}, nil
}

// Start launches the refresh loop. The first run fires immediately, then on
// every interval tick. Calling Start twice without Stop is an error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return dserrors.NewValueError("Scheduler.Start", "already started")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.loop(ctx)
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one refresh unless a previous one is still in flight.
func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug("refresh still in flight, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ds, err := s.source(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("dataset refresh failed", "error", err)
		}
		return
	}

	results, err := s.pipeline.Run(ctx, ds)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("scheduled refresh failed", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.latest = results
	s.mu.Unlock()
	s.logger.Info("scheduled refresh completed",
		log.RowsKey, len(results.Dataset.Rows),
		log.DurationKey, results.Elapsed)
}

// Latest returns the most recent completed result, or nil before the first
// successful run.
func (s *Scheduler) Latest() *AnalysisResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Stop cancels the loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

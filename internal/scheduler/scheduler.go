package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/lootworks/floorsync/internal/model"
)

// CollectionSyncer runs one synchronization pass for a collection.
type CollectionSyncer interface {
	Sync(ctx context.Context, cycleID uuid.UUID, collection string) model.CycleReport
}

// ReportHandler receives completed cycle reports.
type ReportHandler interface {
	HandleReport(report model.CycleReport)
}

// ReportHandlerFunc is a function adapter for ReportHandler.
type ReportHandlerFunc func(model.CycleReport)

func (f ReportHandlerFunc) HandleReport(r model.CycleReport) {
	f(r)
}

// Config holds scheduler configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 30s)
	Concurrency int           // Max in-flight synchronizations (default: 3)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    30 * time.Second,
		Concurrency: 3,
	}
}

// Stats summarizes scheduler activity for the health endpoint.
type Stats struct {
	Cycles       int64         // Completed poll cycles
	Tasks        int64         // Completed synchronization tasks
	Failures     int64         // Tasks that ended with a task-level failure
	LastCycleAt  time.Time     // Start of the most recent cycle
	LastDuration time.Duration // Dispatch duration of the most recent cycle
}

// Scheduler drives synchronization tasks over a fixed collection set.
type Scheduler struct {
	cfg         Config
	collections []string
	syncer      CollectionSyncer
	handler     ReportHandler
	logger      *slog.Logger

	// Admission control. Weighted semaphore acquisition is FIFO, so tasks
	// enter in enqueue order.
	sem *semaphore.Weighted

	ctx      context.Context
	cancel   context.CancelFunc
	stopping chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup // run loop
	tasks    sync.WaitGroup // in-flight synchronizations

	statsMu sync.Mutex
	stats   Stats
}

// New creates a new Scheduler.
func New(cfg Config, collections []string, syncer CollectionSyncer, handler ReportHandler, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:         cfg,
		collections: collections,
		syncer:      syncer,
		handler:     handler,
		logger:      logger,
		sem:         semaphore.NewWeighted(int64(cfg.Concurrency)),
		stopping:    make(chan struct{}),
	}
}

// Start begins the poll loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("scheduler started",
		"collections", len(s.collections),
		"interval", s.cfg.Interval,
		"concurrency", s.cfg.Concurrency,
	)

	return nil
}

// Stop drains the scheduler: no new poll cycles are admitted, and all
// in-flight and queued tasks run to completion. If ctx expires first, the
// remaining tasks are cancelled hard.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopping) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		s.tasks.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler drain timed out, cancelling tasks")
		s.cancel()
		<-done
		return ctx.Err()
	}
}

// Stats returns a copy of the current scheduler stats.
func (s *Scheduler) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// run is the main polling loop.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	// Sync immediately on start.
	s.runCycle()

	for {
		select {
		case <-s.stopping:
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runCycle()
		}
	}
}

// runCycle enqueues one synchronization per collection in config order.
// Dispatch blocks on semaphore acquisition when N tasks are already in
// flight, which is what bounds concurrency; the tasks themselves complete
// asynchronously.
func (s *Scheduler) runCycle() {
	cycleID := uuid.New()
	start := time.Now()

	s.logger.Debug("cycle start", "cycle", cycleID, "collections", len(s.collections))

	for _, collection := range s.collections {
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			return // hard cancel during drain timeout
		}

		s.tasks.Add(1)
		go func(collection string) {
			defer s.tasks.Done()
			defer s.sem.Release(1)

			report := s.syncer.Sync(s.ctx, cycleID, collection)
			s.recordReport(report)

			if s.handler != nil {
				s.handler.HandleReport(report)
			}
		}(collection)
	}

	s.statsMu.Lock()
	s.stats.Cycles++
	s.stats.LastCycleAt = start
	s.stats.LastDuration = time.Since(start)
	s.statsMu.Unlock()
}

// recordReport updates stats and logs the per-collection result.
func (s *Scheduler) recordReport(report model.CycleReport) {
	s.statsMu.Lock()
	s.stats.Tasks++
	if report.Err != nil {
		s.stats.Failures++
	}
	s.statsMu.Unlock()

	if report.Err != nil {
		s.logger.Warn("collection sync failed",
			"cycle", report.CycleID,
			"collection", report.Collection,
			"err", report.Err,
		)
		return
	}

	updated, skipped, failed := report.Counts()
	s.logger.Info("collection sync complete",
		"cycle", report.CycleID,
		"collection", report.Collection,
		"updated", updated,
		"skipped", skipped,
		"failed", failed,
		"dry_run", report.DryRun,
	)
}

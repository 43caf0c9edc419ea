package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lootworks/floorsync/internal/model"
)

// Config holds batching settings.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		FlushInterval: time.Second,
	}
}

// Metrics counts writer activity.
type Metrics struct {
	Inserts   int64
	Conflicts int64
	Flushes   int64
	Errors    int64
}

// snapshotRow is the persisted form of one collection's cycle result.
type snapshotRow struct {
	CycleID    uuid.UUID
	Collection string
	Floor      *float64
	TopBid     *float64
	Target     *float64
	Updated    int
	Skipped    int
	Failed     int
	DryRun     bool
	RelayTx    string
	RecordedAt int64
}

// Writer accumulates cycle reports and batch-inserts them.
type Writer struct {
	cfg    Config
	logger *slog.Logger

	db *pgxpool.Pool

	batch       []snapshotRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics Metrics
}

// NewWriter creates a snapshot journal writer.
func NewWriter(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		cfg:    cfg,
		db:     db,
		logger: logger,
		batch:  make([]snapshotRow, 0, cfg.BatchSize),
	}
}

// Start begins the periodic flush loop.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("snapshot journal started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop flushes the remaining batch and shuts down.
func (w *Writer) Stop(ctx context.Context) error {
	w.logger.Info("stopping snapshot journal")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("snapshot journal stop timed out")
	}

	// Final flush
	w.flush()

	w.logger.Info("snapshot journal stopped")
	return nil
}

// Stats returns current metrics.
func (w *Writer) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// HandleReport queues one cycle report for persistence. Task-level
// failures carry no snapshot and are not journaled.
func (w *Writer) HandleReport(report model.CycleReport) {
	if report.Err != nil {
		return
	}

	row := w.transform(report)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// transform converts a cycle report to its persisted row.
func (w *Writer) transform(report model.CycleReport) snapshotRow {
	updated, skipped, failed := report.Counts()

	row := snapshotRow{
		CycleID:    report.CycleID,
		Collection: report.Collection,
		Target:     report.Target,
		Updated:    updated,
		Skipped:    skipped,
		Failed:     failed,
		DryRun:     report.DryRun,
		RelayTx:    report.RelayTx,
		RecordedAt: time.Now().UnixMicro(),
	}
	if report.Quote != nil {
		row.Floor = report.Quote.Floor
		row.TopBid = report.Quote.TopBid
	}
	return row
}

// flushLoop periodically flushes the batch.
func (w *Writer) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// flush writes the current batch to the database.
func (w *Writer) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]snapshotRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	// The final flush runs after Stop has cancelled w.ctx, so fall back to
	// a bounded background context rather than dropping the last batch.
	ctx := w.ctx
	if ctx == nil || ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("snapshot batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed snapshots",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *Writer) batchInsert(ctx context.Context, rows []snapshotRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO sync_snapshots (cycle_id, collection, floor, top_bid, target, updated, skipped, failed, dry_run, relay_tx, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (cycle_id, collection) DO NOTHING
		`, r.CycleID, r.Collection, r.Floor, r.TopBid, r.Target, r.Updated, r.Skipped, r.Failed, r.DryRun, r.RelayTx, r.RecordedAt)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}

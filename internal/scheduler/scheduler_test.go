package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lootworks/floorsync/internal/model"
)

// trackingSyncer records in-flight concurrency and completed collections.
type trackingSyncer struct {
	delay   time.Duration
	failFor map[string]bool

	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu   sync.Mutex
	runs []string
}

func (s *trackingSyncer) Sync(ctx context.Context, cycleID uuid.UUID, collection string) model.CycleReport {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	for {
		seen := s.maxSeen.Load()
		if cur <= seen || s.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.runs = append(s.runs, collection)
	s.mu.Unlock()

	report := model.CycleReport{CycleID: cycleID, Collection: collection}
	if s.failFor[collection] {
		report.Err = errors.New("simulated stats failure")
	}
	return report
}

func (s *trackingSyncer) completed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.runs))
	copy(out, s.runs)
	return out
}

func TestScheduler_BoundsConcurrency(t *testing.T) {
	collections := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	ts := &trackingSyncer{delay: 20 * time.Millisecond}

	var reports atomic.Int32
	handler := ReportHandlerFunc(func(model.CycleReport) {
		reports.Add(1)
	})

	cfg := Config{
		Interval:    time.Hour, // single cycle, triggered at start
		Concurrency: 2,
	}
	s := New(cfg, collections, ts, handler, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := ts.maxSeen.Load(); got > 2 {
		t.Errorf("max concurrent tasks = %d, want <= 2", got)
	}
	if got := reports.Load(); got != int32(len(collections)) {
		t.Errorf("reports = %d, want %d", got, len(collections))
	}
}

func TestScheduler_FailureIsolation(t *testing.T) {
	ts := &trackingSyncer{failFor: map[string]bool{"a": true}}

	var mu sync.Mutex
	results := make(map[string]error)
	handler := ReportHandlerFunc(func(r model.CycleReport) {
		mu.Lock()
		results[r.Collection] = r.Err
		mu.Unlock()
	})

	s := New(Config{Interval: time.Hour, Concurrency: 3}, []string{"a", "b"}, ts, handler, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if results["a"] == nil {
		t.Error("collection a should have failed")
	}
	if err, ok := results["b"]; !ok || err != nil {
		t.Errorf("collection b did not complete cleanly: %v", err)
	}

	stats := s.Stats()
	if stats.Failures != 1 {
		t.Errorf("Stats.Failures = %d, want 1", stats.Failures)
	}
	if stats.Tasks != 2 {
		t.Errorf("Stats.Tasks = %d, want 2", stats.Tasks)
	}
}

func TestScheduler_StopDrainsQueuedTasks(t *testing.T) {
	collections := []string{"a", "b", "c", "d", "e", "f"}
	ts := &trackingSyncer{delay: 10 * time.Millisecond}

	s := New(Config{Interval: time.Hour, Concurrency: 1}, collections, ts, nil, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Stop immediately: the whole first cycle is still queued behind the
	// single slot. Drain must run all of it.
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := len(ts.completed()); got != len(collections) {
		t.Errorf("completed tasks = %d, want %d (queued tasks abandoned)", got, len(collections))
	}
}

func TestScheduler_RepeatsCycles(t *testing.T) {
	ts := &trackingSyncer{}

	s := New(Config{Interval: 15 * time.Millisecond, Concurrency: 2}, []string{"a"}, ts, nil, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := len(ts.completed()); got < 2 {
		t.Errorf("completed runs = %d, want >= 2 (initial + at least one tick)", got)
	}
	if s.Stats().Cycles < 2 {
		t.Errorf("Stats.Cycles = %d, want >= 2", s.Stats().Cycles)
	}
}

// Package scheduler implements the concurrency-bounded poll loop.
//
// The scheduler:
//   - Runs one synchronization per configured collection immediately on
//     start, then re-enqueues the full set every poll interval
//   - Admits at most N tasks in flight; admission is FIFO in enqueue order
//     via a weighted semaphore
//   - Isolates failures per collection per cycle
//   - Drains on shutdown: stops admitting new cycles, then waits for
//     in-flight and queued tasks to finish
package scheduler

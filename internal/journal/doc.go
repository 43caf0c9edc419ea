// Package journal persists per-cycle snapshots to PostgreSQL in batches.
// It is an optional, best-effort consumer of cycle reports: insert errors
// are counted and logged but never reach the pricing path.
package journal

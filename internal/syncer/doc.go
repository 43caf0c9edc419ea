// Package syncer implements the per-collection synchronization task: fetch
// the market quote, fetch own listings, compute the undercut target, patch
// listings priced above it, and best-effort publish a snapshot to the
// relay. Each task run owns its state entirely; failures never cross
// collection boundaries.
package syncer

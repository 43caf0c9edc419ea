// Package stream implements the optional live quote feed: a single
// WebSocket subscription to the stats marketplace that keeps the freshest
// floor/top-bid quote per collection in memory. The feed only ever makes
// quotes fresher; when it is cold or stale the REST stats gateway remains
// the source of truth.
package stream

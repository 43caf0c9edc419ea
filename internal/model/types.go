package model

import "github.com/google/uuid"

// Quote is the published market reference for a collection at a point in time.
type Quote struct {
	Collection string   // Collection slug
	Floor      *float64 // Lowest listed price (base units), nil = no signal
	TopBid     *float64 // Highest standing bid (base units), nil = no signal
	ObservedAt int64    // Observation time (µs since epoch)
}

// Listing is one of the operator's own active listings.
type Listing struct {
	ID    string   // Marketplace-assigned id
	Price *float64 // Current listed price (base units), nil if unknown
}

// Snapshot is the floor/top-bid/target triple recorded for a collection
// during one poll cycle.
type Snapshot struct {
	CycleID    uuid.UUID // Poll cycle that produced this snapshot
	Collection string    // Collection slug
	Floor      *float64  // Market floor (base units)
	TopBid     *float64  // Market top bid (base units)
	Target     *float64  // Computed target price (base units)
	DryRun     bool      // True if no mutating calls were issued
	RecordedAt int64     // Snapshot time (µs since epoch)
}

// OutcomeKind classifies the per-listing result of a sync pass.
type OutcomeKind int

const (
	OutcomeSkipped OutcomeKind = iota // Listing already at or below target
	OutcomeUpdated                    // Price patch issued (or would be, in dry-run)
	OutcomeFailed                     // Patch attempted and failed
)

// String returns the lowercase name of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeUpdated:
		return "updated"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating a single listing in one sync pass.
type Outcome struct {
	ListingID string
	Kind      OutcomeKind
	OldPrice  *float64 // Price before the pass, nil if unknown
	NewPrice  *float64 // Price after the pass, set only for OutcomeUpdated
	Reason    string   // Failure detail, set only for OutcomeFailed
}

// CycleReport is the complete result of one collection's sync pass.
//
// Err is set only for task-level failures (quote or listings fetch); it is
// mutually exclusive with Outcomes. Per-listing failures appear as
// OutcomeFailed entries instead.
type CycleReport struct {
	CycleID    uuid.UUID
	Collection string
	Quote      *Quote
	Target     *float64
	Outcomes   []Outcome
	RelayTx    string // Relay transaction hash, empty if not published
	DryRun     bool
	Err        error
}

// Counts returns the number of updated, skipped, and failed listings.
func (r CycleReport) Counts() (updated, skipped, failed int) {
	for _, o := range r.Outcomes {
		switch o.Kind {
		case OutcomeUpdated:
			updated++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return updated, skipped, failed
}

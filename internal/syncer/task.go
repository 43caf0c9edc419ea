package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lootworks/floorsync/internal/model"
	"github.com/lootworks/floorsync/internal/pricing"
)

// QuoteSource provides the current market quote for a collection.
type QuoteSource interface {
	CollectionStats(ctx context.Context, collection string) (model.Quote, error)
}

// ListingSource reads and repositions the operator's own listings.
type ListingSource interface {
	MyListings(ctx context.Context, collection string) ([]model.Listing, error)
	PatchPrice(ctx context.Context, listingID string, price float64) error
}

// SnapshotPublisher pushes cycle snapshots to the chain relay.
type SnapshotPublisher interface {
	Paused(ctx context.Context) (bool, error)
	PublishSnapshot(ctx context.Context, snap model.Snapshot) (string, error)
}

// Config holds the task's pricing policy.
type Config struct {
	UndercutBps int
	MinTick     float64
	DryRun      bool
}

// Syncer runs one synchronization pass per collection per cycle.
type Syncer struct {
	cfg      Config
	quotes   QuoteSource
	listings ListingSource
	relay    SnapshotPublisher // nil when no relay is configured
	logger   *slog.Logger
}

// New creates a Syncer. relay may be nil.
func New(cfg Config, quotes QuoteSource, listings ListingSource, relay SnapshotPublisher, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		cfg:      cfg,
		quotes:   quotes,
		listings: listings,
		relay:    relay,
		logger:   logger,
	}
}

// Sync runs one synchronization pass for a collection.
//
// A quote or listings fetch failure aborts the pass with report.Err set and
// zero patches issued. Per-listing patch failures are recorded as
// OutcomeFailed and never abort sibling listings. Relay publication is
// best-effort and never affects the pricing outcomes.
func (s *Syncer) Sync(ctx context.Context, cycleID uuid.UUID, collection string) model.CycleReport {
	report := model.CycleReport{
		CycleID:    cycleID,
		Collection: collection,
		DryRun:     s.cfg.DryRun,
	}

	quote, err := s.quotes.CollectionStats(ctx, collection)
	if err != nil {
		report.Err = fmt.Errorf("fetch quote: %w", err)
		return report
	}
	report.Quote = &quote

	listings, err := s.listings.MyListings(ctx, collection)
	if err != nil {
		report.Err = fmt.Errorf("fetch listings: %w", err)
		return report
	}

	target := pricing.Target(quote.Floor, quote.TopBid, s.cfg.UndercutBps, s.cfg.MinTick)
	report.Target = target

	s.logger.Debug("computed target",
		"collection", collection,
		"floor", amountAttr(quote.Floor),
		"top_bid", amountAttr(quote.TopBid),
		"target", amountAttr(target),
	)

	for _, listing := range listings {
		if listing.ID == "" {
			continue
		}
		report.Outcomes = append(report.Outcomes, s.reprice(ctx, listing, target))
	}

	s.publish(ctx, &report)

	return report
}

// reprice evaluates one listing against the target and patches it when the
// listing sits above target by more than the noise margin.
func (s *Syncer) reprice(ctx context.Context, listing model.Listing, target *float64) model.Outcome {
	if !pricing.ShouldUpdate(listing.Price, target, pricing.DefaultEpsilon) {
		return model.Outcome{
			ListingID: listing.ID,
			Kind:      model.OutcomeSkipped,
			OldPrice:  listing.Price,
		}
	}

	if !s.cfg.DryRun {
		if err := s.listings.PatchPrice(ctx, listing.ID, *target); err != nil {
			s.logger.Warn("patch failed",
				"listing", listing.ID,
				"err", err,
			)
			return model.Outcome{
				ListingID: listing.ID,
				Kind:      model.OutcomeFailed,
				OldPrice:  listing.Price,
				Reason:    err.Error(),
			}
		}
	}

	return model.Outcome{
		ListingID: listing.ID,
		Kind:      model.OutcomeUpdated,
		OldPrice:  listing.Price,
		NewPrice:  target,
	}
}

// publish pushes the cycle snapshot to the relay when one is configured,
// reachable, and not paused. Nothing here can fail the pass.
func (s *Syncer) publish(ctx context.Context, report *model.CycleReport) {
	if s.relay == nil || report.Target == nil || s.cfg.DryRun {
		return
	}

	paused, err := s.relay.Paused(ctx)
	if err != nil {
		s.logger.Warn("relay status check failed", "collection", report.Collection, "err", err)
		return
	}
	if paused {
		s.logger.Info("relay paused, snapshot not published", "collection", report.Collection)
		return
	}

	snap := model.Snapshot{
		CycleID:    report.CycleID,
		Collection: report.Collection,
		Floor:      report.Quote.Floor,
		TopBid:     report.Quote.TopBid,
		Target:     report.Target,
		DryRun:     report.DryRun,
		RecordedAt: time.Now().UnixMicro(),
	}

	tx, err := s.relay.PublishSnapshot(ctx, snap)
	if err != nil {
		s.logger.Warn("snapshot publish failed", "collection", report.Collection, "err", err)
		return
	}
	report.RelayTx = tx
}

// amountAttr renders an optional amount for logging.
func amountAttr(v *float64) any {
	if v == nil {
		return "none"
	}
	return *v
}

package stream

import (
	"context"

	"github.com/lootworks/floorsync/internal/model"
)

// RestSource is the fallback quote fetcher, satisfied by the REST stats
// gateway.
type RestSource interface {
	CollectionStats(ctx context.Context, collection string) (model.Quote, error)
}

// Source serves quotes from the live feed when it is fresh, falling back
// to the REST stats gateway otherwise. It satisfies the synchronization
// task's quote source.
type Source struct {
	feed *Feed
	rest RestSource
}

// NewSource wraps a feed and its REST fallback.
func NewSource(feed *Feed, rest RestSource) *Source {
	return &Source{feed: feed, rest: rest}
}

// CollectionStats returns the freshest available quote for a collection.
func (s *Source) CollectionStats(ctx context.Context, collection string) (model.Quote, error) {
	if q := s.feed.Quote(collection); q != nil {
		return *q, nil
	}
	return s.rest.CollectionStats(ctx, collection)
}

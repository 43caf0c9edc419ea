package marketplace

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lootworks/floorsync/internal/config"
	"github.com/lootworks/floorsync/internal/model"
)

// StatsClient reads floor/top-bid quotes from the stats marketplace.
type StatsClient struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewStatsClient creates a stats gateway client.
func NewStatsClient(cfg config.GatewayConfig, logger *slog.Logger) *StatsClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsClient{
		http:   newHTTPClient(cfg, logger),
		logger: logger,
	}
}

// statsResponse from GET /collections/{slug}/stats.
type statsResponse struct {
	FloorPrice string `json:"floorPrice"`
	HighestBid string `json:"highestBid"`
}

// CollectionStats fetches the current market quote for a collection.
// Absent or malformed amounts come back as nil fields, not errors; only
// transport and HTTP failures are errors.
func (c *StatsClient) CollectionStats(ctx context.Context, collection string) (model.Quote, error) {
	var out statsResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/collections/" + url.PathEscape(collection) + "/stats")
	if err != nil {
		return model.Quote{}, fmt.Errorf("get collection stats %s: %w", collection, err)
	}
	if err := checkStatus(resp); err != nil {
		return model.Quote{}, fmt.Errorf("get collection stats %s: %w", collection, err)
	}

	return model.Quote{
		Collection: collection,
		Floor:      ParseAmount(out.FloorPrice),
		TopBid:     ParseAmount(out.HighestBid),
		ObservedAt: time.Now().UnixMicro(),
	}, nil
}

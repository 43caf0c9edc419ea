package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/lootworks/floorsync/internal/config"
	"github.com/lootworks/floorsync/internal/model"
)

// ListingsClient reads and repositions the operator's own listings.
type ListingsClient struct {
	http   *resty.Client
	wallet string
	logger *slog.Logger
}

// NewListingsClient creates a listings gateway client.
func NewListingsClient(cfg config.GatewayConfig, logger *slog.Logger) *ListingsClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingsClient{
		http:   newHTTPClient(cfg, logger),
		wallet: cfg.Wallet,
		logger: logger,
	}
}

// listingsEnvelope from GET /listings. The listings field is kept raw so a
// non-sequence payload is detected instead of silently decoded to nothing.
type listingsEnvelope struct {
	Data struct {
		Listings json.RawMessage `json:"listings"`
	} `json:"data"`
}

type listingDTO struct {
	ID    string     `json:"id"`
	Price flexAmount `json:"price"`
}

// MyListings fetches the caller's active listings for a collection.
// A payload whose listings field is not a sequence is an error; the caller
// must never patch prices based on guessed data.
func (c *ListingsClient) MyListings(ctx context.Context, collection string) ([]model.Listing, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("collection", collection)
	if c.wallet != "" {
		req.SetQueryParam("offerer_address", c.wallet)
	}

	resp, err := req.Get("/listings")
	if err != nil {
		return nil, fmt.Errorf("get listings %s: %w", collection, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("get listings %s: %w", collection, err)
	}

	var env listingsEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode listings %s: %w", collection, err)
	}
	if len(env.Data.Listings) == 0 {
		return nil, nil
	}

	var dtos []listingDTO
	if err := json.Unmarshal(env.Data.Listings, &dtos); err != nil {
		return nil, fmt.Errorf("listings payload for %s is not a sequence: %w", collection, err)
	}

	out := make([]model.Listing, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, model.Listing{ID: d.ID, Price: d.Price.val})
	}
	return out, nil
}

// PatchPrice repositions a single listing to the given base-unit price.
func (c *ListingsClient) PatchPrice(ctx context.Context, listingID string, price float64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"price": strconv.FormatFloat(price, 'f', -1, 64),
		}).
		Patch("/listings/" + url.PathEscape(listingID) + "/price")
	if err != nil {
		return fmt.Errorf("patch listing %s: %w", listingID, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("patch listing %s: %w", listingID, err)
	}
	return nil
}

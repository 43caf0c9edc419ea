package relay

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/lootworks/floorsync/internal/config"
	"github.com/lootworks/floorsync/internal/model"
)

// Publisher pushes floor/top-bid/target snapshots to the chain relay.
type Publisher struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewPublisher creates a relay client. It carries the same fixed-wait
// retry policy as the marketplace gateways; exhausted retries surface as
// errors the caller treats as best-effort.
func NewPublisher(cfg config.RelayConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(attempts - 1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true // network error or timeout
			}
			return r.StatusCode() >= 500 || r.StatusCode() == http.StatusTooManyRequests
		})
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}

	return &Publisher{http: c, logger: logger}
}

type statusResponse struct {
	Paused bool `json:"paused"`
}

// Paused reports whether the relay contract is currently refusing snapshots.
func (p *Publisher) Paused(ctx context.Context) (bool, error) {
	var out statusResponse

	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/relay/status")
	if err != nil {
		return false, fmt.Errorf("get relay status: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("get relay status: http %d", resp.StatusCode())
	}

	return out.Paused, nil
}

type publishRequest struct {
	Collection string `json:"collection"`
	FloorWei   string `json:"floorWei"`
	TopBidWei  string `json:"topBidWei"`
	TargetWei  string `json:"targetWei"`
}

type publishResponse struct {
	TxHash string `json:"txHash"`
}

// PublishSnapshot pushes one collection snapshot and returns the relay
// transaction hash. Amounts convert to integer wei here; absent amounts
// publish as zero, which the contract treats as no-signal.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap model.Snapshot) (string, error) {
	body := publishRequest{
		Collection: snap.Collection,
		FloorWei:   weiString(snap.Floor),
		TopBidWei:  weiString(snap.TopBid),
		TargetWei:  weiString(snap.Target),
	}

	var out publishResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post("/relay/snapshots")
	if err != nil {
		return "", fmt.Errorf("publish snapshot %s: %w", snap.Collection, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("publish snapshot %s: http %d %s",
			snap.Collection, resp.StatusCode(), http.StatusText(resp.StatusCode()))
	}

	return out.TxHash, nil
}

// weiFromDecimal converts a base-unit amount to integer wei, rounding
// down. Truncation never overstates the decimal amount on chain.
func weiFromDecimal(v float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(v), big.NewFloat(1e18))
	wei, _ := f.Int(nil)
	return wei
}

func weiString(v *float64) string {
	if v == nil {
		return "0"
	}
	return weiFromDecimal(*v).String()
}

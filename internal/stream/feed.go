package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lootworks/floorsync/internal/config"
	"github.com/lootworks/floorsync/internal/marketplace"
	"github.com/lootworks/floorsync/internal/model"
)

// Feed maintains a live quote cache fed by the marketplace stream.
type Feed struct {
	cfg         config.StreamConfig
	collections []string
	logger      *slog.Logger

	mu        sync.RWMutex
	quotes    map[string]model.Quote
	connected bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Feed for the given collections.
func New(cfg config.StreamConfig, collections []string, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		cfg:         cfg,
		collections: collections,
		logger:      logger,
		quotes:      make(map[string]model.Quote),
	}
}

// Start begins the connect/read/reconnect loop.
func (f *Feed) Start(ctx context.Context) error {
	f.ctx, f.cancel = context.WithCancel(ctx)

	f.wg.Add(1)
	go f.run()

	f.logger.Info("quote stream started", "url", f.cfg.URL, "collections", len(f.collections))
	return nil
}

// Stop shuts the feed down.
func (f *Feed) Stop(ctx context.Context) error {
	if f.cancel != nil {
		f.cancel()
	}

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		f.logger.Info("quote stream stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connected reports whether the feed currently holds a live connection.
func (f *Feed) Connected() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.connected
}

// Quote returns the freshest streamed quote for a collection, or nil when
// the feed has nothing newer than the staleness cutoff.
func (f *Feed) Quote(collection string) *model.Quote {
	f.mu.RLock()
	q, ok := f.quotes[collection]
	f.mu.RUnlock()
	if !ok {
		return nil
	}

	age := time.Since(time.UnixMicro(q.ObservedAt))
	if f.cfg.MaxStale > 0 && age > f.cfg.MaxStale {
		return nil
	}
	return &q
}

// run reconnects with exponential backoff until the feed is stopped.
func (f *Feed) run() {
	defer f.wg.Done()

	backoff := f.cfg.ReconnectBaseDelay

	for {
		received, err := f.connectAndRead()
		if err != nil {
			f.logger.Warn("quote stream disconnected", "err", err, "reconnect_in", backoff)
		}
		if received {
			// The session was live, so the next outage starts from the
			// base delay again.
			backoff = f.cfg.ReconnectBaseDelay
		}

		select {
		case <-f.ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > f.cfg.ReconnectMaxDelay {
			backoff = f.cfg.ReconnectMaxDelay
		}
	}
}

// subscribeRequest is the stream subscription command.
type subscribeRequest struct {
	Op          string   `json:"op"`
	Channel     string   `json:"channel"`
	Collections []string `json:"collections"`
}

// statsEvent is one streamed floor/top-bid update.
type statsEvent struct {
	Collection string `json:"collection"`
	FloorPrice string `json:"floorPrice"`
	HighestBid string `json:"highestBid"`
}

// connectAndRead dials, subscribes, and consumes events until the
// connection drops or the feed is stopped. It reports whether the session
// received at least one message.
func (f *Feed) connectAndRead() (received bool, err error) {
	header := http.Header{}
	if f.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.cfg.APIKey)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(f.ctx, f.cfg.URL, header)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	f.setConnected(true)
	defer f.setConnected(false)

	sub, err := json.Marshal(subscribeRequest{
		Op:          "subscribe",
		Channel:     "stats",
		Collections: f.collections,
	})
	if err != nil {
		return false, err
	}
	conn.SetWriteDeadline(time.Now().Add(f.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
		return false, err
	}

	// Answer server pings so the peer keeps the connection alive.
	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	f.logger.Debug("quote stream connected", "url", f.cfg.URL)

	// Unblock ReadMessage when the feed is stopped. done releases the
	// watchdog when this session ends, so reconnects do not accumulate
	// goroutines.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-f.ctx.Done():
			conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	for {
		select {
		case <-f.ctx.Done():
			return received, nil
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-f.ctx.Done():
				return received, nil
			default:
				return received, err
			}
		}

		received = true
		f.handleEvent(data)
	}
}

// handleEvent parses one stream message and refreshes the cache. Unknown
// or partial messages are ignored; the REST gateway remains authoritative.
func (f *Feed) handleEvent(data []byte) {
	var ev statsEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.Collection == "" {
		return
	}

	quote := model.Quote{
		Collection: ev.Collection,
		Floor:      marketplace.ParseAmount(ev.FloorPrice),
		TopBid:     marketplace.ParseAmount(ev.HighestBid),
		ObservedAt: time.Now().UnixMicro(),
	}

	f.mu.Lock()
	f.quotes[ev.Collection] = quote
	f.mu.Unlock()
}

func (f *Feed) setConnected(v bool) {
	f.mu.Lock()
	f.connected = v
	f.mu.Unlock()
}

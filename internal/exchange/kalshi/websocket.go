package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/your-org/kalshi-tsa-bot/pkg/logger"
)

// TickerUpdate is one best bid/ask update for a market.
type TickerUpdate struct {
	Ticker string `json:"market_ticker"`
	YesBid int    `json:"yes_bid"`
	YesAsk int    `json:"yes_ask"`
	Price  int    `json:"price"`
}

type wsCommand struct {
	ID     int      `json:"id"`
	Cmd    string   `json:"cmd"`
	Params wsParams `json:"params"`
}

type wsParams struct {
	Channels      []string `json:"channels"`
	MarketTickers []string `json:"market_tickers"`
}

type wsMessage struct {
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// WebSocketURL derives the websocket endpoint from the REST base URL.
func WebSocketURL(baseURL string) string {
	url := strings.Replace(baseURL, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/trade-api/ws/v2"
}

// TickerFeed streams best bid/ask updates for a set of markets.
type TickerFeed struct {
	url     string
	tickers []string
	updates chan TickerUpdate
}

// NewTickerFeed creates a feed for the given market tickers. wsURL is the
// venue's websocket endpoint (wss://...).
func NewTickerFeed(wsURL string, marketTickers []string) *TickerFeed {
	return &TickerFeed{
		url:     wsURL,
		tickers: marketTickers,
		updates: make(chan TickerUpdate, 64),
	}
}

// Updates returns the channel carrying ticker updates. It is closed when
// Run returns.
func (f *TickerFeed) Updates() <-chan TickerUpdate {
	return f.updates
}

// Run connects, subscribes to the ticker channel and forwards updates
// until the context is cancelled or the connection drops. Reconnection is
// the caller's decision: a quoting cycle that loses its feed simply falls
// back to the REST snapshot.
func (f *TickerFeed) Run(ctx context.Context) error {
	defer close(f.updates)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", f.url, err)
	}
	defer conn.Close()

	sub := wsCommand{
		ID:  1,
		Cmd: "subscribe",
		Params: wsParams{
			Channels:      []string{"ticker"},
			MarketTickers: f.tickers,
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	logger.Infof("Subscribed to ticker feed for %d markets", len(f.tickers))

	// Unblock ReadMessage when the context ends.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("ticker feed read failed: %w", err)
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Errorf("Failed to decode websocket message: %v", err)
			continue
		}
		if msg.Type != "ticker" {
			continue
		}
		var update TickerUpdate
		if err := json.Unmarshal(msg.Msg, &update); err != nil {
			logger.Errorf("Failed to decode ticker update: %v", err)
			continue
		}

		select {
		case f.updates <- update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Package engine places and cancels venue orders for a quoting pass.
package engine

import (
	"context"
	"fmt"

	"github.com/your-org/kalshi-tsa-bot/internal/exchange/kalshi"
	"github.com/your-org/kalshi-tsa-bot/internal/quote"
	"github.com/your-org/kalshi-tsa-bot/pkg/logger"
)

// OrderClient is the venue surface the execution engines need.
type OrderClient interface {
	GetRestingOrders(ctx context.Context, eventTicker string) ([]kalshi.Order, error)
	CreateOrder(ctx context.Context, req kalshi.OrderRequest) (*kalshi.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// ExecutionEngine is the interface for order execution.
type ExecutionEngine interface {
	// CancelResting pulls every resting order in the event.
	CancelResting(ctx context.Context, eventTicker string) error
	// Submit places the quotes as limit orders.
	Submit(ctx context.Context, quotes []quote.Quote) error
}

// LiveExecutionEngine submits real orders through the venue client.
type LiveExecutionEngine struct {
	client OrderClient
}

func NewLiveExecutionEngine(client OrderClient) *LiveExecutionEngine {
	return &LiveExecutionEngine{client: client}
}

func (e *LiveExecutionEngine) CancelResting(ctx context.Context, eventTicker string) error {
	orders, err := e.client.GetRestingOrders(ctx, eventTicker)
	if err != nil {
		return fmt.Errorf("failed to list resting orders for %s: %w", eventTicker, err)
	}
	failed := 0
	for _, o := range orders {
		if err := e.client.CancelOrder(ctx, o.OrderID); err != nil {
			logger.Errorf("Failed to cancel order %s (%s): %v", o.OrderID, o.Ticker, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to cancel %d of %d resting orders for %s", failed, len(orders), eventTicker)
	}
	logger.Infof("Cancelled %d resting orders for %s", len(orders), eventTicker)
	return nil
}

// Submit places every quote. A rejected order excludes that quote only;
// the rest of the pass continues.
func (e *LiveExecutionEngine) Submit(ctx context.Context, quotes []quote.Quote) error {
	failed := 0
	for _, q := range quotes {
		req := kalshi.OrderRequest{
			Action: "buy",
			Count:  q.Count,
			Side:   q.Side.String(),
			Ticker: q.Ticker,
			Type:   "limit",
		}
		switch q.Side {
		case quote.SideYes:
			req.YesPrice = q.Price
		case quote.SideNo:
			req.NoPrice = q.Price
		}
		order, err := e.client.CreateOrder(ctx, req)
		if err != nil {
			logger.Errorf("Quote submission did not happen for %s %s @ %d: %v", q.Ticker, q.Side, q.Price, err)
			failed++
			continue
		}
		logger.Infof("Placed %s %s %d @ %d (order %s)", q.Ticker, q.Side, q.Count, q.Price, order.OrderID)
	}
	if failed > 0 {
		return fmt.Errorf("failed to place %d of %d orders", failed, len(quotes))
	}
	return nil
}

// DryRunExecutionEngine logs intended actions without touching the
// venue.
type DryRunExecutionEngine struct{}

func NewDryRunExecutionEngine() *DryRunExecutionEngine {
	return &DryRunExecutionEngine{}
}

func (e *DryRunExecutionEngine) CancelResting(_ context.Context, eventTicker string) error {
	logger.Infof("[DRY RUN] Would cancel resting orders for %s", eventTicker)
	return nil
}

func (e *DryRunExecutionEngine) Submit(_ context.Context, quotes []quote.Quote) error {
	for _, q := range quotes {
		logger.Infof("[DRY RUN] Would place %s %s %d @ %d", q.Ticker, q.Side, q.Count, q.Price)
	}
	return nil
}

package quote

import (
	"github.com/your-org/kalshi-tsa-bot/internal/exchange/kalshi"
	"github.com/your-org/kalshi-tsa-bot/pkg/logger"
)

// Config holds the quoting parameters. Prices and edges are in cents.
type Config struct {
	MinEdge           int
	UnitSizeContracts int
	YesBidLower       int
	YesBidUpper       int
}

// Quote is one limit order the engine wants resting. Price is always
// expressed in the quoted side's own terms.
type Quote struct {
	Ticker string
	Side   Side
	Price  int
	Count  int
}

// Engine prices one market at a time. Each evaluation is stateless.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate returns the quotes for one market given its fair value and
// the risk verdict. A nil result means the market was filtered out or
// both sides were suppressed.
//
// The yes price never exceeds theo minus the minimum edge and the no
// price never exceeds (100 minus theo) minus the minimum edge. When the
// spread is wider than one tick the engine posts one tick inside the
// current best price; at a one-tick spread it joins the best price.
func (e *Engine) Evaluate(m kalshi.Market, theo int, allowed Sides) []Quote {
	mid := float64(m.YesBid+m.YesAsk) / 2
	if mid < float64(e.cfg.YesBidLower) || mid > float64(e.cfg.YesBidUpper) {
		logger.Debugf("Skipping %s: mid %.1f outside [%d, %d]", m.Ticker, mid, e.cfg.YesBidLower, e.cfg.YesBidUpper)
		return nil
	}
	if m.YesBid == 0 || m.YesAsk == 100 {
		logger.Debugf("Skipping %s: one-sided book (bid %d, ask %d)", m.Ticker, m.YesBid, m.YesAsk)
		return nil
	}
	// A crossed or zero-spread book is malformed upstream data.
	if m.YesBid >= m.YesAsk {
		logger.Warnf("Skipping %s: malformed book (bid %d, ask %d)", m.Ticker, m.YesBid, m.YesAsk)
		return nil
	}

	improve := 0
	if m.YesAsk-m.YesBid > 1 {
		improve = 1
	}

	var quotes []Quote
	if allowed.Yes {
		price := max(min(m.YesBid+improve, theo-e.cfg.MinEdge), 0)
		quotes = append(quotes, Quote{Ticker: m.Ticker, Side: SideYes, Price: price, Count: e.cfg.UnitSizeContracts})
	}
	if allowed.No {
		price := 100 - min(max(m.YesAsk-improve, theo+e.cfg.MinEdge), 100)
		quotes = append(quotes, Quote{Ticker: m.Ticker, Side: SideNo, Price: price, Count: e.cfg.UnitSizeContracts})
	}
	return quotes
}

package quote

import (
	"github.com/shopspring/decimal"

	"github.com/your-org/kalshi-tsa-bot/internal/position"
)

// Sides records which sides of a market may be quoted.
type Sides struct {
	Yes bool
	No  bool
}

// AllowedSides gates each side independently against the per-market
// exposure limit. A large long position suppresses further yes buying,
// a large short position suppresses further no buying. Hitting the
// limit exactly counts as breached.
func AllowedSides(book position.Book, maxNetExposurePerBook int64) Sides {
	limit := decimal.NewFromInt(maxNetExposurePerBook)
	return Sides{
		Yes: book.NetExposure.LessThan(limit),
		No:  book.NetExposure.GreaterThan(limit.Neg()),
	}
}

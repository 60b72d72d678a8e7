package position

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/your-org/kalshi-tsa-bot/internal/exchange/kalshi"
)

func TestBookFromVenueSignsExposure(t *testing.T) {
	long := BookFromVenue(kalshi.MarketPosition{Ticker: "A", Position: 10, MarketExposure: 420})
	assert.True(t, long.NetExposure.Equal(decimal.NewFromInt(420)))

	short := BookFromVenue(kalshi.MarketPosition{Ticker: "B", Position: -3, MarketExposure: 150})
	assert.True(t, short.NetExposure.Equal(decimal.NewFromInt(-150)))

	flat := BookFromVenue(kalshi.MarketPosition{Ticker: "C", Position: 0, MarketExposure: 0})
	assert.True(t, flat.NetExposure.IsZero())
}

func TestPortfolioTotalNetsAcrossBooks(t *testing.T) {
	p := NewPortfolio([]kalshi.MarketPosition{
		{Ticker: "A", Position: 10, MarketExposure: 420},
		{Ticker: "B", Position: -3, MarketExposure: 150},
	})
	assert.True(t, p.TotalNetExposure().Equal(decimal.NewFromInt(270)))
}

func TestPortfolioUnknownTickerIsZeroBook(t *testing.T) {
	p := NewPortfolio(nil)
	b := p.Book("KXTSAW-25JUL20-B13.2")
	assert.Equal(t, "KXTSAW-25JUL20-B13.2", b.Ticker)
	assert.Zero(t, b.Contracts)
	assert.True(t, b.NetExposure.IsZero())
}

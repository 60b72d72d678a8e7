// Package position tracks signed exposure per market and across a
// weekly event.
package position

import (
	"github.com/shopspring/decimal"

	"github.com/your-org/kalshi-tsa-bot/internal/exchange/kalshi"
)

// Book is our stance in one market. NetExposure carries the sign of the
// contract position: positive when net long yes, negative when net long
// no. Values are in cents.
type Book struct {
	Ticker      string
	Contracts   int64
	NetExposure decimal.Decimal
}

// BookFromVenue converts the venue's position record. The venue reports
// MarketExposure unsigned; the direction comes from the contract count.
func BookFromVenue(mp kalshi.MarketPosition) Book {
	exposure := decimal.NewFromInt(mp.MarketExposure)
	if mp.Position < 0 {
		exposure = exposure.Neg()
	}
	return Book{
		Ticker:      mp.Ticker,
		Contracts:   mp.Position,
		NetExposure: exposure,
	}
}

// Portfolio aggregates books across the markets of one event.
type Portfolio struct {
	books map[string]Book
}

// NewPortfolio builds a portfolio from venue position records.
func NewPortfolio(positions []kalshi.MarketPosition) *Portfolio {
	books := make(map[string]Book, len(positions))
	for _, mp := range positions {
		books[mp.Ticker] = BookFromVenue(mp)
	}
	return &Portfolio{books: books}
}

// Book returns the book for a market. Markets without a position get a
// zero book.
func (p *Portfolio) Book(ticker string) Book {
	if b, ok := p.books[ticker]; ok {
		return b
	}
	return Book{Ticker: ticker, NetExposure: decimal.Zero}
}

// TotalNetExposure sums signed exposure across every book. Long-yes and
// long-no positions offset each other at the event level.
func (p *Portfolio) TotalNetExposure() decimal.Decimal {
	total := decimal.Zero
	for _, b := range p.books {
		total = total.Add(b.NetExposure)
	}
	return total
}

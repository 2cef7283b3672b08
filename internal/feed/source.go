// Package feed supplies quote snapshots, either fetched live from the
// stooq CSV endpoint or produced by a random-walk simulator seeded
// with a fixed default universe.
package feed

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
)

// Source fetches fresh snapshots for a set of symbols.
type Source interface {
	Fetch(ctx context.Context, symbols []string) ([]domain.Snapshot, error)
}

// defaultStock seeds one instrument of the default universe.
type defaultStock struct {
	symbol string
	name   string
	price  string
	open   string
	high   string
	low    string
	volume int64
}

var defaultStocks = []defaultStock{
	{"AAPL", "Apple Inc.", "182.50", "180.00", "183.00", "179.50", 50000000},
	{"TSLA", "Tesla, Inc.", "245.20", "250.00", "252.00", "242.00", 30000000},
	{"NVDA", "NVIDIA Corp", "460.15", "450.00", "465.00", "448.00", 45000000},
	{"MSFT", "Microsoft", "335.50", "334.00", "338.00", "333.00", 20000000},
	{"AMZN", "Amazon", "135.20", "136.00", "137.00", "134.50", 35000000},
	{"GOOGL", "Alphabet", "130.45", "129.50", "131.00", "129.00", 22000000},
	{"META", "Meta Platforms", "310.50", "306.00", "312.00", "305.00", 18000000},
	{"NFLX", "Netflix", "445.00", "448.00", "450.00", "440.00", 5000000},
	{"AMD", "AMD", "105.25", "104.00", "106.00", "103.50", 40000000},
	{"DIS", "Disney", "85.50", "86.00", "86.50", "85.00", 12000000},
}

// DefaultUniverse returns the built-in set of snapshots the simulator
// starts from when no live data is available.
func DefaultUniverse(at time.Time) []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(defaultStocks))
	for _, s := range defaultStocks {
		out = append(out, domain.NewSnapshot(
			s.symbol,
			s.name,
			decimal.RequireFromString(s.price),
			decimal.RequireFromString(s.open),
			decimal.RequireFromString(s.high),
			decimal.RequireFromString(s.low),
			s.volume,
			at,
		))
	}
	return out
}

// DefaultSymbols returns the symbols of the default universe.
func DefaultSymbols() []string {
	out := make([]string, 0, len(defaultStocks))
	for _, s := range defaultStocks {
		out = append(out, s.symbol)
	}
	return out
}

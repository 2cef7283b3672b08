package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/pandastrade/papertrade/internal/domain"
)

// TestProperty_ValuationSums verifies that the aggregates equal the
// hand-computed sums over quoted positions for arbitrary portfolios.
func TestProperty_ValuationSums(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numHoldings := rapid.IntRange(0, 15).Draw(t, "numHoldings")
		now := time.Now()

		holdings := make([]domain.Holding, 0, numHoldings)
		snapshots := make(map[string]domain.Snapshot)
		wantValue := decimal.Zero
		wantChange := decimal.Zero

		for i := 0; i < numHoldings; i++ {
			symbol := fmt.Sprintf("S%d", i)
			shares := decimal.NewFromInt(rapid.Int64Range(1, 1000).Draw(t, fmt.Sprintf("shares-%d", i))).Div(decimal.NewFromInt(100))
			avgCost := decimal.NewFromInt(rapid.Int64Range(1, 100000).Draw(t, fmt.Sprintf("avg-%d", i))).Div(decimal.NewFromInt(100))
			holdings = append(holdings, domain.Holding{Symbol: symbol, Shares: shares, AvgCost: avgCost})

			// Roughly a third of the positions have no snapshot.
			if rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("quoted-%d", i)) == 0 {
				continue
			}
			price := decimal.NewFromInt(rapid.Int64Range(1, 100000).Draw(t, fmt.Sprintf("price-%d", i))).Div(decimal.NewFromInt(100))
			open := decimal.NewFromInt(rapid.Int64Range(1, 100000).Draw(t, fmt.Sprintf("open-%d", i))).Div(decimal.NewFromInt(100))
			snap := domain.NewSnapshot(symbol, symbol, price, open, price, open, 0, now)
			snapshots[symbol] = snap

			wantValue = wantValue.Add(shares.Mul(price))
			wantChange = wantChange.Add(shares.Mul(price.Sub(open)))
		}

		balance := decimal.NewFromInt(rapid.Int64Range(0, 10000000).Draw(t, "balance")).Div(decimal.NewFromInt(100))
		v := Valuate(balance, holdings, snapshots)

		if !v.PortfolioValue.Equal(wantValue) {
			t.Fatalf("PortfolioValue = %s, want %s", v.PortfolioValue, wantValue)
		}
		if !v.DayChangeValue.Equal(wantChange) {
			t.Fatalf("DayChangeValue = %s, want %s", v.DayChangeValue, wantChange)
		}
		if !v.TotalValue.Equal(balance.Add(wantValue)) {
			t.Fatalf("TotalValue = %s, want %s", v.TotalValue, balance.Add(wantValue))
		}

		base := wantValue.Sub(wantChange)
		if base.IsZero() {
			if !v.DayChangePercent.IsZero() {
				t.Fatalf("DayChangePercent = %s, want fallback 0", v.DayChangePercent)
			}
		} else {
			want := wantChange.Div(base).Mul(decimal.NewFromInt(100))
			if !v.DayChangePercent.Equal(want) {
				t.Fatalf("DayChangePercent = %s, want %s", v.DayChangePercent, want)
			}
		}
	})
}

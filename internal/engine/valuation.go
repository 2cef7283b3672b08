// Package engine holds the valuation engine, which derives portfolio
// figures from holdings and the latest snapshots, and the
// feed manager driving periodic quote ticks.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
)

var percentFactor = decimal.NewFromInt(100)

// PositionValuation is the derived view of one holding at the latest
// quote. Quoted is false when no snapshot is available for the symbol,
// in which case all derived figures are zero and the position
// contributes nothing to the aggregates.
type PositionValuation struct {
	Symbol       string
	Shares       decimal.Decimal
	AvgCost      decimal.Decimal
	Price        decimal.Decimal
	Value        decimal.Decimal
	DayChange    decimal.Decimal
	UnrealizedPL decimal.Decimal
	Quoted       bool
}

// PortfolioValuation aggregates all positions with the cash balance.
type PortfolioValuation struct {
	Balance          decimal.Decimal
	PortfolioValue   decimal.Decimal
	TotalValue       decimal.Decimal
	DayChangeValue   decimal.Decimal
	DayChangePercent decimal.Decimal
	Positions        []PositionValuation
}

// PositionValue is shares × current price.
func PositionValue(h domain.Holding, s domain.Snapshot) decimal.Decimal {
	return h.Shares.Mul(s.Price)
}

// PositionDayChange is shares × day change per share.
func PositionDayChange(h domain.Holding, s domain.Snapshot) decimal.Decimal {
	return h.Shares.Mul(s.ChangeAbs)
}

// PositionUnrealizedPL is (price − average cost) × shares.
func PositionUnrealizedPL(h domain.Holding, s domain.Snapshot) decimal.Decimal {
	return s.Price.Sub(h.AvgCost).Mul(h.Shares)
}

// Valuate derives the full portfolio valuation. It is a pure function
// of (balance, holdings, snapshots): no state, no I/O, never cached. A
// holding whose symbol has no snapshot contributes zero rather than
// failing the aggregate.
//
// DayChangePercent is the day change relative to yesterday's closing
// value (portfolio value minus today's change). When that denominator
// is zero (empty portfolio, or a 100% single-day drop) the percent
// is defined as zero.
func Valuate(balance decimal.Decimal, holdings []domain.Holding, snapshots map[string]domain.Snapshot) PortfolioValuation {
	v := PortfolioValuation{
		Balance:   balance,
		Positions: make([]PositionValuation, 0, len(holdings)),
	}

	for _, h := range holdings {
		pos := PositionValuation{
			Symbol:  h.Symbol,
			Shares:  h.Shares,
			AvgCost: h.AvgCost,
		}
		if snap, ok := snapshots[h.Symbol]; ok {
			pos.Quoted = true
			pos.Price = snap.Price
			pos.Value = PositionValue(h, snap)
			pos.DayChange = PositionDayChange(h, snap)
			pos.UnrealizedPL = PositionUnrealizedPL(h, snap)
			v.PortfolioValue = v.PortfolioValue.Add(pos.Value)
			v.DayChangeValue = v.DayChangeValue.Add(pos.DayChange)
		}
		v.Positions = append(v.Positions, pos)
	}

	v.TotalValue = balance.Add(v.PortfolioValue)
	if base := v.PortfolioValue.Sub(v.DayChangeValue); !base.IsZero() {
		v.DayChangePercent = v.DayChangeValue.Div(base).Mul(percentFactor)
	}
	return v
}

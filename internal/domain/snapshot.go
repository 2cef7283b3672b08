package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time quote for one instrument. ChangeAbs and
// ChangePct are always derived from Price and Open, never taken from
// the feed as-is, so the invariant ChangeAbs == Price - Open holds for
// every snapshot in the system.
type Snapshot struct {
	Symbol    string
	Name      string
	Price     decimal.Decimal
	Open      decimal.Decimal
	DayHigh   decimal.Decimal
	DayLow    decimal.Decimal
	Volume    int64
	ChangeAbs decimal.Decimal
	ChangePct decimal.Decimal
	At        time.Time
}

var oneHundred = decimal.NewFromInt(100)

// NewSnapshot builds a snapshot with the derived change fields filled
// in. ChangePct is zero when Open is zero.
func NewSnapshot(symbol, name string, price, open, high, low decimal.Decimal, volume int64, at time.Time) Snapshot {
	s := Snapshot{
		Symbol:  symbol,
		Name:    name,
		Price:   price,
		Open:    open,
		DayHigh: high,
		DayLow:  low,
		Volume:  volume,
		At:      at,
	}
	s.ChangeAbs = price.Sub(open)
	if !open.IsZero() {
		s.ChangePct = s.ChangeAbs.Div(open).Mul(oneHundred)
	}
	return s
}

// WithPrice returns a copy of the snapshot at a new price, recomputing
// the derived change fields against the unchanged day open.
func (s Snapshot) WithPrice(price decimal.Decimal, at time.Time) Snapshot {
	return NewSnapshot(s.Symbol, s.Name, price, s.Open, s.DayHigh, s.DayLow, s.Volume, at)
}

// Candle is one point of per-symbol price history, recorded by the
// feed on every tick.
type Candle struct {
	Time  time.Time
	Close decimal.Decimal
}

package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DecimalFromFloat converts a float64 from the JSON boundary into a
// decimal.Decimal. NaN and infinities are rejected here so they can
// never reach the ledger's arithmetic.
func DecimalFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("value must be a finite number")
	}
	return decimal.NewFromFloat(f), nil
}

// Float converts a decimal back to float64 for JSON responses. The
// ledger itself never round-trips through float64; this is display
// only.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

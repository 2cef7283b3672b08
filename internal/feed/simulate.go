package feed

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
)

// walkVolatility is the per-tick volatility of the random walk as a
// fraction of the current price.
const walkVolatility = 0.002

// priceFloor keeps simulated prices strictly positive.
var priceFloor = decimal.RequireFromString("0.01")

// Simulator produces synthetic snapshots by random-walking each
// symbol's last price. The day open stays fixed, so the derived change
// fields track the walk's drift from the open.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a Simulator with the given seed. Fixing the
// seed makes a simulation run reproducible.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Step advances every snapshot one tick: the price moves by a uniform
// step within ±volatility/2 of itself and is floored at 0.01.
func (s *Simulator) Step(prev []domain.Snapshot, at time.Time) []domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Snapshot, len(prev))
	for i, snap := range prev {
		price := snap.Price.InexactFloat64()
		change := (s.rng.Float64() - 0.5) * price * walkVolatility
		newPrice := decimal.NewFromFloat(price + change)
		if newPrice.LessThan(priceFloor) {
			newPrice = priceFloor
		}
		next[i] = snap.WithPrice(newPrice, at)
	}
	return next
}

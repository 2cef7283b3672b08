package feed

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/pandastrade/papertrade/internal/domain"
)

func TestSimulatorStep(t *testing.T) {
	sim := NewSimulator(1)
	start := time.Now()
	prev := DefaultUniverse(start)

	at := start.Add(5 * time.Second)
	next := sim.Step(prev, at)

	if len(next) != len(prev) {
		t.Fatalf("got %d snapshots, want %d", len(next), len(prev))
	}
	for i, snap := range next {
		if snap.Symbol != prev[i].Symbol {
			t.Errorf("snapshot %d symbol = %q, want %q", i, snap.Symbol, prev[i].Symbol)
		}
		if !snap.At.Equal(at) {
			t.Errorf("%s timestamp = %v, want %v", snap.Symbol, snap.At, at)
		}
		if !snap.Open.Equal(prev[i].Open) {
			t.Errorf("%s day open moved %s -> %s", snap.Symbol, prev[i].Open, snap.Open)
		}
		// One tick at 0.2% volatility moves the price at most 0.1%.
		maxMove := prev[i].Price.Mul(decimal.RequireFromString("0.001"))
		if snap.Price.Sub(prev[i].Price).Abs().GreaterThan(maxMove) {
			t.Errorf("%s moved %s in one tick, bound %s", snap.Symbol, snap.Price.Sub(prev[i].Price).Abs(), maxMove)
		}
	}
}

func TestSimulatorStep_Deterministic(t *testing.T) {
	start := time.Now()
	prev := DefaultUniverse(start)
	at := start.Add(5 * time.Second)

	a := NewSimulator(7).Step(prev, at)
	b := NewSimulator(7).Step(prev, at)

	for i := range a {
		if !a[i].Price.Equal(b[i].Price) {
			t.Errorf("%s: same seed produced %s and %s", a[i].Symbol, a[i].Price, b[i].Price)
		}
	}
}

func TestProperty_SimulatedPricesStayPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		startCents := rapid.Int64Range(1, 10000).Draw(t, "startCents")
		steps := rapid.IntRange(1, 200).Draw(t, "steps")

		price := decimal.NewFromInt(startCents).Div(decimal.NewFromInt(100))
		at := time.Now()
		snaps := []domain.Snapshot{
			domain.NewSnapshot("TEST", "TEST", price, price, price, price, 0, at),
		}

		sim := NewSimulator(seed)
		floor := decimal.RequireFromString("0.01")
		for i := 0; i < steps; i++ {
			at = at.Add(5 * time.Second)
			snaps = sim.Step(snaps, at)
			if snaps[0].Price.LessThan(floor) {
				t.Fatalf("price %s fell below floor after %d steps", snaps[0].Price, i+1)
			}
		}
	})
}

func TestProperty_DerivedChangeFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		startCents := rapid.Int64Range(100, 100000).Draw(t, "startCents")

		price := decimal.NewFromInt(startCents).Div(decimal.NewFromInt(100))
		at := time.Now()
		snaps := []domain.Snapshot{
			domain.NewSnapshot("TEST", "TEST", price, price, price, price, 0, at),
		}

		sim := NewSimulator(seed)
		for i := 0; i < 20; i++ {
			at = at.Add(5 * time.Second)
			snaps = sim.Step(snaps, at)

			snap := snaps[0]
			wantAbs := snap.Price.Sub(snap.Open)
			if !snap.ChangeAbs.Equal(wantAbs) {
				t.Fatalf("ChangeAbs = %s, want %s", snap.ChangeAbs, wantAbs)
			}
			wantPct := wantAbs.Div(snap.Open).Mul(decimal.NewFromInt(100))
			if !snap.ChangePct.Equal(wantPct) {
				t.Fatalf("ChangePct = %s, want %s", snap.ChangePct, wantPct)
			}
		}
	})
}

func TestDefaultUniverse(t *testing.T) {
	at := time.Now()
	snaps := DefaultUniverse(at)
	if len(snaps) != 10 {
		t.Fatalf("got %d default stocks, want 10", len(snaps))
	}

	byID := make(map[string]domain.Snapshot, len(snaps))
	for _, s := range snaps {
		byID[s.Symbol] = s
	}
	aapl, ok := byID["AAPL"]
	if !ok {
		t.Fatal("default universe missing AAPL")
	}
	if !aapl.Price.Equal(decimal.RequireFromString("182.50")) {
		t.Errorf("AAPL price = %s, want 182.50", aapl.Price)
	}
	if !aapl.Open.Equal(decimal.RequireFromString("180.00")) {
		t.Errorf("AAPL open = %s, want 180.00", aapl.Open)
	}

	if got := len(DefaultSymbols()); got != 10 {
		t.Errorf("DefaultSymbols returned %d symbols, want 10", got)
	}
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/store"
)

// memStorage keeps the persisted account in memory.
type memStorage struct {
	account *domain.Account
}

func (m *memStorage) Save(account *domain.Account) error {
	m.account = account.Clone()
	return nil
}

func (m *memStorage) Load() (*domain.Account, bool, error) {
	if m.account == nil {
		return nil, false, nil
	}
	return m.account.Clone(), true, nil
}

func newTestService() (*AccountService, *store.SnapshotStore, *domain.SymbolUniverse) {
	accounts, err := store.NewAccountStore(&memStorage{})
	if err != nil {
		panic(err)
	}
	snapshots := store.NewSnapshotStore()
	universe := domain.NewSymbolUniverse()
	return NewAccountService(accounts, snapshots, universe), snapshots, universe
}

func TestAccountService_BuyRegistersSymbol(t *testing.T) {
	svc, _, universe := newTestService()

	view, err := svc.Buy(TradeRequest{Symbol: "NVDA", Shares: 0.1, PricePerShare: 450})
	if err != nil {
		t.Fatalf("Buy error: %v", err)
	}
	if !universe.Contains("NVDA") {
		t.Error("bought symbol not registered in feed universe")
	}
	if !view.Balance.Equal(decimal.RequireFromString("115")) {
		t.Errorf("balance = %s, want 115", view.Balance)
	}
}

func TestAccountService_TradeValidation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name string
		req  TradeRequest
	}{
		{"lowercase symbol", TradeRequest{Symbol: "aapl", Shares: 1, PricePerShare: 10}},
		{"empty symbol", TradeRequest{Symbol: "", Shares: 1, PricePerShare: 10}},
		{"symbol too long", TradeRequest{Symbol: "ABCDEFGHIJK", Shares: 1, PricePerShare: 10}},
		{"leading digit", TradeRequest{Symbol: "1AAPL", Shares: 1, PricePerShare: 10}},
		{"zero shares", TradeRequest{Symbol: "AAPL", Shares: 0, PricePerShare: 10}},
		{"negative shares", TradeRequest{Symbol: "AAPL", Shares: -1, PricePerShare: 10}},
		{"negative price", TradeRequest{Symbol: "AAPL", Shares: 1, PricePerShare: -10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *domain.ValidationError
			if _, err := svc.Buy(tt.req); !errors.As(err, &vErr) {
				t.Errorf("Buy: got %v, want ValidationError", err)
			}
			if _, err := svc.Sell(tt.req); !errors.As(err, &vErr) {
				t.Errorf("Sell: got %v, want ValidationError", err)
			}
		})
	}
}

func TestAccountService_SymbolWithMarketSuffix(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Buy(TradeRequest{Symbol: "BMW.DE", Shares: 0.5, PricePerShare: 90}); err != nil {
		t.Errorf("Buy(BMW.DE) error: %v", err)
	}
}

func TestAccountService_SellPropagatesDomainErrors(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Sell(TradeRequest{Symbol: "NFLX", Shares: 1, PricePerShare: 400})
	if !errors.Is(err, domain.ErrHoldingNotFound) {
		t.Errorf("got %v, want ErrHoldingNotFound", err)
	}

	_, err = svc.Sell(TradeRequest{Symbol: "AAPL", Shares: 10, PricePerShare: 180})
	if !errors.Is(err, domain.ErrInsufficientHoldings) {
		t.Errorf("got %v, want ErrInsufficientHoldings", err)
	}
}

func TestAccountService_ToggleWatchlist(t *testing.T) {
	svc, _, universe := newTestService()

	watched, err := svc.ToggleWatchlist("AMD")
	if err != nil {
		t.Fatalf("ToggleWatchlist error: %v", err)
	}
	if !watched {
		t.Error("first toggle should watch the symbol")
	}
	if !universe.Contains("AMD") {
		t.Error("watched symbol not registered in feed universe")
	}

	watched, err = svc.ToggleWatchlist("AMD")
	if err != nil {
		t.Fatalf("ToggleWatchlist error: %v", err)
	}
	if watched {
		t.Error("second toggle should unwatch the symbol")
	}

	if _, err := svc.ToggleWatchlist("not-a-symbol"); err == nil {
		t.Error("expected validation error for malformed symbol")
	}
}

func TestAccountService_Reset(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Buy(TradeRequest{Symbol: "AMD", Shares: 1, PricePerShare: 100}); err != nil {
		t.Fatalf("Buy error: %v", err)
	}
	view, err := svc.Reset()
	if err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	if !view.Balance.Equal(decimal.RequireFromString("160")) {
		t.Errorf("balance after reset = %s, want 160", view.Balance)
	}
	if len(view.Holdings) != 2 {
		t.Errorf("holdings after reset = %d, want seed 2", len(view.Holdings))
	}
}

func TestAccountService_SetHoldingShares(t *testing.T) {
	svc, _, _ := newTestService()

	view, err := svc.SetHoldingShares("AAPL", 5)
	if err != nil {
		t.Fatalf("SetHoldingShares error: %v", err)
	}
	var aapl *domain.Holding
	for i := range view.Holdings {
		if view.Holdings[i].Symbol == "AAPL" {
			aapl = &view.Holdings[i]
		}
	}
	if aapl == nil || !aapl.Shares.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("AAPL shares not overridden to 5: %+v", view.Holdings)
	}

	if _, err := svc.SetHoldingShares("UNKNOWN", 5); !errors.Is(err, domain.ErrHoldingNotFound) {
		t.Errorf("got %v, want ErrHoldingNotFound for unknown symbol", err)
	}
	if _, err := svc.SetHoldingShares("aapl", 5); err == nil {
		t.Error("expected validation error for malformed symbol")
	}
}

// TestAccountService_ValuationConsistentDuringTrades trades at exactly
// the quoted price while a reader loops over valuations: every trade
// moves value between cash and the position without changing the sum,
// so any valuation whose total differs from the start mixed a balance
// from one account state with holdings from another.
func TestAccountService_ValuationConsistentDuringTrades(t *testing.T) {
	st := &memStorage{account: &domain.Account{
		Balance:   decimal.NewFromInt(1000),
		Currency:  "€",
		Holdings:  make(map[string]*domain.Holding),
		Watchlist: make(map[string]bool),
	}}
	accounts, err := store.NewAccountStore(st)
	if err != nil {
		t.Fatalf("NewAccountStore error: %v", err)
	}
	snapshots := store.NewSnapshotStore()
	universe := domain.NewSymbolUniverse()
	svc := NewAccountService(accounts, snapshots, universe)

	price := decimal.NewFromInt(100)
	snapshots.SetAll([]domain.Snapshot{
		domain.NewSnapshot("NVDA", "NVDA", price, price, price, price, 0, time.Now()),
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			if _, err := svc.Buy(TradeRequest{Symbol: "NVDA", Shares: 1, PricePerShare: 100}); err != nil {
				t.Errorf("buy %d: %v", i, err)
				return
			}
			if _, err := svc.Sell(TradeRequest{Symbol: "NVDA", Shares: 1, PricePerShare: 100}); err != nil {
				t.Errorf("sell %d: %v", i, err)
				return
			}
		}
	}()

	want := decimal.NewFromInt(1000)
	for {
		select {
		case <-done:
			return
		default:
		}
		v := svc.Valuation()
		if !v.TotalValue.Equal(want) {
			t.Fatalf("inconsistent valuation: balance=%s portfolio=%s total=%s, want total %s",
				v.Balance, v.PortfolioValue, v.TotalValue, want)
		}
	}
}

func TestAccountService_Valuation(t *testing.T) {
	svc, snapshots, _ := newTestService()

	now := time.Now()
	snapshots.SetAll([]domain.Snapshot{
		domain.NewSnapshot("AAPL", "Apple Inc.", decimal.RequireFromString("182.50"), decimal.RequireFromString("180.00"), decimal.RequireFromString("183.00"), decimal.RequireFromString("179.50"), 0, now),
		domain.NewSnapshot("TSLA", "Tesla, Inc.", decimal.RequireFromString("245.20"), decimal.RequireFromString("250.00"), decimal.RequireFromString("252.00"), decimal.RequireFromString("242.00"), 0, now),
	})

	v := svc.Valuation()
	// Seed account: 2 AAPL + 1 TSLA.
	wantPortfolio := decimal.RequireFromString("610.20")
	if !v.PortfolioValue.Equal(wantPortfolio) {
		t.Errorf("PortfolioValue = %s, want %s", v.PortfolioValue, wantPortfolio)
	}
	if !v.TotalValue.Equal(wantPortfolio.Add(decimal.RequireFromString("160"))) {
		t.Errorf("TotalValue = %s, want %s", v.TotalValue, wantPortfolio.Add(decimal.RequireFromString("160")))
	}
}

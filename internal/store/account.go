package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
)

// AccountStorage persists the account blob. Saves are synchronous: a
// mutation is acknowledged to the caller only after Save returns.
type AccountStorage interface {
	Save(*domain.Account) error
	Load() (account *domain.Account, ok bool, err error)
}

// AccountStore is the sole owner and mutator of the account: cash
// balance, holdings, and watchlist. All mutations are atomic: they
// are prepared on a clone, persisted, and only then committed to
// memory, so a failed call never leaves partial state. Listeners are
// notified after every successful mutation.
type AccountStore struct {
	mu      sync.RWMutex
	account *domain.Account
	storage AccountStorage

	lmu       sync.RWMutex
	listeners map[uuid.UUID]func()
}

// NewAccountStore loads the persisted account, or seeds and persists a
// fresh one on first run.
func NewAccountStore(st AccountStorage) (*AccountStore, error) {
	account, ok, err := st.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		account = domain.SeedAccount()
		if err := st.Save(account); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
		}
	}
	return &AccountStore{
		account:   account,
		storage:   st,
		listeners: make(map[uuid.UUID]func()),
	}, nil
}

// Buy purchases shares at the given price. It fails with
// ErrInsufficientBalance when the cost exceeds the cash balance; a buy
// is rejected, never clipped. On a repeat buy of a held symbol the
// average cost is recomputed in a single division:
//
//	avg = (oldShares·oldAvg + cost) / (oldShares + shares)
func (s *AccountStore) Buy(symbol string, shares, pricePerShare decimal.Decimal) error {
	if !shares.IsPositive() {
		return &domain.ValidationError{Message: "shares must be > 0"}
	}
	if pricePerShare.IsNegative() {
		return &domain.ValidationError{Message: "price_per_share must be >= 0"}
	}

	s.mu.Lock()
	cost := shares.Mul(pricePerShare)
	if cost.GreaterThan(s.account.Balance) {
		s.mu.Unlock()
		return domain.ErrInsufficientBalance
	}

	next := s.account.Clone()
	next.Balance = next.Balance.Sub(cost)
	if h, ok := next.Holdings[symbol]; ok {
		total := h.Shares.Add(shares)
		h.AvgCost = h.Shares.Mul(h.AvgCost).Add(cost).Div(total)
		h.Shares = total
	} else {
		next.Holdings[symbol] = &domain.Holding{Symbol: symbol, Shares: shares, AvgCost: pricePerShare}
	}

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Sell sells shares at the given price. It fails with
// ErrHoldingNotFound when the symbol is not held and
// ErrInsufficientHoldings when more shares are sold than held. Selling
// the entire position removes the holding; a partial sell leaves the
// average cost untouched.
func (s *AccountStore) Sell(symbol string, shares, pricePerShare decimal.Decimal) error {
	if !shares.IsPositive() {
		return &domain.ValidationError{Message: "shares must be > 0"}
	}
	if pricePerShare.IsNegative() {
		return &domain.ValidationError{Message: "price_per_share must be >= 0"}
	}

	s.mu.Lock()
	h, ok := s.account.Holdings[symbol]
	if !ok {
		s.mu.Unlock()
		return domain.ErrHoldingNotFound
	}
	if shares.GreaterThan(h.Shares) {
		s.mu.Unlock()
		return domain.ErrInsufficientHoldings
	}

	next := s.account.Clone()
	next.Balance = next.Balance.Add(shares.Mul(pricePerShare))
	remaining := h.Shares.Sub(shares)
	if remaining.IsZero() {
		delete(next.Holdings, symbol)
	} else {
		next.Holdings[symbol].Shares = remaining
	}

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetHoldingShares replaces a holding's share count directly, removing
// the holding when shares <= 0. The average cost and cash balance are
// never touched. This is a scenario-seeding override, not a trading
// operation, and is exposed only on the admin route.
func (s *AccountStore) SetHoldingShares(symbol string, shares decimal.Decimal) error {
	s.mu.Lock()
	_, held := s.account.Holdings[symbol]
	if !held && shares.IsPositive() {
		s.mu.Unlock()
		return domain.ErrHoldingNotFound
	}

	next := s.account.Clone()
	if shares.IsPositive() {
		next.Holdings[symbol].Shares = shares
	} else {
		delete(next.Holdings, symbol)
	}

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Reset replaces the account with the seed state. Idempotent.
func (s *AccountStore) Reset() error {
	s.mu.Lock()
	if err := s.commit(domain.SeedAccount()); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ToggleWatchlist adds the symbol to the watchlist when absent and
// removes it when present, reporting the resulting state. Watchlist
// membership is independent of holdings and balance.
func (s *AccountStore) ToggleWatchlist(symbol string) (watched bool, err error) {
	s.mu.Lock()
	next := s.account.Clone()
	if next.Watchlist[symbol] {
		delete(next.Watchlist, symbol)
	} else {
		next.Watchlist[symbol] = true
		watched = true
	}

	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()
	s.notify()
	return watched, nil
}

// commit persists next and swaps it in as the current account. Must be
// called with s.mu held. On persistence failure the in-memory account
// is left untouched.
func (s *AccountStore) commit(next *domain.Account) error {
	if err := s.storage.Save(next); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	s.account = next
	return nil
}

// View returns balance, currency, holdings, and watchlist read under a
// single lock, so the caller sees one consistent account state with no
// mutation interleaved between the fields.
func (s *AccountStore) View() (balance decimal.Decimal, currency string, holdings []domain.Holding, watchlist []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.Balance, s.account.Currency, s.account.HoldingList(), s.account.WatchlistSymbols()
}

// Balance returns the current cash balance.
func (s *AccountStore) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.Balance
}

// Currency returns the display currency label.
func (s *AccountStore) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.Currency
}

// Holdings returns a copy of all holdings sorted by symbol.
func (s *AccountStore) Holdings() []domain.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.HoldingList()
}

// HeldShares returns the shares held for symbol, zero when not held.
func (s *AccountStore) HeldShares(symbol string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.HeldShares(symbol)
}

// Watchlist returns the watchlist symbols in sorted order.
func (s *AccountStore) Watchlist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.WatchlistSymbols()
}

// Watched returns true if the symbol is on the watchlist.
func (s *AccountStore) Watched(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.Watchlist[symbol]
}

// Subscribe registers a callback invoked after every successful
// mutation. The returned token unsubscribes via Unsubscribe.
func (s *AccountStore) Subscribe(fn func()) uuid.UUID {
	token := uuid.New()
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners[token] = fn
	return token
}

// Unsubscribe removes a previously registered listener.
func (s *AccountStore) Unsubscribe(token uuid.UUID) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	delete(s.listeners, token)
}

// notify invokes all listeners. Called outside s.mu so listeners can
// read the store without deadlocking.
func (s *AccountStore) notify() {
	s.lmu.RLock()
	defer s.lmu.RUnlock()
	for _, fn := range s.listeners {
		fn()
	}
}

package service

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/engine"
	"github.com/pandastrade/papertrade/internal/store"
)

// symbolRegex accepts plain tickers plus an optional market suffix
// (e.g. AAPL, BMW.DE).
var symbolRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,9}(\.[A-Z]{1,4})?$`)

// TradeRequest represents the input for a buy or sell.
type TradeRequest struct {
	Symbol        string
	Shares        float64
	PricePerShare float64
}

// AccountView is the read model of the account returned to handlers.
type AccountView struct {
	Balance   decimal.Decimal
	Currency  string
	Holdings  []domain.Holding
	Watchlist []string
}

// AccountService validates trading requests and orchestrates the
// account store and valuation engine.
type AccountService struct {
	store     *store.AccountStore
	snapshots *store.SnapshotStore
	universe  *domain.SymbolUniverse
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts *store.AccountStore, snapshots *store.SnapshotStore, universe *domain.SymbolUniverse) *AccountService {
	return &AccountService{
		store:     accounts,
		snapshots: snapshots,
		universe:  universe,
	}
}

// validateTrade checks request shape; the store re-checks the domain
// preconditions.
func validateTrade(req TradeRequest) (shares, price decimal.Decimal, err error) {
	if !symbolRegex.MatchString(req.Symbol) {
		return decimal.Decimal{}, decimal.Decimal{}, &domain.ValidationError{
			Message: "symbol must match ^[A-Z][A-Z0-9]{0,9}(\\.[A-Z]{1,4})?$",
		}
	}
	shares, err = domain.DecimalFromFloat(req.Shares)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, &domain.ValidationError{Message: "shares must be a finite number"}
	}
	if !shares.IsPositive() {
		return decimal.Decimal{}, decimal.Decimal{}, &domain.ValidationError{Message: "shares must be > 0"}
	}
	price, err = domain.DecimalFromFloat(req.PricePerShare)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, &domain.ValidationError{Message: "price_per_share must be a finite number"}
	}
	if price.IsNegative() {
		return decimal.Decimal{}, decimal.Decimal{}, &domain.ValidationError{Message: "price_per_share must be >= 0"}
	}
	return shares, price, nil
}

// Buy executes a buy and returns the updated account view. A newly
// bought symbol joins the feed universe so it gets quoted.
func (s *AccountService) Buy(req TradeRequest) (AccountView, error) {
	shares, price, err := validateTrade(req)
	if err != nil {
		return AccountView{}, err
	}
	if err := s.store.Buy(req.Symbol, shares, price); err != nil {
		return AccountView{}, err
	}
	s.universe.Register(req.Symbol)
	return s.Account(), nil
}

// Sell executes a sell and returns the updated account view.
func (s *AccountService) Sell(req TradeRequest) (AccountView, error) {
	shares, price, err := validateTrade(req)
	if err != nil {
		return AccountView{}, err
	}
	if err := s.store.Sell(req.Symbol, shares, price); err != nil {
		return AccountView{}, err
	}
	return s.Account(), nil
}

// SetHoldingShares applies the scenario-seeding override.
func (s *AccountService) SetHoldingShares(symbol string, shares float64) (AccountView, error) {
	if !symbolRegex.MatchString(symbol) {
		return AccountView{}, &domain.ValidationError{Message: "invalid symbol"}
	}
	qty, err := domain.DecimalFromFloat(shares)
	if err != nil {
		return AccountView{}, &domain.ValidationError{Message: "shares must be a finite number"}
	}
	if err := s.store.SetHoldingShares(symbol, qty); err != nil {
		return AccountView{}, err
	}
	return s.Account(), nil
}

// Reset restores the seed account.
func (s *AccountService) Reset() (AccountView, error) {
	if err := s.store.Reset(); err != nil {
		return AccountView{}, err
	}
	return s.Account(), nil
}

// ToggleWatchlist flips watchlist membership for the symbol. A watched
// symbol joins the feed universe.
func (s *AccountService) ToggleWatchlist(symbol string) (watched bool, err error) {
	if !symbolRegex.MatchString(symbol) {
		return false, &domain.ValidationError{Message: "invalid symbol"}
	}
	watched, err = s.store.ToggleWatchlist(symbol)
	if err != nil {
		return false, err
	}
	if watched {
		s.universe.Register(symbol)
	}
	return watched, nil
}

// Account returns the current account view, read as one consistent
// state.
func (s *AccountService) Account() AccountView {
	balance, currency, holdings, watchlist := s.store.View()
	return AccountView{
		Balance:   balance,
		Currency:  currency,
		Holdings:  holdings,
		Watchlist: watchlist,
	}
}

// Valuation derives the portfolio valuation from one consistent
// account state and the latest snapshots. Reading balance and holdings
// atomically keeps a concurrent trade from showing up in one but not
// the other.
func (s *AccountService) Valuation() engine.PortfolioValuation {
	balance, _, holdings, _ := s.store.View()
	return engine.Valuate(balance, holdings, s.snapshots.All())
}

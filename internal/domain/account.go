package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Holding represents the account's position in a single stock symbol.
// AvgCost is the weighted average price paid per currently-held share;
// it is recomputed on every buy and left untouched by sells.
type Holding struct {
	Symbol  string          `json:"symbol"`
	Shares  decimal.Decimal `json:"shares"`
	AvgCost decimal.Decimal `json:"avg_cost"`
}

// Account is the single persisted state of the paper-trading ledger:
// cash balance, a cosmetic currency label, holdings keyed by symbol,
// and the watchlist. A holding with zero shares never appears in the
// map; it is removed, not kept as a zero row.
type Account struct {
	Balance   decimal.Decimal
	Currency  string
	Holdings  map[string]*Holding // symbol → holding
	Watchlist map[string]bool     // symbol set
}

// SeedAccount returns the initial account state used on first run and
// after a reset: €160 cash, 2 AAPL @ 175.50, 1 TSLA @ 210.00, empty
// watchlist.
func SeedAccount() *Account {
	return &Account{
		Balance:  decimal.RequireFromString("160"),
		Currency: "€",
		Holdings: map[string]*Holding{
			"AAPL": {Symbol: "AAPL", Shares: decimal.NewFromInt(2), AvgCost: decimal.RequireFromString("175.50")},
			"TSLA": {Symbol: "TSLA", Shares: decimal.NewFromInt(1), AvgCost: decimal.RequireFromString("210.00")},
		},
		Watchlist: make(map[string]bool),
	}
}

// Clone returns a deep copy of the account. Mutations are prepared on a
// clone and committed only after they persist successfully.
func (a *Account) Clone() *Account {
	holdings := make(map[string]*Holding, len(a.Holdings))
	for symbol, h := range a.Holdings {
		copied := *h
		holdings[symbol] = &copied
	}
	watchlist := make(map[string]bool, len(a.Watchlist))
	for symbol := range a.Watchlist {
		watchlist[symbol] = true
	}
	return &Account{
		Balance:   a.Balance,
		Currency:  a.Currency,
		Holdings:  holdings,
		Watchlist: watchlist,
	}
}

// HeldShares returns the number of shares held for symbol, or zero if
// the symbol is not held.
func (a *Account) HeldShares(symbol string) decimal.Decimal {
	h, ok := a.Holdings[symbol]
	if !ok {
		return decimal.Zero
	}
	return h.Shares
}

// HoldingList returns the holdings as a slice sorted by symbol. The
// map order is meaningless; sorting keeps responses and the persisted
// blob stable.
func (a *Account) HoldingList() []Holding {
	list := make([]Holding, 0, len(a.Holdings))
	for _, h := range a.Holdings {
		list = append(list, *h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Symbol < list[j].Symbol })
	return list
}

// WatchlistSymbols returns the watchlist as a sorted slice.
func (a *Account) WatchlistSymbols() []string {
	list := make([]string, 0, len(a.Watchlist))
	for symbol := range a.Watchlist {
		list = append(list, symbol)
	}
	sort.Strings(list)
	return list
}

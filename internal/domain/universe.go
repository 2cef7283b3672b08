package domain

import (
	"sort"
	"sync"
)

// SymbolUniverse tracks the symbols the quote feed polls, in a
// thread-safe manner. Symbols are registered when they appear in the
// default universe, in a holding, or on the watchlist.
type SymbolUniverse struct {
	mu      sync.RWMutex
	symbols map[string]bool
}

// NewSymbolUniverse creates a universe pre-seeded with the given
// symbols.
func NewSymbolUniverse(symbols ...string) *SymbolUniverse {
	u := &SymbolUniverse{symbols: make(map[string]bool, len(symbols))}
	for _, s := range symbols {
		u.symbols[s] = true
	}
	return u
}

// Register adds a symbol to the universe. Safe for concurrent use.
func (u *SymbolUniverse) Register(symbol string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.symbols[symbol] = true
}

// Contains returns true if the symbol is part of the universe.
func (u *SymbolUniverse) Contains(symbol string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.symbols[symbol]
}

// List returns all symbols in sorted order.
func (u *SymbolUniverse) List() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	list := make([]string, 0, len(u.symbols))
	for s := range u.symbols {
		list = append(list, s)
	}
	sort.Strings(list)
	return list
}

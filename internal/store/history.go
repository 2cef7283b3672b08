package store

import (
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/pandastrade/papertrade/internal/domain"
)

// HistoryStore keeps per-symbol price history ordered by time, one
// B-tree per symbol. Retention is bounded: once a series exceeds the
// limit, the oldest candles are dropped.
type HistoryStore struct {
	mu     sync.RWMutex
	series map[string]*btree.BTreeG[domain.Candle]
	limit  int
}

func candleLess(a, b domain.Candle) bool {
	return a.Time.Before(b.Time)
}

// NewHistoryStore creates a HistoryStore retaining at most limit
// candles per symbol.
func NewHistoryStore(limit int) *HistoryStore {
	return &HistoryStore{
		series: make(map[string]*btree.BTreeG[domain.Candle]),
		limit:  limit,
	}
}

// Append records a candle for the symbol. A candle with a duplicate
// timestamp replaces the earlier one.
func (s *HistoryStore) Append(symbol string, c domain.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, ok := s.series[symbol]
	if !ok {
		tree = btree.NewG(2, candleLess)
		s.series[symbol] = tree
	}
	tree.ReplaceOrInsert(c)
	for tree.Len() > s.limit {
		tree.DeleteMin()
	}
}

// Since returns the symbol's candles from the given time onward, in
// chronological order. An unknown symbol yields an empty slice.
func (s *HistoryStore) Since(symbol string, from time.Time) []domain.Candle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tree, ok := s.series[symbol]
	if !ok {
		return []domain.Candle{}
	}

	out := make([]domain.Candle, 0, tree.Len())
	tree.AscendGreaterOrEqual(domain.Candle{Time: from}, func(c domain.Candle) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Len reports the number of candles retained for a symbol.
func (s *HistoryStore) Len(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tree, ok := s.series[symbol]
	if !ok {
		return 0
	}
	return tree.Len()
}

package service

import (
	"sort"
	"time"

	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/store"
)

// historyRanges maps chart range labels to lookback windows over the
// in-memory history.
var historyRanges = map[string]time.Duration{
	"1D": 24 * time.Hour,
	"1W": 7 * 24 * time.Hour,
	"1M": 30 * 24 * time.Hour,
	"3M": 90 * 24 * time.Hour,
	"1Y": 365 * 24 * time.Hour,
}

// QuoteService serves the latest snapshots and price history.
type QuoteService struct {
	snapshots *store.SnapshotStore
	history   *store.HistoryStore
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(snapshots *store.SnapshotStore, history *store.HistoryStore) *QuoteService {
	return &QuoteService{
		snapshots: snapshots,
		history:   history,
	}
}

// Get returns the latest snapshot for a symbol, or
// domain.ErrSnapshotNotFound.
func (s *QuoteService) Get(symbol string) (domain.Snapshot, error) {
	return s.snapshots.Get(symbol)
}

// List returns the latest snapshot for every quoted symbol, sorted by
// symbol.
func (s *QuoteService) List() []domain.Snapshot {
	all := s.snapshots.All()
	out := make([]domain.Snapshot, 0, len(all))
	for _, snap := range all {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// History returns the symbol's candles within the window named by the
// range label (1D, 1W, 1M, 3M, 1Y). The symbol must have at least one
// snapshot; an unknown range label is a validation error.
func (s *QuoteService) History(symbol, rangeLabel string) ([]domain.Candle, error) {
	window, ok := historyRanges[rangeLabel]
	if !ok {
		return nil, &domain.ValidationError{Message: "range must be one of: 1D, 1W, 1M, 3M, 1Y"}
	}
	if _, err := s.snapshots.Get(symbol); err != nil {
		return nil, err
	}
	return s.history.Since(symbol, time.Now().Add(-window)), nil
}

package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/feed"
	"github.com/pandastrade/papertrade/internal/store"
)

// FeedManager drives the quote feed: on every tick it refreshes the
// snapshot store from the live source when one is configured, falling
// back to the random-walk simulator when the source fails or is
// absent, appends the new closes to the history store, and notifies
// subscribers. All snapshots of one tick land atomically, so consumers
// always see a consistent set.
type FeedManager struct {
	interval  time.Duration
	source    feed.Source // nil in simulated mode
	sim       *feed.Simulator
	snapshots *store.SnapshotStore
	history   *store.HistoryStore
	universe  *domain.SymbolUniverse
	logger    *slog.Logger

	lmu       sync.RWMutex
	listeners map[uuid.UUID]func()
}

// NewFeedManager creates a FeedManager. In simulated mode it seeds the
// snapshot and history stores with the default universe so valuations
// work before the first tick; in live mode the stores start empty and
// fill with real data on the first successful fetch, keeping synthetic
// points out of live history.
func NewFeedManager(
	interval time.Duration,
	source feed.Source,
	sim *feed.Simulator,
	snapshots *store.SnapshotStore,
	history *store.HistoryStore,
	universe *domain.SymbolUniverse,
	logger *slog.Logger,
) *FeedManager {
	m := &FeedManager{
		interval:  interval,
		source:    source,
		sim:       sim,
		snapshots: snapshots,
		history:   history,
		universe:  universe,
		listeners: make(map[uuid.UUID]func()),
		logger:    logger,
	}
	if source == nil {
		m.apply(feed.DefaultUniverse(time.Now()))
	}
	return m
}

// Start launches a background goroutine that ticks at the configured
// interval. It stops when ctx is cancelled.
func (m *FeedManager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				m.tick(ctx, t)
			}
		}
	}()
}

// tick refreshes all snapshots once. Fetch failures degrade to the
// simulator instead of leaving prices frozen.
func (m *FeedManager) tick(ctx context.Context, now time.Time) {
	if m.source != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, m.interval)
		snaps, err := m.source.Fetch(fetchCtx, m.universe.List())
		cancel()
		if err == nil && len(snaps) > 0 {
			m.apply(snaps)
			m.notify()
			return
		}
		if err != nil {
			m.logger.Warn("live quote fetch failed, simulating tick", slog.String("error", err.Error()))
		}
	}

	prev := m.current()
	if len(prev) == 0 {
		// Nothing fetched yet: walk the default universe so prices
		// exist while the live source is down.
		prev = feed.DefaultUniverse(now)
	}
	m.apply(m.sim.Step(prev, now))
	m.notify()
}

// current returns the latest snapshots for the universe's symbols.
// Symbols without a snapshot yet are skipped; they start contributing
// once the live source first returns them.
func (m *FeedManager) current() []domain.Snapshot {
	all := m.snapshots.All()
	out := make([]domain.Snapshot, 0, len(all))
	for _, symbol := range m.universe.List() {
		if snap, ok := all[symbol]; ok {
			out = append(out, snap)
		}
	}
	return out
}

// apply commits one tick's snapshots and their closes.
func (m *FeedManager) apply(snaps []domain.Snapshot) {
	m.snapshots.SetAll(snaps)
	for _, snap := range snaps {
		m.universe.Register(snap.Symbol)
		m.history.Append(snap.Symbol, domain.Candle{Time: snap.At, Close: snap.Price})
	}
}

// Subscribe registers a callback invoked after every completed tick.
func (m *FeedManager) Subscribe(fn func()) uuid.UUID {
	token := uuid.New()
	m.lmu.Lock()
	defer m.lmu.Unlock()
	m.listeners[token] = fn
	return token
}

// Unsubscribe removes a previously registered listener.
func (m *FeedManager) Unsubscribe(token uuid.UUID) {
	m.lmu.Lock()
	defer m.lmu.Unlock()
	delete(m.listeners, token)
}

func (m *FeedManager) notify() {
	m.lmu.RLock()
	defer m.lmu.RUnlock()
	for _, fn := range m.listeners {
		fn()
	}
}

package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
)

func TestHistoryStore_AppendAndSince(t *testing.T) {
	s := NewHistoryStore(100)
	base := time.Now()

	for i := 0; i < 10; i++ {
		s.Append("AAPL", domain.Candle{Time: base.Add(time.Duration(i) * time.Second), Close: d("180").Add(decimal.NewFromInt(int64(i)))})
	}

	// Everything from the 5th candle onward.
	got := s.Since("AAPL", base.Add(5*time.Second))
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Time.Before(got[i].Time) {
			t.Fatal("candles not in chronological order")
		}
	}

	// Unknown symbol yields an empty slice, not nil panic.
	if got := s.Since("NVDA", base); len(got) != 0 {
		t.Fatalf("unknown symbol: len = %d, want 0", len(got))
	}
}

func TestHistoryStore_RetentionLimit(t *testing.T) {
	s := NewHistoryStore(5)
	base := time.Now()

	for i := 0; i < 20; i++ {
		s.Append("AAPL", domain.Candle{Time: base.Add(time.Duration(i) * time.Second), Close: d("100")})
	}

	if s.Len("AAPL") != 5 {
		t.Fatalf("Len = %d, want 5", s.Len("AAPL"))
	}
	// The oldest candles are dropped, the newest survive.
	got := s.Since("AAPL", base)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if !got[len(got)-1].Time.Equal(base.Add(19 * time.Second)) {
		t.Fatalf("newest candle missing, got %v", got[len(got)-1].Time)
	}
}

func TestHistoryStore_DuplicateTimestampReplaces(t *testing.T) {
	s := NewHistoryStore(100)
	at := time.Now()

	s.Append("AAPL", domain.Candle{Time: at, Close: d("100")})
	s.Append("AAPL", domain.Candle{Time: at, Close: d("101")})

	got := s.Since("AAPL", at.Add(-time.Second))
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !got[0].Close.Equal(d("101")) {
		t.Fatalf("close = %s, want 101", got[0].Close)
	}
}

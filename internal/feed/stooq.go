package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pandastrade/papertrade/internal/domain"
)

// DefaultStooqURL is the public stooq quote endpoint. The format
// string f=sd2t2ohlcv yields Symbol,Date,Time,Open,High,Low,Close,Volume.
const DefaultStooqURL = "https://stooq.com/q/l/"

// usTickerRegex matches bare US tickers, which stooq requires to carry
// a .US suffix to distinguish them from other markets.
var usTickerRegex = regexp.MustCompile(`^[A-Z]+$`)

// StooqSource fetches live quotes from the stooq CSV endpoint.
type StooqSource struct {
	baseURL string
	client  *http.Client
}

// NewStooqSource creates a StooqSource against baseURL with the given
// request timeout.
func NewStooqSource(baseURL string, timeout time.Duration) *StooqSource {
	return &StooqSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and parses one CSV row per symbol. Symbols stooq
// reports as N/D (no data) are skipped rather than failing the batch;
// the call fails only when the endpoint is unreachable or the payload
// is not CSV.
func (s *StooqSource) Fetch(ctx context.Context, symbols []string) ([]domain.Snapshot, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	stooqSymbols := make([]string, len(symbols))
	for i, sym := range symbols {
		stooqSymbols[i] = toStooqSymbol(sym)
	}

	q := url.Values{}
	q.Set("s", strings.Join(stooqSymbols, " "))
	q.Set("f", "sd2t2ohlcv")
	q.Set("e", "csv")
	reqURL := s.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch quotes: upstream status %d", resp.StatusCode)
	}
	return parseQuoteCSV(resp.Body, time.Now())
}

// toStooqSymbol appends .US to bare US tickers.
func toStooqSymbol(symbol string) string {
	if usTickerRegex.MatchString(symbol) && !strings.Contains(symbol, ".") {
		return symbol + ".US"
	}
	return symbol
}

// fromStooqSymbol strips the .US suffix added by toStooqSymbol.
func fromStooqSymbol(symbol string) string {
	return strings.TrimSuffix(strings.ToUpper(symbol), ".US")
}

// parseQuoteCSV parses the stooq quote CSV
// (Symbol,Date,Time,Open,High,Low,Close,Volume). Rows with N/D fields
// are skipped.
func parseQuoteCSV(r io.Reader, at time.Time) ([]domain.Snapshot, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse quote csv: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("parse quote csv: empty response")
	}

	// Skip the header row.
	var snapshots []domain.Snapshot
	for _, rec := range records[1:] {
		if len(rec) != 8 {
			continue
		}
		symbol := fromStooqSymbol(rec[0])
		open, err1 := decimal.NewFromString(rec[3])
		high, err2 := decimal.NewFromString(rec[4])
		low, err3 := decimal.NewFromString(rec[5])
		price, err4 := decimal.NewFromString(rec[6])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			// N/D row: stooq has no data for this symbol.
			continue
		}
		volume, err := strconv.ParseInt(rec[7], 10, 64)
		if err != nil {
			volume = 0
		}
		snapshots = append(snapshots, domain.NewSnapshot(symbol, symbol, price, open, high, low, volume, at))
	}
	return snapshots, nil
}

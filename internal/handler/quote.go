package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/service"
)

// QuoteHandler handles HTTP requests for quote endpoints.
type QuoteHandler struct {
	quoteSvc *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteSvc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteSvc: quoteSvc}
}

// quoteResponse is the JSON shape of one snapshot.
type quoteResponse struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Open      float64 `json:"open"`
	DayHigh   float64 `json:"day_high"`
	DayLow    float64 `json:"day_low"`
	Volume    int64   `json:"volume"`
	ChangeAbs float64 `json:"change_abs"`
	ChangePct float64 `json:"change_pct"`
	QuotedAt  string  `json:"quoted_at"`
}

// candleResponse is one point of price history.
type candleResponse struct {
	Time  string  `json:"time"`
	Close float64 `json:"close"`
}

// historyResponse is the JSON response for the history endpoint.
type historyResponse struct {
	Symbol  string           `json:"symbol"`
	Range   string           `json:"range"`
	Candles []candleResponse `json:"candles"`
}

func toQuoteResponse(s domain.Snapshot) quoteResponse {
	return quoteResponse{
		Symbol:    s.Symbol,
		Name:      s.Name,
		Price:     domain.Float(s.Price),
		Open:      domain.Float(s.Open),
		DayHigh:   domain.Float(s.DayHigh),
		DayLow:    domain.Float(s.DayLow),
		Volume:    s.Volume,
		ChangeAbs: domain.Float(s.ChangeAbs),
		ChangePct: domain.Float(s.ChangePct),
		QuotedAt:  s.At.UTC().Format(time.RFC3339),
	}
}

// List handles GET /quotes.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps := h.quoteSvc.List()
	out := make([]quoteResponse, len(snaps))
	for i, s := range snaps {
		out[i] = toQuoteResponse(s)
	}
	WriteJSON(w, http.StatusOK, out)
}

// Get handles GET /quotes/{symbol}.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	snap, err := h.quoteSvc.Get(symbol)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toQuoteResponse(snap))
}

// History handles GET /quotes/{symbol}/history?range=1D.
func (h *QuoteHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	rangeLabel := r.URL.Query().Get("range")
	if rangeLabel == "" {
		rangeLabel = "1D"
	}

	candles, err := h.quoteSvc.History(symbol, rangeLabel)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	out := make([]candleResponse, len(candles))
	for i, c := range candles {
		out[i] = candleResponse{
			Time:  c.Time.UTC().Format(time.RFC3339),
			Close: domain.Float(c.Close),
		}
	}
	WriteJSON(w, http.StatusOK, historyResponse{
		Symbol:  symbol,
		Range:   rangeLabel,
		Candles: out,
	})
}

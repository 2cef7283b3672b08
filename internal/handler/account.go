package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/service"
)

// AccountHandler handles HTTP requests for account and trading
// endpoints.
type AccountHandler struct {
	accountSvc *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc *service.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// tradeRequest is the JSON request body for buy and sell.
type tradeRequest struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PricePerShare float64 `json:"price_per_share"`
}

// setSharesRequest is the JSON request body for the admin override.
type setSharesRequest struct {
	Shares float64 `json:"shares"`
}

// holdingResponse is a single holding in the account response.
type holdingResponse struct {
	Symbol  string  `json:"symbol"`
	Shares  float64 `json:"shares"`
	AvgCost float64 `json:"avg_cost"`
}

// accountResponse is the JSON response for account endpoints.
type accountResponse struct {
	Balance   float64           `json:"balance"`
	Currency  string            `json:"currency"`
	Holdings  []holdingResponse `json:"holdings"`
	Watchlist []string          `json:"watchlist"`
}

// watchlistResponse is the JSON response for the watchlist toggle.
type watchlistResponse struct {
	Symbol  string `json:"symbol"`
	Watched bool   `json:"watched"`
}

func toAccountResponse(view service.AccountView) accountResponse {
	holdings := make([]holdingResponse, len(view.Holdings))
	for i, h := range view.Holdings {
		holdings[i] = holdingResponse{
			Symbol:  h.Symbol,
			Shares:  domain.Float(h.Shares),
			AvgCost: domain.Float(h.AvgCost),
		}
	}
	return accountResponse{
		Balance:   domain.Float(view.Balance),
		Currency:  view.Currency,
		Holdings:  holdings,
		Watchlist: view.Watchlist,
	}
}

// Get handles GET /account.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, toAccountResponse(h.accountSvc.Account()))
}

// Buy handles POST /account/buy.
func (h *AccountHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.accountSvc.Buy)
}

// Sell handles POST /account/sell.
func (h *AccountHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.accountSvc.Sell)
}

func (h *AccountHandler) trade(w http.ResponseWriter, r *http.Request, exec func(service.TradeRequest) (service.AccountView, error)) {
	var req tradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := exec(service.TradeRequest{
		Symbol:        req.Symbol,
		Shares:        req.Shares,
		PricePerShare: req.PricePerShare,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toAccountResponse(view))
}

// Reset handles POST /account/reset. Destructive; the UI is expected
// to confirm with the user before calling.
func (h *AccountHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.accountSvc.Reset()
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toAccountResponse(view))
}

// SetHoldingShares handles PUT /admin/holdings/{symbol}.
func (h *AccountHandler) SetHoldingShares(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req setSharesRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.accountSvc.SetHoldingShares(symbol, req.Shares)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toAccountResponse(view))
}

// ToggleWatchlist handles POST /watchlist/{symbol}.
func (h *AccountHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	watched, err := h.accountSvc.ToggleWatchlist(symbol)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, watchlistResponse{Symbol: symbol, Watched: watched})
}

package handler

import (
	"net/http"

	"github.com/pandastrade/papertrade/internal/domain"
	"github.com/pandastrade/papertrade/internal/service"
)

// ValuationHandler serves derived portfolio figures.
type ValuationHandler struct {
	accountSvc *service.AccountService
}

// NewValuationHandler creates a new ValuationHandler.
func NewValuationHandler(accountSvc *service.AccountService) *ValuationHandler {
	return &ValuationHandler{accountSvc: accountSvc}
}

// positionResponse is one position's derived figures. The price and
// derived fields are null when no quote is available; the position
// then contributes zero to the aggregates.
type positionResponse struct {
	Symbol       string   `json:"symbol"`
	Shares       float64  `json:"shares"`
	AvgCost      float64  `json:"avg_cost"`
	Price        *float64 `json:"price"`
	Value        *float64 `json:"value"`
	DayChange    *float64 `json:"day_change"`
	UnrealizedPL *float64 `json:"unrealized_pl"`
}

// valuationResponse is the JSON response for GET /valuation.
type valuationResponse struct {
	Balance          float64            `json:"balance"`
	PortfolioValue   float64            `json:"portfolio_value"`
	TotalValue       float64            `json:"total_value"`
	DayChangeValue   float64            `json:"day_change_value"`
	DayChangePercent float64            `json:"day_change_percent"`
	Positions        []positionResponse `json:"positions"`
}

// Get handles GET /valuation.
func (h *ValuationHandler) Get(w http.ResponseWriter, r *http.Request) {
	v := h.accountSvc.Valuation()

	positions := make([]positionResponse, len(v.Positions))
	for i, p := range v.Positions {
		pos := positionResponse{
			Symbol:  p.Symbol,
			Shares:  domain.Float(p.Shares),
			AvgCost: domain.Float(p.AvgCost),
		}
		if p.Quoted {
			price := domain.Float(p.Price)
			value := domain.Float(p.Value)
			dayChange := domain.Float(p.DayChange)
			unrealized := domain.Float(p.UnrealizedPL)
			pos.Price = &price
			pos.Value = &value
			pos.DayChange = &dayChange
			pos.UnrealizedPL = &unrealized
		}
		positions[i] = pos
	}

	WriteJSON(w, http.StatusOK, valuationResponse{
		Balance:          domain.Float(v.Balance),
		PortfolioValue:   domain.Float(v.PortfolioValue),
		TotalValue:       domain.Float(v.TotalValue),
		DayChangeValue:   domain.Float(v.DayChangeValue),
		DayChangePercent: domain.Float(v.DayChangePercent),
		Positions:        positions,
	})
}

package handler

import (
	"net/http"

	"github.com/pandastrade/papertrade/internal/service"
)

// AuthHandler handles the unlock endpoint.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// verifyRequest is the JSON request body for POST /auth/verify.
type verifyRequest struct {
	PIN string `json:"pin"`
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.authSvc.Verify(req.PIN); err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
}

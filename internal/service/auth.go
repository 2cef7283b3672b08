package service

import (
	"github.com/pandastrade/papertrade/internal/auth"
	"github.com/pandastrade/papertrade/internal/domain"
)

// AuthService fronts the configured authentication provider.
type AuthService struct {
	provider auth.Provider
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider auth.Provider) *AuthService {
	return &AuthService{provider: provider}
}

// Verify checks an unlock attempt. An empty secret is rejected before
// reaching the provider.
func (s *AuthService) Verify(secret string) error {
	if secret == "" {
		return &domain.ValidationError{Message: "pin is required"}
	}
	return s.provider.Authenticate(secret)
}

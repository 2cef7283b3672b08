// Package auth implements the access gate in front of the UI. It sits
// entirely outside the ledger's trust boundary: nothing in the core
// consults it.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/pandastrade/papertrade/internal/domain"
)

// Provider authenticates an unlock attempt. One concrete provider per
// platform mechanism; StaticProvider serves tests and simulation.
type Provider interface {
	Authenticate(secret string) error
}

// PINProvider checks a numeric PIN against a bcrypt hash. The plain
// PIN is never retained.
type PINProvider struct {
	hash []byte
}

// NewPINProvider hashes the given PIN.
func NewPINProvider(pin string) (*PINProvider, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &PINProvider{hash: hash}, nil
}

// Authenticate returns domain.ErrAuthenticationFailed on any mismatch;
// the reason is never disclosed to the caller.
func (p *PINProvider) Authenticate(secret string) error {
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(secret)); err != nil {
		return domain.ErrAuthenticationFailed
	}
	return nil
}

// StaticProvider is a deterministic provider for tests and simulated
// environments: it accepts everything when Allow is true and rejects
// everything otherwise.
type StaticProvider struct {
	Allow bool
}

func (p *StaticProvider) Authenticate(string) error {
	if !p.Allow {
		return domain.ErrAuthenticationFailed
	}
	return nil
}

package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInsufficientBalance  = errors.New("insufficient_balance")
	ErrInsufficientHoldings = errors.New("insufficient_holdings")
	ErrHoldingNotFound      = errors.New("holding_not_found")
	ErrSnapshotNotFound     = errors.New("snapshot_not_found")
	ErrPersistenceFailed    = errors.New("persistence_failed")
	ErrAuthenticationFailed = errors.New("authentication_failed")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

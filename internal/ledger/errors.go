package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ledger core. Callers classify failures with
// errors.Is and map them to transport-level responses at the edge.
var (
	// ErrNotAuthorized is returned when an operation targets a record that
	// exists but belongs to a different owner.
	ErrNotAuthorized = errors.New("ledger: not authorized")

	// ErrNotFound is returned when a referenced transaction or goal does not exist.
	ErrNotFound = errors.New("ledger: not found")

	// ErrStoreUnavailable is returned when the persistence layer fails or
	// times out. The mutation may be retried.
	ErrStoreUnavailable = errors.New("ledger: store unavailable")

	// ErrExternalSourceUnavailable is returned when the bank feed provider
	// cannot be reached. The ledger is left untouched.
	ErrExternalSourceUnavailable = errors.New("ledger: external source unavailable")

	// ErrBalanceInconsistent is returned when the stored balance does not
	// match the sum of live transactions. Recovery is a full recompute.
	ErrBalanceInconsistent = errors.New("ledger: balance inconsistent")
)

// ValidationError describes malformed or out-of-range input. It is detected
// before any mutation, so a ValidationError never leaves partial state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ledger: invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps an underlying storage failure as ErrStoreUnavailable while
// preserving the cause for logging.
func StoreError(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// ExternalSourceError wraps a bank feed failure as ErrExternalSourceUnavailable.
func ExternalSourceError(err error) error {
	return fmt.Errorf("%w: %w", ErrExternalSourceUnavailable, err)
}

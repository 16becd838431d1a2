/*
errors.go - Centralized error types for the ledger

PURPOSE:
  All validation and degradation errors in one place. Validation errors
  are returned to the caller before any mutation is applied; persistence
  errors never invalidate a committed mutation.

ERROR CATEGORIES:
  1. Booking validation - Invalid interval, past date, insufficient hours
  2. Top-up validation  - Non-positive amount
  3. Persistence        - Storage read/write failed (degrade, never fatal)

SEE ALSO:
  - ledger.go: Returns these errors
  - notify: Dispatch failures are reported as Outcome values, not errors
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInterval is returned when a lesson's end time is not
	// strictly after its start time.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrInsufficientHours is returned when a lesson's duration exceeds
	// the remaining hour balance.
	ErrInsufficientHours = errors.New("insufficient hours remaining")

	// ErrInvalidAmount is returned for a non-positive top-up request.
	ErrInvalidAmount = errors.New("requested amount must be positive")

	// ErrPastDate is returned when a lesson date is before today.
	ErrPastDate = errors.New("lesson date is in the past")

	// ErrPersistenceUnavailable is returned when the backing store cannot
	// be read or written. The ledger degrades to in-memory state; this is
	// never fatal and never unwinds a committed mutation.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientHoursError provides details about a balance shortage.
type InsufficientHoursError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientHoursError) Error() string {
	return fmt.Sprintf("insufficient hours: available %s, requested %s, shortfall %s",
		e.Available, e.Requested, e.Shortfall)
}

func (e *InsufficientHoursError) Unwrap() error {
	return ErrInsufficientHours
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInsufficientHours) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrPastDate)
}

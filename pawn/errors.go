/*
errors.go - Centralized error taxonomy for the pawn ledger

ERROR CATEGORIES:
  1. Not found     - referenced ticket does not exist
  2. Invalid state - operation against a ticket not in the required status
  3. Outstanding   - redeem attempted while a balance remains
  4. Validation    - out-of-range input, rejected before any mutation

All errors are detected synchronously within the single operation they belong
to; none are retried internally.

USAGE:
  Sentinels work with errors.Is, structured errors with errors.As:

    if pawn.IsNotFound(err) { ... 404 ... }
    var obe *pawn.OutstandingBalanceError
    if errors.As(err, &obe) { obe.Outstanding ... }
*/
package pawn

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrTicketNotFound is returned when a referenced ticket does not exist.
	// Payment, redeem and default lookups against a missing id all surface it.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketNotActive is returned when a mutating operation (other than
	// mark-default) targets a ticket in a terminal status. The operation has
	// no effect; in particular the payment is NOT recorded.
	ErrTicketNotActive = errors.New("ticket not active")

	// ErrOutstandingBalance is returned when an explicit redeem is requested
	// while outstanding > 0.
	ErrOutstandingBalance = errors.New("outstanding balance remaining")

	// ErrInvalidInput is returned for malformed or out-of-range input values,
	// always before any state mutation.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidStateError reports the status that blocked the operation.
type InvalidStateError struct {
	TicketID TicketID
	Status   Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("ticket %s is %s, not active", e.TicketID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrTicketNotActive }

// OutstandingBalanceError carries the exact remaining amount so the caller
// can act on it.
type OutstandingBalanceError struct {
	TicketID    TicketID
	Outstanding decimal.Decimal
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("outstanding balance remaining: %s", e.Outstanding)
}

func (e *OutstandingBalanceError) Unwrap() error { return ErrOutstandingBalance }

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing ticket.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound)
}

// IsClientError returns true if the error is due to invalid client input or
// a rejected business rule, as opposed to an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrTicketNotActive) ||
		errors.Is(err, ErrOutstandingBalance) ||
		errors.Is(err, ErrInvalidInput)
}

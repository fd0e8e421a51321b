// Package apperr defines the error taxonomy shared by all services.
// Errors are sentinel values wrapped with context via %w; handlers map
// them to HTTP statuses with HTTPStatus and Retryable.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// Validation
	ErrInvalidAmount = errors.New("invalid amount")
	ErrValidation    = errors.New("validation failed")

	// Conflicts — actionable, not retryable without change
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrRequestAlreadyPending = errors.New("payout request already pending")
	ErrAlreadyResolved       = errors.New("already resolved")
	ErrBudgetExceeded        = errors.New("campaign budget exceeded")
	ErrConflict              = errors.New("conflict")

	// Access
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Lookup
	ErrNotFound = errors.New("not found")

	// Contention — safe to retry, no partial effect survives
	ErrContention = errors.New("resource contention, retry")

	// Integrity — ledger invariant violated, requires manual
	// reconciliation; never clamped or swallowed
	ErrIntegrity = errors.New("ledger integrity violation")
)

// HTTPStatus maps a taxonomy error to its response status. Unknown
// errors are treated as internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrRequestAlreadyPending),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrBudgetExceeded),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrContention):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Retryable reports whether the caller may safely re-issue the same
// request. Only contention failures qualify.
func Retryable(err error) bool {
	return errors.Is(err, ErrContention)
}

// UserMessage returns the client-facing message. Integrity and
// unknown failures map to a generic message; everything else is
// specific and distinguishable.
func UserMessage(err error) string {
	if HTTPStatus(err) == fiber.StatusInternalServerError {
		return "internal error"
	}
	if errors.Is(err, ErrContention) {
		return "temporarily busy, please try again"
	}
	return err.Error()
}

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrInvalidAmount, fiber.StatusBadRequest},
		{ErrValidation, fiber.StatusBadRequest},
		{ErrUnauthorized, fiber.StatusUnauthorized},
		{ErrForbidden, fiber.StatusForbidden},
		{ErrNotFound, fiber.StatusNotFound},
		{ErrInsufficientFunds, fiber.StatusConflict},
		{ErrRequestAlreadyPending, fiber.StatusConflict},
		{ErrAlreadyResolved, fiber.StatusConflict},
		{ErrBudgetExceeded, fiber.StatusConflict},
		{ErrContention, fiber.StatusConflict},
		{ErrIntegrity, fiber.StatusInternalServerError},
		{errors.New("unexpected"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.status)
			}
		})
	}
}

func TestWrappedErrorsKeepStatus(t *testing.T) {
	wrapped := fmt.Errorf("debit account: %w", ErrInsufficientFunds)
	if got := HTTPStatus(wrapped); got != fiber.StatusConflict {
		t.Errorf("HTTPStatus(wrapped) = %d, want %d", got, fiber.StatusConflict)
	}
	if !Retryable(fmt.Errorf("lock: %w", ErrContention)) {
		t.Error("wrapped contention should remain retryable")
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(ErrContention) {
		t.Error("contention must be retryable")
	}
	for _, err := range []error{ErrInsufficientFunds, ErrAlreadyResolved, ErrNotFound, ErrIntegrity} {
		if Retryable(err) {
			t.Errorf("%v must not be retryable", err)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if UserMessage(ErrIntegrity) != "internal error" {
		t.Error("integrity failures must map to a generic message")
	}
	if UserMessage(errors.New("boom")) != "internal error" {
		t.Error("unknown failures must map to a generic message")
	}
	if UserMessage(ErrInsufficientFunds) != "insufficient funds" {
		t.Error("conflict errors must stay specific")
	}
}

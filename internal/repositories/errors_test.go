package repositories

import (
	"errors"
	"testing"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslatePgError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes", nil, nil},
		{"no rows", pgx.ErrNoRows, apperr.ErrNotFound},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, apperr.ErrContention},
		{
			"open payout index",
			&pgconn.PgError{Code: "23505", ConstraintName: "payout_requests_open_idx"},
			apperr.ErrRequestAlreadyPending,
		},
		{
			"other unique violation",
			&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			apperr.ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translatePgError("op", tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("translatePgError = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("translatePgError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTranslatePgErrorPassthrough(t *testing.T) {
	sentinel := errors.New("connection refused")
	got := translatePgError("op", sentinel)
	if !errors.Is(got, sentinel) {
		t.Errorf("unknown errors should stay unwrappable, got %v", got)
	}
	if errors.Is(got, apperr.ErrContention) || errors.Is(got, apperr.ErrNotFound) {
		t.Errorf("unknown error mapped into the taxonomy: %v", got)
	}
}

func TestTranslateLedgerError(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{models.ErrNonPositiveAmount, apperr.ErrInvalidAmount},
		{models.ErrInsufficient, apperr.ErrInsufficientFunds},
		{models.ErrPendingUnderflow, apperr.ErrIntegrity},
		{models.ErrUnknownKind, apperr.ErrIntegrity},
	}
	for _, tt := range tests {
		if got := translateLedgerError(tt.in); !errors.Is(got, tt.want) {
			t.Errorf("translateLedgerError(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

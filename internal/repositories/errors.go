package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories care about.
const (
	codeUniqueViolation = "23505"
	codeLockNotAvail    = "55P03"
)

// translatePgError converts driver-level failures into the shared
// taxonomy: row-lock misses become retryable contention, the payout
// partial unique index becomes RequestAlreadyPending, missing rows
// become NotFound. Everything else passes through wrapped.
func translatePgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvail:
			return fmt.Errorf("%s: %w", op, apperr.ErrContention)
		case codeUniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "payout_requests_open") {
				return fmt.Errorf("%s: %w", op, apperr.ErrRequestAlreadyPending)
			}
			return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PayoutRepo struct {
	pool *pgxpool.Pool
}

func NewPayoutRepo(pool *pgxpool.Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

// CreateIn inserts a payout request inside the caller's transaction,
// alongside the hold debit on the account. The partial unique index on
// open requests turns a duplicate into RequestAlreadyPending.
func (r *PayoutRepo) CreateIn(ctx context.Context, tx pgx.Tx, p *models.PayoutRequest) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO payout_requests (account_id, creator_user_id, amount_minor, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.AccountID, p.CreatorUserID, p.AmountMinor, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translatePgError("create payout request", err)
}

func (r *PayoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error) {
	var p models.PayoutRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, account_id, creator_user_id, amount_minor, status, created_at, updated_at
		FROM payout_requests WHERE id = $1
	`, id).Scan(&p.ID, &p.AccountID, &p.CreatorUserID, &p.AmountMinor, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translatePgError("get payout request", err)
	}
	return &p, nil
}

// UpdateStatusIn moves a payout request from one status to another
// inside the caller's transaction. The WHERE clause on the expected
// status makes the transition exactly-once; a lost race surfaces as
// Conflict when the row moved, NotFound when it never existed.
func (r *PayoutRepo) UpdateStatusIn(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to string) (*models.PayoutRequest, error) {
	var p models.PayoutRequest
	err := tx.QueryRow(ctx, `
		UPDATE payout_requests SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING id, account_id, creator_user_id, amount_minor, status, created_at, updated_at
	`, to, id, from,
	).Scan(&p.ID, &p.AccountID, &p.CreatorUserID, &p.AmountMinor, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translatePgError("update payout status", err)
	}

	var existing string
	err = tx.QueryRow(ctx, `SELECT status FROM payout_requests WHERE id = $1`, id).Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payout request %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, translatePgError("check payout request", err)
	}
	return nil, fmt.Errorf("payout request %s is %s, expected %s: %w", id, existing, from, apperr.ErrConflict)
}

func (r *PayoutRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, creator_user_id, amount_minor, status, created_at, updated_at
		FROM payout_requests WHERE account_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, translatePgError("list payout requests", err)
	}
	defer rows.Close()
	return scanPayouts(rows)
}

// ListByStatus returns oldest-first so the worker drains the backlog
// in submission order.
func (r *PayoutRepo) ListByStatus(ctx context.Context, status string, limit int) ([]models.PayoutRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, creator_user_id, amount_minor, status, created_at, updated_at
		FROM payout_requests WHERE status = $1
		ORDER BY created_at ASC LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, translatePgError("list payout requests by status", err)
	}
	defer rows.Close()
	return scanPayouts(rows)
}

func scanPayouts(rows pgx.Rows) ([]models.PayoutRequest, error) {
	var out []models.PayoutRequest
	for rows.Next() {
		var p models.PayoutRequest
		if err := rows.Scan(&p.ID, &p.AccountID, &p.CreatorUserID, &p.AmountMinor,
			&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, translatePgError("scan payout request", err)
		}
		out = append(out, p)
	}
	return out, nil
}

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

// CollabRepo owns collaboration requests and the contracts created
// when one is accepted.
type CollabRepo struct {
	pool *pgxpool.Pool
}

func NewCollabRepo(pool *pgxpool.Pool) *CollabRepo {
	return &CollabRepo{pool: pool}
}

func (r *CollabRepo) CreateRequest(ctx context.Context, cr *models.CollabRequest) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO collab_requests (campaign_id, initiator_user_id, creator_user_id, offer_minor, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, cr.CampaignID, cr.InitiatorUserID, cr.CreatorUserID, cr.OfferMinor, cr.Status,
	).Scan(&cr.ID, &cr.CreatedAt)
	return translatePgError("create collab request", err)
}

func (r *CollabRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CollabRequest, error) {
	var cr models.CollabRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, initiator_user_id, creator_user_id, offer_minor, status, resolved_at, created_at
		FROM collab_requests WHERE id = $1
	`, id).Scan(&cr.ID, &cr.CampaignID, &cr.InitiatorUserID, &cr.CreatorUserID,
		&cr.OfferMinor, &cr.Status, &cr.ResolvedAt, &cr.CreatedAt)
	if err != nil {
		return nil, translatePgError("get collab request", err)
	}
	return &cr, nil
}

// ResolveIn flips a pending request to its terminal state inside the
// caller's transaction. The conditional UPDATE decides the winner
// under concurrency: exactly one caller sees the row, the loser gets
// AlreadyResolved (or NotFound when the id never existed).
func (r *CollabRepo) ResolveIn(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) (*models.CollabRequest, error) {
	var cr models.CollabRequest
	err := tx.QueryRow(ctx, `
		UPDATE collab_requests SET status = $1, resolved_at = now()
		WHERE id = $2 AND status = $3
		RETURNING id, campaign_id, initiator_user_id, creator_user_id, offer_minor, status, resolved_at, created_at
	`, status, id, models.CollabStatusPending,
	).Scan(&cr.ID, &cr.CampaignID, &cr.InitiatorUserID, &cr.CreatorUserID,
		&cr.OfferMinor, &cr.Status, &cr.ResolvedAt, &cr.CreatedAt)
	if err == nil {
		return &cr, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translatePgError("resolve collab request", err)
	}

	// Zero rows: distinguish "never existed" from "already handled".
	var existing string
	err = tx.QueryRow(ctx, `SELECT status FROM collab_requests WHERE id = $1`, id).Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("collab request %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, translatePgError("check collab request", err)
	}
	return nil, fmt.Errorf("collab request %s is %s: %w", id, existing, apperr.ErrAlreadyResolved)
}

type CollabFilter struct {
	CreatorUserID   *uuid.UUID
	InitiatorUserID *uuid.UUID
	CampaignID      *uuid.UUID
	Status          *string
	Limit           int
	Offset          int
}

func (r *CollabRepo) List(ctx context.Context, f CollabFilter) ([]models.CollabRequest, error) {
	query := `
		SELECT id, campaign_id, initiator_user_id, creator_user_id, offer_minor, status, resolved_at, created_at
		FROM collab_requests
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CreatorUserID != nil {
		where = append(where, fmt.Sprintf("creator_user_id = $%d", argIdx))
		args = append(args, *f.CreatorUserID)
		argIdx++
	}
	if f.InitiatorUserID != nil {
		where = append(where, fmt.Sprintf("initiator_user_id = $%d", argIdx))
		args = append(args, *f.InitiatorUserID)
		argIdx++
	}
	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError("list collab requests", err)
	}
	defer rows.Close()

	var out []models.CollabRequest
	for rows.Next() {
		var cr models.CollabRequest
		if err := rows.Scan(&cr.ID, &cr.CampaignID, &cr.InitiatorUserID, &cr.CreatorUserID,
			&cr.OfferMinor, &cr.Status, &cr.ResolvedAt, &cr.CreatedAt); err != nil {
			return nil, translatePgError("scan collab request", err)
		}
		out = append(out, cr)
	}
	return out, nil
}

// ---- Contracts ----

func (r *CollabRepo) CreateContractIn(ctx context.Context, tx pgx.Tx, c *models.Contract) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO contracts (campaign_id, creator_user_id, collab_request_id, amount_minor, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.CampaignID, c.CreatorUserID, c.CollabRequestID, c.AmountMinor, c.Status,
	).Scan(&c.ID, &c.CreatedAt)
	return translatePgError("create contract", err)
}

func (r *CollabRepo) GetContractByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	err := r.pool.QueryRow(ctx, `
		SELECT id, campaign_id, creator_user_id, collab_request_id, amount_minor, status, created_at
		FROM contracts WHERE id = $1
	`, id).Scan(&c.ID, &c.CampaignID, &c.CreatorUserID, &c.CollabRequestID,
		&c.AmountMinor, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, translatePgError("get contract", err)
	}
	return &c, nil
}

// CompleteContractIn moves an active contract to completed inside the
// caller's transaction. The conditional UPDATE makes completion
// exactly-once: a second caller gets AlreadyResolved, so the escrow
// release credit written alongside cannot double.
func (r *CollabRepo) CompleteContractIn(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	err := tx.QueryRow(ctx, `
		UPDATE contracts SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING id, campaign_id, creator_user_id, collab_request_id, amount_minor, status, created_at
	`, models.ContractStatusCompleted, id, models.ContractStatusActive,
	).Scan(&c.ID, &c.CampaignID, &c.CreatorUserID, &c.CollabRequestID,
		&c.AmountMinor, &c.Status, &c.CreatedAt)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translatePgError("complete contract", err)
	}

	var existing string
	err = tx.QueryRow(ctx, `SELECT status FROM contracts WHERE id = $1`, id).Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("contract %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, translatePgError("check contract", err)
	}
	return nil, fmt.Errorf("contract %s is %s: %w", id, existing, apperr.ErrAlreadyResolved)
}

func (r *CollabRepo) CountContractsByCampaign(ctx context.Context, campaignID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contracts WHERE campaign_id = $1`, campaignID).Scan(&n)
	if err != nil {
		return 0, translatePgError("count contracts", err)
	}
	return n, nil
}

func (r *CollabRepo) ListContractsByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]models.Contract, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, campaign_id, creator_user_id, collab_request_id, amount_minor, status, created_at
		FROM contracts WHERE creator_user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, creatorID, limit, offset)
	if err != nil {
		return nil, translatePgError("list contracts", err)
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		var c models.Contract
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.CreatorUserID, &c.CollabRequestID,
			&c.AmountMinor, &c.Status, &c.CreatedAt); err != nil {
			return nil, translatePgError("scan contract", err)
		}
		out = append(out, c)
	}
	return out, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `id, brand_user_id, title, description, budget_minor, spent_minor, status,
       niche, min_followers, location, start_date, end_date, candidate_count, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.BrandUserID, &c.Title, &c.Description, &c.BudgetMinor, &c.SpentMinor, &c.Status,
		&c.Niche, &c.MinFollowers, &c.Location, &c.StartDate, &c.EndDate, &c.CandidateCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (brand_user_id, title, description, budget_minor, status, niche, min_followers, location, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, c.BrandUserID, c.Title, c.Description, c.BudgetMinor, c.Status,
		c.Niche, c.MinFollowers, c.Location, c.StartDate, c.EndDate,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translatePgError("create campaign", err)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if err != nil {
		return nil, translatePgError("get campaign", err)
	}
	return c, nil
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET title = $1, description = $2, budget_minor = $3,
		       niche = $4, min_followers = $5, location = $6,
		       start_date = $7, end_date = $8, updated_at = now()
		WHERE id = $9
	`, c.Title, c.Description, c.BudgetMinor,
		c.Niche, c.MinFollowers, c.Location,
		c.StartDate, c.EndDate, c.ID)
	return translatePgError("update campaign", err)
}

// UpdateStatus performs a compare-and-set on the status column so
// that a concurrent transition loses cleanly instead of overwriting.
// Returns false when the row was not in the expected status.
func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, translatePgError("update campaign status", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a campaign row. Callers guarantee draft status and
// zero contracts before asking; the ledger keeps no reference to
// drafts so this cannot orphan history.
func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return translatePgError("delete campaign", err)
}

func (r *CampaignRepo) IncrementCandidates(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET candidate_count = candidate_count + 1, updated_at = now() WHERE id = $1
	`, id)
	return translatePgError("increment candidates", err)
}

// ListExpiredActive returns active campaigns whose end date has
// passed, for automatic completion by the worker.
func (r *CampaignRepo) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]models.Campaign, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns
		WHERE status = $1 AND end_date IS NOT NULL AND end_date < $2
		ORDER BY end_date ASC LIMIT $3
	`, models.CampaignStatusActive, now, limit)
	if err != nil {
		return nil, translatePgError("list expired campaigns", err)
	}
	defer rows.Close()

	var out []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, translatePgError("scan campaign", err)
		}
		out = append(out, *c)
	}
	return out, nil
}

type CampaignFilter struct {
	BrandUserID *uuid.UUID
	Status      *string
	Limit       int
	Offset      int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.BrandUserID != nil {
		where = append(where, fmt.Sprintf("brand_user_id = $%d", argIdx))
		args = append(args, *f.BrandUserID)
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
		return nil, translatePgError("list campaigns", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, translatePgError("scan campaign", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, nil
}

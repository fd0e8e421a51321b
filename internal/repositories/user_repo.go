package repositories

import (
	"context"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, display_name, role, created_at, last_active_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, translatePgError("get user", err)
	}
	return &u, nil
}

// Upsert mirrors a user record from the identity provider. Role and
// profile fields follow whatever the provider currently asserts.
func (r *UserRepo) Upsert(ctx context.Context, u *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, display_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    display_name = EXCLUDED.display_name,
		    role = EXCLUDED.role
		RETURNING created_at
	`, u.ID, u.Username, u.DisplayName, u.Role).Scan(&u.CreatedAt)
	return translatePgError("upsert user", err)
}

func (r *UserRepo) UpdateLastActive(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_active_at = now() WHERE id = $1`, id)
	return translatePgError("update last active", err)
}

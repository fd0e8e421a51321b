package repositories

import (
	"context"

	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (recipient_user_id, type, title, message, deep_link, ref_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, n.RecipientUserID, n.Type, n.Title, n.Message, n.DeepLink, n.RefID,
	).Scan(&n.ID, &n.CreatedAt)
	return translatePgError("create notification", err)
}

func (r *NotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := r.pool.QueryRow(ctx, `
		SELECT id, recipient_user_id, type, title, message, deep_link, ref_id, read, created_at
		FROM notifications WHERE id = $1
	`, id).Scan(&n.ID, &n.RecipientUserID, &n.Type, &n.Title, &n.Message, &n.DeepLink, &n.RefID, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, translatePgError("get notification", err)
	}
	return &n, nil
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_user_id, type, title, message, deep_link, ref_id, read, created_at
		FROM notifications WHERE recipient_user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, translatePgError("list notifications", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientUserID, &n.Type, &n.Title, &n.Message,
			&n.DeepLink, &n.RefID, &n.Read, &n.CreatedAt); err != nil {
			return nil, translatePgError("scan notification", err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_user_id = $1 AND read = false`,
		userID).Scan(&n)
	if err != nil {
		return 0, translatePgError("count unread notifications", err)
	}
	return n, nil
}

// MarkRead flips the read flag for the recipient's own notification.
// Re-marking an already read notification is a no-op, and marking
// someone else's row affects nothing.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = true
		WHERE id = $1 AND recipient_user_id = $2
	`, id, recipientID)
	if err != nil {
		return false, translatePgError("mark notification read", err)
	}
	return tag.RowsAffected() == 1, nil
}

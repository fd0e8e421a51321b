package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/events"
	"github.com/creatorlink/backend/internal/metrics"
	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CollabResolver settles a collaboration request on behalf of a
// notification action. Bound after construction to break the cycle
// with the collab service, which emits notifications itself.
type CollabResolver interface {
	Resolve(ctx context.Context, creatorID, requestID uuid.UUID, decision string) (*models.CollabRequest, error)
}

// NotificationStore is the persistence surface the service needs,
// satisfied by repositories.NotificationRepo.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListByRecipient(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) (bool, error)
}

// NotificationService appends and serves user-facing notifications.
// Notifications are best-effort: a failed emit is logged and dropped,
// never allowed to fail the operation that produced it.
type NotificationService struct {
	notifRepo NotificationStore
	publisher events.Publisher
	resolver  CollabResolver
	log       *zap.Logger
}

func NewNotificationService(notifRepo NotificationStore, publisher events.Publisher, log *zap.Logger) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, publisher: publisher, log: log}
}

// BindResolver wires the collab service in once both exist.
func (s *NotificationService) BindResolver(r CollabResolver) {
	s.resolver = r
}

type EmitInput struct {
	RecipientUserID uuid.UUID
	Type            string
	Title           string
	Message         string
	DeepLink        *string
	RefID           *uuid.UUID
}

// Emit appends a notification and mirrors it onto the realtime
// stream.
func (s *NotificationService) Emit(ctx context.Context, in EmitInput) {
	n := &models.Notification{
		RecipientUserID: in.RecipientUserID,
		Type:            in.Type,
		Title:           in.Title,
		Message:         in.Message,
		DeepLink:        in.DeepLink,
		RefID:           in.RefID,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		s.log.Error("notification write failed",
			zap.String("recipient", in.RecipientUserID.String()),
			zap.String("type", in.Type),
			zap.Error(err),
		)
		return
	}
	metrics.NotificationsEmitted.Inc()

	if s.publisher != nil {
		ev := events.Event{
			Type: events.EventNotificationCreated,
			Payload: map[string]any{
				"notification_id": n.ID.String(),
				"recipient_id":    n.RecipientUserID.String(),
				"type":            n.Type,
				"title":           n.Title,
			},
		}
		if err := s.publisher.Publish(ctx, events.StreamNotifications, ev); err != nil {
			s.log.Warn("notification event publish failed", zap.Error(err))
		}
	}
}

type NotificationPage struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*NotificationPage, error) {
	items, err := s.notifRepo.ListByRecipient(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &NotificationPage{Items: items, UnreadCount: unread}, nil
}

// Dismiss marks the recipient's notification read. Dismissal is fully
// idempotent: an already-read or nonexistent notification is a no-op
// success.
func (s *NotificationService) Dismiss(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if n.RecipientUserID != userID {
		return fmt.Errorf("notification %s belongs to another user: %w", id, apperr.ErrForbidden)
	}
	_, err = s.notifRepo.MarkRead(ctx, id, userID)
	return err
}

// ResolveAction answers the collab invite carried by a notification
// and dismisses it. The resolution itself is exactly-once; only the
// dismissal is idempotent.
func (s *NotificationService) ResolveAction(ctx context.Context, userID, id uuid.UUID, decision string) (*models.CollabRequest, error) {
	n, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientUserID != userID {
		return nil, fmt.Errorf("notification %s belongs to another user: %w", id, apperr.ErrForbidden)
	}
	if n.Type != models.NotifTypeCollabRequest || n.RefID == nil {
		return nil, fmt.Errorf("notification %s carries no action: %w", id, apperr.ErrValidation)
	}
	if s.resolver == nil {
		return nil, fmt.Errorf("collab resolver not bound: %w", apperr.ErrIntegrity)
	}

	cr, err := s.resolver.Resolve(ctx, userID, *n.RefID, decision)
	if err != nil {
		return nil, err
	}
	if _, err := s.notifRepo.MarkRead(ctx, id, userID); err != nil {
		s.log.Warn("notification dismiss after resolve failed",
			zap.String("notification_id", id.String()), zap.Error(err))
	}
	return cr, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeNotifStore keeps notifications in memory, mirroring the repo's
// error contract.
type fakeNotifStore struct {
	byID map[uuid.UUID]*models.Notification
}

func newFakeNotifStore() *fakeNotifStore {
	return &fakeNotifStore{byID: make(map[uuid.UUID]*models.Notification)}
}

func (f *fakeNotifStore) Create(_ context.Context, n *models.Notification) error {
	n.ID = uuid.New()
	f.byID[n.ID] = n
	return nil
}

func (f *fakeNotifStore) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get notification: %w", apperr.ErrNotFound)
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotifStore) ListByRecipient(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.byID {
		if n.RecipientUserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotifStore) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.byID {
		if n.RecipientUserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifStore) MarkRead(_ context.Context, id, recipientID uuid.UUID) (bool, error) {
	n, ok := f.byID[id]
	if !ok || n.RecipientUserID != recipientID {
		return false, nil
	}
	n.Read = true
	return true, nil
}

func TestDismissIsIdempotent(t *testing.T) {
	store := newFakeNotifStore()
	svc := NewNotificationService(store, nil, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	n := &models.Notification{RecipientUserID: userID, Type: models.NotifTypeInfo, Title: "hi"}
	if err := store.Create(ctx, n); err != nil {
		t.Fatal(err)
	}

	// first and repeated dismissal both succeed
	if err := svc.Dismiss(ctx, userID, n.ID); err != nil {
		t.Fatalf("first dismiss: %v", err)
	}
	if err := svc.Dismiss(ctx, userID, n.ID); err != nil {
		t.Fatalf("repeat dismiss: %v", err)
	}
	if !store.byID[n.ID].Read {
		t.Fatal("notification not marked read")
	}
}

func TestDismissNonexistentIsNoOp(t *testing.T) {
	svc := NewNotificationService(newFakeNotifStore(), nil, zap.NewNop())
	if err := svc.Dismiss(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("dismissing a nonexistent notification should succeed, got %v", err)
	}
}

func TestDismissForeignNotificationForbidden(t *testing.T) {
	store := newFakeNotifStore()
	svc := NewNotificationService(store, nil, zap.NewNop())
	ctx := context.Background()

	n := &models.Notification{RecipientUserID: uuid.New(), Type: models.NotifTypeInfo, Title: "hi"}
	if err := store.Create(ctx, n); err != nil {
		t.Fatal(err)
	}
	if err := svc.Dismiss(ctx, uuid.New(), n.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestResolveActionRejectsActionlessNotification(t *testing.T) {
	store := newFakeNotifStore()
	svc := NewNotificationService(store, nil, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	n := &models.Notification{RecipientUserID: userID, Type: models.NotifTypeInfo, Title: "hi"}
	if err := store.Create(ctx, n); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveAction(ctx, userID, n.ID, models.DecisionAccept); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestPayoutTransitionNotifications(t *testing.T) {
	store := newFakeNotifStore()
	notifSvc := NewNotificationService(store, nil, zap.NewNop())
	payoutSvc := &PayoutService{notifications: notifSvc, log: zap.NewNop()}
	ctx := context.Background()

	creator := uuid.New()
	p := &models.PayoutRequest{ID: uuid.New(), CreatorUserID: creator, AmountMinor: 2500}

	// every settlement step notifies the creator as payment_processed
	for _, to := range []string{
		models.PayoutStatusProcessing,
		models.PayoutStatusPaid,
		models.PayoutStatusRejected,
	} {
		payoutSvc.notifyTransition(ctx, p, to)
	}

	notifs, err := store.ListByRecipient(ctx, creator, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(notifs) != 3 {
		t.Fatalf("got %d notifications, want 3", len(notifs))
	}
	for _, n := range notifs {
		if n.Type != models.NotifTypePaymentProcessed {
			t.Errorf("notification %q type = %s, want %s", n.Title, n.Type, models.NotifTypePaymentProcessed)
		}
		if n.RefID == nil || *n.RefID != p.ID {
			t.Errorf("notification %q does not reference the payout", n.Title)
		}
	}
}

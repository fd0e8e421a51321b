package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/events"
	"github.com/creatorlink/backend/internal/metrics"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayoutService runs the withdrawal pipeline. A request holds funds
// out of the available balance immediately; the later transitions only
// move the request status and leave balance markers, except rejection,
// which returns the hold.
type PayoutService struct {
	payoutRepo    *repositories.PayoutRepo
	ledgerRepo    *repositories.LedgerRepo
	auditRepo     *repositories.AuditRepo
	notifications *NotificationService
	publisher     events.Publisher
	log           *zap.Logger
}

func NewPayoutService(
	payoutRepo *repositories.PayoutRepo,
	ledgerRepo *repositories.LedgerRepo,
	auditRepo *repositories.AuditRepo,
	notifications *NotificationService,
	publisher events.Publisher,
	log *zap.Logger,
) *PayoutService {
	return &PayoutService{
		payoutRepo:    payoutRepo,
		ledgerRepo:    ledgerRepo,
		auditRepo:     auditRepo,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

// Request opens a payout for the creator. The hold debit and the
// request row are written in one transaction, so an insufficient
// balance or an already-open request rolls back both.
func (s *PayoutService) Request(ctx context.Context, creatorID uuid.UUID, amountMinor int64) (*models.PayoutRequest, error) {
	if amountMinor <= 0 {
		return nil, fmt.Errorf("payout amount must be positive: %w", apperr.ErrInvalidAmount)
	}

	tx, err := s.ledgerRepo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payout request: %w", err)
	}
	defer tx.Rollback(ctx)

	entry, err := s.ledgerRepo.AppendIn(ctx, tx, repositories.EntryInput{
		UserID:       creatorID,
		AmountMinor:  amountMinor,
		Kind:         models.TxKindRequested,
		Debit:        true,
		Counterparty: models.CounterpartyWithdrawal,
	})
	if err != nil {
		return nil, err
	}

	p := &models.PayoutRequest{
		AccountID:     entry.AccountID,
		CreatorUserID: creatorID,
		AmountMinor:   amountMinor,
		Status:        models.PayoutStatusRequested,
	}
	if err := s.payoutRepo.CreateIn(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payout request: %w", err)
	}

	metrics.RecordLedgerEntry(entry.Kind, entry.Debit)
	metrics.PayoutTransitions.WithLabelValues(p.Status).Inc()
	s.audit(ctx, &creatorID, "user", "payout.request", p.ID, map[string]any{
		"amount_minor": amountMinor,
	})
	s.log.Info("payout requested",
		zap.String("payout_id", p.ID.String()),
		zap.String("creator_id", creatorID.String()),
		zap.Int64("amount_minor", amountMinor),
	)
	return p, nil
}

func (s *PayoutService) Get(ctx context.Context, id uuid.UUID) (*models.PayoutRequest, error) {
	return s.payoutRepo.GetByID(ctx, id)
}

// ListMine returns the creator's payout history, newest first.
func (s *PayoutService) ListMine(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]models.PayoutRequest, error) {
	acct, err := s.ledgerRepo.GetAccountByUser(ctx, creatorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []models.PayoutRequest{}, nil
		}
		return nil, err
	}
	return s.payoutRepo.ListByAccount(ctx, acct.ID, limit, offset)
}

// ListOpen returns requested payouts oldest first for settlement.
func (s *PayoutService) ListOpen(ctx context.Context, limit int) ([]models.PayoutRequest, error) {
	return s.payoutRepo.ListByStatus(ctx, models.PayoutStatusRequested, limit)
}

// Advance moves a payout one step along its state machine and writes
// the matching ledger entry in the same transaction: markers for
// processing and paid, the hold refund for rejected.
func (s *PayoutService) Advance(ctx context.Context, actor *uuid.UUID, actorType string, id uuid.UUID, to string) (*models.PayoutRequest, error) {
	p, err := s.payoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := p.Status
	if !models.IsValidPayoutTransition(from, to) {
		return nil, fmt.Errorf("payout cannot go %s -> %s: %w", from, to, apperr.ErrConflict)
	}

	var in repositories.EntryInput
	switch to {
	case models.PayoutStatusProcessing:
		in = repositories.EntryInput{
			UserID: p.CreatorUserID, AmountMinor: p.AmountMinor,
			Kind: models.TxKindProcessing, Debit: true,
			Counterparty: models.CounterpartyWithdrawal,
		}
	case models.PayoutStatusPaid:
		in = repositories.EntryInput{
			UserID: p.CreatorUserID, AmountMinor: p.AmountMinor,
			Kind: models.TxKindPaid, Debit: true,
			Counterparty: models.CounterpartyWithdrawal,
		}
	case models.PayoutStatusRejected:
		in = repositories.EntryInput{
			UserID: p.CreatorUserID, AmountMinor: p.AmountMinor,
			Kind: models.TxKindCompleted, Debit: false,
			Counterparty: models.CounterpartyWithdrawal,
		}
	default:
		return nil, fmt.Errorf("unknown payout status %q: %w", to, apperr.ErrValidation)
	}

	tx, err := s.ledgerRepo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payout transition: %w", err)
	}
	defer tx.Rollback(ctx)

	updated, err := s.payoutRepo.UpdateStatusIn(ctx, tx, id, from, to)
	if err != nil {
		return nil, err
	}
	entry, err := s.ledgerRepo.AppendIn(ctx, tx, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payout transition: %w", err)
	}

	metrics.RecordLedgerEntry(entry.Kind, entry.Debit)
	metrics.PayoutTransitions.WithLabelValues(to).Inc()
	s.audit(ctx, actor, actorType, "payout."+to, id, map[string]any{"from": from})
	s.publish(ctx, events.Event{
		Type: events.EventPayoutStatusChanged,
		Payload: map[string]any{
			"payout_id":  id.String(),
			"creator_id": p.CreatorUserID.String(),
			"from":       from,
			"to":         to,
		},
	})
	s.notifyTransition(ctx, updated, to)
	s.log.Info("payout transitioned",
		zap.String("payout_id", id.String()),
		zap.String("from", from),
		zap.String("to", to),
	)
	return updated, nil
}

// Settle drives a payout through processing to paid. Admin endpoints
// and the automatic settlement worker both land here.
func (s *PayoutService) Settle(ctx context.Context, actor *uuid.UUID, actorType string, id uuid.UUID) (*models.PayoutRequest, error) {
	p, err := s.payoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PayoutStatusRequested {
		if p, err = s.Advance(ctx, actor, actorType, id, models.PayoutStatusProcessing); err != nil {
			return nil, err
		}
	}
	if p.Status != models.PayoutStatusProcessing {
		return nil, fmt.Errorf("payout is %s, nothing to settle: %w", p.Status, apperr.ErrConflict)
	}
	return s.Advance(ctx, actor, actorType, id, models.PayoutStatusPaid)
}

// Reject cancels an open payout and returns the held funds.
func (s *PayoutService) Reject(ctx context.Context, actor *uuid.UUID, actorType string, id uuid.UUID) (*models.PayoutRequest, error) {
	return s.Advance(ctx, actor, actorType, id, models.PayoutStatusRejected)
}

// notifyTransition tells the creator about every settlement step.
func (s *PayoutService) notifyTransition(ctx context.Context, p *models.PayoutRequest, to string) {
	var title, message string
	switch to {
	case models.PayoutStatusProcessing:
		title = "Payout processing"
		message = fmt.Sprintf("Your payout of %d is being processed", p.AmountMinor)
	case models.PayoutStatusPaid:
		title = "Payout sent"
		message = fmt.Sprintf("Your payout of %d was processed", p.AmountMinor)
	case models.PayoutStatusRejected:
		title = "Payout rejected"
		message = "Your payout was rejected and the funds were returned to your balance"
	default:
		return
	}
	s.notifications.Emit(ctx, EmitInput{
		RecipientUserID: p.CreatorUserID,
		Type:            models.NotifTypePaymentProcessed,
		Title:           title,
		Message:         message,
		RefID:           &p.ID,
	})
}

func (s *PayoutService) audit(ctx context.Context, actor *uuid.UUID, actorType, action string, entityID uuid.UUID, meta map[string]any) {
	entry := &models.AuditLog{
		ActorUserID: actor,
		ActorType:   actorType,
		Action:      action,
		EntityType:  "payout_request",
		EntityID:    &entityID,
		Meta:        meta,
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *PayoutService) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.StreamPayouts, ev); err != nil {
		s.log.Warn("event publish failed", zap.String("type", ev.Type), zap.Error(err))
	}
}

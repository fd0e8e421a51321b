package services

import (
	"context"
	"fmt"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/events"
	"github.com/creatorlink/backend/internal/metrics"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CollabService coordinates invitations between campaigns and
// creators. Accepting an invitation atomically creates the contract
// and funds the creator's escrow from the campaign budget.
type CollabService struct {
	collabRepo    *repositories.CollabRepo
	campaignRepo  *repositories.CampaignRepo
	ledgerRepo    *repositories.LedgerRepo
	userRepo      *repositories.UserRepo
	auditRepo     *repositories.AuditRepo
	notifications *NotificationService
	publisher     events.Publisher
	log           *zap.Logger
}

func NewCollabService(
	collabRepo *repositories.CollabRepo,
	campaignRepo *repositories.CampaignRepo,
	ledgerRepo *repositories.LedgerRepo,
	userRepo *repositories.UserRepo,
	auditRepo *repositories.AuditRepo,
	notifications *NotificationService,
	publisher events.Publisher,
	log *zap.Logger,
) *CollabService {
	return &CollabService{
		collabRepo:    collabRepo,
		campaignRepo:  campaignRepo,
		ledgerRepo:    ledgerRepo,
		userRepo:      userRepo,
		auditRepo:     auditRepo,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

// Invite creates a pending collaboration request from the brand's
// active campaign to a creator and notifies them.
func (s *CollabService) Invite(ctx context.Context, brandID, campaignID, creatorID uuid.UUID, offerMinor int64) (*models.CollabRequest, error) {
	if offerMinor <= 0 {
		return nil, fmt.Errorf("offer must be positive: %w", apperr.ErrInvalidAmount)
	}

	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.BrandUserID != brandID {
		return nil, fmt.Errorf("campaign %s belongs to another brand: %w", campaignID, apperr.ErrForbidden)
	}
	if campaign.Status != models.CampaignStatusActive {
		return nil, fmt.Errorf("campaign is %s, invites need an active campaign: %w",
			campaign.Status, apperr.ErrConflict)
	}
	if rem := campaign.RemainingBudgetMinor(); rem != nil && offerMinor > *rem {
		return nil, fmt.Errorf("offer %d exceeds remaining budget %d: %w",
			offerMinor, *rem, apperr.ErrBudgetExceeded)
	}

	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.Role != models.RoleCreator {
		return nil, fmt.Errorf("user %s is not a creator: %w", creatorID, apperr.ErrValidation)
	}

	cr := &models.CollabRequest{
		CampaignID:      campaignID,
		InitiatorUserID: brandID,
		CreatorUserID:   creatorID,
		OfferMinor:      offerMinor,
		Status:          models.CollabStatusPending,
	}
	if err := s.collabRepo.CreateRequest(ctx, cr); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.IncrementCandidates(ctx, campaignID); err != nil {
		s.log.Warn("candidate count bump failed",
			zap.String("campaign_id", campaignID.String()), zap.Error(err))
	}

	deepLink := "/collabs/" + cr.ID.String()
	s.notifications.Emit(ctx, EmitInput{
		RecipientUserID: creatorID,
		Type:            models.NotifTypeCollabRequest,
		Title:           "New collaboration invite",
		Message:         fmt.Sprintf("%q invited you to collaborate", campaign.Title),
		DeepLink:        &deepLink,
		RefID:           &cr.ID,
	})
	s.audit(ctx, &brandID, "user", "collab.invite", cr.ID, map[string]any{
		"campaign_id": campaignID.String(),
		"creator_id":  creatorID.String(),
		"offer_minor": offerMinor,
	})
	return cr, nil
}

func (s *CollabService) Get(ctx context.Context, id uuid.UUID) (*models.CollabRequest, error) {
	return s.collabRepo.GetByID(ctx, id)
}

func (s *CollabService) List(ctx context.Context, f repositories.CollabFilter) ([]models.CollabRequest, error) {
	return s.collabRepo.List(ctx, f)
}

// Resolve settles a pending invitation exactly once. Acceptance runs a
// single transaction: mark the request, create the contract, append
// the funded escrow credit with the campaign budget check. A rejection
// just marks the request.
func (s *CollabService) Resolve(ctx context.Context, creatorID, requestID uuid.UUID, decision string) (*models.CollabRequest, error) {
	if !models.IsValidDecision(decision) {
		return nil, fmt.Errorf("decision must be accept or reject: %w", apperr.ErrValidation)
	}

	cr, err := s.collabRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if cr.CreatorUserID != creatorID {
		return nil, fmt.Errorf("collab request %s is addressed to another creator: %w",
			requestID, apperr.ErrForbidden)
	}

	tx, err := s.ledgerRepo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin collab resolution: %w", err)
	}
	defer tx.Rollback(ctx)

	resolved, err := s.collabRepo.ResolveIn(ctx, tx, requestID, models.DecisionStatus(decision))
	if err != nil {
		return nil, err
	}

	if decision == models.DecisionAccept {
		contract := &models.Contract{
			CampaignID:      resolved.CampaignID,
			CreatorUserID:   resolved.CreatorUserID,
			CollabRequestID: resolved.ID,
			AmountMinor:     resolved.OfferMinor,
			Status:          models.ContractStatusActive,
		}
		if err := s.collabRepo.CreateContractIn(ctx, tx, contract); err != nil {
			return nil, err
		}
		entry, err := s.ledgerRepo.AppendIn(ctx, tx, repositories.EntryInput{
			UserID:       resolved.CreatorUserID,
			AmountMinor:  resolved.OfferMinor,
			Kind:         models.TxKindFunded,
			Debit:        false,
			Counterparty: resolved.CampaignID.String(),
			CampaignID:   &resolved.CampaignID,
			ContractID:   &contract.ID,
		})
		if err != nil {
			return nil, err
		}
		metrics.RecordLedgerEntry(entry.Kind, entry.Debit)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit collab resolution: %w", err)
	}

	outcome := models.DecisionStatus(decision)
	metrics.CollabResolutions.WithLabelValues(outcome).Inc()
	s.audit(ctx, &creatorID, "user", "collab."+outcome, resolved.ID, map[string]any{
		"campaign_id": resolved.CampaignID.String(),
	})

	s.notifications.Emit(ctx, EmitInput{
		RecipientUserID: resolved.InitiatorUserID,
		Type:            models.NotifTypeInfo,
		Title:           "Collaboration " + outcome,
		Message:         fmt.Sprintf("Your invite was %s by the creator", outcome),
		RefID:           &resolved.ID,
	})
	s.publish(ctx, events.Event{
		Type: events.EventCollabResolved,
		Payload: map[string]any{
			"collab_request_id": resolved.ID.String(),
			"campaign_id":       resolved.CampaignID.String(),
			"outcome":           outcome,
		},
	})
	s.log.Info("collab request resolved",
		zap.String("collab_request_id", resolved.ID.String()),
		zap.String("outcome", outcome),
		zap.Int64("offer_minor", resolved.OfferMinor),
	)
	return resolved, nil
}

// CompleteContract approves the creator's deliverable and releases
// the contract's escrow. One transaction marks the contract completed
// and appends the paid release credit, moving the funded amount from
// pending to available. Completion is exactly-once, so the release
// cannot double.
func (s *CollabService) CompleteContract(ctx context.Context, brandID, contractID uuid.UUID) (*models.Contract, error) {
	contract, err := s.collabRepo.GetContractByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaignRepo.GetByID(ctx, contract.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.BrandUserID != brandID {
		return nil, fmt.Errorf("contract %s belongs to another brand's campaign: %w",
			contractID, apperr.ErrForbidden)
	}

	tx, err := s.ledgerRepo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin contract completion: %w", err)
	}
	defer tx.Rollback(ctx)

	completed, err := s.collabRepo.CompleteContractIn(ctx, tx, contractID)
	if err != nil {
		return nil, err
	}
	entry, err := s.ledgerRepo.AppendIn(ctx, tx, repositories.EntryInput{
		UserID:       completed.CreatorUserID,
		AmountMinor:  completed.AmountMinor,
		Kind:         models.TxKindPaid,
		Debit:        false,
		Counterparty: completed.CampaignID.String(),
		CampaignID:   &completed.CampaignID,
		ContractID:   &completed.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit contract completion: %w", err)
	}

	metrics.RecordLedgerEntry(entry.Kind, entry.Debit)
	auditEntry := &models.AuditLog{
		ActorUserID: &brandID,
		ActorType:   "user",
		Action:      "contract.complete",
		EntityType:  "contract",
		EntityID:    &completed.ID,
		Meta: map[string]any{
			"campaign_id":  completed.CampaignID.String(),
			"amount_minor": completed.AmountMinor,
		},
	}
	if err := s.auditRepo.Log(ctx, auditEntry); err != nil {
		s.log.Warn("audit write failed", zap.String("action", "contract.complete"), zap.Error(err))
	}
	s.notifications.Emit(ctx, EmitInput{
		RecipientUserID: completed.CreatorUserID,
		Type:            models.NotifTypePaymentProcessed,
		Title:           "Funds released",
		Message:         fmt.Sprintf("%d was released to your available balance", completed.AmountMinor),
		RefID:           &completed.ID,
	})
	s.log.Info("contract completed",
		zap.String("contract_id", completed.ID.String()),
		zap.Int64("amount_minor", completed.AmountMinor),
	)
	return completed, nil
}

func (s *CollabService) ListContractsByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]models.Contract, error) {
	return s.collabRepo.ListContractsByCreator(ctx, creatorID, limit, offset)
}

func (s *CollabService) audit(ctx context.Context, actor *uuid.UUID, actorType, action string, entityID uuid.UUID, meta map[string]any) {
	entry := &models.AuditLog{
		ActorUserID: actor,
		ActorType:   actorType,
		Action:      action,
		EntityType:  "collab_request",
		EntityID:    &entityID,
		Meta:        meta,
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *CollabService) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.StreamCampaigns, ev); err != nil {
		s.log.Warn("event publish failed", zap.String("type", ev.Type), zap.Error(err))
	}
}

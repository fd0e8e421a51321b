package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/events"
	"github.com/creatorlink/backend/internal/models"
	"github.com/creatorlink/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CampaignService owns the campaign lifecycle. Every status change
// goes through transition, which validates the state machine, does a
// compare-and-set in storage, and records the audit trail.
type CampaignService struct {
	campaignRepo *repositories.CampaignRepo
	collabRepo   *repositories.CollabRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewCampaignService(
	campaignRepo *repositories.CampaignRepo,
	collabRepo *repositories.CollabRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		collabRepo:   collabRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
	}
}

type CampaignInput struct {
	Title        string
	Description  *string
	BudgetMinor  *int64
	Niche        *string
	MinFollowers *int
	Location     *string
	StartDate    *time.Time
	EndDate      *time.Time
}

func (in CampaignInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", apperr.ErrValidation)
	}
	if len(in.Title) > 200 {
		return fmt.Errorf("title too long: %w", apperr.ErrValidation)
	}
	if in.BudgetMinor != nil && *in.BudgetMinor < 0 {
		return fmt.Errorf("budget must not be negative: %w", apperr.ErrValidation)
	}
	if in.MinFollowers != nil && *in.MinFollowers < 0 {
		return fmt.Errorf("min followers must not be negative: %w", apperr.ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && !in.EndDate.After(*in.StartDate) {
		return fmt.Errorf("end date must be after start date: %w", apperr.ErrValidation)
	}
	return nil
}

// Create makes a new draft campaign for the brand.
func (s *CampaignService) Create(ctx context.Context, brandID uuid.UUID, in CampaignInput) (*models.Campaign, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &models.Campaign{
		BrandUserID:  brandID,
		Title:        in.Title,
		Description:  in.Description,
		BudgetMinor:  in.BudgetMinor,
		Status:       models.CampaignStatusDraft,
		Niche:        in.Niche,
		MinFollowers: in.MinFollowers,
		Location:     in.Location,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
	}
	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.audit(ctx, &brandID, "user", "campaign.create", c.ID, nil)
	return c, nil
}

func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, id)
}

func (s *CampaignService) List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	return s.campaignRepo.List(ctx, f)
}

// Update changes the editable fields of a non-terminal campaign owned
// by the caller. A budget may not be lowered under what is already
// committed to contracts.
func (s *CampaignService) Update(ctx context.Context, brandID, id uuid.UUID, in CampaignInput) (*models.Campaign, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.ownedCampaign(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	if !models.CampaignEditable(c.Status) {
		return nil, fmt.Errorf("campaign %s is %s: %w", id, c.Status, apperr.ErrConflict)
	}
	if in.BudgetMinor != nil && *in.BudgetMinor < c.SpentMinor {
		return nil, fmt.Errorf("budget %d below committed spend %d: %w",
			*in.BudgetMinor, c.SpentMinor, apperr.ErrValidation)
	}

	c.Title = in.Title
	c.Description = in.Description
	c.BudgetMinor = in.BudgetMinor
	c.Niche = in.Niche
	c.MinFollowers = in.MinFollowers
	c.Location = in.Location
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	if err := s.campaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.audit(ctx, &brandID, "user", "campaign.update", c.ID, nil)
	return c, nil
}

// Delete removes a draft that never produced a contract. Anything
// beyond that must be archived instead so ledger references survive.
func (s *CampaignService) Delete(ctx context.Context, brandID, id uuid.UUID) error {
	c, err := s.ownedCampaign(ctx, brandID, id)
	if err != nil {
		return err
	}
	if c.Status != models.CampaignStatusDraft {
		return fmt.Errorf("only draft campaigns can be deleted: %w", apperr.ErrConflict)
	}
	n, err := s.collabRepo.CountContractsByCampaign(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("campaign has %d contracts: %w", n, apperr.ErrConflict)
	}
	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, &brandID, "user", "campaign.delete", id, nil)
	return nil
}

func (s *CampaignService) Publish(ctx context.Context, brandID, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.ownedCampaign(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	if err := publishAllowed(c); err != nil {
		return nil, err
	}
	return s.transition(ctx, c, models.CampaignStatusActive, &brandID, "user")
}

// publishAllowed gates Publish to ready drafts. A paused campaign
// goes back to active through Resume, so the two intents stay
// distinct in the audit trail.
func publishAllowed(c *models.Campaign) error {
	if c.Status != models.CampaignStatusDraft {
		return fmt.Errorf("campaign is %s, only drafts can be published: %w", c.Status, apperr.ErrConflict)
	}
	if !c.Publishable() {
		return fmt.Errorf("campaign needs a budget and a date range before publishing: %w", apperr.ErrValidation)
	}
	return nil
}

func (s *CampaignService) Pause(ctx context.Context, brandID, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.ownedCampaign(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, c, models.CampaignStatusPaused, &brandID, "user")
}

func (s *CampaignService) Resume(ctx context.Context, brandID, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.ownedCampaign(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, c, models.CampaignStatusActive, &brandID, "user")
}

func (s *CampaignService) Complete(ctx context.Context, brandID, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.ownedCampaign(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, c, models.CampaignStatusCompleted, &brandID, "user")
}

func (s *CampaignService) Archive(ctx context.Context, brandID, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.ownedCampaign(ctx, brandID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, c, models.CampaignStatusArchived, &brandID, "user")
}

// AutoCompleteExpired moves active campaigns whose end date has passed
// to completed. Called by the background sweeper; individual losses to
// concurrent transitions are skipped, not retried.
func (s *CampaignService) AutoCompleteExpired(ctx context.Context, now time.Time, limit int) (int, error) {
	expired, err := s.campaignRepo.ListExpiredActive(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	completed := 0
	for i := range expired {
		c := &expired[i]
		if _, err := s.transition(ctx, c, models.CampaignStatusCompleted, nil, "system"); err != nil {
			s.log.Warn("auto-complete skipped",
				zap.String("campaign_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		completed++
	}
	return completed, nil
}

// transition validates the move, applies it with a compare-and-set,
// and records audit plus the campaign event stream.
func (s *CampaignService) transition(ctx context.Context, c *models.Campaign, to string, actor *uuid.UUID, actorType string) (*models.Campaign, error) {
	from := c.Status
	if !models.IsValidCampaignTransition(from, to) {
		return nil, fmt.Errorf("campaign cannot go %s -> %s: %w", from, to, apperr.ErrConflict)
	}
	ok, err := s.campaignRepo.UpdateStatus(ctx, c.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("campaign %s moved while transitioning %s -> %s: %w",
			c.ID, from, to, apperr.ErrConflict)
	}
	c.Status = to

	s.audit(ctx, actor, actorType, "campaign."+to, c.ID, map[string]any{"from": from})
	s.publish(ctx, events.StreamCampaigns, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id": c.ID.String(),
			"from":        from,
			"to":          to,
		},
	})
	s.log.Info("campaign transitioned",
		zap.String("campaign_id", c.ID.String()),
		zap.String("from", from),
		zap.String("to", to),
	)
	return c, nil
}

func (s *CampaignService) ownedCampaign(ctx context.Context, brandID, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.BrandUserID != brandID {
		return nil, fmt.Errorf("campaign %s belongs to another brand: %w", id, apperr.ErrForbidden)
	}
	return c, nil
}

func (s *CampaignService) audit(ctx context.Context, actor *uuid.UUID, actorType, action string, entityID uuid.UUID, meta map[string]any) {
	entry := &models.AuditLog{
		ActorUserID: actor,
		ActorType:   actorType,
		Action:      action,
		EntityType:  "campaign",
		EntityID:    &entityID,
		Meta:        meta,
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *CampaignService) publish(ctx context.Context, stream string, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, stream, ev); err != nil {
		s.log.Warn("event publish failed", zap.String("stream", stream), zap.Error(err))
	}
}

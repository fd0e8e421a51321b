package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
	CampaignStatusArchived  = "archived"
)

// Valid state transitions: from -> []to. Transitions are monotonic
// except the active<->paused cycle; completed/archived admit nothing
// but archived.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:     {CampaignStatusActive},
	CampaignStatusActive:    {CampaignStatusPaused, CampaignStatusCompleted},
	CampaignStatusPaused:    {CampaignStatusActive, CampaignStatusCompleted, CampaignStatusArchived},
	CampaignStatusCompleted: {CampaignStatusArchived},
	CampaignStatusArchived:  {},
}

func IsValidCampaignTransition(from, to string) bool {
	allowed, ok := ValidCampaignTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// CampaignEditable reports whether budget/dates/targeting may still
// be changed. Terminal states are immutable except for reads.
func CampaignEditable(status string) bool {
	switch status {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused:
		return true
	}
	return false
}

func CampaignTerminal(status string) bool {
	return status == CampaignStatusCompleted || status == CampaignStatusArchived
}

type Campaign struct {
	ID             uuid.UUID  `json:"id"`
	BrandUserID    uuid.UUID  `json:"brand_user_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	BudgetMinor    *int64     `json:"budget_minor,omitempty"`
	SpentMinor     int64      `json:"spent_minor"`
	Status         string     `json:"status"`
	Niche          *string    `json:"niche,omitempty"`
	MinFollowers   *int       `json:"min_followers,omitempty"`
	Location       *string    `json:"location,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CandidateCount int        `json:"candidate_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Publishable reports whether the campaign has everything a draft
// needs before going active: a budget and a coherent date range.
func (c *Campaign) Publishable() bool {
	return c.BudgetMinor != nil && *c.BudgetMinor >= 0 &&
		c.StartDate != nil && c.EndDate != nil && c.EndDate.After(*c.StartDate)
}

// RemainingBudgetMinor returns how much of the declared budget is
// still unspent, or nil when no budget is set (unlimited).
func (c *Campaign) RemainingBudgetMinor() *int64 {
	if c.BudgetMinor == nil {
		return nil
	}
	rem := *c.BudgetMinor - c.SpentMinor
	return &rem
}

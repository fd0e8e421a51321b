package services

import (
	"errors"
	"testing"
	"time"

	"github.com/creatorlink/backend/internal/apperr"
	"github.com/creatorlink/backend/internal/models"
)

func TestCampaignInputValidate(t *testing.T) {
	budget := int64(10_000)
	negBudget := int64(-1)
	negFollowers := -5
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		in      CampaignInput
		wantErr bool
	}{
		{"minimal", CampaignInput{Title: "Spring launch"}, false},
		{"full", CampaignInput{Title: "Spring launch", BudgetMinor: &budget, StartDate: &start, EndDate: &end}, false},
		{"empty title", CampaignInput{Title: "   "}, true},
		{"negative budget", CampaignInput{Title: "x", BudgetMinor: &negBudget}, true},
		{"negative followers", CampaignInput{Title: "x", MinFollowers: &negFollowers}, true},
		{"end before start", CampaignInput{Title: "x", StartDate: &end, EndDate: &start}, true},
		{"end equals start", CampaignInput{Title: "x", StartDate: &start, EndDate: &start}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.validate()
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Errorf("validate() = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("validate() = %v, want nil", err)
			}
		})
	}
}

// Publish accepts ready drafts only; paused campaigns go through
// Resume.
func TestPublishAllowed(t *testing.T) {
	budget := int64(10_000)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	ready := models.Campaign{
		Status: models.CampaignStatusDraft, BudgetMinor: &budget,
		StartDate: &start, EndDate: &end,
	}

	if err := publishAllowed(&ready); err != nil {
		t.Fatalf("ready draft: %v", err)
	}

	for _, status := range []string{
		models.CampaignStatusPaused,
		models.CampaignStatusActive,
		models.CampaignStatusCompleted,
		models.CampaignStatusArchived,
	} {
		c := ready
		c.Status = status
		if err := publishAllowed(&c); !errors.Is(err, apperr.ErrConflict) {
			t.Errorf("status %s: got %v, want ErrConflict", status, err)
		}
	}

	missingBudget := ready
	missingBudget.BudgetMinor = nil
	if err := publishAllowed(&missingBudget); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("draft without budget: got %v, want ErrValidation", err)
	}
}

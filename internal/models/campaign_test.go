package models

import "testing"

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{CampaignStatusDraft, CampaignStatusActive, true},
		{CampaignStatusActive, CampaignStatusPaused, true},
		{CampaignStatusPaused, CampaignStatusActive, true},
		{CampaignStatusActive, CampaignStatusCompleted, true},
		{CampaignStatusPaused, CampaignStatusCompleted, true},
		{CampaignStatusCompleted, CampaignStatusArchived, true},
		{CampaignStatusPaused, CampaignStatusArchived, true},

		// Invalid transitions
		{CampaignStatusCompleted, CampaignStatusActive, false},
		{CampaignStatusCompleted, CampaignStatusPaused, false},
		{CampaignStatusArchived, CampaignStatusActive, false},
		{CampaignStatusArchived, CampaignStatusDraft, false},
		{CampaignStatusArchived, CampaignStatusArchived, false},
		{CampaignStatusDraft, CampaignStatusCompleted, false},
		{CampaignStatusDraft, CampaignStatusPaused, false},
		{CampaignStatusDraft, CampaignStatusArchived, false},
		{CampaignStatusActive, CampaignStatusDraft, false},
		{CampaignStatusActive, CampaignStatusArchived, false},
		{"nonexistent", CampaignStatusActive, false},
		{CampaignStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCampaignTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestPauseResumeCycle(t *testing.T) {
	// active -> paused -> active must be permitted repeatedly
	status := CampaignStatusActive
	for i := 0; i < 3; i++ {
		if !IsValidCampaignTransition(status, CampaignStatusPaused) {
			t.Fatalf("iteration %d: active -> paused rejected", i)
		}
		status = CampaignStatusPaused
		if !IsValidCampaignTransition(status, CampaignStatusActive) {
			t.Fatalf("iteration %d: paused -> active rejected", i)
		}
		status = CampaignStatusActive
	}
}

func TestArchivedIsTerminal(t *testing.T) {
	all := []string{
		CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused,
		CampaignStatusCompleted, CampaignStatusArchived,
	}
	for _, to := range all {
		if IsValidCampaignTransition(CampaignStatusArchived, to) {
			t.Errorf("archived -> %s should be rejected", to)
		}
	}
}

func TestCampaignEditable(t *testing.T) {
	editable := []string{CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused}
	for _, s := range editable {
		if !CampaignEditable(s) {
			t.Errorf("CampaignEditable(%q) = false, want true", s)
		}
	}
	frozen := []string{CampaignStatusCompleted, CampaignStatusArchived, "nonexistent"}
	for _, s := range frozen {
		if CampaignEditable(s) {
			t.Errorf("CampaignEditable(%q) = true, want false", s)
		}
	}
}

func TestPublishable(t *testing.T) {
	c := &Campaign{Status: CampaignStatusDraft}
	if c.Publishable() {
		t.Error("campaign without budget and dates should not be publishable")
	}

	budget := int64(100000)
	start := mustTime(t, "2026-09-01")
	end := mustTime(t, "2026-09-30")
	c.BudgetMinor = &budget
	c.StartDate = &start
	c.EndDate = &end
	if !c.Publishable() {
		t.Error("campaign with budget and valid date range should be publishable")
	}

	c.EndDate = &start
	if c.Publishable() {
		t.Error("end date equal to start date should not be publishable")
	}
}

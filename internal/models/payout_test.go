package models

import "testing"

func TestIsValidPayoutTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{PayoutStatusRequested, PayoutStatusProcessing, true},
		{PayoutStatusRequested, PayoutStatusRejected, true},
		{PayoutStatusProcessing, PayoutStatusPaid, true},
		{PayoutStatusProcessing, PayoutStatusRejected, true},

		{PayoutStatusRequested, PayoutStatusPaid, false},
		{PayoutStatusPaid, PayoutStatusRejected, false},
		{PayoutStatusPaid, PayoutStatusRequested, false},
		{PayoutStatusRejected, PayoutStatusProcessing, false},
		{"nonexistent", PayoutStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := IsValidPayoutTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("IsValidPayoutTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestPayoutOpen(t *testing.T) {
	open := []string{PayoutStatusRequested, PayoutStatusProcessing}
	for _, s := range open {
		if !PayoutOpen(s) {
			t.Errorf("PayoutOpen(%q) = false, want true", s)
		}
	}
	closed := []string{PayoutStatusPaid, PayoutStatusRejected}
	for _, s := range closed {
		if PayoutOpen(s) {
			t.Errorf("PayoutOpen(%q) = true, want false", s)
		}
	}
}

func TestDecisionStatus(t *testing.T) {
	if DecisionStatus(DecisionAccept) != CollabStatusAccepted {
		t.Error("accept should map to accepted")
	}
	if DecisionStatus(DecisionReject) != CollabStatusRejected {
		t.Error("reject should map to rejected")
	}
	if IsValidDecision("maybe") {
		t.Error("unknown decision should be invalid")
	}
}

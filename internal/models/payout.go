package models

import (
	"time"

	"github.com/google/uuid"
)

// Payout request statuses
const (
	PayoutStatusRequested  = "requested"
	PayoutStatusProcessing = "processing"
	PayoutStatusPaid       = "paid"
	PayoutStatusRejected   = "rejected"
)

// Valid payout transitions: from -> []to. At most one request may be
// open (requested/processing) per account, enforced by a partial
// unique index in storage.
var ValidPayoutTransitions = map[string][]string{
	PayoutStatusRequested:  {PayoutStatusProcessing, PayoutStatusRejected},
	PayoutStatusProcessing: {PayoutStatusPaid, PayoutStatusRejected},
	PayoutStatusPaid:       {},
	PayoutStatusRejected:   {},
}

func IsValidPayoutTransition(from, to string) bool {
	allowed, ok := ValidPayoutTransitions[from]
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

// PayoutOpen reports whether the status still counts against the
// one-open-request-per-account constraint.
func PayoutOpen(status string) bool {
	return status == PayoutStatusRequested || status == PayoutStatusProcessing
}

type PayoutRequest struct {
	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"account_id"`
	CreatorUserID uuid.UUID `json:"creator_user_id"`
	AmountMinor   int64     `json:"amount_minor"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

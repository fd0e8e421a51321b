package models

import (
	"time"

	"github.com/google/uuid"
)

// Collaboration request resolution states. Resolution is exactly-once:
// once accepted or rejected, no further transition is permitted.
const (
	CollabStatusPending  = "pending"
	CollabStatusAccepted = "accepted"
	CollabStatusRejected = "rejected"
)

// Resolution decisions accepted by the coordinator.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

func IsValidDecision(d string) bool {
	return d == DecisionAccept || d == DecisionReject
}

// DecisionStatus maps a caller decision to the terminal request state.
func DecisionStatus(d string) string {
	if d == DecisionAccept {
		return CollabStatusAccepted
	}
	return CollabStatusRejected
}

// CollabRequest is an unresolved invitation between a brand's
// campaign and a creator.
type CollabRequest struct {
	ID              uuid.UUID  `json:"id"`
	CampaignID      uuid.UUID  `json:"campaign_id"`
	InitiatorUserID uuid.UUID  `json:"initiator_user_id"`
	CreatorUserID   uuid.UUID  `json:"creator_user_id"`
	OfferMinor      int64      `json:"offer_minor"`
	Status          string     `json:"status"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Contract statuses
const (
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
)

// Contract is created when a collaboration request is accepted and
// carries the funded amount for that collaboration.
type Contract struct {
	ID              uuid.UUID `json:"id"`
	CampaignID      uuid.UUID `json:"campaign_id"`
	CreatorUserID   uuid.UUID `json:"creator_user_id"`
	CollabRequestID uuid.UUID `json:"collab_request_id"`
	AmountMinor     int64     `json:"amount_minor"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotifTypeCollabRequest    = "collab_request"
	NotifTypePaymentProcessed = "payment_processed"
	NotifTypeInfo             = "info"
)

// Notification is an append-only user-facing event. Only the
// recipient mutates it, and only by marking it read (directly or by
// resolving an embedded collab action).
type Notification struct {
	ID              uuid.UUID  `json:"id"`
	RecipientUserID uuid.UUID  `json:"recipient_user_id"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	DeepLink        *string    `json:"deep_link,omitempty"`
	RefID           *uuid.UUID `json:"ref_id,omitempty"` // collab request id for collab_request type
	Read            bool       `json:"read"`
	CreatedAt       time.Time  `json:"created_at"`
}

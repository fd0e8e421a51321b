package dto

import "github.com/creatorlink/backend/internal/models"

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// EarningsResponse is the creator-facing balance view plus recent
// ledger history.
type EarningsResponse struct {
	AvailableMinor int64                `json:"available_minor"`
	PendingMinor   int64                `json:"pending_minor"`
	LifetimeMinor  int64                `json:"lifetime_minor"`
	Transactions   []models.Transaction `json:"transactions,omitempty"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type CampaignRequest struct {
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	BudgetMinor  *int64     `json:"budget_minor,omitempty"`
	Niche        *string    `json:"niche,omitempty"`
	MinFollowers *int       `json:"min_followers,omitempty"`
	Location     *string    `json:"location,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type InviteRequest struct {
	CreatorUserID uuid.UUID `json:"creator_user_id"`
	OfferMinor    int64     `json:"offer_minor"`
}

type DecisionRequest struct {
	Decision string `json:"decision"` // accept / reject
}

type PayoutRequestBody struct {
	AmountMinor int64 `json:"amount_minor"`
}

type QuoteRequest struct {
	BaseMinor int64 `json:"base_minor"`
}

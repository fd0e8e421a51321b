package events

import "context"

// Streams
const (
	StreamNotifications = "events:notifications"
	StreamPayouts       = "events:payouts"
	StreamCampaigns     = "events:campaigns"
)

// Event types
const (
	EventNotificationCreated   = "notification_created"
	EventPayoutStatusChanged   = "payout_status_changed"
	EventCampaignStatusChanged = "campaign_status_changed"
	EventCollabResolved        = "collab_resolved"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

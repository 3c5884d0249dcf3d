package infrastructure

import (
	"fmt"

	"superfan/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePointsBalanceChanged:
		return "points.balance_changed"
	case events.EventTypeWalletCreated:
		return "wallets.created"
	case events.EventTypeTapInRecorded:
		return "points.tap_in"
	case events.EventTypePointsPurchased:
		return "points.purchased"
	case events.EventTypeRewardRedeemed:
		return "rewards.redeemed"
	case events.EventTypeRedemptionStateChange:
		return "redemptions.state_changed"
	case events.EventTypeStatusChanged:
		return "status.changed"
	case events.EventTypeClubPricingUpdated:
		return "clubs.pricing_updated"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "points.balance_changed":
		return events.EventTypePointsBalanceChanged
	case "wallets.created":
		return events.EventTypeWalletCreated
	case "points.tap_in":
		return events.EventTypeTapInRecorded
	case "points.purchased":
		return events.EventTypePointsPurchased
	case "rewards.redeemed":
		return events.EventTypeRewardRedeemed
	case "redemptions.state_changed":
		return events.EventTypeRedemptionStateChange
	case "status.changed":
		return events.EventTypeStatusChanged
	case "clubs.pricing_updated":
		return events.EventTypeClubPricingUpdated
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"points.balance_changed",
		"wallets.created",
		"points.tap_in",
		"points.purchased",
		"rewards.redeemed",
		"redemptions.state_changed",
		"status.changed",
		"clubs.pricing_updated",
	}
}

package infrastructure

import (
	"fmt"

	"gemwheel/events"
)

// DomainEventStream is the JetStream stream holding every published event
const DomainEventStream = "gemwheel_events"

var subjectsByType = map[events.EventType]string{
	events.EventTypeWalletCreated:      "wallet.created",
	events.EventTypeBalanceChange:      "wallet.balance_changed",
	events.EventTypeLevelUp:            "wallet.level_up",
	events.EventTypeDailyRewardClaimed: "wallet.daily_reward_claimed",
	events.EventTypeBetPlaced:          "roulette.bet_placed",
	events.EventTypeSessionCompleted:   "roulette.session_completed",
	events.EventTypeItemDropped:        "inventory.item_dropped",
	events.EventTypeTradeStatusChanged: "trades.status_changed",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"wallet.*",
		"roulette.*",
		"inventory.*",
		"trades.*",
	}
}

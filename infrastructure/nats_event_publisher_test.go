package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gemwheel/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMessagePublisher is a mock implementation of MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func TestNATSEventPublisher_Publish_Envelope(t *testing.T) {
	client := new(MockMessagePublisher)
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), nil)

	var captured []byte
	client.On("Publish", mock.Anything, "roulette.session_completed", mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).([]byte) }).
		Return(nil)

	event := events.SessionCompletedEvent{
		UserID:        42,
		SessionID:     5,
		WinningNumber: 7,
		WinningCrypto: "ETH",
		TotalBet:      100,
		TotalWinnings: 200,
		Won:           true,
	}
	require.NoError(t, publisher.Publish(event))
	client.AssertExpectations(t)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(captured, &envelope))
	assert.Equal(t, "session_completed", envelope.EventType)
	assert.Equal(t, "gemwheel", envelope.SourceService)
	assert.NotEmpty(t, envelope.EventID)
	assert.WithinDuration(t, time.Now(), envelope.Timestamp, time.Minute)

	var payload events.SessionCompletedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
}

func TestNATSEventPublisher_Publish_Errors(t *testing.T) {
	t.Run("missing stream is tolerated", func(t *testing.T) {
		client := new(MockMessagePublisher)
		client.On("Publish", mock.Anything, "wallet.created", mock.Anything).
			Return(errors.New("nats: no response from stream"))

		publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), nil)
		assert.NoError(t, publisher.Publish(events.WalletCreatedEvent{UserID: 1}))
	})

	t.Run("other failures surface", func(t *testing.T) {
		client := new(MockMessagePublisher)
		client.On("Publish", mock.Anything, "trades.status_changed", mock.Anything).
			Return(errors.New("connection closed"))

		publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), nil)
		err := publisher.Publish(events.TradeStatusChangedEvent{TradeID: 3})
		assert.ErrorContains(t, err, "failed to publish event to NATS")
	})
}

func TestNATSEventPublisher_Publish_LocalSubscribers(t *testing.T) {
	client := new(MockMessagePublisher)
	client.On("Publish", mock.Anything, "inventory.item_dropped", mock.Anything).Return(nil)

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeItemDropped, func(ctx context.Context, e events.Event) {
		received <- e
	})

	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), bus)
	require.NoError(t, publisher.Publish(events.ItemDroppedEvent{UserID: 9, ItemID: 4, ItemName: "Moon Badge"}))

	select {
	case e := <-received:
		assert.Equal(t, int64(4), e.(events.ItemDroppedEvent).ItemID)
	case <-time.After(2 * time.Second):
		t.Fatal("local subscriber was not called")
	}
}

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	mapper := NewEventSubjectMapper()

	for eventType, subject := range subjectsByType {
		assert.Equal(t, eventType, mapper.MapSubjectToEventType(subject))
	}
	assert.Equal(t, "wallet.level_up", mapper.MapEventToSubject(events.LevelUpEvent{}))
	assert.Equal(t, events.EventType("misc.thing"), mapper.MapSubjectToEventType("misc.thing"))
	assert.Len(t, mapper.GetAllSubjects(), 4)
}

func TestNoopEventPublisher_Publish(t *testing.T) {
	assert.NoError(t, NewNoopEventPublisher().Publish(events.BetPlacedEvent{}))
}

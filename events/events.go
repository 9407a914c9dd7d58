package events

import (
	"context"
	"sync"

	"gemwheel/domain/entities"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeWalletCreated      EventType = "wallet_created"
	EventTypeBalanceChange      EventType = "balance_change"
	EventTypeLevelUp            EventType = "level_up"
	EventTypeDailyRewardClaimed EventType = "daily_reward_claimed"
	EventTypeBetPlaced          EventType = "bet_placed"
	EventTypeSessionCompleted   EventType = "session_completed"
	EventTypeItemDropped        EventType = "item_dropped"
	EventTypeTradeStatusChanged EventType = "trade_status_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// Publisher accepts events for delivery
type Publisher interface {
	Publish(event Event) error
}

// WalletCreatedEvent is emitted once per user when the wallet is opened
type WalletCreatedEvent struct {
	UserID        int64 `json:"user_id"`
	WalletID      int64 `json:"wallet_id"`
	StartingBonus int64 `json:"starting_bonus"`
}

func (e WalletCreatedEvent) Type() EventType {
	return EventTypeWalletCreated
}

// BalanceChangeEvent represents a ledger entry that was written
type BalanceChangeEvent struct {
	UserID       int64                 `json:"user_id"`
	CurrencyType entities.CurrencyType `json:"currency_type"`
	OldBalance   int64                 `json:"old_balance"`
	NewBalance   int64                 `json:"new_balance"`
	ChangeAmount int64                 `json:"change_amount"`
	Source       entities.Source       `json:"source"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// LevelUpEvent represents a level threshold crossing
type LevelUpEvent struct {
	UserID   int64 `json:"user_id"`
	OldLevel int   `json:"old_level"`
	NewLevel int   `json:"new_level"`
	GemBonus int64 `json:"gem_bonus"`
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// DailyRewardClaimedEvent represents a successful daily claim
type DailyRewardClaimedEvent struct {
	UserID int64 `json:"user_id"`
	Streak int   `json:"streak"`
	Reward int64 `json:"reward"`
}

func (e DailyRewardClaimedEvent) Type() EventType {
	return EventTypeDailyRewardClaimed
}

// BetPlacedEvent represents a wager accepted against a session
type BetPlacedEvent struct {
	UserID          int64            `json:"user_id"`
	SessionID       int64            `json:"session_id"`
	BetID           int64            `json:"bet_id"`
	BetType         entities.BetType `json:"bet_type"`
	BetValue        string           `json:"bet_value"`
	Amount          int64            `json:"amount"`
	PotentialPayout int64            `json:"potential_payout"`
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// SessionCompletedEvent represents a settled spin
type SessionCompletedEvent struct {
	UserID        int64  `json:"user_id"`
	SessionID     int64  `json:"session_id"`
	WinningNumber int    `json:"winning_number"`
	WinningCrypto string `json:"winning_crypto"`
	TotalBet      int64  `json:"total_bet"`
	TotalWinnings int64  `json:"total_winnings"`
	Won           bool   `json:"won"`
}

func (e SessionCompletedEvent) Type() EventType {
	return EventTypeSessionCompleted
}

// ItemDroppedEvent represents a random item granted to a user
type ItemDroppedEvent struct {
	UserID   int64           `json:"user_id"`
	ItemID   int64           `json:"item_id"`
	ItemName string          `json:"item_name"`
	Rarity   entities.Rarity `json:"rarity"`
}

func (e ItemDroppedEvent) Type() EventType {
	return EventTypeItemDropped
}

// TradeStatusChangedEvent represents a trade offer moving between states
type TradeStatusChangedEvent struct {
	TradeID     int64                `json:"trade_id"`
	InitiatorID int64                `json:"initiator_id"`
	RecipientID int64                `json:"recipient_id"`
	OldStatus   entities.TradeStatus `json:"old_status"`
	NewStatus   entities.TradeStatus `json:"new_status"`
}

func (e TradeStatusChangedEvent) Type() EventType {
	return EventTypeTradeStatusChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus dispatches events to in-process subscribers
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish emits the event with a background context
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    Publisher
	pending []Event
}

// NewTransactionalBus wraps a publisher with commit-coupled buffering
func NewTransactionalBus(real Publisher) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes the event until Flush
func (b *TransactionalBus) Publish(e Event) error {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
	return nil
}

// Pending returns the number of buffered events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush is called after a successful commit. Delivery failures are logged and
// do not stop the remaining events.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus")

	for _, ev := range b.pending {
		if err := b.real.Publish(ev); err != nil {
			log.WithFields(log.Fields{
				"eventType": ev.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	log.WithFields(log.Fields{
		"discardedEventCount": len(b.pending),
	}).Debug("Discarding pending events from transactional bus")
	b.pending = nil
}

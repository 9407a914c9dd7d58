package application

import (
	"context"

	"gemwheel/domain/entities"
	"gemwheel/events"
	"gemwheel/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// RegisterMetricsSubscriptions records metrics from committed domain events
func RegisterMetricsSubscriptions(bus *events.Bus, metrics *observability.MetricsProvider) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, err := AssertEventType[events.BalanceChangeEvent](event)
		if err != nil {
			log.WithError(err).Error("Unexpected event on balance subscription")
			return
		}
		direction := entities.TransactionTypeEarn
		if e.ChangeAmount < 0 {
			direction = entities.TransactionTypeSpend
		}
		metrics.RecordLedgerTransaction(string(e.Source), string(direction))
	})

	bus.Subscribe(events.EventTypeBetPlaced, func(ctx context.Context, event events.Event) {
		e, err := AssertEventType[events.BetPlacedEvent](event)
		if err != nil {
			log.WithError(err).Error("Unexpected event on bet subscription")
			return
		}
		metrics.RecordBetPlaced(string(e.BetType))
	})

	bus.Subscribe(events.EventTypeSessionCompleted, func(ctx context.Context, event events.Event) {
		e, err := AssertEventType[events.SessionCompletedEvent](event)
		if err != nil {
			log.WithError(err).Error("Unexpected event on session subscription")
			return
		}
		metrics.RecordSpin(e.Won, e.TotalWinnings)
	})

	bus.Subscribe(events.EventTypeItemDropped, func(ctx context.Context, event events.Event) {
		e, err := AssertEventType[events.ItemDroppedEvent](event)
		if err != nil {
			log.WithError(err).Error("Unexpected event on drop subscription")
			return
		}
		metrics.RecordItemDrop(string(e.Rarity))
	})

	bus.Subscribe(events.EventTypeTradeStatusChanged, func(ctx context.Context, event events.Event) {
		e, err := AssertEventType[events.TradeStatusChangedEvent](event)
		if err != nil {
			log.WithError(err).Error("Unexpected event on trade subscription")
			return
		}
		metrics.RecordTradeTransition(string(e.NewStatus), 1)
	})
}

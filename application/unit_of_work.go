package application

import (
	"context"
	"fmt"

	"gemwheel/config"
	"gemwheel/domain/interfaces"
	"gemwheel/domain/services"
	"gemwheel/infrastructure/observability"
)

// domainServices are the domain services bound to one unit of work
type domainServices struct {
	ledger    interfaces.LedgerService
	effects   interfaces.EffectService
	drops     interfaces.DropService
	roulette  interfaces.RouletteService
	inventory interfaces.InventoryService
	trades    interfaces.TradeService
}

// newDomainServices wires every domain service against the repositories of uow
func newDomainServices(uow interfaces.UnitOfWork, economy *config.Economy, rng interfaces.RandomSource) *domainServices {
	bus := uow.EventBus()
	ledger := services.NewLedgerService(uow.WalletRepository(), uow.TransactionRepository(), bus, economy)
	effects := services.NewEffectService(uow.ActiveEffectRepository())
	drops := services.NewDropService(uow.CollectibleItemRepository(), uow.InventoryRepository(), bus, rng, economy)

	return &domainServices{
		ledger:  ledger,
		effects: effects,
		drops:   drops,
		roulette: services.NewRouletteService(
			uow.GameSessionRepository(),
			uow.GameBetRepository(),
			uow.GameStatsRepository(),
			ledger,
			effects,
			drops,
			bus,
			economy,
		),
		inventory: services.NewInventoryService(uow.InventoryRepository(), uow.CollectibleItemRepository(), ledger, effects),
		trades: services.NewTradeService(
			uow.TradeRepository(),
			uow.InventoryRepository(),
			uow.CollectibleItemRepository(),
			uow.WalletRepository(),
			ledger,
			bus,
			economy,
		),
	}
}

// runner executes operations in their own unit of work
type runner struct {
	uowFactory interfaces.UnitOfWorkFactory
	economy    *config.Economy
	rng        interfaces.RandomSource
}

// inUnitOfWork runs fn inside a fresh unit of work and commits when it
// succeeds. Any error rolls everything back, events included.
func inUnitOfWork[T any](ctx context.Context, r runner, component, operation string, fn func(svc *domainServices) (T, error)) (T, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery(component, operation)()

	var zero T
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := fn(newDomainServices(uow, r.economy, r.rng))
	if err != nil {
		return zero, err
	}

	if err := uow.Commit(); err != nil {
		return zero, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

package interfaces

import "context"

// UnitOfWork scopes one atomic operation: every repository it hands out shares
// the same transaction, and events are published only after Commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events.
	// It is safe to call after Commit.
	Rollback() error

	WalletRepository() WalletRepository
	TransactionRepository() TransactionRepository
	GameSessionRepository() GameSessionRepository
	GameBetRepository() GameBetRepository
	GameStatsRepository() GameStatsRepository
	CollectibleItemRepository() CollectibleItemRepository
	InventoryRepository() InventoryRepository
	ActiveEffectRepository() ActiveEffectRepository
	TradeRepository() TradeRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

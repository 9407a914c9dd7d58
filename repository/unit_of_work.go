package repository

import (
	"context"
	"errors"
	"fmt"

	"gemwheel/database"
	"gemwheel/domain/interfaces"
	"gemwheel/events"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	walletRepo       interfaces.WalletRepository
	transactionRepo  interfaces.TransactionRepository
	sessionRepo      interfaces.GameSessionRepository
	betRepo          interfaces.GameBetRepository
	statsRepo        interfaces.GameStatsRepository
	itemRepo         interfaces.CollectibleItemRepository
	inventoryRepo    interfaces.InventoryRepository
	effectRepo       interfaces.ActiveEffectRepository
	tradeRepo        interfaces.TradeRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events raised inside
// a unit of work reach publisher only after a successful commit.
func NewUnitOfWorkFactory(db *database.DB, publisher events.Publisher) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:        db,
		publisher: publisher,
	}
}

type unitOfWorkFactory struct {
	db        *database.DB
	publisher events.Publisher
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.publisher),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.walletRepo = newWalletRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.sessionRepo = newGameSessionRepositoryWithTx(tx)
	u.betRepo = newGameBetRepositoryWithTx(tx)
	u.statsRepo = newGameStatsRepositoryWithTx(tx)
	u.itemRepo = newCollectibleItemRepositoryWithTx(tx)
	u.inventoryRepo = newInventoryRepositoryWithTx(tx)
	u.effectRepo = newActiveEffectRepositoryWithTx(tx)
	u.tradeRepo = newTradeRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and then releases the buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// The commit stands even if delivery fails; the bus logs failures
	_ = u.transactionalBus.Flush(u.ctx)
	return nil
}

// Rollback rolls back the transaction and drops buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil
	u.transactionalBus.Discard()
	return nil
}

func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletRepo
}

func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

func (u *unitOfWork) GameSessionRepository() interfaces.GameSessionRepository {
	if u.sessionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.sessionRepo
}

func (u *unitOfWork) GameBetRepository() interfaces.GameBetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

func (u *unitOfWork) GameStatsRepository() interfaces.GameStatsRepository {
	if u.statsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.statsRepo
}

func (u *unitOfWork) CollectibleItemRepository() interfaces.CollectibleItemRepository {
	if u.itemRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.itemRepo
}

func (u *unitOfWork) InventoryRepository() interfaces.InventoryRepository {
	if u.inventoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.inventoryRepo
}

func (u *unitOfWork) ActiveEffectRepository() interfaces.ActiveEffectRepository {
	if u.effectRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.effectRepo
}

func (u *unitOfWork) TradeRepository() interfaces.TradeRepository {
	if u.tradeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tradeRepo
}

// EventBus returns the transactional bus for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalBus
}

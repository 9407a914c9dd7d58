package testhelpers

import (
	"context"

	"gemwheel/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork hands out a fixed set of mock repositories. Begin, Commit
// and Rollback are recorded through testify so tests can assert on them.
type MockUnitOfWork struct {
	mock.Mock

	Wallets      *MockWalletRepository
	Transactions *MockTransactionRepository
	Sessions     *MockGameSessionRepository
	Bets         *MockGameBetRepository
	Stats        *MockGameStatsRepository
	Items        *MockCollectibleItemRepository
	Inventory    *MockInventoryRepository
	Effects      *MockActiveEffectRepository
	Trades       *MockTradeRepository
	Events       *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Wallets:      new(MockWalletRepository),
		Transactions: new(MockTransactionRepository),
		Sessions:     new(MockGameSessionRepository),
		Bets:         new(MockGameBetRepository),
		Stats:        new(MockGameStatsRepository),
		Items:        new(MockCollectibleItemRepository),
		Inventory:    new(MockInventoryRepository),
		Effects:      new(MockActiveEffectRepository),
		Trades:       new(MockTradeRepository),
		Events:       new(MockEventPublisher),
	}
}

func (u *MockUnitOfWork) Begin(ctx context.Context) error {
	args := u.Called(ctx)
	return args.Error(0)
}

func (u *MockUnitOfWork) Commit() error {
	args := u.Called()
	return args.Error(0)
}

func (u *MockUnitOfWork) Rollback() error {
	args := u.Called()
	return args.Error(0)
}

func (u *MockUnitOfWork) WalletRepository() interfaces.WalletRepository {
	return u.Wallets
}

func (u *MockUnitOfWork) TransactionRepository() interfaces.TransactionRepository {
	return u.Transactions
}

func (u *MockUnitOfWork) GameSessionRepository() interfaces.GameSessionRepository {
	return u.Sessions
}

func (u *MockUnitOfWork) GameBetRepository() interfaces.GameBetRepository {
	return u.Bets
}

func (u *MockUnitOfWork) GameStatsRepository() interfaces.GameStatsRepository {
	return u.Stats
}

func (u *MockUnitOfWork) CollectibleItemRepository() interfaces.CollectibleItemRepository {
	return u.Items
}

func (u *MockUnitOfWork) InventoryRepository() interfaces.InventoryRepository {
	return u.Inventory
}

func (u *MockUnitOfWork) ActiveEffectRepository() interfaces.ActiveEffectRepository {
	return u.Effects
}

func (u *MockUnitOfWork) TradeRepository() interfaces.TradeRepository {
	return u.Trades
}

func (u *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return u.Events
}

// AssertRepositoryExpectations checks every repository mock
func (u *MockUnitOfWork) AssertRepositoryExpectations(t mock.TestingT) {
	u.Wallets.AssertExpectations(t)
	u.Transactions.AssertExpectations(t)
	u.Sessions.AssertExpectations(t)
	u.Bets.AssertExpectations(t)
	u.Stats.AssertExpectations(t)
	u.Items.AssertExpectations(t)
	u.Inventory.AssertExpectations(t)
	u.Effects.AssertExpectations(t)
	u.Trades.AssertExpectations(t)
}

// MockUnitOfWorkFactory returns the same unit of work for every Create call
type MockUnitOfWorkFactory struct {
	UoW *MockUnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.UoW
}

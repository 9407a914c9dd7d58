package testhelpers

import (
	"context"
	"time"

	"gemwheel/domain/entities"
	"gemwheel/events"

	"github.com/stretchr/testify/mock"
)

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualWallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualWallet), args.Error(1)
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *entities.VirtualWallet) (bool, error) {
	args := m.Called(ctx, wallet)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *entities.VirtualWallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, tx *entities.VirtualTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter entities.TransactionFilter) ([]*entities.VirtualTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VirtualTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByCurrency(ctx context.Context, walletID int64) (map[entities.CurrencyType]int64, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.CurrencyType]int64), args.Error(1)
}

// MockGameSessionRepository is a mock implementation of GameSessionRepository
type MockGameSessionRepository struct {
	mock.Mock
}

func (m *MockGameSessionRepository) Create(ctx context.Context, session *entities.GameSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockGameSessionRepository) GetByID(ctx context.Context, id int64) (*entities.GameSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameSession), args.Error(1)
}

func (m *MockGameSessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.GameSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameSession), args.Error(1)
}

func (m *MockGameSessionRepository) Update(ctx context.Context, session *entities.GameSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockGameSessionRepository) List(ctx context.Context, filter entities.SessionHistoryFilter) ([]*entities.GameSession, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameSession), args.Error(1)
}

// MockGameBetRepository is a mock implementation of GameBetRepository
type MockGameBetRepository struct {
	mock.Mock
}

func (m *MockGameBetRepository) Create(ctx context.Context, bet *entities.GameBet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockGameBetRepository) GetBySession(ctx context.Context, sessionID int64) ([]*entities.GameBet, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameBet), args.Error(1)
}

func (m *MockGameBetRepository) UpdateSettlement(ctx context.Context, bet *entities.GameBet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

// MockGameStatsRepository is a mock implementation of GameStatsRepository
type MockGameStatsRepository struct {
	mock.Mock
}

func (m *MockGameStatsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.GameStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameStats), args.Error(1)
}

func (m *MockGameStatsRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.GameStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameStats), args.Error(1)
}

func (m *MockGameStatsRepository) Upsert(ctx context.Context, stats *entities.GameStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

// MockCollectibleItemRepository is a mock implementation of CollectibleItemRepository
type MockCollectibleItemRepository struct {
	mock.Mock
}

func (m *MockCollectibleItemRepository) GetByID(ctx context.Context, id int64) (*entities.CollectibleItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CollectibleItem), args.Error(1)
}

func (m *MockCollectibleItemRepository) ListActiveByRarity(ctx context.Context, rarity entities.Rarity) ([]*entities.CollectibleItem, error) {
	args := m.Called(ctx, rarity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CollectibleItem), args.Error(1)
}

func (m *MockCollectibleItemRepository) Create(ctx context.Context, item *entities.CollectibleItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.UserInventory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserInventory), args.Error(1)
}

func (m *MockInventoryRepository) GetByUserAndItemForUpdate(ctx context.Context, userID, itemID int64) (*entities.UserInventory, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserInventory), args.Error(1)
}

func (m *MockInventoryRepository) AddQuantity(ctx context.Context, userID, itemID int64, quantity int) (*entities.UserInventory, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserInventory), args.Error(1)
}

func (m *MockInventoryRepository) RemoveQuantity(ctx context.Context, inventoryID int64, quantity int) (int, error) {
	args := m.Called(ctx, inventoryID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryRepository) UpdateFlags(ctx context.Context, inv *entities.UserInventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInventoryRepository) UnequipAllOfType(ctx context.Context, userID int64, itemType entities.ItemType) error {
	args := m.Called(ctx, userID, itemType)
	return args.Error(0)
}

func (m *MockInventoryRepository) List(ctx context.Context, filter entities.InventoryFilter) ([]*entities.UserInventory, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.UserInventory), args.Error(1)
}

// MockActiveEffectRepository is a mock implementation of ActiveEffectRepository
type MockActiveEffectRepository struct {
	mock.Mock
}

func (m *MockActiveEffectRepository) Create(ctx context.Context, effect *entities.ActiveEffect) error {
	args := m.Called(ctx, effect)
	return args.Error(0)
}

func (m *MockActiveEffectRepository) GetActive(ctx context.Context, userID int64, scope entities.EffectScope, now time.Time) ([]*entities.ActiveEffect, error) {
	args := m.Called(ctx, userID, scope, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ActiveEffect), args.Error(1)
}

func (m *MockActiveEffectRepository) DecrementUses(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockActiveEffectRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockActiveEffectRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockTradeRepository is a mock implementation of TradeRepository
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) Create(ctx context.Context, trade *entities.TradeOffer) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *MockTradeRepository) GetByID(ctx context.Context, id int64) (*entities.TradeOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TradeOffer), args.Error(1)
}

func (m *MockTradeRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.TradeOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TradeOffer), args.Error(1)
}

func (m *MockTradeRepository) UpdateStatus(ctx context.Context, id int64, status entities.TradeStatus, respondedAt time.Time) error {
	args := m.Called(ctx, id, status, respondedAt)
	return args.Error(0)
}

func (m *MockTradeRepository) CountPendingByInitiator(ctx context.Context, userID int64, now time.Time) (int, error) {
	args := m.Called(ctx, userID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockTradeRepository) List(ctx context.Context, filter entities.TradeFilter) ([]*entities.TradeOffer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TradeOffer), args.Error(1)
}

func (m *MockTradeRepository) ExpirePending(ctx context.Context, now time.Time) ([]*entities.TradeOffer, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TradeOffer), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualWallet), args.Error(1)
}

func (m *MockLedgerService) GetWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualWallet), args.Error(1)
}

func (m *MockLedgerService) LockWallets(ctx context.Context, userIDs ...int64) error {
	args := m.Called(ctx, userIDs)
	return args.Error(0)
}

func (m *MockLedgerService) AddCurrency(ctx context.Context, userID int64, currency entities.CurrencyType, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, error) {
	args := m.Called(ctx, userID, currency, amount, source, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualTransaction), args.Error(1)
}

func (m *MockLedgerService) AddExperience(ctx context.Context, userID int64, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, *entities.LevelUpResult, error) {
	args := m.Called(ctx, userID, amount, source, description)
	var tx *entities.VirtualTransaction
	if args.Get(0) != nil {
		tx = args.Get(0).(*entities.VirtualTransaction)
	}
	var levelUp *entities.LevelUpResult
	if args.Get(1) != nil {
		levelUp = args.Get(1).(*entities.LevelUpResult)
	}
	return tx, levelUp, args.Error(2)
}

func (m *MockLedgerService) SpendCurrency(ctx context.Context, userID int64, currency entities.CurrencyType, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, error) {
	args := m.Called(ctx, userID, currency, amount, source, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualTransaction), args.Error(1)
}

func (m *MockLedgerService) CheckLevelUp(ctx context.Context, userID int64) (*entities.LevelUpResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LevelUpResult), args.Error(1)
}

func (m *MockLedgerService) ClaimDailyReward(ctx context.Context, userID int64, now time.Time) (*entities.DailyRewardResult, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DailyRewardResult), args.Error(1)
}

func (m *MockLedgerService) RecordGamePlayed(ctx context.Context, userID int64, won bool) error {
	args := m.Called(ctx, userID, won)
	return args.Error(0)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, filter entities.TransactionFilter) ([]*entities.VirtualTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VirtualTransaction), args.Error(1)
}

func (m *MockLedgerService) AuditWallet(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockEffectService is a mock implementation of EffectService
type MockEffectService struct {
	mock.Mock
}

func (m *MockEffectService) ActiveModifiers(ctx context.Context, userID int64, scope entities.EffectScope, now time.Time) (*entities.EffectModifiers, error) {
	args := m.Called(ctx, userID, scope, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EffectModifiers), args.Error(1)
}

func (m *MockEffectService) ConsumeUse(ctx context.Context, effect *entities.ActiveEffect) error {
	args := m.Called(ctx, effect)
	return args.Error(0)
}

func (m *MockEffectService) Activate(ctx context.Context, userID int64, item *entities.CollectibleItem, now time.Time) (*entities.ActiveEffect, error) {
	args := m.Called(ctx, userID, item, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActiveEffect), args.Error(1)
}

func (m *MockEffectService) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockDropService is a mock implementation of DropService
type MockDropService struct {
	mock.Mock
}

func (m *MockDropService) RollDrop(ctx context.Context, userID int64, opts entities.DropOptions) (*entities.DropResult, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DropResult), args.Error(1)
}

// MockMarketDataProvider is a mock implementation of MarketDataProvider
type MockMarketDataProvider struct {
	mock.Mock
}

func (m *MockMarketDataProvider) GetCurrentPrice(ctx context.Context, symbol string) *decimal.Decimal {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*decimal.Decimal)
}

// SequenceRandom replays a fixed sequence of draws. Each value is reduced
// modulo n so tests can script outcomes without knowing every bound.
type SequenceRandom struct {
	mu     sync.Mutex
	values []int64
	calls  []int64
}

// NewSequenceRandom returns a RandomSource that yields values in order
func NewSequenceRandom(values ...int64) *SequenceRandom {
	return &SequenceRandom{values: values}
}

func (r *SequenceRandom) Int63n(n int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0, fmt.Errorf("random sequence exhausted after %d draws", len(r.calls)-1)
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n, nil
}

// Bounds returns the n passed to every draw so far
func (r *SequenceRandom) Bounds() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.calls...)
}

var _ interfaces.RandomSource = (*SequenceRandom)(nil)

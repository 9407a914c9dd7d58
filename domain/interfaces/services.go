package interfaces

import (
	"context"
	"time"

	"gemwheel/domain/entities"
	"gemwheel/events"

	"github.com/shopspring/decimal"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// MarketDataProvider looks up live crypto prices. It returns nil when the
// price is unavailable; callers must treat that as a normal outcome.
type MarketDataProvider interface {
	GetCurrentPrice(ctx context.Context, symbol string) *decimal.Decimal
}

// RandomSource supplies uniform random integers in [0, n)
type RandomSource interface {
	Int63n(n int64) (int64, error)
}

// LedgerService is the single entry point for every currency movement
type LedgerService interface {
	// CreateWallet creates the user's wallet with the starting bonus, or returns the existing one
	CreateWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error)

	// GetWallet returns the user's wallet or a not found error
	GetWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error)

	// LockWallets row-locks wallets in ascending user id order, creating missing ones
	LockWallets(ctx context.Context, userIDs ...int64) error

	// AddCurrency credits a positive amount and logs an EARN entry
	AddCurrency(ctx context.Context, userID int64, currency entities.CurrencyType, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, error)

	// AddExperience credits XP and reports the level-up it triggered, if any
	AddExperience(ctx context.Context, userID int64, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, *entities.LevelUpResult, error)

	// SpendCurrency debits a positive amount and logs a SPEND entry, or fails without side effects
	SpendCurrency(ctx context.Context, userID int64, currency entities.CurrencyType, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, error)

	// CheckLevelUp advances the wallet by at most one level; nil when no threshold was crossed
	CheckLevelUp(ctx context.Context, userID int64) (*entities.LevelUpResult, error)

	// ClaimDailyReward grants the streak reward; nil when already claimed today
	ClaimDailyReward(ctx context.Context, userID int64, now time.Time) (*entities.DailyRewardResult, error)

	// RecordGamePlayed bumps the wallet's game counters
	RecordGamePlayed(ctx context.Context, userID int64, won bool) error

	// ListTransactions returns ledger history
	ListTransactions(ctx context.Context, filter entities.TransactionFilter) ([]*entities.VirtualTransaction, error)

	// AuditWallet recomputes balances from the ledger and fails on any mismatch
	AuditWallet(ctx context.Context, userID int64) error
}

// EffectService resolves and consumes active buffs
type EffectService interface {
	ActiveModifiers(ctx context.Context, userID int64, scope entities.EffectScope, now time.Time) (*entities.EffectModifiers, error)
	ConsumeUse(ctx context.Context, effect *entities.ActiveEffect) error
	Activate(ctx context.Context, userID int64, item *entities.CollectibleItem, now time.Time) (*entities.ActiveEffect, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// DropService rolls random item drops
type DropService interface {
	// RollDrop returns nil when no item dropped
	RollDrop(ctx context.Context, userID int64, opts entities.DropOptions) (*entities.DropResult, error)
}

// RouletteService runs provably-fair roulette sessions
type RouletteService interface {
	CreateSession(ctx context.Context, userID int64, clientSeed string) (*entities.GameSession, error)
	PlaceBet(ctx context.Context, req entities.BetRequest) (*entities.GameBet, error)
	SpinWheel(ctx context.Context, sessionID, userID int64) (*entities.SpinResult, error)
	RevealServerSeed(ctx context.Context, sessionID, userID int64) (*entities.SessionReveal, error)
	GetHistory(ctx context.Context, filter entities.SessionHistoryFilter) ([]*entities.GameSession, error)
	GetStats(ctx context.Context, userID int64) (*entities.GameStats, error)
}

// InventoryService manages a user's holdings
type InventoryService interface {
	ListInventory(ctx context.Context, filter entities.InventoryFilter) ([]*entities.UserInventory, error)
	ToggleFavorite(ctx context.Context, userID, inventoryID int64) (*entities.UserInventory, error)
	SetEquipped(ctx context.Context, userID, inventoryID int64, equipped bool) (*entities.UserInventory, error)
	SellItem(ctx context.Context, userID, inventoryID int64, quantity int) (*entities.VirtualTransaction, error)
	UseConsumable(ctx context.Context, userID, inventoryID int64, now time.Time) (*entities.ActiveEffect, error)
	AddCatalogItem(ctx context.Context, item *entities.CollectibleItem) error
}

// TradeService runs peer-to-peer trades
type TradeService interface {
	CreateTrade(ctx context.Context, req entities.TradeRequest, now time.Time) (*entities.TradeOffer, error)
	AcceptTrade(ctx context.Context, tradeID, userID int64, now time.Time) (*entities.TradeOffer, error)
	DeclineTrade(ctx context.Context, tradeID, userID int64, now time.Time) (*entities.TradeOffer, error)
	CancelTrade(ctx context.Context, tradeID, userID int64, now time.Time) (*entities.TradeOffer, error)
	ListTrades(ctx context.Context, filter entities.TradeFilter) ([]*entities.TradeOffer, error)
	ExpireStaleTrades(ctx context.Context, now time.Time) (int, error)
}

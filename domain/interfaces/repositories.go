package interfaces

import (
	"context"
	"time"

	"gemwheel/domain/entities"
)

// WalletRepository defines the interface for virtual wallet data access.
// Getters return nil, nil when the wallet does not exist.
type WalletRepository interface {
	// GetByUserID retrieves a wallet without locking it
	GetByUserID(ctx context.Context, userID int64) (*entities.VirtualWallet, error)

	// GetByUserIDForUpdate retrieves a wallet and locks the row until the transaction ends
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.VirtualWallet, error)

	// Create inserts a wallet; created is false if the user already had one
	Create(ctx context.Context, wallet *entities.VirtualWallet) (created bool, err error)

	// Update persists balances, counters and progression
	Update(ctx context.Context, wallet *entities.VirtualWallet) error
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Record appends a ledger entry
	Record(ctx context.Context, tx *entities.VirtualTransaction) error

	// List returns entries matching the filter, newest first
	List(ctx context.Context, filter entities.TransactionFilter) ([]*entities.VirtualTransaction, error)

	// SumByCurrency totals the signed amounts of a wallet per currency
	SumByCurrency(ctx context.Context, walletID int64) (map[entities.CurrencyType]int64, error)
}

// GameSessionRepository defines the interface for roulette session data access
type GameSessionRepository interface {
	// Create inserts a new session
	Create(ctx context.Context, session *entities.GameSession) error

	// GetByID retrieves a session without locking it
	GetByID(ctx context.Context, id int64) (*entities.GameSession, error)

	// GetByIDForUpdate retrieves a session and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.GameSession, error)

	// Update persists nonce, status, outcome and totals
	Update(ctx context.Context, session *entities.GameSession) error

	// List returns a user's sessions matching the filter, newest first
	List(ctx context.Context, filter entities.SessionHistoryFilter) ([]*entities.GameSession, error)
}

// GameBetRepository defines the interface for bet data access
type GameBetRepository interface {
	// Create inserts a new bet
	Create(ctx context.Context, bet *entities.GameBet) error

	// GetBySession returns all bets of a session in placement order
	GetBySession(ctx context.Context, sessionID int64) ([]*entities.GameBet, error)

	// UpdateSettlement persists is_winner and actual_payout
	UpdateSettlement(ctx context.Context, bet *entities.GameBet) error
}

// GameStatsRepository defines the interface for rolling statistics
type GameStatsRepository interface {
	// GetByUserID retrieves a user's stats, nil if never played
	GetByUserID(ctx context.Context, userID int64) (*entities.GameStats, error)

	// GetByUserIDForUpdate retrieves and locks a user's stats row
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.GameStats, error)

	// Upsert creates or replaces a user's stats
	Upsert(ctx context.Context, stats *entities.GameStats) error
}

// CollectibleItemRepository defines the interface for the item catalog
type CollectibleItemRepository interface {
	// GetByID retrieves a catalog item
	GetByID(ctx context.Context, id int64) (*entities.CollectibleItem, error)

	// ListActiveByRarity returns all active items of a rarity
	ListActiveByRarity(ctx context.Context, rarity entities.Rarity) ([]*entities.CollectibleItem, error)

	// Create inserts a catalog item
	Create(ctx context.Context, item *entities.CollectibleItem) error
}

// InventoryRepository defines the interface for user holdings
type InventoryRepository interface {
	// GetByIDForUpdate retrieves and locks an inventory row
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.UserInventory, error)

	// GetByUserAndItemForUpdate retrieves and locks a user's stack of an item
	GetByUserAndItemForUpdate(ctx context.Context, userID, itemID int64) (*entities.UserInventory, error)

	// AddQuantity merges quantity into an existing stack or creates a new one
	AddQuantity(ctx context.Context, userID, itemID int64, quantity int) (*entities.UserInventory, error)

	// RemoveQuantity decrements a stack and deletes it when it reaches zero
	RemoveQuantity(ctx context.Context, inventoryID int64, quantity int) (remaining int, err error)

	// UpdateFlags persists equip and favorite flags
	UpdateFlags(ctx context.Context, inv *entities.UserInventory) error

	// UnequipAllOfType clears the equip flag on every stack of an item type
	UnequipAllOfType(ctx context.Context, userID int64, itemType entities.ItemType) error

	// List returns a user's holdings with their catalog items
	List(ctx context.Context, filter entities.InventoryFilter) ([]*entities.UserInventory, error)
}

// ActiveEffectRepository defines the interface for consumable buffs
type ActiveEffectRepository interface {
	// Create inserts an effect
	Create(ctx context.Context, effect *entities.ActiveEffect) error

	// GetActive returns unexpired effects applying to scope (or GLOBAL)
	GetActive(ctx context.Context, userID int64, scope entities.EffectScope, now time.Time) ([]*entities.ActiveEffect, error)

	// DecrementUses consumes one use and returns the remaining count
	DecrementUses(ctx context.Context, id int64) (remaining int, err error)

	// Delete removes an effect
	Delete(ctx context.Context, id int64) error

	// DeleteExpiredBefore purges effects that expired before cutoff
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TradeRepository defines the interface for trade offers
type TradeRepository interface {
	// Create inserts an offer together with its item lines
	Create(ctx context.Context, trade *entities.TradeOffer) error

	// GetByID retrieves an offer with its item lines
	GetByID(ctx context.Context, id int64) (*entities.TradeOffer, error)

	// GetByIDForUpdate retrieves and locks an offer with its item lines
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.TradeOffer, error)

	// UpdateStatus moves an offer to a new status
	UpdateStatus(ctx context.Context, id int64, status entities.TradeStatus, respondedAt time.Time) error

	// CountPendingByInitiator counts unexpired open offers created by a user
	CountPendingByInitiator(ctx context.Context, userID int64, now time.Time) (int, error)

	// List returns offers matching the filter, newest first
	List(ctx context.Context, filter entities.TradeFilter) ([]*entities.TradeOffer, error)

	// ExpirePending marks overdue pending offers EXPIRED and returns them
	ExpirePending(ctx context.Context, now time.Time) ([]*entities.TradeOffer, error)
}

package entities

import (
	"errors"
	"time"
)

// ReferenceType represents what kind of entity reference_id points at
type ReferenceType string

const (
	ReferenceTypeGameSession ReferenceType = "game_session"
	ReferenceTypeGameBet     ReferenceType = "game_bet"
	ReferenceTypeTradeOffer  ReferenceType = "trade_offer"
	ReferenceTypeInventory   ReferenceType = "inventory"
)

// VirtualTransaction is an immutable ledger entry
type VirtualTransaction struct {
	ID              int64           `db:"id"`
	WalletID        int64           `db:"wallet_id"`
	UserID          int64           `db:"user_id"`
	TransactionType TransactionType `db:"transaction_type"`
	CurrencyType    CurrencyType    `db:"currency_type"`
	Amount          int64           `db:"amount"`
	Source          Source          `db:"source"`
	Description     string          `db:"description"`
	ReferenceID     *string         `db:"reference_id"`
	ReferenceType   *ReferenceType  `db:"reference_type"`
	BalanceBefore   int64           `db:"balance_before"`
	BalanceAfter    int64           `db:"balance_after"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsEarn returns true for credits
func (t *VirtualTransaction) IsEarn() bool {
	return t.TransactionType == TransactionTypeEarn
}

// IsSpend returns true for debits
func (t *VirtualTransaction) IsSpend() bool {
	return t.TransactionType == TransactionTypeSpend
}

// ValidateTransaction checks the entry is internally consistent
func (t *VirtualTransaction) ValidateTransaction() error {
	if t.Amount == 0 {
		return errors.New("amount cannot be zero")
	}
	if t.BalanceAfter != t.BalanceBefore+t.Amount {
		return errors.New("balance calculation is inconsistent")
	}
	if t.IsEarn() && t.Amount < 0 {
		return errors.New("earn transaction with negative amount")
	}
	if t.IsSpend() && t.Amount > 0 {
		return errors.New("spend transaction with positive amount")
	}
	if t.BalanceAfter < 0 {
		return errors.New("balance after cannot be negative")
	}
	return nil
}

// TransactionFilter narrows ledger history queries
type TransactionFilter struct {
	UserID       int64
	CurrencyType *CurrencyType
	Source       *Source
	Since        *time.Time
	Until        *time.Time
	Limit        int
	Offset       int
}

package entities

import "fmt"

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeEarn  TransactionType = "EARN"
	TransactionTypeSpend TransactionType = "SPEND"
)

// ParseTransactionType validates a transaction type read from storage
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeEarn, TransactionTypeSpend:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// TransactionTypeFor returns EARN for credits and SPEND for debits
func TransactionTypeFor(amount int64) TransactionType {
	if amount < 0 {
		return TransactionTypeSpend
	}
	return TransactionTypeEarn
}

// Source records which subsystem moved the currency. Collaborators outside the
// roulette core (lessons, simulations) pass their own source strings.
type Source string

const (
	SourceWalletCreated Source = "WALLET_CREATED"
	SourceRouletteBet   Source = "ROULETTE_BET"
	SourceRouletteWin   Source = "ROULETTE_WIN"
	SourceParticipation Source = "ROULETTE_PARTICIPATION"
	SourceLevelUp       Source = "LEVEL_UP"
	SourceDailyReward   Source = "DAILY_REWARD"
	SourceItemSale      Source = "ITEM_SALE"
	SourceTrade         Source = "TRADE"
	SourceTradeFee      Source = "TRADE_FEE"
	SourceLesson        Source = "LESSON"
	SourceSimulation    Source = "SIMULATION"
	SourceAdminAdjust   Source = "ADMIN_ADJUSTMENT"
)

// IsRoulette returns true if the entry came from the roulette engine
func (s Source) IsRoulette() bool {
	return s == SourceRouletteBet || s == SourceRouletteWin || s == SourceParticipation
}

// IsSystemGenerated returns true for entries the platform grants on its own
func (s Source) IsSystemGenerated() bool {
	return s == SourceWalletCreated || s == SourceLevelUp || s == SourceDailyReward
}

// String returns the string representation of the source
func (s Source) String() string {
	return string(s)
}

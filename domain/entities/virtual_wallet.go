package entities

import (
	"fmt"
	"time"
)

// CurrencyType names a balance held in a virtual wallet
type CurrencyType string

const (
	CurrencyGemCoins         CurrencyType = "GEM_COINS"
	CurrencyExperiencePoints CurrencyType = "EXPERIENCE_POINTS"
	CurrencyPremiumTokens    CurrencyType = "PREMIUM_TOKENS"
)

// AllCurrencyTypes lists every currency a wallet holds
var AllCurrencyTypes = []CurrencyType{CurrencyGemCoins, CurrencyExperiencePoints, CurrencyPremiumTokens}

// ParseCurrencyType validates a currency type at the boundary
func ParseCurrencyType(s string) (CurrencyType, error) {
	for _, c := range AllCurrencyTypes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown currency type %q", s)
}

// VirtualWallet holds a user's balances and progression
type VirtualWallet struct {
	ID               int64      `db:"id"`
	UserID           int64      `db:"user_id"`
	GemCoins         int64      `db:"gem_coins"`
	ExperiencePoints int64      `db:"experience_points"`
	PremiumTokens    int64      `db:"premium_tokens"`
	Level            int        `db:"level"`
	TotalXPEarned    int64      `db:"total_xp_earned"`
	TotalGemsEarned  int64      `db:"total_gems_earned"`
	TotalGemsSpent   int64      `db:"total_gems_spent"`
	GamesPlayed      int64      `db:"games_played"`
	GamesWon         int64      `db:"games_won"`
	LoginStreak      int        `db:"login_streak"`
	LastDailyClaimAt *time.Time `db:"last_daily_claim_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// Balance returns the current balance for a currency
func (w *VirtualWallet) Balance(currency CurrencyType) int64 {
	switch currency {
	case CurrencyGemCoins:
		return w.GemCoins
	case CurrencyExperiencePoints:
		return w.ExperiencePoints
	case CurrencyPremiumTokens:
		return w.PremiumTokens
	}
	return 0
}

// ApplyChange mutates the balance and audit counters for a signed amount.
// It refuses to take any balance below zero.
func (w *VirtualWallet) ApplyChange(currency CurrencyType, amount int64) error {
	before := w.Balance(currency)
	after := before + amount
	if after < 0 {
		return fmt.Errorf("%s balance would become negative: have %d, change %d", currency, before, amount)
	}

	switch currency {
	case CurrencyGemCoins:
		w.GemCoins = after
		if amount > 0 {
			w.TotalGemsEarned += amount
		} else {
			w.TotalGemsSpent += -amount
		}
	case CurrencyExperiencePoints:
		w.ExperiencePoints = after
		if amount > 0 {
			w.TotalXPEarned += amount
		}
	case CurrencyPremiumTokens:
		w.PremiumTokens = after
	default:
		return fmt.Errorf("unknown currency type %q", currency)
	}
	return nil
}

package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BetType is the kind of wager placed on the wheel
type BetType string

const (
	BetTypeSingleCrypto   BetType = "SINGLE_CRYPTO"
	BetTypeCryptoColor    BetType = "CRYPTO_COLOR"
	BetTypeCryptoCategory BetType = "CRYPTO_CATEGORY"
	BetTypeEvenOdd        BetType = "EVEN_ODD"
	BetTypeHighLow        BetType = "HIGH_LOW"
	BetTypeDozen          BetType = "DOZEN"
	BetTypeColumn         BetType = "COLUMN"
)

// AllBetTypes lists every supported bet type
var AllBetTypes = []BetType{
	BetTypeSingleCrypto,
	BetTypeCryptoColor,
	BetTypeCryptoCategory,
	BetTypeEvenOdd,
	BetTypeHighLow,
	BetTypeDozen,
	BetTypeColumn,
}

// ParseBetType validates a bet type at the boundary
func ParseBetType(s string) (BetType, error) {
	for _, bt := range AllBetTypes {
		if string(bt) == s {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown bet type %q", s)
}

// GameBet is a single wager attached to a session
type GameBet struct {
	ID              int64           `db:"id"`
	GameSessionID   int64           `db:"game_session_id"`
	UserID          int64           `db:"user_id"`
	BetType         BetType         `db:"bet_type"`
	BetValue        string          `db:"bet_value"`
	BetAmount       int64           `db:"bet_amount"`
	PayoutOdds      decimal.Decimal `db:"payout_odds"`
	PotentialPayout int64           `db:"potential_payout"`
	IsWinner        *bool           `db:"is_winner"`
	ActualPayout    int64           `db:"actual_payout"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsSettled returns true once the bet has been evaluated against a spin
func (b *GameBet) IsSettled() bool {
	return b.IsWinner != nil
}

// Settle records the outcome. Winners receive the full potential payout.
func (b *GameBet) Settle(won bool) {
	b.IsWinner = &won
	if won {
		b.ActualPayout = b.PotentialPayout
	} else {
		b.ActualPayout = 0
	}
}

// BetRequest is the caller's input for placing a bet
type BetRequest struct {
	SessionID int64
	UserID    int64
	BetType   BetType
	BetValue  string
	Amount    int64
}

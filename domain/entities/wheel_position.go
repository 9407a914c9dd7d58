package entities

import "github.com/shopspring/decimal"

// WheelPosition describes every bettable attribute of one wheel slot.
// Empty strings mean the attribute does not apply (the green slot).
type WheelPosition struct {
	Number   int
	Crypto   string
	Category string
	Color    string
	Parity   string
	HighLow  string
	Dozen    string
	Column   string
}

// IsHouseSlot returns true for the zero position
func (p WheelPosition) IsHouseSlot() bool {
	return p.Number == 0
}

// SpinResult is everything a settled spin produced
type SpinResult struct {
	Session       *GameSession
	Bets          []*GameBet
	Position      WheelPosition
	TotalBet      int64
	TotalWinnings int64
	Won           bool
	XPEarned      int64
	GemsEarned    int64
	LevelUp       *LevelUpResult
	Drop          *DropResult

	// WinningCryptoPrice is filled in after commit and may stay nil
	WinningCryptoPrice *decimal.Decimal
}

// NetResult is winnings minus stakes
func (r *SpinResult) NetResult() int64 {
	return r.TotalWinnings - r.TotalBet
}

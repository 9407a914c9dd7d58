package services

import (
	"fmt"
	"strings"

	"gemwheel/domain/common"
	"gemwheel/domain/entities"

	"github.com/shopspring/decimal"
)

const (
	ColorRed   = "red"
	ColorBlack = "black"
	ColorGreen = "green"

	houseCrypto   = "USDT"
	houseCategory = "stablecoin"
)

// Categories in wheel order; position n uses index (n-1)%6
var wheelCategories = []string{"layer1", "defi", "meme", "layer2", "exchange", "privacy"}

var categoryCryptos = map[string][]string{
	"layer1":   {"BTC", "ETH", "SOL", "ADA", "AVAX", "DOT"},
	"defi":     {"UNI", "AAVE", "LINK", "MKR", "CRV", "COMP"},
	"meme":     {"DOGE", "SHIB", "PEPE", "FLOKI", "BONK", "WIF"},
	"layer2":   {"MATIC", "ARB", "OP", "IMX", "STRK", "MNT"},
	"exchange": {"BNB", "OKB", "CRO", "LEO", "KCS", "GT"},
	"privacy":  {"XMR", "ZEC", "DASH", "SCRT", "ROSE", "DCR"},
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

var (
	oddsEvenMoney = decimal.NewFromInt(2)
	oddsDozen     = decimal.NewFromInt(3)
	oddsCategory  = decimal.NewFromInt(6)
	oddsStraight  = decimal.NewFromInt(36)
)

// wheel is built once; positions are immutable
var wheel = buildWheel()

func buildWheel() [WheelSize]entities.WheelPosition {
	var positions [WheelSize]entities.WheelPosition
	positions[0] = entities.WheelPosition{
		Number:   0,
		Crypto:   houseCrypto,
		Category: houseCategory,
		Color:    ColorGreen,
	}

	for n := 1; n < WheelSize; n++ {
		category := wheelCategories[(n-1)%len(wheelCategories)]
		p := entities.WheelPosition{
			Number:   n,
			Crypto:   categoryCryptos[category][(n-1)/len(wheelCategories)],
			Category: category,
			Color:    ColorBlack,
			Parity:   "odd",
			HighLow:  "low",
		}
		if redNumbers[n] {
			p.Color = ColorRed
		}
		if n%2 == 0 {
			p.Parity = "even"
		}
		if n > 18 {
			p.HighLow = "high"
		}
		switch {
		case n <= 12:
			p.Dozen = "first"
		case n <= 24:
			p.Dozen = "second"
		default:
			p.Dozen = "third"
		}
		switch n % 3 {
		case 1:
			p.Column = "1"
		case 2:
			p.Column = "2"
		default:
			p.Column = "3"
		}
		positions[n] = p
	}
	return positions
}

// PositionAt returns the wheel slot for a winning number
func PositionAt(number int) (entities.WheelPosition, error) {
	if number < 0 || number >= WheelSize {
		return entities.WheelPosition{}, fmt.Errorf("wheel position %d out of range", number)
	}
	return wheel[number], nil
}

// WheelPositions returns a copy of the full wheel
func WheelPositions() []entities.WheelPosition {
	out := make([]entities.WheelPosition, WheelSize)
	copy(out, wheel[:])
	return out
}

// IsWheelCrypto reports whether symbol sits on the wheel
func IsWheelCrypto(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	for _, p := range wheel {
		if p.Crypto == symbol {
			return true
		}
	}
	return false
}

// ResolveBet normalizes a bet value and returns its odds (total return, stake included).
// Values that are not legal for the bet type are validation errors.
func ResolveBet(betType entities.BetType, betValue string) (string, decimal.Decimal, error) {
	value := strings.ToLower(strings.TrimSpace(betValue))

	switch betType {
	case entities.BetTypeSingleCrypto:
		symbol := strings.ToUpper(value)
		if !IsWheelCrypto(symbol) {
			return "", decimal.Zero, invalidBetValue(betType, betValue)
		}
		return symbol, oddsStraight, nil

	case entities.BetTypeCryptoColor:
		switch value {
		case ColorRed, ColorBlack:
			return value, oddsEvenMoney, nil
		case ColorGreen:
			return value, oddsStraight, nil
		}

	case entities.BetTypeCryptoCategory:
		if value == houseCategory {
			return value, oddsStraight, nil
		}
		if _, ok := categoryCryptos[value]; ok {
			return value, oddsCategory, nil
		}

	case entities.BetTypeEvenOdd:
		if value == "even" || value == "odd" {
			return value, oddsEvenMoney, nil
		}

	case entities.BetTypeHighLow:
		if value == "high" || value == "low" {
			return value, oddsEvenMoney, nil
		}

	case entities.BetTypeDozen:
		if value == "first" || value == "second" || value == "third" {
			return value, oddsDozen, nil
		}

	case entities.BetTypeColumn:
		if value == "1" || value == "2" || value == "3" {
			return value, oddsDozen, nil
		}

	default:
		return "", decimal.Zero, common.NewValidationError(fmt.Sprintf("unknown bet type %q", betType))
	}

	return "", decimal.Zero, invalidBetValue(betType, betValue)
}

func invalidBetValue(betType entities.BetType, betValue string) error {
	return common.NewValidationError(fmt.Sprintf("%q is not a valid value for %s bets", betValue, betType))
}

// PotentialPayout is floor(amount × odds)
func PotentialPayout(amount int64, odds decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(odds).Floor().IntPart()
}

// BetWins evaluates a normalized bet against the winning slot.
// Attributes the slot does not have never match.
func BetWins(betType entities.BetType, betValue string, p entities.WheelPosition) bool {
	var attr string
	switch betType {
	case entities.BetTypeSingleCrypto:
		return strings.EqualFold(p.Crypto, betValue)
	case entities.BetTypeCryptoColor:
		attr = p.Color
	case entities.BetTypeCryptoCategory:
		attr = p.Category
	case entities.BetTypeEvenOdd:
		attr = p.Parity
	case entities.BetTypeHighLow:
		attr = p.HighLow
	case entities.BetTypeDozen:
		attr = p.Dozen
	case entities.BetTypeColumn:
		attr = p.Column
	}
	return attr != "" && attr == betValue
}

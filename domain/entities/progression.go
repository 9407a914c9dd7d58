package entities

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// LevelUpResult is returned when a level check advanced the wallet
type LevelUpResult struct {
	UserID   int64
	OldLevel int
	NewLevel int
	GemBonus int64
}

// DailyRewardResult is returned by a successful daily claim
type DailyRewardResult struct {
	UserID     int64
	Streak     int
	Multiplier decimal.Decimal
	Reward     int64
	NewBalance int64
}

// DropResult describes an item granted by a drop roll
type DropResult struct {
	Item      *CollectibleItem
	Inventory *UserInventory
	Rarity    Rarity
	Forced    bool
}

// DropOptions tunes a single drop roll
type DropOptions struct {
	// Boost multiplies the base drop probability
	Boost decimal.Decimal
	// MinRarity restricts selection to this tier or rarer
	MinRarity *Rarity
	// Guaranteed skips the probability gate
	Guaranteed bool
}

// EffectModifiers aggregates a user's active effects for one scope
type EffectModifiers struct {
	XPMultiplier       decimal.Decimal
	GemMultiplier      decimal.Decimal
	DropRateMultiplier decimal.Decimal

	// GuaranteedRare is the strongest guaranteed-rare effect, nil if none
	GuaranteedRare *ActiveEffect

	// Applied lists the use-limited multiplier effects that contributed
	Applied []*ActiveEffect
}

// NeutralModifiers returns modifiers that change nothing
func NeutralModifiers() *EffectModifiers {
	return &EffectModifiers{
		XPMultiplier:       decimal.NewFromInt(1),
		GemMultiplier:      decimal.NewFromInt(1),
		DropRateMultiplier: decimal.NewFromInt(1),
	}
}

// CurrencyChange carries optional ledger entry details
type CurrencyChange struct {
	ReferenceID   *string
	ReferenceType *ReferenceType
	Metadata      map[string]any
}

// EntryOption sets optional details on a ledger entry
type EntryOption func(*CurrencyChange)

// WithReference links the entry to the entity that caused it
func WithReference(refType ReferenceType, id int64) EntryOption {
	return func(c *CurrencyChange) {
		refID := strconv.FormatInt(id, 10)
		c.ReferenceID = &refID
		c.ReferenceType = &refType
	}
}

// WithMetadata attaches free-form context to the entry
func WithMetadata(metadata map[string]any) EntryOption {
	return func(c *CurrencyChange) {
		c.Metadata = metadata
	}
}

// BuildCurrencyChange applies options in order
func BuildCurrencyChange(opts ...EntryOption) CurrencyChange {
	var change CurrencyChange
	for _, opt := range opts {
		opt(&change)
	}
	return change
}

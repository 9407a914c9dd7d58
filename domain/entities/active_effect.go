package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EffectType is the kind of buff a consumable grants
type EffectType string

const (
	EffectTypeDropRate       EffectType = "DROP_RATE"
	EffectTypeXPMultiplier   EffectType = "XP_MULTIPLIER"
	EffectTypeGemMultiplier  EffectType = "GEM_MULTIPLIER"
	EffectTypeGuaranteedRare EffectType = "GUARANTEED_RARE"
)

// ParseEffectType validates an effect type at the boundary
func ParseEffectType(s string) (EffectType, error) {
	switch EffectType(s) {
	case EffectTypeDropRate, EffectTypeXPMultiplier, EffectTypeGemMultiplier, EffectTypeGuaranteedRare:
		return EffectType(s), nil
	}
	return "", fmt.Errorf("unknown effect type %q", s)
}

// EffectScope is the activity domain an effect applies to
type EffectScope string

const (
	EffectScopeTrading EffectScope = "TRADING"
	EffectScopeGaming  EffectScope = "GAMING"
	EffectScopeGlobal  EffectScope = "GLOBAL"
)

// ParseEffectScope validates an effect scope at the boundary
func ParseEffectScope(s string) (EffectScope, error) {
	switch EffectScope(s) {
	case EffectScopeTrading, EffectScopeGaming, EffectScopeGlobal:
		return EffectScope(s), nil
	}
	return "", fmt.Errorf("unknown effect scope %q", s)
}

// ActiveEffect is a time-boxed or use-limited buff
type ActiveEffect struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	SourceItemID  *int64          `db:"source_item_id"`
	EffectType    EffectType      `db:"effect_type"`
	Scope         EffectScope     `db:"scope"`
	Multiplier    decimal.Decimal `db:"multiplier"`
	MinRarity     *Rarity         `db:"min_rarity"`
	RemainingUses *int            `db:"remaining_uses"`
	ExpiresAt     *time.Time      `db:"expires_at"`
	CreatedAt     time.Time       `db:"created_at"`
}

// IsExpired reports whether the effect's time box has passed
func (e *ActiveEffect) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}

// IsUseLimited returns true when the effect is consumed per use
func (e *ActiveEffect) IsUseLimited() bool {
	return e.RemainingUses != nil
}

// AppliesTo reports whether the effect covers the requested scope
func (e *ActiveEffect) AppliesTo(scope EffectScope) bool {
	return e.Scope == scope || e.Scope == EffectScopeGlobal
}

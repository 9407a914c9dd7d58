package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Rarity is an ordered item tier
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// RaritiesAscending lists rarities from most to least common
var RaritiesAscending = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Rank returns the position of the rarity in ascending order, -1 if unknown
func (r Rarity) Rank() int {
	for i, candidate := range RaritiesAscending {
		if candidate == r {
			return i
		}
	}
	return -1
}

// AtLeast reports whether r is the same tier as min or rarer
func (r Rarity) AtLeast(min Rarity) bool {
	return r.Rank() >= min.Rank()
}

// ParseRarity validates a rarity at the boundary
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(s)
	if r.Rank() < 0 {
		return "", fmt.Errorf("unknown rarity %q", s)
	}
	return r, nil
}

// ItemType classifies catalog items
type ItemType string

const (
	ItemTypeCosmetic    ItemType = "COSMETIC"
	ItemTypeBadge       ItemType = "BADGE"
	ItemTypeCollectible ItemType = "COLLECTIBLE"
	ItemTypeConsumable  ItemType = "CONSUMABLE"
)

// ParseItemType validates an item type at the boundary
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemTypeCosmetic, ItemTypeBadge, ItemTypeCollectible, ItemTypeConsumable:
		return ItemType(s), nil
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// IsEquippable returns true for items that can be worn
func (t ItemType) IsEquippable() bool {
	return t == ItemTypeCosmetic || t == ItemTypeBadge
}

// CollectibleItem is a catalog entry
type CollectibleItem struct {
	ID          int64    `db:"id"`
	Slug        string   `db:"slug"`
	Name        string   `db:"name"`
	Description string   `db:"description"`
	ItemType    ItemType `db:"item_type"`
	Rarity      Rarity   `db:"rarity"`
	SellValue   int64    `db:"sell_value"`
	IsTradeable bool     `db:"is_tradeable"`
	IsActive    bool     `db:"is_active"`

	// Consumable effect definition, nil for non-consumables
	EffectType            *EffectType      `db:"effect_type"`
	EffectScope           *EffectScope     `db:"effect_scope"`
	EffectMultiplier      *decimal.Decimal `db:"effect_multiplier"`
	EffectMinRarity       *Rarity          `db:"effect_min_rarity"`
	EffectDurationMinutes *int             `db:"effect_duration_minutes"`
	EffectUses            *int             `db:"effect_uses"`

	CreatedAt time.Time `db:"created_at"`
}

// IsConsumable returns true when the item grants an effect on use
func (i *CollectibleItem) IsConsumable() bool {
	return i.ItemType == ItemTypeConsumable && i.EffectType != nil
}

package entities

import "time"

// UserInventory is a stack of one catalog item held by a user
type UserInventory struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	ItemID     int64     `db:"item_id"`
	Quantity   int       `db:"quantity"`
	IsEquipped bool      `db:"is_equipped"`
	IsFavorite bool      `db:"is_favorite"`
	AcquiredAt time.Time `db:"acquired_at"`
	UpdatedAt  time.Time `db:"updated_at"`

	// Item is populated by listing queries
	Item *CollectibleItem `db:"-"`
}

// HasAtLeast reports whether the stack covers the quantity
func (u *UserInventory) HasAtLeast(quantity int) bool {
	return u.Quantity >= quantity
}

// InventoryFilter narrows inventory listings
type InventoryFilter struct {
	UserID       int64
	Rarity       *Rarity
	ItemType     *ItemType
	FavoriteOnly bool
	EquippedOnly bool
	Limit        int
	Offset       int
}

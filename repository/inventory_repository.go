package repository

import (
	"context"
	"errors"
	"fmt"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const inventoryColumns = `id, user_id, item_id, quantity, is_equipped, is_favorite, acquired_at, updated_at`

// inventoryRepository implements the InventoryRepository interface
type inventoryRepository struct {
	q Queryable
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) interfaces.InventoryRepository {
	return &inventoryRepository{q: db.Pool}
}

func newInventoryRepositoryWithTx(tx Queryable) interfaces.InventoryRepository {
	return &inventoryRepository{q: tx}
}

func inventoryScanTargets(inv *entities.UserInventory) []any {
	return []any{
		&inv.ID,
		&inv.UserID,
		&inv.ItemID,
		&inv.Quantity,
		&inv.IsEquipped,
		&inv.IsFavorite,
		&inv.AcquiredAt,
		&inv.UpdatedAt,
	}
}

func (r *inventoryRepository) getOne(ctx context.Context, query string, args ...any) (*entities.UserInventory, error) {
	var inv entities.UserInventory
	err := r.q.QueryRow(ctx, query, args...).Scan(inventoryScanTargets(&inv)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return &inv, nil
}

// GetByIDForUpdate retrieves and locks a stack
func (r *inventoryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.UserInventory, error) {
	return r.getOne(ctx, `SELECT `+inventoryColumns+` FROM user_inventory WHERE id = $1 FOR UPDATE`, id)
}

// GetByUserAndItemForUpdate retrieves and locks a user's stack of an item
func (r *inventoryRepository) GetByUserAndItemForUpdate(ctx context.Context, userID, itemID int64) (*entities.UserInventory, error) {
	return r.getOne(ctx,
		`SELECT `+inventoryColumns+` FROM user_inventory WHERE user_id = $1 AND item_id = $2 FOR UPDATE`,
		userID, itemID)
}

// AddQuantity merges into the user's stack or opens a new one
func (r *inventoryRepository) AddQuantity(ctx context.Context, userID, itemID int64, quantity int) (*entities.UserInventory, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	query := `
		INSERT INTO user_inventory (user_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			quantity = user_inventory.quantity + EXCLUDED.quantity,
			updated_at = NOW()
		RETURNING ` + inventoryColumns

	var inv entities.UserInventory
	err := r.q.QueryRow(ctx, query, userID, itemID, quantity).Scan(inventoryScanTargets(&inv)...)
	if err != nil {
		return nil, fmt.Errorf("failed to add inventory: %w", err)
	}
	return &inv, nil
}

// RemoveQuantity takes quantity off a stack, deleting the row when it empties
func (r *inventoryRepository) RemoveQuantity(ctx context.Context, inventoryID int64, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	var remaining int
	err := r.q.QueryRow(ctx, `
		UPDATE user_inventory SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity > $2
		RETURNING quantity
	`, inventoryID, quantity).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to decrement inventory: %w", err)
	}

	// The stack holds exactly quantity or less
	tag, err := r.q.Exec(ctx, `DELETE FROM user_inventory WHERE id = $1 AND quantity = $2`, inventoryID, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("inventory %d holds fewer than %d items", inventoryID, quantity)
	}
	return 0, nil
}

// UpdateFlags persists equip and favorite flags
func (r *inventoryRepository) UpdateFlags(ctx context.Context, inv *entities.UserInventory) error {
	err := r.q.QueryRow(ctx, `
		UPDATE user_inventory SET is_equipped = $2, is_favorite = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, inv.ID, inv.IsEquipped, inv.IsFavorite).Scan(&inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("inventory %d not found", inv.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update inventory flags: %w", err)
	}
	return nil
}

// UnequipAllOfType clears the equip flag on a user's stacks of one item type
func (r *inventoryRepository) UnequipAllOfType(ctx context.Context, userID int64, itemType entities.ItemType) error {
	_, err := r.q.Exec(ctx, `
		UPDATE user_inventory ui SET is_equipped = FALSE, updated_at = NOW()
		FROM collectible_items ci
		WHERE ui.item_id = ci.id
		  AND ui.user_id = $1
		  AND ci.item_type = $2
		  AND ui.is_equipped
	`, userID, itemType)
	if err != nil {
		return fmt.Errorf("failed to unequip items: %w", err)
	}
	return nil
}

// List returns a user's holdings joined with their catalog items
func (r *inventoryRepository) List(ctx context.Context, filter entities.InventoryFilter) ([]*entities.UserInventory, error) {
	columns := []string{
		"ui.id", "ui.user_id", "ui.item_id", "ui.quantity", "ui.is_equipped", "ui.is_favorite",
		"ui.acquired_at", "ui.updated_at",
	}
	for _, c := range itemColumns {
		columns = append(columns, "ci."+c)
	}

	builder := psql.Select(columns...).
		From("user_inventory ui").
		Join("collectible_items ci ON ci.id = ui.item_id").
		Where(sq.Eq{"ui.user_id": filter.UserID}).
		OrderBy("ui.is_favorite DESC", "ui.acquired_at DESC", "ui.id DESC")

	if filter.Rarity != nil {
		builder = builder.Where(sq.Eq{"ci.rarity": *filter.Rarity})
	}
	if filter.ItemType != nil {
		builder = builder.Where(sq.Eq{"ci.item_type": *filter.ItemType})
	}
	if filter.FavoriteOnly {
		builder = builder.Where("ui.is_favorite")
	}
	if filter.EquippedOnly {
		builder = builder.Where("ui.is_equipped")
	}
	builder = paginate(builder, filter.Limit, filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var holdings []*entities.UserInventory
	for rows.Next() {
		var inv entities.UserInventory
		var item entities.CollectibleItem
		targets := append(inventoryScanTargets(&inv), itemScanTargets(&item)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		inv.Item = &item
		holdings = append(holdings, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}
	return holdings, nil
}

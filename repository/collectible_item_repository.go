package repository

import (
	"context"
	"errors"
	"fmt"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

var itemColumns = []string{
	"id", "slug", "name", "description", "item_type", "rarity", "sell_value", "is_tradeable", "is_active",
	"effect_type", "effect_scope", "effect_multiplier", "effect_min_rarity",
	"effect_duration_minutes", "effect_uses", "created_at",
}

// collectibleItemRepository implements the CollectibleItemRepository interface
type collectibleItemRepository struct {
	q Queryable
}

// NewCollectibleItemRepository creates a new catalog repository
func NewCollectibleItemRepository(db *database.DB) interfaces.CollectibleItemRepository {
	return &collectibleItemRepository{q: db.Pool}
}

func newCollectibleItemRepositoryWithTx(tx Queryable) interfaces.CollectibleItemRepository {
	return &collectibleItemRepository{q: tx}
}

// itemScanTargets returns scan destinations in itemColumns order
func itemScanTargets(item *entities.CollectibleItem) []any {
	return []any{
		&item.ID,
		&item.Slug,
		&item.Name,
		&item.Description,
		&item.ItemType,
		&item.Rarity,
		&item.SellValue,
		&item.IsTradeable,
		&item.IsActive,
		&item.EffectType,
		&item.EffectScope,
		&item.EffectMultiplier,
		&item.EffectMinRarity,
		&item.EffectDurationMinutes,
		&item.EffectUses,
		&item.CreatedAt,
	}
}

// GetByID retrieves a catalog item by ID
func (r *collectibleItemRepository) GetByID(ctx context.Context, id int64) (*entities.CollectibleItem, error) {
	query, args, err := psql.Select(itemColumns...).
		From("collectible_items").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	var item entities.CollectibleItem
	err = r.q.QueryRow(ctx, query, args...).Scan(itemScanTargets(&item)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collectible item: %w", err)
	}
	return &item, nil
}

// ListActiveByRarity returns the droppable items of a rarity tier
func (r *collectibleItemRepository) ListActiveByRarity(ctx context.Context, rarity entities.Rarity) ([]*entities.CollectibleItem, error) {
	query, args, err := psql.Select(itemColumns...).
		From("collectible_items").
		Where("rarity = ? AND is_active", rarity).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collectible items: %w", err)
	}
	defer rows.Close()

	var items []*entities.CollectibleItem
	for rows.Next() {
		var item entities.CollectibleItem
		if err := rows.Scan(itemScanTargets(&item)...); err != nil {
			return nil, fmt.Errorf("failed to scan collectible item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collectible items: %w", err)
	}
	return items, nil
}

// Create inserts a catalog item
func (r *collectibleItemRepository) Create(ctx context.Context, item *entities.CollectibleItem) error {
	query := `
		INSERT INTO collectible_items (slug, name, description, item_type, rarity, sell_value, is_tradeable, is_active,
			effect_type, effect_scope, effect_multiplier, effect_min_rarity, effect_duration_minutes, effect_uses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		item.Slug,
		item.Name,
		item.Description,
		item.ItemType,
		item.Rarity,
		item.SellValue,
		item.IsTradeable,
		item.IsActive,
		item.EffectType,
		item.EffectScope,
		item.EffectMultiplier,
		item.EffectMinRarity,
		item.EffectDurationMinutes,
		item.EffectUses,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create collectible item: %w", err)
	}
	return nil
}

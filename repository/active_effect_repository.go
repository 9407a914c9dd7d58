package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// activeEffectRepository implements the ActiveEffectRepository interface
type activeEffectRepository struct {
	q Queryable
}

// NewActiveEffectRepository creates a new effect repository
func NewActiveEffectRepository(db *database.DB) interfaces.ActiveEffectRepository {
	return &activeEffectRepository{q: db.Pool}
}

func newActiveEffectRepositoryWithTx(tx Queryable) interfaces.ActiveEffectRepository {
	return &activeEffectRepository{q: tx}
}

// Create inserts an effect
func (r *activeEffectRepository) Create(ctx context.Context, effect *entities.ActiveEffect) error {
	query := `
		INSERT INTO active_effects (user_id, source_item_id, effect_type, scope, multiplier, min_rarity, remaining_uses, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		effect.UserID,
		effect.SourceItemID,
		effect.EffectType,
		effect.Scope,
		effect.Multiplier,
		effect.MinRarity,
		effect.RemainingUses,
		effect.ExpiresAt,
	).Scan(&effect.ID, &effect.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create active effect: %w", err)
	}
	return nil
}

// GetActive returns usable effects for the scope and for GLOBAL, oldest first
func (r *activeEffectRepository) GetActive(ctx context.Context, userID int64, scope entities.EffectScope, now time.Time) ([]*entities.ActiveEffect, error) {
	query := `
		SELECT id, user_id, source_item_id, effect_type, scope, multiplier, min_rarity,
			remaining_uses, expires_at, created_at
		FROM active_effects
		WHERE user_id = $1
		  AND (scope = $2 OR scope = $3)
		  AND (expires_at IS NULL OR expires_at > $4)
		  AND (remaining_uses IS NULL OR remaining_uses > 0)
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, userID, scope, entities.EffectScopeGlobal, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active effects: %w", err)
	}
	defer rows.Close()

	var effects []*entities.ActiveEffect
	for rows.Next() {
		var e entities.ActiveEffect
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.SourceItemID,
			&e.EffectType,
			&e.Scope,
			&e.Multiplier,
			&e.MinRarity,
			&e.RemainingUses,
			&e.ExpiresAt,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active effect: %w", err)
		}
		effects = append(effects, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active effects: %w", err)
	}
	return effects, nil
}

// DecrementUses consumes one use of a counted effect
func (r *activeEffectRepository) DecrementUses(ctx context.Context, id int64) (int, error) {
	var remaining int
	err := r.q.QueryRow(ctx, `
		UPDATE active_effects SET remaining_uses = remaining_uses - 1
		WHERE id = $1 AND remaining_uses > 0
		RETURNING remaining_uses
	`, id).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("effect %d has no uses left", id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement effect uses: %w", err)
	}
	return remaining, nil
}

// Delete removes an effect
func (r *activeEffectRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM active_effects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete active effect: %w", err)
	}
	return nil
}

// DeleteExpiredBefore purges effects that lapsed before cutoff or are used up
func (r *activeEffectRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM active_effects
		WHERE (expires_at IS NOT NULL AND expires_at < $1)
		   OR remaining_uses = 0
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired effects: %w", err)
	}
	return tag.RowsAffected(), nil
}

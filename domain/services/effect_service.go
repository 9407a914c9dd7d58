package services

import (
	"context"
	"fmt"
	"time"

	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type effectService struct {
	effectRepo interfaces.ActiveEffectRepository
}

// NewEffectService creates a new effect service
func NewEffectService(effectRepo interfaces.ActiveEffectRepository) interfaces.EffectService {
	return &effectService{effectRepo: effectRepo}
}

// ActiveModifiers multiplies together every live effect of each type.
// Expired rows are filtered here as well as in the query.
func (s *effectService) ActiveModifiers(ctx context.Context, userID int64, scope entities.EffectScope, now time.Time) (*entities.EffectModifiers, error) {
	effects, err := s.effectRepo.GetActive(ctx, userID, scope, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active effects: %w", err)
	}

	mods := entities.NeutralModifiers()
	for _, e := range effects {
		if e.IsExpired(now) || !e.AppliesTo(scope) {
			continue
		}
		if e.IsUseLimited() && *e.RemainingUses <= 0 {
			continue
		}

		switch e.EffectType {
		case entities.EffectTypeXPMultiplier:
			mods.XPMultiplier = mods.XPMultiplier.Mul(e.Multiplier)
		case entities.EffectTypeGemMultiplier:
			mods.GemMultiplier = mods.GemMultiplier.Mul(e.Multiplier)
		case entities.EffectTypeDropRate:
			mods.DropRateMultiplier = mods.DropRateMultiplier.Mul(e.Multiplier)
		case entities.EffectTypeGuaranteedRare:
			if strongerGuarantee(e, mods.GuaranteedRare) {
				mods.GuaranteedRare = e
			}
			continue
		}
		if e.IsUseLimited() {
			mods.Applied = append(mods.Applied, e)
		}
	}
	return mods, nil
}

// strongerGuarantee prefers the higher minimum rarity, then the older effect
func strongerGuarantee(candidate, current *entities.ActiveEffect) bool {
	if current == nil {
		return true
	}
	cr, cur := entities.RarityCommon, entities.RarityCommon
	if candidate.MinRarity != nil {
		cr = *candidate.MinRarity
	}
	if current.MinRarity != nil {
		cur = *current.MinRarity
	}
	if cr.Rank() != cur.Rank() {
		return cr.Rank() > cur.Rank()
	}
	return candidate.ID < current.ID
}

// ConsumeUse decrements a use-limited effect and deletes it once exhausted.
// Time-boxed effects are left untouched.
func (s *effectService) ConsumeUse(ctx context.Context, effect *entities.ActiveEffect) error {
	if !effect.IsUseLimited() {
		return nil
	}

	remaining, err := s.effectRepo.DecrementUses(ctx, effect.ID)
	if err != nil {
		return fmt.Errorf("failed to consume effect use: %w", err)
	}
	effect.RemainingUses = &remaining

	if remaining <= 0 {
		if err := s.effectRepo.Delete(ctx, effect.ID); err != nil {
			return fmt.Errorf("failed to delete exhausted effect: %w", err)
		}
		log.WithFields(log.Fields{
			"userID":     effect.UserID,
			"effectID":   effect.ID,
			"effectType": effect.EffectType,
		}).Debug("Effect exhausted")
	}
	return nil
}

// Activate turns a consumable's effect definition into a live effect
func (s *effectService) Activate(ctx context.Context, userID int64, item *entities.CollectibleItem, now time.Time) (*entities.ActiveEffect, error) {
	if !item.IsConsumable() {
		return nil, common.NewValidationError(fmt.Sprintf("%s cannot be used", item.Name))
	}

	scope := entities.EffectScopeGlobal
	if item.EffectScope != nil {
		scope = *item.EffectScope
	}
	multiplier := decimal.NewFromInt(1)
	if item.EffectMultiplier != nil {
		multiplier = *item.EffectMultiplier
	}

	itemID := item.ID
	effect := &entities.ActiveEffect{
		UserID:       userID,
		SourceItemID: &itemID,
		EffectType:   *item.EffectType,
		Scope:        scope,
		Multiplier:   multiplier,
		MinRarity:    item.EffectMinRarity,
		CreatedAt:    now,
	}
	if item.EffectDurationMinutes != nil {
		expires := now.Add(time.Duration(*item.EffectDurationMinutes) * time.Minute)
		effect.ExpiresAt = &expires
	}
	if item.EffectUses != nil {
		uses := *item.EffectUses
		effect.RemainingUses = &uses
	}
	if effect.ExpiresAt == nil && effect.RemainingUses == nil {
		return nil, common.NewValidationError(fmt.Sprintf("%s has no duration or use limit", item.Name))
	}

	if err := s.effectRepo.Create(ctx, effect); err != nil {
		return nil, fmt.Errorf("failed to create effect: %w", err)
	}
	return effect, nil
}

func (s *effectService) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.effectRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired effects: %w", err)
	}
	return n, nil
}

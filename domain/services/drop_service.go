package services

import (
	"context"
	"fmt"

	"gemwheel/config"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
	"gemwheel/events"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// probabilityScale converts probabilities to integer draws (six decimal places)
const probabilityScale = 1_000_000

type dropService struct {
	itemRepo       interfaces.CollectibleItemRepository
	inventoryRepo  interfaces.InventoryRepository
	eventPublisher interfaces.EventPublisher
	rng            interfaces.RandomSource
	economy        *config.Economy
}

// NewDropService creates a new drop service
func NewDropService(itemRepo interfaces.CollectibleItemRepository, inventoryRepo interfaces.InventoryRepository, eventPublisher interfaces.EventPublisher, rng interfaces.RandomSource, economy *config.Economy) interfaces.DropService {
	return &dropService{
		itemRepo:       itemRepo,
		inventoryRepo:  inventoryRepo,
		eventPublisher: eventPublisher,
		rng:            rng,
		economy:        economy,
	}
}

// DropProbability is base × boost, capped at 1
func DropProbability(base float64, boost decimal.Decimal) decimal.Decimal {
	if boost.IsZero() {
		boost = decimal.NewFromInt(1)
	}
	p := decimal.NewFromFloat(base).Mul(boost)
	return decimal.Min(p, decimal.NewFromInt(1))
}

// RollChance returns true with the given probability
func RollChance(rng interfaces.RandomSource, probability decimal.Decimal) (bool, error) {
	threshold := probability.Mul(decimal.NewFromInt(probabilityScale)).Floor().IntPart()
	if threshold <= 0 {
		return false, nil
	}
	if threshold >= probabilityScale {
		return true, nil
	}
	draw, err := rng.Int63n(probabilityScale)
	if err != nil {
		return false, fmt.Errorf("failed to draw random number: %w", err)
	}
	return draw < threshold, nil
}

// SelectRarity picks a rarity by weight, restricted to minRarity or rarer.
// Eligible weights are renormalized by drawing over their sum. Rarities are
// laid out in ascending order and a draw equal to a cumulative boundary
// belongs to the next (rarer) tier.
func SelectRarity(rng interfaces.RandomSource, weights map[string]float64, minRarity *entities.Rarity) (entities.Rarity, error) {
	type band struct {
		rarity entities.Rarity
		upper  int64
	}

	var bands []band
	var total int64
	for _, r := range entities.RaritiesAscending {
		if minRarity != nil && !r.AtLeast(*minRarity) {
			continue
		}
		w := decimal.NewFromFloat(weights[string(r)]).Mul(decimal.NewFromInt(probabilityScale)).Round(0).IntPart()
		if w <= 0 {
			continue
		}
		total += w
		bands = append(bands, band{rarity: r, upper: total})
	}
	if total == 0 {
		return "", fmt.Errorf("no eligible rarity has a positive weight")
	}

	draw, err := rng.Int63n(total)
	if err != nil {
		return "", fmt.Errorf("failed to draw random number: %w", err)
	}
	for _, b := range bands {
		if draw < b.upper {
			return b.rarity, nil
		}
	}
	return bands[len(bands)-1].rarity, nil
}

func (s *dropService) RollDrop(ctx context.Context, userID int64, opts entities.DropOptions) (*entities.DropResult, error) {
	if !opts.Guaranteed {
		hit, err := RollChance(s.rng, DropProbability(s.economy.Drops.BaseProbability, opts.Boost))
		if err != nil {
			return nil, err
		}
		if !hit {
			return nil, nil
		}
	}

	rarity, err := SelectRarity(s.rng, s.economy.Drops.RarityWeights, opts.MinRarity)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListActiveByRarity(ctx, rarity)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	if len(items) == 0 {
		log.WithFields(log.Fields{
			"userID": userID,
			"rarity": rarity,
		}).Debug("No active catalog items for rarity, abandoning drop")
		return nil, nil
	}

	idx, err := s.rng.Int63n(int64(len(items)))
	if err != nil {
		return nil, fmt.Errorf("failed to draw random number: %w", err)
	}
	item := items[idx]

	inv, err := s.inventoryRepo.AddQuantity(ctx, userID, item.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to add dropped item: %w", err)
	}
	inv.Item = item

	log.WithFields(log.Fields{
		"userID": userID,
		"itemID": item.ID,
		"rarity": rarity,
	}).Info("Item dropped")

	if err := s.eventPublisher.Publish(events.ItemDroppedEvent{
		UserID:   userID,
		ItemID:   item.ID,
		ItemName: item.Name,
		Rarity:   rarity,
	}); err != nil {
		log.WithError(err).Error("Failed to publish item dropped event")
	}

	return &entities.DropResult{
		Item:      item,
		Inventory: inv,
		Rarity:    rarity,
		Forced:    opts.Guaranteed,
	}, nil
}

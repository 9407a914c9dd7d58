package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
)

type inventoryService struct {
	inventoryRepo interfaces.InventoryRepository
	itemRepo      interfaces.CollectibleItemRepository
	ledger        interfaces.LedgerService
	effects       interfaces.EffectService
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo interfaces.InventoryRepository, itemRepo interfaces.CollectibleItemRepository, ledger interfaces.LedgerService, effects interfaces.EffectService) interfaces.InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		itemRepo:      itemRepo,
		ledger:        ledger,
		effects:       effects,
	}
}

func (s *inventoryService) ListInventory(ctx context.Context, filter entities.InventoryFilter) ([]*entities.UserInventory, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, common.NewValidationError("limit and offset cannot be negative")
	}
	items, err := s.inventoryRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// lockOwned returns the caller's stack with its catalog item, locked
func (s *inventoryService) lockOwned(ctx context.Context, userID, inventoryID int64) (*entities.UserInventory, error) {
	inv, err := s.inventoryRepo.GetByIDForUpdate(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if inv == nil || inv.UserID != userID {
		return nil, common.NewNotFoundError("inventory item", inventoryID)
	}
	if inv.Item == nil {
		item, err := s.itemRepo.GetByID(ctx, inv.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get catalog item: %w", err)
		}
		if item == nil {
			return nil, common.NewNotFoundError("catalog item", inv.ItemID)
		}
		inv.Item = item
	}
	return inv, nil
}

func (s *inventoryService) ToggleFavorite(ctx context.Context, userID, inventoryID int64) (*entities.UserInventory, error) {
	inv, err := s.lockOwned(ctx, userID, inventoryID)
	if err != nil {
		return nil, err
	}
	inv.IsFavorite = !inv.IsFavorite
	if err := s.inventoryRepo.UpdateFlags(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	return inv, nil
}

// SetEquipped equips or unequips a stack. Only one stack per item type can be
// equipped; equipping clears the others.
func (s *inventoryService) SetEquipped(ctx context.Context, userID, inventoryID int64, equipped bool) (*entities.UserInventory, error) {
	inv, err := s.lockOwned(ctx, userID, inventoryID)
	if err != nil {
		return nil, err
	}
	if equipped && !inv.Item.ItemType.IsEquippable() {
		return nil, common.NewValidationError(fmt.Sprintf("%s cannot be equipped", inv.Item.Name))
	}
	if inv.IsEquipped == equipped {
		return inv, nil
	}

	if equipped {
		if err := s.inventoryRepo.UnequipAllOfType(ctx, userID, inv.Item.ItemType); err != nil {
			return nil, fmt.Errorf("failed to unequip items: %w", err)
		}
	}
	inv.IsEquipped = equipped
	if err := s.inventoryRepo.UpdateFlags(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	return inv, nil
}

func (s *inventoryService) SellItem(ctx context.Context, userID, inventoryID int64, quantity int) (*entities.VirtualTransaction, error) {
	if quantity <= 0 {
		return nil, common.NewValidationError("quantity must be positive")
	}

	inv, err := s.lockOwned(ctx, userID, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv.IsEquipped {
		return nil, common.NewStateConflictError("unequip the item before selling it")
	}
	if !inv.HasAtLeast(quantity) {
		return nil, common.NewValidationError(fmt.Sprintf("you only have %d of %s", inv.Quantity, inv.Item.Name))
	}
	if inv.Item.SellValue <= 0 {
		return nil, common.NewValidationError(fmt.Sprintf("%s has no sell value", inv.Item.Name))
	}

	if _, err := s.inventoryRepo.RemoveQuantity(ctx, inv.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to remove sold items: %w", err)
	}

	proceeds := inv.Item.SellValue * int64(quantity)
	tx, err := s.ledger.AddCurrency(ctx, userID, entities.CurrencyGemCoins, proceeds, entities.SourceItemSale,
		fmt.Sprintf("Sold %d× %s", quantity, inv.Item.Name),
		entities.WithReference(entities.ReferenceTypeInventory, inv.ID),
		entities.WithMetadata(map[string]any{"item_id": inv.ItemID, "quantity": quantity}))
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"itemID":   inv.ItemID,
		"quantity": quantity,
		"proceeds": proceeds,
	}).Info("Item sold")
	return tx, nil
}

func (s *inventoryService) UseConsumable(ctx context.Context, userID, inventoryID int64, now time.Time) (*entities.ActiveEffect, error) {
	inv, err := s.lockOwned(ctx, userID, inventoryID)
	if err != nil {
		return nil, err
	}

	effect, err := s.effects.Activate(ctx, userID, inv.Item, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.RemoveQuantity(ctx, inv.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to consume item: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"itemID":     inv.ItemID,
		"effectType": effect.EffectType,
		"scope":      effect.Scope,
	}).Info("Consumable used")
	return effect, nil
}

// AddCatalogItem validates and stores a catalog entry, deriving its slug
func (s *inventoryService) AddCatalogItem(ctx context.Context, item *entities.CollectibleItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return common.NewValidationError("item name is required")
	}
	if item.Rarity.Rank() < 0 {
		return common.NewValidationError(fmt.Sprintf("unknown rarity %q", item.Rarity))
	}
	if _, err := entities.ParseItemType(string(item.ItemType)); err != nil {
		return common.NewValidationError(err.Error())
	}
	if item.SellValue < 0 {
		return common.NewValidationError("sell value cannot be negative")
	}
	if item.ItemType == entities.ItemTypeConsumable && item.EffectType == nil {
		return common.NewValidationError("consumables need an effect")
	}
	if item.Slug == "" {
		item.Slug = slug.Make(item.Name)
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create catalog item: %w", err)
	}
	return nil
}

package application

import (
	"context"
	"time"

	"gemwheel/config"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
)

// InventoryApp exposes the inventory and catalog use cases
type InventoryApp struct {
	runner
	now func() time.Time
}

// NewInventoryApp creates the inventory use cases
func NewInventoryApp(uowFactory interfaces.UnitOfWorkFactory, economy *config.Economy, rng interfaces.RandomSource) *InventoryApp {
	return &InventoryApp{
		runner: runner{uowFactory: uowFactory, economy: economy, rng: rng},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (a *InventoryApp) ListInventory(ctx context.Context, filter entities.InventoryFilter) ([]*entities.UserInventory, error) {
	return inUnitOfWork(ctx, a.runner, "inventory", "ListInventory", func(svc *domainServices) ([]*entities.UserInventory, error) {
		return svc.inventory.ListInventory(ctx, filter)
	})
}

func (a *InventoryApp) ToggleFavorite(ctx context.Context, userID, inventoryID int64) (*entities.UserInventory, error) {
	return inUnitOfWork(ctx, a.runner, "inventory", "ToggleFavorite", func(svc *domainServices) (*entities.UserInventory, error) {
		return svc.inventory.ToggleFavorite(ctx, userID, inventoryID)
	})
}

func (a *InventoryApp) SetEquipped(ctx context.Context, userID, inventoryID int64, equipped bool) (*entities.UserInventory, error) {
	return inUnitOfWork(ctx, a.runner, "inventory", "SetEquipped", func(svc *domainServices) (*entities.UserInventory, error) {
		return svc.inventory.SetEquipped(ctx, userID, inventoryID, equipped)
	})
}

// SellItem converts items back into GEM at their sell value
func (a *InventoryApp) SellItem(ctx context.Context, userID, inventoryID int64, quantity int) (*entities.VirtualTransaction, error) {
	return inUnitOfWork(ctx, a.runner, "inventory", "SellItem", func(svc *domainServices) (*entities.VirtualTransaction, error) {
		return svc.inventory.SellItem(ctx, userID, inventoryID, quantity)
	})
}

// UseConsumable activates a consumable's effect and takes one off the stack
func (a *InventoryApp) UseConsumable(ctx context.Context, userID, inventoryID int64) (*entities.ActiveEffect, error) {
	return inUnitOfWork(ctx, a.runner, "inventory", "UseConsumable", func(svc *domainServices) (*entities.ActiveEffect, error) {
		return svc.inventory.UseConsumable(ctx, userID, inventoryID, a.now())
	})
}

// AddCatalogItem stores a new catalog entry
func (a *InventoryApp) AddCatalogItem(ctx context.Context, item *entities.CollectibleItem) error {
	_, err := inUnitOfWork(ctx, a.runner, "inventory", "AddCatalogItem", func(svc *domainServices) (*entities.CollectibleItem, error) {
		return item, svc.inventory.AddCatalogItem(ctx, item)
	})
	return err
}

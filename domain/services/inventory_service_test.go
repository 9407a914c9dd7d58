package services

import (
	"context"
	"testing"
	"time"

	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	inventoryRepo *testhelpers.MockInventoryRepository
	itemRepo      *testhelpers.MockCollectibleItemRepository
	ledger        *testhelpers.MockLedgerService
	effects       *testhelpers.MockEffectService
	service       *inventoryService
}

func newInventoryFixture() *inventoryFixture {
	f := &inventoryFixture{
		inventoryRepo: new(testhelpers.MockInventoryRepository),
		itemRepo:      new(testhelpers.MockCollectibleItemRepository),
		ledger:        new(testhelpers.MockLedgerService),
		effects:       new(testhelpers.MockEffectService),
	}
	f.service = NewInventoryService(f.inventoryRepo, f.itemRepo, f.ledger, f.effects).(*inventoryService)
	return f
}

func stack(id int64, item *entities.CollectibleItem, quantity int) *entities.UserInventory {
	return &entities.UserInventory{ID: id, UserID: 42, ItemID: item.ID, Quantity: quantity, Item: item}
}

func TestInventoryService_LockOwned_ForeignStack(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()

	inv := stack(1, &entities.CollectibleItem{ID: 3}, 1)
	inv.UserID = 7
	f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)

	_, err := f.service.ToggleFavorite(ctx, 42, 1)
	assert.True(t, common.IsNotFound(err))
}

func TestInventoryService_ToggleFavorite(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()

	inv := &entities.UserInventory{ID: 1, UserID: 42, ItemID: 3, Quantity: 1}
	f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)
	f.itemRepo.On("GetByID", ctx, int64(3)).Return(&entities.CollectibleItem{ID: 3, Name: "Hodl Hat"}, nil)
	f.inventoryRepo.On("UpdateFlags", ctx, inv).Return(nil)

	got, err := f.service.ToggleFavorite(ctx, 42, 1)

	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, "Hodl Hat", got.Item.Name)
}

func TestInventoryService_SetEquipped(t *testing.T) {
	ctx := context.Background()

	t.Run("equipping clears same type", func(t *testing.T) {
		f := newInventoryFixture()
		inv := stack(1, &entities.CollectibleItem{ID: 3, Name: "Laser Eyes", ItemType: entities.ItemTypeCosmetic}, 1)
		f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)
		f.inventoryRepo.On("UnequipAllOfType", ctx, int64(42), entities.ItemTypeCosmetic).Return(nil)
		f.inventoryRepo.On("UpdateFlags", ctx, inv).Return(nil)

		got, err := f.service.SetEquipped(ctx, 42, 1, true)

		require.NoError(t, err)
		assert.True(t, got.IsEquipped)
		f.inventoryRepo.AssertExpectations(t)
	})

	t.Run("unequip skips clearing", func(t *testing.T) {
		f := newInventoryFixture()
		inv := stack(1, &entities.CollectibleItem{ID: 3, ItemType: entities.ItemTypeBadge}, 1)
		inv.IsEquipped = true
		f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)
		f.inventoryRepo.On("UpdateFlags", ctx, inv).Return(nil)

		got, err := f.service.SetEquipped(ctx, 42, 1, false)

		require.NoError(t, err)
		assert.False(t, got.IsEquipped)
		f.inventoryRepo.AssertNotCalled(t, "UnequipAllOfType", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("collectibles cannot be equipped", func(t *testing.T) {
		f := newInventoryFixture()
		inv := stack(1, &entities.CollectibleItem{ID: 3, Name: "Genesis Block", ItemType: entities.ItemTypeCollectible}, 1)
		f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)

		_, err := f.service.SetEquipped(ctx, 42, 1, true)
		assert.True(t, common.IsValidation(err))
	})
}

func TestInventoryService_SellItem(t *testing.T) {
	ctx := context.Background()
	item := &entities.CollectibleItem{ID: 3, Name: "Moon Rock", ItemType: entities.ItemTypeCollectible, SellValue: 40}

	t.Run("credits proceeds", func(t *testing.T) {
		f := newInventoryFixture()
		inv := stack(1, item, 5)
		f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)
		f.inventoryRepo.On("RemoveQuantity", ctx, int64(1), 2).Return(3, nil)
		f.ledger.On("AddCurrency", ctx, int64(42), entities.CurrencyGemCoins, int64(80), entities.SourceItemSale, mock.Anything).
			Return(&entities.VirtualTransaction{Amount: 80}, nil)

		tx, err := f.service.SellItem(ctx, 42, 1, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(80), tx.Amount)
		f.ledger.AssertExpectations(t)
	})

	t.Run("equipped stack", func(t *testing.T) {
		f := newInventoryFixture()
		inv := stack(1, item, 5)
		inv.IsEquipped = true
		f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)

		_, err := f.service.SellItem(ctx, 42, 1, 1)
		assert.True(t, common.IsStateConflict(err))
	})

	t.Run("more than held", func(t *testing.T) {
		f := newInventoryFixture()
		f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(stack(1, item, 1), nil)

		_, err := f.service.SellItem(ctx, 42, 1, 2)
		assert.True(t, common.IsValidation(err))
		f.inventoryRepo.AssertNotCalled(t, "RemoveQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("worthless item", func(t *testing.T) {
		f := newInventoryFixture()
		f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(stack(1, &entities.CollectibleItem{ID: 4, Name: "Rug"}, 1), nil)

		_, err := f.service.SellItem(ctx, 42, 1, 1)
		assert.True(t, common.IsValidation(err))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		f := newInventoryFixture()
		_, err := f.service.SellItem(ctx, 42, 1, 0)
		assert.True(t, common.IsValidation(err))
	})
}

func TestInventoryService_UseConsumable(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	xp := entities.EffectTypeXPMultiplier
	item := &entities.CollectibleItem{ID: 3, Name: "XP Potion", ItemType: entities.ItemTypeConsumable, EffectType: &xp}
	inv := stack(1, item, 2)

	f := newInventoryFixture()
	effect := &entities.ActiveEffect{ID: 9, UserID: 42, EffectType: xp, Scope: entities.EffectScopeGlobal}
	f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(inv, nil)
	f.effects.On("Activate", ctx, int64(42), item, now).Return(effect, nil)
	f.inventoryRepo.On("RemoveQuantity", ctx, int64(1), 1).Return(1, nil)

	got, err := f.service.UseConsumable(ctx, 42, 1, now)

	require.NoError(t, err)
	assert.Same(t, effect, got)
	f.inventoryRepo.AssertExpectations(t)
}

func TestInventoryService_UseConsumable_ActivationFailsKeepsItem(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	item := &entities.CollectibleItem{ID: 3, Name: "Hat", ItemType: entities.ItemTypeCosmetic}
	f := newInventoryFixture()
	f.inventoryRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(stack(1, item, 1), nil)
	f.effects.On("Activate", ctx, int64(42), item, now).Return(nil, common.NewValidationError("Hat cannot be used"))

	_, err := f.service.UseConsumable(ctx, 42, 1, now)

	assert.True(t, common.IsValidation(err))
	f.inventoryRepo.AssertNotCalled(t, "RemoveQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_AddCatalogItem(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug", func(t *testing.T) {
		f := newInventoryFixture()
		f.itemRepo.On("Create", ctx, mock.AnythingOfType("*entities.CollectibleItem")).Return(nil)

		item := &entities.CollectibleItem{Name: "  Diamond Hands Badge ", ItemType: entities.ItemTypeBadge, Rarity: entities.RarityEpic, SellValue: 500}
		require.NoError(t, f.service.AddCatalogItem(ctx, item))
		assert.Equal(t, "Diamond Hands Badge", item.Name)
		assert.Equal(t, "diamond-hands-badge", item.Slug)
	})

	invalid := []struct {
		name string
		item *entities.CollectibleItem
	}{
		{"empty name", &entities.CollectibleItem{ItemType: entities.ItemTypeBadge, Rarity: entities.RarityCommon}},
		{"unknown rarity", &entities.CollectibleItem{Name: "X", ItemType: entities.ItemTypeBadge, Rarity: "MYTHIC"}},
		{"unknown type", &entities.CollectibleItem{Name: "X", ItemType: "WEAPON", Rarity: entities.RarityCommon}},
		{"negative value", &entities.CollectibleItem{Name: "X", ItemType: entities.ItemTypeBadge, Rarity: entities.RarityCommon, SellValue: -1}},
		{"consumable without effect", &entities.CollectibleItem{Name: "X", ItemType: entities.ItemTypeConsumable, Rarity: entities.RarityCommon}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			f := newInventoryFixture()
			assert.True(t, common.IsValidation(f.service.AddCatalogItem(ctx, tt.item)))
			f.itemRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

package testutil

import (
	"fmt"
	"time"

	"gemwheel/domain/entities"

	"github.com/shopspring/decimal"
)

// CreateTestWallet creates a wallet with the default starting balance
func CreateTestWallet(userID int64) *entities.VirtualWallet {
	return &entities.VirtualWallet{
		UserID:   userID,
		GemCoins: 1000,
		Level:    1,
	}
}

// CreateTestWalletWithBalance creates a wallet holding a specific GEM balance
func CreateTestWalletWithBalance(userID, gems int64) *entities.VirtualWallet {
	wallet := CreateTestWallet(userID)
	wallet.GemCoins = gems
	return wallet
}

// CreateTestTransaction creates an EARN ledger entry of amount GEM
func CreateTestTransaction(wallet *entities.VirtualWallet, amount int64, source entities.Source) *entities.VirtualTransaction {
	return &entities.VirtualTransaction{
		WalletID:        wallet.ID,
		UserID:          wallet.UserID,
		TransactionType: entities.TransactionTypeEarn,
		CurrencyType:    entities.CurrencyGemCoins,
		Amount:          amount,
		Source:          source,
		Description:     "test entry",
		BalanceBefore:   0,
		BalanceAfter:    amount,
		Metadata:        map[string]any{"test": true},
	}
}

// CreateTestSession creates an active roulette session
func CreateTestSession(userID int64) *entities.GameSession {
	return &entities.GameSession{
		UserID:         userID,
		GameType:       entities.GameTypeCryptoRoulette,
		ServerSeed:     "9f2c4b7a1e3d5f608a9b0c1d2e3f405162738495a6b7c8d9e0f1a2b3c4d5e6f7",
		ServerSeedHash: "0d1f2e3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0",
		ClientSeed:     "test-client-seed",
		Status:         entities.SessionStatusActive,
	}
}

// CreateTestBet creates a red colour bet for a session
func CreateTestBet(session *entities.GameSession, amount int64) *entities.GameBet {
	return &entities.GameBet{
		GameSessionID:   session.ID,
		UserID:          session.UserID,
		BetType:         entities.BetTypeCryptoColor,
		BetValue:        "red",
		BetAmount:       amount,
		PayoutOdds:      decimal.NewFromInt(2),
		PotentialPayout: amount * 2,
	}
}

// CreateTestItem creates a tradeable badge of the given rarity
func CreateTestItem(name string, rarity entities.Rarity) *entities.CollectibleItem {
	return &entities.CollectibleItem{
		Slug:        fmt.Sprintf("%s-%d", name, time.Now().UnixNano()),
		Name:        name,
		ItemType:    entities.ItemTypeBadge,
		Rarity:      rarity,
		SellValue:   50,
		IsTradeable: true,
		IsActive:    true,
	}
}

// CreateTestConsumable creates an XP booster with limited uses
func CreateTestConsumable(name string, uses int) *entities.CollectibleItem {
	effectType := entities.EffectTypeXPMultiplier
	scope := entities.EffectScopeGaming
	multiplier := decimal.RequireFromString("1.5")
	item := CreateTestItem(name, entities.RarityRare)
	item.ItemType = entities.ItemTypeConsumable
	item.EffectType = &effectType
	item.EffectScope = &scope
	item.EffectMultiplier = &multiplier
	item.EffectUses = &uses
	return item
}

// CreateTestTrade creates a pending offer expiring after ttl
func CreateTestTrade(initiatorID, recipientID int64, ttl time.Duration) *entities.TradeOffer {
	return &entities.TradeOffer{
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		OfferedGems: 100,
		Status:      entities.TradeStatusPending,
		Message:     "fair deal",
		ExpiresAt:   time.Now().UTC().Add(ttl),
	}
}

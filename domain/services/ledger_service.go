package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gemwheel/config"
	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
	"gemwheel/events"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	walletRepo      interfaces.WalletRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
	economy         *config.Economy
}

// NewLedgerService creates a new ledger service
func NewLedgerService(walletRepo interfaces.WalletRepository, transactionRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, economy *config.Economy) interfaces.LedgerService {
	return &ledgerService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
		economy:         economy,
	}
}

func (s *ledgerService) CreateWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	wallet, _, err := s.ensureWallet(ctx, userID)
	return wallet, err
}

// ensureWallet creates the wallet when missing and returns it locked
func (s *ledgerService) ensureWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, bool, error) {
	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet != nil {
		return wallet, false, nil
	}

	wallet = &entities.VirtualWallet{
		UserID: userID,
		Level:  1,
	}
	created, err := s.walletRepo.Create(ctx, wallet)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create wallet: %w", err)
	}
	if !created {
		// Lost a creation race; the other writer's wallet already has its bonus
		wallet, err = s.walletRepo.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get wallet: %w", err)
		}
		if wallet == nil {
			return nil, false, fmt.Errorf("wallet for user %d vanished after conflicting insert", userID)
		}
		return wallet, false, nil
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"walletID": wallet.ID,
	}).Info("Created virtual wallet")

	if bonus := s.economy.StartingGemBonus; bonus > 0 {
		if _, err := s.applyChange(ctx, wallet, entities.CurrencyGemCoins, bonus, entities.SourceWalletCreated, "Starting bonus"); err != nil {
			return nil, false, err
		}
	}

	if err := s.eventPublisher.Publish(events.WalletCreatedEvent{
		UserID:        userID,
		WalletID:      wallet.ID,
		StartingBonus: s.economy.StartingGemBonus,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wallet created event")
	}
	return wallet, true, nil
}

func (s *ledgerService) GetWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, common.NewNotFoundError("wallet", userID)
	}
	return wallet, nil
}

func (s *ledgerService) LockWallets(ctx context.Context, userIDs ...int64) error {
	ids := append([]int64(nil), userIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var prev int64
	for i, id := range ids {
		if i > 0 && id == prev {
			continue
		}
		if _, _, err := s.ensureWallet(ctx, id); err != nil {
			return err
		}
		prev = id
	}
	return nil
}

func (s *ledgerService) AddCurrency(ctx context.Context, userID int64, currency entities.CurrencyType, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, error) {
	if currency == entities.CurrencyExperiencePoints {
		tx, _, err := s.AddExperience(ctx, userID, amount, source, description, opts...)
		return tx, err
	}
	if amount <= 0 {
		return nil, common.NewValidationError("amount must be positive")
	}

	wallet, _, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.applyChange(ctx, wallet, currency, amount, source, description, opts...)
}

func (s *ledgerService) AddExperience(ctx context.Context, userID int64, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, *entities.LevelUpResult, error) {
	if amount <= 0 {
		return nil, nil, common.NewValidationError("amount must be positive")
	}

	wallet, _, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.applyChange(ctx, wallet, entities.CurrencyExperiencePoints, amount, source, description, opts...)
	if err != nil {
		return nil, nil, err
	}
	levelUp, err := s.levelUp(ctx, wallet)
	if err != nil {
		return nil, nil, err
	}
	return tx, levelUp, nil
}

func (s *ledgerService) SpendCurrency(ctx context.Context, userID int64, currency entities.CurrencyType, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("amount must be positive")
	}

	wallet, _, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	if balance := wallet.Balance(currency); balance < amount {
		return nil, common.NewInsufficientFundsError(string(currency), balance, amount)
	}

	return s.applyChange(ctx, wallet, currency, -amount, source, description, opts...)
}

// applyChange is the single place where balances move. The wallet must be
// locked by the caller.
func (s *ledgerService) applyChange(ctx context.Context, wallet *entities.VirtualWallet, currency entities.CurrencyType, amount int64, source entities.Source, description string, opts ...entities.EntryOption) (*entities.VirtualTransaction, error) {
	before := wallet.Balance(currency)
	if before+amount < 0 {
		return nil, common.NewInsufficientFundsError(string(currency), before, -amount)
	}
	if err := wallet.ApplyChange(currency, amount); err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	change := entities.BuildCurrencyChange(opts...)
	tx := &entities.VirtualTransaction{
		WalletID:        wallet.ID,
		UserID:          wallet.UserID,
		TransactionType: entities.TransactionTypeFor(amount),
		CurrencyType:    currency,
		Amount:          amount,
		Source:          source,
		Description:     description,
		ReferenceID:     change.ReferenceID,
		ReferenceType:   change.ReferenceType,
		BalanceBefore:   before,
		BalanceAfter:    wallet.Balance(currency),
		Metadata:        change.Metadata,
	}
	if err := tx.ValidateTransaction(); err != nil {
		return nil, common.NewIntegrityFailure(err, fmt.Sprintf("ledger entry for wallet %d failed validation", wallet.ID))
	}

	if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}
	if err := s.transactionRepo.Record(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	event := events.BalanceChangeEvent{
		UserID:       wallet.UserID,
		CurrencyType: currency,
		OldBalance:   tx.BalanceBefore,
		NewBalance:   tx.BalanceAfter,
		ChangeAmount: amount,
		Source:       source,
	}
	log.WithFields(log.Fields{
		"userID":       event.UserID,
		"currency":     event.CurrencyType,
		"oldBalance":   event.OldBalance,
		"newBalance":   event.NewBalance,
		"changeAmount": event.ChangeAmount,
		"source":       event.Source,
	}).Debug("Publishing BalanceChangeEvent")
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}
	return tx, nil
}

func (s *ledgerService) CheckLevelUp(ctx context.Context, userID int64) (*entities.LevelUpResult, error) {
	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, common.NewNotFoundError("wallet", userID)
	}
	return s.levelUp(ctx, wallet)
}

// levelUp advances at most one level per call
func (s *ledgerService) levelUp(ctx context.Context, wallet *entities.VirtualWallet) (*entities.LevelUpResult, error) {
	next := wallet.Level + 1
	if wallet.TotalXPEarned < RequiredXPForLevel(s.economy.Level, next) {
		return nil, nil
	}

	result := &entities.LevelUpResult{
		UserID:   wallet.UserID,
		OldLevel: wallet.Level,
		NewLevel: next,
		GemBonus: LevelUpBonus(s.economy.Level, next),
	}
	wallet.Level = next

	if result.GemBonus > 0 {
		if _, err := s.applyChange(ctx, wallet, entities.CurrencyGemCoins, result.GemBonus, entities.SourceLevelUp,
			fmt.Sprintf("Reached level %d", next),
			entities.WithMetadata(map[string]any{"old_level": result.OldLevel, "new_level": next})); err != nil {
			return nil, err
		}
	} else if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet level: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   wallet.UserID,
		"oldLevel": result.OldLevel,
		"newLevel": result.NewLevel,
		"gemBonus": result.GemBonus,
	}).Info("Wallet levelled up")

	if err := s.eventPublisher.Publish(events.LevelUpEvent{
		UserID:   wallet.UserID,
		OldLevel: result.OldLevel,
		NewLevel: result.NewLevel,
		GemBonus: result.GemBonus,
	}); err != nil {
		log.WithError(err).Error("Failed to publish level up event")
	}
	return result, nil
}

func (s *ledgerService) ClaimDailyReward(ctx context.Context, userID int64, now time.Time) (*entities.DailyRewardResult, error) {
	wallet, _, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	streak, claimedToday := NextLoginStreak(wallet.LastDailyClaimAt, wallet.LoginStreak, now)
	if claimedToday {
		log.WithField("userID", userID).Debug("Daily reward already claimed today")
		return nil, nil
	}

	claimedAt := now.UTC()
	wallet.LoginStreak = streak
	wallet.LastDailyClaimAt = &claimedAt

	cfg := s.economy.Daily
	result := &entities.DailyRewardResult{
		UserID:     userID,
		Streak:     streak,
		Multiplier: DailyRewardMultiplier(cfg, streak),
		Reward:     DailyRewardAmount(cfg, streak),
	}

	if result.Reward > 0 {
		if _, err := s.applyChange(ctx, wallet, entities.CurrencyGemCoins, result.Reward, entities.SourceDailyReward,
			fmt.Sprintf("Daily reward (streak %d)", streak),
			entities.WithMetadata(map[string]any{"streak": streak, "multiplier": result.Multiplier.String()})); err != nil {
			return nil, err
		}
	} else if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}
	result.NewBalance = wallet.GemCoins

	if err := s.eventPublisher.Publish(events.DailyRewardClaimedEvent{
		UserID: userID,
		Streak: streak,
		Reward: result.Reward,
	}); err != nil {
		log.WithError(err).Error("Failed to publish daily reward event")
	}
	return result, nil
}

func (s *ledgerService) RecordGamePlayed(ctx context.Context, userID int64, won bool) error {
	wallet, _, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return err
	}

	wallet.GamesPlayed++
	if won {
		wallet.GamesWon++
	}
	if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return fmt.Errorf("failed to update wallet game counters: %w", err)
	}
	return nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, filter entities.TransactionFilter) ([]*entities.VirtualTransaction, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, common.NewValidationError("limit and offset cannot be negative")
	}
	txs, err := s.transactionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (s *ledgerService) AuditWallet(ctx context.Context, userID int64) error {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return err
	}

	sums, err := s.transactionRepo.SumByCurrency(ctx, wallet.ID)
	if err != nil {
		return fmt.Errorf("failed to sum transactions: %w", err)
	}

	for _, currency := range entities.AllCurrencyTypes {
		if sums[currency] != wallet.Balance(currency) {
			return common.NewIntegrityFailure(nil, fmt.Sprintf(
				"wallet %d %s balance %d does not match ledger total %d",
				wallet.ID, currency, wallet.Balance(currency), sums[currency]))
		}
	}
	return nil
}

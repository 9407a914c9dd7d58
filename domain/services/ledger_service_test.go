package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gemwheel/config"
	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	walletRepo *testhelpers.MockWalletRepository
	txRepo     *testhelpers.MockTransactionRepository
	publisher  *testhelpers.MockEventPublisher
	service    *ledgerService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		walletRepo: new(testhelpers.MockWalletRepository),
		txRepo:     new(testhelpers.MockTransactionRepository),
		publisher:  new(testhelpers.MockEventPublisher),
	}
	f.service = NewLedgerService(f.walletRepo, f.txRepo, f.publisher, config.DefaultEconomy()).(*ledgerService)
	return f
}

func (f *ledgerFixture) assertExpectations(t *testing.T) {
	f.walletRepo.AssertExpectations(t)
	f.txRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestLedgerService_CreateWallet_New(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(nil, nil).Once()
	f.walletRepo.On("Create", ctx, mock.AnythingOfType("*entities.VirtualWallet")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.VirtualWallet).ID = 7
		}).Return(true, nil)
	f.walletRepo.On("Update", ctx, mock.MatchedBy(func(w *entities.VirtualWallet) bool {
		return w.ID == 7 && w.GemCoins == 1000 && w.Level == 1
	})).Return(nil)
	f.txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.VirtualTransaction) bool {
		return tx.WalletID == 7 &&
			tx.Source == entities.SourceWalletCreated &&
			tx.Amount == 1000 &&
			tx.BalanceBefore == 0 &&
			tx.BalanceAfter == 1000 &&
			tx.TransactionType == entities.TransactionTypeEarn
	})).Return(nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.WalletCreatedEvent")).Return(nil)

	wallet, err := f.service.CreateWallet(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(1000), wallet.GemCoins)
	assert.Equal(t, int64(1000), wallet.TotalGemsEarned)
	f.assertExpectations(t)
}

func TestLedgerService_CreateWallet_Existing(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	existing := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 300, Level: 3}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(existing, nil)

	wallet, err := f.service.CreateWallet(ctx, 42)

	require.NoError(t, err)
	assert.Same(t, existing, wallet)
	f.walletRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.txRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_CreateWallet_LostRace(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	winner := &entities.VirtualWallet{ID: 9, UserID: 42, GemCoins: 1000, Level: 1}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(nil, nil).Once()
	f.walletRepo.On("Create", ctx, mock.Anything).Return(false, nil)
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(winner, nil).Once()

	wallet, err := f.service.CreateWallet(ctx, 42)

	require.NoError(t, err)
	assert.Same(t, winner, wallet)
	f.txRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestLedgerService_SpendCurrency_Success(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	wallet := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 1000, Level: 1}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(wallet, nil)
	f.walletRepo.On("Update", ctx, wallet).Return(nil)
	f.txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.VirtualTransaction) bool {
		return tx.Amount == -100 &&
			tx.BalanceBefore == 1000 &&
			tx.BalanceAfter == 900 &&
			tx.TransactionType == entities.TransactionTypeSpend &&
			tx.ReferenceType != nil && *tx.ReferenceType == entities.ReferenceTypeGameSession &&
			tx.ReferenceID != nil && *tx.ReferenceID == "5"
	})).Return(nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)

	tx, err := f.service.SpendCurrency(ctx, 42, entities.CurrencyGemCoins, 100, entities.SourceRouletteBet, "bet",
		entities.WithReference(entities.ReferenceTypeGameSession, 5))

	require.NoError(t, err)
	assert.Equal(t, int64(900), tx.BalanceAfter)
	assert.Equal(t, int64(900), wallet.GemCoins)
	assert.Equal(t, int64(100), wallet.TotalGemsSpent)
	f.assertExpectations(t)
}

func TestLedgerService_SpendCurrency_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	wallet := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 1000, Level: 1}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(wallet, nil)

	tx, err := f.service.SpendCurrency(ctx, 42, entities.CurrencyGemCoins, 1500, entities.SourceRouletteBet, "bet")

	assert.Nil(t, tx)
	assert.True(t, common.IsInsufficientFunds(err))
	assert.Equal(t, int64(1000), wallet.GemCoins)
	f.walletRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.txRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_AmountMustBePositive(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	_, err := f.service.SpendCurrency(ctx, 42, entities.CurrencyGemCoins, 0, entities.SourceRouletteBet, "bet")
	assert.True(t, common.IsValidation(err))

	_, err = f.service.AddCurrency(ctx, 42, entities.CurrencyGemCoins, -5, entities.SourceAdminAdjust, "oops")
	assert.True(t, common.IsValidation(err))

	_, _, err = f.service.AddExperience(ctx, 42, 0, entities.SourceParticipation, "xp")
	assert.True(t, common.IsValidation(err))
}

func TestLedgerService_AddCurrency_RecordFailurePropagates(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	wallet := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 10, Level: 1}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(wallet, nil)
	f.walletRepo.On("Update", ctx, wallet).Return(nil)
	f.txRepo.On("Record", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := f.service.AddCurrency(ctx, 42, entities.CurrencyGemCoins, 5, entities.SourceAdminAdjust, "grant")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record transaction")
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestLedgerService_AddExperience_LevelsUp(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	wallet := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 500, ExperiencePoints: 90, TotalXPEarned: 90, Level: 1}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(wallet, nil)
	f.walletRepo.On("Update", ctx, wallet).Return(nil)
	f.txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.VirtualTransaction) bool {
		return tx.CurrencyType == entities.CurrencyExperiencePoints && tx.Amount == 20
	})).Return(nil).Once()
	f.txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.VirtualTransaction) bool {
		return tx.CurrencyType == entities.CurrencyGemCoins &&
			tx.Source == entities.SourceLevelUp &&
			tx.Amount == 50 &&
			tx.BalanceAfter == 550
	})).Return(nil).Once()
	f.publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.LevelUpEvent")).Return(nil)

	_, levelUp, err := f.service.AddExperience(ctx, 42, 20, entities.SourceParticipation, "spin")

	require.NoError(t, err)
	require.NotNil(t, levelUp)
	assert.Equal(t, 1, levelUp.OldLevel)
	assert.Equal(t, 2, levelUp.NewLevel)
	assert.Equal(t, int64(50), levelUp.GemBonus)
	assert.Equal(t, 2, wallet.Level)
	assert.Equal(t, int64(110), wallet.TotalXPEarned)
	f.assertExpectations(t)
}

func TestLedgerService_AddExperience_OneLevelPerCheck(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	wallet := &entities.VirtualWallet{ID: 7, UserID: 42, Level: 1}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(wallet, nil)
	f.walletRepo.On("Update", ctx, wallet).Return(nil)
	f.txRepo.On("Record", ctx, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything).Return(nil)

	_, levelUp, err := f.service.AddExperience(ctx, 42, 1000, entities.SourceAdminAdjust, "boost")
	require.NoError(t, err)
	require.NotNil(t, levelUp)
	assert.Equal(t, 2, wallet.Level)

	levelUp, err = f.service.CheckLevelUp(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, levelUp)
	assert.Equal(t, 3, levelUp.NewLevel)

	levelUp, err = f.service.CheckLevelUp(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, levelUp)
	assert.Equal(t, 4, levelUp.NewLevel)

	// level 5 needs 800
	levelUp, err = f.service.CheckLevelUp(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, levelUp)
	assert.Equal(t, 5, levelUp.NewLevel)

	// level 6 needs 1118
	levelUp, err = f.service.CheckLevelUp(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, levelUp)
	assert.Equal(t, 5, wallet.Level)
}

func TestLedgerService_CheckLevelUp_MissingWallet(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(nil, nil)

	_, err := f.service.CheckLevelUp(ctx, 42)
	assert.True(t, common.IsNotFound(err))
}

func TestLedgerService_ClaimDailyReward(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-20 * time.Hour)
	wallet := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 100, Level: 1, LoginStreak: 4, LastDailyClaimAt: &yesterday}

	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(wallet, nil)
	f.walletRepo.On("Update", ctx, wallet).Return(nil)
	f.txRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.VirtualTransaction) bool {
		return tx.Source == entities.SourceDailyReward && tx.Amount == 70
	})).Return(nil).Once()
	f.publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(nil)
	f.publisher.On("Publish", mock.AnythingOfType("events.DailyRewardClaimedEvent")).Return(nil).Once()

	result, err := f.service.ClaimDailyReward(ctx, 42, now)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 5, result.Streak)
	assert.Equal(t, int64(70), result.Reward)
	assert.Equal(t, int64(170), result.NewBalance)
	assert.Equal(t, 5, wallet.LoginStreak)

	// Second claim on the same UTC day is a no-op
	again, err := f.service.ClaimDailyReward(ctx, 42, now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Equal(t, int64(170), wallet.GemCoins)

	f.txRepo.AssertNumberOfCalls(t, "Record", 1)
	f.assertExpectations(t)
}

func TestLedgerService_RecordGamePlayed(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	wallet := &entities.VirtualWallet{ID: 7, UserID: 42, Level: 1, GamesPlayed: 3, GamesWon: 1}
	f.walletRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(wallet, nil)
	f.walletRepo.On("Update", ctx, wallet).Return(nil)

	require.NoError(t, f.service.RecordGamePlayed(ctx, 42, true))
	require.NoError(t, f.service.RecordGamePlayed(ctx, 42, false))

	assert.Equal(t, int64(5), wallet.GamesPlayed)
	assert.Equal(t, int64(2), wallet.GamesWon)
}

func TestLedgerService_LockWallets_SortedAndDeduplicated(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	var order []int64
	for _, id := range []int64{3, 9} {
		id := id
		f.walletRepo.On("GetByUserIDForUpdate", ctx, id).
			Run(func(mock.Arguments) { order = append(order, id) }).
			Return(&entities.VirtualWallet{ID: id, UserID: id, Level: 1}, nil).Once()
	}

	require.NoError(t, f.service.LockWallets(ctx, 9, 3, 9))
	assert.Equal(t, []int64{3, 9}, order)
	f.assertExpectations(t)
}

func TestLedgerService_ListTransactions_RejectsNegativePaging(t *testing.T) {
	f := newLedgerFixture()
	_, err := f.service.ListTransactions(context.Background(), entities.TransactionFilter{UserID: 42, Limit: -1})
	assert.True(t, common.IsValidation(err))
}

func TestLedgerService_AuditWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("balanced", func(t *testing.T) {
		f := newLedgerFixture()
		wallet := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 1100, ExperiencePoints: 25, Level: 1}
		f.walletRepo.On("GetByUserID", ctx, int64(42)).Return(wallet, nil)
		f.txRepo.On("SumByCurrency", ctx, int64(7)).Return(map[entities.CurrencyType]int64{
			entities.CurrencyGemCoins:         1100,
			entities.CurrencyExperiencePoints: 25,
		}, nil)

		assert.NoError(t, f.service.AuditWallet(ctx, 42))
	})

	t.Run("drifted", func(t *testing.T) {
		f := newLedgerFixture()
		wallet := &entities.VirtualWallet{ID: 7, UserID: 42, GemCoins: 1100, Level: 1}
		f.walletRepo.On("GetByUserID", ctx, int64(42)).Return(wallet, nil)
		f.txRepo.On("SumByCurrency", ctx, int64(7)).Return(map[entities.CurrencyType]int64{
			entities.CurrencyGemCoins: 1000,
		}, nil)

		err := f.service.AuditWallet(ctx, 42)
		assert.True(t, common.IsIntegrityFailure(err))
	})

	t.Run("missing wallet", func(t *testing.T) {
		f := newLedgerFixture()
		f.walletRepo.On("GetByUserID", ctx, int64(42)).Return(nil, nil)

		assert.True(t, common.IsNotFound(f.service.AuditWallet(ctx, 42)))
	})
}

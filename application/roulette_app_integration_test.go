package application

import (
	"context"
	"sync"
	"testing"

	"gemwheel/config"
	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/services"
	"gemwheel/infrastructure"
	"gemwheel/repository"
	"gemwheel/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redBet(sessionID, userID, amount int64) entities.BetRequest {
	return entities.BetRequest{
		SessionID: sessionID,
		UserID:    userID,
		BetType:   entities.BetTypeCryptoColor,
		BetValue:  services.ColorRed,
		Amount:    amount,
	}
}

func TestRouletteApp_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	economy := config.NewTestConfig().Economy
	rng := services.NewCryptoRandom()
	factory := repository.NewUnitOfWorkFactory(testDB.DB, infrastructure.NewNoopEventPublisher())
	wallets := NewWalletApp(factory, economy, rng)
	app := NewRouletteApp(factory, economy, rng, nil, 0)

	t.Run("failed bet leaves no debit behind", func(t *testing.T) {
		const user = int64(7001)
		before, err := wallets.CreateWallet(ctx, user)
		require.NoError(t, err)
		session, err := app.CreateSession(ctx, user, "")
		require.NoError(t, err)

		faulty := NewRouletteApp(&faultyUnitOfWorkFactory{UnitOfWorkFactory: factory, failBetCreate: true}, economy, rng, nil, 0)
		_, err = faulty.PlaceBet(ctx, redBet(session.ID, user, 100))
		require.ErrorIs(t, err, errInjected)

		after, err := wallets.GetWallet(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, before.GemCoins, after.GemCoins)
		assert.Equal(t, before.TotalGemsSpent, after.TotalGemsSpent)

		history, err := wallets.ListTransactions(ctx, entities.TransactionFilter{UserID: user, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, history, 1, "only the starting bonus")

		// The session is still open for a real bet.
		_, err = app.PlaceBet(ctx, redBet(session.ID, user, 100))
		require.NoError(t, err)
	})

	t.Run("place and spin settle consistently", func(t *testing.T) {
		const user = int64(7002)
		before, err := wallets.CreateWallet(ctx, user)
		require.NoError(t, err)
		session, err := app.CreateSession(ctx, user, "integration-seed")
		require.NoError(t, err)

		_, err = app.PlaceBet(ctx, redBet(session.ID, user, 100))
		require.NoError(t, err)
		result, err := app.SpinWheel(ctx, session.ID, user)
		require.NoError(t, err)
		assert.Equal(t, int64(100), result.TotalBet)

		after, err := wallets.GetWallet(ctx, user)
		require.NoError(t, err)
		expected := before.GemCoins - 100 + result.TotalWinnings + result.GemsEarned
		if result.LevelUp != nil {
			expected += result.LevelUp.GemBonus
		}
		assert.Equal(t, expected, after.GemCoins)
		require.NoError(t, wallets.AuditWallet(ctx, user))

		_, err = app.SpinWheel(ctx, session.ID, user)
		assert.True(t, common.IsStateConflict(err))

		reveal, err := app.RevealServerSeed(ctx, session.ID, user)
		require.NoError(t, err)
		assert.True(t, reveal.Verified)
	})

	t.Run("concurrent bets cannot overspend", func(t *testing.T) {
		const user = int64(7003)
		wallet, err := wallets.CreateWallet(ctx, user)
		require.NoError(t, err)
		stake := wallet.GemCoins/2 + 1

		sessions := make([]*entities.GameSession, 2)
		for i := range sessions {
			sessions[i], err = app.CreateSession(ctx, user, "")
			require.NoError(t, err)
		}

		errs := make([]error, len(sessions))
		var wg sync.WaitGroup
		for i, session := range sessions {
			wg.Add(1)
			go func(i int, sessionID int64) {
				defer wg.Done()
				_, errs[i] = app.PlaceBet(ctx, redBet(sessionID, user, stake))
			}(i, session.ID)
		}
		wg.Wait()

		var placed, rejected int
		for _, err := range errs {
			switch {
			case err == nil:
				placed++
			case common.IsInsufficientFunds(err):
				rejected++
			default:
				t.Fatalf("unexpected bet error: %v", err)
			}
		}
		assert.Equal(t, 1, placed)
		assert.Equal(t, 1, rejected)

		after, err := wallets.GetWallet(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, wallet.GemCoins-stake, after.GemCoins)
		require.NoError(t, wallets.AuditWallet(ctx, user))
	})

	t.Run("concurrent spins all reach the stats row", func(t *testing.T) {
		const user = int64(7004)
		_, err := wallets.CreateWallet(ctx, user)
		require.NoError(t, err)

		sessions := make([]*entities.GameSession, 3)
		for i := range sessions {
			sessions[i], err = app.CreateSession(ctx, user, "")
			require.NoError(t, err)
			_, err = app.PlaceBet(ctx, redBet(sessions[i].ID, user, 50))
			require.NoError(t, err)
		}

		errs := make([]error, len(sessions))
		var wg sync.WaitGroup
		for i, session := range sessions {
			wg.Add(1)
			go func(i int, sessionID int64) {
				defer wg.Done()
				_, errs[i] = app.SpinWheel(ctx, sessionID, user)
			}(i, session.ID)
		}
		wg.Wait()
		for _, err := range errs {
			require.NoError(t, err)
		}

		stats, err := app.GetStats(ctx, user)
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, int64(len(sessions)), stats.TotalGamesPlayed)
		assert.Equal(t, int64(50*len(sessions)), stats.TotalAmountBet)
		require.NoError(t, wallets.AuditWallet(ctx, user))
	})
}

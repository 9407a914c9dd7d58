package services

import (
	"testing"
	"time"

	"gemwheel/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledSession(bet, winnings int64, crypto string) *entities.GameSession {
	n := 1
	return &entities.GameSession{
		UserID:         42,
		Status:         entities.SessionStatusCompleted,
		TotalBetAmount: bet,
		TotalWinnings:  winnings,
		WinningNumber:  &n,
		WinningCrypto:  &crypto,
	}
}

func TestApplySessionResult_StreaksAreExclusive(t *testing.T) {
	stats := entities.NewGameStats(42)
	now := time.Now()
	bets := []*entities.GameBet{{BetType: entities.BetTypeCryptoColor, BetValue: "red", BetAmount: 100}}

	for i := 0; i < 3; i++ {
		ApplySessionResult(stats, settledSession(100, 200, "BTC"), bets, now)
		assert.Zero(t, stats.CurrentLossStreak)
	}
	assert.Equal(t, 3, stats.CurrentWinStreak)
	assert.Equal(t, 3, stats.LongestWinStreak)

	ApplySessionResult(stats, settledSession(100, 0, "ETH"), bets, now)
	assert.Zero(t, stats.CurrentWinStreak)
	assert.Equal(t, 1, stats.CurrentLossStreak)
	assert.Equal(t, 3, stats.LongestWinStreak)

	// a push is not a win
	ApplySessionResult(stats, settledSession(100, 100, "ETH"), bets, now)
	assert.Equal(t, 2, stats.CurrentLossStreak)
	assert.Equal(t, 2, stats.LongestLossStreak)

	assert.Equal(t, int64(5), stats.TotalGamesPlayed)
	assert.Equal(t, int64(3), stats.TotalGamesWon)
	assert.Equal(t, int64(500), stats.TotalAmountBet)
	assert.Equal(t, int64(700), stats.TotalAmountWon)
	assert.Equal(t, int64(100), stats.BiggestWin)
	assert.Equal(t, int64(100), stats.BiggestLoss)
	assert.Equal(t, now, stats.UpdatedAt)
}

func TestApplySessionResult_Favorites(t *testing.T) {
	stats := &entities.GameStats{UserID: 42}
	now := time.Now()

	ApplySessionResult(stats, settledSession(30, 0, "SOL"), []*entities.GameBet{
		{BetType: entities.BetTypeSingleCrypto, BetValue: "DOGE", BetAmount: 10},
		{BetType: entities.BetTypeSingleCrypto, BetValue: "DOGE", BetAmount: 10},
		{BetType: entities.BetTypeDozen, BetValue: "first", BetAmount: 10},
	}, now)

	require.NotNil(t, stats.FavoriteBetType)
	assert.Equal(t, entities.BetTypeSingleCrypto, *stats.FavoriteBetType)
	require.NotNil(t, stats.FavoriteCrypto)
	assert.Equal(t, "DOGE", *stats.FavoriteCrypto)
	assert.Equal(t, int64(1), stats.WinningCryptoHits["SOL"])
}

func TestApplySessionResult_FavoriteCryptoFallsBackToHits(t *testing.T) {
	stats := entities.NewGameStats(42)

	ApplySessionResult(stats, settledSession(10, 0, "PEPE"), []*entities.GameBet{
		{BetType: entities.BetTypeHighLow, BetValue: "high", BetAmount: 10},
	}, time.Now())

	require.NotNil(t, stats.FavoriteCrypto)
	assert.Equal(t, "PEPE", *stats.FavoriteCrypto)
}

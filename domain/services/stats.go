package services

import (
	"time"

	"gemwheel/domain/entities"
)

// ApplySessionResult folds a settled session into the user's rolling stats.
// A win resets the loss streak and vice versa, so at most one streak is
// non-zero afterwards.
func ApplySessionResult(stats *entities.GameStats, session *entities.GameSession, bets []*entities.GameBet, now time.Time) {
	if stats.BetTypeCounts == nil {
		stats.BetTypeCounts = map[string]int64{}
	}
	if stats.CryptoBetCounts == nil {
		stats.CryptoBetCounts = map[string]int64{}
	}
	if stats.WinningCryptoHits == nil {
		stats.WinningCryptoHits = map[string]int64{}
	}

	won := session.IsWin()
	net := session.NetResult()

	stats.TotalGamesPlayed++
	stats.TotalAmountBet += session.TotalBetAmount
	stats.TotalAmountWon += session.TotalWinnings

	if won {
		stats.TotalGamesWon++
		stats.CurrentWinStreak++
		stats.CurrentLossStreak = 0
		if stats.CurrentWinStreak > stats.LongestWinStreak {
			stats.LongestWinStreak = stats.CurrentWinStreak
		}
		if net > stats.BiggestWin {
			stats.BiggestWin = net
		}
	} else {
		stats.CurrentLossStreak++
		stats.CurrentWinStreak = 0
		if stats.CurrentLossStreak > stats.LongestLossStreak {
			stats.LongestLossStreak = stats.CurrentLossStreak
		}
		if loss := -net; loss > stats.BiggestLoss {
			stats.BiggestLoss = loss
		}
	}

	for _, bet := range bets {
		stats.BetTypeCounts[string(bet.BetType)]++
		if bet.BetType == entities.BetTypeSingleCrypto {
			stats.CryptoBetCounts[bet.BetValue]++
		}
	}
	if session.WinningCrypto != nil {
		stats.WinningCryptoHits[*session.WinningCrypto]++
	}

	stats.RefreshFavorites()
	stats.UpdatedAt = now
}

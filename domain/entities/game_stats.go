package entities

import (
	"sort"
	"time"
)

// GameStats is a user's rolling roulette aggregate
type GameStats struct {
	UserID            int64            `db:"user_id"`
	TotalGamesPlayed  int64            `db:"total_games_played"`
	TotalGamesWon     int64            `db:"total_games_won"`
	TotalAmountBet    int64            `db:"total_amount_bet"`
	TotalAmountWon    int64            `db:"total_amount_won"`
	CurrentWinStreak  int              `db:"current_win_streak"`
	LongestWinStreak  int              `db:"longest_win_streak"`
	CurrentLossStreak int              `db:"current_loss_streak"`
	LongestLossStreak int              `db:"longest_loss_streak"`
	BiggestWin        int64            `db:"biggest_win"`
	BiggestLoss       int64            `db:"biggest_loss"`
	FavoriteBetType   *BetType         `db:"favorite_bet_type"`
	FavoriteCrypto    *string          `db:"favorite_crypto"`
	BetTypeCounts     map[string]int64 `db:"bet_type_counts"`
	CryptoBetCounts   map[string]int64 `db:"crypto_bet_counts"`
	WinningCryptoHits map[string]int64 `db:"winning_crypto_counts"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
}

// NewGameStats returns an empty aggregate for a user
func NewGameStats(userID int64) *GameStats {
	return &GameStats{
		UserID:            userID,
		BetTypeCounts:     map[string]int64{},
		CryptoBetCounts:   map[string]int64{},
		WinningCryptoHits: map[string]int64{},
	}
}

// WinRate returns the fraction of sessions won
func (s *GameStats) WinRate() float64 {
	if s.TotalGamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalGamesWon) / float64(s.TotalGamesPlayed)
}

// mostFrequent returns the highest count key, ties going to the smallest key
func mostFrequent(counts map[string]int64) (string, bool) {
	keys := make([]string, 0, len(counts))
	for k, c := range counts {
		if c > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}

// RefreshFavorites recomputes favorite bet type and crypto from the counters
func (s *GameStats) RefreshFavorites() {
	if bt, ok := mostFrequent(s.BetTypeCounts); ok {
		betType := BetType(bt)
		s.FavoriteBetType = &betType
	}
	if c, ok := mostFrequent(s.CryptoBetCounts); ok {
		s.FavoriteCrypto = &c
	} else if c, ok := mostFrequent(s.WinningCryptoHits); ok {
		s.FavoriteCrypto = &c
	}
}

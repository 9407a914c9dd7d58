package repository

import (
	"context"
	"errors"
	"fmt"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const statsColumns = `user_id, total_games_played, total_games_won, total_amount_bet, total_amount_won,
	current_win_streak, longest_win_streak, current_loss_streak, longest_loss_streak,
	biggest_win, biggest_loss, favorite_bet_type, favorite_crypto,
	bet_type_counts, crypto_bet_counts, winning_crypto_counts, created_at, updated_at`

// gameStatsRepository implements the GameStatsRepository interface
type gameStatsRepository struct {
	q Queryable
}

// NewGameStatsRepository creates a new stats repository
func NewGameStatsRepository(db *database.DB) interfaces.GameStatsRepository {
	return &gameStatsRepository{q: db.Pool}
}

func newGameStatsRepositoryWithTx(tx Queryable) interfaces.GameStatsRepository {
	return &gameStatsRepository{q: tx}
}

func scanStats(row rowScanner) (*entities.GameStats, error) {
	var s entities.GameStats
	err := row.Scan(
		&s.UserID,
		&s.TotalGamesPlayed,
		&s.TotalGamesWon,
		&s.TotalAmountBet,
		&s.TotalAmountWon,
		&s.CurrentWinStreak,
		&s.LongestWinStreak,
		&s.CurrentLossStreak,
		&s.LongestLossStreak,
		&s.BiggestWin,
		&s.BiggestLoss,
		&s.FavoriteBetType,
		&s.FavoriteCrypto,
		&s.BetTypeCounts,
		&s.CryptoBetCounts,
		&s.WinningCryptoHits,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gameStatsRepository) get(ctx context.Context, query string, userID int64) (*entities.GameStats, error) {
	stats, err := scanStats(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats: %w", err)
	}
	return stats, nil
}

// GetByUserID retrieves a user's stats
func (r *gameStatsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.GameStats, error) {
	return r.get(ctx, `SELECT `+statsColumns+` FROM game_stats WHERE user_id = $1`, userID)
}

// GetByUserIDForUpdate retrieves and locks a user's stats
func (r *gameStatsRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.GameStats, error) {
	return r.get(ctx, `SELECT `+statsColumns+` FROM game_stats WHERE user_id = $1 FOR UPDATE`, userID)
}

// Upsert creates or replaces a user's stats row
func (r *gameStatsRepository) Upsert(ctx context.Context, stats *entities.GameStats) error {
	query := `
		INSERT INTO game_stats (user_id, total_games_played, total_games_won, total_amount_bet, total_amount_won,
			current_win_streak, longest_win_streak, current_loss_streak, longest_loss_streak,
			biggest_win, biggest_loss, favorite_bet_type, favorite_crypto,
			bet_type_counts, crypto_bet_counts, winning_crypto_counts, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			total_games_played = EXCLUDED.total_games_played,
			total_games_won = EXCLUDED.total_games_won,
			total_amount_bet = EXCLUDED.total_amount_bet,
			total_amount_won = EXCLUDED.total_amount_won,
			current_win_streak = EXCLUDED.current_win_streak,
			longest_win_streak = EXCLUDED.longest_win_streak,
			current_loss_streak = EXCLUDED.current_loss_streak,
			longest_loss_streak = EXCLUDED.longest_loss_streak,
			biggest_win = EXCLUDED.biggest_win,
			biggest_loss = EXCLUDED.biggest_loss,
			favorite_bet_type = EXCLUDED.favorite_bet_type,
			favorite_crypto = EXCLUDED.favorite_crypto,
			bet_type_counts = EXCLUDED.bet_type_counts,
			crypto_bet_counts = EXCLUDED.crypto_bet_counts,
			winning_crypto_counts = EXCLUDED.winning_crypto_counts,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		stats.UserID,
		stats.TotalGamesPlayed,
		stats.TotalGamesWon,
		stats.TotalAmountBet,
		stats.TotalAmountWon,
		stats.CurrentWinStreak,
		stats.LongestWinStreak,
		stats.CurrentLossStreak,
		stats.LongestLossStreak,
		stats.BiggestWin,
		stats.BiggestLoss,
		stats.FavoriteBetType,
		stats.FavoriteCrypto,
		nonNilCounts(stats.BetTypeCounts),
		nonNilCounts(stats.CryptoBetCounts),
		nonNilCounts(stats.WinningCryptoHits),
	).Scan(&stats.CreatedAt, &stats.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game stats: %w", err)
	}
	return nil
}

func nonNilCounts(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}

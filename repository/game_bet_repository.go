package repository

import (
	"context"
	"fmt"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
)

// gameBetRepository implements the GameBetRepository interface
type gameBetRepository struct {
	q Queryable
}

// NewGameBetRepository creates a new bet repository
func NewGameBetRepository(db *database.DB) interfaces.GameBetRepository {
	return &gameBetRepository{q: db.Pool}
}

func newGameBetRepositoryWithTx(tx Queryable) interfaces.GameBetRepository {
	return &gameBetRepository{q: tx}
}

// Create inserts a new bet
func (r *gameBetRepository) Create(ctx context.Context, bet *entities.GameBet) error {
	query := `
		INSERT INTO game_bets (game_session_id, user_id, bet_type, bet_value, bet_amount, payout_odds, potential_payout)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.GameSessionID,
		bet.UserID,
		bet.BetType,
		bet.BetValue,
		bet.BetAmount,
		bet.PayoutOdds,
		bet.PotentialPayout,
	).Scan(&bet.ID, &bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// GetBySession returns the bets of a session in placement order
func (r *gameBetRepository) GetBySession(ctx context.Context, sessionID int64) ([]*entities.GameBet, error) {
	query := `
		SELECT id, game_session_id, user_id, bet_type, bet_value, bet_amount, payout_odds,
			potential_payout, is_winner, actual_payout, created_at
		FROM game_bets
		WHERE game_session_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}
	defer rows.Close()

	var bets []*entities.GameBet
	for rows.Next() {
		var bet entities.GameBet
		err := rows.Scan(
			&bet.ID,
			&bet.GameSessionID,
			&bet.UserID,
			&bet.BetType,
			&bet.BetValue,
			&bet.BetAmount,
			&bet.PayoutOdds,
			&bet.PotentialPayout,
			&bet.IsWinner,
			&bet.ActualPayout,
			&bet.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bets: %w", err)
	}
	return bets, nil
}

// UpdateSettlement records the outcome of a bet
func (r *gameBetRepository) UpdateSettlement(ctx context.Context, bet *entities.GameBet) error {
	query := `UPDATE game_bets SET is_winner = $2, actual_payout = $3 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, bet.ID, bet.IsWinner, bet.ActualPayout)
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bet %d not found", bet.ID)
	}
	return nil
}

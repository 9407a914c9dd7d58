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

const walletColumns = `id, user_id, gem_coins, experience_points, premium_tokens, level,
	total_xp_earned, total_gems_earned, total_gems_spent, games_played, games_won,
	login_streak, last_daily_claim_at, created_at, updated_at`

// walletRepository implements the WalletRepository interface
type walletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) interfaces.WalletRepository {
	return &walletRepository{q: db.Pool}
}

func newWalletRepositoryWithTx(tx Queryable) interfaces.WalletRepository {
	return &walletRepository{q: tx}
}

func scanWallet(row rowScanner) (*entities.VirtualWallet, error) {
	var w entities.VirtualWallet
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.GemCoins,
		&w.ExperiencePoints,
		&w.PremiumTokens,
		&w.Level,
		&w.TotalXPEarned,
		&w.TotalGemsEarned,
		&w.TotalGemsSpent,
		&w.GamesPlayed,
		&w.GamesWon,
		&w.LoginStreak,
		&w.LastDailyClaimAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByUserID retrieves a wallet by user ID
func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	query := `SELECT ` + walletColumns + ` FROM virtual_wallets WHERE user_id = $1`

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

// GetByUserIDForUpdate retrieves a wallet and holds a row lock
func (r *walletRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	query := `SELECT ` + walletColumns + ` FROM virtual_wallets WHERE user_id = $1 FOR UPDATE`

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for update: %w", err)
	}
	return wallet, nil
}

// Create inserts a wallet unless the user already has one
func (r *walletRepository) Create(ctx context.Context, wallet *entities.VirtualWallet) (bool, error) {
	query := `
		INSERT INTO virtual_wallets (user_id, gem_coins, experience_points, premium_tokens, level,
			total_xp_earned, total_gems_earned, total_gems_spent, login_streak)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		wallet.UserID,
		wallet.GemCoins,
		wallet.ExperiencePoints,
		wallet.PremiumTokens,
		wallet.Level,
		wallet.TotalXPEarned,
		wallet.TotalGemsEarned,
		wallet.TotalGemsSpent,
		wallet.LoginStreak,
	).Scan(&wallet.ID, &wallet.CreatedAt, &wallet.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create wallet: %w", err)
	}
	return true, nil
}

// Update persists every mutable wallet column
func (r *walletRepository) Update(ctx context.Context, wallet *entities.VirtualWallet) error {
	query := `
		UPDATE virtual_wallets SET
			gem_coins = $2,
			experience_points = $3,
			premium_tokens = $4,
			level = $5,
			total_xp_earned = $6,
			total_gems_earned = $7,
			total_gems_spent = $8,
			games_played = $9,
			games_won = $10,
			login_streak = $11,
			last_daily_claim_at = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		wallet.ID,
		wallet.GemCoins,
		wallet.ExperiencePoints,
		wallet.PremiumTokens,
		wallet.Level,
		wallet.TotalXPEarned,
		wallet.TotalGemsEarned,
		wallet.TotalGemsSpent,
		wallet.GamesPlayed,
		wallet.GamesWon,
		wallet.LoginStreak,
		wallet.LastDailyClaimAt,
	).Scan(&wallet.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("wallet %d not found", wallet.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

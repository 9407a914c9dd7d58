package repository

import (
	"context"
	"errors"
	"fmt"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var sessionColumns = []string{
	"id", "user_id", "game_type", "server_seed", "server_seed_hash", "client_seed", "nonce",
	"status", "winning_number", "winning_crypto", "total_bet_amount", "total_winnings",
	"house_edge_amount", "created_at", "completed_at",
}

// gameSessionRepository implements the GameSessionRepository interface
type gameSessionRepository struct {
	q Queryable
}

// NewGameSessionRepository creates a new session repository
func NewGameSessionRepository(db *database.DB) interfaces.GameSessionRepository {
	return &gameSessionRepository{q: db.Pool}
}

func newGameSessionRepositoryWithTx(tx Queryable) interfaces.GameSessionRepository {
	return &gameSessionRepository{q: tx}
}

func scanSession(row rowScanner) (*entities.GameSession, error) {
	var s entities.GameSession
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.GameType,
		&s.ServerSeed,
		&s.ServerSeedHash,
		&s.ClientSeed,
		&s.Nonce,
		&s.Status,
		&s.WinningNumber,
		&s.WinningCrypto,
		&s.TotalBetAmount,
		&s.TotalWinnings,
		&s.HouseEdgeAmount,
		&s.CreatedAt,
		&s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new session
func (r *gameSessionRepository) Create(ctx context.Context, session *entities.GameSession) error {
	query := `
		INSERT INTO game_sessions (user_id, game_type, server_seed, server_seed_hash, client_seed, nonce, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		session.UserID,
		session.GameType,
		session.ServerSeed,
		session.ServerSeedHash,
		session.ClientSeed,
		session.Nonce,
		session.Status,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game session: %w", err)
	}
	return nil
}

func (r *gameSessionRepository) getByID(ctx context.Context, id int64, forUpdate bool) (*entities.GameSession, error) {
	builder := psql.Select(sessionColumns...).
		From("game_sessions").
		Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session query: %w", err)
	}

	session, err := scanSession(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	return session, nil
}

// GetByID retrieves a session by ID
func (r *gameSessionRepository) GetByID(ctx context.Context, id int64) (*entities.GameSession, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves a session by ID and locks it
func (r *gameSessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.GameSession, error) {
	return r.getByID(ctx, id, true)
}

// Update persists nonce, status, outcome and totals
func (r *gameSessionRepository) Update(ctx context.Context, session *entities.GameSession) error {
	query := `
		UPDATE game_sessions SET
			nonce = $2,
			status = $3,
			winning_number = $4,
			winning_crypto = $5,
			total_bet_amount = $6,
			total_winnings = $7,
			house_edge_amount = $8,
			completed_at = $9
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		session.ID,
		session.Nonce,
		session.Status,
		session.WinningNumber,
		session.WinningCrypto,
		session.TotalBetAmount,
		session.TotalWinnings,
		session.HouseEdgeAmount,
		session.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update game session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game session %d not found", session.ID)
	}
	return nil
}

// List returns a user's sessions newest first
func (r *gameSessionRepository) List(ctx context.Context, filter entities.SessionHistoryFilter) ([]*entities.GameSession, error) {
	builder := psql.Select(sessionColumns...).
		From("game_sessions").
		Where(sq.Eq{"user_id": filter.UserID}).
		OrderBy("created_at DESC", "id DESC")

	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Since != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.Since})
	}
	builder = paginate(builder, filter.Limit, filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session history query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entities.GameSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game sessions: %w", err)
	}
	return sessions, nil
}

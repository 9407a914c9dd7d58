package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var tradeColumns = []string{
	"id", "initiator_id", "recipient_id", "offered_gems", "requested_gems",
	"status", "message", "expires_at", "created_at", "responded_at",
}

// tradeRepository implements the TradeRepository interface
type tradeRepository struct {
	q Queryable
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *database.DB) interfaces.TradeRepository {
	return &tradeRepository{q: db.Pool}
}

func newTradeRepositoryWithTx(tx Queryable) interfaces.TradeRepository {
	return &tradeRepository{q: tx}
}

func scanTrade(row rowScanner) (*entities.TradeOffer, error) {
	var t entities.TradeOffer
	err := row.Scan(
		&t.ID,
		&t.InitiatorID,
		&t.RecipientID,
		&t.OfferedGems,
		&t.RequestedGems,
		&t.Status,
		&t.Message,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts an offer and its item lines
func (r *tradeRepository) Create(ctx context.Context, trade *entities.TradeOffer) error {
	query := `
		INSERT INTO trade_offers (initiator_id, recipient_id, offered_gems, requested_gems, status, message, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		trade.InitiatorID,
		trade.RecipientID,
		trade.OfferedGems,
		trade.RequestedGems,
		trade.Status,
		trade.Message,
		trade.ExpiresAt,
	).Scan(&trade.ID, &trade.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trade offer: %w", err)
	}

	for _, item := range trade.Items {
		item.TradeOfferID = trade.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO trade_offer_items (trade_offer_id, side, item_id, quantity)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, item.TradeOfferID, item.Side, item.ItemID, item.Quantity).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create trade offer item: %w", err)
		}
	}
	return nil
}

func (r *tradeRepository) getByID(ctx context.Context, id int64, forUpdate bool) (*entities.TradeOffer, error) {
	builder := psql.Select(tradeColumns...).
		From("trade_offers").
		Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build trade query: %w", err)
	}

	trade, err := scanTrade(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade offer: %w", err)
	}

	if err := r.attachItems(ctx, []*entities.TradeOffer{trade}); err != nil {
		return nil, err
	}
	return trade, nil
}

// GetByID retrieves an offer with its item lines
func (r *tradeRepository) GetByID(ctx context.Context, id int64) (*entities.TradeOffer, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves and locks an offer with its item lines
func (r *tradeRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.TradeOffer, error) {
	return r.getByID(ctx, id, true)
}

// attachItems loads the item lines of all given offers in one query
func (r *tradeRepository) attachItems(ctx context.Context, trades []*entities.TradeOffer) error {
	if len(trades) == 0 {
		return nil
	}

	byID := make(map[int64]*entities.TradeOffer, len(trades))
	ids := make([]int64, 0, len(trades))
	for _, t := range trades {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, trade_offer_id, side, item_id, quantity
		FROM trade_offer_items
		WHERE trade_offer_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to get trade offer items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entities.TradeOfferItem
		if err := rows.Scan(&item.ID, &item.TradeOfferID, &item.Side, &item.ItemID, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan trade offer item: %w", err)
		}
		if t, ok := byID[item.TradeOfferID]; ok {
			t.Items = append(t.Items, &item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating trade offer items: %w", err)
	}
	return nil
}

// UpdateStatus moves an offer to a new status
func (r *tradeRepository) UpdateStatus(ctx context.Context, id int64, status entities.TradeStatus, respondedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE trade_offers SET status = $2, responded_at = $3 WHERE id = $1`,
		id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("failed to update trade status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade offer %d not found", id)
	}
	return nil
}

// CountPendingByInitiator counts a user's open outgoing offers. Offers past
// their expiry that the sweep has not reached yet are not counted.
func (r *tradeRepository) CountPendingByInitiator(ctx context.Context, userID int64, now time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM trade_offers WHERE initiator_id = $1 AND status = $2 AND expires_at > $3`,
		userID, entities.TradeStatusPending, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending trades: %w", err)
	}
	return count, nil
}

// List returns a user's offers newest first. With neither direction set both
// incoming and outgoing offers are returned.
func (r *tradeRepository) List(ctx context.Context, filter entities.TradeFilter) ([]*entities.TradeOffer, error) {
	builder := psql.Select(tradeColumns...).
		From("trade_offers").
		OrderBy("created_at DESC", "id DESC")

	switch {
	case filter.Incoming && !filter.Outgoing:
		builder = builder.Where(sq.Eq{"recipient_id": filter.UserID})
	case filter.Outgoing && !filter.Incoming:
		builder = builder.Where(sq.Eq{"initiator_id": filter.UserID})
	default:
		builder = builder.Where(sq.Or{
			sq.Eq{"initiator_id": filter.UserID},
			sq.Eq{"recipient_id": filter.UserID},
		})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	builder = paginate(builder, filter.Limit, filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build trade query: %w", err)
	}

	trades, err := r.queryTrades(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trade offers: %w", err)
	}
	if err := r.attachItems(ctx, trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// ExpirePending flips overdue pending offers to EXPIRED in one statement
func (r *tradeRepository) ExpirePending(ctx context.Context, now time.Time) ([]*entities.TradeOffer, error) {
	query := `
		UPDATE trade_offers SET status = $1, responded_at = $2
		WHERE status = $3 AND expires_at <= $2
		RETURNING id, initiator_id, recipient_id, offered_gems, requested_gems,
			status, message, expires_at, created_at, responded_at
	`

	trades, err := r.queryTrades(ctx, query, entities.TradeStatusExpired, now, entities.TradeStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to expire trade offers: %w", err)
	}
	if err := r.attachItems(ctx, trades); err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) queryTrades(ctx context.Context, query string, args ...any) ([]*entities.TradeOffer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*entities.TradeOffer
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

package repository

import (
	"context"
	"fmt"

	"gemwheel/database"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"

	sq "github.com/Masterminds/squirrel"
)

// transactionRepository implements the append-only ledger
type transactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(db *database.DB) interfaces.TransactionRepository {
	return &transactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx Queryable) interfaces.TransactionRepository {
	return &transactionRepository{q: tx}
}

// Record appends a ledger entry
func (r *transactionRepository) Record(ctx context.Context, tx *entities.VirtualTransaction) error {
	metadata := tx.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	query := `
		INSERT INTO virtual_transactions (wallet_id, user_id, transaction_type, currency_type, amount,
			source, description, reference_id, reference_type, balance_before, balance_after, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		tx.WalletID,
		tx.UserID,
		tx.TransactionType,
		tx.CurrencyType,
		tx.Amount,
		tx.Source,
		tx.Description,
		tx.ReferenceID,
		tx.ReferenceType,
		tx.BalanceBefore,
		tx.BalanceAfter,
		metadata,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// List returns ledger entries newest first
func (r *transactionRepository) List(ctx context.Context, filter entities.TransactionFilter) ([]*entities.VirtualTransaction, error) {
	builder := psql.Select(
		"id", "wallet_id", "user_id", "transaction_type", "currency_type", "amount",
		"source", "description", "reference_id", "reference_type",
		"balance_before", "balance_after", "metadata", "created_at",
	).
		From("virtual_transactions").
		Where(sq.Eq{"user_id": filter.UserID}).
		OrderBy("id DESC")

	if filter.CurrencyType != nil {
		builder = builder.Where(sq.Eq{"currency_type": *filter.CurrencyType})
	}
	if filter.Source != nil {
		builder = builder.Where(sq.Eq{"source": *filter.Source})
	}
	if filter.Since != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.Since})
	}
	if filter.Until != nil {
		builder = builder.Where(sq.Lt{"created_at": *filter.Until})
	}
	builder = paginate(builder, filter.Limit, filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*entities.VirtualTransaction
	for rows.Next() {
		var tx entities.VirtualTransaction
		err := rows.Scan(
			&tx.ID,
			&tx.WalletID,
			&tx.UserID,
			&tx.TransactionType,
			&tx.CurrencyType,
			&tx.Amount,
			&tx.Source,
			&tx.Description,
			&tx.ReferenceID,
			&tx.ReferenceType,
			&tx.BalanceBefore,
			&tx.BalanceAfter,
			&tx.Metadata,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// SumByCurrency totals signed amounts per currency for a wallet
func (r *transactionRepository) SumByCurrency(ctx context.Context, walletID int64) (map[entities.CurrencyType]int64, error) {
	query := `
		SELECT currency_type, COALESCE(SUM(amount), 0)::BIGINT
		FROM virtual_transactions
		WHERE wallet_id = $1
		GROUP BY currency_type
	`

	rows, err := r.q.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}
	defer rows.Close()

	sums := make(map[entities.CurrencyType]int64)
	for rows.Next() {
		var currency entities.CurrencyType
		var total int64
		if err := rows.Scan(&currency, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction sum: %w", err)
		}
		sums[currency] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction sums: %w", err)
	}
	return sums, nil
}

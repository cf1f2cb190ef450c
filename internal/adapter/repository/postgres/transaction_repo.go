package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, description, amount, kind, category, date, settled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Description,
		tx.Amount.String(),
		string(tx.Kind),
		string(tx.Category),
		tx.Date,
		tx.Settled,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's transactions, newest first
func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, kind, category, date, settled
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var amountStr string

		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Description,
			&amountStr,
			&tx.Kind,
			&tx.Category,
			&tx.Date,
			&tx.Settled,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		tx.Amount = amount

		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// SumByKindSince sums the amounts of a user's transactions of one kind
// dated on or after the given date. A zero `since` means all time.
func (r *transactionRepository) SumByKindSince(ctx context.Context, userID uuid.UUID, kind domain.TransactionKind, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND kind = $2 AND date >= $3
	`

	var totalStr string
	err := r.db.QueryRowContext(ctx, query, userID, string(kind), since).Scan(&totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse transaction sum: %w", err)
	}

	return total, nil
}

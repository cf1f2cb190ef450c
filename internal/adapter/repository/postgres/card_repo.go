package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// cardRepository implements domain.CardRepository
type cardRepository struct {
	db *DB
}

// NewCardRepository creates a new credit card repository
func NewCardRepository(db *DB) domain.CardRepository {
	return &cardRepository{db: db}
}

// ListByUser retrieves all credit cards of a user
func (r *cardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CreditCard, error) {
	query := `
		SELECT id, user_id, name, credit_limit, closing_day, due_day
		FROM credit_cards
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit cards: %w", err)
	}
	defer rows.Close()

	cards := make([]*domain.CreditCard, 0)
	for rows.Next() {
		var card domain.CreditCard
		var limitStr string

		err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.Name,
			&limitStr,
			&card.ClosingDay,
			&card.DueDay,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit card: %w", err)
		}

		limit, err := decimal.NewFromString(limitStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credit_limit: %w", err)
		}
		card.Limit = limit

		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credit cards: %w", err)
	}

	return cards, nil
}

// ListExpenses retrieves all expenses charged to a card ordered by purchase date
func (r *cardRepository) ListExpenses(ctx context.Context, cardID uuid.UUID) ([]*domain.CardExpense, error) {
	query := `
		SELECT id, card_id, description, amount, purchase_date, category, installments
		FROM card_expenses
		WHERE card_id = $1
		ORDER BY purchase_date DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list card expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.CardExpense, 0)
	for rows.Next() {
		var expense domain.CardExpense
		var amountStr string

		err := rows.Scan(
			&expense.ID,
			&expense.CardID,
			&expense.Description,
			&amountStr,
			&expense.PurchaseDate,
			&expense.Category,
			&expense.Installments,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card expense: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		expense.Amount = amount

		expenses = append(expenses, &expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card expenses: %w", err)
	}

	return expenses, nil
}

// SumExpenses sums the full purchase amounts charged to a card
func (r *cardRepository) SumExpenses(ctx context.Context, cardID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM card_expenses
		WHERE card_id = $1
	`

	var totalStr string
	err := r.db.QueryRowContext(ctx, query, cardID).Scan(&totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum card expenses: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse card expense sum: %w", err)
	}

	return total, nil
}

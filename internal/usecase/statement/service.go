package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// MonthStatement is the projected invoice of one card for one month
type MonthStatement struct {
	CardID    uuid.UUID
	CardName  string
	Year      int
	Month     time.Month
	Total     decimal.Decimal // sum of installments landing in the month
	TotalDebt decimal.Decimal // full outstanding purchase amounts
	Lines     []StatementLine
}

// StatementLine is one installment charge inside a month statement
type StatementLine struct {
	Description string
	Installment int // 1-based ordinal of the installment in the month
	Of          int // total installment count
	Amount      decimal.Decimal
}

// Service projects credit card purchases into monthly statements. Installment
// purchases contribute one equal slice per month starting at the purchase
// month; the projection is computed on demand and never persisted.
type Service struct {
	CardRepo domain.CardRepository

	log zerolog.Logger
}

// NewService creates a new statement Service instance
func NewService(cardRepo domain.CardRepository, log zerolog.Logger) *Service {
	return &Service{
		CardRepo: cardRepo,
		log:      log.With().Str("component", "statement").Logger(),
	}
}

// ProjectMonth builds the statement of a card for the given month
func (s *Service) ProjectMonth(ctx context.Context, card *domain.CreditCard, year int, month time.Month) (*MonthStatement, error) {
	expenses, err := s.CardRepo.ListExpenses(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list card expenses: %w", err)
	}

	statement := &MonthStatement{
		CardID:    card.ID,
		CardName:  card.Name,
		Year:      year,
		Month:     month,
		Total:     decimal.Zero,
		TotalDebt: decimal.Zero,
		Lines:     make([]StatementLine, 0, len(expenses)),
	}

	for _, expense := range expenses {
		statement.TotalDebt = statement.TotalDebt.Add(expense.Amount)

		if !expense.FallsInMonth(year, month) {
			continue
		}

		amount := expense.InstallmentAmount()
		statement.Total = statement.Total.Add(amount)
		statement.Lines = append(statement.Lines, StatementLine{
			Description: expense.Description,
			Installment: installmentOrdinal(expense, year, month),
			Of:          expense.Installments,
			Amount:      amount,
		})
	}

	s.log.Debug().
		Str("card_id", card.ID.String()).
		Int("year", year).
		Int("month", int(month)).
		Str("total", statement.Total.String()).
		Msg("Month statement projected")

	return statement, nil
}

// ProjectUserMonth builds the month statements of all of a user's cards
func (s *Service) ProjectUserMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]*MonthStatement, error) {
	cards, err := s.CardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	statements := make([]*MonthStatement, 0, len(cards))
	for _, card := range cards {
		statement, err := s.ProjectMonth(ctx, card, year, month)
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}

	return statements, nil
}

// installmentOrdinal returns which installment (1-based) of the expense
// lands in the given month. Callers must have checked FallsInMonth first.
func installmentOrdinal(expense *domain.CardExpense, year int, month time.Month) int {
	first := time.Date(expense.PurchaseDate.Year(), expense.PurchaseDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	target := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	return (target.Year()-first.Year())*12 + int(target.Month()) - int(first.Month()) + 1
}

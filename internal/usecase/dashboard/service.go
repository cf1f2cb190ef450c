package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// CashFlowSummary aggregates a user's income and expenses over a window
type CashFlowSummary struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Balance     decimal.Decimal
	SavingsRate decimal.Decimal // percent; zero when there is no income
}

// BillView pairs a bill with its due status as of a reference date
type BillView struct {
	Bill   *domain.Bill
	Status domain.BillStatus
}

// Service serves the aggregated home-screen views: cash flow over a window
// and the bill agenda with computed due statuses.
type Service struct {
	TransactionRepo domain.TransactionRepository
	BillRepo        domain.BillRepository

	log zerolog.Logger
}

// NewService creates a new dashboard Service instance
func NewService(transactionRepo domain.TransactionRepository, billRepo domain.BillRepository, log zerolog.Logger) *Service {
	return &Service{
		TransactionRepo: transactionRepo,
		BillRepo:        billRepo,
		log:             log.With().Str("component", "dashboard").Logger(),
	}
}

// RecordTransaction validates and persists a cash-flow transaction
func (s *Service) RecordTransaction(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return &domain.ValidationError{Err: fmt.Errorf("invalid transaction: %w", err)}
	}

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	s.log.Info().
		Str("transaction_id", tx.ID.String()).
		Str("kind", string(tx.Kind)).
		Str("amount", tx.Amount.String()).
		Msg("Transaction recorded")

	return nil
}

// GetCashFlow sums a user's transactions dated on or after `since`
func (s *Service) GetCashFlow(ctx context.Context, userID uuid.UUID, since time.Time) (*CashFlowSummary, error) {
	income, err := s.TransactionRepo.SumByKindSince(ctx, userID, domain.TransactionIncome, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}

	expense, err := s.TransactionRepo.SumByKindSince(ctx, userID, domain.TransactionExpense, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	balance := income.Sub(expense)
	rate := decimal.Zero
	if income.GreaterThan(decimal.Zero) {
		rate = balance.Div(income).Mul(decimal.NewFromInt(100))
	}

	return &CashFlowSummary{
		Income:      income,
		Expense:     expense,
		Balance:     balance,
		SavingsRate: rate,
	}, nil
}

// RecordBill validates and persists a payable bill
func (s *Service) RecordBill(ctx context.Context, bill *domain.Bill) error {
	if err := bill.Validate(); err != nil {
		return &domain.ValidationError{Err: fmt.Errorf("invalid bill: %w", err)}
	}

	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}

	if err := s.BillRepo.Create(ctx, bill); err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

// ListBills returns a user's bills annotated with due status as of today
func (s *Service) ListBills(ctx context.Context, userID uuid.UUID, today time.Time) ([]BillView, error) {
	bills, err := s.BillRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	views := make([]BillView, 0, len(bills))
	for _, bill := range bills {
		views = append(views, BillView{
			Bill:   bill,
			Status: bill.DueStatus(today),
		})
	}

	return views, nil
}

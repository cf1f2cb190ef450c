package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// billRepository implements domain.BillRepository
type billRepository struct {
	db *DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *DB) domain.BillRepository {
	return &billRepository{db: db}
}

// Create creates a new bill
func (r *billRepository) Create(ctx context.Context, bill *domain.Bill) error {
	query := `
		INSERT INTO bills (id, user_id, title, amount, due_date, paid, recurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		bill.ID,
		bill.UserID,
		bill.Title,
		bill.Amount.String(),
		bill.DueDate,
		bill.Paid,
		string(bill.Recurrence),
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

// ListByUser retrieves all bills of a user ordered by due date
func (r *billRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Bill, error) {
	query := `
		SELECT id, user_id, title, amount, due_date, paid, recurrence
		FROM bills
		WHERE user_id = $1
		ORDER BY due_date
	`

	return r.queryBills(ctx, query, userID)
}

// ListUnpaidDueBefore retrieves unpaid bills due strictly before the given date
func (r *billRepository) ListUnpaidDueBefore(ctx context.Context, userID uuid.UUID, date time.Time) ([]*domain.Bill, error) {
	query := `
		SELECT id, user_id, title, amount, due_date, paid, recurrence
		FROM bills
		WHERE user_id = $1 AND paid = FALSE AND due_date < $2
		ORDER BY due_date
	`

	return r.queryBills(ctx, query, userID, date)
}

func (r *billRepository) queryBills(ctx context.Context, query string, args ...interface{}) ([]*domain.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]*domain.Bill, 0)
	for rows.Next() {
		var bill domain.Bill
		var amountStr string

		err := rows.Scan(
			&bill.ID,
			&bill.UserID,
			&bill.Title,
			&amountStr,
			&bill.DueDate,
			&bill.Paid,
			&bill.Recurrence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		bill.Amount = amount

		bills = append(bills, &bill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

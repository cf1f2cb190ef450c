package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// operationRepository implements domain.OperationRepository
type operationRepository struct {
	db *DB
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *DB) domain.OperationRepository {
	return &operationRepository{db: db}
}

// GetByID retrieves an operation by its ID
func (r *operationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	query := `
		SELECT id, instrument_id, kind, date, quantity, unit_price, fees
		FROM operations
		WHERE id = $1
	`

	op, err := scanOperation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("operation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get operation by ID: %w", err)
	}

	return op, nil
}

// ListByInstrument retrieves the full operation history of an instrument
// ordered by date
func (r *operationRepository) ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*domain.Operation, error) {
	query := `
		SELECT id, instrument_id, kind, date, quantity, unit_price, fees
		FROM operations
		WHERE instrument_id = $1
		ORDER BY date, id
	`

	rows, err := r.db.QueryContext(ctx, query, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	operations := make([]*domain.Operation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operations: %w", err)
	}

	return operations, nil
}

// Create appends a new operation to the ledger
func (r *operationRepository) Create(ctx context.Context, op *domain.Operation) error {
	query := `
		INSERT INTO operations (id, instrument_id, kind, date, quantity, unit_price, fees)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		op.ID,
		op.InstrumentID,
		string(op.Kind),
		op.Date,
		op.Quantity.String(),
		op.UnitPrice.String(),
		op.Fees.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}

	return nil
}

// Update overwrites an existing operation
func (r *operationRepository) Update(ctx context.Context, op *domain.Operation) error {
	query := `
		UPDATE operations
		SET kind = $2, date = $3, quantity = $4, unit_price = $5, fees = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		op.ID,
		string(op.Kind),
		op.Date,
		op.Quantity.String(),
		op.UnitPrice.String(),
		op.Fees.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("operation %s: %w", op.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an operation from the ledger
func (r *operationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM operations WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}

	return nil
}

func scanOperation(row rowScanner) (*domain.Operation, error) {
	var op domain.Operation
	var quantityStr, priceStr, feesStr string

	err := row.Scan(
		&op.ID,
		&op.InstrumentID,
		&op.Kind,
		&op.Date,
		&quantityStr,
		&priceStr,
		&feesStr,
	)
	if err != nil {
		return nil, err
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	op.Quantity = quantity

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse unit_price: %w", err)
	}
	op.UnitPrice = price

	fees, err := decimal.NewFromString(feesStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fees: %w", err)
	}
	op.Fees = fees

	return &op, nil
}

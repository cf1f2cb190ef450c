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

// instrumentRepository implements domain.InstrumentRepository
type instrumentRepository struct {
	db *DB
}

// NewInstrumentRepository creates a new instrument repository
func NewInstrumentRepository(db *DB) domain.InstrumentRepository {
	return &instrumentRepository{db: db}
}

// GetByID retrieves an instrument by its ID
func (r *instrumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Instrument, error) {
	query := `
		SELECT id, user_id, ticker, category, sector, quantity_held, average_price
		FROM instruments
		WHERE id = $1
	`

	instrument, err := scanInstrument(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("instrument %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get instrument by ID: %w", err)
	}

	return instrument, nil
}

// ListByUser retrieves all instruments owned by a user
func (r *instrumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Instrument, error) {
	query := `
		SELECT id, user_id, ticker, category, sector, quantity_held, average_price
		FROM instruments
		WHERE user_id = $1
		ORDER BY ticker
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	defer rows.Close()

	instruments := make([]*domain.Instrument, 0)
	for rows.Next() {
		instrument, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, instrument)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate instruments: %w", err)
	}

	return instruments, nil
}

// ListUserIDs retrieves the distinct IDs of users that hold instruments
func (r *instrumentRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT user_id FROM instruments`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user IDs: %w", err)
	}

	return ids, nil
}

// Create creates a new instrument
func (r *instrumentRepository) Create(ctx context.Context, instrument *domain.Instrument) error {
	query := `
		INSERT INTO instruments (id, user_id, ticker, category, sector, quantity_held, average_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		instrument.ID,
		instrument.UserID,
		instrument.Ticker,
		string(instrument.Category),
		instrument.Sector,
		instrument.QuantityHeld.String(),
		instrument.AveragePrice.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create instrument: %w", err)
	}

	return nil
}

// UpdatePosition overwrites the derived position cache of an instrument
func (r *instrumentRepository) UpdatePosition(ctx context.Context, id uuid.UUID, quantity, averagePrice decimal.Decimal) error {
	query := `
		UPDATE instruments
		SET quantity_held = $2, average_price = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, quantity.String(), averagePrice.String())
	if err != nil {
		return fmt.Errorf("failed to update instrument position: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("instrument %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an instrument and, transitively, its operations and
// analysis record (enforced by ON DELETE CASCADE).
func (r *instrumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM instruments WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete instrument: %w", err)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInstrument(row rowScanner) (*domain.Instrument, error) {
	var instrument domain.Instrument
	var quantityStr, priceStr string

	err := row.Scan(
		&instrument.ID,
		&instrument.UserID,
		&instrument.Ticker,
		&instrument.Category,
		&instrument.Sector,
		&quantityStr,
		&priceStr,
	)
	if err != nil {
		return nil, err
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity_held: %w", err)
	}
	instrument.QuantityHeld = quantity

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse average_price: %w", err)
	}
	instrument.AveragePrice = price

	return &instrument, nil
}

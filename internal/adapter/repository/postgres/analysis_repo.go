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

// analysisRepository implements domain.AnalysisRepository
type analysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *DB) domain.AnalysisRepository {
	return &analysisRepository{db: db}
}

// Upsert writes the analysis record for an instrument, replacing any
// previous record. One record per instrument, no history.
func (r *analysisRepository) Upsert(ctx context.Context, record *domain.AnalysisRecord) error {
	query := `
		INSERT INTO analysis_records (
			instrument_id, price, score, recommendation,
			meets_dividend_yield, meets_pe, meets_pb, meets_roe, meets_debt_to_equity,
			pe, pb, dividend_yield, return_on_equity, generated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (instrument_id) DO UPDATE SET
			price = EXCLUDED.price,
			score = EXCLUDED.score,
			recommendation = EXCLUDED.recommendation,
			meets_dividend_yield = EXCLUDED.meets_dividend_yield,
			meets_pe = EXCLUDED.meets_pe,
			meets_pb = EXCLUDED.meets_pb,
			meets_roe = EXCLUDED.meets_roe,
			meets_debt_to_equity = EXCLUDED.meets_debt_to_equity,
			pe = EXCLUDED.pe,
			pb = EXCLUDED.pb,
			dividend_yield = EXCLUDED.dividend_yield,
			return_on_equity = EXCLUDED.return_on_equity,
			generated_at = EXCLUDED.generated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		record.InstrumentID,
		record.Price.String(),
		record.Score,
		record.Recommendation,
		record.MeetsDividendYield,
		record.MeetsPE,
		record.MeetsPB,
		record.MeetsROE,
		record.MeetsDebtToEquity,
		record.PE.String(),
		record.PB.String(),
		record.DividendYield.String(),
		record.ReturnOnEquity.String(),
		record.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert analysis record: %w", err)
	}

	return nil
}

// GetByInstrument retrieves the latest analysis record for an instrument
func (r *analysisRepository) GetByInstrument(ctx context.Context, instrumentID uuid.UUID) (*domain.AnalysisRecord, error) {
	query := `
		SELECT instrument_id, price, score, recommendation,
		       meets_dividend_yield, meets_pe, meets_pb, meets_roe, meets_debt_to_equity,
		       pe, pb, dividend_yield, return_on_equity, generated_at
		FROM analysis_records
		WHERE instrument_id = $1
	`

	record, err := scanAnalysisRecord(r.db.QueryRowContext(ctx, query, instrumentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis record for instrument %s: %w", instrumentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get analysis record: %w", err)
	}

	return record, nil
}

// ListByUser retrieves the analysis records for all of a user's instruments
func (r *analysisRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AnalysisRecord, error) {
	query := `
		SELECT a.instrument_id, a.price, a.score, a.recommendation,
		       a.meets_dividend_yield, a.meets_pe, a.meets_pb, a.meets_roe, a.meets_debt_to_equity,
		       a.pe, a.pb, a.dividend_yield, a.return_on_equity, a.generated_at
		FROM analysis_records a
		JOIN instruments i ON i.id = a.instrument_id
		WHERE i.user_id = $1
		ORDER BY a.score DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.AnalysisRecord, 0)
	for rows.Next() {
		record, err := scanAnalysisRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysis records: %w", err)
	}

	return records, nil
}

func scanAnalysisRecord(row rowScanner) (*domain.AnalysisRecord, error) {
	var record domain.AnalysisRecord
	var priceStr, peStr, pbStr, dyStr, roeStr string

	err := row.Scan(
		&record.InstrumentID,
		&priceStr,
		&record.Score,
		&record.Recommendation,
		&record.MeetsDividendYield,
		&record.MeetsPE,
		&record.MeetsPB,
		&record.MeetsROE,
		&record.MeetsDebtToEquity,
		&peStr,
		&pbStr,
		&dyStr,
		&roeStr,
		&record.GeneratedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, field := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"price", priceStr, &record.Price},
		{"pe", peStr, &record.PE},
		{"pb", pbStr, &record.PB},
		{"dividend_yield", dyStr, &record.DividendYield},
		{"return_on_equity", roeStr, &record.ReturnOnEquity},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.dst = value
	}

	return &record, nil
}

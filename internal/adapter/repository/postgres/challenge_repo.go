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

// challengeRepository implements domain.ChallengeRepository
type challengeRepository struct {
	db *DB
}

// NewChallengeRepository creates a new savings challenge repository
func NewChallengeRepository(db *DB) domain.ChallengeRepository {
	return &challengeRepository{db: db}
}

// GetByID retrieves a challenge by its ID
func (r *challengeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsChallenge, error) {
	query := `
		SELECT id, user_id, goal, initial_amount, increment, duration_weeks, start_date, completed
		FROM savings_challenges
		WHERE id = $1
	`

	var challenge domain.SavingsChallenge
	var initialStr, incrementStr string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&challenge.ID,
		&challenge.UserID,
		&challenge.Goal,
		&initialStr,
		&incrementStr,
		&challenge.DurationWeeks,
		&challenge.StartDate,
		&challenge.Completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("challenge %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get challenge by ID: %w", err)
	}

	initial, err := decimal.NewFromString(initialStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse initial_amount: %w", err)
	}
	challenge.InitialAmount = initial

	increment, err := decimal.NewFromString(incrementStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse increment: %w", err)
	}
	challenge.Increment = increment

	return &challenge, nil
}

// Create creates a challenge together with its generated weekly schedule
// in a single database transaction
func (r *challengeRepository) Create(ctx context.Context, challenge *domain.SavingsChallenge, weeks []domain.ChallengeWeek) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertChallengeQuery := `
		INSERT INTO savings_challenges (id, user_id, goal, initial_amount, increment, duration_weeks, start_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = dbTx.ExecContext(ctx, insertChallengeQuery,
		challenge.ID,
		challenge.UserID,
		challenge.Goal,
		challenge.InitialAmount.String(),
		challenge.Increment.String(),
		challenge.DurationWeeks,
		challenge.StartDate,
		challenge.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}

	insertWeekQuery := `
		INSERT INTO challenge_weeks (id, challenge_id, number, due_date, amount, paid, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, week := range weeks {
		_, err = dbTx.ExecContext(ctx, insertWeekQuery,
			week.ID,
			week.ChallengeID,
			week.Number,
			week.DueDate,
			week.Amount.String(),
			week.Paid,
			week.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert challenge week: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListWeeks retrieves the weekly schedule of a challenge ordered by number
func (r *challengeRepository) ListWeeks(ctx context.Context, challengeID uuid.UUID) ([]domain.ChallengeWeek, error) {
	query := `
		SELECT id, challenge_id, number, due_date, amount, paid, paid_at
		FROM challenge_weeks
		WHERE challenge_id = $1
		ORDER BY number
	`

	rows, err := r.db.QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenge weeks: %w", err)
	}
	defer rows.Close()

	weeks := make([]domain.ChallengeWeek, 0)
	for rows.Next() {
		var week domain.ChallengeWeek
		var amountStr string
		var paidAt sql.NullTime

		err := rows.Scan(
			&week.ID,
			&week.ChallengeID,
			&week.Number,
			&week.DueDate,
			&amountStr,
			&week.Paid,
			&paidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge week: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		week.Amount = amount

		if paidAt.Valid {
			week.PaidAt = &paidAt.Time
		}

		weeks = append(weeks, week)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate challenge weeks: %w", err)
	}

	return weeks, nil
}

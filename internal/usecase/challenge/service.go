package challenge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// Progress summarizes how far along a savings challenge is
type Progress struct {
	Challenge *domain.SavingsChallenge
	Weeks     []domain.ChallengeWeek
	Planned   decimal.Decimal
	Paid      decimal.Decimal
	Percent   decimal.Decimal
}

// Service manages savings challenges: it generates the weekly deposit
// schedule at creation time and reports progress against it.
type Service struct {
	ChallengeRepo domain.ChallengeRepository

	log zerolog.Logger
}

// NewService creates a new challenge Service instance
func NewService(challengeRepo domain.ChallengeRepository, log zerolog.Logger) *Service {
	return &Service{
		ChallengeRepo: challengeRepo,
		log:           log.With().Str("component", "challenge").Logger(),
	}
}

// Start validates the challenge, generates its full weekly schedule, and
// persists both atomically.
func (s *Service) Start(ctx context.Context, challenge *domain.SavingsChallenge) error {
	if err := challenge.Validate(); err != nil {
		return &domain.ValidationError{Err: fmt.Errorf("invalid challenge: %w", err)}
	}

	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}

	weeks := BuildSchedule(challenge)

	if err := s.ChallengeRepo.Create(ctx, challenge, weeks); err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	s.log.Info().
		Str("challenge_id", challenge.ID.String()).
		Int("weeks", len(weeks)).
		Str("planned_total", challenge.PlannedTotal().String()).
		Msg("Savings challenge started")

	return nil
}

// GetProgress loads a challenge with its schedule and computes totals
func (s *Service) GetProgress(ctx context.Context, challengeID uuid.UUID) (*Progress, error) {
	challenge, err := s.ChallengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	weeks, err := s.ChallengeRepo.ListWeeks(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenge weeks: %w", err)
	}

	return &Progress{
		Challenge: challenge,
		Weeks:     weeks,
		Planned:   challenge.PlannedTotal(),
		Paid:      challenge.PaidTotal(weeks),
		Percent:   challenge.Progress(weeks),
	}, nil
}

// BuildSchedule generates the weekly deposit ladder: week n deposits
// initial + (n-1) * increment, due n-1 weeks after the start date.
func BuildSchedule(challenge *domain.SavingsChallenge) []domain.ChallengeWeek {
	weeks := make([]domain.ChallengeWeek, 0, challenge.DurationWeeks)

	for n := 1; n <= challenge.DurationWeeks; n++ {
		amount := challenge.InitialAmount.Add(
			challenge.Increment.Mul(decimal.NewFromInt(int64(n - 1))))

		weeks = append(weeks, domain.ChallengeWeek{
			ID:          uuid.New(),
			ChallengeID: challenge.ID,
			Number:      n,
			DueDate:     challenge.StartDate.AddDate(0, 0, (n-1)*7),
			Amount:      amount,
		})
	}

	return weeks
}

package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
	"github.com/dmoura/financo-backend/internal/usecase/classifier"
)

// FundamentalsSource provides a market fundamentals snapshot for one
// instrument. The source owns the symbol transform for its venue and must
// substitute zero for any field it cannot supply.
type FundamentalsSource interface {
	Fundamentals(ctx context.Context, ticker string, category domain.Category) (domain.FundamentalsSnapshot, error)
}

// Service runs the fundamentals checklist over every instrument a user
// owns and persists the resulting analysis records.
type Service struct {
	InstrumentRepo domain.InstrumentRepository
	AnalysisRepo   domain.AnalysisRepository
	Fundamentals   FundamentalsSource

	fetchTimeout time.Duration
	log          zerolog.Logger
}

// NewService creates a new analyzer Service instance
func NewService(
	instrumentRepo domain.InstrumentRepository,
	analysisRepo domain.AnalysisRepository,
	fundamentals FundamentalsSource,
	log zerolog.Logger,
) *Service {
	return &Service{
		InstrumentRepo: instrumentRepo,
		AnalysisRepo:   analysisRepo,
		Fundamentals:   fundamentals,
		fetchTimeout:   15 * time.Second,
		log:            log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze classifies every instrument owned by the user and upserts one
// analysis record per instrument.
//
// The total portfolio invested value is computed once, before any
// per-instrument work, because target-allocation categories score against
// it. A failed fetch or persist for one instrument is logged and skipped;
// a single instrument must never abort the batch.
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID) error {
	instruments, err := s.InstrumentRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list instruments: %w", err)
	}

	portfolioTotal := decimal.Zero
	for _, instrument := range instruments {
		portfolioTotal = portfolioTotal.Add(instrument.InvestedValue())
	}

	for _, instrument := range instruments {
		if err := s.analyzeOne(ctx, instrument, portfolioTotal); err != nil {
			s.log.Warn().
				Err(err).
				Str("ticker", instrument.Ticker).
				Msg("Skipping instrument analysis")
		}
	}

	return nil
}

func (s *Service) analyzeOne(ctx context.Context, instrument *domain.Instrument, portfolioTotal decimal.Decimal) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	snapshot, err := s.Fundamentals.Fundamentals(fetchCtx, instrument.Ticker, instrument.Category)
	if err != nil {
		return fmt.Errorf("fundamentals fetch failed: %w", err)
	}

	scorer := classifier.ForCategory(instrument.Category)
	result := scorer.Evaluate(classifier.Input{
		Snapshot:       snapshot,
		InvestedValue:  instrument.InvestedValue(),
		PortfolioTotal: portfolioTotal,
	})

	record := &domain.AnalysisRecord{
		InstrumentID:       instrument.ID,
		Price:              snapshot.Price,
		Score:              result.Score,
		Recommendation:     result.Recommendation,
		MeetsDividendYield: result.MeetsDividendYield,
		MeetsPE:            result.MeetsPE,
		MeetsPB:            result.MeetsPB,
		MeetsROE:           result.MeetsROE,
		MeetsDebtToEquity:  result.MeetsDebtToEquity,
		PE:                 result.PE,
		PB:                 result.PB,
		DividendYield:      result.DividendYield,
		ReturnOnEquity:     result.ReturnOnEquity,
		GeneratedAt:        time.Now(),
	}

	if err := s.AnalysisRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to persist analysis: %w", err)
	}

	s.log.Debug().
		Str("ticker", instrument.Ticker).
		Int("score", result.Score).
		Str("recommendation", result.Recommendation).
		Msg("Instrument analyzed")

	return nil
}

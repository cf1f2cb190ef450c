package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmoura/financo-backend/internal/domain"
	"github.com/dmoura/financo-backend/internal/usecase/analyzer"
	"github.com/dmoura/financo-backend/internal/usecase/screener"
)

const jobTimeout = 10 * time.Minute

// AnalysisJob runs the fundamentals checklist over every user's portfolio
type AnalysisJob struct {
	Analyzer       *analyzer.Service
	InstrumentRepo domain.InstrumentRepository
	Log            zerolog.Logger
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "portfolio-analysis"
}

// Run analyzes all users' portfolios. One failing user does not abort the
// run; the first error is reported after all users were attempted.
func (j *AnalysisJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	userIDs, err := j.InstrumentRepo.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var firstErr error
	for _, userID := range userIDs {
		if err := j.Analyzer.Analyze(ctx, userID); err != nil {
			j.Log.Warn().Err(err).
				Str("user_id", userID.String()).
				Msg("Portfolio analysis failed for user")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// ScreenerJob runs the nightly market-wide screening pass
type ScreenerJob struct {
	Screener *screener.Service
	Log      zerolog.Logger
}

// Name returns the job name
func (j *ScreenerJob) Name() string {
	return "market-screener"
}

// Run scans the market universe and logs the surviving candidates
func (j *ScreenerJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	candidates, err := j.Screener.Scan(ctx)
	if err != nil {
		return fmt.Errorf("market scan failed: %w", err)
	}

	for _, candidate := range candidates {
		j.Log.Info().
			Str("ticker", candidate.Ticker).
			Str("dividend_yield", candidate.DividendYield.String()).
			Str("pe", candidate.PE.String()).
			Msg("Screener candidate")
	}

	return nil
}

package screener

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Filter pipeline constants. Note the comparison operators: the screener
// filters dividend yield and ROE strictly (> 6%, > 10%) while the per-user
// checklist uses inclusive thresholds.
var (
	minLiquidity     = decimal.NewFromInt(1_000_000) // 2-month average daily volume
	maxPE            = decimal.RequireFromString("15.0")
	maxPB            = decimal.RequireFromString("1.5")
	minDividendYield = decimal.RequireFromString("6.0")  // percent, strict
	minROE           = decimal.RequireFromString("10.0") // percent, strict
)

const topN = 20

// RawRow is one instrument of the bulk market universe as supplied by the
// external source: numeric fields are still locale-formatted strings
// ("1.234.567" volumes, "6,5%" yields).
type RawRow struct {
	Ticker        string
	Sector        string
	Price         string
	PE            string
	PB            string
	DividendYield string
	ROE           string
	Liquidity     string
}

// Candidate is one screened instrument with normalized numeric fields
type Candidate struct {
	Ticker        string
	Sector        string
	Price         decimal.Decimal
	PE            decimal.Decimal
	PB            decimal.Decimal
	DividendYield decimal.Decimal // percent
	ROE           decimal.Decimal // percent
	Liquidity     decimal.Decimal
}

// UniverseSource supplies the raw market-wide fundamentals table
type UniverseSource interface {
	Universe(ctx context.Context) ([]RawRow, error)
}

// Service screens the bulk market universe against a fixed fundamentals
// filter pipeline and ranks the survivors by dividend yield.
type Service struct {
	Source UniverseSource
	log    zerolog.Logger
}

// NewService creates a new screener Service instance
func NewService(source UniverseSource, log zerolog.Logger) *Service {
	return &Service{
		Source: source,
		log:    log.With().Str("component", "screener").Logger(),
	}
}

// Scan fetches the universe, normalizes each row, applies the filter
// pipeline, and returns the top candidates sorted descending by dividend
// yield. A row that fails to parse is dropped, never fatal to the batch.
func (s *Service) Scan(ctx context.Context) ([]Candidate, error) {
	rows, err := s.Source.Universe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market universe: %w", err)
	}

	candidates := make([]Candidate, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		candidate, err := parseRow(row)
		if err != nil {
			dropped++
			s.log.Debug().Err(err).Str("ticker", row.Ticker).Msg("Dropping unparseable row")
			continue
		}

		if passesFilters(candidate) {
			candidates = append(candidates, candidate)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DividendYield.GreaterThan(candidates[j].DividendYield)
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	s.log.Info().
		Int("universe", len(rows)).
		Int("dropped", dropped).
		Int("candidates", len(candidates)).
		Msg("Market scan complete")

	return candidates, nil
}

// parseRow normalizes one raw universe row into decimal fields
func parseRow(row RawRow) (Candidate, error) {
	price, err := parseLocaleNumber(row.Price)
	if err != nil {
		return Candidate{}, fmt.Errorf("price: %w", err)
	}

	pe, err := parseLocaleNumber(row.PE)
	if err != nil {
		return Candidate{}, fmt.Errorf("P/E: %w", err)
	}

	pb, err := parseLocaleNumber(row.PB)
	if err != nil {
		return Candidate{}, fmt.Errorf("P/B: %w", err)
	}

	dy, err := parsePercent(row.DividendYield)
	if err != nil {
		return Candidate{}, fmt.Errorf("dividend yield: %w", err)
	}

	roe, err := parsePercent(row.ROE)
	if err != nil {
		return Candidate{}, fmt.Errorf("ROE: %w", err)
	}

	liquidity, err := parseLocaleNumber(row.Liquidity)
	if err != nil {
		return Candidate{}, fmt.Errorf("liquidity: %w", err)
	}

	return Candidate{
		Ticker:        row.Ticker,
		Sector:        row.Sector,
		Price:         price,
		PE:            pe,
		PB:            pb,
		DividendYield: dy,
		ROE:           roe,
		Liquidity:     liquidity,
	}, nil
}

// passesFilters applies the fixed filter pipeline
func passesFilters(c Candidate) bool {
	if c.Liquidity.LessThan(minLiquidity) {
		return false
	}

	if !c.PE.GreaterThan(decimal.Zero) || c.PE.GreaterThan(maxPE) {
		return false
	}

	if !c.PB.GreaterThan(decimal.Zero) || c.PB.GreaterThan(maxPB) {
		return false
	}

	if !c.DividendYield.GreaterThan(minDividendYield) {
		return false
	}

	if !c.ROE.GreaterThan(minROE) {
		return false
	}

	return true
}

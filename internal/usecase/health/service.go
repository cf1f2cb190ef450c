package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// Severity tags a recommendation with its urgency level
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityPrimary Severity = "primary"
)

// Recommendation is one prioritized textual advice item
type Recommendation struct {
	Severity Severity
	Title    string
	Message  string
}

// Snapshot is the computed financial-health diagnosis. It is never
// persisted: it reads live data and is valid only for the instant it is
// computed.
type Snapshot struct {
	Score           int             // 0-100
	SavingsRate     decimal.Decimal // percent over the last 30 days
	OverdueTotal    decimal.Decimal
	CardUtilization decimal.Decimal // percent of total credit limit
	Recommendations []Recommendation
}

// Scoring weights: the score starts at a neutral 50 and each signal moves it
const (
	baselineScore = 50

	savingsExcellentBonus = 30
	savingsPositiveBonus  = 15
	savingsDeficitPenalty = 20

	overduePenalty = 30
	noOverdueBonus = 10

	highUtilizationPenalty     = 20
	moderateUtilizationPenalty = 5
	healthyUtilizationBonus    = 10
)

var (
	excellentSavingsRate = decimal.NewFromInt(20) // percent
	highCardUtilization  = decimal.NewFromInt(70) // percent
	moderateUtilization  = decimal.NewFromInt(30) // percent
	oneHundred           = decimal.NewFromInt(100)
)

const cashFlowWindowDays = 30

// Service aggregates cash-flow, debt, and portfolio-quality signals into a
// single 0-100 financial-health score with prioritized recommendations.
type Service struct {
	TransactionRepo domain.TransactionRepository
	BillRepo        domain.BillRepository
	CardRepo        domain.CardRepository
	InstrumentRepo  domain.InstrumentRepository
	AnalysisRepo    domain.AnalysisRepository

	log zerolog.Logger
}

// NewService creates a new health Service instance
func NewService(
	transactionRepo domain.TransactionRepository,
	billRepo domain.BillRepository,
	cardRepo domain.CardRepository,
	instrumentRepo domain.InstrumentRepository,
	analysisRepo domain.AnalysisRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		TransactionRepo: transactionRepo,
		BillRepo:        billRepo,
		CardRepo:        cardRepo,
		InstrumentRepo:  instrumentRepo,
		AnalysisRepo:    analysisRepo,
		log:             log.With().Str("component", "health").Logger(),
	}
}

// Diagnose computes the health snapshot for a user as of the given date.
// Every denominator (income, credit limit, portfolio total) is guarded:
// a zero denominator yields a zero rate, never an error.
func (s *Service) Diagnose(ctx context.Context, userID uuid.UUID, today time.Time) (*Snapshot, error) {
	// Bills compare by calendar day: a bill due today is not overdue yet,
	// so the clock must not leak into the strict due_date comparison.
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -cashFlowWindowDays)

	income, err := s.TransactionRepo.SumByKindSince(ctx, userID, domain.TransactionIncome, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}

	expense, err := s.TransactionRepo.SumByKindSince(ctx, userID, domain.TransactionExpense, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	balance := income.Sub(expense)
	savingsRate := decimal.Zero
	if income.GreaterThan(decimal.Zero) {
		savingsRate = balance.Div(income).Mul(oneHundred)
	}

	overdueBills, err := s.BillRepo.ListUnpaidDueBefore(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue bills: %w", err)
	}

	overdueTotal := decimal.Zero
	for _, bill := range overdueBills {
		overdueTotal = overdueTotal.Add(bill.Amount)
	}

	cardDebt, cardLimit, err := s.cardTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	utilization := decimal.Zero
	if cardLimit.GreaterThan(decimal.Zero) {
		utilization = cardDebt.Div(cardLimit).Mul(oneHundred)
	}

	instruments, err := s.InstrumentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	totalInvested := decimal.Zero
	for _, instrument := range instruments {
		totalInvested = totalInvested.Add(instrument.InvestedValue())
	}

	records, err := s.AnalysisRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}

	score := s.computeScore(savingsRate, len(overdueBills), utilization)

	snapshot := &Snapshot{
		Score:           score,
		SavingsRate:     savingsRate,
		OverdueTotal:    overdueTotal,
		CardUtilization: utilization,
		Recommendations: s.buildRecommendations(
			balance, savingsRate,
			overdueBills, overdueTotal,
			utilization,
			instruments, records,
			totalInvested,
		),
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Int("score", score).
		Msg("Health diagnosis computed")

	return snapshot, nil
}

func (s *Service) cardTotals(ctx context.Context, userID uuid.UUID) (debt, limit decimal.Decimal, err error) {
	cards, err := s.CardRepo.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to list cards: %w", err)
	}

	debt = decimal.Zero
	limit = decimal.Zero
	for _, card := range cards {
		limit = limit.Add(card.Limit)

		spent, err := s.CardRepo.SumExpenses(ctx, card.ID)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum card expenses: %w", err)
		}
		debt = debt.Add(spent)
	}

	return debt, limit, nil
}

// computeScore starts from the neutral baseline and applies the three
// signal adjustments, clamping the result to [0, 100].
func (s *Service) computeScore(savingsRate decimal.Decimal, overdueCount int, utilization decimal.Decimal) int {
	score := baselineScore

	switch {
	case savingsRate.GreaterThanOrEqual(excellentSavingsRate):
		score += savingsExcellentBonus
	case savingsRate.GreaterThan(decimal.Zero):
		score += savingsPositiveBonus
	default:
		score -= savingsDeficitPenalty
	}

	if overdueCount > 0 {
		score -= overduePenalty
	} else {
		score += noOverdueBonus
	}

	switch {
	case utilization.GreaterThan(highCardUtilization):
		score -= highUtilizationPenalty
	case utilization.GreaterThan(moderateUtilization):
		score -= moderateUtilizationPenalty
	default:
		score += healthyUtilizationBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}

// buildRecommendations assembles the advice list in fixed priority order.
// Exactly one of the three cash-flow items fires; the rest are independent.
func (s *Service) buildRecommendations(
	balance, savingsRate decimal.Decimal,
	overdueBills []*domain.Bill,
	overdueTotal decimal.Decimal,
	utilization decimal.Decimal,
	instruments []*domain.Instrument,
	records []*domain.AnalysisRecord,
	totalInvested decimal.Decimal,
) []Recommendation {
	recommendations := make([]Recommendation, 0, 5)

	switch {
	case balance.LessThan(decimal.Zero):
		recommendations = append(recommendations, Recommendation{
			Severity: SeverityDanger,
			Title:    "Cash-flow deficit",
			Message: fmt.Sprintf(
				"You spent %s more than you earned in the last 30 days. Cut non-essential spending immediately.",
				balance.Abs().StringFixed(2)),
		})
	case savingsRate.LessThan(excellentSavingsRate):
		recommendations = append(recommendations, Recommendation{
			Severity: SeverityWarning,
			Title:    "Increase your contributions",
			Message: fmt.Sprintf(
				"Your savings rate is %s%%. Aim for at least 20%% of your income.",
				savingsRate.StringFixed(1)),
		})
	default:
		recommendations = append(recommendations, Recommendation{
			Severity: SeveritySuccess,
			Title:    "Excellent cash flow",
			Message:  "You are saving a large share of your income. Keep it up.",
		})
	}

	if len(overdueBills) > 0 {
		recommendations = append(recommendations, Recommendation{
			Severity: SeverityDanger,
			Title:    "Overdue bills",
			Message: fmt.Sprintf(
				"You have %d overdue bills totaling %s. Settle them before investing.",
				len(overdueBills), overdueTotal.StringFixed(2)),
		})
	}

	if utilization.GreaterThan(highCardUtilization) {
		recommendations = append(recommendations, Recommendation{
			Severity: SeverityWarning,
			Title:    "Watch your credit card",
			Message:  "You have used more than 70% of your total credit limit. The snowball risk is high.",
		})
	}

	if sellTickers := sellSignals(instruments, records); len(sellTickers) > 0 {
		recommendations = append(recommendations, Recommendation{
			Severity: SeverityInfo,
			Title:    "Portfolio optimization",
			Message: fmt.Sprintf(
				"Holdings flagged with weak fundamentals: %s. Consider trimming them.",
				strings.Join(sellTickers, ", ")),
		})
	}

	if totalInvested.IsZero() && balance.GreaterThan(decimal.Zero) {
		recommendations = append(recommendations, Recommendation{
			Severity: SeverityPrimary,
			Title:    "Start investing",
			Message:  "You have a positive balance and no investments yet. Build your emergency fund.",
		})
	}

	return recommendations
}

// sellSignals names every instrument whose latest analysis carries a sell
// recommendation, in the order the instruments are listed.
func sellSignals(instruments []*domain.Instrument, records []*domain.AnalysisRecord) []string {
	byInstrument := make(map[uuid.UUID]*domain.AnalysisRecord, len(records))
	for _, record := range records {
		byInstrument[record.InstrumentID] = record
	}

	tickers := make([]string, 0)
	for _, instrument := range instruments {
		record, ok := byInstrument[instrument.ID]
		if ok && strings.Contains(record.Recommendation, "SELL") {
			tickers = append(tickers, instrument.Ticker)
		}
	}

	return tickers
}

package classifier

import (
	"github.com/shopspring/decimal"

	"github.com/dmoura/financo-backend/internal/domain"
)

// Recommendation labels. Fixed vocabulary: the health diagnosis matches
// portfolio records against the "SELL" and "BUY" signals in these strings.
const (
	LabelStrongBuy       = "STRONG BUY / CONTRIBUTE"
	LabelHoldWatch       = "HOLD / WATCH"
	LabelReviewExpensive = "REVIEW / EXPENSIVE"

	LabelFundBuy  = "BUY (GOOD YIELD AND PRICE)"
	LabelFundHold = "HOLD (PAYING WELL)"
	LabelFundWait = "WAIT"

	LabelBelowTarget  = "BUY (BELOW TARGET)"
	LabelAboveTarget  = "SELL PARTIAL (ABOVE TARGET)"
	LabelWithinTarget = "HOLD (WITHIN TARGET)"
)

// Input carries everything a scorer may need: the fundamentals snapshot for
// valuation-based categories, and the position sizes for target-allocation
// categories. PortfolioTotal is computed once per analysis batch and passed
// in, never recomputed per instrument.
type Input struct {
	Snapshot       domain.FundamentalsSnapshot
	InvestedValue  decimal.Decimal
	PortfolioTotal decimal.Decimal
}

// Result is the outcome of one checklist evaluation. Criteria that do not
// apply to the category stay false.
type Result struct {
	Score          int
	Recommendation string

	MeetsDividendYield bool
	MeetsPE            bool
	MeetsPB            bool
	MeetsROE           bool
	MeetsDebtToEquity  bool

	// Normalized ratios as evaluated (yield and ROE in percent,
	// debt/equity as a "times" ratio)
	PE             decimal.Decimal
	PB             decimal.Decimal
	DividendYield  decimal.Decimal
	ReturnOnEquity decimal.Decimal
}

// Scorer evaluates the fundamentals checklist for one instrument category
type Scorer interface {
	Evaluate(in Input) Result
}

// ForCategory returns the scorer for an instrument category.
// Equity-style valuation applies to stocks, ETFs, and foreign holdings;
// real-estate funds have their own yield/price checklist; crypto and
// fixed income are scored by target allocation, not valuation.
func ForCategory(category domain.Category) Scorer {
	switch category {
	case domain.CategoryRealEstateFund:
		return &realEstateScorer{}
	case domain.CategoryCrypto, domain.CategoryFixedIncome:
		return &allocationScorer{Target: defaultAllocationTarget}
	default:
		return &equityScorer{}
	}
}

// normalized converts raw snapshot fields into checklist units: dividend
// yield and ROE from fractions to percent, debt/equity from the raw source
// value to a "times" ratio. Absent fields are already zero on the snapshot.
type normalized struct {
	pe  decimal.Decimal
	pb  decimal.Decimal
	dy  decimal.Decimal // percent
	roe decimal.Decimal // percent
	de  decimal.Decimal // times
}

var oneHundred = decimal.NewFromInt(100)

func normalize(s domain.FundamentalsSnapshot) normalized {
	return normalized{
		pe:  s.TrailingPE,
		pb:  s.PriceToBook,
		dy:  s.DividendYield.Mul(oneHundred),
		roe: s.ReturnOnEquity.Mul(oneHundred),
		de:  s.DebtToEquity.Div(oneHundred),
	}
}

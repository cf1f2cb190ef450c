package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundamentalsSnapshot holds the market fundamentals for one instrument as
// returned by the external data source. Every field is optional upstream:
// absent fields are substituted with zero before any checklist is applied,
// never treated as an error.
type FundamentalsSnapshot struct {
	Price          decimal.Decimal
	TrailingPE     decimal.Decimal // trailing price/earnings; 0 means data unavailable
	PriceToBook    decimal.Decimal // 0 means data unavailable
	DividendYield  decimal.Decimal // fraction (0.065 = 6.5%)
	ReturnOnEquity decimal.Decimal // fraction
	DebtToEquity   decimal.Decimal // raw value, divided by 100 to normalize to a "times" ratio
}

// AnalysisRecord holds the latest checklist result for one instrument.
// It is overwritten (upsert by instrument key) on every analysis run and
// keeps no history. Its lifetime is tied to the instrument.
type AnalysisRecord struct {
	InstrumentID   uuid.UUID
	Price          decimal.Decimal
	Score          int
	Recommendation string

	// Individual checklist criteria; false where a criterion does not
	// apply to the instrument's category.
	MeetsDividendYield bool
	MeetsPE            bool
	MeetsPB            bool
	MeetsROE           bool
	MeetsDebtToEquity  bool

	// Observed ratios at analysis time (already normalized to percent /
	// "times" where applicable).
	PE             decimal.Decimal
	PB             decimal.Decimal
	DividendYield  decimal.Decimal
	ReturnOnEquity decimal.Decimal

	GeneratedAt time.Time
}

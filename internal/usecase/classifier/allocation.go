package classifier

import "github.com/shopspring/decimal"

// Target-allocation scoring band: more than 1 point below the target says
// buy, more than 2 points above says trim, anything between holds.
var (
	defaultAllocationTarget = decimal.RequireFromString("5.0") // percent of portfolio
	allocationBandBelow     = decimal.RequireFromString("1.0")
	allocationBandAbove     = decimal.RequireFromString("2.0")
)

// allocationScorer scores categories without a meaningful valuation metric
// (crypto, fixed income) by the instrument's share of total portfolio
// invested value relative to a fixed target percentage.
type allocationScorer struct {
	Target decimal.Decimal
}

func (a *allocationScorer) Evaluate(in Input) Result {
	pct := decimal.Zero
	if in.PortfolioTotal.GreaterThan(decimal.Zero) {
		pct = in.InvestedValue.Div(in.PortfolioTotal).Mul(oneHundred)
	}

	r := Result{}

	switch {
	case pct.LessThan(a.Target.Sub(allocationBandBelow)):
		r.Score = 5
		r.Recommendation = LabelBelowTarget
	case pct.GreaterThan(a.Target.Add(allocationBandAbove)):
		r.Score = 1
		r.Recommendation = LabelAboveTarget
	default:
		r.Score = 3
		r.Recommendation = LabelWithinTarget
	}

	return r
}

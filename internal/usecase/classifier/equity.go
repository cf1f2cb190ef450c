package classifier

import "github.com/shopspring/decimal"

// Equity checklist thresholds (Graham/Bazin style). All comparisons are
// inclusive at the boundary; P/E and P/B of exactly 0 mean "data
// unavailable" and fail their criteria.
var (
	equityMinDividendYield = decimal.RequireFromString("6.0")  // percent
	equityMaxPE            = decimal.RequireFromString("15.0")
	equityMaxPB            = decimal.RequireFromString("1.5")
	equityMinROE           = decimal.RequireFromString("10.0") // percent
	equityMaxDebtToEquity  = decimal.RequireFromString("1.5")  // times
)

// equityScorer applies the five-criterion fundamentals checklist used for
// stocks, ETFs, and foreign holdings. Score is the count of criteria met.
type equityScorer struct{}

func (e *equityScorer) Evaluate(in Input) Result {
	n := normalize(in.Snapshot)

	r := Result{
		PE:             n.pe,
		PB:             n.pb,
		DividendYield:  n.dy,
		ReturnOnEquity: n.roe,
	}

	r.MeetsDividendYield = n.dy.GreaterThanOrEqual(equityMinDividendYield)
	r.MeetsPE = n.pe.GreaterThan(decimal.Zero) && n.pe.LessThanOrEqual(equityMaxPE)
	r.MeetsPB = n.pb.GreaterThan(decimal.Zero) && n.pb.LessThanOrEqual(equityMaxPB)
	r.MeetsROE = n.roe.GreaterThanOrEqual(equityMinROE)
	r.MeetsDebtToEquity = n.de.LessThanOrEqual(equityMaxDebtToEquity)

	for _, met := range []bool{r.MeetsDividendYield, r.MeetsPE, r.MeetsPB, r.MeetsROE, r.MeetsDebtToEquity} {
		if met {
			r.Score++
		}
	}

	switch {
	case r.Score >= 4:
		r.Recommendation = LabelStrongBuy
	case r.Score == 3:
		r.Recommendation = LabelHoldWatch
	default:
		r.Recommendation = LabelReviewExpensive
	}

	return r
}

package classifier

import "github.com/shopspring/decimal"

// Real-estate fund checklist: income funds are judged on distribution yield
// and price relative to book value, nothing else.
var (
	fundMinDividendYield = decimal.RequireFromString("8.0")  // percent
	fundMinPB            = decimal.RequireFromString("0.8")
	fundMaxPB            = decimal.RequireFromString("1.10")
)

// realEstateScorer scores real-estate funds on a tiered yield/price rule
// rather than a criterion count: both yield and fair price give 5, yield
// alone gives 3, anything else 1.
type realEstateScorer struct{}

func (f *realEstateScorer) Evaluate(in Input) Result {
	n := normalize(in.Snapshot)

	r := Result{
		PB:            n.pb,
		DividendYield: n.dy,
	}

	r.MeetsDividendYield = n.dy.GreaterThanOrEqual(fundMinDividendYield)
	r.MeetsPB = n.pb.GreaterThanOrEqual(fundMinPB) && n.pb.LessThanOrEqual(fundMaxPB)

	switch {
	case r.MeetsDividendYield && r.MeetsPB:
		r.Score = 5
		r.Recommendation = LabelFundBuy
	case r.MeetsDividendYield:
		r.Score = 3
		r.Recommendation = LabelFundHold
	default:
		r.Score = 1
		r.Recommendation = LabelFundWait
	}

	return r
}

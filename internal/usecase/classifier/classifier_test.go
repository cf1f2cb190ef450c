package classifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dmoura/financo-backend/internal/domain"
)

func snapshot(pe, pb, dy, roe, de string) domain.FundamentalsSnapshot {
	return domain.FundamentalsSnapshot{
		TrailingPE:     decimal.RequireFromString(pe),
		PriceToBook:    decimal.RequireFromString(pb),
		DividendYield:  decimal.RequireFromString(dy),
		ReturnOnEquity: decimal.RequireFromString(roe),
		DebtToEquity:   decimal.RequireFromString(de),
	}
}

func TestEquityScorer_AllThresholdsInclusiveAtBoundary(t *testing.T) {
	// P/E 15.0, P/B 1.5, DY 6.0%, ROE 10.0%, D/E 1.5 all sit exactly on
	// their thresholds, and every threshold is inclusive
	in := Input{Snapshot: snapshot("15.0", "1.5", "0.06", "0.10", "150")}

	result := ForCategory(domain.CategoryEquity).Evaluate(in)

	assert.Equal(t, 5, result.Score)
	assert.Equal(t, LabelStrongBuy, result.Recommendation)
	assert.True(t, result.MeetsDividendYield)
	assert.True(t, result.MeetsPE)
	assert.True(t, result.MeetsPB)
	assert.True(t, result.MeetsROE)
	assert.True(t, result.MeetsDebtToEquity)
}

func TestEquityScorer_PEJustAboveThresholdDropsOneCriterion(t *testing.T) {
	in := Input{Snapshot: snapshot("15.01", "1.5", "0.06", "0.10", "150")}

	result := ForCategory(domain.CategoryEquity).Evaluate(in)

	assert.Equal(t, 4, result.Score)
	assert.False(t, result.MeetsPE)
	assert.Equal(t, LabelStrongBuy, result.Recommendation)
}

func TestEquityScorer_ZeroPEAndPBMeanDataUnavailable(t *testing.T) {
	// A P/E or P/B of exactly 0 fails its criterion instead of counting
	// as "cheap"
	in := Input{Snapshot: snapshot("0", "0", "0.06", "0.10", "150")}

	result := ForCategory(domain.CategoryEquity).Evaluate(in)

	assert.False(t, result.MeetsPE)
	assert.False(t, result.MeetsPB)
	assert.Equal(t, 3, result.Score) // DY, ROE, D/E still pass
	assert.Equal(t, LabelHoldWatch, result.Recommendation)
}

func TestEquityScorer_EmptySnapshotScoresDebtCriterionOnly(t *testing.T) {
	// Every missing field defaults to zero; only D/E <= 1.5 passes at zero
	result := ForCategory(domain.CategoryEquity).Evaluate(Input{})

	assert.Equal(t, 1, result.Score)
	assert.True(t, result.MeetsDebtToEquity)
	assert.Equal(t, LabelReviewExpensive, result.Recommendation)
}

func TestEquityScorer_BadFundamentals(t *testing.T) {
	in := Input{Snapshot: snapshot("100", "5.0", "0", "0.05", "200")}

	result := ForCategory(domain.CategoryEquity).Evaluate(in)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, LabelReviewExpensive, result.Recommendation)
}

func TestEquityScorer_CoversETFAndForeign(t *testing.T) {
	in := Input{Snapshot: snapshot("5.0", "1.0", "0.10", "0.20", "50")}

	assert.Equal(t, 5, ForCategory(domain.CategoryETF).Evaluate(in).Score)
	assert.Equal(t, 5, ForCategory(domain.CategoryForeign).Evaluate(in).Score)
}

func TestRealEstateScorer_Tiers(t *testing.T) {
	// Good yield and fair price
	in := Input{Snapshot: snapshot("0", "1.05", "0.09", "0", "0")}
	result := ForCategory(domain.CategoryRealEstateFund).Evaluate(in)
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, LabelFundBuy, result.Recommendation)

	// Good yield, expensive price
	in = Input{Snapshot: snapshot("0", "1.30", "0.09", "0", "0")}
	result = ForCategory(domain.CategoryRealEstateFund).Evaluate(in)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, LabelFundHold, result.Recommendation)

	// Weak yield
	in = Input{Snapshot: snapshot("0", "1.00", "0.05", "0", "0")}
	result = ForCategory(domain.CategoryRealEstateFund).Evaluate(in)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, LabelFundWait, result.Recommendation)
}

func TestAllocationScorer_Rebalancing(t *testing.T) {
	total := decimal.NewFromInt(100000)
	scorer := ForCategory(domain.CategoryCrypto)

	// 3% of portfolio, target 5% -> more than 1 point below -> buy
	result := scorer.Evaluate(Input{
		InvestedValue:  decimal.NewFromInt(3000),
		PortfolioTotal: total,
	})
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, LabelBelowTarget, result.Recommendation)

	// 8% of portfolio -> more than 2 points above -> trim
	result = scorer.Evaluate(Input{
		InvestedValue:  decimal.NewFromInt(8000),
		PortfolioTotal: total,
	})
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, LabelAboveTarget, result.Recommendation)

	// 5% of portfolio -> on target -> hold
	result = scorer.Evaluate(Input{
		InvestedValue:  decimal.NewFromInt(5000),
		PortfolioTotal: total,
	})
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, LabelWithinTarget, result.Recommendation)
}

func TestAllocationScorer_EmptyPortfolioCountsAsZeroPercent(t *testing.T) {
	// Division guard: zero portfolio total means 0%, which is below target
	result := ForCategory(domain.CategoryFixedIncome).Evaluate(Input{
		InvestedValue:  decimal.NewFromInt(1000),
		PortfolioTotal: decimal.Zero,
	})

	assert.Equal(t, 5, result.Score)
	assert.Equal(t, LabelBelowTarget, result.Recommendation)
}

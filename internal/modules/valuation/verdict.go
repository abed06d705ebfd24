package valuation

import (
	"math"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// VerdictBandPercent is the fair-value corridor: price within ±10% of
// intrinsic value is neither cheap nor expensive.
const VerdictBandPercent = 10.0

// DefaultMarginOfSafetyPct is the default discount demanded below
// intrinsic value when deriving a buy price.
const DefaultMarginOfSafetyPct = 20.0

// Assessment relates a current price to an intrinsic value.
type Assessment struct {
	Verdict          domain.Verdict `json:"verdict"`
	DeviationPercent float64        `json:"deviationPercent"` // price vs intrinsic
	MarginOfSafety   float64        `json:"marginOfSafety"`   // positive = price below intrinsic
}

// Evaluate classifies price against intrinsic value. Deviation is
// (price - intrinsic) / intrinsic * 100; at or beyond -10% the stock is
// undervalued, at or beyond +10% overvalued, fair-valued between.
func Evaluate(intrinsic, price float64) Assessment {
	if intrinsic == 0 || !isFinite(intrinsic) || !isFinite(price) {
		// No meaningful classification without an intrinsic value
		return Assessment{Verdict: domain.VerdictFairValued, DeviationPercent: math.NaN(), MarginOfSafety: math.NaN()}
	}

	deviation := (price - intrinsic) / intrinsic * 100.0

	verdict := domain.VerdictFairValued
	switch {
	case deviation <= -VerdictBandPercent:
		verdict = domain.VerdictUndervalued
	case deviation >= VerdictBandPercent:
		verdict = domain.VerdictOvervalued
	}

	return Assessment{
		Verdict:          verdict,
		DeviationPercent: deviation,
		MarginOfSafety:   -deviation,
	}
}

// IdealBuyPrice derives the margin-of-safety-adjusted entry price.
// A non-positive margin falls back to the 20% default.
func IdealBuyPrice(intrinsic, marginOfSafetyPct float64) float64 {
	if marginOfSafetyPct <= 0 || marginOfSafetyPct >= 100 {
		marginOfSafetyPct = DefaultMarginOfSafetyPct
	}
	return intrinsic * (1.0 - marginOfSafetyPct/100.0)
}

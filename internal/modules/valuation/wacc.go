// Package valuation implements the discounted-cash-flow intrinsic value
// calculation and its cost-of-capital input.
package valuation

import (
	"math"
)

// Fixed market assumptions for the cost of equity. Constants by policy,
// not configuration: moving them would silently shift every valuation.
const (
	RiskFreeRatePercent     = 4.0
	MarketRiskPremiumPct    = 6.0
	DefaultTaxRate          = 0.21
	DefaultWACCPercent      = 10.0
	MinWACCPercent          = 8.0
	MaxWACCPercent          = 12.0
	MinBeta                 = 0.5
	MaxBeta                 = 2.5
	MaxEffectiveTaxRate     = 0.5
)

// WACCInputs holds the raw inputs to the cost-of-capital estimate.
// Debt and income figures are last-4-period averages; debt includes
// lease liabilities.
type WACCInputs struct {
	MarketCap          float64
	AvgTotalDebt       float64
	Beta               float64
	AvgInterestExpense float64
	AvgPretaxIncome    float64
	AvgTaxExpense      float64
}

// EstimateWACC computes a weighted average cost of capital in percent.
//
// Every stage clamps: beta to [0.5, 2.5], the effective tax rate to
// [0, 0.5], the final result to [8, 12]. Unrecoverable inputs return
// the fixed default of 10% instead of failing the valuation.
func EstimateWACC(in WACCInputs) float64 {
	if !isFinite(in.MarketCap) || !isFinite(in.AvgTotalDebt) || !isFinite(in.Beta) ||
		!isFinite(in.AvgInterestExpense) || !isFinite(in.AvgPretaxIncome) || !isFinite(in.AvgTaxExpense) {
		return DefaultWACCPercent
	}

	equity := in.MarketCap
	debt := math.Max(in.AvgTotalDebt, 0)
	if equity <= 0 {
		return DefaultWACCPercent
	}

	beta := clamp(in.Beta, MinBeta, MaxBeta)
	costOfEquity := RiskFreeRatePercent + beta*MarketRiskPremiumPct

	// Cost of debt: trailing interest over average debt. Zero when there
	// is no debt or interest is non-positive - never a division by zero,
	// never negative. The period mismatch between trailing interest and
	// averaged debt is preserved as-is.
	costOfDebt := 0.0
	if debt > 0 && in.AvgInterestExpense > 0 {
		costOfDebt = in.AvgInterestExpense / debt * 100.0
	}

	taxRate := DefaultTaxRate
	if in.AvgPretaxIncome > 0 {
		taxRate = clamp(in.AvgTaxExpense/in.AvgPretaxIncome, 0, MaxEffectiveTaxRate)
	}

	total := equity + debt
	weightEquity := equity / total
	weightDebt := debt / total

	wacc := weightEquity*costOfEquity + weightDebt*costOfDebt*(1.0-taxRate)
	if !isFinite(wacc) {
		return DefaultWACCPercent
	}

	return clamp(wacc, MinWACCPercent, MaxWACCPercent)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package analysis

import (
	"math"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/metrics"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/valuation"
)

// Mode names one growth scenario of a valuation run.
type Mode string

const (
	ModeConservative Mode = "conservative"
	ModeBase         Mode = "base"
	ModeOptimistic   Mode = "optimistic"
)

// Modes in display order. Execution order carries no meaning; the three
// scenarios are independent and run concurrently.
var Modes = []Mode{ModeConservative, ModeBase, ModeOptimistic}

// Growth policy for the explicit forecast and the terminal stage.
const (
	forecastYears       = valuation.MinForecastYears
	terminalGrowthPct   = 2.0
	defaultGrowthPct    = 2.0
	minGrowthPct        = -5.0
	maxGrowthPct        = 15.0
	modeGrowthSpreadPct = 2.0
)

// growthForMode shifts the derived base growth per scenario: the
// conservative and optimistic runs bracket the base by a fixed spread.
func growthForMode(baseGrowthPct float64, mode Mode) float64 {
	switch mode {
	case ModeConservative:
		return baseGrowthPct - modeGrowthSpreadPct
	case ModeOptimistic:
		return baseGrowthPct + modeGrowthSpreadPct
	default:
		return baseGrowthPct
	}
}

// deriveBaseGrowth estimates the forecast growth rate from the
// historical free-cash-flow CAGR, clamped to a sane band. Series too
// short or crossing zero fall back to the fixed default.
func deriveBaseGrowth(w metrics.Window) float64 {
	growth, ok := metrics.CAGR(w, func(a domain.AnnualFigures) float64 { return a.FreeCashFlow })
	if !ok {
		return defaultGrowthPct
	}
	return math.Max(minGrowthPct, math.Min(maxGrowthPct, growth))
}

// projectUFCF compounds the base cash flow over the forecast horizon.
func projectUFCF(baseFCF, growthPct float64, years int) []float64 {
	ufcf := make([]float64, 0, years)
	cf := baseFCF
	for i := 0; i < years; i++ {
		cf *= 1 + growthPct/100
		ufcf = append(ufcf, cf)
	}
	return ufcf
}

// presentTerminalValue computes a Gordon-growth terminal value from the
// final forecast year, discounted back to today. WACC is clamped to at
// least 8 percent upstream, so the denominator never collapses.
func presentTerminalValue(finalUFCF, waccPct float64, years int) float64 {
	w := waccPct / 100
	g := terminalGrowthPct / 100
	terminal := finalUFCF * (1 + g) / (w - g)
	return terminal / math.Pow(1+w, float64(years))
}

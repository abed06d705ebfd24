package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// Extractor pulls one figure out of a fiscal year.
type Extractor func(domain.AnnualFigures) float64

// Series extracts one figure across a window, oldest first, so growth
// calculations read left to right.
func Series(w Window, extract Extractor) []float64 {
	values := make([]float64, len(w.Points))
	for i, p := range w.Points {
		// Points are most recent first; reverse into chronological order
		values[len(w.Points)-1-i] = extract(p)
	}
	return values
}

// Mean returns the arithmetic mean of a window's extracted figure.
// Returns 0 for an empty window.
func Mean(w Window, extract Extractor) float64 {
	if w.Empty() {
		return 0
	}
	return stat.Mean(Series(w, extract), nil)
}

// CAGR returns the compound annual growth rate over a window as a
// percentage. Needs at least two points and positive endpoints; anything
// else yields (0, false) rather than a misleading number.
func CAGR(w Window, extract Extractor) (float64, bool) {
	values := Series(w, extract)
	if len(values) < 2 {
		return 0, false
	}

	first := values[0]
	last := values[len(values)-1]
	if first <= 0 || last <= 0 {
		return 0, false
	}

	years := float64(len(values) - 1)
	cagr := (math.Pow(last/first, 1.0/years) - 1.0) * 100.0
	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return 0, false
	}

	return cagr, true
}

// AveragePayoutRatio returns dividends paid over net income averaged
// across the window, as a percentage. Years with non-positive net income
// are skipped; if no year qualifies, returns (0, false).
func AveragePayoutRatio(w Window) (float64, bool) {
	var ratios []float64
	for _, p := range w.Points {
		if p.NetIncome <= 0 {
			continue
		}
		// DividendsPaid is reported as an outflow by most providers
		ratios = append(ratios, math.Abs(p.DividendsPaid)/p.NetIncome*100.0)
	}
	if len(ratios) == 0 {
		return 0, false
	}
	return stat.Mean(ratios, nil), true
}

// EquityRatio returns total equity over total assets for the most recent
// year in the window, as a percentage.
func EquityRatio(w Window) (float64, bool) {
	if w.Empty() {
		return 0, false
	}
	latest := w.Points[0]
	if latest.TotalAssets <= 0 {
		return 0, false
	}
	return latest.TotalEquity / latest.TotalAssets * 100.0, true
}

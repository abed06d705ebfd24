// Package scoring aggregates per-criterion quality scores and qualitative
// answers into the overall compatibility verdict.
package scoring

import (
	"fmt"
	"sort"
)

// Criterion names the eleven top-level quality criteria.
type Criterion string

const (
	CriterionMoat              Criterion = "economic_moat"
	CriterionCompetitivePos    Criterion = "competitive_position"
	CriterionManagement        Criterion = "management_quality"
	CriterionEarningsStability Criterion = "earnings_stability"
	CriterionBalanceSheet      Criterion = "balance_sheet_strength"
	CriterionProfitability     Criterion = "profitability"
	CriterionGrowth            Criterion = "growth"
	CriterionCapitalAllocation Criterion = "capital_allocation"
	CriterionUnderstandability Criterion = "understandable_business"
	CriterionValuation         Criterion = "valuation"
	CriterionDividendPolicy    Criterion = "dividend_policy"
)

// criterionWeights are fixed importance weights in percent, summing to
// 100 across the eleven criteria. Business policy, not tunables.
var criterionWeights = map[Criterion]float64{
	CriterionMoat:              15,
	CriterionCompetitivePos:    10,
	CriterionManagement:        10,
	CriterionEarningsStability: 10,
	CriterionBalanceSheet:      10,
	CriterionProfitability:     10,
	CriterionGrowth:            10,
	CriterionCapitalAllocation: 5,
	CriterionUnderstandability: 5,
	CriterionValuation:         10,
	CriterionDividendPolicy:    5,
}

// Quality classification thresholds in percent. Fixed business policy:
// >= 85 met, 70-84 partially met, below 70 not met.
const (
	ThresholdQualityMet       = 85.0
	ThresholdQualityPartially = 70.0
)

// QualityLevel classifies an aggregate percentage.
type QualityLevel string

const (
	QualityMet          QualityLevel = "quality_met"
	QualityPartiallyMet QualityLevel = "partially_met"
	QualityNotMet       QualityLevel = "not_met"
)

// CriterionScore is a bounded 0-10 score, validated at construction.
type CriterionScore struct {
	value float64
}

// NewCriterionScore validates the 0-10 bound once, so consumers never
// re-check at point of use.
func NewCriterionScore(value float64) (CriterionScore, error) {
	if value < 0 || value > 10 {
		return CriterionScore{}, fmt.Errorf("criterion score %.2f outside [0, 10]", value)
	}
	return CriterionScore{value: value}, nil
}

// Value returns the raw 0-10 score.
func (s CriterionScore) Value() float64 { return s.value }

// CriterionBreakdown is one row of the audit display.
type CriterionBreakdown struct {
	Criterion       Criterion `json:"criterion"`
	Score           float64   `json:"score"`
	Weight          float64   `json:"weight"`
	Contribution    float64   `json:"contribution"`
	MaxContribution float64   `json:"maxContribution"`
}

// AggregateResult is the weighted quality score with its audit breakdown.
type AggregateResult struct {
	Percent   float64              `json:"percent"`
	Level     QualityLevel         `json:"level"`
	Breakdown []CriterionBreakdown `json:"breakdown"`
}

// Aggregate combines per-criterion scores into a 0-100 percentage:
// sum(score * weight/100) over sum(10 * weight/100). Criteria without a
// score are left out of both numerator and denominator, so a partial
// scorecard is graded on what it covers rather than punished for gaps.
func Aggregate(scores map[Criterion]CriterionScore) AggregateResult {
	var achieved, possible float64
	breakdown := make([]CriterionBreakdown, 0, len(scores))

	for criterion, score := range scores {
		weight, ok := criterionWeights[criterion]
		if !ok {
			continue
		}

		contribution := score.Value() * weight / 100.0
		maxContribution := 10.0 * weight / 100.0
		achieved += contribution
		possible += maxContribution

		breakdown = append(breakdown, CriterionBreakdown{
			Criterion:       criterion,
			Score:           score.Value(),
			Weight:          weight,
			Contribution:    contribution,
			MaxContribution: maxContribution,
		})
	}

	// Stable audit display order: heaviest first, then by name
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Weight != breakdown[j].Weight {
			return breakdown[i].Weight > breakdown[j].Weight
		}
		return breakdown[i].Criterion < breakdown[j].Criterion
	})

	percent := 0.0
	if possible > 0 {
		percent = achieved / possible * 100.0
	}

	return AggregateResult{
		Percent:   percent,
		Level:     ClassifyQuality(percent),
		Breakdown: breakdown,
	}
}

// ClassifyQuality maps an aggregate percentage to its quality level.
func ClassifyQuality(percent float64) QualityLevel {
	switch {
	case percent >= ThresholdQualityMet:
		return QualityMet
	case percent >= ThresholdQualityPartially:
		return QualityPartiallyMet
	default:
		return QualityNotMet
	}
}

// Weights returns a copy of the fixed weight table for display layers.
func Weights() map[Criterion]float64 {
	out := make(map[Criterion]float64, len(criterionWeights))
	for k, v := range criterionWeights {
		out[k] = v
	}
	return out
}

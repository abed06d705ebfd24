package scoring

import (
	"fmt"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// QualitativeCriterion names the eight qualitative criteria. Each one
// carries exactly three weighted yes/partial/no questions.
type QualitativeCriterion string

const (
	QualBusinessModel     QualitativeCriterion = "business_model"
	QualMoatDurability    QualitativeCriterion = "moat_durability"
	QualManagementHonesty QualitativeCriterion = "management_honesty"
	QualOwnerOrientation  QualitativeCriterion = "owner_orientation"
	QualPricingPower      QualitativeCriterion = "pricing_power"
	QualCyclicality       QualitativeCriterion = "cyclicality"
	QualRegulatoryRisk    QualitativeCriterion = "regulatory_risk"
	QualDisruptionRisk    QualitativeCriterion = "disruption_risk"
)

// questionWeights is the static per-criterion weight table: three
// questions each, weighted 1.0 (full) or 0.5 (half). The weights sum to
// 20 across the whole set, which is the fixed qualitative maximum.
var questionWeights = map[QualitativeCriterion][3]float64{
	QualBusinessModel:     {1.0, 1.0, 1.0},
	QualMoatDurability:    {1.0, 1.0, 1.0},
	QualManagementHonesty: {1.0, 1.0, 1.0},
	QualOwnerOrientation:  {1.0, 1.0, 1.0},
	QualPricingPower:      {1.0, 0.5, 0.5},
	QualCyclicality:       {1.0, 0.5, 0.5},
	QualRegulatoryRisk:    {1.0, 0.5, 0.5},
	QualDisruptionRisk:    {1.0, 0.5, 0.5},
}

// QualitativeMaxPoints is the fixed maximum across all eight criteria.
const QualitativeMaxPoints = 20.0

// CriterionAnswers holds the three classified answers for one criterion.
type CriterionAnswers [3]domain.Answer

// QualitativeScore is one criterion's achieved points and maximum.
type QualitativeScore struct {
	Criterion QualitativeCriterion `json:"criterion"`
	Points    float64              `json:"points"`
	MaxPoints float64              `json:"maxPoints"`
}

// answerFactor returns the share of a question's weight an answer earns.
// Unclear earns nothing, same as an explicit no: missing evidence is
// treated conservatively rather than skipped.
func answerFactor(a domain.Answer) float64 {
	switch a {
	case domain.AnswerYes:
		return 1.0
	case domain.AnswerPartial:
		return 0.5
	default: // no, unclear, anything unknown
		return 0.0
	}
}

// ScoreCriterion scores one qualitative criterion from its three answers.
func ScoreCriterion(criterion QualitativeCriterion, answers CriterionAnswers) (QualitativeScore, error) {
	weights, ok := questionWeights[criterion]
	if !ok {
		return QualitativeScore{}, fmt.Errorf("unknown qualitative criterion %q", criterion)
	}

	var points, max float64
	for i, weight := range weights {
		points += weight * answerFactor(answers[i])
		max += weight
	}

	return QualitativeScore{Criterion: criterion, Points: points, MaxPoints: max}, nil
}

// QualitativeResult sums all eight criteria.
type QualitativeResult struct {
	Points    float64            `json:"points"`
	MaxPoints float64            `json:"maxPoints"`
	Scores    []QualitativeScore `json:"scores"`
}

// ScoreAll scores every provided criterion and sums the set. Criteria
// without answers contribute their maximum to MaxPoints but nothing to
// Points - an unanswered criterion cannot inflate the ratio.
func ScoreAll(answers map[QualitativeCriterion]CriterionAnswers) (QualitativeResult, error) {
	result := QualitativeResult{MaxPoints: QualitativeMaxPoints}

	for criterion := range questionWeights {
		crit, ok := answers[criterion]
		if !ok {
			continue
		}
		score, err := ScoreCriterion(criterion, crit)
		if err != nil {
			return QualitativeResult{}, err
		}
		result.Points += score.Points
		result.Scores = append(result.Scores, score)
	}

	return result, nil
}

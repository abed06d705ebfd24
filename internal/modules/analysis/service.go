// Package analysis orchestrates a full scoring and valuation run for one
// ticker: cost of capital, three concurrent valuation scenarios,
// sector-aware metric scoring, the weighted quality aggregate and the
// final two-pillar decision.
package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/fx"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/metrics"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/scoring"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/sector"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/valuation"
	"github.com/nickybricks/private-aesy-sub003/internal/utils"
)

// Request is one analysis run input. Caller-supplied criterion scores
// cover the judgment criteria; metric-derived criteria (growth, balance
// sheet, dividend policy) are computed here and take precedence.
//
// Qualitative answers come in pre-classified or as raw evidence text.
// Evidence requires a configured answer classifier; where both forms
// name the same criterion, the pre-classified answers win.
type Request struct {
	Fundamentals        domain.Fundamentals                                       `json:"fundamentals"`
	CriterionScores     map[scoring.Criterion]float64                             `json:"criterionScores,omitempty"`
	Qualitative         map[scoring.QualitativeCriterion]scoring.CriterionAnswers `json:"qualitative,omitempty"`
	QualitativeEvidence map[scoring.QualitativeCriterion][3]QuestionEvidence      `json:"qualitativeEvidence,omitempty"`
	MarginOfSafetyPct   *float64                                                  `json:"marginOfSafetyPct,omitempty"`
}

// QuestionEvidence is one qualitative question plus the free-text
// evidence to classify against it.
type QuestionEvidence struct {
	Question string `json:"question"`
	Evidence string `json:"evidence"`
}

// MetricScore is one sector-scored metric with its provenance badge.
type MetricScore struct {
	Metric string              `json:"metric"`
	Value  float64             `json:"value"`
	Score  float64             `json:"score"`
	Status domain.MetricStatus `json:"status"`
	Badge  metrics.Badge       `json:"badge"`
}

// ModeValuation is the outcome of one growth scenario.
type ModeValuation struct {
	Mode          Mode                  `json:"mode"`
	GrowthPercent float64               `json:"growthPercent"`
	DCF           valuation.Result      `json:"dcf"`
	Assessment    *valuation.Assessment `json:"assessment,omitempty"`
	IdealBuyPrice float64               `json:"idealBuyPrice,omitempty"`
}

// Report is the full analysis output.
type Report struct {
	RunID         string                     `json:"runId"`
	Symbol        string                     `json:"symbol"`
	Archetype     sector.Archetype           `json:"archetype"`
	CurrentPrice  float64                    `json:"currentPrice"`
	PriceCurrency domain.Currency            `json:"priceCurrency"`
	WACCPercent   float64                    `json:"waccPercent"`
	Valuations    []ModeValuation            `json:"valuations"`
	Metrics       []MetricScore              `json:"metrics"`
	Quality       scoring.AggregateResult    `json:"quality"`
	Qualitative   *scoring.QualitativeResult `json:"qualitative,omitempty"`
	Gate          *scoring.GateResult        `json:"gate,omitempty"`
	GeneratedAt   time.Time                  `json:"generatedAt"`
}

// Service runs analyses. All engine computations are pure; the network
// touches are the FX resolver's live fallback tier and the optional
// answer classifier.
type Service struct {
	fxResolver       *fx.Resolver
	classifier       domain.AnswerClassifier
	defaultMarginPct float64
	log              zerolog.Logger
}

// NewService creates an analysis service. classifier is optional; without
// one, requests must carry pre-classified qualitative answers.
func NewService(fxResolver *fx.Resolver, classifier domain.AnswerClassifier, defaultMarginPct float64, log zerolog.Logger) *Service {
	return &Service{
		fxResolver:       fxResolver,
		classifier:       classifier,
		defaultMarginPct: defaultMarginPct,
		log:              log.With().Str("service", "analysis").Logger(),
	}
}

// Analyze runs the full pipeline for one ticker.
func (s *Service) Analyze(ctx context.Context, req Request) (*Report, error) {
	timer := utils.NewTimer("analysis_run", s.log)
	defer timer.Stop()

	f := req.Fundamentals
	if f.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if len(f.Annuals) == 0 {
		return nil, fmt.Errorf("no annual fundamentals for %s", f.Symbol)
	}
	if f.CurrentPrice <= 0 {
		return nil, fmt.Errorf("current price must be positive, got %f", f.CurrentPrice)
	}

	archetype := sector.FromIndustry(f.Industry)

	// Price and intrinsic value must share a currency before any
	// comparison. Valuations come out in the reporting currency, so the
	// quoted price is converted into it. A missing rate fails the run:
	// a silently wrong rate would poison every verdict downstream.
	price := f.CurrentPrice
	priceCurrency := f.QuoteCurrency
	if f.QuoteCurrency != "" && f.ReportingCurrency != "" && f.QuoteCurrency != f.ReportingCurrency {
		resolution, err := s.fxResolver.Resolve(f.QuoteCurrency, f.ReportingCurrency, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("converting price %s->%s: %w", f.QuoteCurrency, f.ReportingCurrency, err)
		}
		price = f.CurrentPrice * resolution.Rate
		priceCurrency = f.ReportingCurrency
	}

	waccPct := valuation.EstimateWACC(waccInputs(f))

	marginPct := s.defaultMarginPct
	if req.MarginOfSafetyPct != nil {
		marginPct = *req.MarginOfSafetyPct
	}

	valuations := s.runModes(f, waccPct, price, marginPct)

	metricScores, derivedCriteria := scoreMetrics(f, archetype)

	criterionScores := make(map[scoring.Criterion]scoring.CriterionScore)
	for criterion, value := range req.CriterionScores {
		score, err := scoring.NewCriterionScore(value)
		if err != nil {
			return nil, fmt.Errorf("criterion %s: %w", criterion, err)
		}
		criterionScores[criterion] = score
	}
	for criterion, score := range derivedCriteria {
		criterionScores[criterion] = score
	}

	quality := scoring.Aggregate(criterionScores)

	report := &Report{
		RunID:         uuid.New().String(),
		Symbol:        f.Symbol,
		Archetype:     archetype,
		CurrentPrice:  price,
		PriceCurrency: priceCurrency,
		WACCPercent:   waccPct,
		Valuations:    valuations,
		Metrics:       metricScores,
		Quality:       quality,
		GeneratedAt:   time.Now().UTC(),
	}

	answers := req.Qualitative
	if len(req.QualitativeEvidence) > 0 {
		// Pre-classified answers win; only the rest goes to the classifier.
		pending := make(map[scoring.QualitativeCriterion][3]QuestionEvidence, len(req.QualitativeEvidence))
		for criterion, items := range req.QualitativeEvidence {
			if _, ok := answers[criterion]; ok {
				continue
			}
			pending[criterion] = items
		}

		classified, err := s.classifyEvidence(ctx, pending)
		if err != nil {
			return nil, err
		}
		merged := make(map[scoring.QualitativeCriterion]scoring.CriterionAnswers, len(classified)+len(answers))
		for criterion, a := range answers {
			merged[criterion] = a
		}
		for criterion, a := range classified {
			merged[criterion] = a
		}
		answers = merged
	}

	if len(answers) > 0 {
		qualitative, err := scoring.ScoreAll(answers)
		if err != nil {
			return nil, fmt.Errorf("qualitative scoring: %w", err)
		}
		report.Qualitative = &qualitative
	}

	// The gate needs a margin of safety, which only a valid base-case
	// valuation provides.
	if base := findMode(valuations, ModeBase); base != nil && base.Assessment != nil {
		gate := scoring.TwoPillarGate(quality.Percent, base.Assessment.MarginOfSafety)
		report.Gate = &gate
	}

	s.log.Info().
		Str("run_id", report.RunID).
		Str("symbol", f.Symbol).
		Str("archetype", string(archetype)).
		Float64("wacc", waccPct).
		Float64("quality", quality.Percent).
		Bool("gated", report.Gate != nil && report.Gate.Conforming).
		Msg("Analysis completed")

	return report, nil
}

// classifyEvidence turns raw question/evidence text into qualitative
// answers. Empty evidence and failed classifications count as unclear,
// which scores zero; only a missing classifier fails the run.
func (s *Service) classifyEvidence(ctx context.Context, evidence map[scoring.QualitativeCriterion][3]QuestionEvidence) (map[scoring.QualitativeCriterion]scoring.CriterionAnswers, error) {
	if len(evidence) == 0 {
		return nil, nil
	}
	if s.classifier == nil {
		return nil, fmt.Errorf("qualitative evidence given but no answer classifier configured")
	}

	classified := make(map[scoring.QualitativeCriterion]scoring.CriterionAnswers, len(evidence))
	for criterion, items := range evidence {
		var answers scoring.CriterionAnswers
		for i, item := range items {
			if item.Evidence == "" {
				answers[i] = domain.AnswerUnclear
				continue
			}
			answer, err := s.classifier.Classify(ctx, item.Question, item.Evidence)
			if err != nil {
				s.log.Warn().Err(err).
					Str("criterion", string(criterion)).
					Int("question", i).
					Msg("Answer classification failed")
				answers[i] = domain.AnswerUnclear
				continue
			}
			answers[i] = answer
		}
		classified[criterion] = answers
	}

	return classified, nil
}

// runModes evaluates the three growth scenarios concurrently. Each
// scenario writes only its own slot, so the result is deterministic
// regardless of scheduling.
func (s *Service) runModes(f domain.Fundamentals, waccPct, price, marginPct float64) []ModeValuation {
	window := metrics.ResolveWindow(f.Annuals, 0)
	baseGrowth := deriveBaseGrowth(window)

	latest := f.Annuals[0]
	baseFCF := latest.FreeCashFlow
	netDebt := latest.TotalDebt() - latest.CashAndEquivalent

	results := make([]ModeValuation, len(Modes))

	var wg sync.WaitGroup
	for i, mode := range Modes {
		wg.Add(1)
		go func(i int, mode Mode) {
			defer wg.Done()

			growth := growthForMode(baseGrowth, mode)
			forecast := valuation.Forecast{
				WACCPercent: &waccPct,
				NetDebt:     &netDebt,
			}
			if f.DilutedShares > 0 {
				shares := f.DilutedShares
				forecast.DilutedShares = &shares
			}
			if baseFCF > 0 {
				forecast.UFCF = projectUFCF(baseFCF, growth, forecastYears)
				ptv := presentTerminalValue(forecast.UFCF[len(forecast.UFCF)-1], waccPct, forecastYears)
				forecast.PresentTerminalValue = &ptv
			}

			mv := ModeValuation{
				Mode:          mode,
				GrowthPercent: growth,
				DCF:           valuation.Calculate(forecast),
			}
			if mv.DCF.Valid {
				assessment := valuation.Evaluate(mv.DCF.IntrinsicValue, price)
				mv.Assessment = &assessment
				mv.IdealBuyPrice = valuation.IdealBuyPrice(mv.DCF.IntrinsicValue, marginPct)
			}

			results[i] = mv
		}(i, mode)
	}
	wg.Wait()

	return results
}

// waccInputs averages the balance sheet and income figures over the last
// four fiscal years, or as many as exist.
func waccInputs(f domain.Fundamentals) valuation.WACCInputs {
	n := len(f.Annuals)
	if n > 4 {
		n = 4
	}

	var debt, interest, pretax, tax float64
	for _, a := range f.Annuals[:n] {
		debt += a.TotalDebt()
		interest += a.InterestExpense
		pretax += a.PretaxIncome
		tax += a.TaxExpense
	}
	count := float64(n)

	return valuation.WACCInputs{
		MarketCap:          f.MarketCap,
		Beta:               f.Beta,
		AvgTotalDebt:       debt / count,
		AvgInterestExpense: interest / count,
		AvgPretaxIncome:    pretax / count,
		AvgTaxExpense:      tax / count,
	}
}

// scoreMetrics computes the sector-scored fundamentals metrics and maps
// them onto their quality criteria.
func scoreMetrics(f domain.Fundamentals, archetype sector.Archetype) ([]MetricScore, map[scoring.Criterion]scoring.CriterionScore) {
	window := metrics.ResolveWindow(f.Annuals, 0)

	var scores []MetricScore
	derived := make(map[scoring.Criterion]scoring.CriterionScore)

	record := func(metric string, value float64, badge metrics.Badge, criterion scoring.Criterion) {
		bandScore := sector.ScoreMetric(archetype, metric, value)
		scores = append(scores, MetricScore{
			Metric: metric,
			Value:  value,
			Score:  bandScore,
			Status: statusForScore(bandScore),
			Badge:  badge,
		})
		if cs, err := scoring.NewCriterionScore(bandScore); err == nil {
			derived[criterion] = cs
		}
	}

	if cagr, ok := metrics.CAGR(window, func(a domain.AnnualFigures) float64 { return a.Revenue }); ok {
		record(sector.MetricCAGR, cagr, window.Badge, scoring.CriterionGrowth)
	}
	if payout, ok := metrics.AveragePayoutRatio(window); ok {
		record(sector.MetricPayoutRatio, payout, window.Badge, scoring.CriterionDividendPolicy)
	}
	// The equity ratio reads only the most recent fiscal year, so its
	// badge is the trailing-year one regardless of the window.
	if equity, ok := metrics.EquityRatio(window); ok {
		record(sector.MetricEquityRatio, equity, metrics.BadgeTTM, scoring.CriterionBalanceSheet)
	}

	return scores, derived
}

// statusForScore maps a 0-10 band score to a traffic-light status.
func statusForScore(score float64) domain.MetricStatus {
	switch {
	case score >= 7:
		return domain.MetricPass
	case score >= 4:
		return domain.MetricWarning
	default:
		return domain.MetricFail
	}
}

// findMode returns the valuation for the named mode, nil if absent.
func findMode(valuations []ModeValuation, mode Mode) *ModeValuation {
	for i := range valuations {
		if valuations[i].Mode == mode {
			return &valuations[i]
		}
	}
	return nil
}

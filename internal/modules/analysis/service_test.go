package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/fx"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/metrics"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/scoring"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/sector"
)

type stubStore struct {
	rates map[string]float64
}

func (s *stubStore) Latest(base, target domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	rate, ok := s.rates[string(base)+":"+string(target)]
	if !ok {
		return nil, nil
	}
	return &domain.ExchangeRate{Base: base, Target: target, Rate: rate, Date: date}, nil
}

type stubLive struct{}

func (s *stubLive) GetRate(from, to domain.Currency) (float64, error) {
	return 0, fmt.Errorf("live quotes unavailable")
}

func newTestService(rates map[string]float64) *Service {
	return newTestServiceWithClassifier(rates, nil)
}

func newTestServiceWithClassifier(rates map[string]float64, classifier domain.AnswerClassifier) *Service {
	resolver := fx.NewResolver(&stubStore{rates: rates}, &stubLive{}, zerolog.Nop())
	return NewService(resolver, classifier, 20.0, zerolog.Nop())
}

// stubClassifier answers by evidence text lookup; anything unknown is
// unclear.
type stubClassifier struct {
	answers map[string]domain.Answer
	err     error
	calls   int
}

func (c *stubClassifier) Classify(ctx context.Context, question, evidence string) (domain.Answer, error) {
	c.calls++
	if c.err != nil {
		return domain.AnswerUnclear, c.err
	}
	if answer, ok := c.answers[evidence]; ok {
		return answer, nil
	}
	return domain.AnswerUnclear, nil
}

func testFundamentals() domain.Fundamentals {
	// Ten fiscal years, most recent first, steadily growing
	annuals := make([]domain.AnnualFigures, 0, 10)
	for i := 0; i < 10; i++ {
		growth := 1.0
		for j := 0; j < 9-i; j++ {
			growth *= 1.05
		}
		annuals = append(annuals, domain.AnnualFigures{
			FiscalYear:        2025 - i,
			Revenue:           1000 * growth,
			NetIncome:         150 * growth,
			PretaxIncome:      190 * growth,
			TaxExpense:        40 * growth,
			InterestExpense:   10,
			FreeCashFlow:      120 * growth,
			DividendsPaid:     -45 * growth,
			TotalEquity:       800 * growth,
			TotalAssets:       1600 * growth,
			ShortTermDebt:     40,
			LongTermDebt:      260,
			CashAndEquivalent: 100,
		})
	}

	return domain.Fundamentals{
		Symbol:            "ACME",
		Industry:          "Consumer Defensive",
		ReportingCurrency: domain.CurrencyUSD,
		QuoteCurrency:     domain.CurrencyUSD,
		CurrentPrice:      30,
		MarketCap:         3000,
		Beta:              0.9,
		DilutedShares:     100,
		Annuals:           annuals,
	}
}

func TestAnalyze_FullRun(t *testing.T) {
	svc := newTestService(nil)

	report, err := svc.Analyze(context.Background(), Request{
		Fundamentals: testFundamentals(),
		CriterionScores: map[scoring.Criterion]float64{
			scoring.CriterionMoat:       8,
			scoring.CriterionManagement: 7,
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "ACME", report.Symbol)
	assert.Equal(t, sector.ArchetypeStaples, report.Archetype)

	require.Len(t, report.Valuations, 3)
	for _, mv := range report.Valuations {
		require.True(t, mv.DCF.Valid, "mode %s should produce a valid valuation", mv.Mode)
		require.NotNil(t, mv.Assessment)
		assert.Positive(t, mv.DCF.IntrinsicValue)
		assert.Positive(t, mv.IdealBuyPrice)
	}

	assert.GreaterOrEqual(t, report.WACCPercent, 8.0)
	assert.LessOrEqual(t, report.WACCPercent, 12.0)

	// Metric-derived criteria feed the quality aggregate
	assert.NotEmpty(t, report.Metrics)
	assert.Positive(t, report.Quality.Percent)
	require.NotNil(t, report.Gate)
}

func TestAnalyze_OptimisticBeatsConservative(t *testing.T) {
	svc := newTestService(nil)

	report, err := svc.Analyze(context.Background(), Request{Fundamentals: testFundamentals()})
	require.NoError(t, err)

	conservative := findMode(report.Valuations, ModeConservative)
	optimistic := findMode(report.Valuations, ModeOptimistic)
	require.NotNil(t, conservative)
	require.NotNil(t, optimistic)

	assert.Greater(t, optimistic.DCF.IntrinsicValue, conservative.DCF.IntrinsicValue)
}

func TestAnalyze_ResultsIndependentOfScheduling(t *testing.T) {
	svc := newTestService(nil)
	req := Request{Fundamentals: testFundamentals()}

	first, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first.Valuations, again.Valuations)
		assert.Equal(t, first.WACCPercent, again.WACCPercent)
		assert.Equal(t, first.Quality, again.Quality)
	}
}

func TestAnalyze_ConvertsPriceAcrossCurrencies(t *testing.T) {
	svc := newTestService(map[string]float64{"EUR:USD": 1.10})

	f := testFundamentals()
	f.QuoteCurrency = domain.CurrencyEUR
	f.CurrentPrice = 30

	report, err := svc.Analyze(context.Background(), Request{Fundamentals: f})
	require.NoError(t, err)

	assert.InDelta(t, 33.0, report.CurrentPrice, 1e-9)
	assert.Equal(t, domain.CurrencyUSD, report.PriceCurrency)
}

func TestAnalyze_RateUnavailableFailsTheRun(t *testing.T) {
	svc := newTestService(nil)

	f := testFundamentals()
	f.QuoteCurrency = domain.CurrencyGBP

	_, err := svc.Analyze(context.Background(), Request{Fundamentals: f})
	require.Error(t, err)

	var unavailable *fx.RateUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestAnalyze_NegativeCashFlowYieldsFailureVariant(t *testing.T) {
	svc := newTestService(nil)

	f := testFundamentals()
	for i := range f.Annuals {
		f.Annuals[i].FreeCashFlow = -50
	}

	report, err := svc.Analyze(context.Background(), Request{Fundamentals: f})
	require.NoError(t, err)

	for _, mv := range report.Valuations {
		assert.False(t, mv.DCF.Valid)
		assert.Contains(t, mv.DCF.MissingInputs, "ufcf")
		assert.Nil(t, mv.Assessment)
	}
	// No valid base valuation means no price pillar to gate on
	assert.Nil(t, report.Gate)
}

func TestAnalyze_ValidatesInput(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Analyze(context.Background(), Request{})
	assert.Error(t, err)

	f := testFundamentals()
	f.CurrentPrice = 0
	_, err = svc.Analyze(context.Background(), Request{Fundamentals: f})
	assert.Error(t, err)

	f = testFundamentals()
	f.Annuals = nil
	_, err = svc.Analyze(context.Background(), Request{Fundamentals: f})
	assert.Error(t, err)
}

func TestAnalyze_RejectsOutOfRangeCriterionScore(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Analyze(context.Background(), Request{
		Fundamentals: testFundamentals(),
		CriterionScores: map[scoring.Criterion]float64{
			scoring.CriterionMoat: 11,
		},
	})
	assert.Error(t, err)
}

func TestWACCInputs_AveragesLastFourYears(t *testing.T) {
	f := testFundamentals()
	in := waccInputs(f)

	assert.Equal(t, f.MarketCap, in.MarketCap)
	assert.Equal(t, f.Beta, in.Beta)

	var debt float64
	for _, a := range f.Annuals[:4] {
		debt += a.TotalDebt()
	}
	assert.InDelta(t, debt/4, in.AvgTotalDebt, 1e-9)
}

func TestAnalyze_ClassifiesQualitativeEvidence(t *testing.T) {
	cls := &stubClassifier{answers: map[string]domain.Answer{
		"prices raised twice without churn": domain.AnswerYes,
		"some contracts have caps":          domain.AnswerPartial,
	}}
	svc := newTestServiceWithClassifier(nil, cls)

	report, err := svc.Analyze(context.Background(), Request{
		Fundamentals: testFundamentals(),
		QualitativeEvidence: map[scoring.QualitativeCriterion][3]QuestionEvidence{
			scoring.QualPricingPower: {
				{Question: "Can prices rise without losing customers?", Evidence: "prices raised twice without churn"},
				{Question: "Do contracts allow pass-through?", Evidence: "some contracts have caps"},
				{Question: "Is there a premium segment?"},
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, report.Qualitative)

	// Weights (1.0, 0.5, 0.5): yes earns 1.0, partial 0.25, the
	// unanswered third question nothing.
	require.Len(t, report.Qualitative.Scores, 1)
	score := report.Qualitative.Scores[0]
	assert.Equal(t, scoring.QualPricingPower, score.Criterion)
	assert.InDelta(t, 1.25, score.Points, 1e-9)
	assert.InDelta(t, 2.0, score.MaxPoints, 1e-9)

	// Empty evidence never reaches the classifier
	assert.Equal(t, 2, cls.calls)
}

func TestAnalyze_ClassifierFailureCountsAsUnclear(t *testing.T) {
	cls := &stubClassifier{err: fmt.Errorf("model unavailable")}
	svc := newTestServiceWithClassifier(nil, cls)

	report, err := svc.Analyze(context.Background(), Request{
		Fundamentals: testFundamentals(),
		QualitativeEvidence: map[scoring.QualitativeCriterion][3]QuestionEvidence{
			scoring.QualBusinessModel: {
				{Question: "Is the model easy to explain?", Evidence: "sells subscriptions"},
				{Question: "Is revenue recurring?", Evidence: "annual contracts"},
				{Question: "Is the customer base diversified?", Evidence: "no single customer above 2%"},
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, report.Qualitative)

	require.Len(t, report.Qualitative.Scores, 1)
	assert.Zero(t, report.Qualitative.Scores[0].Points)
}

func TestAnalyze_EvidenceWithoutClassifierFails(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Analyze(context.Background(), Request{
		Fundamentals: testFundamentals(),
		QualitativeEvidence: map[scoring.QualitativeCriterion][3]QuestionEvidence{
			scoring.QualMoatDurability: {
				{Question: "Is the moat widening?", Evidence: "market share grew five years straight"},
			},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no answer classifier")
}

func TestAnalyze_PreClassifiedAnswersWin(t *testing.T) {
	cls := &stubClassifier{answers: map[string]domain.Answer{
		"weak evidence": domain.AnswerNo,
	}}
	svc := newTestServiceWithClassifier(nil, cls)

	report, err := svc.Analyze(context.Background(), Request{
		Fundamentals: testFundamentals(),
		Qualitative: map[scoring.QualitativeCriterion]scoring.CriterionAnswers{
			scoring.QualBusinessModel: {domain.AnswerYes, domain.AnswerYes, domain.AnswerYes},
		},
		QualitativeEvidence: map[scoring.QualitativeCriterion][3]QuestionEvidence{
			scoring.QualBusinessModel: {
				{Question: "Is the model easy to explain?", Evidence: "weak evidence"},
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, report.Qualitative)

	require.Len(t, report.Qualitative.Scores, 1)
	assert.InDelta(t, 3.0, report.Qualitative.Scores[0].Points, 1e-9)
	assert.Zero(t, cls.calls)
}

func TestAnalyze_MetricBadges(t *testing.T) {
	svc := newTestService(nil)

	report, err := svc.Analyze(context.Background(), Request{Fundamentals: testFundamentals()})
	require.NoError(t, err)

	byName := make(map[string]MetricScore, len(report.Metrics))
	for _, m := range report.Metrics {
		byName[m.Metric] = m
	}

	// Ten years of data: window metrics carry the full-window badge, the
	// point-in-time equity ratio always carries the trailing-year badge.
	require.Contains(t, byName, sector.MetricCAGR)
	assert.Equal(t, metrics.BadgeTenYears, byName[sector.MetricCAGR].Badge)
	require.Contains(t, byName, sector.MetricPayoutRatio)
	assert.Equal(t, metrics.BadgeTenYears, byName[sector.MetricPayoutRatio].Badge)
	require.Contains(t, byName, sector.MetricEquityRatio)
	assert.Equal(t, metrics.BadgeTTM, byName[sector.MetricEquityRatio].Badge)
}

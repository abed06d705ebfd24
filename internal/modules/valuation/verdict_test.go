package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

func TestEvaluate_SymmetricClassification(t *testing.T) {
	intrinsic := 80.0

	over := Evaluate(intrinsic, intrinsic*1.10)
	assert.Equal(t, domain.VerdictOvervalued, over.Verdict)

	under := Evaluate(intrinsic, intrinsic*0.90)
	assert.Equal(t, domain.VerdictUndervalued, under.Verdict)

	fair := Evaluate(intrinsic, intrinsic)
	assert.Equal(t, domain.VerdictFairValued, fair.Verdict)
	assert.InDelta(t, 0.0, fair.DeviationPercent, 1e-12)
}

func TestEvaluate_BandBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  domain.Verdict
	}{
		{"just inside upper band", 109.99, domain.VerdictFairValued},
		{"on upper band", 110.0, domain.VerdictOvervalued},
		{"just inside lower band", 90.01, domain.VerdictFairValued},
		{"on lower band", 90.0, domain.VerdictUndervalued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(100.0, tt.price).Verdict)
		})
	}
}

func TestEvaluate_MarginOfSafetySign(t *testing.T) {
	// Price below intrinsic -> positive margin of safety
	cheap := Evaluate(100.0, 75.0)
	assert.InDelta(t, 25.0, cheap.MarginOfSafety, 1e-12)

	expensive := Evaluate(100.0, 120.0)
	assert.InDelta(t, -20.0, expensive.MarginOfSafety, 1e-12)
}

func TestIdealBuyPrice(t *testing.T) {
	assert.InDelta(t, 80.0, IdealBuyPrice(100.0, 20.0), 1e-12)
	assert.InDelta(t, 70.0, IdealBuyPrice(100.0, 30.0), 1e-12)

	// Unsupplied margin falls back to the 20% default
	assert.InDelta(t, 80.0, IdealBuyPrice(100.0, 0), 1e-12)
	assert.InDelta(t, 80.0, IdealBuyPrice(100.0, 150), 1e-12)
}

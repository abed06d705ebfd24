package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromIndustry(t *testing.T) {
	tests := []struct {
		label string
		want  Archetype
	}{
		{"Software - Application", ArchetypeSoftware},
		{"software", ArchetypeSoftware},
		{"Semiconductors", ArchetypeSoftware},
		{"Consumer Defensive", ArchetypeStaples},
		{"Packaged Foods", ArchetypeStaples},
		{"Utilities - Regulated Electric", ArchetypeUtilities},
		{"Telecom Services", ArchetypeUtilities},
		{"Banks - Regional", ArchetypeBanks},
		{"Regional Banks", ArchetypeBanks}, // partial match
		{"Insurance - Life", ArchetypeInsurance},
		{"Auto Manufacturers", ArchetypeStandard},
		{"", ArchetypeStandard},
		{"Something Entirely New", ArchetypeStandard},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, FromIndustry(tt.label))
		})
	}
}

func TestScoreMetric_AscendingScale(t *testing.T) {
	// Standard CAGR bands: >=10 -> 10, >=7 -> 8, >=4 -> 5, >=0 -> 2
	tests := []struct {
		value float64
		want  float64
	}{
		{15.0, 10},
		{10.0, 10}, // boundary clears the band
		{9.9, 8},
		{7.0, 8},
		{5.0, 5},
		{1.0, 2},
		{0.0, 2},
		{-3.0, 0}, // nothing cleared, worst score
	}

	for _, tt := range tests {
		got := ScoreMetric(ArchetypeStandard, MetricCAGR, tt.value)
		assert.Equal(t, tt.want, got, "cagr=%v", tt.value)
	}
}

func TestScoreMetric_DescendingScale(t *testing.T) {
	// Standard payout bands: <=30 -> 10, <=50 -> 8, <=70 -> 5, <=90 -> 2
	tests := []struct {
		value float64
		want  float64
	}{
		{10.0, 10},
		{30.0, 10}, // boundary stays within the band
		{31.0, 8},
		{50.0, 8},
		{69.0, 5},
		{90.0, 2},
		{120.0, 0}, // fell through every band
	}

	for _, tt := range tests {
		got := ScoreMetric(ArchetypeStandard, MetricPayoutRatio, tt.value)
		assert.Equal(t, tt.want, got, "payout=%v", tt.value)
	}
}

func TestScoreMetric_ArchetypesDiffer(t *testing.T) {
	// The same 70% payout is tolerable for a utility, mediocre for
	// the standard archetype, and bad for software.
	payout := 70.0
	assert.Equal(t, 8.0, ScoreMetric(ArchetypeUtilities, MetricPayoutRatio, payout))
	assert.Equal(t, 5.0, ScoreMetric(ArchetypeStandard, MetricPayoutRatio, payout))
	assert.Equal(t, 2.0, ScoreMetric(ArchetypeSoftware, MetricPayoutRatio, payout))
}

func TestScoreMetric_BankEquityBands(t *testing.T) {
	// 8% equity/assets is strong for a bank, weak for an industrial
	assert.Equal(t, 8.0, ScoreMetric(ArchetypeBanks, MetricEquityRatio, 8.0))
	assert.Equal(t, 0.0, ScoreMetric(ArchetypeStandard, MetricEquityRatio, 8.0))
}

func TestScoreMetric_UnknownMetric(t *testing.T) {
	assert.Equal(t, 0.0, ScoreMetric(ArchetypeStandard, "unheard_of", 99))
}

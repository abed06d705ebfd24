package scoring

// GateResult explains the two-pillar conformity decision.
type GateResult struct {
	Conforming     bool    `json:"conforming"`
	QualityPercent float64 `json:"qualityPercent"`
	QualityPasses  bool    `json:"qualityPasses"`
	MarginOfSafety float64 `json:"marginOfSafety"`
	PricePasses    bool    `json:"pricePasses"`
}

// TwoPillarGate decides whether an investment is conforming: the quality
// aggregate must clear the quality-met threshold AND the margin of
// safety must be non-negative. Strictly an AND - a wonderful business at
// a bad price fails exactly like a cheap one of poor quality.
func TwoPillarGate(qualityPercent, marginOfSafety float64) GateResult {
	qualityPasses := qualityPercent >= ThresholdQualityMet
	pricePasses := marginOfSafety >= 0

	return GateResult{
		Conforming:     qualityPasses && pricePasses,
		QualityPercent: qualityPercent,
		QualityPasses:  qualityPasses,
		MarginOfSafety: marginOfSafety,
		PricePasses:    pricePasses,
	}
}

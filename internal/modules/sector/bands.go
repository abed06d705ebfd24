package sector

// band is one threshold step: clear Threshold, earn Score.
type band struct {
	Threshold float64
	Score     float64
}

// scale is an ordered band table. Ascending scales reward higher values
// (score = highest threshold cleared); descending scales reward lower
// values (score = lowest threshold the value stays under or at). Both
// fall through to WorstScore when no band matches.
type scale struct {
	Ascending  bool
	Bands      []band // ascending: descending threshold order; descending: ascending threshold order
	WorstScore float64
}

// bandTables holds the per-archetype threshold configuration.
// Payout ratio is a percentage, lower is better everywhere but the
// tolerance differs: utilities and staples sustainably pay out more than
// software ever should. CAGR and equity ratio are percentages, higher is
// better; banks and insurers run structurally thin equity.
var bandTables = map[Archetype]map[string]scale{
	ArchetypeSoftware: {
		MetricPayoutRatio: {Ascending: false, WorstScore: 0, Bands: []band{
			{Threshold: 20, Score: 10}, {Threshold: 40, Score: 8}, {Threshold: 60, Score: 5}, {Threshold: 80, Score: 2},
		}},
		MetricCAGR: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 15, Score: 10}, {Threshold: 10, Score: 8}, {Threshold: 5, Score: 5}, {Threshold: 0, Score: 2},
		}},
		MetricEquityRatio: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 50, Score: 10}, {Threshold: 35, Score: 8}, {Threshold: 25, Score: 5}, {Threshold: 15, Score: 2},
		}},
	},
	ArchetypeStaples: {
		MetricPayoutRatio: {Ascending: false, WorstScore: 0, Bands: []band{
			{Threshold: 40, Score: 10}, {Threshold: 60, Score: 8}, {Threshold: 75, Score: 5}, {Threshold: 90, Score: 2},
		}},
		MetricCAGR: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 8, Score: 10}, {Threshold: 5, Score: 8}, {Threshold: 3, Score: 5}, {Threshold: 0, Score: 2},
		}},
		MetricEquityRatio: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 40, Score: 10}, {Threshold: 30, Score: 8}, {Threshold: 20, Score: 5}, {Threshold: 10, Score: 2},
		}},
	},
	ArchetypeUtilities: {
		MetricPayoutRatio: {Ascending: false, WorstScore: 0, Bands: []band{
			{Threshold: 60, Score: 10}, {Threshold: 75, Score: 8}, {Threshold: 85, Score: 5}, {Threshold: 100, Score: 2},
		}},
		MetricCAGR: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 5, Score: 10}, {Threshold: 3, Score: 8}, {Threshold: 1, Score: 5}, {Threshold: 0, Score: 2},
		}},
		MetricEquityRatio: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 35, Score: 10}, {Threshold: 25, Score: 8}, {Threshold: 18, Score: 5}, {Threshold: 10, Score: 2},
		}},
	},
	ArchetypeBanks: {
		MetricPayoutRatio: {Ascending: false, WorstScore: 0, Bands: []band{
			{Threshold: 40, Score: 10}, {Threshold: 55, Score: 8}, {Threshold: 70, Score: 5}, {Threshold: 85, Score: 2},
		}},
		MetricCAGR: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 8, Score: 10}, {Threshold: 5, Score: 8}, {Threshold: 2, Score: 5}, {Threshold: 0, Score: 2},
		}},
		// Leverage is the business model; equity/assets bands sit an
		// order of magnitude below industrial companies.
		MetricEquityRatio: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 10, Score: 10}, {Threshold: 7, Score: 8}, {Threshold: 5, Score: 5}, {Threshold: 3, Score: 2},
		}},
	},
	ArchetypeInsurance: {
		MetricPayoutRatio: {Ascending: false, WorstScore: 0, Bands: []band{
			{Threshold: 45, Score: 10}, {Threshold: 60, Score: 8}, {Threshold: 75, Score: 5}, {Threshold: 90, Score: 2},
		}},
		MetricCAGR: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 8, Score: 10}, {Threshold: 5, Score: 8}, {Threshold: 2, Score: 5}, {Threshold: 0, Score: 2},
		}},
		MetricEquityRatio: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 15, Score: 10}, {Threshold: 10, Score: 8}, {Threshold: 7, Score: 5}, {Threshold: 4, Score: 2},
		}},
	},
	ArchetypeStandard: {
		MetricPayoutRatio: {Ascending: false, WorstScore: 0, Bands: []band{
			{Threshold: 30, Score: 10}, {Threshold: 50, Score: 8}, {Threshold: 70, Score: 5}, {Threshold: 90, Score: 2},
		}},
		MetricCAGR: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 10, Score: 10}, {Threshold: 7, Score: 8}, {Threshold: 4, Score: 5}, {Threshold: 0, Score: 2},
		}},
		MetricEquityRatio: {Ascending: true, WorstScore: 0, Bands: []band{
			{Threshold: 45, Score: 10}, {Threshold: 30, Score: 8}, {Threshold: 20, Score: 5}, {Threshold: 10, Score: 2},
		}},
	},
}

// ScoreMetric scores a raw metric value against the archetype's bands.
// Unknown metric names score the worst value; the caller is expected to
// use the Metric* constants.
func ScoreMetric(archetype Archetype, metric string, value float64) float64 {
	table, ok := bandTables[archetype]
	if !ok {
		table = bandTables[ArchetypeStandard]
	}

	sc, ok := table[metric]
	if !ok {
		return 0
	}

	if sc.Ascending {
		// Highest threshold cleared wins; bands are in descending order
		for _, b := range sc.Bands {
			if value >= b.Threshold {
				return b.Score
			}
		}
		return sc.WorstScore
	}

	// Descending: lowest threshold the value stays within wins; bands
	// are in ascending order
	for _, b := range sc.Bands {
		if value <= b.Threshold {
			return b.Score
		}
	}
	return sc.WorstScore
}

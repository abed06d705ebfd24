// Package sector maps industry classifications to threshold presets and
// scores raw metrics against them. All band boundaries are static
// configuration; unknown industries fall back to the Standard archetype.
package sector

import "strings"

// Archetype is one of a closed set of sector profiles, each owning its
// own threshold bands.
type Archetype string

const (
	ArchetypeSoftware  Archetype = "software"
	ArchetypeStaples   Archetype = "staples"
	ArchetypeUtilities Archetype = "utilities_telecom"
	ArchetypeBanks     Archetype = "banks"
	ArchetypeInsurance Archetype = "insurance"
	ArchetypeStandard  Archetype = "standard"
)

// Metric names scored against archetype bands.
const (
	MetricPayoutRatio = "payout_ratio"
	MetricCAGR        = "cagr"
	MetricEquityRatio = "equity_ratio"
)

// industryMap maps lowercased industry labels to archetypes. Labels come
// from the provider's free-text classification, so the list mirrors the
// labels actually seen in provider data rather than any formal taxonomy.
var industryMap = map[string]Archetype{
	"software":                       ArchetypeSoftware,
	"software - application":         ArchetypeSoftware,
	"software - infrastructure":      ArchetypeSoftware,
	"information technology":         ArchetypeSoftware,
	"internet content & information": ArchetypeSoftware,
	"semiconductors":                 ArchetypeSoftware,

	"consumer defensive":            ArchetypeStaples,
	"packaged foods":                ArchetypeStaples,
	"beverages - non-alcoholic":     ArchetypeStaples,
	"household & personal products": ArchetypeStaples,
	"food & staples retailing":      ArchetypeStaples,
	"tobacco":                       ArchetypeStaples,

	"utilities":                      ArchetypeUtilities,
	"utilities - regulated electric": ArchetypeUtilities,
	"utilities - diversified":        ArchetypeUtilities,
	"telecom services":               ArchetypeUtilities,
	"telecommunications services":    ArchetypeUtilities,

	"banks":               ArchetypeBanks,
	"banks - regional":    ArchetypeBanks,
	"banks - diversified": ArchetypeBanks,
	"capital markets":     ArchetypeBanks,

	"insurance":                       ArchetypeInsurance,
	"insurance - life":                ArchetypeInsurance,
	"insurance - diversified":         ArchetypeInsurance,
	"insurance - property & casualty": ArchetypeInsurance,
	"reinsurance":                     ArchetypeInsurance,
}

// FromIndustry maps a free-text industry label to an archetype.
// Unknown labels map to Standard - never fail on a new provider label.
func FromIndustry(label string) Archetype {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if archetype, ok := industryMap[normalized]; ok {
		return archetype
	}

	// Partial matches catch provider label variants ("Regional Banks",
	// "Software—Application" and friends)
	switch {
	case strings.Contains(normalized, "bank"):
		return ArchetypeBanks
	case strings.Contains(normalized, "insurance") || strings.Contains(normalized, "reinsurance"):
		return ArchetypeInsurance
	case strings.Contains(normalized, "software") || strings.Contains(normalized, "semiconductor"):
		return ArchetypeSoftware
	case strings.Contains(normalized, "utilit") || strings.Contains(normalized, "telecom"):
		return ArchetypeUtilities
	case strings.Contains(normalized, "consumer defensive") || strings.Contains(normalized, "staple"):
		return ArchetypeStaples
	}

	return ArchetypeStandard
}

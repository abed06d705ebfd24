// Package metrics resolves time-window-aware metric values from annual
// fundamentals series. Every 10-year metric request degrades gracefully
// to the longest available window and carries a provenance badge so the
// display layer can never misrepresent the data basis.
package metrics

import (
	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// Badge labels the actual window a metric was computed over.
type Badge string

const (
	BadgeTenYears   Badge = "10J"
	BadgeFiveYears  Badge = "5J"
	BadgeThreeYears Badge = "3J"
	BadgeTTM        Badge = "TTM"
	BadgeDataGap    Badge = "Datenlücke"
)

// windowPreference is the ordered list of acceptable window lengths.
// Anything shorter than the last entry is a data gap.
var windowPreference = []int{10, 5, 3}

// Window is a resolved slice of annual data points plus its provenance.
type Window struct {
	Years  int
	Badge  Badge
	Points []domain.AnnualFigures
}

// Empty reports whether the window holds no data points.
func (w Window) Empty() bool {
	return len(w.Points) == 0
}

// ResolveWindow selects the longest window from {10, 5, 3} that fits the
// available series. Points must be ordered most recent first. Fewer than
// 3 points degrade to all available points with the gap badge; an empty
// series returns an empty gap-badged window. The badge always reflects
// the window actually used, never the requested one.
func ResolveWindow(points []domain.AnnualFigures, preferred int) Window {
	if preferred <= 0 {
		preferred = windowPreference[0]
	}

	if len(points) == 0 {
		return Window{Years: 0, Badge: BadgeDataGap, Points: nil}
	}

	for _, years := range windowPreference {
		if years > preferred {
			continue
		}
		if len(points) >= years {
			return Window{
				Years:  years,
				Badge:  badgeForYears(years),
				Points: points[:years],
			}
		}
	}

	// 1 or 2 points: use everything, flag the gap
	return Window{
		Years:  len(points),
		Badge:  BadgeDataGap,
		Points: points,
	}
}

func badgeForYears(years int) Badge {
	switch years {
	case 10:
		return BadgeTenYears
	case 5:
		return BadgeFiveYears
	case 3:
		return BadgeThreeYears
	default:
		return BadgeDataGap
	}
}

// Result is a computed metric value with status and provenance.
type Result struct {
	Value  float64             `json:"value"`
	Status domain.MetricStatus `json:"status"`
	Badge  Badge               `json:"badge"`
}

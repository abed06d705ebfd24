package fx

import (
	"fmt"
	"time"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// RateUnavailableError is returned when all five resolution tiers failed
// for a pair. A silently wrong exchange rate is worse than a failed
// request, so this is the one hard error the engine is allowed to surface.
type RateUnavailableError struct {
	Base   domain.Currency
	Target domain.Currency
	Date   time.Time
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no exchange rate available for %s/%s at %s",
		e.Base, e.Target, e.Date.Format("2006-01-02"))
}

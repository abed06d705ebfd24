package fx

import (
	"strings"
	"time"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/rs/zerolog"
)

// Source identifies which resolution tier produced a rate.
type Source string

const (
	SourceSameCurrency Source = "same_currency"
	SourceDirect       Source = "direct"
	SourceReciprocal   Source = "reciprocal"
	SourceBridge       Source = "bridge"
	SourceLiveFallback Source = "live_fallback"
)

// Resolution is the result of a rate lookup: the rate plus its provenance.
type Resolution struct {
	Rate   float64 `json:"rate"`
	Source Source  `json:"source"`
}

// Resolver resolves exchange rates through five tiers, first success wins:
//
//  1. same currency -> 1.0
//  2. direct historical record (base -> target)
//  3. reciprocal record (target -> base), inverted
//  4. bridge through a reference currency R: (1/rate(R->base)) * rate(R->target)
//  5. live quote from the market-data provider
//
// Rate 1.0 is only ever valid for identical currencies; every other tier
// must produce a real record or the resolution fails hard.
type Resolver struct {
	store domain.RateStore
	live  domain.FxQuoteClient
	log   zerolog.Logger
}

// NewResolver creates a new rate resolver. The live client may be nil,
// in which case the fifth tier is skipped.
func NewResolver(store domain.RateStore, live domain.FxQuoteClient, log zerolog.Logger) *Resolver {
	return &Resolver{
		store: store,
		live:  live,
		log:   log.With().Str("component", "fx_resolver").Logger(),
	}
}

// Resolve returns the exchange rate for base -> target at the given date.
// A zero date means "today".
func (r *Resolver) Resolve(base, target domain.Currency, date time.Time) (Resolution, error) {
	base = normalize(base)
	target = normalize(target)

	if date.IsZero() {
		date = time.Now()
	}

	// Tier 1: same currency, regardless of data availability
	if base == target {
		return Resolution{Rate: 1.0, Source: SourceSameCurrency}, nil
	}

	// Tier 2: direct record
	direct, err := r.store.Latest(base, target, date)
	if err != nil {
		return Resolution{}, err
	}
	if direct != nil && direct.Rate > 0 {
		return Resolution{Rate: direct.Rate, Source: SourceDirect}, nil
	}

	// Tier 3: reciprocal record, inverted
	reciprocal, err := r.store.Latest(target, base, date)
	if err != nil {
		return Resolution{}, err
	}
	if reciprocal != nil && reciprocal.Rate > 0 {
		return Resolution{Rate: 1.0 / reciprocal.Rate, Source: SourceReciprocal}, nil
	}

	// Tier 4: bridge through a reference currency
	if rate, ok, err := r.resolveViaBridge(base, target, date); err != nil {
		return Resolution{}, err
	} else if ok {
		return Resolution{Rate: rate, Source: SourceBridge}, nil
	}

	// Tier 5: live quote
	if r.live != nil {
		rate, err := r.live.GetRate(base, target)
		if err == nil && rate > 0 {
			r.log.Debug().
				Str("base", string(base)).
				Str("target", string(target)).
				Float64("rate", rate).
				Msg("Resolved via live fallback")
			return Resolution{Rate: rate, Source: SourceLiveFallback}, nil
		}
		if err != nil {
			r.log.Warn().
				Err(err).
				Str("base", string(base)).
				Str("target", string(target)).
				Msg("Live fallback failed")
		}
	}

	return Resolution{}, &RateUnavailableError{Base: base, Target: target, Date: date}
}

// resolveViaBridge tries each reference currency R in order. Both legs
// (R->base and R->target) must come from the store; bridging through a
// live quote would hide the provenance of half the rate.
func (r *Resolver) resolveViaBridge(base, target domain.Currency, date time.Time) (float64, bool, error) {
	for _, ref := range domain.BridgeCurrencies {
		if ref == base || ref == target {
			continue
		}

		refToBase, err := r.leg(ref, base, date)
		if err != nil {
			return 0, false, err
		}
		if refToBase <= 0 {
			continue
		}

		refToTarget, err := r.leg(ref, target, date)
		if err != nil {
			return 0, false, err
		}
		if refToTarget <= 0 {
			continue
		}

		rate := (1.0 / refToBase) * refToTarget
		r.log.Debug().
			Str("base", string(base)).
			Str("target", string(target)).
			Str("via", string(ref)).
			Float64("rate", rate).
			Msg("Resolved via bridge")
		return rate, true, nil
	}

	return 0, false, nil
}

// leg resolves one bridge leg from the store, trying direct then inverted.
func (r *Resolver) leg(from, to domain.Currency, date time.Time) (float64, error) {
	direct, err := r.store.Latest(from, to, date)
	if err != nil {
		return 0, err
	}
	if direct != nil && direct.Rate > 0 {
		return direct.Rate, nil
	}

	inverse, err := r.store.Latest(to, from, date)
	if err != nil {
		return 0, err
	}
	if inverse != nil && inverse.Rate > 0 {
		return 1.0 / inverse.Rate, nil
	}

	return 0, nil
}

func normalize(c domain.Currency) domain.Currency {
	return domain.Currency(strings.ToUpper(strings.TrimSpace(string(c))))
}

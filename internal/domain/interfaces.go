package domain

import (
	"context"
	"time"
)

// RateStore provides read access to the historical FX rate store.
// The engine only reads; writes happen in the edge layer (snapshot job).
type RateStore interface {
	// Latest returns the newest rate for (base, target) at or before date.
	// Returns (nil, nil) when no record exists - absence is not an error
	// at the store level, the resolver decides what to do about it.
	Latest(base, target Currency, date time.Time) (*ExchangeRate, error)
}

// FxQuoteClient provides a live FX quote. Used as the last resolution
// tier only; timeout and retry policy belong to the caller.
type FxQuoteClient interface {
	GetRate(from, to Currency) (float64, error)
}

// AnswerClassifier maps free-text evidence to a qualitative answer.
// Contract: (text) -> yes|partial|no|unclear. The scoring engine depends
// on the Answer enum only, never on the text heuristics behind it.
type AnswerClassifier interface {
	Classify(ctx context.Context, question, evidence string) (Answer, error)
}

// Package fx resolves exchange rates between currencies: historical
// lookups from the rate store first, live quotes as a last resort.
package fx

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// Repository provides access to the historical FX rate store.
// Rates are keyed by (base, target, date); lookups return the latest
// record at or before the requested date, never interpolated.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new FX rate repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Latest returns the newest rate for (base, target) at or before date.
// Returns (nil, nil) when no record exists.
func (r *Repository) Latest(base, target domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT base, target, rate_date, rate, is_fallback
		FROM exchange_rates
		WHERE base = ? AND target = ? AND rate_date <= ?
		ORDER BY rate_date DESC
		LIMIT 1`

	var (
		rate     domain.ExchangeRate
		dateStr  string
		fallback int
	)
	err := r.db.QueryRow(query, string(base), string(target), date.Format("2006-01-02")).
		Scan(&rate.Base, &rate.Target, &dateStr, &rate.Rate, &fallback)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rate %s/%s: %w", base, target, err)
	}

	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rate_date %q for %s/%s: %w", dateStr, base, target, err)
	}
	rate.Date = parsed
	rate.IsFallback = fallback != 0

	return &rate, nil
}

// Upsert stores a rate, replacing any existing record for the same
// (base, target, date) key. Keeps the one-rate-per-key invariant.
func (r *Repository) Upsert(rate domain.ExchangeRate) error {
	if rate.Rate <= 0 {
		return fmt.Errorf("refusing to store non-positive rate %f for %s/%s", rate.Rate, rate.Base, rate.Target)
	}

	fallback := 0
	if rate.IsFallback {
		fallback = 1
	}

	query := `
		INSERT OR REPLACE INTO exchange_rates (base, target, rate_date, rate, is_fallback)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		string(rate.Base), string(rate.Target), rate.Date.Format("2006-01-02"), rate.Rate, fallback)
	if err != nil {
		return fmt.Errorf("failed to upsert rate %s/%s: %w", rate.Base, rate.Target, err)
	}

	return nil
}

// Count returns the number of stored rate records. Used by health checks.
func (r *Repository) Count() (int64, error) {
	var count int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM exchange_rates").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rates: %w", err)
	}
	return count, nil
}

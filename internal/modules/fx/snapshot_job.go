package fx

import (
	"strings"
	"time"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/rs/zerolog"
)

// SnapshotJob pulls live rates for the watched pairs into the rate store
// once per day, so historical lookups keep working when the quote API is
// down. Stored rows are flagged as fallback-sourced.
type SnapshotJob struct {
	repo  *Repository
	live  domain.FxQuoteClient
	pairs []string // "BASE:TARGET"
	log   zerolog.Logger
}

// NewSnapshotJob creates a new FX snapshot job.
func NewSnapshotJob(repo *Repository, live domain.FxQuoteClient, pairs []string, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		repo:  repo,
		live:  live,
		pairs: pairs,
		log:   log.With().Str("job", "fx_snapshot").Logger(),
	}
}

// Run fetches and stores today's rate for every watched pair.
// Individual pair failures are logged but don't abort the rest.
func (j *SnapshotJob) Run() error {
	today := time.Now()
	var stored int

	for _, pair := range j.pairs {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			j.log.Warn().Str("pair", pair).Msg("Skipping malformed pair")
			continue
		}
		base := domain.Currency(strings.ToUpper(parts[0]))
		target := domain.Currency(strings.ToUpper(parts[1]))

		rate, err := j.live.GetRate(base, target)
		if err != nil {
			j.log.Warn().Err(err).Str("pair", pair).Msg("Failed to fetch rate")
			continue
		}

		err = j.repo.Upsert(domain.ExchangeRate{
			Base:       base,
			Target:     target,
			Date:       today,
			Rate:       rate,
			IsFallback: true,
		})
		if err != nil {
			j.log.Error().Err(err).Str("pair", pair).Msg("Failed to store rate")
			continue
		}
		stored++
	}

	j.log.Info().
		Int("stored", stored).
		Int("watched", len(j.pairs)).
		Msg("FX snapshot completed")

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *SnapshotJob) Name() string {
	return "fx_snapshot"
}

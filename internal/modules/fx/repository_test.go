package fx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	testdb "github.com/nickybricks/private-aesy-sub003/internal/testing"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRepository_LatestAtOrBeforeDate(t *testing.T) {
	db, cleanup := testdb.NewTestDB(t, "rates")
	defer cleanup()

	repo := NewRepository(db.Conn())

	require.NoError(t, repo.Upsert(domain.ExchangeRate{
		Base: "USD", Target: "EUR", Date: day(2024, 1, 10), Rate: 0.91,
	}))
	require.NoError(t, repo.Upsert(domain.ExchangeRate{
		Base: "USD", Target: "EUR", Date: day(2024, 1, 20), Rate: 0.93,
	}))

	tests := []struct {
		name     string
		date     time.Time
		wantRate float64
		wantNil  bool
	}{
		{"exact match", day(2024, 1, 20), 0.93, false},
		{"between records picks earlier", day(2024, 1, 15), 0.91, false},
		{"after all records picks latest", day(2024, 2, 1), 0.93, false},
		{"before all records finds nothing", day(2024, 1, 1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Latest("USD", "EUR", tt.date)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantRate, got.Rate)
		})
	}
}

func TestRepository_UpsertReplacesSameKey(t *testing.T) {
	db, cleanup := testdb.NewTestDB(t, "rates")
	defer cleanup()

	repo := NewRepository(db.Conn())
	date := day(2024, 3, 1)

	require.NoError(t, repo.Upsert(domain.ExchangeRate{
		Base: "EUR", Target: "USD", Date: date, Rate: 1.08,
	}))
	require.NoError(t, repo.Upsert(domain.ExchangeRate{
		Base: "EUR", Target: "USD", Date: date, Rate: 1.09, IsFallback: true,
	}))

	// At most one rate per (base, target, date)
	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.Latest("EUR", "USD", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1.09, got.Rate)
	assert.True(t, got.IsFallback)
}

func TestRepository_RejectsNonPositiveRate(t *testing.T) {
	db, cleanup := testdb.NewTestDB(t, "rates")
	defer cleanup()

	repo := NewRepository(db.Conn())
	err := repo.Upsert(domain.ExchangeRate{
		Base: "EUR", Target: "USD", Date: day(2024, 3, 1), Rate: 0,
	})
	require.Error(t, err)
}

func TestRepository_PairsAreDirectional(t *testing.T) {
	db, cleanup := testdb.NewTestDB(t, "rates")
	defer cleanup()

	repo := NewRepository(db.Conn())
	require.NoError(t, repo.Upsert(domain.ExchangeRate{
		Base: "USD", Target: "EUR", Date: day(2024, 1, 10), Rate: 0.91,
	}))

	got, err := repo.Latest("EUR", "USD", day(2024, 1, 10))
	require.NoError(t, err)
	assert.Nil(t, got, "reverse direction must not match")
}

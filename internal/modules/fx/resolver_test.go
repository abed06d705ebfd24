package fx

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// mockStore serves rates from an in-memory map keyed by "BASE:TARGET".
type mockStore struct {
	rates map[string]float64
	err   error
}

func (m *mockStore) Latest(base, target domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	if m.err != nil {
		return nil, m.err
	}
	key := fmt.Sprintf("%s:%s", base, target)
	rate, ok := m.rates[key]
	if !ok {
		return nil, nil
	}
	return &domain.ExchangeRate{
		Base:   base,
		Target: target,
		Date:   date,
		Rate:   rate,
	}, nil
}

type mockLiveClient struct {
	rate  float64
	err   error
	calls int
}

func (m *mockLiveClient) GetRate(from, to domain.Currency) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.rate, nil
}

func TestResolver_SameCurrencyShortCircuits(t *testing.T) {
	// No store data at all - same-code pairs must still resolve to 1.0
	resolver := NewResolver(&mockStore{rates: map[string]float64{}}, nil, zerolog.Nop())

	res, err := resolver.Resolve("EUR", "EUR", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Rate)
	assert.Equal(t, SourceSameCurrency, res.Source)
}

func TestResolver_DirectLookup(t *testing.T) {
	store := &mockStore{rates: map[string]float64{"USD:EUR": 0.92}}
	resolver := NewResolver(store, nil, zerolog.Nop())

	res, err := resolver.Resolve("USD", "EUR", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.92, res.Rate)
	assert.Equal(t, SourceDirect, res.Source)
}

func TestResolver_ReciprocalLookup(t *testing.T) {
	// Only EUR->USD stored; USD->EUR must invert it
	store := &mockStore{rates: map[string]float64{"EUR:USD": 1.25}}
	resolver := NewResolver(store, nil, zerolog.Nop())

	res, err := resolver.Resolve("USD", "EUR", time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 0.8, res.Rate, 1e-12)
	assert.Equal(t, SourceReciprocal, res.Source)
}

func TestResolver_RoundTripConsistency(t *testing.T) {
	store := &mockStore{rates: map[string]float64{"EUR:USD": 1.0843}}
	resolver := NewResolver(store, nil, zerolog.Nop())

	forward, err := resolver.Resolve("EUR", "USD", time.Now())
	require.NoError(t, err)
	backward, err := resolver.Resolve("USD", "EUR", time.Now())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, forward.Rate*backward.Rate, 1e-9)
}

func TestResolver_BridgeThroughUSD(t *testing.T) {
	// No direct or reciprocal GBP/CHF record, but USD legs exist.
	// rate = (1/rate(USD->GBP)) * rate(USD->CHF)
	store := &mockStore{rates: map[string]float64{
		"USD:GBP": 0.80,
		"USD:CHF": 0.90,
	}}
	resolver := NewResolver(store, nil, zerolog.Nop())

	res, err := resolver.Resolve("GBP", "CHF", time.Now())
	require.NoError(t, err)
	assert.InDelta(t, (1.0/0.80)*0.90, res.Rate, 1e-12)
	assert.Equal(t, SourceBridge, res.Source)
}

func TestResolver_BridgeFallsBackToEUR(t *testing.T) {
	// USD legs incomplete, EUR legs complete
	store := &mockStore{rates: map[string]float64{
		"USD:GBP": 0.80, // missing USD:CHF leg
		"EUR:GBP": 0.85,
		"EUR:CHF": 0.95,
	}}
	resolver := NewResolver(store, nil, zerolog.Nop())

	res, err := resolver.Resolve("GBP", "CHF", time.Now())
	require.NoError(t, err)
	assert.Equal(t, SourceBridge, res.Source)
	assert.InDelta(t, (1.0/0.85)*0.95, res.Rate, 1e-12)
}

func TestResolver_BridgeUsesInvertedLegs(t *testing.T) {
	// Legs stored in the opposite direction must still bridge
	store := &mockStore{rates: map[string]float64{
		"GBP:USD": 1.25, // USD->GBP = 0.80 inverted
		"USD:CHF": 0.90,
	}}
	resolver := NewResolver(store, nil, zerolog.Nop())

	res, err := resolver.Resolve("GBP", "CHF", time.Now())
	require.NoError(t, err)
	assert.Equal(t, SourceBridge, res.Source)
	assert.InDelta(t, (1.0/0.80)*0.90, res.Rate, 1e-9)
}

func TestResolver_LiveFallback(t *testing.T) {
	store := &mockStore{rates: map[string]float64{}}
	live := &mockLiveClient{rate: 1.1}
	resolver := NewResolver(store, live, zerolog.Nop())

	res, err := resolver.Resolve("EUR", "USD", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1.1, res.Rate)
	assert.Equal(t, SourceLiveFallback, res.Source)
	assert.Equal(t, 1, live.calls)
}

func TestResolver_AllTiersExhausted(t *testing.T) {
	store := &mockStore{rates: map[string]float64{}}
	live := &mockLiveClient{err: errors.New("quote service down")}
	resolver := NewResolver(store, live, zerolog.Nop())

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve("EUR", "JPY", date)
	require.Error(t, err)

	var unavailable *RateUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, domain.CurrencyEUR, unavailable.Base)
	assert.Equal(t, domain.CurrencyJPY, unavailable.Target)
	assert.Contains(t, err.Error(), "2024-03-15")
}

func TestResolver_NoSilentRateOfOne(t *testing.T) {
	// Missing data for distinct currencies must never yield rate=1
	resolver := NewResolver(&mockStore{rates: map[string]float64{}}, nil, zerolog.Nop())

	_, err := resolver.Resolve("EUR", "USD", time.Now())
	require.Error(t, err)
}

func TestResolver_NormalizesCase(t *testing.T) {
	store := &mockStore{rates: map[string]float64{"USD:EUR": 0.92}}
	resolver := NewResolver(store, nil, zerolog.Nop())

	res, err := resolver.Resolve("usd", " eur ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.92, res.Rate)
}

func TestResolver_StoreErrorPropagates(t *testing.T) {
	store := &mockStore{err: errors.New("db locked")}
	resolver := NewResolver(store, nil, zerolog.Nop())

	_, err := resolver.Resolve("EUR", "USD", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}

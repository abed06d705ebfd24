// Package fxquote fetches live currency exchange rates with caching.
package fxquote

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/nickybricks/private-aesy-sub003/internal/clientdata"
	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

const cacheTable = "fx_quotes"

// Client for a latest-rates FX API (exchangerate-api.com shape).
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new live FX quote client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(baseURL string, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "fxquote").Logger(),
		cacheRepo: cacheRepo,
	}
}

// cachedRate is the structure stored in the cache
type cachedRate struct {
	Rate float64 `msgpack:"rate"`
}

// GetRate fetches the current exchange rate with cache.
// If the API fails, returns stale cached data if available (stale data > no data).
func (c *Client) GetRate(from, to domain.Currency) (float64, error) {
	if from == to {
		return 1.0, nil
	}

	cacheKey := string(from) + ":" + string(to)

	// Check persistent cache for fresh data
	if c.cacheRepo != nil {
		var cached cachedRate
		found, err := c.cacheRepo.GetIfFresh(cacheTable, cacheKey, &cached)
		if err == nil && found {
			c.log.Debug().
				Str("from", string(from)).
				Str("to", string(to)).
				Float64("rate", cached.Rate).
				Msg("Cache hit")
			return cached.Rate, nil
		}
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, from)
	c.log.Debug().Str("url", url).Msg("Fetching rates")

	resp, err := c.client.Get(url)
	if err != nil {
		if staleRate, ok := c.getStaleFromCache(cacheKey); ok {
			c.log.Warn().
				Err(err).
				Str("from", string(from)).
				Str("to", string(to)).
				Float64("rate", staleRate).
				Msg("API failed, using stale cached rate")
			return staleRate, nil
		}
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if staleRate, ok := c.getStaleFromCache(cacheKey); ok {
			c.log.Warn().
				Int("status", resp.StatusCode).
				Str("from", string(from)).
				Str("to", string(to)).
				Float64("rate", staleRate).
				Msg("API error, using stale cached rate")
			return staleRate, nil
		}
		return 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}

	result := gjson.GetBytes(body, "rates."+string(to))
	if !result.Exists() {
		if staleRate, ok := c.getStaleFromCache(cacheKey); ok {
			c.log.Warn().
				Str("from", string(from)).
				Str("to", string(to)).
				Float64("rate", staleRate).
				Msg("Rate not in API response, using stale cached rate")
			return staleRate, nil
		}
		return 0, fmt.Errorf("rate not found for %s->%s", from, to)
	}

	rate := result.Float()
	if rate <= 0 {
		return 0, fmt.Errorf("API returned non-positive rate %f for %s->%s", rate, from, to)
	}

	// Cache persistently
	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(cacheTable, cacheKey, cachedRate{Rate: rate}, clientdata.TTLFxQuote); err != nil {
			c.log.Warn().Err(err).Str("pair", cacheKey).Msg("Failed to cache exchange rate")
		}
	}

	c.log.Info().
		Str("from", string(from)).
		Str("to", string(to)).
		Float64("rate", rate).
		Msg("Fetched rate")

	return rate, nil
}

// getStaleFromCache retrieves a cached rate even if expired.
// Used as a fallback when API calls fail.
func (c *Client) getStaleFromCache(cacheKey string) (float64, bool) {
	if c.cacheRepo == nil {
		return 0, false
	}

	var cached cachedRate
	found, err := c.cacheRepo.Get(cacheTable, cacheKey, &cached)
	if err != nil || !found {
		return 0, false
	}

	return cached.Rate, true
}

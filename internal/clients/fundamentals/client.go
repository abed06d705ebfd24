// Package fundamentals fetches company profiles and annual statements
// from the market data provider and assembles them into analysis inputs.
package fundamentals

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/nickybricks/private-aesy-sub003/internal/clientdata"
	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

const (
	profileTable    = "provider_profile"
	statementsTable = "provider_statements"
	quoteTable      = "provider_quote"

	// Ten fiscal years covers the widest metric window.
	statementYears = 10
)

// Client for a financial statements provider (FMP-style REST API).
type Client struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new fundamentals client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(baseURL, apiKey string, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 20 * time.Second},
		log:       log.With().Str("client", "fundamentals").Logger(),
		cacheRepo: cacheRepo,
	}
}

// cachedProfile holds the raw profile response body.
type cachedProfile struct {
	Body []byte `msgpack:"body"`
}

// cachedStatements holds the three raw statement response bodies.
type cachedStatements struct {
	Income    []byte `msgpack:"income"`
	Balance   []byte `msgpack:"balance"`
	CashFlow  []byte `msgpack:"cash_flow"`
	FetchedAt int64  `msgpack:"fetched_at"`
}

// cachedQuote holds the short-lived current price.
type cachedQuote struct {
	Price float64 `msgpack:"price"`
}

// GetFundamentals assembles the full per-ticker analysis input: profile,
// up to ten fiscal years of statements, and the current price.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*domain.Fundamentals, error) {
	profileBody, err := c.getProfile(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("profile for %s: %w", symbol, err)
	}

	stmts, err := c.getStatements(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("statements for %s: %w", symbol, err)
	}

	price, err := c.GetCurrentPrice(ctx, symbol)
	if err != nil {
		// Profile carries a (possibly delayed) price; delayed beats nothing.
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed, using profile price")
		price = gjson.GetBytes(profileBody, "0.price").Float()
	}

	f := parseFundamentals(symbol, profileBody, stmts)
	f.CurrentPrice = price

	if len(f.Annuals) == 0 {
		return nil, fmt.Errorf("no annual statements for %s", symbol)
	}

	return f, nil
}

// GetCurrentPrice fetches the current quote, cached for a short TTL.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	if c.cacheRepo != nil {
		var cached cachedQuote
		found, err := c.cacheRepo.GetIfFresh(quoteTable, symbol, &cached)
		if err == nil && found {
			return cached.Price, nil
		}
	}

	body, err := c.fetch(ctx, fmt.Sprintf("%s/quote-short/%s", c.baseURL, symbol))
	if err != nil {
		return 0, err
	}

	price := gjson.GetBytes(body, "0.price")
	if !price.Exists() || price.Float() <= 0 {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(quoteTable, symbol, cachedQuote{Price: price.Float()}, clientdata.TTLQuote); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache quote")
		}
	}

	return price.Float(), nil
}

func (c *Client) getProfile(ctx context.Context, symbol string) ([]byte, error) {
	if c.cacheRepo != nil {
		var cached cachedProfile
		found, err := c.cacheRepo.GetIfFresh(profileTable, symbol, &cached)
		if err == nil && found {
			return cached.Body, nil
		}
	}

	body, err := c.fetch(ctx, fmt.Sprintf("%s/profile/%s", c.baseURL, symbol))
	if err != nil {
		return nil, err
	}

	if !gjson.GetBytes(body, "0.symbol").Exists() {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(profileTable, symbol, cachedProfile{Body: body}, clientdata.TTLProfile); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache profile")
		}
	}

	return body, nil
}

func (c *Client) getStatements(ctx context.Context, symbol string) (*cachedStatements, error) {
	if c.cacheRepo != nil {
		var cached cachedStatements
		found, err := c.cacheRepo.GetIfFresh(statementsTable, symbol, &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	income, err := c.fetch(ctx, fmt.Sprintf("%s/income-statement/%s?limit=%d", c.baseURL, symbol, statementYears))
	if err != nil {
		return nil, fmt.Errorf("income statement: %w", err)
	}
	balance, err := c.fetch(ctx, fmt.Sprintf("%s/balance-sheet-statement/%s?limit=%d", c.baseURL, symbol, statementYears))
	if err != nil {
		return nil, fmt.Errorf("balance sheet: %w", err)
	}
	cashFlow, err := c.fetch(ctx, fmt.Sprintf("%s/cash-flow-statement/%s?limit=%d", c.baseURL, symbol, statementYears))
	if err != nil {
		return nil, fmt.Errorf("cash flow statement: %w", err)
	}

	stmts := &cachedStatements{
		Income:    income,
		Balance:   balance,
		CashFlow:  cashFlow,
		FetchedAt: time.Now().Unix(),
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(statementsTable, symbol, stmts, clientdata.TTLStatements); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache statements")
		}
	}

	return stmts, nil
}

// fetch performs a GET request, appending the API key when configured.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.apiKey != "" {
		sep := "?"
		for i := 0; i < len(url); i++ {
			if url[i] == '?' {
				sep = "&"
				break
			}
		}
		url = url + sep + "apikey=" + c.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// Package domain provides core domain models and types.
package domain

import "time"

// Currency represents an uppercase three-letter currency code
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
	CurrencyJPY Currency = "JPY"
)

// BridgeCurrencies are tried in order when no direct or reciprocal rate
// exists for a pair. USD first because most provider histories are
// USD-denominated, EUR second for European listings.
var BridgeCurrencies = []Currency{CurrencyUSD, CurrencyEUR}

// ExchangeRate represents one historical FX record.
// Keyed by (base, target, date); at most one rate per key.
type ExchangeRate struct {
	Date       time.Time `json:"date"`
	Base       Currency  `json:"base"`
	Target     Currency  `json:"target"`
	Rate       float64   `json:"rate"`
	IsFallback bool      `json:"is_fallback"`
}

// Answer represents a classified qualitative answer.
// Unclear deliberately scores like No (0 points): missing evidence is
// treated as a negative finding, not as a gap to be ignored.
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerPartial Answer = "partial"
	AnswerNo      Answer = "no"
	AnswerUnclear Answer = "unclear"
)

// Verdict classifies current price against intrinsic value
type Verdict string

const (
	VerdictUndervalued Verdict = "undervalued"
	VerdictFairValued  Verdict = "fairvalued"
	VerdictOvervalued  Verdict = "overvalued"
)

// MetricStatus represents the pass/warning/fail state of a computed metric
type MetricStatus string

const (
	MetricPass    MetricStatus = "pass"
	MetricWarning MetricStatus = "warning"
	MetricFail    MetricStatus = "fail"
)

// AnnualFigures holds one fiscal year of reported fundamentals.
// Monetary figures are in the reporting currency of the filing.
type AnnualFigures struct {
	FiscalYear        int     `json:"fiscal_year"`
	Revenue           float64 `json:"revenue"`
	NetIncome         float64 `json:"net_income"`
	PretaxIncome      float64 `json:"pretax_income"`
	TaxExpense        float64 `json:"tax_expense"`
	InterestExpense   float64 `json:"interest_expense"`
	FreeCashFlow      float64 `json:"free_cash_flow"`
	DividendsPaid     float64 `json:"dividends_paid"`
	TotalEquity       float64 `json:"total_equity"`
	TotalAssets       float64 `json:"total_assets"`
	ShortTermDebt     float64 `json:"short_term_debt"`
	LongTermDebt      float64 `json:"long_term_debt"`
	LeaseObligations  float64 `json:"lease_obligations"`
	CashAndEquivalent float64 `json:"cash_and_equivalents"`
}

// TotalDebt returns short plus long term debt including lease liabilities
func (a AnnualFigures) TotalDebt() float64 {
	return a.ShortTermDebt + a.LongTermDebt + a.LeaseObligations
}

// Fundamentals is the full per-ticker input to an analysis run.
// Annuals are ordered most recent first. Constructed fresh from provider
// data per request; the engine never mutates it.
type Fundamentals struct {
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Industry          string          `json:"industry"`
	ReportingCurrency Currency        `json:"reporting_currency"`
	QuoteCurrency     Currency        `json:"quote_currency"`
	CurrentPrice      float64         `json:"current_price"`
	MarketCap         float64         `json:"market_cap"`
	Beta              float64         `json:"beta"`
	DilutedShares     float64         `json:"diluted_shares"`
	Annuals           []AnnualFigures `json:"annuals"`
}

package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

const profileJSON = `[{
	"symbol": "ACME",
	"companyName": "Acme Corp",
	"industry": "Software - Application",
	"currency": "usd",
	"mktCap": 5000000000,
	"beta": 1.2,
	"price": 48.5
}]`

const incomeJSON = `[
	{"calendarYear": "2025", "reportedCurrency": "USD", "revenue": 1200, "netIncome": 200,
	 "incomeBeforeTax": 250, "incomeTaxExpense": 50, "interestExpense": 10,
	 "weightedAverageShsOutDil": 100},
	{"calendarYear": "2024", "reportedCurrency": "USD", "revenue": 1000, "netIncome": 150,
	 "incomeBeforeTax": 190, "incomeTaxExpense": 40, "interestExpense": 12,
	 "weightedAverageShsOutDil": 102}
]`

const balanceJSON = `[
	{"calendarYear": "2024", "totalStockholdersEquity": 800, "totalAssets": 2000,
	 "shortTermDebt": 50, "longTermDebt": 300, "capitalLeaseObligations": 20,
	 "cashAndCashEquivalents": 150},
	{"calendarYear": "2025", "totalStockholdersEquity": 900, "totalAssets": 2200,
	 "shortTermDebt": 60, "longTermDebt": 280, "capitalLeaseObligations": 25,
	 "cashAndCashEquivalents": 180}
]`

const cashFlowJSON = `[
	{"calendarYear": "2025", "freeCashFlow": 180, "dividendsPaid": -40},
	{"calendarYear": "2024", "freeCashFlow": 140, "dividendsPaid": -35}
]`

func testStatements() *cachedStatements {
	return &cachedStatements{
		Income:   []byte(incomeJSON),
		Balance:  []byte(balanceJSON),
		CashFlow: []byte(cashFlowJSON),
	}
}

func TestParseFundamentals_JoinsStatementsByYear(t *testing.T) {
	f := parseFundamentals("ACME", []byte(profileJSON), testStatements())

	assert.Equal(t, "ACME", f.Symbol)
	assert.Equal(t, "Acme Corp", f.Name)
	assert.Equal(t, "Software - Application", f.Industry)
	assert.Equal(t, domain.CurrencyUSD, f.QuoteCurrency)
	assert.Equal(t, domain.CurrencyUSD, f.ReportingCurrency)
	assert.Equal(t, 1.2, f.Beta)
	assert.Equal(t, 100.0, f.DilutedShares)

	require.Len(t, f.Annuals, 2)

	latest := f.Annuals[0]
	assert.Equal(t, 2025, latest.FiscalYear)
	assert.Equal(t, 1200.0, latest.Revenue)
	assert.Equal(t, 200.0, latest.NetIncome)
	// Balance sheet rows arrive in a different order; joined by year
	assert.Equal(t, 900.0, latest.TotalEquity)
	assert.Equal(t, 60.0+280.0+25.0, latest.TotalDebt())
	assert.Equal(t, 180.0, latest.FreeCashFlow)
	assert.Equal(t, -40.0, latest.DividendsPaid)
}

func TestParseFundamentals_MostRecentFirst(t *testing.T) {
	f := parseFundamentals("ACME", []byte(profileJSON), testStatements())

	require.Len(t, f.Annuals, 2)
	assert.Greater(t, f.Annuals[0].FiscalYear, f.Annuals[1].FiscalYear)
}

func TestParseFundamentals_MissingBalanceYearLeavesZeros(t *testing.T) {
	stmts := testStatements()
	stmts.Balance = []byte(`[]`)

	f := parseFundamentals("ACME", []byte(profileJSON), stmts)

	require.Len(t, f.Annuals, 2)
	assert.Zero(t, f.Annuals[0].TotalEquity)
	assert.Zero(t, f.Annuals[0].TotalAssets)
	// Income figures still present
	assert.Equal(t, 1200.0, f.Annuals[0].Revenue)
}

func TestParseFundamentals_NoIncomeRowsNoAnnuals(t *testing.T) {
	stmts := testStatements()
	stmts.Income = []byte(`[]`)

	f := parseFundamentals("ACME", []byte(profileJSON), stmts)
	assert.Empty(t, f.Annuals)
}

func TestParseFundamentals_CurrencyUppercased(t *testing.T) {
	f := parseFundamentals("ACME", []byte(profileJSON), testStatements())
	assert.Equal(t, domain.Currency("USD"), f.QuoteCurrency)
}

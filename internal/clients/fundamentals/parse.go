package fundamentals

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

// parseFundamentals maps provider JSON onto the analysis input. Annual
// rows from the three statements are joined on fiscal year; a year is
// kept only when its income statement row exists, since every metric
// needs earnings at minimum.
func parseFundamentals(symbol string, profileBody []byte, stmts *cachedStatements) *domain.Fundamentals {
	profile := gjson.GetBytes(profileBody, "0")

	f := &domain.Fundamentals{
		Symbol:            symbol,
		Name:              profile.Get("companyName").String(),
		Industry:          profile.Get("industry").String(),
		QuoteCurrency:     domain.Currency(strings.ToUpper(profile.Get("currency").String())),
		MarketCap:         profile.Get("mktCap").Float(),
		Beta:              profile.Get("beta").Float(),
		ReportingCurrency: domain.Currency(strings.ToUpper(gjson.GetBytes(stmts.Income, "0.reportedCurrency").String())),
	}

	balanceByYear := indexByYear(stmts.Balance)
	cashFlowByYear := indexByYear(stmts.CashFlow)

	gjson.GetBytes(stmts.Income, "@this").ForEach(func(_, income gjson.Result) bool {
		year := int(income.Get("calendarYear").Int())
		if year == 0 {
			return true
		}

		annual := domain.AnnualFigures{
			FiscalYear:      year,
			Revenue:         income.Get("revenue").Float(),
			NetIncome:       income.Get("netIncome").Float(),
			PretaxIncome:    income.Get("incomeBeforeTax").Float(),
			TaxExpense:      income.Get("incomeTaxExpense").Float(),
			InterestExpense: income.Get("interestExpense").Float(),
		}

		if bal, ok := balanceByYear[year]; ok {
			annual.TotalEquity = bal.Get("totalStockholdersEquity").Float()
			annual.TotalAssets = bal.Get("totalAssets").Float()
			annual.ShortTermDebt = bal.Get("shortTermDebt").Float()
			annual.LongTermDebt = bal.Get("longTermDebt").Float()
			annual.LeaseObligations = bal.Get("capitalLeaseObligations").Float()
			annual.CashAndEquivalent = bal.Get("cashAndCashEquivalents").Float()
		}

		if cf, ok := cashFlowByYear[year]; ok {
			annual.FreeCashFlow = cf.Get("freeCashFlow").Float()
			annual.DividendsPaid = cf.Get("dividendsPaid").Float()
		}

		f.Annuals = append(f.Annuals, annual)
		return true
	})

	// Most recent first, whatever order the provider returned
	sort.Slice(f.Annuals, func(i, j int) bool {
		return f.Annuals[i].FiscalYear > f.Annuals[j].FiscalYear
	})

	// Diluted share count comes from the newest income statement row
	if shares := gjson.GetBytes(stmts.Income, "0.weightedAverageShsOutDil"); shares.Exists() {
		f.DilutedShares = shares.Float()
	}

	return f
}

// indexByYear maps calendarYear to its statement row.
func indexByYear(body []byte) map[int]gjson.Result {
	rows := make(map[int]gjson.Result)
	gjson.GetBytes(body, "@this").ForEach(func(_, row gjson.Result) bool {
		if year := int(row.Get("calendarYear").Int()); year != 0 {
			rows[year] = row
		}
		return true
	})
	return rows
}

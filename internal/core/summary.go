package core

// CategoryAmount represents an amount aggregated by category or place name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// DailyFlow is one day of the month's cash-flow series.
type DailyFlow struct {
	Day      int
	Income   Money
	Expenses Money
}

// MonthSummary is a compact ledger summary for a specific year+month.
type MonthSummary struct {
	Year       int
	Month      int // 1-12
	Income     Money
	Expenses   Money
	Balance    Money
	ByCategory []CategoryAmount
	ByPlace    []CategoryAmount
	Cashflow   []DailyFlow
}

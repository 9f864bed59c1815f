package domain

import "github.com/shopspring/decimal"

// AccountSummary is a per-account rollup over posted transactions.
type AccountSummary struct {
	AccountID    string          `json:"accountId"`
	AccountName  string          `json:"accountName"`
	CurrencyID   string          `json:"currencyId"`
	Balance      decimal.Decimal `json:"balance"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Net          decimal.Decimal `json:"net"`
}

// MonthlyAggregate is a per-month rollup. Month is a YYYY-MM key. The
// projected columns include posted amounts plus projections, matching what a
// forecast view expects for the month.
type MonthlyAggregate struct {
	Month            string          `json:"month"`
	ActualIncome     decimal.Decimal `json:"actualIncome"`
	ProjectedIncome  decimal.Decimal `json:"projectedIncome"`
	ActualExpense    decimal.Decimal `json:"actualExpense"`
	ProjectedExpense decimal.Decimal `json:"projectedExpense"`
}

// CategoryAggregate is a per-category rollup of posted and projected amounts.
// Percentage is the category's share of the total posted amount, in [0,1].
type CategoryAggregate struct {
	Category        string          `json:"category"`
	ActualAmount    decimal.Decimal `json:"actualAmount"`
	ProjectedAmount decimal.Decimal `json:"projectedAmount"`
	Percentage      *float64        `json:"percentage,omitempty"`
}

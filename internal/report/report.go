// Package report derives read-only rollups from store state: per-account
// summaries, monthly and category aggregates, and the time series handed to
// the charting boundary.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/timeseries"
)

// AccountSummaries rolls up posted transactions per account. The ending
// balance is the account's recorded balance plus the net of the period.
// Accounts keep their input order.
func AccountSummaries(accounts []domain.Account, txns []domain.Transaction) []domain.AccountSummary {
	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, acc := range accounts {
		sum := domain.AccountSummary{
			AccountID:   acc.ID,
			AccountName: acc.Name,
			CurrencyID:  acc.CurrencyID,
		}
		for _, txn := range txns {
			if txn.AccountID != acc.ID {
				continue
			}
			switch txn.Type {
			case domain.TransactionTypeIncome:
				sum.TotalIncome = sum.TotalIncome.Add(txn.Amount)
			case domain.TransactionTypeExpense:
				sum.TotalExpense = sum.TotalExpense.Add(txn.Amount)
			}
		}
		sum.Net = sum.TotalIncome.Sub(sum.TotalExpense)
		sum.Balance = sum.Net
		if acc.Balance != nil {
			sum.Balance = acc.Balance.Add(sum.Net)
		}
		summaries = append(summaries, sum)
	}
	return summaries
}

// MonthlyAggregates rolls up the collection per YYYY-MM month, ascending.
// Actual columns cover posted records only; projected columns cover posted
// plus projected, the expected totals for the month.
func MonthlyAggregates(txns domain.TransactionList) []domain.MonthlyAggregate {
	byMonth := map[string]*domain.MonthlyAggregate{}
	for _, txn := range txns {
		rec := txn.Record()
		if len(rec.Date) < 7 {
			continue
		}
		month := rec.Date[:7]
		agg, ok := byMonth[month]
		if !ok {
			agg = &domain.MonthlyAggregate{Month: month}
			byMonth[month] = agg
		}

		switch rec.Type {
		case domain.TransactionTypeIncome:
			agg.ProjectedIncome = agg.ProjectedIncome.Add(rec.Amount)
			if !txn.Projected() {
				agg.ActualIncome = agg.ActualIncome.Add(rec.Amount)
			}
		case domain.TransactionTypeExpense:
			agg.ProjectedExpense = agg.ProjectedExpense.Add(rec.Amount)
			if !txn.Projected() {
				agg.ActualExpense = agg.ActualExpense.Add(rec.Amount)
			}
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]domain.MonthlyAggregate, 0, len(months))
	for _, m := range months {
		out = append(out, *byMonth[m])
	}
	return out
}

// CategoryAggregates rolls up the collection per category, largest posted
// amount first. Percentage is the category's share of the total posted
// amount across all categories.
func CategoryAggregates(txns domain.TransactionList) []domain.CategoryAggregate {
	byCategory := map[string]*domain.CategoryAggregate{}
	order := []string{}
	total := decimal.Zero
	for _, txn := range txns {
		rec := txn.Record()
		agg, ok := byCategory[rec.Category]
		if !ok {
			agg = &domain.CategoryAggregate{Category: rec.Category}
			byCategory[rec.Category] = agg
			order = append(order, rec.Category)
		}
		if txn.Projected() {
			agg.ProjectedAmount = agg.ProjectedAmount.Add(rec.Amount)
		} else {
			agg.ActualAmount = agg.ActualAmount.Add(rec.Amount)
			total = total.Add(rec.Amount)
		}
	}

	out := make([]domain.CategoryAggregate, 0, len(order))
	for _, cat := range order {
		agg := byCategory[cat]
		if total.IsPositive() {
			pct, _ := agg.ActualAmount.Div(total).Float64()
			agg.Percentage = &pct
		}
		out = append(out, *agg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ActualAmount.GreaterThan(out[j].ActualAmount)
	})
	return out
}

// MonthlySeries turns monthly aggregates into the four chart series,
// normalized to day-level time points.
type MonthlySeries struct {
	ExpensesActual    []timeseries.Point `json:"expensesActual"`
	ExpensesProjected []timeseries.Point `json:"expensesProjected"`
	IncomeActual      []timeseries.Point `json:"incomeActual"`
	IncomeProjected   []timeseries.Point `json:"incomeProjected"`
}

// Series builds the chart series from the aggregates, one point per month in
// the aggregates' order.
func Series(aggs []domain.MonthlyAggregate) MonthlySeries {
	s := MonthlySeries{
		ExpensesActual:    make([]timeseries.Point, 0, len(aggs)),
		ExpensesProjected: make([]timeseries.Point, 0, len(aggs)),
		IncomeActual:      make([]timeseries.Point, 0, len(aggs)),
		IncomeProjected:   make([]timeseries.Point, 0, len(aggs)),
	}
	for _, agg := range aggs {
		t := timeseries.NewDate(agg.Month)
		s.ExpensesActual = append(s.ExpensesActual, timeseries.Point{Time: t, Value: float(agg.ActualExpense)})
		s.ExpensesProjected = append(s.ExpensesProjected, timeseries.Point{Time: t, Value: float(agg.ProjectedExpense)})
		s.IncomeActual = append(s.IncomeActual, timeseries.Point{Time: t, Value: float(agg.ActualIncome)})
		s.IncomeProjected = append(s.IncomeProjected, timeseries.Point{Time: t, Value: float(agg.ProjectedIncome)})
	}
	s.ExpensesActual = timeseries.Normalize(s.ExpensesActual)
	s.ExpensesProjected = timeseries.Normalize(s.ExpensesProjected)
	s.IncomeActual = timeseries.Normalize(s.IncomeActual)
	s.IncomeProjected = timeseries.Normalize(s.IncomeProjected)
	return s
}

func float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

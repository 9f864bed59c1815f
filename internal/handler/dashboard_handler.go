package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tallyhq/tally-backend/internal/report"
	"github.com/tallyhq/tally-backend/internal/store"
)

// DashboardHandler serves derived rollups over store state
type DashboardHandler struct {
	accounts     *store.AccountsStore
	transactions *store.TransactionsStore
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(accounts *store.AccountsStore, transactions *store.TransactionsStore) *DashboardHandler {
	return &DashboardHandler{accounts: accounts, transactions: transactions}
}

// GetSummary returns per-account summaries over posted transactions
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summaries := report.AccountSummaries(h.accounts.GetAccounts(), h.transactions.GetActualTransactions())
	return c.JSON(http.StatusOK, summaries)
}

// GetMonthly returns per-month actual and projected aggregates
func (h *DashboardHandler) GetMonthly(c echo.Context) error {
	aggs := report.MonthlyAggregates(h.transactions.GetTransactions())
	return c.JSON(http.StatusOK, aggs)
}

// GetCategories returns per-category actual and projected aggregates
func (h *DashboardHandler) GetCategories(c echo.Context) error {
	aggs := report.CategoryAggregates(h.transactions.GetTransactions())
	return c.JSON(http.StatusOK, aggs)
}

// GetSeries returns the chart-ready monthly series, normalized to day-level
// time points
func (h *DashboardHandler) GetSeries(c echo.Context) error {
	aggs := report.MonthlyAggregates(h.transactions.GetTransactions())
	return c.JSON(http.StatusOK, report.Series(aggs))
}

package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, accountHandler *AccountHandler, categoryHandler *CategoryHandler, transactionHandler *TransactionHandler, dashboardHandler *DashboardHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Account routes
	accounts := api.Group("/accounts")
	accounts.GET("", accountHandler.GetAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PATCH("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Institution and currency routes
	api.GET("/institutions", accountHandler.GetInstitutions)
	api.GET("/institutions/:id", accountHandler.GetInstitution)
	api.GET("/currencies", accountHandler.GetCurrencies)

	// Category routes
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/suggest", categoryHandler.SuggestCategory)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/actual", transactionHandler.GetActualTransactions)
	transactions.GET("/projected", transactionHandler.GetProjectedTransactions)
	transactions.GET("/filters", transactionHandler.GetFilters)
	transactions.PUT("/filters", transactionHandler.SetFilters)
	transactions.DELETE("/filters", transactionHandler.ClearFilters)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/monthly", dashboardHandler.GetMonthly)
	dashboard.GET("/categories", dashboardHandler.GetCategories)
	dashboard.GET("/series", dashboardHandler.GetSeries)
}

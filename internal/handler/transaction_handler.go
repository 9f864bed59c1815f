package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/store"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactions *store.TransactionsStore
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactions *store.TransactionsStore) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// CreateTransactionRequest represents the create transaction request body.
// isProjected selects the variant; frequency only applies to projections.
type CreateTransactionRequest struct {
	Date        string                 `json:"date"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    string                 `json:"category"`
	Type        domain.TransactionType `json:"type"`
	AccountID   string                 `json:"accountId"`
	CurrencyID  string                 `json:"currencyId"`
	IsProjected bool                   `json:"isProjected"`
	Frequency   *domain.Frequency      `json:"frequency,omitempty"`
}

// CreateTransaction creates a posted or projected transaction
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body")
	}

	base := domain.Transaction{
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		AccountID:   req.AccountID,
		CurrencyID:  req.CurrencyID,
	}

	var txn domain.AnyTransaction
	if req.IsProjected {
		txn = &domain.ProjectedTransaction{Transaction: base, Frequency: req.Frequency}
	} else {
		txn = &base
	}

	id, err := h.transactions.AddTransaction(txn)
	if err != nil {
		return NewValidationError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

// GetTransactions returns the collection with the active filter applied
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.transactions.GetFilteredTransactions())
}

// GetActualTransactions returns the posted records only
func (h *TransactionHandler) GetActualTransactions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.transactions.GetActualTransactions())
}

// GetProjectedTransactions returns the projected records only
func (h *TransactionHandler) GetProjectedTransactions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.transactions.GetProjectedTransactions())
}

// UpdateTransaction merges a partial update into a transaction. An unknown
// id is a no-op per the store contract, so the response is 204 either way.
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	var patch domain.TransactionPatch
	if err := c.Bind(&patch); err != nil {
		return NewValidationError(c, "invalid request body")
	}

	if err := h.transactions.UpdateTransaction(c.Param("id"), patch); err != nil {
		return NewValidationError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteTransaction removes a transaction; unknown ids are a no-op
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	h.transactions.DeleteTransaction(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// GetFilters returns the active filter
func (h *TransactionHandler) GetFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, h.transactions.GetFilters())
}

// SetFilters replaces the active filter wholesale
func (h *TransactionHandler) SetFilters(c echo.Context) error {
	var filter domain.TransactionFilter
	if err := c.Bind(&filter); err != nil {
		return NewValidationError(c, "invalid request body")
	}
	h.transactions.SetFilters(filter)
	return c.JSON(http.StatusOK, filter)
}

// ClearFilters resets the active filter
func (h *TransactionHandler) ClearFilters(c echo.Context) error {
	h.transactions.ClearFilters()
	return c.NoContent(http.StatusNoContent)
}

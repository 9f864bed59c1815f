package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/store"
)

// AccountHandler handles account, institution and currency HTTP requests
type AccountHandler struct {
	accounts *store.AccountsStore
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *store.AccountsStore) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// GetAccounts returns all accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.accounts.GetAccounts())
}

// GetAccount returns a single account by id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	account, ok := h.accounts.GetAccountByID(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "account not found")
	}
	return c.JSON(http.StatusOK, account)
}

// CreateAccount creates a new account
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var input store.AddAccountInput
	if err := c.Bind(&input); err != nil {
		return NewValidationError(c, "invalid request body")
	}

	account, err := h.accounts.AddAccount(input)
	if err != nil {
		return NewValidationError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, account)
}

// UpdateAccount applies a partial update to an account
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	var patch store.AccountPatch
	if err := c.Bind(&patch); err != nil {
		return NewValidationError(c, "invalid request body")
	}

	account, err := h.accounts.UpdateAccount(c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "account not found")
		}
		return NewValidationError(c, err.Error())
	}
	return c.JSON(http.StatusOK, account)
}

// DeleteAccount removes an account. Transactions referencing it are left
// dangling; their lookups return absent.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	if err := h.accounts.DeleteAccount(c.Param("id")); err != nil {
		return NewNotFoundError(c, "account not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetInstitutions returns all institutions
func (h *AccountHandler) GetInstitutions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.accounts.GetInstitutions())
}

// GetInstitution returns a single institution by id
func (h *AccountHandler) GetInstitution(c echo.Context) error {
	institution, ok := h.accounts.GetInstitutionByID(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "institution not found")
	}
	return c.JSON(http.StatusOK, institution)
}

// GetCurrencies returns all currencies
func (h *AccountHandler) GetCurrencies(c echo.Context) error {
	return c.JSON(http.StatusOK, h.accounts.GetCurrencies())
}

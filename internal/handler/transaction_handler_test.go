package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally-backend/internal/docstore"
	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/store"
)

func newTransactionHandler() (*TransactionHandler, *store.TransactionsStore) {
	transactions := store.NewTransactionsStore(docstore.NewMemory())
	return NewTransactionHandler(transactions), transactions
}

func TestCreateTransaction_Posted(t *testing.T) {
	e := echo.New()
	handler, transactions := newTransactionHandler()

	reqBody := `{"date": "2025-12-15", "description": "Grocery shopping", "amount": "49.99",
		"category": "cat_groceries", "type": "expense", "accountId": "acc_checking_001", "currencyId": "USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["id"] == "" {
		t.Error("Expected a generated id in the response")
	}

	got := transactions.GetTransactions()
	if len(got) != 1 {
		t.Fatalf("Expected 1 transaction in the store, got %d", len(got))
	}
	if got[0].Projected() {
		t.Error("Expected a posted transaction, got projected")
	}
}

func TestCreateTransaction_Projected(t *testing.T) {
	e := echo.New()
	handler, transactions := newTransactionHandler()

	reqBody := `{"date": "2026-01-01", "description": "Monthly rent", "amount": "1200",
		"category": "cat_rent", "type": "expense", "accountId": "acc_checking_001", "currencyId": "USD",
		"isProjected": true, "frequency": "monthly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	projected := transactions.GetProjectedTransactions()
	if len(projected) != 1 {
		t.Fatalf("Expected 1 projected transaction, got %d", len(projected))
	}
	if projected[0].Frequency == nil || *projected[0].Frequency != domain.FrequencyMonthly {
		t.Error("Expected monthly frequency on the projected transaction")
	}
}

func TestCreateTransaction_MissingDescription(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	reqBody := `{"date": "2025-12-15", "description": "", "amount": "49.99",
		"category": "cat_groceries", "type": "expense", "accountId": "acc_checking_001", "currencyId": "USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problemDetails ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problemDetails); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problemDetails.Type != ErrorTypeValidation {
		t.Errorf("Expected error type %s, got %s", ErrorTypeValidation, problemDetails.Type)
	}
}

func TestCreateTransaction_InvalidDate(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	reqBody := `{"date": "12/15/2025", "description": "Groceries", "amount": "49.99",
		"category": "cat_groceries", "type": "expense", "accountId": "acc_checking_001", "currencyId": "USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactions_AppliesActiveFilter(t *testing.T) {
	e := echo.New()
	handler, transactions := newTransactionHandler()

	seedHandlerTransactions(t, transactions)
	transactions.SetFilters(domain.TransactionFilter{
		Type:      domain.TransactionTypeExpense,
		StartDate: "2025-12-01",
		EndDate:   "2025-12-31",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 filtered transaction, got %d", len(response))
	}
	if response[0]["description"] != "Grocery shopping" {
		t.Errorf("Expected the December expense, got %v", response[0]["description"])
	}
}

func TestUpdateTransaction_UnknownIDReturns204(t *testing.T) {
	e := echo.New()
	handler, _ := newTransactionHandler()

	reqBody := `{"amount": "60"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/transactions/no-such-id", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("no-such-id")

	if err := handler.UpdateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	e := echo.New()
	handler, transactions := newTransactionHandler()

	id := seedHandlerTransactions(t, transactions)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(transactions.GetTransactions()) != 1 {
		t.Errorf("Expected 1 remaining transaction, got %d", len(transactions.GetTransactions()))
	}
}

func TestSetAndClearFilters(t *testing.T) {
	e := echo.New()
	handler, transactions := newTransactionHandler()

	reqBody := `{"type": "expense", "startDate": "2025-12-01", "endDate": "2025-12-31"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/transactions/filters", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.SetFilters(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if transactions.GetFilters().Type != domain.TransactionTypeExpense {
		t.Error("Expected the filter to be stored")
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/filters", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	if err := handler.ClearFilters(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if !transactions.GetFilters().IsZero() {
		t.Error("Expected the filter to be cleared")
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Failed to parse decimal %q: %v", s, err)
	}
	return d
}

// seedHandlerTransactions adds one December expense and one income record,
// returning the expense id.
func seedHandlerTransactions(t *testing.T, transactions *store.TransactionsStore) string {
	t.Helper()
	id, err := transactions.AddTransaction(&domain.Transaction{
		Date:        "2025-12-15",
		Description: "Grocery shopping",
		Amount:      mustDecimal(t, "49.99"),
		Category:    "cat_groceries",
		Type:        domain.TransactionTypeExpense,
		AccountID:   "acc_checking_001",
		CurrencyID:  "USD",
	})
	if err != nil {
		t.Fatalf("Failed to seed expense: %v", err)
	}
	if _, err := transactions.AddTransaction(&domain.Transaction{
		Date:        "2025-12-10",
		Description: "Acme Corp payroll",
		Amount:      mustDecimal(t, "3000"),
		Category:    "cat_salary",
		Type:        domain.TransactionTypeIncome,
		AccountID:   "acc_checking_001",
		CurrencyID:  "USD",
	}); err != nil {
		t.Fatalf("Failed to seed income: %v", err)
	}
	return id
}

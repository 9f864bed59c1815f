// Package seed holds the deterministic default datasets used to populate
// empty collections on first run and as the fallback state for pre-v2
// snapshot migration. Every function returns a fresh slice so callers can
// never mutate the defaults.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally-backend/internal/domain"
)

var seedCreatedAt = time.Date(2025, 11, 15, 9, 30, 0, 0, time.UTC)

// Currencies returns the default currency set.
func Currencies() []domain.Currency {
	return []domain.Currency{
		{ID: "USD", Code: "USD", Symbol: "$", Name: "United States Dollar"},
		{ID: "EUR", Code: "EUR", Symbol: "€", Name: "Euro"},
		{ID: "GBP", Code: "GBP", Symbol: "£", Name: "Pound Sterling"},
	}
}

// Institutions returns the default institution set.
func Institutions() []domain.Institution {
	return []domain.Institution{
		{ID: "inst_chase_001", Name: "Chase Bank", Type: "bank"},
		{ID: "inst_fidelity_001", Name: "Fidelity Investments", Type: "broker"},
		{ID: "inst_coinbase_001", Name: "Coinbase", Type: "crypto_exchange"},
	}
}

// Accounts returns the default account set.
func Accounts() []domain.Account {
	balance := func(v float64) *decimal.Decimal {
		d := decimal.NewFromFloat(v)
		return &d
	}
	return []domain.Account{
		{
			ID:            "acc_checking_001",
			Name:          "Personal Checking",
			Type:          domain.AccountTypeChecking,
			SubType:       domain.SubTypeCheckingPersonal,
			InstitutionID: "inst_chase_001",
			CurrencyID:    "USD",
			Balance:       balance(2450.75),
			CreatedAt:     seedCreatedAt,
		},
		{
			ID:            "acc_savings_001",
			Name:          "Emergency Fund",
			Type:          domain.AccountTypeSavings,
			SubType:       domain.SubTypeSavingsEmergency,
			InstitutionID: "inst_chase_001",
			CurrencyID:    "USD",
			Balance:       balance(10000),
			CreatedAt:     seedCreatedAt,
		},
		{
			ID:            "acc_credit_001",
			Name:          "Sapphire Card",
			Type:          domain.AccountTypeCreditCard,
			SubType:       domain.SubTypeCreditCardPersonal,
			InstitutionID: "inst_chase_001",
			CurrencyID:    "USD",
			CreatedAt:     seedCreatedAt,
		},
		{
			ID:            "acc_brokerage_001",
			Name:          "Brokerage",
			Type:          domain.AccountTypeInvestment,
			SubType:       domain.SubTypeInvestmentStocks,
			InstitutionID: "inst_fidelity_001",
			CurrencyID:    "USD",
			Balance:       balance(15320.40),
			CreatedAt:     seedCreatedAt,
		},
	}
}

// Categories returns the default two-level category tree.
func Categories() []domain.Category {
	return []domain.Category{
		{ID: "cat_income", Name: "Income", Type: domain.TransactionTypeIncome, Icon: "trending-up", Color: "#10B981"},
		{ID: "cat_salary", Name: "Salary", Type: domain.TransactionTypeIncome, ParentID: "cat_income",
			Keywords: []string{"payroll", "salary", "wages"}, Icon: "banknote", Color: "#34D399"},
		{ID: "cat_living_expenses", Name: "Living Expenses", Type: domain.TransactionTypeExpense, Icon: "home", Color: "#F59E0B"},
		{ID: "cat_groceries", Name: "Groceries", Type: domain.TransactionTypeExpense, ParentID: "cat_living_expenses",
			Description: "Food and household supplies",
			Keywords:    []string{"supermarket", "walmart", "food"}, Icon: "shopping-cart", Color: "#34D399"},
		{ID: "cat_rent", Name: "Rent", Type: domain.TransactionTypeExpense, ParentID: "cat_living_expenses",
			Keywords: []string{"rent", "landlord"}, Icon: "key", Color: "#F97316"},
		{ID: "cat_utilities", Name: "Utilities", Type: domain.TransactionTypeExpense, ParentID: "cat_living_expenses",
			Keywords: []string{"electric", "water", "internet"}, Icon: "zap", Color: "#3B82F6"},
		{ID: "cat_leisure", Name: "Leisure", Type: domain.TransactionTypeExpense, Icon: "film", Color: "#8B5CF6"},
	}
}

// CategoryPatterns returns the default auto-categorization patterns.
func CategoryPatterns() []domain.CategoryPattern {
	conf := func(v float64) *float64 { return &v }
	return []domain.CategoryPattern{
		{ID: "pat_walmart_groceries", CategoryID: "cat_groceries", Pattern: "walmart|costco", MatchType: domain.MatchTypeRegex, Confidence: conf(0.9)},
		{ID: "pat_rent", CategoryID: "cat_rent", Pattern: "rent", MatchType: domain.MatchTypeContains, Confidence: conf(0.8)},
		{ID: "pat_payroll", CategoryID: "cat_salary", Pattern: "payroll", MatchType: domain.MatchTypeContains, Confidence: conf(0.95)},
	}
}

// Transactions returns the default posted transactions.
func Transactions() domain.TransactionList {
	return domain.TransactionList{
		&domain.Transaction{
			ID:          "txn_001",
			Date:        "2025-12-01",
			Description: "Acme Corp payroll",
			Amount:      decimal.NewFromFloat(3000),
			Category:    "cat_salary",
			Type:        domain.TransactionTypeIncome,
			AccountID:   "acc_checking_001",
			CurrencyID:  "USD",
		},
		&domain.Transaction{
			ID:          "txn_002",
			Date:        "2025-12-03",
			Description: "Grocery shopping at Walmart",
			Amount:      decimal.NewFromFloat(49.99),
			Category:    "cat_groceries",
			Type:        domain.TransactionTypeExpense,
			AccountID:   "acc_checking_001",
			CurrencyID:  "USD",
		},
		&domain.Transaction{
			ID:          "txn_003",
			Date:        "2025-12-05",
			Description: "Electricity bill",
			Amount:      decimal.NewFromFloat(80.25),
			Category:    "cat_utilities",
			Type:        domain.TransactionTypeExpense,
			AccountID:   "acc_checking_001",
			CurrencyID:  "USD",
		},
	}
}

// ProjectedTransactions returns the default forecast transactions.
func ProjectedTransactions() domain.TransactionList {
	monthly := domain.FrequencyMonthly
	return domain.TransactionList{
		&domain.ProjectedTransaction{
			Transaction: domain.Transaction{
				ID:          "ptxn_2026_01_rent",
				Date:        "2026-01-01",
				Description: "Monthly rent",
				Amount:      decimal.NewFromFloat(1200),
				Category:    "cat_rent",
				Type:        domain.TransactionTypeExpense,
				AccountID:   "acc_checking_001",
				CurrencyID:  "USD",
			},
			Frequency: &monthly,
		},
		&domain.ProjectedTransaction{
			Transaction: domain.Transaction{
				ID:          "ptxn_2026_01_salary",
				Date:        "2026-01-01",
				Description: "Acme Corp payroll",
				Amount:      decimal.NewFromFloat(3000),
				Category:    "cat_salary",
				Type:        domain.TransactionTypeIncome,
				AccountID:   "acc_checking_001",
				CurrencyID:  "USD",
			},
			Frequency: &monthly,
		},
	}
}

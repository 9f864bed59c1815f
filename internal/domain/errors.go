package domain

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrNameRequired         = errors.New("name is required")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrInvalidDate          = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidAmount        = errors.New("amount must not be negative")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidSubType       = errors.New("subtype does not belong to account type")
	ErrInvalidFrequency     = errors.New("invalid frequency")
	ErrInstitutionNotFound  = errors.New("institution not found")
	ErrCurrencyNotFound     = errors.New("currency not found")
	ErrCategoryNotFound     = errors.New("parent category not found")
	ErrCategoryTypeMismatch = errors.New("category type does not match parent type")
	ErrCategoryDepth        = errors.New("subcategories cannot have children")
)

// ValidDate reports whether s is a calendar date in ISO YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

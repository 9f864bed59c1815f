package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string
type AccountSubType string

const (
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeChecking   AccountType = "checking"
)

const (
	SubTypeCreditCardPersonal    AccountSubType = "credit_card_personal"
	SubTypeCreditCardCorporate   AccountSubType = "credit_card_corporate"
	SubTypeSavingsEmergency      AccountSubType = "savings_emergency"
	SubTypeSavingsGoal           AccountSubType = "savings_goal"
	SubTypeInvestmentStocks      AccountSubType = "investment_stocks"
	SubTypeInvestmentCrypto      AccountSubType = "investment_crypto"
	SubTypeInvestmentMutualFunds AccountSubType = "investment_mutual_funds"
	SubTypeCheckingPersonal      AccountSubType = "checking_personal"
	SubTypeCheckingBusiness      AccountSubType = "checking_business"
)

// SubTypeToType maps each account subtype to its type family.
var SubTypeToType = map[AccountSubType]AccountType{
	SubTypeCreditCardPersonal:    AccountTypeCreditCard,
	SubTypeCreditCardCorporate:   AccountTypeCreditCard,
	SubTypeSavingsEmergency:      AccountTypeSavings,
	SubTypeSavingsGoal:           AccountTypeSavings,
	SubTypeInvestmentStocks:      AccountTypeInvestment,
	SubTypeInvestmentCrypto:      AccountTypeInvestment,
	SubTypeInvestmentMutualFunds: AccountTypeInvestment,
	SubTypeCheckingPersonal:      AccountTypeChecking,
	SubTypeCheckingBusiness:      AccountTypeChecking,
}

type Account struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          AccountType      `json:"type"`
	SubType       AccountSubType   `json:"subType"`
	InstitutionID string           `json:"institutionId"`
	CurrencyID    string           `json:"currencyId"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ValidateSubType checks that the account's subtype belongs to the family of
// its type (e.g. checking_personal only under checking).
func (a *Account) ValidateSubType() error {
	family, ok := SubTypeToType[a.SubType]
	if !ok || family != a.Type {
		return ErrInvalidSubType
	}
	return nil
}

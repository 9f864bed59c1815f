package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type Frequency string

const (
	FrequencyOnce      Frequency = "once"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Transaction is a posted transaction. Amount is a non-negative magnitude;
// the sign is carried by Type. Date is an ISO calendar date (YYYY-MM-DD),
// which makes lexicographic order equal chronological order.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	AccountID   string          `json:"accountId"`
	CurrencyID  string          `json:"currencyId"`
}

// ProjectedTransaction is a forecasted transaction that has not posted yet.
type ProjectedTransaction struct {
	Transaction
	Frequency *Frequency `json:"frequency,omitempty"`
}

// AnyTransaction is the closed union of *Transaction and *ProjectedTransaction.
// Code that is polymorphic over transactions switches on the concrete type
// instead of inspecting a discriminant field.
type AnyTransaction interface {
	TransactionID() string
	// Record returns the shared posted-style fields of either variant.
	Record() Transaction
	Projected() bool
	sealedTransaction()
}

func (t *Transaction) TransactionID() string { return t.ID }
func (t *Transaction) Record() Transaction   { return *t }
func (t *Transaction) Projected() bool       { return false }
func (t *Transaction) sealedTransaction()    {}

func (p *ProjectedTransaction) Projected() bool { return true }

// Apply merges the present fields of the patch into the transaction.
func (t *Transaction) Apply(patch TransactionPatch) {
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.AccountID != nil {
		t.AccountID = *patch.AccountID
	}
	if patch.CurrencyID != nil {
		t.CurrencyID = *patch.CurrencyID
	}
}

// Apply merges the present fields of the patch, including the
// projection-only frequency field.
func (p *ProjectedTransaction) Apply(patch TransactionPatch) {
	p.Transaction.Apply(patch)
	if patch.Frequency != nil {
		p.Frequency = patch.Frequency
	}
}

// TransactionPatch holds optional field updates for either variant.
// Nil fields are left untouched. Frequency only applies to projected
// transactions and is ignored for posted ones.
type TransactionPatch struct {
	Date        *string          `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
	AccountID   *string          `json:"accountId,omitempty"`
	CurrencyID  *string          `json:"currencyId,omitempty"`
	Frequency   *Frequency       `json:"frequency,omitempty"`
}

// MarshalJSON emits the posted variant with its literal discriminant.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		IsProjected bool `json:"isProjected"`
	}{alias(t), false})
}

// MarshalJSON emits the projected variant with its literal discriminant.
func (p ProjectedTransaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		IsProjected bool       `json:"isProjected"`
		Frequency   *Frequency `json:"frequency,omitempty"`
	}{alias(p.Transaction), true, p.Frequency})
}

// TransactionList is a heterogeneous transaction collection that round-trips
// through JSON, dispatching each element on its isProjected tag.
type TransactionList []AnyTransaction

func (l *TransactionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(TransactionList, 0, len(raws))
	for i, raw := range raws {
		var tag struct {
			IsProjected bool `json:"isProjected"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if tag.IsProjected {
			var p ProjectedTransaction
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("projected transaction %d: %w", i, err)
			}
			out = append(out, &p)
		} else {
			var t Transaction
			if err := json.Unmarshal(raw, &t); err != nil {
				return fmt.Errorf("transaction %d: %w", i, err)
			}
			out = append(out, &t)
		}
	}
	*l = out
	return nil
}

// Clone returns a deep copy so callers cannot mutate store-owned records.
func (l TransactionList) Clone() TransactionList {
	out := make(TransactionList, len(l))
	for i, txn := range l {
		switch rec := txn.(type) {
		case *Transaction:
			c := *rec
			out[i] = &c
		case *ProjectedTransaction:
			c := *rec
			if rec.Frequency != nil {
				f := *rec.Frequency
				c.Frequency = &f
			}
			out[i] = &c
		}
	}
	return out
}

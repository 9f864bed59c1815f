package domain

// TransactionFilter holds the independently optional criteria applied to the
// transaction collection. An empty field means "no constraint", never
// "match empty". Date bounds are inclusive and compared lexicographically,
// which is chronological order for ISO dates.
type TransactionFilter struct {
	StartDate string          `json:"startDate,omitempty"`
	EndDate   string          `json:"endDate,omitempty"`
	Category  string          `json:"category,omitempty"`
	Type      TransactionType `json:"type,omitempty"`
	AccountID string          `json:"accountId,omitempty"`
}

// Matches reports whether the transaction satisfies the conjunction of all
// present criteria.
func (f TransactionFilter) Matches(txn AnyTransaction) bool {
	rec := txn.Record()
	if f.StartDate != "" && rec.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && rec.Date > f.EndDate {
		return false
	}
	if f.Category != "" && rec.Category != f.Category {
		return false
	}
	if f.Type != "" && rec.Type != f.Type {
		return false
	}
	if f.AccountID != "" && rec.AccountID != f.AccountID {
		return false
	}
	return true
}

// IsZero reports whether no criteria are set.
func (f TransactionFilter) IsZero() bool {
	return f == TransactionFilter{}
}

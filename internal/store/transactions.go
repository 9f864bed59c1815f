package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally-backend/internal/docstore"
	"github.com/tallyhq/tally-backend/internal/domain"
)

type transactionsState struct {
	Transactions domain.TransactionList   `json:"transactions"`
	Filters      domain.TransactionFilter `json:"filters"`
}

// TransactionsStore owns the transactions slice: the heterogeneous
// posted/projected collection and the active filter.
type TransactionsStore struct {
	mu    sync.RWMutex
	state transactionsState
	p     *persister
}

// NewTransactionsStore creates an empty store persisting through ds.
func NewTransactionsStore(ds docstore.Store) *TransactionsStore {
	return &TransactionsStore{p: newPersister(ds, KeyTransactions)}
}

// Load hydrates the slice from its snapshot, migrating stale versions, then
// seeds the collection if it is still empty.
func (s *TransactionsStore) Load(ctx context.Context) error {
	raw, version, ok, err := s.p.load(ctx)
	if err != nil {
		return err
	}

	var st transactionsState
	dirty := false
	if ok {
		st, err = migrateTransactionsState(raw, version)
		if err != nil {
			logUnreadableState(KeyTransactions, err)
			st = transactionsState{}
		}
		dirty = version < SchemaVersion
	}

	s.mu.Lock()
	s.state = st
	seeded := false
	if len(s.state.Transactions) == 0 {
		s.state.Transactions = seedTransactions()
		seeded = true
	}
	s.mu.Unlock()

	if dirty || seeded {
		s.persist()
	}
	return nil
}

func (s *TransactionsStore) persist() {
	s.mu.RLock()
	st := transactionsState{
		Transactions: s.state.Transactions.Clone(),
		Filters:      s.state.Filters,
	}
	s.mu.RUnlock()
	s.p.persist(st)
}

// Flush waits for in-flight snapshot writes.
func (s *TransactionsStore) Flush() {
	s.p.flush()
}

// AddTransaction validates the record, assigns a freshly generated unique id
// and appends it to the collection. Either variant of the union is accepted.
// The generated id is returned.
func (s *TransactionsStore) AddTransaction(txn domain.AnyTransaction) (string, error) {
	if err := validateTransaction(txn); err != nil {
		return "", err
	}

	id := uuid.NewString()
	var record domain.AnyTransaction
	switch rec := txn.(type) {
	case *domain.Transaction:
		c := *rec
		c.ID = id
		record = &c
	case *domain.ProjectedTransaction:
		c := *rec
		c.ID = id
		record = &c
	}

	s.mu.Lock()
	s.state.Transactions = append(s.state.Transactions, record)
	s.mu.Unlock()

	s.persist()
	return id, nil
}

// UpdateTransaction merges the present patch fields into the record with the
// given id. A missing id is a no-op: the collection is left unchanged.
func (s *TransactionsStore) UpdateTransaction(id string, patch domain.TransactionPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}

	s.mu.Lock()
	found := false
	for _, txn := range s.state.Transactions {
		if txn.TransactionID() != id {
			continue
		}
		switch rec := txn.(type) {
		case *domain.Transaction:
			rec.Apply(patch)
		case *domain.ProjectedTransaction:
			rec.Apply(patch)
		}
		found = true
		break
	}
	s.mu.Unlock()

	if found {
		s.persist()
	}
	return nil
}

// DeleteTransaction removes the record with the given id. A missing id is a
// no-op.
func (s *TransactionsStore) DeleteTransaction(id string) {
	s.mu.Lock()
	found := false
	for i, txn := range s.state.Transactions {
		if txn.TransactionID() == id {
			s.state.Transactions = append(s.state.Transactions[:i], s.state.Transactions[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.persist()
	}
}

// SetFilters replaces the active filter wholesale.
func (s *TransactionsStore) SetFilters(f domain.TransactionFilter) {
	s.mu.Lock()
	s.state.Filters = f
	s.mu.Unlock()
	s.persist()
}

// ClearFilters resets the active filter.
func (s *TransactionsStore) ClearFilters() {
	s.SetFilters(domain.TransactionFilter{})
}

// GetFilters returns the active filter.
func (s *TransactionsStore) GetFilters() domain.TransactionFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Filters
}

// GetTransactions returns the whole collection in insertion order.
func (s *TransactionsStore) GetTransactions() domain.TransactionList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Transactions.Clone()
}

// GetFilteredTransactions returns every record satisfying the conjunction of
// the active filter's present fields, in insertion order. The empty filter
// returns the whole collection.
func (s *TransactionsStore) GetFilteredTransactions() domain.TransactionList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.TransactionList, 0, len(s.state.Transactions))
	for _, txn := range s.state.Transactions {
		if s.state.Filters.Matches(txn) {
			out = append(out, txn)
		}
	}
	return out.Clone()
}

// GetActualTransactions returns the posted records, in insertion order.
func (s *TransactionsStore) GetActualTransactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Transaction{}
	for _, txn := range s.state.Transactions {
		if rec, ok := txn.(*domain.Transaction); ok {
			out = append(out, *rec)
		}
	}
	return out
}

// GetProjectedTransactions returns the projected records, in insertion order.
func (s *TransactionsStore) GetProjectedTransactions() []domain.ProjectedTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.ProjectedTransaction{}
	for _, txn := range s.state.Transactions {
		if rec, ok := txn.(*domain.ProjectedTransaction); ok {
			out = append(out, *rec)
		}
	}
	return out
}

func validateTransaction(txn domain.AnyTransaction) error {
	rec := txn.Record()
	if strings.TrimSpace(rec.Description) == "" {
		return domain.ErrDescriptionRequired
	}
	if !domain.ValidDate(rec.Date) {
		return domain.ErrInvalidDate
	}
	if rec.Amount.LessThan(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if rec.Type != domain.TransactionTypeIncome && rec.Type != domain.TransactionTypeExpense {
		return domain.ErrInvalidType
	}
	if p, ok := txn.(*domain.ProjectedTransaction); ok && p.Frequency != nil {
		if !validFrequency(*p.Frequency) {
			return domain.ErrInvalidFrequency
		}
	}
	return nil
}

func validatePatch(patch domain.TransactionPatch) error {
	if patch.Date != nil && !domain.ValidDate(*patch.Date) {
		return domain.ErrInvalidDate
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return domain.ErrDescriptionRequired
	}
	if patch.Amount != nil && patch.Amount.LessThan(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if patch.Type != nil && *patch.Type != domain.TransactionTypeIncome && *patch.Type != domain.TransactionTypeExpense {
		return domain.ErrInvalidType
	}
	if patch.Frequency != nil && !validFrequency(*patch.Frequency) {
		return domain.ErrInvalidFrequency
	}
	return nil
}

func validFrequency(f domain.Frequency) bool {
	switch f {
	case domain.FrequencyOnce, domain.FrequencyMonthly, domain.FrequencyQuarterly, domain.FrequencyYearly:
		return true
	}
	return false
}

package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally-backend/internal/docstore"
	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/seed"
)

type accountsState struct {
	Accounts     []domain.Account     `json:"accounts"`
	Institutions []domain.Institution `json:"institutions"`
	Currencies   []domain.Currency    `json:"currencies"`
}

// AccountsStore owns the accounts slice: accounts, institutions and
// currencies. Constructed once at startup and injected into consumers.
type AccountsStore struct {
	mu    sync.RWMutex
	state accountsState
	p     *persister
}

// NewAccountsStore creates an empty store persisting through ds.
func NewAccountsStore(ds docstore.Store) *AccountsStore {
	return &AccountsStore{p: newPersister(ds, KeyAccounts)}
}

// Load hydrates the slice from its snapshot, migrating stale versions, then
// seeds any collection that is still empty. Seeding runs after the hydrated
// state is installed so a populated collection is never overwritten.
func (s *AccountsStore) Load(ctx context.Context) error {
	raw, version, ok, err := s.p.load(ctx)
	if err != nil {
		return err
	}

	var st accountsState
	dirty := false
	if ok {
		st, err = migrateAccountsState(raw, version)
		if err != nil {
			logUnreadableState(KeyAccounts, err)
			st = accountsState{}
		}
		dirty = version < SchemaVersion
	}

	s.mu.Lock()
	s.state = st
	seeded := s.seedEmptyLocked()
	s.mu.Unlock()

	if dirty || seeded {
		s.persist()
	}
	return nil
}

// seedEmptyLocked replaces each empty collection with seed data, leaving
// populated collections untouched. The three collections are independent.
func (s *AccountsStore) seedEmptyLocked() bool {
	seeded := false
	if len(s.state.Accounts) == 0 {
		s.state.Accounts = seed.Accounts()
		seeded = true
	}
	if len(s.state.Institutions) == 0 {
		s.state.Institutions = seed.Institutions()
		seeded = true
	}
	if len(s.state.Currencies) == 0 {
		s.state.Currencies = seed.Currencies()
		seeded = true
	}
	return seeded
}

// persist snapshots the slices under the lock; in-place mutations must not
// be visible to the marshal.
func (s *AccountsStore) persist() {
	s.mu.RLock()
	st := accountsState{
		Accounts:     append([]domain.Account(nil), s.state.Accounts...),
		Institutions: append([]domain.Institution(nil), s.state.Institutions...),
		Currencies:   append([]domain.Currency(nil), s.state.Currencies...),
	}
	s.mu.RUnlock()
	s.p.persist(st)
}

// Flush waits for in-flight snapshot writes.
func (s *AccountsStore) Flush() {
	s.p.flush()
}

// GetAccounts returns all accounts in insertion order.
func (s *AccountsStore) GetAccounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, len(s.state.Accounts))
	copy(out, s.state.Accounts)
	return out
}

// GetAccountByID returns the account with the given id.
func (s *AccountsStore) GetAccountByID(id string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.state.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Account{}, false
}

// GetInstitutionByID returns the institution with the given id. Callers must
// handle absence: a dangling institutionId on an account is not an error.
func (s *AccountsStore) GetInstitutionByID(id string) (domain.Institution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.state.Institutions {
		if i.ID == id {
			return i, true
		}
	}
	return domain.Institution{}, false
}

// GetInstitutions returns all institutions in insertion order.
func (s *AccountsStore) GetInstitutions() []domain.Institution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Institution, len(s.state.Institutions))
	copy(out, s.state.Institutions)
	return out
}

// GetCurrencies returns all currencies in insertion order.
func (s *AccountsStore) GetCurrencies() []domain.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Currency, len(s.state.Currencies))
	copy(out, s.state.Currencies)
	return out
}

// GetCurrencyByID returns the currency with the given id.
func (s *AccountsStore) GetCurrencyByID(id string) (domain.Currency, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Currencies {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Currency{}, false
}

// AddAccountInput holds the input for creating an account.
type AddAccountInput struct {
	Name          string                `json:"name"`
	Type          domain.AccountType    `json:"type"`
	SubType       domain.AccountSubType `json:"subType"`
	InstitutionID string                `json:"institutionId"`
	CurrencyID    string                `json:"currencyId"`
	Balance       *decimal.Decimal      `json:"balance,omitempty"`
}

// AddAccount validates the input, assigns a fresh id and appends the
// account. The subtype must belong to the family of the type, and the
// institution and currency references must resolve.
func (s *AccountsStore) AddAccount(input AddAccountInput) (domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Account{}, domain.ErrNameRequired
	}

	account := domain.Account{
		ID:            "acc_" + uuid.NewString(),
		Name:          name,
		Type:          input.Type,
		SubType:       input.SubType,
		InstitutionID: input.InstitutionID,
		CurrencyID:    input.CurrencyID,
		Balance:       input.Balance,
		CreatedAt:     time.Now().UTC(),
	}
	if err := account.ValidateSubType(); err != nil {
		return domain.Account{}, err
	}

	s.mu.Lock()
	if !s.institutionExistsLocked(input.InstitutionID) {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrInstitutionNotFound
	}
	if !s.currencyExistsLocked(input.CurrencyID) {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrCurrencyNotFound
	}
	s.state.Accounts = append(s.state.Accounts, account)
	s.mu.Unlock()

	s.persist()
	return account, nil
}

// AccountPatch holds optional field updates for an account.
type AccountPatch struct {
	Name          *string                `json:"name,omitempty"`
	Type          *domain.AccountType    `json:"type,omitempty"`
	SubType       *domain.AccountSubType `json:"subType,omitempty"`
	InstitutionID *string                `json:"institutionId,omitempty"`
	CurrencyID    *string                `json:"currencyId,omitempty"`
	Balance       *decimal.Decimal       `json:"balance,omitempty"`
}

// UpdateAccount merges the patch into the account with the given id. The
// merged type/subtype pair is validated as a whole.
func (s *AccountsStore) UpdateAccount(id string, patch AccountPatch) (domain.Account, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Accounts {
		if s.state.Accounts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrNotFound
	}

	updated := s.state.Accounts[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			s.mu.Unlock()
			return domain.Account{}, domain.ErrNameRequired
		}
		updated.Name = name
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.SubType != nil {
		updated.SubType = *patch.SubType
	}
	if patch.InstitutionID != nil {
		if !s.institutionExistsLocked(*patch.InstitutionID) {
			s.mu.Unlock()
			return domain.Account{}, domain.ErrInstitutionNotFound
		}
		updated.InstitutionID = *patch.InstitutionID
	}
	if patch.CurrencyID != nil {
		if !s.currencyExistsLocked(*patch.CurrencyID) {
			s.mu.Unlock()
			return domain.Account{}, domain.ErrCurrencyNotFound
		}
		updated.CurrencyID = *patch.CurrencyID
	}
	if patch.Balance != nil {
		updated.Balance = patch.Balance
	}
	if err := updated.ValidateSubType(); err != nil {
		s.mu.Unlock()
		return domain.Account{}, err
	}

	s.state.Accounts[idx] = updated
	s.mu.Unlock()

	s.persist()
	return updated, nil
}

// DeleteAccount removes the account with the given id. Transactions that
// reference it are left dangling; their lookups will return absent.
func (s *AccountsStore) DeleteAccount(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Accounts {
		if s.state.Accounts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	s.state.Accounts = append(s.state.Accounts[:idx], s.state.Accounts[idx+1:]...)
	s.mu.Unlock()

	s.persist()
	return nil
}

func (s *AccountsStore) institutionExistsLocked(id string) bool {
	for _, i := range s.state.Institutions {
		if i.ID == id {
			return true
		}
	}
	return false
}

func (s *AccountsStore) currencyExistsLocked(id string) bool {
	for _, c := range s.state.Currencies {
		if c.ID == id {
			return true
		}
	}
	return false
}

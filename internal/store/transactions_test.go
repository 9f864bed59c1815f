package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally-backend/internal/docstore"
	"github.com/tallyhq/tally-backend/internal/domain"
)

func expense(date, description string, amount float64) *domain.Transaction {
	return &domain.Transaction{
		Date:        date,
		Description: description,
		Amount:      decimal.NewFromFloat(amount),
		Category:    "cat_groceries",
		Type:        domain.TransactionTypeExpense,
		AccountID:   "acc_checking_001",
		CurrencyID:  "USD",
	}
}

func income(date, description string, amount float64) *domain.Transaction {
	t := expense(date, description, amount)
	t.Type = domain.TransactionTypeIncome
	t.Category = "cat_salary"
	return t
}

// envelope builds a persisted snapshot blob for direct seeding of the
// document store in hydration tests.
func envelope(t *testing.T, state any, version int) []byte {
	t.Helper()
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	blob, err := json.Marshal(snapshot{State: raw, Version: version})
	require.NoError(t, err)
	return blob
}

func TestAddTransaction_AssignsFreshUniqueID(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())

	id1, err := s.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)
	id2, err := s.AddTransaction(expense("2025-12-16", "More groceries", 12.50))
	require.NoError(t, err)

	require.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)

	got := s.GetFilteredTransactions()
	require.Len(t, got, 2)
	rec := got[0].Record()
	assert.Equal(t, id1, rec.ID)
	assert.Equal(t, "2025-12-15", rec.Date)
	assert.Equal(t, "Groceries", rec.Description)
	assert.True(t, rec.Amount.Equal(decimal.NewFromFloat(49.99)))
}

func TestAddTransaction_Validation(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())

	bad := expense("2025-12-15", "", 10)
	_, err := s.AddTransaction(bad)
	assert.ErrorIs(t, err, domain.ErrDescriptionRequired)

	bad = expense("12/15/2025", "Groceries", 10)
	_, err = s.AddTransaction(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	bad = expense("2025-12-15", "Groceries", 10)
	bad.Amount = decimal.NewFromInt(-5)
	_, err = s.AddTransaction(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	bad = expense("2025-12-15", "Groceries", 10)
	bad.Type = "transfer"
	_, err = s.AddTransaction(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	weekly := domain.Frequency("weekly")
	_, err = s.AddTransaction(&domain.ProjectedTransaction{
		Transaction: *expense("2026-01-01", "Rent", 1200),
		Frequency:   &weekly,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)

	assert.Empty(t, s.GetFilteredTransactions())
}

func TestUpdateTransaction_UnknownIDIsNoOp(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	_, err := s.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)

	before := s.GetTransactions()
	amount := decimal.NewFromInt(10)
	require.NoError(t, s.UpdateTransaction("no-such-id", domain.TransactionPatch{Amount: &amount}))

	after := s.GetTransactions()
	require.Len(t, after, len(before))
	assert.True(t, after[0].Record().Amount.Equal(before[0].Record().Amount))
}

func TestUpdateTransaction_MergesFields(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	id, err := s.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)

	amount := decimal.NewFromInt(60)
	category := "cat_leisure"
	require.NoError(t, s.UpdateTransaction(id, domain.TransactionPatch{Amount: &amount, Category: &category}))

	got := s.GetTransactions()
	require.Len(t, got, 1)
	rec := got[0].Record()
	assert.True(t, rec.Amount.Equal(amount))
	assert.Equal(t, "cat_leisure", rec.Category)
	assert.Equal(t, "Groceries", rec.Description)
}

func TestUpdateTransaction_RejectsInvalidPatch(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	id, err := s.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)

	negative := decimal.NewFromInt(-1)
	assert.ErrorIs(t, s.UpdateTransaction(id, domain.TransactionPatch{Amount: &negative}), domain.ErrInvalidAmount)

	badDate := "tomorrow"
	assert.ErrorIs(t, s.UpdateTransaction(id, domain.TransactionPatch{Date: &badDate}), domain.ErrInvalidDate)
}

func TestDeleteTransaction(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	id, err := s.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)

	s.DeleteTransaction("no-such-id")
	assert.Len(t, s.GetTransactions(), 1)

	s.DeleteTransaction(id)
	assert.Empty(t, s.GetTransactions())
}

func TestGetFilteredTransactions_ConjunctionScenario(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	expenseID, err := s.AddTransaction(expense("2025-12-15", "Grocery shopping at Walmart", 49.99))
	require.NoError(t, err)
	_, err = s.AddTransaction(income("2025-12-10", "Acme Corp payroll", 3000))
	require.NoError(t, err)

	s.SetFilters(domain.TransactionFilter{
		Type:      domain.TransactionTypeExpense,
		StartDate: "2025-12-01",
		EndDate:   "2025-12-31",
	})

	got := s.GetFilteredTransactions()
	require.Len(t, got, 1)
	assert.Equal(t, expenseID, got[0].TransactionID())
	assert.Equal(t, domain.TransactionTypeExpense, got[0].Record().Type)
}

func TestGetFilteredTransactions_EmptyFilterReturnsAllInOrder(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	ids := make([]string, 0, 3)
	for _, d := range []string{"2025-12-03", "2025-12-01", "2025-12-02"} {
		id, err := s.AddTransaction(expense(d, "Expense on "+d, 10))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got := s.GetFilteredTransactions()
	require.Len(t, got, 3)
	// insertion order, no implicit sort
	for i, id := range ids {
		assert.Equal(t, id, got[i].TransactionID())
	}
}

func TestClearFilters(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	_, err := s.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)

	s.SetFilters(domain.TransactionFilter{Type: domain.TransactionTypeIncome})
	assert.Empty(t, s.GetFilteredTransactions())

	s.ClearFilters()
	assert.Len(t, s.GetFilteredTransactions(), 1)
	assert.True(t, s.GetFilters().IsZero())
}

func TestActualAndProjectedSplit(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	_, err := s.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)
	monthly := domain.FrequencyMonthly
	_, err = s.AddTransaction(&domain.ProjectedTransaction{
		Transaction: *expense("2026-01-01", "Rent", 1200),
		Frequency:   &monthly,
	})
	require.NoError(t, err)

	actual := s.GetActualTransactions()
	require.Len(t, actual, 1)
	assert.Equal(t, "Groceries", actual[0].Description)

	projected := s.GetProjectedTransactions()
	require.Len(t, projected, 1)
	assert.Equal(t, "Rent", projected[0].Description)
	require.NotNil(t, projected[0].Frequency)
	assert.Equal(t, domain.FrequencyMonthly, *projected[0].Frequency)
}

func TestTransactionsStore_RoundTrip(t *testing.T) {
	ds := docstore.NewMemory()
	s1 := NewTransactionsStore(ds)

	_, err := s1.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)
	monthly := domain.FrequencyMonthly
	_, err = s1.AddTransaction(&domain.ProjectedTransaction{
		Transaction: *expense("2026-01-01", "Rent", 1200),
		Frequency:   &monthly,
	})
	require.NoError(t, err)
	s1.SetFilters(domain.TransactionFilter{AccountID: "acc_checking_001"})
	s1.Flush()

	s2 := NewTransactionsStore(ds)
	require.NoError(t, s2.Load(context.Background()))

	want := s1.GetTransactions()
	got := s2.GetTransactions()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i].Record(), got[i].Record()
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Date, g.Date)
		assert.Equal(t, w.Description, g.Description)
		assert.True(t, w.Amount.Equal(g.Amount))
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Type, g.Type)
		assert.Equal(t, w.AccountID, g.AccountID)
		assert.Equal(t, w.CurrencyID, g.CurrencyID)
		assert.Equal(t, want[i].Projected(), got[i].Projected())
	}
	assert.Equal(t, s1.GetFilters(), s2.GetFilters())
}

// slowFirstWriteStore delays the first write long enough for a later
// snapshot to be scheduled, exposing any reordering between the two.
type slowFirstWriteStore struct {
	inner *docstore.Memory
	mu    sync.Mutex
	sets  int
}

func (s *slowFirstWriteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s *slowFirstWriteStore) Set(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	s.sets++
	first := s.sets == 1
	s.mu.Unlock()
	if first {
		time.Sleep(100 * time.Millisecond)
	}
	return s.inner.Set(ctx, key, blob)
}

func (s *slowFirstWriteStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func TestTransactionsStore_SlowWriteNeverClobbersNewerSnapshot(t *testing.T) {
	ds := &slowFirstWriteStore{inner: docstore.NewMemory()}
	s1 := NewTransactionsStore(ds)

	_, err := s1.AddTransaction(expense("2025-12-15", "Groceries", 49.99))
	require.NoError(t, err)
	s1.SetFilters(domain.TransactionFilter{AccountID: "acc_checking_001"})
	s1.Flush()

	// the durable snapshot must reflect the last mutation, not the write
	// that happened to finish last
	s2 := NewTransactionsStore(ds.inner)
	require.NoError(t, s2.Load(context.Background()))
	require.Len(t, s2.GetTransactions(), 1)
	assert.Equal(t, "acc_checking_001", s2.GetFilters().AccountID)
}

func TestTransactionsStore_MigratesPreV2ToSeed(t *testing.T) {
	ds := docstore.NewMemory()
	old := transactionsState{
		Transactions: domain.TransactionList{expense("2024-01-01", "Old format record", 1)},
	}
	require.NoError(t, ds.Set(context.Background(), KeyTransactions, envelope(t, old, 1)))

	s := NewTransactionsStore(ds)
	require.NoError(t, s.Load(context.Background()))

	want := seedTransactions()
	got := s.GetTransactions()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].TransactionID(), got[i].TransactionID())
	}

	// the migrated snapshot is re-persisted at the current version
	s.Flush()
	blob, ok, err := ds.Get(context.Background(), KeyTransactions)
	require.NoError(t, err)
	require.True(t, ok)
	var snap snapshot
	require.NoError(t, json.Unmarshal(blob, &snap))
	assert.Equal(t, SchemaVersion, snap.Version)
}

func TestTransactionsStore_SeedsEmptyCollection(t *testing.T) {
	ds := docstore.NewMemory()
	st := transactionsState{
		Transactions: domain.TransactionList{},
		Filters:      domain.TransactionFilter{AccountID: "acc_checking_001"},
	}
	require.NoError(t, ds.Set(context.Background(), KeyTransactions, envelope(t, st, SchemaVersion)))

	s := NewTransactionsStore(ds)
	require.NoError(t, s.Load(context.Background()))

	assert.Len(t, s.GetTransactions(), len(seedTransactions()))
	// the hydrated filter survives seeding
	assert.Equal(t, "acc_checking_001", s.GetFilters().AccountID)
}

func TestTransactionsStore_PopulatedSnapshotIsNotReseeded(t *testing.T) {
	ds := docstore.NewMemory()
	st := transactionsState{
		Transactions: domain.TransactionList{expense("2025-12-15", "Groceries", 49.99)},
	}
	st.Transactions[0].(*domain.Transaction).ID = "txn_custom"
	require.NoError(t, ds.Set(context.Background(), KeyTransactions, envelope(t, st, SchemaVersion)))

	s := NewTransactionsStore(ds)
	require.NoError(t, s.Load(context.Background()))

	got := s.GetTransactions()
	require.Len(t, got, 1)
	assert.Equal(t, "txn_custom", got[0].TransactionID())
}

func TestTransactionsStore_CorruptSnapshotFallsBackToSeed(t *testing.T) {
	ds := docstore.NewMemory()
	require.NoError(t, ds.Set(context.Background(), KeyTransactions, []byte("{definitely not json")))

	s := NewTransactionsStore(ds)
	require.NoError(t, s.Load(context.Background()))

	// corrupt is treated as absent: fresh-install seeding applies
	assert.Len(t, s.GetTransactions(), len(seedTransactions()))
}

func TestTransactionsStore_FreshInstallSeeds(t *testing.T) {
	s := NewTransactionsStore(docstore.NewMemory())
	require.NoError(t, s.Load(context.Background()))

	want := seedTransactions()
	got := s.GetTransactions()
	require.Len(t, got, len(want))
	assert.True(t, s.GetFilters().IsZero())
}

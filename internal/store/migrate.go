package store

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/tallyhq/tally-backend/internal/domain"
	"github.com/tallyhq/tally-backend/internal/seed"
)

// Migration policy: a snapshot recorded below SchemaVersion is replaced
// wholesale by seed data rather than field-transformed. Each function is a
// pure (payload, version) -> state step so a real per-version transform can
// slot in without touching hydration.

func migrateAccountsState(raw json.RawMessage, version int) (accountsState, error) {
	if version < SchemaVersion {
		return accountsState{
			Accounts:     seed.Accounts(),
			Institutions: seed.Institutions(),
			Currencies:   seed.Currencies(),
		}, nil
	}
	var st accountsState
	if err := json.Unmarshal(raw, &st); err != nil {
		return accountsState{}, err
	}
	return st, nil
}

func migrateCategoriesState(raw json.RawMessage, version int) (categoriesState, error) {
	if version < SchemaVersion {
		return categoriesState{
			Categories: seed.Categories(),
			Patterns:   seed.CategoryPatterns(),
		}, nil
	}
	var st categoriesState
	if err := json.Unmarshal(raw, &st); err != nil {
		return categoriesState{}, err
	}
	return st, nil
}

func migrateTransactionsState(raw json.RawMessage, version int) (transactionsState, error) {
	if version < SchemaVersion {
		return transactionsState{Transactions: seedTransactions()}, nil
	}
	var st transactionsState
	if err := json.Unmarshal(raw, &st); err != nil {
		return transactionsState{}, err
	}
	return st, nil
}

// seedTransactions is the seed collection for the transactions slice: posted
// records followed by projected ones.
func seedTransactions() domain.TransactionList {
	return append(seed.Transactions(), seed.ProjectedTransactions()...)
}

// logUnreadableState records a state payload that parsed as an envelope but
// not as store state. The store falls back to empty, which seeding then
// repopulates.
func logUnreadableState(key string, err error) {
	log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable store state")
}

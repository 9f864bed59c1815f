// Package store holds the in-memory domain stores. Each store owns one
// slice of state, hydrates it from a document store snapshot on load,
// migrates stale snapshot versions, seeds empty collections, and persists
// the whole slice back asynchronously after every mutation.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tallyhq/tally-backend/internal/docstore"
)

// SchemaVersion is the current snapshot schema version. Snapshots recorded
// below it are replaced wholesale by seed data on load.
const SchemaVersion = 2

// Document store keys, one per slice.
const (
	KeyAccounts     = "accounts-store"
	KeyCategories   = "categories-store"
	KeyTransactions = "transactions-store"
)

const persistTimeout = 10 * time.Second

// snapshot is the persisted envelope for one slice.
type snapshot struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// persister serializes a slice into its snapshot envelope and writes it in
// the background. Writes are fire-and-forget: failures are logged, never
// surfaced to the mutation that triggered them, and the in-memory state
// stays authoritative. A single writer drains a latest-snapshot slot, so
// writes for a key never reorder and a stale snapshot can never clobber a
// newer one; intermediate snapshots superseded before their write starts
// are skipped.
type persister struct {
	ds  docstore.Store
	key string

	mu      sync.Mutex
	pending []byte
	writing bool
	wg      sync.WaitGroup
}

func newPersister(ds docstore.Store, key string) *persister {
	return &persister{ds: ds, key: key}
}

// load fetches the raw state payload and recorded version. ok is false when
// the key is absent or the blob is unreadable; a corrupt snapshot is treated
// as absent.
func (p *persister) load(ctx context.Context) (json.RawMessage, int, bool, error) {
	blob, ok, err := p.ds.Get(ctx, p.key)
	if err != nil {
		return nil, 0, false, err
	}
	if !ok {
		return nil, 0, false, nil
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil || snap.State == nil {
		log.Warn().Err(err).Str("key", p.key).Msg("Discarding unreadable snapshot")
		return nil, 0, false, nil
	}
	return snap.State, snap.Version, true, nil
}

// persist marshals state synchronously (so the snapshot reflects the state
// at the time of the call) and hands the blob to the writer, starting one if
// none is draining the slot.
func (p *persister) persist(state any) {
	raw, err := json.Marshal(state)
	if err != nil {
		log.Error().Err(err).Str("key", p.key).Msg("Failed to marshal snapshot")
		return
	}
	blob, err := json.Marshal(snapshot{State: raw, Version: SchemaVersion})
	if err != nil {
		log.Error().Err(err).Str("key", p.key).Msg("Failed to marshal snapshot")
		return
	}

	p.mu.Lock()
	p.pending = blob
	if !p.writing {
		p.writing = true
		p.wg.Add(1)
		go p.drain()
	}
	p.mu.Unlock()
}

// drain writes pending snapshots until the slot is empty. Only one drain
// goroutine runs per persister.
func (p *persister) drain() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		blob := p.pending
		p.pending = nil
		if blob == nil {
			p.writing = false
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err := p.ds.Set(ctx, p.key, blob)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("key", p.key).Msg("Failed to persist snapshot")
		}
	}
}

// flush waits for all in-flight writes. Used by tests and at shutdown.
func (p *persister) flush() {
	p.wg.Wait()
}

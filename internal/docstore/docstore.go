// Package docstore provides the durable key/value substrate the domain
// stores persist their snapshots through. A missing key is a normal outcome,
// reported through the ok return, never through an error.
package docstore

import "context"

// Store is the document store contract. All domain stores share one instance
// under disjoint keys, so backends do not need cross-key coordination.
type Store interface {
	// Get returns the blob stored under key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (blob []byte, ok bool, err error)
	// Set stores blob under key, replacing any previous value.
	Set(ctx context.Context, key string, blob []byte) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

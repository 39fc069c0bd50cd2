// Package session implements the local key-value store that holds the
// current user/session record. The store is a single shared mutable slot
// per key: no transactions, no locking across read-modify-write sequences.
package session

import "context"

// Repository is the storage port consumed by the auth service.
//
// Contract:
//   - Get returns (nil, nil) when the key is absent.
//   - Set replaces any existing value wholesale.
//   - Delete of an absent key is a no-op.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

package kvstore

import (
	"context"
)

// KVStore defines a generic key-value store interface
// Keys are variable-length byte slices; callers namespace them with a prefix
type KVStore interface {
	// Put stores a key-value pair
	Put(ctx context.Context, key []byte, value []byte) error

	// Get retrieves a value by key
	// Returns nil if key doesn't exist
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Delete removes a key-value pair
	Delete(ctx context.Context, key []byte) error

	// Iterate calls fn for every key starting with prefix, in key order
	// Returning an error from fn stops iteration and is returned
	Iterate(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error

	// Close releases any resources
	Close() error
}

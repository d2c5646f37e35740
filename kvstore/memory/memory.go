package memory

import (
	"bytes"
	"context"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/shruggr/inventory/kvstore"
)

var _ kvstore.KVStore = (*Store)(nil)

// Store is an in-memory implementation of kvstore.KVStore
// Suitable for testing and development
type Store struct {
	data sync.Map // map[string][]byte (hex-encoded keys)
}

// New creates a new in-memory KVStore
func New() *Store {
	return &Store{}
}

// Put stores a copy of value under key
func (s *Store) Put(ctx context.Context, key []byte, value []byte) error {
	s.data.Store(hex.EncodeToString(key), append([]byte{}, value...))
	return nil
}

// Get retrieves a value by key
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	val, ok := s.data.Load(hex.EncodeToString(key))
	if !ok {
		return nil, nil
	}
	return append([]byte{}, val.([]byte)...), nil
}

// Delete removes a key-value pair
func (s *Store) Delete(ctx context.Context, key []byte) error {
	s.data.Delete(hex.EncodeToString(key))
	return nil
}

// Iterate visits every key starting with prefix in key order
func (s *Store) Iterate(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error {
	type entry struct {
		key   []byte
		value []byte
	}

	var entries []entry
	var decodeErr error
	s.data.Range(func(k, v any) bool {
		key, err := hex.DecodeString(k.(string))
		if err != nil {
			decodeErr = err
			return false
		}
		if bytes.HasPrefix(key, prefix) {
			entries = append(entries, entry{key: key, value: v.([]byte)})
		}
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(e.key, append([]byte{}, e.value...)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases any resources
func (s *Store) Close() error {
	return nil
}

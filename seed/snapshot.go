package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shruggr/inventory/kvstore"
	"github.com/shruggr/inventory/models"
	"lukechampine.com/blake3"
)

// KeyPrefix namespaces item records in the key-value store
const KeyPrefix = "item/"

// Key returns the store key for an item ID
func Key(id string) []byte {
	sum := blake3.Sum256([]byte(id))
	key := make([]byte, 0, len(KeyPrefix)+len(sum))
	key = append(key, KeyPrefix...)
	return append(key, sum[:]...)
}

// Save writes every item under its key, replacing any previous record
func Save(ctx context.Context, kv kvstore.KVStore, items []models.Item) error {
	for _, item := range items {
		if err := Put(ctx, kv, item); err != nil {
			return err
		}
	}
	return nil
}

// Put writes a single item
func Put(ctx context.Context, kv kvstore.KVStore, item models.Item) error {
	value, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item %s: %w", item.ID, err)
	}
	if err := kv.Put(ctx, Key(item.ID), value); err != nil {
		return fmt.Errorf("failed to store item %s: %w", item.ID, err)
	}
	return nil
}

// Delete removes a single item's record
func Delete(ctx context.Context, kv kvstore.KVStore, id string) error {
	if err := kv.Delete(ctx, Key(id)); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}

// Load reads every saved item, sorted by ID
func Load(ctx context.Context, kv kvstore.KVStore) ([]models.Item, error) {
	var items []models.Item
	err := kv.Iterate(ctx, []byte(KeyPrefix), func(key, value []byte) error {
		var item models.Item
		if err := json.Unmarshal(value, &item); err != nil {
			return fmt.Errorf("failed to decode item at %x: %w", key, err)
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

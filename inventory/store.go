// Package inventory is the multi-index catalog store.
//
// A Store owns five structures: the primary map (ID -> item), the category
// index, the name trie, and two result caches layered over the indices (one
// keyed by name prefix, one by category). Every mutation goes through the
// Store, which updates them in a fixed order (primary map, category index,
// trie, caches) so a caller never observes them out of step.
//
// A Store is not safe for concurrent use. Reads populate the caches, so even
// lookups mutate internal state; wrap the Store in Locked to share it between
// goroutines.
package inventory

import (
	"fmt"
	"sort"

	"github.com/shruggr/inventory/cache"
	"github.com/shruggr/inventory/cache/memory"
	"github.com/shruggr/inventory/category"
	"github.com/shruggr/inventory/models"
	"github.com/shruggr/inventory/trie"
)

// Store is an in-memory catalog indexed by ID, category and name prefix
type Store struct {
	opts Options

	items         map[string]models.Item
	categories    *category.Index
	names         *trie.Trie
	prefixCache   cache.PrefixCache
	categoryCache cache.CategoryCache

	counters counters
}

// New creates an empty Store
func New(opts ...Option) (*Store, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	categoryCache, err := memory.NewCategoryCache(o.CategoryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create category cache: %w", err)
	}

	s := &Store{
		opts:          o,
		items:         make(map[string]models.Item),
		categories:    category.NewIndex(),
		prefixCache:   memory.NewPrefixCache(),
		categoryCache: categoryCache,
	}
	s.names = s.newTrie()
	return s, nil
}

func (s *Store) newTrie() *trie.Trie {
	var opts []trie.Option
	if s.opts.Prune {
		opts = append(opts, trie.WithPruning())
	}
	return trie.New(s.opts.TrieMode, opts...)
}

// Options returns the settings the Store was built with
func (s *Store) Options() Options {
	return s.opts
}

func validate(item models.Item) error {
	if item.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidIdentifier)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: %s has quantity %d", ErrInvalidQuantity, item.ID, item.Quantity)
	}
	return nil
}

// AddItem inserts a new item. It fails with ErrDuplicateIdentifier if the ID
// is taken, in which case nothing changes.
func (s *Store) AddItem(item models.Item) error {
	if err := validate(item); err != nil {
		return err
	}
	if _, ok := s.items[item.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, item.ID)
	}

	name := item.NormalizedName()
	s.items[item.ID] = item
	s.categories.Add(item.Category, item.ID)
	s.names.Insert(name, item.ID)
	s.prefixCache.InvalidateForName(name)
	s.categoryCache.Delete(item.Category)
	return nil
}

// RemoveItem deletes the item with the given ID. Removing an absent ID is not
// an error.
func (s *Store) RemoveItem(id string) error {
	item, ok := s.items[id]
	if !ok {
		return nil
	}

	name := item.NormalizedName()
	delete(s.items, id)
	s.categories.Remove(item.Category, id)
	s.names.Delete(name, id)
	s.prefixCache.InvalidateForName(name)
	s.categoryCache.Delete(item.Category)
	return nil
}

// RemoveRecord deletes the item identified by item.ID. Only the ID is
// consulted; the other fields may be stale.
func (s *Store) RemoveRecord(item models.Item) error {
	return s.RemoveItem(item.ID)
}

// UpdateQuantity sets the on-hand quantity of an item
func (s *Store) UpdateQuantity(id string, quantity int) error {
	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: %d for %s", ErrInvalidQuantity, quantity, id)
	}

	item.Quantity = quantity
	s.items[id] = item
	return nil
}

// RenameItem changes an item's display name and moves it in the name trie
func (s *Store) RenameItem(id, newName string) error {
	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if item.Name == newName {
		return nil
	}

	oldKey := item.NormalizedName()
	newKey := models.NormalizeName(newName)
	item.Name = newName
	s.items[id] = item

	// A change of letter case keeps the trie path
	if oldKey == newKey {
		return nil
	}
	s.names.Delete(oldKey, id)
	s.names.Insert(newKey, id)
	s.prefixCache.InvalidateForName(oldKey)
	s.prefixCache.InvalidateForName(newKey)
	return nil
}

// RecategorizeItem moves an item to another category
func (s *Store) RecategorizeItem(id, newCategory string) error {
	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if item.Category == newCategory {
		return nil
	}

	oldCategory := item.Category
	item.Category = newCategory
	s.items[id] = item
	s.categories.Remove(oldCategory, id)
	s.categories.Add(newCategory, id)
	s.categoryCache.Delete(oldCategory)
	s.categoryCache.Delete(newCategory)
	return nil
}

// BulkLoad replaces the whole catalog with items. Indices are rebuilt from
// scratch with the Store's trie mode and both caches are cleared. If any item
// is invalid or two share an ID the Store is left untouched.
func (s *Store) BulkLoad(items []models.Item) error {
	primary := make(map[string]models.Item, len(items))
	for _, item := range items {
		if err := validate(item); err != nil {
			return err
		}
		if _, ok := primary[item.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, item.ID)
		}
		primary[item.ID] = item
	}

	categories := category.NewIndex()
	names := s.newTrie()
	for id, item := range primary {
		categories.Add(item.Category, id)
		names.Insert(item.NormalizedName(), id)
	}

	s.items = primary
	s.categories = categories
	s.names = names
	s.prefixCache.Clear()
	s.categoryCache.Clear()
	return nil
}

// Len returns the number of items
func (s *Store) Len() int {
	return len(s.items)
}

// Items returns every item ordered by ID
func (s *Store) Items() []models.Item {
	out := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListCategories returns the sorted labels of all non-empty categories
func (s *Store) ListCategories() []string {
	return s.categories.Categories()
}

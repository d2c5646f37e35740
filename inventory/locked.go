package inventory

import (
	"iter"
	"sync"

	"github.com/shruggr/inventory/models"
	"github.com/shruggr/inventory/multihash"
)

// Locked serializes every call to a Store behind one mutex. Lookups take the
// lock exclusively because they fill the caches.
type Locked struct {
	mu    sync.Mutex
	store *Store
}

// NewLocked wraps store. The caller must stop using store directly.
func NewLocked(store *Store) *Locked {
	return &Locked{store: store}
}

// Do runs fn with exclusive access to the underlying Store
func (l *Locked) Do(fn func(s *Store) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.store)
}

// AddItem locks and calls Store.AddItem
func (l *Locked) AddItem(item models.Item) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.AddItem(item)
}

// RemoveItem locks and calls Store.RemoveItem
func (l *Locked) RemoveItem(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.RemoveItem(id)
}

// UpdateQuantity locks and calls Store.UpdateQuantity
func (l *Locked) UpdateQuantity(id string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.UpdateQuantity(id, quantity)
}

// RenameItem locks and calls Store.RenameItem
func (l *Locked) RenameItem(id, newName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.RenameItem(id, newName)
}

// RecategorizeItem locks and calls Store.RecategorizeItem
func (l *Locked) RecategorizeItem(id, newCategory string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.RecategorizeItem(id, newCategory)
}

// BulkLoad locks and calls Store.BulkLoad
func (l *Locked) BulkLoad(items []models.Item) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.BulkLoad(items)
}

// LookupByID locks and calls Store.LookupByID
func (l *Locked) LookupByID(id string) (models.Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.LookupByID(id)
}

// LookupByCategory locks and calls Store.LookupByCategory
func (l *Locked) LookupByCategory(category string) []models.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.LookupByCategory(category)
}

// LookupByNamePrefix locks and calls Store.LookupByNamePrefix
func (l *Locked) LookupByNamePrefix(prefix string, limit int) []models.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.LookupByNamePrefix(prefix, limit)
}

// PrefixSeq resolves the prefix under the lock and yields from the snapshot
// so the consumer never runs while the lock is held
func (l *Locked) PrefixSeq(prefix string) iter.Seq[models.Item] {
	return func(yield func(models.Item) bool) {
		for _, item := range l.LookupByNamePrefix(prefix, 0) {
			if !yield(item) {
				return
			}
		}
	}
}

// ListCategories locks and calls Store.ListCategories
func (l *Locked) ListCategories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.ListCategories()
}

// Items locks and calls Store.Items
func (l *Locked) Items() []models.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Items()
}

// Len returns the number of items
func (l *Locked) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Len()
}

// Stats locks and calls Store.Stats
func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Stats()
}

// Verify locks and calls Store.Verify
func (l *Locked) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Verify()
}

// Fingerprint locks and calls Store.Fingerprint
func (l *Locked) Fingerprint() (multihash.Digest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Fingerprint()
}

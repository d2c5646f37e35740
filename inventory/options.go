package inventory

import (
	"fmt"

	"github.com/shruggr/inventory/cache/memory"
	"github.com/shruggr/inventory/config"
	"github.com/shruggr/inventory/trie"
)

// Options holds Store construction settings
type Options struct {
	TrieMode          trie.Mode
	Prune             bool
	CategoryCacheSize int
}

// DefaultOptions returns a node-storing trie without pruning and the default
// category cache capacity
func DefaultOptions() Options {
	return Options{
		TrieMode:          trie.NodeStoring,
		CategoryCacheSize: memory.DefaultCategorySize,
	}
}

// Option configures a Store
type Option func(*Options)

// WithTrieMode selects the trie storage mode
func WithTrieMode(mode trie.Mode) Option {
	return func(o *Options) {
		o.TrieMode = mode
	}
}

// WithPruning makes name deletions detach emptied trie branches
func WithPruning(prune bool) Option {
	return func(o *Options) {
		o.Prune = prune
	}
}

// WithCategoryCacheSize bounds the number of cached category listings
func WithCategoryCacheSize(size int) Option {
	return func(o *Options) {
		o.CategoryCacheSize = size
	}
}

// FromConfig creates a Store from the inventory section of the config file
func FromConfig(cfg *config.Inventory) (*Store, error) {
	mode, err := trie.ParseMode(cfg.TrieMode)
	if err != nil {
		return nil, fmt.Errorf("failed to configure inventory: %w", err)
	}
	return New(
		WithTrieMode(mode),
		WithPruning(cfg.Prune),
		WithCategoryCacheSize(cfg.CategoryCacheSize),
	)
}

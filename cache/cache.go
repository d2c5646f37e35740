package cache

// PrefixCache remembers resolved prefix queries
// Keys are normalized prefixes, values the full sorted ID list for the prefix
type PrefixCache interface {
	// Get retrieves the cached IDs for a prefix
	// The bool is false on a miss
	Get(prefix string) ([]string, bool)

	// Put stores the resolved IDs for a prefix
	Put(prefix string, ids []string)

	// InvalidateForName drops every cached prefix of name, including the
	// empty prefix and name itself
	InvalidateForName(name string)

	// Clear removes all cached entries
	Clear()

	// Len returns the number of cached prefixes
	Len() int
}

// CategoryCache remembers materialized category listings
type CategoryCache interface {
	// Get retrieves the cached IDs for a category
	// The bool is false on a miss
	Get(category string) ([]string, bool)

	// Put stores the IDs for a category
	Put(category string, ids []string)

	// Delete drops the cached IDs for a category
	Delete(category string)

	// Clear removes all cached entries
	Clear()

	// Len returns the number of cached categories
	Len() int
}

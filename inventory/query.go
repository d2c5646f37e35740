package inventory

import (
	"iter"

	"github.com/shruggr/inventory/models"
)

// LookupByID returns the item with the given ID
func (s *Store) LookupByID(id string) (models.Item, bool) {
	item, ok := s.items[id]
	return item, ok
}

// LookupByCategory returns the items filed under category, ordered by ID
func (s *Store) LookupByCategory(category string) []models.Item {
	return s.project(s.categoryIDs(category), 0)
}

// LookupByNamePrefix returns the items whose name starts with prefix, ignoring
// case and ordered by ID. A positive limit truncates the result; the cached
// result for the prefix is always the complete one.
func (s *Store) LookupByNamePrefix(prefix string, limit int) []models.Item {
	return s.project(s.prefixIDs(models.NormalizeName(prefix)), limit)
}

// PrefixSeq is the lazy form of LookupByNamePrefix. Each range over the
// sequence resolves the prefix again, so it can be reused after mutations.
func (s *Store) PrefixSeq(prefix string) iter.Seq[models.Item] {
	return func(yield func(models.Item) bool) {
		s.yieldAll(s.prefixIDs(models.NormalizeName(prefix)), yield)
	}
}

// CategorySeq is the lazy form of LookupByCategory
func (s *Store) CategorySeq(category string) iter.Seq[models.Item] {
	return func(yield func(models.Item) bool) {
		s.yieldAll(s.categoryIDs(category), yield)
	}
}

func (s *Store) yieldAll(ids []string, yield func(models.Item) bool) {
	for _, id := range ids {
		// The consumer may have removed items mid-iteration
		item, ok := s.items[id]
		if !ok {
			continue
		}
		if !yield(item) {
			return
		}
	}
}

func (s *Store) prefixIDs(prefix string) []string {
	if ids, ok := s.prefixCache.Get(prefix); ok {
		s.counters.prefixHits.Add(1)
		return ids
	}
	s.counters.prefixMisses.Add(1)
	ids := s.names.Search(prefix)
	s.prefixCache.Put(prefix, ids)
	return ids
}

func (s *Store) categoryIDs(category string) []string {
	if ids, ok := s.categoryCache.Get(category); ok {
		s.counters.categoryHits.Add(1)
		return ids
	}
	s.counters.categoryMisses.Add(1)
	ids := s.categories.IDs(category)
	s.categoryCache.Put(category, ids)
	return ids
}

func (s *Store) project(ids []string, limit int) []models.Item {
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

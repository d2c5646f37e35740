package inventory

import "sync/atomic"

type counters struct {
	prefixHits     atomic.Uint64
	prefixMisses   atomic.Uint64
	categoryHits   atomic.Uint64
	categoryMisses atomic.Uint64
}

// Stats is a point-in-time view of the Store's size and cache effectiveness
type Stats struct {
	Items            int
	Categories       int
	TrieNodes        int
	CachedPrefixes   int
	CachedCategories int

	PrefixHits     uint64
	PrefixMisses   uint64
	CategoryHits   uint64
	CategoryMisses uint64
}

// Stats returns current counters
func (s *Store) Stats() Stats {
	return Stats{
		Items:            len(s.items),
		Categories:       s.categories.Len(),
		TrieNodes:        s.names.NodeCount(),
		CachedPrefixes:   s.prefixCache.Len(),
		CachedCategories: s.categoryCache.Len(),
		PrefixHits:       s.counters.prefixHits.Load(),
		PrefixMisses:     s.counters.prefixMisses.Load(),
		CategoryHits:     s.counters.categoryHits.Load(),
		CategoryMisses:   s.counters.categoryMisses.Load(),
	}
}

// PrefixHitRatio returns hits / (hits + misses) for prefix queries, or 0 before
// the first query
func (st Stats) PrefixHitRatio() float64 {
	return ratio(st.PrefixHits, st.PrefixMisses)
}

// CategoryHitRatio returns hits / (hits + misses) for category queries
func (st Stats) CategoryHitRatio() float64 {
	return ratio(st.CategoryHits, st.CategoryMisses)
}

func ratio(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

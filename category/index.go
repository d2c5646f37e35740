// Package category maps category labels to the IDs filed under them.
package category

import "sort"

// Index is a label -> ID set map that never holds an empty set
type Index struct {
	sets map[string]map[string]struct{}
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{sets: make(map[string]map[string]struct{})}
}

// Add files id under category
func (x *Index) Add(category, id string) {
	set, ok := x.sets[category]
	if !ok {
		set = make(map[string]struct{})
		x.sets[category] = set
	}
	set[id] = struct{}{}
}

// Remove takes id out of category, dropping the category once it is empty
func (x *Index) Remove(category, id string) {
	set, ok := x.sets[category]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(x.sets, category)
	}
}

// Has reports whether id is filed under category
func (x *Index) Has(category, id string) bool {
	_, ok := x.sets[category][id]
	return ok
}

// IDs returns the sorted IDs filed under category
func (x *Index) IDs(category string) []string {
	set := x.sets[category]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Categories returns the sorted labels that currently hold at least one ID
func (x *Index) Categories() []string {
	out := make([]string, 0, len(x.sets))
	for c := range x.sets {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of categories
func (x *Index) Len() int {
	return len(x.sets)
}

// Size returns the number of IDs under category
func (x *Index) Size(category string) int {
	return len(x.sets[category])
}

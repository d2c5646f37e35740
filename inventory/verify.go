package inventory

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shruggr/inventory/multihash"
)

// Verify checks that the primary map, the category index and the name trie
// agree: every item is filed under its own category and recorded under its
// own normalized name, and neither index holds an ID the primary map lacks.
func (s *Store) Verify() error {
	for id, item := range s.items {
		if !s.categories.Has(item.Category, id) {
			return fmt.Errorf("%w: %s missing from category %q", ErrInconsistent, id, item.Category)
		}
		if !s.names.Contains(item.NormalizedName(), id) {
			return fmt.Errorf("%w: %s missing from trie under %q", ErrInconsistent, id, item.NormalizedName())
		}
	}

	filed := 0
	for _, c := range s.categories.Categories() {
		ids := s.categories.IDs(c)
		if len(ids) == 0 {
			return fmt.Errorf("%w: empty category %q", ErrInconsistent, c)
		}
		for _, id := range ids {
			item, ok := s.items[id]
			if !ok {
				return fmt.Errorf("%w: orphan %s in category %q", ErrInconsistent, id, c)
			}
			if item.Category != c {
				return fmt.Errorf("%w: %s filed under %q but has category %q", ErrInconsistent, id, c, item.Category)
			}
		}
		filed += len(ids)
	}
	if filed != len(s.items) {
		return fmt.Errorf("%w: %d category entries for %d items", ErrInconsistent, filed, len(s.items))
	}

	recorded := 0
	for name, id := range s.names.All() {
		item, ok := s.items[id]
		if !ok {
			return fmt.Errorf("%w: orphan %s in trie under %q", ErrInconsistent, id, name)
		}
		if item.NormalizedName() != name {
			return fmt.Errorf("%w: %s recorded under %q but named %q", ErrInconsistent, id, name, item.Name)
		}
		recorded++
	}
	if recorded != len(s.items) {
		return fmt.Errorf("%w: %d trie entries for %d items", ErrInconsistent, recorded, len(s.items))
	}

	if all := s.names.Search(""); len(all) != len(s.items) {
		return fmt.Errorf("%w: empty prefix finds %d of %d items", ErrInconsistent, len(all), len(s.items))
	}
	return nil
}

// Fingerprint hashes a canonical encoding of the primary map, the category
// index and the trie membership. Two stores with the same fingerprint hold
// identical index state. Caches are not included.
func (s *Store) Fingerprint() (multihash.Digest, error) {
	var buf bytes.Buffer

	for _, item := range s.Items() {
		buf.WriteString("item\x00")
		buf.WriteString(item.ID)
		buf.WriteByte(0)
		buf.WriteString(item.Name)
		buf.WriteByte(0)
		buf.WriteString(strconv.FormatInt(item.PriceCents, 10))
		buf.WriteByte(0)
		buf.WriteString(strconv.Itoa(item.Quantity))
		buf.WriteByte(0)
		buf.WriteString(item.Category)
		buf.WriteByte('\n')
	}

	for _, c := range s.categories.Categories() {
		buf.WriteString("category\x00")
		buf.WriteString(c)
		for _, id := range s.categories.IDs(c) {
			buf.WriteByte(0)
			buf.WriteString(id)
		}
		buf.WriteByte('\n')
	}

	for name, id := range s.names.All() {
		buf.WriteString("name\x00")
		buf.WriteString(name)
		buf.WriteByte(0)
		buf.WriteString(id)
		buf.WriteByte('\n')
	}

	return multihash.NewDigest(buf.Bytes())
}

package inventory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shruggr/inventory/config"
	"github.com/shruggr/inventory/models"
	"github.com/shruggr/inventory/trie"
)

var modes = []trie.Mode{trie.NodeStoring, trie.Subtree}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, items ...models.Item) {
	t.Helper()
	for _, item := range items {
		if err := s.AddItem(item); err != nil {
			t.Fatalf("AddItem(%s) failed: %v", item.ID, err)
		}
	}
}

func ids(items []models.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func mustVerify(t *testing.T, s *Store) {
	t.Helper()
	if err := s.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

var (
	redBall  = models.Item{ID: "A1", Name: "Red Ball", PriceCents: 499, Quantity: 10, Category: "Toys"}
	redCar   = models.Item{ID: "A2", Name: "Red Car", PriceCents: 1299, Quantity: 5, Category: "Toys"}
	blueBall = models.Item{ID: "A3", Name: "Blue Ball", PriceCents: 499, Quantity: 7, Category: "Toys"}
)

func TestScenario(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			s := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, s, redBall, redCar, blueBall)

			if diff := cmp.Diff([]string{"A1", "A2"}, ids(s.LookupByNamePrefix("Red", 0))); diff != "" {
				t.Errorf("prefix Red mismatch (-want +got):\n%s", diff)
			}

			if err := s.RecategorizeItem("A2", "Vehicles"); err != nil {
				t.Fatalf("RecategorizeItem failed: %v", err)
			}
			if diff := cmp.Diff([]string{"A1", "A3"}, ids(s.LookupByCategory("Toys"))); diff != "" {
				t.Errorf("category Toys mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"A2"}, ids(s.LookupByCategory("Vehicles"))); diff != "" {
				t.Errorf("category Vehicles mismatch (-want +got):\n%s", diff)
			}

			if err := s.RemoveItem("A1"); err != nil {
				t.Fatalf("RemoveItem failed: %v", err)
			}
			if diff := cmp.Diff([]string{"A2"}, ids(s.LookupByNamePrefix("Red", 0))); diff != "" {
				t.Errorf("prefix Red after remove mismatch (-want +got):\n%s", diff)
			}
			mustVerify(t, s)
		})
	}
}

func TestAddItemEveryPrefixFindsIt(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			s := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, s, blueBall)

			// Prime the cache with prefixes before the add
			name := "Red Ball"
			for i := 1; i <= len(name); i++ {
				s.LookupByNamePrefix(name[:i], 0)
			}
			mustAdd(t, s, redBall)

			for i := 1; i <= len(name); i++ {
				got := ids(s.LookupByNamePrefix(name[:i], 0))
				if !contains(got, "A1") {
					t.Errorf("prefix %q = %v, want it to include A1", name[:i], got)
				}
			}
			if got := ids(s.LookupByNamePrefix("rED bA", 0)); !contains(got, "A1") {
				t.Errorf("lookups should ignore case, got %v", got)
			}
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestAddItemDuplicate(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			s := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, s, redBall, redCar)

			before, err := s.Fingerprint()
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}

			dup := models.Item{ID: "A1", Name: "Green Kite", PriceCents: 1, Quantity: 1, Category: "Outdoor"}
			err = s.AddItem(dup)
			if !errors.Is(err, ErrDuplicateIdentifier) {
				t.Fatalf("AddItem duplicate error = %v, want ErrDuplicateIdentifier", err)
			}

			after, err := s.Fingerprint()
			if err != nil {
				t.Fatalf("Fingerprint failed: %v", err)
			}
			if !before.Equal(after) {
				t.Error("a rejected add must leave every index unchanged")
			}
			if got := s.LookupByNamePrefix("green", 0); len(got) != 0 {
				t.Errorf("rejected name leaked into the trie: %v", got)
			}
			if got := s.ListCategories(); contains(got, "Outdoor") {
				t.Errorf("rejected category leaked into the index: %v", got)
			}
		})
	}
}

func TestAddItemInvalid(t *testing.T) {
	s := newTestStore(t)

	err := s.AddItem(models.Item{ID: "", Name: "Nameless"})
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("empty ID error = %v, want ErrInvalidIdentifier", err)
	}

	err = s.AddItem(models.Item{ID: "N1", Name: "Negative", Quantity: -1})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity error = %v, want ErrInvalidQuantity", err)
	}

	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestRemoveItem(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			s := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, s, redBall, redCar)
			s.LookupByCategory("Toys")
			s.LookupByNamePrefix("red", 0)

			if err := s.RemoveItem("missing"); err != nil {
				t.Errorf("removing an absent ID should be a no-op, got %v", err)
			}

			if err := s.RemoveItem("A1"); err != nil {
				t.Fatalf("RemoveItem failed: %v", err)
			}
			if _, ok := s.LookupByID("A1"); ok {
				t.Error("A1 should be gone")
			}
			if diff := cmp.Diff([]string{"A2"}, ids(s.LookupByCategory("Toys"))); diff != "" {
				t.Errorf("category Toys mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"A2"}, ids(s.LookupByNamePrefix("red", 0))); diff != "" {
				t.Errorf("prefix red mismatch (-want +got):\n%s", diff)
			}

			if err := s.RemoveRecord(redCar); err != nil {
				t.Fatalf("RemoveRecord failed: %v", err)
			}
			if got := s.ListCategories(); len(got) != 0 {
				t.Errorf("empty categories must be dropped, got %v", got)
			}
			if got := s.LookupByNamePrefix("", 0); len(got) != 0 {
				t.Errorf("empty prefix after removing everything = %v", ids(got))
			}
			mustVerify(t, s)
		})
	}
}

func TestRemoveThenReAdd(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			s := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, s, redBall)
			s.LookupByNamePrefix("red", 0)
			s.LookupByCategory("Toys")

			if err := s.RemoveItem("A1"); err != nil {
				t.Fatalf("RemoveItem failed: %v", err)
			}
			replacement := models.Item{ID: "A1", Name: "Kite", PriceCents: 899, Quantity: 3, Category: "Outdoor"}
			mustAdd(t, s, replacement)

			got, ok := s.LookupByID("A1")
			if !ok {
				t.Fatal("A1 should exist")
			}
			if diff := cmp.Diff(replacement, got); diff != "" {
				t.Errorf("LookupByID mismatch (-want +got):\n%s", diff)
			}
			if got := s.LookupByNamePrefix("red", 0); len(got) != 0 {
				t.Errorf("old name still found: %v", ids(got))
			}
			if got := s.LookupByCategory("Toys"); len(got) != 0 {
				t.Errorf("old category still lists A1: %v", ids(got))
			}
			if diff := cmp.Diff([]string{"A1"}, ids(s.LookupByNamePrefix("ki", 0))); diff != "" {
				t.Errorf("prefix ki mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"A1"}, ids(s.LookupByCategory("Outdoor"))); diff != "" {
				t.Errorf("category Outdoor mismatch (-want +got):\n%s", diff)
			}
			mustVerify(t, s)
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, redBall)

	if err := s.UpdateQuantity("A1", 42); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	item, _ := s.LookupByID("A1")
	if item.Quantity != 42 {
		t.Errorf("Quantity = %d, want 42", item.Quantity)
	}

	if err := s.UpdateQuantity("A1", 0); err != nil {
		t.Errorf("zero quantity should be allowed, got %v", err)
	}

	if err := s.UpdateQuantity("A1", -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity error = %v, want ErrInvalidQuantity", err)
	}
	item, _ = s.LookupByID("A1")
	if item.Quantity != 0 {
		t.Errorf("rejected update changed quantity to %d", item.Quantity)
	}

	if err := s.UpdateQuantity("missing", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ID error = %v, want ErrNotFound", err)
	}
}

func TestUpdateQuantityVisibleThroughCache(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, redBall)
	s.LookupByNamePrefix("red", 0)
	s.LookupByCategory("Toys")

	if err := s.UpdateQuantity("A1", 1); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	if got := s.LookupByNamePrefix("red", 0)[0].Quantity; got != 1 {
		t.Errorf("prefix lookup quantity = %d, want 1", got)
	}
	if got := s.LookupByCategory("Toys")[0].Quantity; got != 1 {
		t.Errorf("category lookup quantity = %d, want 1", got)
	}
}

func TestRenameItem(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			s := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, s, redBall, redCar)

			oldName, newName := "red ball", "rubber duck"
			for i := 0; i <= len(oldName); i++ {
				s.LookupByNamePrefix(oldName[:i], 0)
			}
			for i := 0; i <= len(newName); i++ {
				s.LookupByNamePrefix(newName[:i], 0)
			}

			if err := s.RenameItem("A1", "Rubber Duck"); err != nil {
				t.Fatalf("RenameItem failed: %v", err)
			}

			for i := 1; i <= len(oldName); i++ {
				p := oldName[:i]
				got := ids(s.LookupByNamePrefix(p, 0))
				shared := len(p) <= len(newName) && newName[:len(p)] == p
				if shared != contains(got, "A1") {
					t.Errorf("prefix %q = %v, shared with new name: %v", p, got, shared)
				}
			}
			for i := 0; i <= len(newName); i++ {
				if got := ids(s.LookupByNamePrefix(newName[:i], 0)); !contains(got, "A1") {
					t.Errorf("prefix %q = %v, want A1", newName[:i], got)
				}
			}

			item, _ := s.LookupByID("A1")
			if item.Name != "Rubber Duck" {
				t.Errorf("Name = %q, want %q", item.Name, "Rubber Duck")
			}
			mustVerify(t, s)
		})
	}
}

func TestRenameItemEdgeCases(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, redBall)

	if err := s.RenameItem("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ID error = %v, want ErrNotFound", err)
	}

	before, _ := s.Fingerprint()
	if err := s.RenameItem("A1", "Red Ball"); err != nil {
		t.Errorf("same-name rename should succeed, got %v", err)
	}
	after, _ := s.Fingerprint()
	if !before.Equal(after) {
		t.Error("same-name rename must not change state")
	}

	// Case-only change keeps the trie path but updates the record
	s.LookupByNamePrefix("red", 0)
	if err := s.RenameItem("A1", "RED BALL"); err != nil {
		t.Fatalf("RenameItem failed: %v", err)
	}
	got := s.LookupByNamePrefix("red", 0)
	if len(got) != 1 || got[0].Name != "RED BALL" {
		t.Errorf("prefix red = %v, want the renamed record", got)
	}
	mustVerify(t, s)
}

func TestRecategorizeItem(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, redBall, redCar)
	s.LookupByCategory("Toys")
	s.LookupByCategory("Vehicles")
	s.LookupByCategory("Garden")

	if err := s.RecategorizeItem("missing", "Toys"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ID error = %v, want ErrNotFound", err)
	}
	if err := s.RecategorizeItem("A1", "Toys"); err != nil {
		t.Errorf("unchanged category should succeed, got %v", err)
	}

	cachedBefore := s.Stats().CachedCategories
	if err := s.RecategorizeItem("A1", "Vehicles"); err != nil {
		t.Fatalf("RecategorizeItem failed: %v", err)
	}
	// Only Toys and Vehicles are invalidated; Garden stays cached
	if got := s.Stats().CachedCategories; got != cachedBefore-2 {
		t.Errorf("CachedCategories = %d, want %d", got, cachedBefore-2)
	}

	if diff := cmp.Diff([]string{"A2"}, ids(s.LookupByCategory("Toys"))); diff != "" {
		t.Errorf("category Toys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A1"}, ids(s.LookupByCategory("Vehicles"))); diff != "" {
		t.Errorf("category Vehicles mismatch (-want +got):\n%s", diff)
	}

	if err := s.RecategorizeItem("A2", "Vehicles"); err != nil {
		t.Fatalf("RecategorizeItem failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Vehicles"}, s.ListCategories()); diff != "" {
		t.Errorf("emptied category should be dropped (-want +got):\n%s", diff)
	}
	mustVerify(t, s)
}

func TestBulkLoad(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			s := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, s, models.Item{ID: "OLD", Name: "Old Thing", Category: "Attic"})
			s.LookupByNamePrefix("old", 0)
			s.LookupByCategory("Attic")

			if err := s.BulkLoad([]models.Item{redBall, redCar, blueBall}); err != nil {
				t.Fatalf("BulkLoad failed: %v", err)
			}

			if _, ok := s.LookupByID("OLD"); ok {
				t.Error("bulk load should replace previous contents")
			}
			if got := s.LookupByNamePrefix("old", 0); len(got) != 0 {
				t.Errorf("stale cached prefix survived bulk load: %v", ids(got))
			}
			if got := s.LookupByCategory("Attic"); len(got) != 0 {
				t.Errorf("stale cached category survived bulk load: %v", ids(got))
			}
			if diff := cmp.Diff([]string{"A1", "A2"}, ids(s.LookupByNamePrefix("red", 0))); diff != "" {
				t.Errorf("prefix red mismatch (-want +got):\n%s", diff)
			}
			if s.Options().TrieMode != mode {
				t.Errorf("trie mode changed to %v", s.Options().TrieMode)
			}
			mustVerify(t, s)

			// Incremental adds and a bulk load of the same items agree
			inc := newTestStore(t, WithTrieMode(mode))
			mustAdd(t, inc, redBall, redCar, blueBall)
			a, _ := s.Fingerprint()
			b, _ := inc.Fingerprint()
			if !a.Equal(b) {
				t.Error("bulk load and incremental adds should produce identical indices")
			}
		})
	}
}

func TestBulkLoadRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, redBall)
	before, _ := s.Fingerprint()

	tests := []struct {
		name  string
		items []models.Item
		want  error
	}{
		{"duplicate", []models.Item{redCar, redCar}, ErrDuplicateIdentifier},
		{"empty id", []models.Item{redCar, {Name: "x"}}, ErrInvalidIdentifier},
		{"negative quantity", []models.Item{{ID: "Q", Quantity: -5}}, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.BulkLoad(tt.items); !errors.Is(err, tt.want) {
				t.Fatalf("BulkLoad error = %v, want %v", err, tt.want)
			}
			after, _ := s.Fingerprint()
			if !before.Equal(after) {
				t.Error("a rejected bulk load must leave the store untouched")
			}
		})
	}
}

func TestBulkLoadEmpty(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, redBall)
	if err := s.BulkLoad(nil); err != nil {
		t.Fatalf("BulkLoad(nil) failed: %v", err)
	}
	if s.Len() != 0 || len(s.ListCategories()) != 0 {
		t.Error("bulk load of nothing should empty the store")
	}
	mustVerify(t, s)
}

func TestItems(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, blueBall, redBall, redCar)
	if diff := cmp.Diff([]models.Item{redBall, redCar, blueBall}, s.Items()); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		mode    string
		want    trie.Mode
		wantErr bool
	}{
		{"node", trie.NodeStoring, false},
		{"subtree", trie.Subtree, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		cfg := config.Inventory{TrieMode: tt.mode, CategoryCacheSize: 8}
		got, err := FromConfig(&cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("FromConfig(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			continue
		}
		if err == nil && got.Options().TrieMode != tt.want {
			t.Errorf("FromConfig(%q) mode = %v, want %v", tt.mode, got.Options().TrieMode, tt.want)
		}
	}
}

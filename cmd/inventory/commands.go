package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/shruggr/inventory/inventory"
	"github.com/shruggr/inventory/kvstore"
	"github.com/shruggr/inventory/kvstore/badger"
	"github.com/shruggr/inventory/ledger"
	"github.com/shruggr/inventory/ledger/sqlite"
	"github.com/shruggr/inventory/models"
	"github.com/shruggr/inventory/pos"
	"github.com/shruggr/inventory/seed"
)

// DemoCmd walks through the sample catalog
type DemoCmd struct{}

// Run executes the demo command.
func (c *DemoCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	return runDemo(context.Background(), e)
}

func runDemo(ctx context.Context, e *env) error {
	w := e.out
	store, err := inventory.FromConfig(&e.cfg.Inventory)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	fmt.Fprintf(w, "Inventory initialized (trie mode %s)\n", store.Options().TrieMode)

	if err := store.AddItem(models.Item{ID: "SKU123", Name: "Sample Product", PriceCents: 1999, Quantity: 100, Category: "Electronics"}); err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	for _, id := range []string{"SKU1234", "SKU123"} {
		if item, ok := store.LookupByID(id); ok {
			fmt.Fprintf(w, "Lookup %s: %s\n", id, item.Name)
		} else {
			fmt.Fprintf(w, "Lookup %s: not found\n", id)
		}
	}
	fmt.Fprintf(w, "Categories: %v\n", store.ListCategories())

	for _, item := range []models.Item{
		{ID: "A1", Name: "Red Ball", PriceCents: 500, Quantity: 10, Category: "Toys"},
		{ID: "A2", Name: "Red Car", PriceCents: 1500, Quantity: 5, Category: "Toys"},
		{ID: "A3", Name: "Blue Ball", PriceCents: 700, Quantity: 8, Category: "Toys"},
	} {
		if err := store.AddItem(item); err != nil {
			return fmt.Errorf("demo: %w", err)
		}
	}

	printItems(w, `Prefix "Red"`, store.LookupByNamePrefix("Red", 0))
	printItems(w, `Prefix "b"`, store.LookupByNamePrefix("b", 0))
	printItems(w, "Category Toys", store.LookupByCategory("Toys"))

	if err := store.RecategorizeItem("A2", "Vehicles"); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	printItems(w, "Category Toys after moving A2", store.LookupByCategory("Toys"))
	printItems(w, "Category Vehicles after moving A2", store.LookupByCategory("Vehicles"))

	if err := store.RemoveItem("A1"); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	printItems(w, `Prefix "Red" after removing A1`, store.LookupByNamePrefix("Red", 0))
	printItems(w, "Category Toys after removing A1", store.LookupByCategory("Toys"))

	if err := store.RenameItem("A2", "Racing Car"); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	printItems(w, `Prefix "Red" after renaming A2`, store.LookupByNamePrefix("Red", 0))
	printItems(w, `Prefix "rac" after renaming A2`, store.LookupByNamePrefix("rac", 0))

	till := pos.New(store, nil, e.logger)
	for _, tx := range []struct {
		sale bool
		sku  string
		qty  int
	}{
		{true, "SKU123", 3},
		{true, "A2", 6},
		{false, "A3", 2},
		{false, "NOPE", 1},
	} {
		var r *pos.Receipt
		if tx.sale {
			r, err = till.ProcessSale(ctx, tx.sku, tx.qty)
		} else {
			r, err = till.ProcessReturn(ctx, tx.sku, tx.qty)
		}
		if err != nil {
			fmt.Fprintf(w, "Rejected: %v\n", err)
			continue
		}
		fmt.Fprintln(w, r)
	}

	if err := store.Verify(); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	st := store.Stats()
	fmt.Fprintf(w, "Items: %d  Categories: %d  Trie nodes: %d\n", st.Items, st.Categories, st.TrieNodes)
	return nil
}

func printItems(w io.Writer, title string, items []models.Item) {
	fmt.Fprintf(w, "%s: %d item(s)\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}

// SeedCmd generates sample items and saves them to storage
type SeedCmd struct {
	Count int    `help:"Number of items to generate." default:"1000"`
	Seed  uint64 `help:"Random seed." default:"12345"`
}

// Run executes the seed command.
func (c *SeedCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if c.Count < 0 {
		return fmt.Errorf("seed: count must be non-negative, got %d", c.Count)
	}

	kv, err := e.openStorage()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer kv.Close()

	ctx := context.Background()
	items := seed.Generate(c.Count, rand.New(rand.NewPCG(c.Seed, c.Seed)))
	if err := seed.Save(ctx, kv, items); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if db, ok := kv.(*badger.Store); ok {
		if err := db.RunGC(0.5); err != nil {
			e.logger.Warn("Value log GC failed", "error", err)
		}
	}
	if e.cfg.Storage.Type == "memory" {
		e.logger.Warn("Memory storage does not outlive this process")
	}

	e.logger.Info("Seeded catalog", "items", len(items), "storage", e.cfg.Storage.Type)
	fmt.Fprintf(e.out, "Saved %d items\n", len(items))
	return nil
}

// SearchCmd finds items by name prefix
type SearchCmd struct {
	Prefix string `arg:"" help:"Name prefix (case-insensitive)."`
	Limit  int    `help:"Maximum number of results (0 for all)." default:"50"`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return e.withStore(func(ctx context.Context, kv kvstore.KVStore, store *inventory.Store) error {
		printItems(e.out, fmt.Sprintf("Prefix %q", c.Prefix), store.LookupByNamePrefix(c.Prefix, c.Limit))
		return nil
	})
}

// CategoryCmd lists a category
type CategoryCmd struct {
	Name string `arg:"" help:"Category name (case-sensitive)."`
}

// Run executes the category command.
func (c *CategoryCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("category: %w", err)
	}
	return e.withStore(func(ctx context.Context, kv kvstore.KVStore, store *inventory.Store) error {
		printItems(e.out, "Category "+c.Name, store.LookupByCategory(c.Name))
		return nil
	})
}

// CategoriesCmd lists every category
type CategoriesCmd struct{}

// Run executes the categories command.
func (c *CategoriesCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	return e.withStore(func(ctx context.Context, kv kvstore.KVStore, store *inventory.Store) error {
		for _, name := range store.ListCategories() {
			fmt.Fprintf(e.out, "%s\t%d\n", name, len(store.LookupByCategory(name)))
		}
		return nil
	})
}

// withStore opens storage, loads the snapshot and runs fn against it
func (e *env) withStore(fn func(ctx context.Context, kv kvstore.KVStore, store *inventory.Store) error) error {
	ctx := context.Background()
	kv, err := e.openStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	store, err := e.loadStore(ctx, kv)
	if err != nil {
		return err
	}
	return fn(ctx, kv, store)
}

// SellCmd sells units of an item
type SellCmd struct {
	SKU      string `arg:"" help:"Item SKU."`
	Quantity int    `arg:"" help:"Units to sell."`
}

// Run executes the sell command.
func (c *SellCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("sell: %w", err)
	}
	if err := e.transact(ledger.KindSale, c.SKU, c.Quantity); err != nil {
		return fmt.Errorf("sell: %w", err)
	}
	return nil
}

// ReturnCmd returns units of an item
type ReturnCmd struct {
	SKU      string `arg:"" help:"Item SKU."`
	Quantity int    `arg:"" help:"Units to return."`
}

// Run executes the return command.
func (c *ReturnCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("return: %w", err)
	}
	if err := e.transact(ledger.KindReturn, c.SKU, c.Quantity); err != nil {
		return fmt.Errorf("return: %w", err)
	}
	return nil
}

func (e *env) openLedger() (*sqlite.Store, error) {
	path := e.cfg.Ledger.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	return sqlite.New(&sqlite.Config{DBPath: path})
}

// transact runs one POS transaction against the saved catalog
func (e *env) transact(kind ledger.Kind, sku string, qty int) error {
	l, err := e.openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	return e.withStore(func(ctx context.Context, kv kvstore.KVStore, store *inventory.Store) error {
		return e.runTransaction(ctx, kv, store, l, kind, sku, qty)
	})
}

func (e *env) runTransaction(ctx context.Context, kv kvstore.KVStore, store *inventory.Store, l ledger.Ledger, kind ledger.Kind, sku string, qty int) error {
	till := pos.New(&snapshotInventory{ctx: ctx, store: store, kv: kv}, l, e.logger)

	var r *pos.Receipt
	var err error
	if kind == ledger.KindSale {
		r, err = till.ProcessSale(ctx, sku, qty)
	} else {
		r, err = till.ProcessReturn(ctx, sku, qty)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(e.out, r)
	fmt.Fprintf(e.out, "Remaining stock: %d\n", r.Remaining)
	return nil
}

// snapshotInventory writes every quantity change through to the snapshot
// store, so the saved catalog is updated before the ledger entry is appended
// and the adapter's rollback restores it too
type snapshotInventory struct {
	ctx   context.Context
	store *inventory.Store
	kv    kvstore.KVStore
}

var _ pos.Inventory = (*snapshotInventory)(nil)

// LookupByID reads from the loaded store
func (s *snapshotInventory) LookupByID(id string) (models.Item, bool) {
	return s.store.LookupByID(id)
}

// UpdateQuantity updates the store and then the saved record. If the save
// fails the store keeps its previous quantity.
func (s *snapshotInventory) UpdateQuantity(id string, quantity int) error {
	prev, ok := s.store.LookupByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", inventory.ErrNotFound, id)
	}
	if err := s.store.UpdateQuantity(id, quantity); err != nil {
		return err
	}

	item, _ := s.store.LookupByID(id)
	if err := seed.Put(s.ctx, s.kv, item); err != nil {
		if rbErr := s.store.UpdateQuantity(id, prev.Quantity); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

// LedgerCmd shows recorded transactions
type LedgerCmd struct {
	SKU string `help:"Only show entries for this SKU."`
}

// Run executes the ledger command.
func (c *LedgerCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	l, err := e.openLedger()
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	defer l.Close()

	if err := printLedger(context.Background(), e.out, l, c.SKU); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	return nil
}

func printLedger(ctx context.Context, w io.Writer, l ledger.Ledger, sku string) error {
	entries, err := l.List(ctx, sku)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%-6s\t%d x %s\t%s\n",
			entry.ID,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.SKU,
			entry.Kind,
			entry.Quantity,
			models.FormatCents(entry.UnitPriceCents),
			models.FormatCents(entry.TotalCents))
	}

	sum, err := l.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Transactions: %d  Sold: %d  Returned: %d  Net: %s\n",
		sum.Transactions, sum.UnitsSold, sum.UnitsReturned, models.FormatCents(sum.NetCents()))
	return nil
}

// VerifyCmd checks the loaded catalog
type VerifyCmd struct{}

// Run executes the verify command.
func (c *VerifyCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	err = e.withStore(func(ctx context.Context, kv kvstore.KVStore, store *inventory.Store) error {
		if err := store.Verify(); err != nil {
			return err
		}
		digest, err := store.Fingerprint()
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "OK: %d items, fingerprint %s\n", store.Len(), digest)
		return nil
	})
	if errors.Is(err, inventory.ErrInconsistent) {
		e.logger.Error("Catalog indices disagree", "error", err)
	}
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shruggr/inventory/ledger"
)

var _ ledger.Ledger = (*Store)(nil)

// Store is a SQLite-backed implementation of ledger.Ledger
type Store struct {
	db *sql.DB
}

// Config holds configuration for SQLite
type Config struct {
	DBPath string // Path to SQLite database file, or ":memory:"
}

// New creates a new SQLite-backed ledger
func New(config *Config) (*Store, error) {
	if config.DBPath == "" {
		return nil, fmt.Errorf("DBPath is required")
	}

	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// Every connection to ":memory:" opens its own database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		sku              TEXT NOT NULL,
		kind             TEXT NOT NULL CHECK (kind IN ('sale', 'return')),
		quantity         INTEGER NOT NULL CHECK (quantity > 0),
		unit_price_cents INTEGER NOT NULL,
		total_cents      INTEGER NOT NULL,
		created_at       INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_sku ON transactions(sku, id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record appends an entry and sets its ID
func (s *Store) Record(ctx context.Context, entry *ledger.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (sku, kind, quantity, unit_price_cents, total_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.SKU, string(entry.Kind), entry.Quantity, entry.UnitPriceCents, entry.TotalCents,
		entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns the entries for a SKU in insertion order, or every entry if sku is empty
func (s *Store) List(ctx context.Context, sku string) ([]*ledger.Entry, error) {
	query := `SELECT id, sku, kind, quantity, unit_price_cents, total_cents, created_at
		 FROM transactions`
	var args []any
	if sku != "" {
		query += ` WHERE sku = ?`
		args = append(args, sku)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		var kind string
		var createdAt int64

		err := rows.Scan(&entry.ID, &entry.SKU, &kind, &entry.Quantity,
			&entry.UnitPriceCents, &entry.TotalCents, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		entry.Kind = ledger.Kind(kind)
		entry.CreatedAt = time.Unix(0, createdAt)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return entries, nil
}

// Summary aggregates all entries
func (s *Store) Summary(ctx context.Context) (*ledger.Summary, error) {
	var sum ledger.Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN kind = 'sale' THEN quantity END), 0),
			COALESCE(SUM(CASE WHEN kind = 'return' THEN quantity END), 0),
			COALESCE(SUM(CASE WHEN kind = 'sale' THEN total_cents END), 0),
			COALESCE(SUM(CASE WHEN kind = 'return' THEN total_cents END), 0)
		 FROM transactions`,
	).Scan(&sum.Transactions, &sum.UnitsSold, &sum.UnitsReturned, &sum.SalesCents, &sum.ReturnsCents)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return &sum, nil
}

// Close releases all database resources
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

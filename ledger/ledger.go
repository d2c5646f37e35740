package ledger

import (
	"context"
	"time"
)

// Kind distinguishes sales from returns
type Kind string

const (
	KindSale   Kind = "sale"
	KindReturn Kind = "return"
)

// Entry is one completed point-of-sale transaction
type Entry struct {
	ID             int64
	SKU            string
	Kind           Kind
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
	CreatedAt      time.Time
}

// Summary aggregates the whole ledger
type Summary struct {
	Transactions  int
	UnitsSold     int
	UnitsReturned int
	SalesCents    int64
	ReturnsCents  int64
}

// NetCents is sales minus refunds
func (s *Summary) NetCents() int64 {
	return s.SalesCents - s.ReturnsCents
}

// Ledger defines the interface for recording point-of-sale transactions
// Implementations use SQLite or other relational databases
type Ledger interface {
	// Record appends an entry and sets its ID
	Record(ctx context.Context, entry *Entry) error

	// List returns the entries for a SKU in insertion order, or every entry if sku is empty
	List(ctx context.Context, sku string) ([]*Entry, error)

	// Summary aggregates all entries
	Summary(ctx context.Context) (*Summary, error)

	// Close releases any resources
	Close() error
}

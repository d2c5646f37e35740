// Package pos records sales and returns against an inventory.
//
// The adapter is an external consumer of the catalog: it reads an item by
// SKU, does the quantity arithmetic itself and writes the new quantity back.
// Completed transactions are appended to a ledger.
package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shruggr/inventory/inventory"
	"github.com/shruggr/inventory/ledger"
	"github.com/shruggr/inventory/models"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
)

var (
	_ Inventory = (*inventory.Store)(nil)
	_ Inventory = (*inventory.Locked)(nil)
)

// Inventory is the part of the catalog the adapter needs
type Inventory interface {
	LookupByID(id string) (models.Item, bool)
	UpdateQuantity(id string, quantity int) error
}

// Receipt describes a completed transaction
type Receipt struct {
	Kind           ledger.Kind
	SKU            string
	Name           string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
	Remaining      int
	EntryID        int64
}

// String renders the receipt the way a till would print it
func (r *Receipt) String() string {
	if r.Kind == ledger.KindReturn {
		return fmt.Sprintf("Return processed for %d units of %s. Total refund: %s",
			r.Quantity, r.Name, models.FormatCents(r.TotalCents))
	}
	return fmt.Sprintf("Sale processed for %d units of %s. Total price: %s",
		r.Quantity, r.Name, models.FormatCents(r.TotalCents))
}

// Adapter processes point-of-sale transactions
type Adapter struct {
	inv    Inventory
	ledger ledger.Ledger
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// New creates an Adapter. A nil ledger skips recording; a nil logger uses
// slog.Default().
func New(inv Inventory, l ledger.Ledger, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		inv:    inv,
		ledger: l,
		logger: logger,
		now:    time.Now,
	}
}

// ProcessSale takes qty units of sku out of stock
func (a *Adapter) ProcessSale(ctx context.Context, sku string, qty int) (*Receipt, error) {
	return a.process(ctx, ledger.KindSale, sku, qty)
}

// ProcessReturn puts qty units of sku back into stock
func (a *Adapter) ProcessReturn(ctx context.Context, sku string, qty int) (*Receipt, error) {
	return a.process(ctx, ledger.KindReturn, sku, qty)
}

func (a *Adapter) process(ctx context.Context, kind ledger.Kind, sku string, qty int) (*Receipt, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}

	// Lookup and update must not interleave with another transaction
	a.mu.Lock()
	defer a.mu.Unlock()

	item, ok := a.inv.LookupByID(sku)
	if !ok {
		a.logger.Warn("Unknown SKU", "kind", kind, "sku", sku)
		return nil, fmt.Errorf("%w: %s", inventory.ErrNotFound, sku)
	}

	remaining := item.Quantity + qty
	if kind == ledger.KindSale {
		if item.Quantity < qty {
			a.logger.Warn("Insufficient stock", "sku", sku, "name", item.Name,
				"available", item.Quantity, "requested", qty)
			return nil, fmt.Errorf("%w for %s: available %d, requested %d",
				ErrInsufficientStock, item.Name, item.Quantity, qty)
		}
		remaining = item.Quantity - qty
	}

	if err := a.inv.UpdateQuantity(sku, remaining); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	receipt := &Receipt{
		Kind:           kind,
		SKU:            sku,
		Name:           item.Name,
		Quantity:       qty,
		UnitPriceCents: item.PriceCents,
		TotalCents:     item.Total(qty),
		Remaining:      remaining,
	}

	if a.ledger != nil {
		entry := &ledger.Entry{
			SKU:            sku,
			Kind:           kind,
			Quantity:       qty,
			UnitPriceCents: item.PriceCents,
			TotalCents:     receipt.TotalCents,
			CreatedAt:      a.now(),
		}
		if err := a.ledger.Record(ctx, entry); err != nil {
			if rbErr := a.inv.UpdateQuantity(sku, item.Quantity); rbErr != nil {
				a.logger.Error("Failed to restore quantity", "sku", sku, "error", rbErr)
			}
			return nil, fmt.Errorf("failed to record transaction: %w", err)
		}
		receipt.EntryID = entry.ID
	}

	a.logger.Info("Transaction processed",
		"kind", kind,
		"sku", sku,
		"quantity", qty,
		"total", models.FormatCents(receipt.TotalCents),
		"remaining", remaining)

	return receipt, nil
}

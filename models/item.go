package models

import (
	"fmt"
	"strings"
)

// Item is a single catalog entry keyed by its SKU
type Item struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Category   string `json:"category"`
}

// NormalizeName folds a name or prefix into the form used as a trie key
func NormalizeName(s string) string {
	return strings.ToLower(s)
}

// NormalizedName returns the item's name in trie key form
func (i Item) NormalizedName() string {
	return NormalizeName(i.Name)
}

// Total returns the price of qty units in cents
func (i Item) Total(qty int) int64 {
	return i.PriceCents * int64(qty)
}

// FormatCents renders an amount in cents as dollars, e.g. 1999 -> "$19.99"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// String implements fmt.Stringer
func (i Item) String() string {
	return fmt.Sprintf("%s %q %s x%d [%s]", i.ID, i.Name, FormatCents(i.PriceCents), i.Quantity, i.Category)
}

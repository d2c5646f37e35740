// Package seed produces sample catalogs and snapshots them to a key-value
// store so separate CLI invocations can bulk-load the same items.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/shruggr/inventory/models"
)

// Categories are the sample categories items are spread across
var Categories = []string{"Electronics", "Books", "Home", "Garden", "Toys", "Clothing"}

const (
	minWords    = 2
	maxWords    = 4
	minWordLen  = 3
	maxWordLen  = 10
	minPrice    = 500    // $5.00
	maxPrice    = 200000 // $2000.00
	maxQuantity = 1000
	letters     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// SKU formats the n-th sample identifier
func SKU(n int) string {
	return fmt.Sprintf("SKU%09d", n)
}

// Generate returns n sample items with IDs SKU000000000 onwards
func Generate(n int, rng *rand.Rand) []models.Item {
	items := make([]models.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.Item{
			ID:         SKU(i),
			Name:       randomName(rng),
			PriceCents: minPrice + rng.Int64N(maxPrice-minPrice+1),
			Quantity:   rng.IntN(maxQuantity + 1),
			Category:   Categories[rng.IntN(len(Categories))],
		})
	}
	return items
}

func randomName(rng *rand.Rand) string {
	words := minWords + rng.IntN(maxWords-minWords+1)
	parts := make([]string, words)
	for i := range parts {
		parts[i] = randomWord(rng)
	}
	return strings.Join(parts, " ")
}

func randomWord(rng *rand.Rand) string {
	n := minWordLen + rng.IntN(maxWordLen-minWordLen+1)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(letters[rng.IntN(len(letters))])
	}
	return b.String()
}

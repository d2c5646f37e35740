package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/shruggr/inventory/inventory"
	"github.com/shruggr/inventory/seed"
	"github.com/shruggr/inventory/trie"
)

const benchLimit = 50

var benchHeader = []string{"N", "mode", "build_time_s", "heap_mb", "alloc_mb", "cold_lookup_s", "hot_lookup_s", "found"}

// BenchCmd measures both trie modes over generated catalogs
type BenchCmd struct {
	Sizes []int  `help:"Catalog sizes to measure." default:"1000,5000,20000,50000"`
	Out   string `help:"CSV output file ('-' for stdout)." default:"-"`
	Seed  uint64 `help:"Random seed." default:"12345"`
}

// benchRow is one measurement
type benchRow struct {
	N          int
	Mode       trie.Mode
	Build      time.Duration
	HeapBytes  int64
	AllocBytes uint64
	Cold       time.Duration
	Hot        time.Duration
	Found      int
}

func (r benchRow) record() []string {
	const mb = 1024 * 1024
	return []string{
		strconv.Itoa(r.N),
		r.Mode.String(),
		strconv.FormatFloat(r.Build.Seconds(), 'f', 6, 64),
		strconv.FormatFloat(float64(r.HeapBytes)/mb, 'f', 3, 64),
		strconv.FormatFloat(float64(r.AllocBytes)/mb, 'f', 3, 64),
		strconv.FormatFloat(r.Cold.Seconds(), 'f', 9, 64),
		strconv.FormatFloat(r.Hot.Seconds(), 'f', 9, 64),
		strconv.Itoa(r.Found),
	}
}

// Run executes the bench command.
func (c *BenchCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	w := e.out
	if c.Out != "-" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("bench: failed to create %s: %w", c.Out, err)
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(benchHeader); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	for _, n := range c.Sizes {
		for _, mode := range []trie.Mode{trie.NodeStoring, trie.Subtree} {
			e.logger.Info("Running benchmark", "N", n, "mode", mode)
			row, err := measure(n, mode, c.Seed, e.cfg.Inventory.Prune)
			if err != nil {
				return fmt.Errorf("bench: %w", err)
			}
			if err := cw.Write(row.record()); err != nil {
				return fmt.Errorf("bench: %w", err)
			}
			cw.Flush()
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	if c.Out != "-" {
		fmt.Fprintf(e.out, "Wrote %s\n", c.Out)
	}
	return nil
}

// measure bulk-loads n generated items into a fresh store and times one cold
// and one hot prefix lookup for the first letter of the first item's name
func measure(n int, mode trie.Mode, seedVal uint64, prune bool) (benchRow, error) {
	items := seed.Generate(n, rand.New(rand.NewPCG(seedVal, seedVal)))
	row := benchRow{N: n, Mode: mode}

	store, err := inventory.New(inventory.WithTrieMode(mode), inventory.WithPruning(prune))
	if err != nil {
		return row, err
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	if err := store.BulkLoad(items); err != nil {
		return row, err
	}
	row.Build = time.Since(start)

	runtime.ReadMemStats(&after)
	row.HeapBytes = int64(after.HeapAlloc) - int64(before.HeapAlloc)
	row.AllocBytes = after.TotalAlloc - before.TotalAlloc

	prefix := ""
	if len(items) > 0 {
		r, _ := utf8.DecodeRuneInString(items[0].Name)
		prefix = string(r)
	}

	start = time.Now()
	found := store.LookupByNamePrefix(prefix, benchLimit)
	row.Cold = time.Since(start)

	start = time.Now()
	store.LookupByNamePrefix(prefix, benchLimit)
	row.Hot = time.Since(start)

	row.Found = len(found)
	runtime.KeepAlive(store)
	return row, nil
}

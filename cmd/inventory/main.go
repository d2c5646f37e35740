package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shruggr/inventory/config"
	"github.com/shruggr/inventory/inventory"
	"github.com/shruggr/inventory/kvstore"
	"github.com/shruggr/inventory/kvstore/badger"
	"github.com/shruggr/inventory/kvstore/memory"
	"github.com/shruggr/inventory/pos"
	"github.com/shruggr/inventory/seed"
)

var version = "dev"

const (
	exitSuccess  = 0
	exitError    = 1
	exitRejected = 2
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `help:"Path to the YAML config file." default:"inventory.yaml" type:"path"`
	LogLevel string `help:"Log level: debug, info, warn, error (overrides the config file)."`
	TrieMode string `help:"Trie mode: node or subtree (overrides the config file)."`
	Storage  string `help:"Snapshot storage: memory or badger (overrides the config file)."`

	out io.Writer `kong:"-"`
}

// CLI is the top-level command structure
type CLI struct {
	Globals

	Version      kong.VersionFlag `help:"Show version." short:"V"`
	Demo         DemoCmd          `cmd:"" help:"Run the sample catalog walkthrough."`
	Seed         SeedCmd          `cmd:"" help:"Generate sample items and save them to storage."`
	Search       SearchCmd        `cmd:"" help:"Find items whose name starts with a prefix."`
	Category     CategoryCmd      `cmd:"" help:"List the items in a category."`
	Categories   CategoriesCmd    `cmd:"" help:"List every category."`
	Sell         SellCmd          `cmd:"" help:"Sell units of an item."`
	Return       ReturnCmd        `cmd:"" help:"Return units of an item."`
	Ledger       LedgerCmd        `cmd:"" help:"Show recorded sales and returns."`
	Verify       VerifyCmd        `cmd:"" help:"Check index consistency and print the catalog fingerprint."`
	Bench        BenchCmd         `cmd:"" help:"Measure bulk load and prefix lookup for both trie modes."`
	ServeMetrics ServeMetricsCmd  `cmd:"" help:"Serve catalog queries and Prometheus metrics."`
}

func (g *Globals) stdout() io.Writer {
	if g.out != nil {
		return g.out
	}
	return os.Stdout
}

// loadConfig reads the config file and applies environment and flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.TrieMode != "" {
		cfg.Inventory.TrieMode = g.TrieMode
	}
	if g.Storage != "" {
		cfg.Storage.Type = g.Storage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: l,
	}))
}

// env is what a command needs once config is resolved
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func (g *Globals) setup() (*env, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	return &env{cfg: cfg, logger: logger, out: g.stdout()}, nil
}

// openStorage opens the configured snapshot store
func (e *env) openStorage() (kvstore.KVStore, error) {
	switch e.cfg.Storage.Type {
	case "memory":
		e.logger.Debug("Using in-memory storage")
		return memory.New(), nil
	case "badger":
		e.logger.Debug("Using BadgerDB storage", "dir", e.cfg.Storage.DataDir)
		store, err := badger.New(&badger.Config{
			DataDir: e.cfg.Storage.DataDir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize BadgerDB: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s (use 'memory' or 'badger')", e.cfg.Storage.Type)
	}
}

// loadStore builds a Store from the configured options and bulk-loads the
// saved snapshot into it
func (e *env) loadStore(ctx context.Context, kv kvstore.KVStore) (*inventory.Store, error) {
	store, err := inventory.FromConfig(&e.cfg.Inventory)
	if err != nil {
		return nil, err
	}
	items, err := seed.Load(ctx, kv)
	if err != nil {
		return nil, err
	}
	if err := store.BulkLoad(items); err != nil {
		return nil, fmt.Errorf("failed to bulk load snapshot: %w", err)
	}
	e.logger.Debug("Loaded catalog",
		"items", len(items),
		"trie_mode", store.Options().TrieMode,
		"prune", store.Options().Prune)
	if len(items) == 0 {
		e.logger.Warn("Catalog is empty; run 'inventory seed' first", "storage", e.cfg.Storage.Type)
	}
	return store, nil
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, inventory.ErrNotFound) ||
		errors.Is(err, pos.ErrInsufficientStock) ||
		errors.Is(err, pos.ErrInvalidQuantity) {
		return exitRejected
	}
	return exitError
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("inventory"),
		kong.Description("In-memory multi-index inventory catalog."),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// Package config loads the YAML settings file with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shruggr/inventory/trie"
	"gopkg.in/yaml.v3"
)

// Config holds all inventory settings
type Config struct {
	Inventory Inventory `yaml:"inventory"`
	Storage   Storage   `yaml:"storage"`
	Ledger    Ledger    `yaml:"ledger"`
	Log       Log       `yaml:"log"`
}

// Inventory holds store construction settings
type Inventory struct {
	TrieMode          string `yaml:"trie_mode"`           // "node" | "subtree"
	Prune             bool   `yaml:"prune"`               // Detach emptied trie branches on delete
	CategoryCacheSize int    `yaml:"category_cache_size"` // LRU capacity of the category cache
}

// Storage holds the seed snapshot backend settings
type Storage struct {
	Type    string `yaml:"type"`     // "memory" | "badger"
	DataDir string `yaml:"data_dir"` // BadgerDB directory
}

// Ledger holds sales ledger settings
type Ledger struct {
	Path string `yaml:"path"` // SQLite file, or ":memory:"
}

// Log holds logging settings
type Log struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Inventory: Inventory{
			TrieMode:          "node",
			CategoryCacheSize: 1024,
		},
		Storage: Storage{
			Type:    "badger",
			DataDir: "./data",
		},
		Ledger: Ledger{
			Path: "./data/ledger.db",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads a YAML config file at path. A missing or empty file yields the
// defaults; unknown fields are an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks that config values are usable
func (c *Config) Validate() error {
	if _, err := trie.ParseMode(c.Inventory.TrieMode); err != nil {
		return fmt.Errorf("config: inventory.trie_mode: %w", err)
	}
	if c.Inventory.CategoryCacheSize < 0 {
		return fmt.Errorf("config: inventory.category_cache_size must be non-negative, got %d", c.Inventory.CategoryCacheSize)
	}
	switch c.Storage.Type {
	case "memory":
	case "badger":
		if c.Storage.DataDir == "" {
			return errors.New("config: storage.data_dir cannot be empty for badger storage")
		}
	default:
		return fmt.Errorf("config: storage.type must be \"memory\" or \"badger\", got %q", c.Storage.Type)
	}
	if c.Ledger.Path == "" {
		return errors.New("config: ledger.path cannot be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: INVENTORY_TRIE_MODE, INVENTORY_PRUNE,
// INVENTORY_STORAGE, INVENTORY_DATA_DIR, INVENTORY_LEDGER_PATH,
// INVENTORY_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("INVENTORY_TRIE_MODE"); v != "" {
		c.Inventory.TrieMode = v
	}
	if v := os.Getenv("INVENTORY_PRUNE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid INVENTORY_PRUNE %q: %w", v, err)
		}
		c.Inventory.Prune = b
	}
	if v := os.Getenv("INVENTORY_STORAGE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("INVENTORY_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("INVENTORY_LEDGER_PATH"); v != "" {
		c.Ledger.Path = v
	}
	if v := os.Getenv("INVENTORY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

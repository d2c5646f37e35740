package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shruggr/inventory/inventory"
	"github.com/shruggr/inventory/kvstore"
	"github.com/shruggr/inventory/metrics"
)

// ServeMetricsCmd loads the catalog and serves queries and /metrics
type ServeMetricsCmd struct {
	Addr string `help:"Listen address." default:":9090"`
}

// Run executes the serve-metrics command.
func (c *ServeMetricsCmd) Run(g *Globals) error {
	e, err := g.setup()
	if err != nil {
		return fmt.Errorf("serve-metrics: %w", err)
	}

	err = e.withStore(func(ctx context.Context, kv kvstore.KVStore, store *inventory.Store) error {
		locked := inventory.NewLocked(store)
		srv := &http.Server{
			Addr:              c.Addr,
			Handler:           newServeHandler(locked, store.Options()),
			ReadHeaderTimeout: 5 * time.Second,
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		errCh := make(chan error, 1)
		go func() {
			e.logger.Info("Serving metrics", "addr", c.Addr, "items", locked.Len())
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sigCh:
			e.logger.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	})
	if err != nil {
		return fmt.Errorf("serve-metrics: %w", err)
	}
	return nil
}

// newServeHandler serves read-only catalog queries and /metrics. Every query
// goes through locked, so concurrent requests share the caches safely and the
// hit/miss counters reflect real traffic.
func newServeHandler(locked *inventory.Locked, opts inventory.Options) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		metrics.NewCollector(locked, prometheus.Labels{"trie_mode": opts.TrieMode.String()}),
		collectors.NewGoCollector(),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		item, ok := locked.LookupByID(r.PathValue("id"))
		if !ok {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		writeJSON(w, item)
	})
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		writeJSON(w, locked.LookupByNamePrefix(r.URL.Query().Get("prefix"), limit))
	})
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, locked.ListCategories())
	})
	mux.HandleFunc("GET /categories/{name}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, locked.LookupByCategory(r.PathValue("name")))
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// Package metrics exposes catalog statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shruggr/inventory/inventory"
)

const namespace = "inventory"

// Source is anything that can report catalog statistics
type Source interface {
	Stats() inventory.Stats
}

// Collector turns a Source's Stats into metrics on every scrape
type Collector struct {
	source Source

	items         *prometheus.Desc
	categories    *prometheus.Desc
	trieNodes     *prometheus.Desc
	cacheEntries  *prometheus.Desc
	cacheLookups  *prometheus.Desc
	cacheHitRatio *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector. constLabels are attached to every metric,
// e.g. the trie mode.
func NewCollector(source Source, constLabels prometheus.Labels) *Collector {
	return &Collector{
		source: source,
		items: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "items"),
			"Number of items in the catalog",
			nil, constLabels),
		categories: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "categories"),
			"Number of non-empty categories",
			nil, constLabels),
		trieNodes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "trie", "nodes"),
			"Number of nodes in the name trie",
			nil, constLabels),
		cacheEntries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Number of cached query results",
			[]string{"cache"}, constLabels),
		cacheLookups: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "lookups_total"),
			"Total number of cached query lookups by result",
			[]string{"cache", "result"}, constLabels),
		cacheHitRatio: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "hit_ratio"),
			"Fraction of lookups answered from the cache",
			[]string{"cache"}, constLabels),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.items
	ch <- c.categories
	ch <- c.trieNodes
	ch <- c.cacheEntries
	ch <- c.cacheLookups
	ch <- c.cacheHitRatio
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(st.Items))
	ch <- prometheus.MustNewConstMetric(c.categories, prometheus.GaugeValue, float64(st.Categories))
	ch <- prometheus.MustNewConstMetric(c.trieNodes, prometheus.GaugeValue, float64(st.TrieNodes))

	ch <- prometheus.MustNewConstMetric(c.cacheEntries, prometheus.GaugeValue, float64(st.CachedPrefixes), "prefix")
	ch <- prometheus.MustNewConstMetric(c.cacheEntries, prometheus.GaugeValue, float64(st.CachedCategories), "category")

	ch <- prometheus.MustNewConstMetric(c.cacheLookups, prometheus.CounterValue, float64(st.PrefixHits), "prefix", "hit")
	ch <- prometheus.MustNewConstMetric(c.cacheLookups, prometheus.CounterValue, float64(st.PrefixMisses), "prefix", "miss")
	ch <- prometheus.MustNewConstMetric(c.cacheLookups, prometheus.CounterValue, float64(st.CategoryHits), "category", "hit")
	ch <- prometheus.MustNewConstMetric(c.cacheLookups, prometheus.CounterValue, float64(st.CategoryMisses), "category", "miss")

	ch <- prometheus.MustNewConstMetric(c.cacheHitRatio, prometheus.GaugeValue, st.PrefixHitRatio(), "prefix")
	ch <- prometheus.MustNewConstMetric(c.cacheHitRatio, prometheus.GaugeValue, st.CategoryHitRatio(), "category")
}

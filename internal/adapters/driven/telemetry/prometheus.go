// Package telemetry provides driven.Telemetry implementations.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

const namespace = "relevance"

// Prometheus records telemetry as Prometheus metrics.
type Prometheus struct {
	gatherer prometheus.Gatherer

	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchResults  *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	indexedRecords *prometheus.CounterVec
	indexDuration  *prometheus.HistogramVec
	contextsServed *prometheus.CounterVec
}

var _ driven.Telemetry = (*Prometheus)(nil)

// NewPrometheus registers the engine's metrics with reg.
// A nil reg uses a fresh registry.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Prometheus{
		gatherer: reg,
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Searches served, by ranking path.",
			},
			[]string{"path"},
		),
		searchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Time to rank a search, by ranking path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		searchResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of results returned per search.",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
			},
			[]string{"path"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_cache_lookups_total",
				Help:      "Search cache lookups, by result.",
			},
			[]string{"result"},
		),
		indexedRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "indexed_records_total",
				Help:      "Records processed by the indexer, by content type and outcome.",
			},
			[]string{"content_type", "outcome"},
		),
		indexDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_duration_seconds",
				Help:      "Time to index one content type.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"content_type"},
		),
		contextsServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contexts_served_total",
				Help:      "Assembled contexts, by the tier that produced them.",
			},
			[]string{"tier"},
		),
	}
}

// SearchServed implements driven.Telemetry.
func (p *Prometheus) SearchServed(path domain.RankingPath, results int, elapsed time.Duration) {
	p.searches.WithLabelValues(string(path)).Inc()
	p.searchDuration.WithLabelValues(string(path)).Observe(elapsed.Seconds())
	p.searchResults.WithLabelValues(string(path)).Observe(float64(results))
}

// CacheLookup implements driven.Telemetry.
func (p *Prometheus) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

// IndexCompleted implements driven.Telemetry.
func (p *Prometheus) IndexCompleted(contentType domain.ContentType, stats domain.IndexStats, elapsed time.Duration) {
	ct := string(contentType)
	p.indexedRecords.WithLabelValues(ct, "indexed").Add(float64(stats.Indexed))
	p.indexedRecords.WithLabelValues(ct, "updated").Add(float64(stats.Updated))
	p.indexedRecords.WithLabelValues(ct, "error").Add(float64(stats.Errors))
	p.indexedRecords.WithLabelValues(ct, "deleted").Add(float64(stats.Deleted))
	p.indexDuration.WithLabelValues(ct).Observe(elapsed.Seconds())
}

// ContextServed implements driven.Telemetry.
func (p *Prometheus) ContextServed(tier string) {
	p.contextsServed.WithLabelValues(tier).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

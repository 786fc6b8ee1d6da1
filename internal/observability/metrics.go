// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IdentityResolutions counts identity upserts by provider and outcome.
	IdentityResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashdeck_identity_resolutions_total",
		Help: "Identity resolutions by provider and result",
	}, []string{"provider", "result"})

	// DeckMutations counts deck writes by operation.
	DeckMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashdeck_deck_mutations_total",
		Help: "Deck create/update/delete operations",
	}, []string{"operation"})

	// CardMutations counts card writes by operation.
	CardMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashdeck_card_mutations_total",
		Help: "Card create/update/delete/replace operations",
	}, []string{"operation"})

	// CardReplaceSize records the number of cards submitted per bulk replace.
	CardReplaceSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flashdeck_card_replace_size",
		Help:    "Cards submitted per bulk replace",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})

	// AuthorizationDenials counts guard rejections by rule.
	AuthorizationDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashdeck_authorization_denials_total",
		Help: "Requests rejected by the deck authorization guard",
	}, []string{"rule"})

	// CacheLookups counts cache-aside lookups by cache name and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashdeck_cache_lookups_total",
		Help: "Cache lookups by cache and result (hit, miss, error)",
	}, []string{"cache", "result"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashdeck_redis_errors_total",
		Help: "Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flashdeck_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// TriviaUpstreamRequests counts calls to the trivia provider by outcome.
	TriviaUpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashdeck_trivia_upstream_requests_total",
		Help: "Open Trivia DB requests by result",
	}, []string{"result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

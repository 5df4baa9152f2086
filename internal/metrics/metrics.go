package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the service-specific Prometheus collectors
type Metrics struct {
	TrendQueries    *prometheus.CounterVec   // trend queries by variant and status
	QueryDuration   *prometheus.HistogramVec // trend query duration by variant
	ScoreRecomputes *prometheus.CounterVec   // score recomputations by status
	Interactions    *prometheus.CounterVec   // interaction mutations by kind and action
	CacheEvents     *prometheus.CounterVec   // trend cache hits/misses/stores
}

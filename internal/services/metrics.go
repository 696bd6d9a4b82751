package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the ledger service collectors.
type Metrics struct {
	EngineDuration  *prometheus.HistogramVec
	CacheRequests   *prometheus.CounterVec
	Overrides       *prometheus.CounterVec
	RecordWrites    *prometheus.CounterVec
	ChangePublishes *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EngineDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gigledger",
			Name:      "engine_duration_seconds",
			Help:      "Time spent loading a snapshot and running one engine computation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"operation"}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigledger",
			Name:      "summary_cache_requests_total",
			Help:      "Month summary cache lookups by result.",
		}, []string{"result"}),
		Overrides: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigledger",
			Name:      "overrides_total",
			Help:      "Override requests by applied action.",
		}, []string{"action"}),
		RecordWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigledger",
			Name:      "record_writes_total",
			Help:      "Saved or deleted ledger records by kind and operation.",
		}, []string{"kind", "operation"}),
		ChangePublishes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gigledger",
			Name:      "change_publishes_total",
			Help:      "Ledger change messages by publish result.",
		}, []string{"result"}),
	}
}

// Package metrics містить метрики Prometheus сховища місій
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics містить усі метрики сервісу
type Metrics struct {
	StoreMutations      *prometheus.CounterVec
	ErrorsCount         *prometheus.CounterVec
	Missions            prometheus.Gauge
	RemoteFetchDuration prometheus.Histogram
	LiveClients         *prometheus.GaugeVec
}

// NewMetrics реєструє метрики у reg. Nil означає реєстр за замовчуванням.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StoreMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "The total number of applied mission store mutations",
		}, []string{"operation"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		Missions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "missions",
			Help:      "The number of missions currently held in the store",
		}),
		RemoteFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_fetch_duration_seconds",
			Help:      "Time taken to fetch a mission from the remote mission service",
			Buckets:   prometheus.DefBuckets,
		}),
		LiveClients: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_clients",
			Help:      "The number of connected live update clients",
		}, []string{"transport"}),
	}
}

// NewNopMetrics створює метрики в окремому реєстрі, який ніхто не збирає
func NewNopMetrics() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}

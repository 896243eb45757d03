package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type exchangeMetrics struct {
	calls      *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	batchItems *prometheus.CounterVec
}

var (
	exchangeMetricsOnce sync.Once
	exchangeRegistry    *exchangeMetrics
)

// ExchangeMetrics returns the lazily-initialised registry recording processor
// calls and batch outcomes.
func ExchangeMetrics() *exchangeMetrics {
	exchangeMetricsOnce.Do(func() {
		exchangeRegistry = &exchangeMetrics{
			calls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "weidex",
				Subsystem: "exchange",
				Name:      "calls_total",
				Help:      "Total processor calls segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "weidex",
				Subsystem: "exchange",
				Name:      "call_duration_seconds",
				Help:      "Latency distribution for processor calls.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
			batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "weidex",
				Subsystem: "exchange",
				Name:      "batch_items_total",
				Help:      "Orders processed by batch takes segmented by mode and outcome.",
			}, []string{"mode", "outcome"}),
		}
		prometheus.MustRegister(
			exchangeRegistry.calls,
			exchangeRegistry.latency,
			exchangeRegistry.batchItems,
		)
	})
	return exchangeRegistry
}

// ObserveCall records the outcome of a processor call. Failed calls are
// labelled with their reason code, or "error" when none is available.
func (m *exchangeMetrics) ObserveCall(method, reason string, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = "unknown"
	}
	outcome := "success"
	if failed {
		outcome = strings.TrimSpace(reason)
		if outcome == "" {
			outcome = "error"
		}
	}
	m.calls.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordBatchItem counts one order processed by a batch take.
func (m *exchangeMetrics) RecordBatchItem(mode string, filled bool) {
	if m == nil {
		return
	}
	outcome := "skipped"
	if filled {
		outcome = "filled"
	}
	m.batchItems.WithLabelValues(mode, outcome).Inc()
}

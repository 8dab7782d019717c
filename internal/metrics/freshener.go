// Package metrics defines the Prometheus collectors of the monitor binaries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "acctmon"

var (
	freshenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "freshen_total",
		Help:      "Count of freshen cycles.",
	}, []string{"monitor", "status"})

	freshenDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "freshen_duration_seconds",
		Help:      "Duration of a freshen cycle.",
		Buckets:   []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"monitor", "status"})

	recordsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "records_written_total",
		Help:      "Count of records appended to the cache.",
	}, []string{"monitor"})

	blockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "block_duration_seconds",
		Help:      "Duration of processing a single bloom hit block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"monitor", "status"})

	lastBlock = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "last_block",
		Help:      "Last block fully processed by the freshener.",
	}, []string{"monitor"})

	bloomChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "bloom_checks_total",
		Help:      "Count of per-block bloom checks by result.",
	}, []string{"monitor", "result"})

	reconcileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "reconcile_total",
		Help:      "Count of balance reconciliations by result.",
	}, []string{"monitor", "result"})

	sinkErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "freshener",
		Name:      "sink_errors_total",
		Help:      "Count of snapshot sink failures.",
	}, []string{"monitor", "sink"})
)

type Freshener struct {
	monitor string
}

func NewFreshener(monitor string) *Freshener {
	if monitor == "" {
		monitor = "unknown"
	}
	return &Freshener{monitor: monitor}
}

func (m Freshener) ObserveFreshen(err error, records uint64, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	freshenTotal.WithLabelValues(m.monitor, status).Inc()
	freshenDuration.WithLabelValues(m.monitor, status).Observe(time.Since(started).Seconds())
	recordsWrittenTotal.WithLabelValues(m.monitor).Add(float64(records))
}

func (m Freshener) ObserveBlock(err error, block uint64, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	} else {
		lastBlock.WithLabelValues(m.monitor).Set(float64(block))
	}
	blockDuration.WithLabelValues(m.monitor, status).Observe(time.Since(started).Seconds())
}

func (m Freshener) ObserveBloom(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	bloomChecksTotal.WithLabelValues(m.monitor, result).Inc()
}

func (m Freshener) ObserveReconcile(accounted bool) {
	result := "mismatch"
	if accounted {
		result = "accounted"
	}
	reconcileTotal.WithLabelValues(m.monitor, result).Inc()
}

func (m Freshener) ObserveSinkError(sink string) {
	sinkErrorsTotal.WithLabelValues(m.monitor, sink).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bloomFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bloom_builder",
		Name:      "files_total",
		Help:      "Count of bloom files written.",
	}, []string{"status"})

	bloomFileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "bloom_builder",
		Name:      "file_duration_seconds",
		Help:      "Duration of building a bloom file.",
		Buckets:   []float64{.5, 1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"status"})

	bloomFileBlocks = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "bloom_builder",
		Name:      "file_blocks",
		Help:      "Number of blocks covered per written bloom file.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})

	bloomFetchBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "bloom_builder",
		Name:      "fetch_block_duration_seconds",
		Help:      "Duration of fetching a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	bloomLatestBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bloom_builder",
		Name:      "latest_block",
		Help:      "Highest block covered by bloom files.",
	})
)

type BloomBuilder struct{}

func NewBloomBuilder() *BloomBuilder {
	return &BloomBuilder{}
}

func (m BloomBuilder) ObserveBuildFile(err error, blocks int, last uint64, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	bloomFilesTotal.WithLabelValues(status).Inc()
	bloomFileDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err == nil {
		bloomFileBlocks.Observe(float64(blocks))
		bloomLatestBlock.Set(float64(last))
	}
}

func (m BloomBuilder) ObserveFetchBlock(err error, _ uint64, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	bloomFetchBlockDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

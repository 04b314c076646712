package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Projection metrics
	eventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubindexer_events_processed_total",
			Help: "Total number of events applied to the entity store",
		},
		[]string{"role", "event"},
	)

	eventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubindexer_events_rejected_total",
			Help: "Total number of events rejected or skipped",
		},
		[]string{"reason"},
	)

	eventsIgnored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubindexer_events_ignored_total",
			Help: "Total number of unrecognized events ignored for forward compatibility",
		},
	)

	LastIndexedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hubindexer_last_indexed_block",
			Help: "The last block number whose events are fully projected",
		},
	)

	WatchedShops = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hubindexer_watched_shops",
			Help: "Number of shop contracts currently being watched",
		},
	)

	batchProcessingTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hubindexer_batch_processing_duration_seconds",
			Help:    "Time taken to project a batch of logs",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReorgsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hubindexer_reorgs_detected_total",
			Help: "Total number of chain reorganizations that triggered a replay",
		},
	)

	// Database metrics
	dbErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hubindexer_db_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"operation"},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hubindexer_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hubindexer_goroutines",
			Help: "Number of active goroutines",
		},
	)

	memoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hubindexer_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func EventProcessedInc(role, event string) {
	eventsProcessed.WithLabelValues(role, event).Inc()
}

func EventRejectedInc(reason string) {
	eventsRejected.WithLabelValues(reason).Inc()
}

func EventIgnoredInc() {
	eventsIgnored.Inc()
}

func BatchProcessingTime(duration time.Duration) {
	batchProcessingTime.Observe(duration.Seconds())
}

func DBErrorInc(operation string) {
	dbErrors.WithLabelValues(operation).Inc()
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges.
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())
	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	memoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	memoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}

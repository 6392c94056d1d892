package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slippistats/lcancel-query/logging"
)

// Collector manages all metrics for the query runner
type Collector struct {
	logger *logging.ComponentLogger

	// Counters
	queriesExecuted prometheus.Counter
	rowsScanned     prometheus.Counter
	errorsTotal     prometheus.Counter

	// Gauges
	datasetRows prometheus.Gauge

	// Histograms
	loadDuration  prometheus.Histogram
	queryDuration prometheus.Histogram

	// Custom registerer
	registry *prometheus.Registry
}

// NewCollector creates a new metrics collector
func NewCollector(logger *logging.ComponentLogger) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		logger:   logger,
		registry: registry,

		queriesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lcancel_queries_executed_total",
			Help: "Total number of queries executed",
		}),

		rowsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lcancel_rows_scanned_total",
			Help: "Total input rows scanned by queries",
		}),

		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lcancel_errors_total",
			Help: "Total number of query and load errors",
		}),

		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lcancel_dataset_rows",
			Help: "Rows in the resident landing event dataset",
		}),

		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lcancel_load_duration_seconds",
			Help:    "Time to load the parquet dataset",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		}),

		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lcancel_query_duration_seconds",
			Help:    "Time to execute a single query",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 10), // 0.1ms to ~100ms
		}),
	}

	// Register all metrics
	registry.MustRegister(
		c.queriesExecuted,
		c.rowsScanned,
		c.errorsTotal,
		c.datasetRows,
		c.loadDuration,
		c.queryDuration,
	)

	// Register Go runtime metrics
	registry.MustRegister(prometheus.NewGoCollector())

	logger.Info().
		Msg("Metrics collector initialized")

	return c
}

// StartMetricsServer starts the Prometheus metrics HTTP server
func (c *Collector) StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	c.logger.Info().
		Int("port", port).
		Msg("Starting Prometheus metrics server")

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Error().
				Err(err).
				Msg("Metrics server failed")
		}
	}()

	return nil
}

// RecordLoad tracks a completed dataset load
func (c *Collector) RecordLoad(rows int64, duration time.Duration) {
	c.datasetRows.Set(float64(rows))
	c.loadDuration.Observe(duration.Seconds())
}

// RecordQuery tracks a completed query. Duration is observed separately
// by TimeQuery so that failed queries still land in the histogram.
func (c *Collector) RecordQuery(inputRows int64) {
	c.queriesExecuted.Inc()
	c.rowsScanned.Add(float64(inputRows))
}

// RecordError increments the error counter
func (c *Collector) RecordError() {
	c.errorsTotal.Inc()
}

// TimeQuery observes the query duration histogram around f
func (c *Collector) TimeQuery(f func()) {
	timer := prometheus.NewTimer(c.queryDuration)
	defer timer.ObserveDuration()
	f()
}

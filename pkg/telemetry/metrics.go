package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for Peace CmdExecution runs.
type Metrics struct {
	config MetricsConfig

	// Run metrics
	runsStarted   *prometheus.CounterVec
	runsCompleted *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec

	// CmdBlock metrics
	blocksExecuted *prometheus.CounterVec
	blockDuration  *prometheus.HistogramVec

	// Item metrics
	itemsManaged *prometheus.GaugeVec
	itemInSync   *prometheus.GaugeVec

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	// Sync check metrics
	syncChecks *prometheus.CounterVec

	// System metrics
	activeRuns        prometheus.Gauge
	interruptedBlocks prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		// Run metrics
		runsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_started_total",
				Help:      "Total number of CmdExecution runs started",
			},
			[]string{"flow"},
		),
		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of CmdExecution runs completed",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of a CmdExecution run in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),

		// CmdBlock metrics
		blocksExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blocks_executed_total",
				Help:      "Total number of CmdBlocks executed",
			},
			[]string{"block", "status"},
		),
		blockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "block_duration_seconds",
				Help:      "Duration of a single CmdBlock's Exec in seconds",
				Buckets:   buckets,
			},
			[]string{"block"},
		),

		// Item metrics
		itemsManaged: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "items_managed",
				Help:      "Current number of items in the flow graph",
			},
			[]string{"flow"},
		),
		itemInSync: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "item_in_sync",
				Help:      "Whether an item's stored state matched its discovered current state on the last sync check (1=in sync, 0=drifted)",
			},
			[]string{"item_id"},
		),

		// Error metrics
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by perr.Kind",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		// Sync check metrics
		syncChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_checks_total",
				Help:      "Total number of ApplyStateSyncCheck outcomes",
			},
			[]string{"status"},
		),

		// System metrics
		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_runs",
				Help:      "Current number of in-flight CmdExecution runs",
			},
		),
		interruptedBlocks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "interrupted_blocks",
				Help:      "Current number of blocks sitting in a CmdOutcome::InterruptedBeforeStart/Mid state",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.runsStarted,
		m.runsCompleted,
		m.runDuration,
		m.blocksExecuted,
		m.blockDuration,
		m.itemsManaged,
		m.itemInSync,
		m.errorsByClass,
		m.errorsByCode,
		m.syncChecks,
		m.activeRuns,
		m.interruptedBlocks,
	)

	return m, nil
}

// Run Metrics

// RecordRunStarted increments the counter for started runs.
func (m *Metrics) RecordRunStarted(flowID string) {
	if m.runsStarted == nil {
		return
	}
	m.runsStarted.WithLabelValues(flowID).Inc()
	m.activeRuns.Inc()
}

// RecordRunCompleted records a completed run with its status and duration.
func (m *Metrics) RecordRunCompleted(status string, duration time.Duration) {
	if m.runsCompleted == nil {
		return
	}
	m.runsCompleted.WithLabelValues(status).Inc()
	m.runDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.activeRuns.Dec()
}

// CmdBlock Metrics

// RecordBlockExecution records one CmdBlock's Exec call.
func (m *Metrics) RecordBlockExecution(block, status string, duration time.Duration) {
	if m.blocksExecuted == nil {
		return
	}
	m.blocksExecuted.WithLabelValues(block, status).Inc()
	m.blockDuration.WithLabelValues(block).Observe(duration.Seconds())
}

// Item Metrics

// SetItemsManaged sets the current number of items in a flow's graph.
func (m *Metrics) SetItemsManaged(flowID string, count float64) {
	if m.itemsManaged == nil {
		return
	}
	m.itemsManaged.WithLabelValues(flowID).Set(count)
}

// SetItemInSync records the outcome of the last ApplyStateSyncCheck for an item.
func (m *Metrics) SetItemInSync(itemID string, inSync bool) {
	if m.itemInSync == nil {
		return
	}
	value := 0.0
	if inSync {
		value = 1.0
	}
	m.itemInSync.WithLabelValues(itemID).Set(value)
}

// Error Metrics

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// Sync Check Metrics

// RecordSyncCheck records one ApplyStateSyncCheck item outcome.
func (m *Metrics) RecordSyncCheck(status string) {
	if m.syncChecks == nil {
		return
	}
	m.syncChecks.WithLabelValues(status).Inc()
}

// System Metrics

// SetActiveRuns sets the current number of active runs.
func (m *Metrics) SetActiveRuns(count float64) {
	if m.activeRuns == nil {
		return
	}
	m.activeRuns.Set(count)
}

// SetInterruptedBlocks sets the current number of interrupted blocks.
func (m *Metrics) SetInterruptedBlocks(count float64) {
	if m.interruptedBlocks == nil {
		return
	}
	m.interruptedBlocks.Set(count)
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}

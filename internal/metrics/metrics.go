package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_inspector_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_inspector_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_inspector_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Probe metrics
var (
	ProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_inspector_probe_total",
			Help: "Total number of ffprobe invocations by outcome",
		},
		[]string{"status"},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_inspector_probe_duration_seconds",
			Help:    "Duration of ffprobe invocations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Store metrics
var (
	StoreQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_inspector_store_queries_total",
			Help: "Total number of analysis store queries",
		},
		[]string{"operation", "status"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_inspector_store_query_duration_seconds",
			Help:    "Analysis store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	StoreRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_inspector_store_records",
			Help: "Number of analysis records currently stored",
		},
	)
)

// Analyzer metrics
var (
	AnalyzerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_inspector_analyzer_runs_total",
			Help: "Total number of bulk analysis runs",
		},
	)

	AnalyzerFilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_inspector_analyzer_files_processed_total",
			Help: "Total number of files analyzed by outcome",
		},
		[]string{"status"},
	)

	AnalyzerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_inspector_analyzer_running",
			Help: "Whether a bulk analysis is currently running (1 = running, 0 = idle)",
		},
	)

	AnalyzerCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_inspector_analyzer_cache_hits_total",
			Help: "Total number of analyses skipped because the file signature was unchanged",
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_inspector_watcher_events_total",
			Help: "Total number of raw filesystem events observed",
		},
	)

	WatcherReanalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_inspector_watcher_reanalyses_total",
			Help: "Total number of watcher-triggered reanalyses by outcome",
		},
		[]string{"status"},
	)

	WatcherPendingPaths = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_inspector_watcher_pending_paths",
			Help: "Number of paths currently waiting out the debounce window",
		},
	)
)

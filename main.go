package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-inspector/internal/analyzer"
	"media-inspector/internal/handlers"
	"media-inspector/internal/logging"
	"media-inspector/internal/middleware"
	"media-inspector/internal/probe"
	"media-inspector/internal/scan"
	"media-inspector/internal/search"
	"media-inspector/internal/startup"
	"media-inspector/internal/store"
	"media-inspector/internal/watcher"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Resolve the media root
	root, err := scan.NewRoot(config.MediaDir)
	if err != nil {
		startup.LogFatal("Media root error: %v", err)
	}

	// Initialize the analysis store (optional)
	var st *store.Store
	if config.StoreEnabled {
		dbStart := time.Now()
		st, err = store.New(context.Background(), config.DatabasePath)
		if err != nil {
			startup.LogFatal("Failed to initialize store: %v", err)
		}
		defer st.Close()
		logging.Info("Store initialized in %v", time.Since(dbStart))
	}

	// Initialize the probe and analyzer
	prober := probe.New(config.ProbeBinary, config.ProbeTimeout)
	an := analyzer.New(root, prober, st, config.ProbeCacheSize, config.AnalyzeChunkSize)

	// Initialize the search engine
	engine := search.New(root, st, config.SearchMaxLimit)

	// Start the filesystem watcher in the background
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if config.WatchEnabled {
		w := watcher.New(root, an, config.WatchDebounce)
		go func() {
			if err := w.Run(watchCtx); err != nil {
				logging.Error("Watcher stopped: %v", err)
			}
		}()
		logging.Info("Watcher started on %s (debounce %s)", root.Dir(), config.WatchDebounce)
	}

	// Initialize handlers and router
	h := handlers.New(root, an, engine, st)
	router := setupRouter(h)

	// Apply metrics and logging middleware
	metered := middleware.Metrics(middleware.DefaultMetricsConfig())(router)
	handler := middleware.Logger(middleware.DefaultLoggingConfig())(metered)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, stopWatch)

	logging.Info("Server listening on :%s (startup took %v)", config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/version", h.Version).Methods("GET")

	// Metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze/{path:.*}", h.Analyze).Methods("POST")
	api.HandleFunc("/analyze-all", h.AnalyzeAll).Methods("POST")
	api.HandleFunc("/search", h.Search).Methods("GET")
	api.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	api.HandleFunc("/filters", h.Filters).Methods("GET")
	api.HandleFunc("/compare", h.Compare).Methods("POST")
	api.HandleFunc("/file/{path:.*}", h.File).Methods("GET")

	return r
}

func handleShutdown(srv *http.Server, stopWatch context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Shutdown initiated (%s)", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopWatch()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		logging.Info("HTTP server stopped")
	}
}

package handlers

import (
	"net/http"
	"runtime"
	"time"

	"media-inspector/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

var startTime = time.Now()

// HealthResponse contains the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	Analyzing    bool   `json:"analyzing"`
	StoreEnabled bool   `json:"storeEnabled"`

	// Runtime info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. The service is
// degraded, not down, when persistence is disabled: single-file analysis
// and name search still work.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(startTime).Round(time.Second).String(),
		Analyzing:    h.analyzer.IsRunning(),
		StoreEnabled: h.store.Available(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if !h.store.Available() {
		response.Status = statusDegraded
	}

	writeJSON(w, response)
}

// Version returns the build information baked in at compile time.
func (h *Handlers) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, startup.GetBuildInfo())
}

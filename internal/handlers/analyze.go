package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"media-inspector/internal/logging"
	"media-inspector/internal/scan"
)

// Analyze runs the pipeline for a single file and returns its record.
// The path comes from the route; ?force=1 bypasses the signature cache.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	relPath := mux.Vars(r)["path"]
	if relPath == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	force := r.URL.Query().Get("force") == "1"

	rec, err := h.analyzer.Analyze(r.Context(), relPath, force)
	switch {
	case errors.Is(err, scan.ErrPathEscape):
		writeJSONError(w, "path escapes media root", http.StatusBadRequest)
		return
	case errors.Is(err, os.ErrNotExist):
		writeJSONError(w, "file not found", http.StatusNotFound)
		return
	case err != nil:
		logging.Error("analyze %s failed: %v", relPath, err)
		writeJSONError(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rec)
}

// AnalyzeAll starts a bulk analysis of the tree under ?scope= (default the
// whole root). The run executes in the background; the response reports
// that it started. Progress is visible via metrics and logs.
func (h *Handlers) AnalyzeAll(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")

	if _, err := h.root.Resolve(scope); err != nil {
		writeJSONError(w, "scope escapes media root", http.StatusBadRequest)
		return
	}

	if h.analyzer.IsRunning() {
		writeJSON(w, map[string]string{"status": "already running"})
		return
	}

	go func() {
		// Detached from the request context: a disconnecting caller leaves
		// the run to complete.
		if _, err := h.analyzer.AnalyzeTree(context.WithoutCancel(r.Context()), scope); err != nil {
			logging.Error("bulk analysis failed: %v", err)
		}
	}()

	writeJSON(w, map[string]string{"status": "started"})
}

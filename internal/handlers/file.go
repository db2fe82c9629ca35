package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"media-inspector/internal/logging"
)

// File returns the stored analysis record for one path without re-running
// the pipeline. 404 means the file has not been analyzed yet.
func (h *Handlers) File(w http.ResponseWriter, r *http.Request) {
	relPath := mux.Vars(r)["path"]
	if relPath == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}
	if _, err := h.root.Resolve(relPath); err != nil {
		writeJSONError(w, "path escapes media root", http.StatusBadRequest)
		return
	}
	if !h.store.Available() {
		writeJSONError(w, "persistence is disabled", http.StatusServiceUnavailable)
		return
	}

	stored, err := h.store.GetByPaths(r.Context(), []string{relPath})
	if err != nil {
		logging.Error("record lookup for %s failed: %v", relPath, err)
		writeJSONError(w, "record lookup failed", http.StatusInternalServerError)
		return
	}

	rec, ok := stored[relPath]
	if !ok {
		writeJSONError(w, "no stored analysis for this path", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

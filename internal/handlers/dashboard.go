package handlers

import (
	"net/http"
	"path"
	"strings"

	"media-inspector/internal/logging"
)

// Dashboard aggregates every stored record under ?scope= (default the whole
// tree) into totals, per-dimension buckets, and numeric ranges.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if _, err := h.root.Resolve(scope); err != nil {
		writeJSONError(w, "scope escapes media root", http.StatusBadRequest)
		return
	}
	if !h.store.Available() {
		writeJSONError(w, "persistence is disabled", http.StatusServiceUnavailable)
		return
	}

	dash, err := h.store.Aggregate(r.Context(), scopeToPrefix(scope))
	if err != nil {
		logging.Error("dashboard aggregation failed: %v", err)
		writeJSONError(w, "aggregation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, dash)
}

// scopeToPrefix turns a subtree path into the stored-path prefix it covers.
// The empty scope (the root) maps to the empty prefix, matching everything.
func scopeToPrefix(scope string) string {
	cleaned := strings.Trim(path.Clean(strings.TrimSpace(scope)), "/")
	if cleaned == "" || cleaned == "." {
		return ""
	}
	return cleaned + "/"
}

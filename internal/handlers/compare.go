package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"media-inspector/internal/analysis"
	"media-inspector/internal/logging"
)

// compareRequest is the POST body for a comparison: the stored paths to
// compare field by field.
type compareRequest struct {
	Paths []string `json:"paths"`
}

// Compare loads the stored records for the requested paths and returns their
// field-by-field similarities and differences. Every path must have a
// successful stored analysis.
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Paths) < 2 {
		writeJSONError(w, "at least two paths are required", http.StatusBadRequest)
		return
	}
	if !h.store.Available() {
		writeJSONError(w, "persistence is disabled", http.StatusServiceUnavailable)
		return
	}

	stored, err := h.store.GetByPaths(r.Context(), req.Paths)
	if err != nil {
		logging.Error("compare lookup failed: %v", err)
		writeJSONError(w, "record lookup failed", http.StatusInternalServerError)
		return
	}

	records := make([]analysis.Record, 0, len(req.Paths))
	for _, p := range req.Paths {
		rec, ok := stored[p]
		if !ok {
			writeJSONError(w, fmt.Sprintf("no stored analysis for %q", p), http.StatusNotFound)
			return
		}
		if !rec.OK() {
			writeJSONError(w, fmt.Sprintf("analysis of %q failed; cannot compare", p), http.StatusUnprocessableEntity)
			return
		}
		records = append(records, rec)
	}

	writeJSON(w, analysis.Compare(records))
}

package handlers

import (
	"net/http"

	"media-inspector/internal/logging"
	"media-inspector/internal/store"
)

// Filters returns the distinct values observed for each metadata filter
// field, for populating filter dropdowns. With persistence disabled every
// list is empty.
func (h *Handlers) Filters(w http.ResponseWriter, r *http.Request) {
	fields := []store.FilterField{
		store.FilterKind,
		store.FilterContainer,
		store.FilterVideoCodec,
		store.FilterAudioCodec,
		store.FilterResolution,
	}

	values := make(map[string][]string, len(fields))
	for _, field := range fields {
		vals, err := h.store.DistinctValues(r.Context(), field)
		if err != nil {
			logging.Error("distinct values for %s failed: %v", field, err)
			writeJSONError(w, "filter lookup failed", http.StatusInternalServerError)
			return
		}
		values[string(field)] = vals
	}
	writeJSON(w, values)
}

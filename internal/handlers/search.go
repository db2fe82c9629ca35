package handlers

import (
	"net/http"
	"strconv"

	"media-inspector/internal/logging"
	"media-inspector/internal/search"
)

// Search resolves a query-string search against the analyzed corpus and the
// live tree. All parameters are optional; a request with no filters returns
// an empty page.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := search.Request{
		Kind:       q.Get("kind"),
		Container:  q.Get("container"),
		VideoCodec: q.Get("videoCodec"),
		AudioCodec: q.Get("audioCodec"),
		Resolution: q.Get("resolution"),
		Name:       q.Get("name"),
		Scope:      q.Get("scope"),
		BasePath:   q.Get("basePath"),
		Limit:      parseIntParam(q.Get("limit")),
		Offset:     parseIntParam(q.Get("offset")),
	}

	if req.Scope == search.ScopeCurrent && req.BasePath != "" {
		if _, err := h.root.Resolve(req.BasePath); err != nil {
			writeJSONError(w, "basePath escapes media root", http.StatusBadRequest)
			return
		}
	}

	resp, err := h.engine.Search(r.Context(), req)
	if err != nil {
		logging.Error("search failed: %v", err)
		writeJSONError(w, "search failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

// parseIntParam parses a non-negative integer query parameter, returning 0
// for absent or malformed values so the engine's defaults apply.
func parseIntParam(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

package search

import (
	"context"
	"path"
	"sort"
	"strings"

	"media-inspector/internal/analysis"
	"media-inspector/internal/logging"
	"media-inspector/internal/scan"
	"media-inspector/internal/store"
)

const (
	// DefaultLimit is the page size when a request does not specify one.
	DefaultLimit = 50

	// DefaultMaxLimit caps the page size when no engine-level cap is set.
	DefaultMaxLimit = 200

	// ScopeAll searches the entire tree.
	ScopeAll = "all"
	// ScopeCurrent restricts the search to the request's base path subtree.
	ScopeCurrent = "current"
)

// Request is a search over the analyzed corpus and/or the live tree.
type Request struct {
	// Metadata filters: any being set routes the search to the store.
	Kind       string `json:"kind,omitempty"`
	Container  string `json:"container,omitempty"`
	VideoCodec string `json:"videoCodec,omitempty"`
	AudioCodec string `json:"audioCodec,omitempty"`
	Resolution string `json:"resolution,omitempty"`

	// Name is a case-insensitive substring filter.
	Name string `json:"name,omitempty"`

	// Scope is ScopeAll or ScopeCurrent; BasePath is the subtree prefix used
	// when Scope is ScopeCurrent.
	Scope    string `json:"scope,omitempty"`
	BasePath string `json:"basePath,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// HasMetadataFilters reports whether any store-only filter is set.
func (r *Request) HasMetadataFilters() bool {
	return r.Kind != "" || r.Container != "" || r.VideoCodec != "" ||
		r.AudioCodec != "" || r.Resolution != ""
}

// Item is one search result. Analyzed is false for files found in the live
// tree that have no stored record yet; Record is set only when analyzed.
type Item struct {
	Path     string           `json:"path"`
	Name     string           `json:"name"`
	Analyzed bool             `json:"analyzed"`
	Record   *analysis.Record `json:"record,omitempty"`
}

// Response is a page of results plus the total match count independent of
// the page window.
type Response struct {
	Results []Item `json:"results"`
	Total   int    `json:"total"`
}

// Engine resolves search requests, choosing between a store-backed query and
// a live tree listing depending on which filters are populated.
type Engine struct {
	root     *scan.Root
	store    *store.Store // may be nil
	maxLimit int
}

// New creates an Engine. st may be nil; metadata-filtered searches then
// return empty results.
func New(root *scan.Root, st *store.Store, maxLimit int) *Engine {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	return &Engine{root: root, store: st, maxLimit: maxLimit}
}

// Search resolves one request.
//
// Any metadata filter routes the query to the store exclusively: a file with
// no stored analysis can never match a metadata filter, and probing the
// whole tree live to find out is exactly what this engine avoids. A
// name-only search enumerates the live tree instead, joining each page
// against stored records so unanalyzed files still appear (flagged). A
// request with no filters at all returns empty with total 0 rather than
// dumping the entire tree.
func (e *Engine) Search(ctx context.Context, req Request) (*Response, error) {
	limit, offset := e.clampWindow(req.Limit, req.Offset)
	prefix := e.scopePrefix(req)

	if req.HasMetadataFilters() {
		return e.searchStore(ctx, req, prefix, limit, offset)
	}

	if req.Name != "" {
		return e.searchTree(ctx, req.Name, prefix, limit, offset)
	}

	return &Response{Results: []Item{}, Total: 0}, nil
}

func (e *Engine) clampWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > e.maxLimit {
		limit = e.maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// scopePrefix converts the request's scope into a path prefix for matching.
func (e *Engine) scopePrefix(req Request) string {
	if req.Scope != ScopeCurrent || req.BasePath == "" {
		return ""
	}
	base := strings.Trim(path.Clean(req.BasePath), "/")
	if base == "" || base == "." {
		return ""
	}
	return base + "/"
}

func (e *Engine) searchStore(ctx context.Context, req Request, prefix string, limit, offset int) (*Response, error) {
	result, err := e.store.Search(ctx, store.SearchOptions{
		Filters: map[store.FilterField]string{
			store.FilterKind:       req.Kind,
			store.FilterContainer:  req.Container,
			store.FilterVideoCodec: req.VideoCodec,
			store.FilterAudioCodec: req.AudioCodec,
			store.FilterResolution: req.Resolution,
		},
		Name:        req.Name,
		ScopePrefix: prefix,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{Results: make([]Item, 0, len(result.Records)), Total: result.Total}
	for i := range result.Records {
		rec := result.Records[i]
		resp.Results = append(resp.Results, Item{
			Path:     rec.Path,
			Name:     rec.Name,
			Analyzed: true,
			Record:   &rec,
		})
	}
	return resp, nil
}

// searchTree lists the live tree under the scope, filters by name substring,
// and attaches stored records to the page where they exist. Files without a
// record appear flagged as not yet analyzed.
func (e *Engine) searchTree(ctx context.Context, name, prefix string, limit, offset int) (*Response, error) {
	files, err := e.root.ListMediaFiles(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	var matches []string
	for _, relPath := range files {
		if strings.Contains(strings.ToLower(path.Base(relPath)), needle) {
			matches = append(matches, relPath)
		}
	}
	sort.Strings(matches)

	total := len(matches)
	page := pageWindow(matches, limit, offset)

	var stored map[string]analysis.Record
	if e.store.Available() {
		stored, err = e.store.GetByPaths(ctx, page)
		if err != nil {
			logging.Warn("failed to join search results against store: %v", err)
			stored = nil
		}
	}

	resp := &Response{Results: make([]Item, 0, len(page)), Total: total}
	for _, relPath := range page {
		item := Item{Path: relPath, Name: path.Base(relPath)}
		if rec, ok := stored[relPath]; ok {
			item.Analyzed = true
			item.Record = &rec
		}
		resp.Results = append(resp.Results, item)
	}
	return resp, nil
}

func pageWindow(paths []string, limit, offset int) []string {
	if offset >= len(paths) {
		return nil
	}
	end := offset + limit
	if end > len(paths) {
		end = len(paths)
	}
	return paths[offset:end]
}

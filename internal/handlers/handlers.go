package handlers

import (
	"media-inspector/internal/analyzer"
	"media-inspector/internal/scan"
	"media-inspector/internal/search"
	"media-inspector/internal/store"
)

// Handlers bundles the HTTP endpoints over the analysis core.
type Handlers struct {
	root     *scan.Root
	analyzer *analyzer.Analyzer
	engine   *search.Engine
	store    *store.Store // may be nil
}

// New creates the handler set.
func New(root *scan.Root, an *analyzer.Analyzer, engine *search.Engine, st *store.Store) *Handlers {
	return &Handlers{
		root:     root,
		analyzer: an,
		engine:   engine,
		store:    st,
	}
}

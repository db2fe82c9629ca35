package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"media-inspector/internal/analysis"
	"media-inspector/internal/logging"
	"media-inspector/internal/metrics"
	"media-inspector/internal/probe"
	"media-inspector/internal/scan"
	"media-inspector/internal/store"
)

const (
	// DefaultChunkSize is the number of files analyzed between persists
	// during a bulk run, so partial progress survives a crash.
	DefaultChunkSize = 100

	// DefaultCacheSize bounds the signature cache.
	DefaultCacheSize = 4096
)

// signature identifies a file's content cheaply. Matching signatures mean
// the file has not changed since the last successful analysis.
type signature struct {
	modTime int64
	size    int64
}

type cachedAnalysis struct {
	sig    signature
	record analysis.Record
}

// Analyzer runs the stat → probe → normalize → persist pipeline.
//
// Probe subprocess concurrency is capped at one: concurrent callers (watcher
// timers, bulk runs, HTTP requests) queue on the probe semaphore rather than
// spawning a subprocess each. A per-path lock keeps two triggers for the
// same path from analyzing it concurrently.
type Analyzer struct {
	root   *scan.Root
	prober *probe.Prober
	store  *store.Store // may be nil; persistence then skipped

	cache     *lru.Cache[string, cachedAnalysis]
	pathLocks sync.Map // path → *sync.Mutex
	probeSem  chan struct{}

	chunkSize int

	bulkMu      sync.Mutex
	bulkRunning bool
}

// New creates an Analyzer. st may be nil for store-less operation.
func New(root *scan.Root, prober *probe.Prober, st *store.Store, cacheSize, chunkSize int) *Analyzer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	// lru.New only fails for a non-positive size, which is guarded above.
	cache, err := lru.New[string, cachedAnalysis](cacheSize)
	if err != nil {
		logging.Fatal("failed to create analysis cache: %v", err)
	}

	return &Analyzer{
		root:      root,
		prober:    prober,
		store:     st,
		cache:     cache,
		probeSem:  make(chan struct{}, 1),
		chunkSize: chunkSize,
	}
}

// Analyze runs the pipeline for one root-relative path and returns its
// record. When force is false and the file's (mtime, size) signature matches
// the last successful analysis, the cached record is returned without
// probing. Structural failures (path escape, unreadable path) return an
// error; per-file probe failures return an error record, not an error.
func (a *Analyzer) Analyze(ctx context.Context, relPath string, force bool) (analysis.Record, error) {
	rec, err := a.analyzeCached(ctx, relPath, force)
	if err != nil {
		return analysis.Record{}, err
	}

	if a.store.Available() {
		if _, err := a.store.Upsert(ctx, []analysis.Record{rec}); err != nil {
			return rec, fmt.Errorf("failed to persist record for %s: %w", relPath, err)
		}
	}
	return rec, nil
}

// analyzeCached runs stat → signature check → probe → normalize under the
// per-path lock, without persisting.
func (a *Analyzer) analyzeCached(ctx context.Context, relPath string, force bool) (analysis.Record, error) {
	mu := a.lockPath(relPath)
	mu.Lock()
	defer mu.Unlock()

	stat, err := a.root.Stat(relPath)
	if err != nil {
		return analysis.Record{}, err
	}

	sig := signature{modTime: stat.ModifiedAt.UnixNano(), size: stat.SizeBytes}
	if !force {
		if cached, ok := a.cache.Get(relPath); ok && cached.sig == sig {
			metrics.AnalyzerCacheHits.Inc()
			logging.Debug("signature unchanged for %s, skipping probe", relPath)
			return cached.record, nil
		}
	}

	rec := a.analyzeStatted(ctx, relPath, stat)

	if rec.OK() {
		a.cache.Add(relPath, cachedAnalysis{sig: sig, record: rec})
	} else {
		// Error records are not cached: a retry should probe again in case
		// the failure was transient (tool missing, timeout).
		a.cache.Remove(relPath)
	}

	return rec, nil
}

// analyzeStatted probes and normalizes a path whose stat info is already
// known. Non-regular files skip the probe entirely.
func (a *Analyzer) analyzeStatted(ctx context.Context, relPath string, stat analysis.FileStat) analysis.Record {
	if !stat.IsRegular {
		return analysis.Normalize(relPath, stat, nil, analysis.ErrNotAFile)
	}

	abs, err := a.root.Resolve(relPath)
	if err != nil {
		return analysis.Normalize(relPath, stat, nil, err)
	}

	a.probeSem <- struct{}{}
	result, probeErr := a.prober.Probe(ctx, abs)
	<-a.probeSem

	return analysis.Normalize(relPath, stat, result, probeErr)
}

// lockPath returns the per-path mutex, creating it on first use.
func (a *Analyzer) lockPath(relPath string) *sync.Mutex {
	actual, _ := a.pathLocks.LoadOrStore(relPath, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// BulkResult reports the outcome of a bulk analysis run.
type BulkResult struct {
	Total    int           `json:"total"`
	OK       int           `json:"ok"`
	Errors   int           `json:"errors"`
	Stored   int           `json:"stored"`
	Duration time.Duration `json:"-"`
}

// AnalyzeTree analyzes every media file under scope (root-relative, "" for
// the whole tree), persisting after every chunk so a crash mid-run loses at
// most one chunk of work. Files are processed sequentially. Per-file probe
// failures are recorded and never abort the run. Only one bulk run executes
// at a time; a second call while one is running returns immediately.
func (a *Analyzer) AnalyzeTree(ctx context.Context, scope string) (BulkResult, error) {
	if !a.tryStartBulk() {
		logging.Info("Bulk analysis already in progress, skipping")
		return BulkResult{}, nil
	}
	defer a.finishBulk()

	metrics.AnalyzerIsRunning.Set(1)
	defer metrics.AnalyzerIsRunning.Set(0)
	metrics.AnalyzerRunsTotal.Inc()

	start := time.Now()

	files, err := a.root.ListMediaFiles(scope)
	if err != nil {
		return BulkResult{}, err
	}

	result := BulkResult{Total: len(files)}
	logging.Info("Analyzing %d files in chunks of %d", len(files), a.chunkSize)

	for i := 0; i < len(files); i += a.chunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := i + a.chunkSize
		if end > len(files) {
			end = len(files)
		}

		chunk := make([]analysis.Record, 0, end-i)
		for _, relPath := range files[i:end] {
			rec, err := a.analyzeCached(ctx, relPath, false)
			if err != nil {
				logging.Warn("failed to analyze %s: %v", relPath, err)
				continue
			}
			if rec.OK() {
				result.OK++
				metrics.AnalyzerFilesProcessed.WithLabelValues("ok").Inc()
			} else {
				result.Errors++
				metrics.AnalyzerFilesProcessed.WithLabelValues("error").Inc()
			}
			chunk = append(chunk, rec)
		}

		// Persist once per chunk so partial progress survives a crash.
		if a.store.Available() {
			upserted, err := a.store.Upsert(ctx, chunk)
			if err != nil {
				logging.Error("failed to persist chunk: %v", err)
			} else {
				result.Stored += upserted.Stored
			}
		}

		if end%1000 == 0 || end == len(files) {
			logging.Info("Analysis progress: %d/%d files", end, len(files))
		}
	}

	result.Duration = time.Since(start)
	logging.Info("Bulk analysis complete: %d ok, %d errors in %v",
		result.OK, result.Errors, result.Duration)
	return result, nil
}

func (a *Analyzer) tryStartBulk() bool {
	a.bulkMu.Lock()
	defer a.bulkMu.Unlock()
	if a.bulkRunning {
		return false
	}
	a.bulkRunning = true
	return true
}

func (a *Analyzer) finishBulk() {
	a.bulkMu.Lock()
	defer a.bulkMu.Unlock()
	a.bulkRunning = false
}

// IsRunning reports whether a bulk analysis is in progress.
func (a *Analyzer) IsRunning() bool {
	a.bulkMu.Lock()
	defer a.bulkMu.Unlock()
	return a.bulkRunning
}

// Store exposes the analyzer's store for callers that join against it.
func (a *Analyzer) Store() *store.Store {
	return a.store
}

// Root exposes the analyzer's media root.
func (a *Analyzer) Root() *scan.Root {
	return a.root
}

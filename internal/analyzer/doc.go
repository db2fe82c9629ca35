// Package analyzer orchestrates the analysis pipeline: stat the file, probe
// it, normalize the outcome into a record, and persist it.
//
// A bounded signature cache (keyed by path, valued by mtime+size) lets
// repeat analyses of unchanged files skip the probe subprocess. Probe
// concurrency is capped at one subprocess, and a per-path lock prevents the
// watcher and a bulk run from analyzing the same file at the same time.
package analyzer

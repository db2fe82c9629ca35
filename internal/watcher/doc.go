// Package watcher observes the media tree for added and modified files and
// feeds stabilized changes through the analysis pipeline.
//
// Raw filesystem events are debounced per path (default 2s): a burst of
// writes during a copy collapses into a single reanalysis once the file goes
// quiet. Reanalysis of a file whose (mtime, size) signature is unchanged is
// skipped by the analyzer.
package watcher

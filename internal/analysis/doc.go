// Package analysis defines the canonical Record for an analyzed media file
// and the pure functions operating on record sets.
//
// It provides:
//   - Normalize: file stats + probe outcome → exactly one Record
//   - Summarize: a record batch → dashboard totals and per-dimension buckets
//   - Compare: ≥2 records → similarity/difference partition of a fixed field set
//
// Nothing in this package performs I/O; persistence lives in the store
// package and probing in the probe package.
package analysis

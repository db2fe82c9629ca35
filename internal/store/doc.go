// Package store persists analysis records in SQLite.
//
// One table, keyed by path: denormalized scalar columns for query
// performance plus the canonical record as a JSON blob. Every write derives
// the scalars from the blob so the two can never drift.
//
// The store is optional. A nil *Store degrades every operation to an empty
// or neutral result so the rest of the system keeps functioning without
// persistence.
package store

// Package metrics defines the Prometheus collectors for the media inspector.
//
// All collectors are registered at package init via promauto and exposed on
// the /metrics endpoint. Collectors are grouped by subsystem: HTTP, probe,
// store, analyzer, and watcher.
package metrics

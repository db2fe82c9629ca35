// Package search resolves filtered media queries.
//
// Requests with metadata filters (kind, container, codecs, resolution) are
// answered from the analysis store alone; name-only requests enumerate the
// live tree and join against stored records. A request with no filters
// returns an empty result set as a safety limit.
package search

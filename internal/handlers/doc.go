// Package handlers provides HTTP request handlers for the media inspector API.
//
// It includes handlers for:
//   - Single-file and bulk analysis
//   - Search across stored records and the live tree
//   - Dashboard aggregation and filter values
//   - Field-by-field file comparison
//   - Stored record lookup
//   - Health checks and build info
package handlers

// Package scan anchors all path handling to the configured media root.
//
// It resolves request-relative paths (rejecting anything that escapes the
// root), converts absolute paths back to the canonical relative form, and
// enumerates the regular media files under a subtree for bulk operations.
package scan

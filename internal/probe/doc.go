// Package probe wraps the external ffprobe tool.
//
// Each call spawns one ffprobe subprocess requesting JSON-formatted
// container and stream information for a single file. Failures (missing
// binary, nonzero exit, timeout, malformed JSON) surface as a typed
// *probe.Error carrying the captured diagnostic text so callers can still
// persist a partial record for the file.
package probe

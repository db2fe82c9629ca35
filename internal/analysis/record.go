package analysis

import (
	"time"

	"media-inspector/internal/mediakind"
)

// Record is the canonical analysis result for one file, keyed by its
// root-relative path. A record is either "ok" (Error empty, metadata fields
// attempted) or an error record (Error set, only the stat-derived fields and
// a kind guess populated). The two arms never mix.
type Record struct {
	Path       string         `json:"path"`
	Name       string         `json:"name"`
	Kind       mediakind.Kind `json:"kind"`
	SizeBytes  int64          `json:"sizeBytes"`
	ModifiedAt time.Time      `json:"modifiedAt"`

	Container   *Container   `json:"container,omitempty"`
	Video       *VideoStream `json:"video,omitempty"`
	Audio       *AudioStream `json:"audio,omitempty"`
	DurationSec *float64     `json:"durationSec,omitempty"`
	BitRate     *int64       `json:"bitRate,omitempty"`

	Error string `json:"error,omitempty"`
}

// Container describes the file's container format.
type Container struct {
	FormatName     string `json:"formatName"`
	FormatLongName string `json:"formatLongName,omitempty"`
}

// VideoStream describes the primary video stream.
type VideoStream struct {
	Codec         string   `json:"codec"`
	CodecLongName string   `json:"codecLongName,omitempty"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	PixelFormat   string   `json:"pixelFormat,omitempty"`
	FrameRate     *float64 `json:"frameRate,omitempty"`
}

// AudioStream describes the primary audio stream.
type AudioStream struct {
	Codec         string `json:"codec"`
	CodecLongName string `json:"codecLongName,omitempty"`
	SampleRate    *int   `json:"sampleRate,omitempty"`
	Channels      int    `json:"channels"`
}

// OK reports whether the record represents a successful analysis.
func (r *Record) OK() bool {
	return r.Error == ""
}

// Resolution returns the "WxH" string for the record's video stream, or ""
// when no video stream is present.
func (r *Record) Resolution() string {
	if r.Video == nil || r.Video.Width == 0 || r.Video.Height == 0 {
		return ""
	}
	return formatResolution(r.Video.Width, r.Video.Height)
}

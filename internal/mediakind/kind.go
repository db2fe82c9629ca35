package mediakind

import (
	"path/filepath"
	"strings"
)

// Kind classifies a media file by its decoded content.
type Kind string

const (
	// KindImage represents a still image (or a file with video but no audio).
	KindImage Kind = "image"
	// KindVideo represents a file with both video and audio streams.
	KindVideo Kind = "video"
	// KindAudio represents an audio-only file.
	KindAudio Kind = "audio"
	// KindUnknown represents an unclassifiable file.
	KindUnknown Kind = "unknown"
)

// ImageExtensions maps file extensions to whether they are recognized image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".svg":  true,
	".ico":  true,
	".tiff": true,
	".tif":  true,
	".heic": true,
	".heif": true,
}

// VideoExtensions maps file extensions to whether they are recognized video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// AudioExtensions maps file extensions to whether they are recognized audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".aac":  true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".wma":  true,
	".opus": true,
	".aiff": true,
}

// FromStreams classifies a file by which decoded stream types the probe found.
//
// Note the inherited quirk: a file with a video stream but no audio stream is
// classified as an image. This matches how single-frame formats (and animated
// images) are reported by the probe, but it also means a silent video file
// lands in the image bucket. Kept as-is so stored records stay comparable
// across re-analysis.
func FromStreams(hasVideo, hasAudio bool) Kind {
	switch {
	case hasVideo && hasAudio:
		return KindVideo
	case hasVideo:
		return KindImage
	case hasAudio:
		return KindAudio
	default:
		return KindUnknown
	}
}

// FromExtension guesses a kind from the file extension alone. It is the
// fallback used when no probe data exists for a path (probe failed, or the
// file was never probed).
func FromExtension(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ImageExtensions[ext]:
		return KindImage
	case VideoExtensions[ext]:
		return KindVideo
	case AudioExtensions[ext]:
		return KindAudio
	default:
		return KindUnknown
	}
}

// IsMediaFile returns true if the extension looks like a supported media file.
func IsMediaFile(path string) bool {
	return FromExtension(path) != KindUnknown
}

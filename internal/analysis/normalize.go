package analysis

import (
	"errors"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"media-inspector/internal/mediakind"
	"media-inspector/internal/probe"
)

// FileStat carries the filesystem facts the normalizer needs. IsRegular is
// false for directories, sockets, and dangling or non-file symlink targets.
type FileStat struct {
	SizeBytes  int64
	ModifiedAt time.Time
	IsRegular  bool
}

// ErrNotAFile marks paths that exist but are not regular files. Such paths
// always normalize to an error record and are never probed.
var ErrNotAFile = errors.New("not a regular file")

// Normalize builds exactly one Record from a relative path, its stat info,
// and the probe outcome. It is a pure function: no I/O, no side effects.
//
// When result is non-nil a full ok record is produced. When probeErr is
// non-nil (or the path is not a regular file) an error record is produced
// carrying a best-effort extension-based kind guess.
func Normalize(relPath string, stat FileStat, result *probe.Result, probeErr error) Record {
	rec := Record{
		Path:       relPath,
		Name:       path.Base(relPath),
		SizeBytes:  stat.SizeBytes,
		ModifiedAt: stat.ModifiedAt,
	}

	if !stat.IsRegular {
		rec.Kind = mediakind.FromExtension(relPath)
		rec.Error = ErrNotAFile.Error()
		return rec
	}

	if probeErr != nil {
		rec.Kind = mediakind.FromExtension(relPath)
		var pe *probe.Error
		if errors.As(probeErr, &pe) {
			rec.Error = pe.Diagnostic
		} else {
			rec.Error = probeErr.Error()
		}
		return rec
	}

	rec.Kind = mediakind.FromStreams(result.HasVideo(), result.HasAudio())

	if result.Format.FormatName != "" || result.Format.FormatLongName != "" {
		rec.Container = &Container{
			FormatName:     result.Format.FormatName,
			FormatLongName: result.Format.FormatLongName,
		}
	}

	if vs := result.FirstVideoStream(); vs != nil {
		rec.Video = &VideoStream{
			Codec:         vs.CodecName,
			CodecLongName: vs.CodecLongName,
			Width:         vs.Width,
			Height:        vs.Height,
			PixelFormat:   vs.PixFmt,
			FrameRate:     parseFrameRate(vs.AvgFrameRate),
		}
	}

	if as := result.FirstAudioStream(); as != nil {
		rec.Audio = &AudioStream{
			Codec:         as.CodecName,
			CodecLongName: as.CodecLongName,
			SampleRate:    parseInt(as.SampleRate),
			Channels:      as.Channels,
		}
	}

	rec.DurationSec = parseFloat(result.Format.Duration)
	if br := parseFloat(result.Format.BitRate); br != nil {
		v := int64(*br)
		rec.BitRate = &v
	}

	return rec
}

// parseFloat parses a probe-reported numeric string. Unparsable or
// non-finite values become nil rather than NaN.
func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// parseFrameRate handles ffprobe's rational frame rates ("30000/1001") as
// well as plain decimals. A zero denominator yields nil.
func parseFrameRate(s string) *float64 {
	if s == "" || s == "0/0" {
		return nil
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN != nil || errD != nil || d == 0 {
			return nil
		}
		v := n / d
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return parseFloat(s)
}

func formatResolution(width, height int) string {
	return strconv.Itoa(width) + "x" + strconv.Itoa(height)
}

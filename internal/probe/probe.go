package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"media-inspector/internal/logging"
	"media-inspector/internal/metrics"
)

// DefaultTimeout bounds a single ffprobe invocation. A corrupt file can make
// ffprobe hang indefinitely; the timeout turns that into a probe failure.
const DefaultTimeout = 30 * time.Second

// Result is the parsed output of a successful probe: container-level format
// information plus the list of decoded streams.
type Result struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

// Format holds container-level fields as reported by ffprobe. Numeric values
// arrive as strings and are converted downstream.
type Format struct {
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	BitRate        string `json:"bit_rate"`
}

// Stream holds per-stream fields. CodecType distinguishes video from audio;
// type-specific fields are zero for the other type.
type Stream struct {
	CodecType     string `json:"codec_type"`
	CodecName     string `json:"codec_name"`
	CodecLongName string `json:"codec_long_name"`

	// Video fields
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	AvgFrameRate string `json:"avg_frame_rate"`

	// Audio fields
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// HasVideo reports whether any stream carries video.
func (r *Result) HasVideo() bool {
	return r.firstStream("video") != nil
}

// HasAudio reports whether any stream carries audio.
func (r *Result) HasAudio() bool {
	return r.firstStream("audio") != nil
}

// FirstVideoStream returns the first video stream in probe order, or nil.
func (r *Result) FirstVideoStream() *Stream {
	return r.firstStream("video")
}

// FirstAudioStream returns the first audio stream in probe order, or nil.
func (r *Result) FirstAudioStream() *Stream {
	return r.firstStream("audio")
}

func (r *Result) firstStream(codecType string) *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == codecType {
			return &r.Streams[i]
		}
	}
	return nil
}

// Error is the typed failure outcome of a probe: the tool was missing,
// exited nonzero, timed out, or produced unparsable output. Diagnostic
// carries the captured stderr (or decode error) for the record.
type Error struct {
	Path       string
	Diagnostic string
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe failed for %s: %s", e.Path, e.Diagnostic)
}

// Prober invokes the external ffprobe binary against individual files.
type Prober struct {
	binary  string
	timeout time.Duration
}

// New creates a Prober. An empty binary defaults to "ffprobe" resolved via
// PATH; a non-positive timeout defaults to DefaultTimeout.
func New(binary string, timeout time.Duration) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{binary: binary, timeout: timeout}
}

// Probe runs ffprobe against the file at absPath and returns the parsed
// container and stream metadata. On any failure the returned error is a
// *probe.Error; callers persist it as an error record rather than aborting.
// The invocation is read-only and never retried.
func (p *Prober) Probe(ctx context.Context, absPath string) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		absPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProbeTotal.WithLabelValues("error").Inc()
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		logging.Debug("ffprobe failed for %s: %s", absPath, diag)
		return nil, &Error{Path: absPath, Diagnostic: diag}
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		metrics.ProbeTotal.WithLabelValues("error").Inc()
		return nil, &Error{Path: absPath, Diagnostic: "malformed ffprobe output: " + err.Error()}
	}

	metrics.ProbeTotal.WithLabelValues("success").Inc()
	return &result, nil
}

package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const sampleJSON = `{
  "format": {
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "format_long_name": "QuickTime / MOV",
    "duration": "10.000000",
    "bit_rate": "1000000"
  },
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
     "pix_fmt": "yuv420p", "avg_frame_rate": "30000/1001"},
    {"codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2}
  ]
}`

// writeStubProbe writes a shell script that stands in for ffprobe.
func writeStubProbe(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub probe scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fakeprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write stub probe: %v", err)
	}
	return path
}

// TestProbeSuccess tests parsing of well-formed probe output.
func TestProbeSuccess(t *testing.T) {
	t.Parallel()

	bin := writeStubProbe(t, "cat <<'EOF'\n"+sampleJSON+"\nEOF\n")
	p := New(bin, time.Second)

	result, err := p.Probe(context.Background(), "/media/clip.mp4")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if result.Format.FormatName != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Errorf("FormatName = %q", result.Format.FormatName)
	}
	if !result.HasVideo() || !result.HasAudio() {
		t.Error("expected both video and audio streams")
	}

	vs := result.FirstVideoStream()
	if vs == nil || vs.CodecName != "h264" || vs.Width != 1920 {
		t.Errorf("video stream = %+v", vs)
	}
	as := result.FirstAudioStream()
	if as == nil || as.SampleRate != "48000" || as.Channels != 2 {
		t.Errorf("audio stream = %+v", as)
	}
}

// TestProbeToolFailure tests that a nonzero exit becomes a typed error
// carrying the tool's stderr.
func TestProbeToolFailure(t *testing.T) {
	t.Parallel()

	bin := writeStubProbe(t, "echo 'moov atom not found' >&2\nexit 1\n")
	p := New(bin, time.Second)

	_, err := p.Probe(context.Background(), "/media/broken.mp4")
	if err == nil {
		t.Fatal("expected an error")
	}

	pe, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *probe.Error", err)
	}
	if pe.Path != "/media/broken.mp4" {
		t.Errorf("Path = %q", pe.Path)
	}
	if pe.Diagnostic != "moov atom not found" {
		t.Errorf("Diagnostic = %q", pe.Diagnostic)
	}
	if !strings.Contains(pe.Error(), "moov atom not found") {
		t.Errorf("Error() = %q", pe.Error())
	}
}

// TestProbeMissingBinary tests that an unresolvable binary fails typed, not
// with a panic or a bare exec error.
func TestProbeMissingBinary(t *testing.T) {
	t.Parallel()

	p := New(filepath.Join(t.TempDir(), "no-such-tool"), time.Second)

	_, err := p.Probe(context.Background(), "/media/x.mp4")
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("error type = %T, want *probe.Error", err)
	}
}

// TestProbeMalformedOutput tests that unparsable stdout becomes a typed
// error.
func TestProbeMalformedOutput(t *testing.T) {
	t.Parallel()

	bin := writeStubProbe(t, "echo 'this is not json'\n")
	p := New(bin, time.Second)

	_, err := p.Probe(context.Background(), "/media/x.mp4")
	if err == nil {
		t.Fatal("expected an error")
	}
	pe, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *probe.Error", err)
	}
	if !strings.Contains(pe.Diagnostic, "malformed ffprobe output") {
		t.Errorf("Diagnostic = %q", pe.Diagnostic)
	}
}

// TestProbeTimeout tests that a hanging tool is killed by the probe timeout.
func TestProbeTimeout(t *testing.T) {
	t.Parallel()

	bin := writeStubProbe(t, "sleep 10\n")
	p := New(bin, 100*time.Millisecond)

	start := time.Now()
	_, err := p.Probe(context.Background(), "/media/x.mp4")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("probe took %v, timeout did not fire", elapsed)
	}
}

// TestNewDefaults tests the fallback binary name and timeout.
func TestNewDefaults(t *testing.T) {
	t.Parallel()

	p := New("", 0)
	if p.binary != "ffprobe" {
		t.Errorf("binary = %q, want ffprobe", p.binary)
	}
	if p.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", p.timeout, DefaultTimeout)
	}
}

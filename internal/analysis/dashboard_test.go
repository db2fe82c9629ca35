package analysis

import (
	"testing"
	"time"

	"media-inspector/internal/mediakind"
)

func okVideoRecord(path, codec string, size int64, duration float64, bitRate int64) Record {
	sr := 48000
	fr := 30.0
	return Record{
		Path:        path,
		Name:        path,
		Kind:        mediakind.KindVideo,
		SizeBytes:   size,
		ModifiedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Container:   &Container{FormatName: "matroska,webm"},
		Video:       &VideoStream{Codec: codec, Width: 1280, Height: 720, PixelFormat: "yuv420p", FrameRate: &fr},
		Audio:       &AudioStream{Codec: "aac", SampleRate: &sr, Channels: 2},
		DurationSec: &duration,
		BitRate:     &bitRate,
	}
}

func errorRecord(path string) Record {
	return Record{
		Path:  path,
		Name:  path,
		Kind:  mediakind.KindVideo,
		Error: "probe failed",
	}
}

// TestSummarizeEmpty tests that an empty input yields zero totals and an
// empty bucket list for every dimension.
func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	dash := Summarize(nil)

	if dash.Totals.AnalyzedOKCount != 0 || dash.Totals.AnalyzedErrorCount != 0 {
		t.Errorf("unexpected totals: %+v", dash.Totals)
	}
	if dash.Totals.BitRate.Min != nil || dash.Totals.BitRate.Max != nil {
		t.Error("empty input must leave the bit rate range unset")
	}
	if len(dash.Dimensions) != len(DimensionNames) {
		t.Fatalf("got %d dimensions, want %d", len(dash.Dimensions), len(DimensionNames))
	}
	for _, name := range DimensionNames {
		buckets, ok := dash.Dimensions[name]
		if !ok {
			t.Errorf("dimension %q missing", name)
			continue
		}
		if buckets == nil {
			t.Errorf("dimension %q is nil, want empty slice", name)
		}
		if len(buckets) != 0 {
			t.Errorf("dimension %q has %d buckets, want 0", name, len(buckets))
		}
	}
}

// TestSummarizeTotals tests the totals and numeric ranges over a mixed set
// of ok and error records.
func TestSummarizeTotals(t *testing.T) {
	t.Parallel()

	records := []Record{
		okVideoRecord("a.mp4", "h264", 1000, 10, 1000000),
		okVideoRecord("b.mp4", "hevc", 3000, 30, 3000000),
		errorRecord("c.mp4"),
	}

	dash := Summarize(records)

	if dash.Totals.AnalyzedOKCount != 2 {
		t.Errorf("AnalyzedOKCount = %d, want 2", dash.Totals.AnalyzedOKCount)
	}
	if dash.Totals.AnalyzedErrorCount != 1 {
		t.Errorf("AnalyzedErrorCount = %d, want 1", dash.Totals.AnalyzedErrorCount)
	}
	if dash.Totals.AnalyzedOKCount+dash.Totals.AnalyzedErrorCount != len(records) {
		t.Error("ok + error counts must cover every record")
	}
	if dash.Totals.TotalSizeBytes != 4000 {
		t.Errorf("TotalSizeBytes = %d, want 4000", dash.Totals.TotalSizeBytes)
	}
	if dash.Totals.TotalDurationSec != 40 {
		t.Errorf("TotalDurationSec = %v, want 40", dash.Totals.TotalDurationSec)
	}
	if dash.Totals.BitRate.Min == nil || *dash.Totals.BitRate.Min != 1000000 {
		t.Errorf("BitRate.Min = %v, want 1000000", dash.Totals.BitRate.Min)
	}
	if dash.Totals.BitRate.Max == nil || *dash.Totals.BitRate.Max != 3000000 {
		t.Errorf("BitRate.Max = %v, want 3000000", dash.Totals.BitRate.Max)
	}
	if dash.Totals.DurationSec.Min == nil || *dash.Totals.DurationSec.Min != 10 {
		t.Errorf("DurationSec.Min = %v, want 10", dash.Totals.DurationSec.Min)
	}
	if dash.Totals.DurationSec.Max == nil || *dash.Totals.DurationSec.Max != 30 {
		t.Errorf("DurationSec.Max = %v, want 30", dash.Totals.DurationSec.Max)
	}
}

// TestSummarizeBuckets tests bucket counting, the unknown bucket, and the
// per-dimension invariant that bucket counts sum to the ok count.
func TestSummarizeBuckets(t *testing.T) {
	t.Parallel()

	noVideo := okVideoRecord("audio.flac", "", 100, 5, 500)
	noVideo.Kind = mediakind.KindAudio
	noVideo.Video = nil

	records := []Record{
		okVideoRecord("a.mp4", "h264", 1000, 10, 1000000),
		okVideoRecord("b.mp4", "h264", 1000, 10, 1000000),
		okVideoRecord("c.mp4", "hevc", 1000, 10, 1000000),
		noVideo,
		errorRecord("broken.mp4"),
	}

	dash := Summarize(records)

	codecs := dash.Dimensions["videoCodec"]
	if len(codecs) != 3 {
		t.Fatalf("videoCodec buckets = %v, want 3 entries", codecs)
	}
	if codecs[0].Key != "h264" || codecs[0].Count != 2 {
		t.Errorf("top videoCodec bucket = %+v, want h264/2", codecs[0])
	}

	foundUnknown := false
	for _, b := range codecs {
		if b.Key == UnknownKey && b.Count == 1 {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Errorf("expected an %q bucket for the videoless record, got %v", UnknownKey, codecs)
	}

	for _, name := range DimensionNames {
		sum := 0
		for _, b := range dash.Dimensions[name] {
			sum += b.Count
		}
		if sum != dash.Totals.AnalyzedOKCount {
			t.Errorf("dimension %q bucket counts sum to %d, want ok count %d",
				name, sum, dash.Totals.AnalyzedOKCount)
		}
	}
}

// TestSortBuckets tests the count-descending, key-ascending bucket order.
func TestSortBuckets(t *testing.T) {
	t.Parallel()

	buckets := SortBuckets(map[string]int{"b": 2, "a": 2, "c": 5})

	want := []Bucket{{"c", 5}, {"a", 2}, {"b", 2}}
	if len(buckets) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(buckets), len(want))
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Errorf("bucket[%d] = %+v, want %+v", i, buckets[i], want[i])
		}
	}
}

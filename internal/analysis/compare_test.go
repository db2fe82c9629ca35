package analysis

import "testing"

// TestCompareIdentical tests that identical records produce only
// similarities.
func TestCompareIdentical(t *testing.T) {
	t.Parallel()

	a := okVideoRecord("dir/a.mp4", "h264", 1000, 10, 1000000)
	b := okVideoRecord("dir/b.mp4", "h264", 1000, 10, 1000000)

	cmp := Compare([]Record{a, b})

	if len(cmp.Files) != 2 {
		t.Fatalf("Files = %v, want 2 entries", cmp.Files)
	}
	if cmp.Files[0].Path != "dir/a.mp4" || cmp.Files[1].Path != "dir/b.mp4" {
		t.Errorf("unexpected file identities: %v", cmp.Files)
	}
	if len(cmp.Differences) != 0 {
		t.Errorf("Differences = %v, want none", cmp.Differences)
	}
	if got := cmp.Similarities["video.codec"]; got != "h264" {
		t.Errorf("Similarities[video.codec] = %v, want h264", got)
	}
	if got := cmp.Similarities["sizeBytes"]; got != int64(1000) {
		t.Errorf("Similarities[sizeBytes] = %v, want 1000", got)
	}
}

// TestCompareDifferences tests that a differing field moves to Differences
// with one value per input file, in input order.
func TestCompareDifferences(t *testing.T) {
	t.Parallel()

	a := okVideoRecord("a.mp4", "h264", 1000, 10, 1000000)
	b := okVideoRecord("b.mp4", "hevc", 1000, 10, 1000000)

	cmp := Compare([]Record{a, b})

	diffs, ok := cmp.Differences["video.codec"]
	if !ok {
		t.Fatalf("video.codec missing from Differences: %v", cmp.Differences)
	}
	if len(diffs) != 2 {
		t.Fatalf("got %d difference values, want 2", len(diffs))
	}
	if diffs[0].Path != "a.mp4" || diffs[0].Value != "h264" {
		t.Errorf("diffs[0] = %+v", diffs[0])
	}
	if diffs[1].Path != "b.mp4" || diffs[1].Value != "hevc" {
		t.Errorf("diffs[1] = %+v", diffs[1])
	}

	if _, also := cmp.Similarities["video.codec"]; also {
		t.Error("a field must not appear in both Similarities and Differences")
	}
	if got := cmp.Similarities["durationSec"]; got != 10.0 {
		t.Errorf("Similarities[durationSec] = %v, want 10", got)
	}
}

// TestCompareAbsentEqualsBlank tests that a missing stream and a blank field
// value compare equal.
func TestCompareAbsentEqualsBlank(t *testing.T) {
	t.Parallel()

	a := okVideoRecord("a.mkv", "h264", 1000, 10, 1000000)
	a.Audio = nil
	b := okVideoRecord("b.mkv", "h264", 1000, 10, 1000000)
	b.Audio.Codec = ""
	b.Audio.SampleRate = nil
	b.Audio.Channels = 0

	cmp := Compare([]Record{a, b})

	for _, field := range []string{"audio.codec", "audio.sampleRate"} {
		if _, diff := cmp.Differences[field]; diff {
			t.Errorf("%s should be a similarity when absent on one side and blank on the other", field)
		}
		if v, ok := cmp.Similarities[field]; !ok || v != nil {
			t.Errorf("Similarities[%s] = %v, want nil", field, v)
		}
	}
	// Channels 0 vs a missing stream also collapse to equal values only when
	// both sides are absent; here one side reports 0 explicitly.
	if _, diff := cmp.Differences["audio.channels"]; !diff {
		t.Error("audio.channels should differ: nil vs 0")
	}
}

// TestCompareThreeFiles tests comparison over more than two inputs.
func TestCompareThreeFiles(t *testing.T) {
	t.Parallel()

	a := okVideoRecord("a.mp4", "h264", 1000, 10, 1000000)
	b := okVideoRecord("b.mp4", "h264", 2000, 10, 1000000)
	c := okVideoRecord("c.mp4", "h264", 1000, 10, 1000000)

	cmp := Compare([]Record{a, b, c})

	diffs := cmp.Differences["sizeBytes"]
	if len(diffs) != 3 {
		t.Fatalf("sizeBytes diffs = %v, want 3 values", diffs)
	}
	if diffs[1].Value != int64(2000) {
		t.Errorf("diffs[1].Value = %v, want 2000", diffs[1].Value)
	}
}

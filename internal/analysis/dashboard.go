package analysis

import (
	"sort"
	"strconv"
)

// UnknownKey is the bucket for ok records whose value for a dimension is
// blank or absent. Such records are counted, never dropped.
const UnknownKey = "(unknown)"

// Bucket is one grouped value within a dashboard dimension.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// NumericRange holds the min/max of a numeric field over ok records. Both
// bounds are nil when no ok record carries the field.
type NumericRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Totals summarizes a record set. Sums and ranges consider ok records only.
type Totals struct {
	AnalyzedOKCount    int          `json:"analyzedOkCount"`
	AnalyzedErrorCount int          `json:"analyzedErrorCount"`
	TotalSizeBytes     int64        `json:"totalSizeBytes"`
	TotalDurationSec   float64      `json:"totalDurationSec"`
	BitRate            NumericRange `json:"bitRate"`
	DurationSec        NumericRange `json:"durationSec"`
}

// Dashboard is the on-demand aggregate view over a set of records. It is
// never persisted. An empty input produces zero totals and one empty bucket
// list per dimension.
type Dashboard struct {
	Totals     Totals              `json:"totals"`
	Dimensions map[string][]Bucket `json:"dimensions"`
}

// Dimension names, in display order. The store's aggregation mirrors this
// list so both paths produce the same shape.
var DimensionNames = []string{
	"kind",
	"container",
	"videoCodec",
	"pixelFormat",
	"frameRate",
	"audioCodec",
	"sampleRate",
	"channels",
	"resolution",
}

// dimensionKeys maps each dimension to its record key extractor. A returned
// empty string lands the record in the UnknownKey bucket.
var dimensionKeys = map[string]func(*Record) string{
	"kind": func(r *Record) string { return string(r.Kind) },
	"container": func(r *Record) string {
		if r.Container == nil {
			return ""
		}
		return r.Container.FormatName
	},
	"videoCodec": func(r *Record) string {
		if r.Video == nil {
			return ""
		}
		return r.Video.Codec
	},
	"pixelFormat": func(r *Record) string {
		if r.Video == nil {
			return ""
		}
		return r.Video.PixelFormat
	},
	"frameRate": func(r *Record) string {
		if r.Video == nil || r.Video.FrameRate == nil {
			return ""
		}
		return strconv.FormatFloat(*r.Video.FrameRate, 'g', -1, 64)
	},
	"audioCodec": func(r *Record) string {
		if r.Audio == nil {
			return ""
		}
		return r.Audio.Codec
	},
	"sampleRate": func(r *Record) string {
		if r.Audio == nil || r.Audio.SampleRate == nil {
			return ""
		}
		return strconv.Itoa(*r.Audio.SampleRate)
	},
	"channels": func(r *Record) string {
		if r.Audio == nil {
			return ""
		}
		return strconv.Itoa(r.Audio.Channels)
	},
	"resolution": func(r *Record) string { return r.Resolution() },
}

// Summarize computes a Dashboard from an in-memory batch of records. It is a
// pure function and touches no storage.
func Summarize(records []Record) *Dashboard {
	dash := &Dashboard{
		Dimensions: make(map[string][]Bucket, len(DimensionNames)),
	}

	counts := make(map[string]map[string]int, len(DimensionNames))
	for _, name := range DimensionNames {
		counts[name] = make(map[string]int)
	}

	for i := range records {
		rec := &records[i]
		if !rec.OK() {
			dash.Totals.AnalyzedErrorCount++
			continue
		}
		dash.Totals.AnalyzedOKCount++
		dash.Totals.TotalSizeBytes += rec.SizeBytes

		if rec.DurationSec != nil {
			dash.Totals.TotalDurationSec += *rec.DurationSec
			extendRange(&dash.Totals.DurationSec, *rec.DurationSec)
		}
		if rec.BitRate != nil {
			extendRange(&dash.Totals.BitRate, float64(*rec.BitRate))
		}

		for _, name := range DimensionNames {
			key := dimensionKeys[name](rec)
			if key == "" {
				key = UnknownKey
			}
			counts[name][key]++
		}
	}

	for _, name := range DimensionNames {
		dash.Dimensions[name] = SortBuckets(counts[name])
	}

	return dash
}

// SortBuckets converts a key→count map into a bucket list sorted by count
// descending, then key ascending. Always returns a non-nil slice.
func SortBuckets(counts map[string]int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, Bucket{Key: key, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

func extendRange(r *NumericRange, v float64) {
	if r.Min == nil || v < *r.Min {
		min := v
		r.Min = &min
	}
	if r.Max == nil || v > *r.Max {
		max := v
		r.Max = &max
	}
}

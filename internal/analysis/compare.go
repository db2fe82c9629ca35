package analysis

// FileIdentity echoes an input file for display alongside a comparison.
type FileIdentity struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// FieldValue is one file's value for a differing field, parallel to the
// input record order.
type FieldValue struct {
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// Comparison partitions the fixed comparison field set into fields identical
// across every input record and fields that differ.
type Comparison struct {
	Files        []FileIdentity          `json:"files"`
	Similarities map[string]interface{}  `json:"similarities"`
	Differences  map[string][]FieldValue `json:"differences"`
}

// compareFields is the fixed, ordered field set considered by Compare.
// Extractors return nil for absent values; empty strings normalize to nil so
// "missing" compares equal to "blank".
var compareFields = []struct {
	name    string
	extract func(*Record) interface{}
}{
	{"kind", func(r *Record) interface{} { return normalizeValue(string(r.Kind)) }},
	{"sizeBytes", func(r *Record) interface{} { return r.SizeBytes }},
	{"container.formatName", func(r *Record) interface{} {
		if r.Container == nil {
			return nil
		}
		return normalizeValue(r.Container.FormatName)
	}},
	{"video.codec", func(r *Record) interface{} {
		if r.Video == nil {
			return nil
		}
		return normalizeValue(r.Video.Codec)
	}},
	{"video.width", func(r *Record) interface{} {
		if r.Video == nil {
			return nil
		}
		return r.Video.Width
	}},
	{"video.height", func(r *Record) interface{} {
		if r.Video == nil {
			return nil
		}
		return r.Video.Height
	}},
	{"audio.codec", func(r *Record) interface{} {
		if r.Audio == nil {
			return nil
		}
		return normalizeValue(r.Audio.Codec)
	}},
	{"audio.sampleRate", func(r *Record) interface{} {
		if r.Audio == nil || r.Audio.SampleRate == nil {
			return nil
		}
		return *r.Audio.SampleRate
	}},
	{"audio.channels", func(r *Record) interface{} {
		if r.Audio == nil {
			return nil
		}
		return r.Audio.Channels
	}},
	{"durationSec", func(r *Record) interface{} {
		if r.DurationSec == nil {
			return nil
		}
		return *r.DurationSec
	}},
	{"bitRate", func(r *Record) interface{} {
		if r.BitRate == nil {
			return nil
		}
		return *r.BitRate
	}},
}

// Compare partitions the fixed field set over two or more ok records.
// Callers validate the input (at least two records, none of them error
// records) before calling; Compare itself applies no such checks.
func Compare(records []Record) Comparison {
	cmp := Comparison{
		Files:        make([]FileIdentity, 0, len(records)),
		Similarities: make(map[string]interface{}),
		Differences:  make(map[string][]FieldValue),
	}

	for i := range records {
		cmp.Files = append(cmp.Files, FileIdentity{
			Path: records[i].Path,
			Name: records[i].Name,
		})
	}

	for _, field := range compareFields {
		values := make([]interface{}, len(records))
		same := true
		for i := range records {
			values[i] = field.extract(&records[i])
			if i > 0 && values[i] != values[0] {
				same = false
			}
		}

		if same {
			cmp.Similarities[field.name] = values[0]
			continue
		}

		diffs := make([]FieldValue, len(records))
		for i := range records {
			diffs[i] = FieldValue{Path: records[i].Path, Value: values[i]}
		}
		cmp.Differences[field.name] = diffs
	}

	return cmp
}

// normalizeValue maps empty strings to nil so blank and absent compare equal.
func normalizeValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"media-inspector/internal/analysis"
	"media-inspector/internal/logging"
)

// FilterField names a metadata filter understood by Search and
// DistinctValues.
type FilterField string

const (
	FilterKind       FilterField = "kind"
	FilterContainer  FilterField = "container"
	FilterVideoCodec FilterField = "videoCodec"
	FilterAudioCodec FilterField = "audioCodec"
	FilterResolution FilterField = "resolution"
)

// filterColumns declares how each filter field maps onto the denormalized
// columns. The one list drives both the search predicates and the
// distinct-value queries, so adding a field means adding one entry here.
var filterColumns = []struct {
	Field  FilterField
	Column string // SQL expression over the analyses table
}{
	{FilterKind, "kind"},
	{FilterContainer, "container_format"},
	{FilterVideoCodec, "video_codec"},
	{FilterAudioCodec, "audio_codec"},
	{FilterResolution, "CAST(width AS TEXT) || 'x' || CAST(height AS TEXT)"},
}

// SearchOptions describes a store-backed search. Filters hold exact-match
// metadata filters keyed by FilterField; Name is a case-insensitive
// substring match against the path; ScopePrefix restricts to a subtree with
// literal prefix semantics.
type SearchOptions struct {
	Filters     map[FilterField]string
	Name        string
	ScopePrefix string
	Limit       int
	Offset      int
}

// SearchResult is one page of matching ok records plus the total match count
// independent of the page window.
type SearchResult struct {
	Records []analysis.Record `json:"records"`
	Total   int               `json:"total"`
}

// DistinctValues returns the sorted, deduplicated non-blank values observed
// for one filter field across ok records. Used to populate filter choices.
func (s *Store) DistinctValues(ctx context.Context, field FilterField) ([]string, error) {
	if !s.Available() {
		return []string{}, nil
	}

	column := ""
	for _, fc := range filterColumns {
		if fc.Field == field {
			column = fc.Column
			break
		}
	}
	if column == "" {
		return nil, fmt.Errorf("unknown filter field %q", field)
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("distinct_values", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT DISTINCT %s AS v FROM analyses
		WHERE is_ok = 1 AND %s IS NOT NULL AND %s != ''
		ORDER BY v
	`, column, column, column)

	s.mu.RLock()
	rows, err := s.db.QueryContext(ctx, query)
	s.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("distinct query failed: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err = rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		values = append(values, v)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return values, nil
}

// Search returns a page of ok records matching every supplied filter,
// ordered by path ascending, plus the full match count.
func (s *Store) Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	result := &SearchResult{Records: []analysis.Record{}}
	if !s.Available() {
		return result, nil
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("search", start, err) }()

	where, args := s.buildSearchPredicate(opts)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	s.mu.RLock()
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM analyses "+where, args...,
	).Scan(&result.Total)
	s.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	selectQuery := "SELECT record FROM analyses " + where + " ORDER BY path ASC LIMIT ? OFFSET ?"
	selectArgs := append(args, limit, offset)

	s.mu.RLock()
	rows, err := s.db.QueryContext(ctx, selectQuery, selectArgs...)
	s.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("select query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blob string
		if err = rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		var rec analysis.Record
		if decErr := json.Unmarshal([]byte(blob), &rec); decErr != nil {
			logging.Warn("corrupt record blob in search result: %v", decErr)
			continue
		}
		result.Records = append(result.Records, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// buildSearchPredicate assembles the WHERE clause from the declarative
// filter list plus the name/scope filters. Only ok records ever match.
func (s *Store) buildSearchPredicate(opts SearchOptions) (string, []interface{}) {
	conds := []string{"is_ok = 1"}
	args := []interface{}{}

	for _, fc := range filterColumns {
		value, set := opts.Filters[fc.Field]
		if !set || value == "" {
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = ?", fc.Column))
		args = append(args, value)
	}

	if opts.Name != "" {
		conds = append(conds, `path LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.Name)+"%")
	}

	if opts.ScopePrefix != "" {
		// Literal prefix semantics: wildcards in the prefix are escaped so
		// they match themselves.
		conds = append(conds, `path LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(opts.ScopePrefix)+"%")
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Aggregate computes the dashboard shape over stored records under a path
// prefix, without touching the file tree. Records are decoded from the blob
// column and summarized with the same pure aggregation the in-memory
// dashboard uses, so both paths agree bucket for bucket.
func (s *Store) Aggregate(ctx context.Context, scopePrefix string) (*analysis.Dashboard, error) {
	if !s.Available() {
		return analysis.Summarize(nil), nil
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("aggregate", start, err) }()

	query := "SELECT record FROM analyses"
	args := []interface{}{}
	if scopePrefix != "" {
		query += ` WHERE path LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(scopePrefix)+"%")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.mu.RLock()
	rows, err := s.db.QueryContext(ctx, query, args...)
	s.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("aggregate query failed: %w", err)
	}
	defer rows.Close()

	var records []analysis.Record
	for rows.Next() {
		var blob string
		if err = rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		var rec analysis.Record
		if decErr := json.Unmarshal([]byte(blob), &rec); decErr != nil {
			logging.Warn("corrupt record blob in aggregate: %v", decErr)
			continue
		}
		records = append(records, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return analysis.Summarize(records), nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-inspector/internal/analysis"
	"media-inspector/internal/logging"
	"media-inspector/internal/metrics"
)

// Default timeout for store operations
const defaultTimeout = 5 * time.Second

// Store is the persistent table of analysis records, keyed by path.
//
// A nil *Store is a valid, permanently-disabled store: every operation on it
// degrades to an empty or neutral result. Callers that need to distinguish
// "disabled" from "no matches" check Available first.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (creating if necessary) the analysis database at dbPath. The
// parent directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Analysis database path: %s", dbPath)

	// WAL mode and a busy timeout keep concurrent watcher/HTTP writes from
	// tripping over "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info("Analysis store initialized at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	// The scalar columns are denormalized from the record blob at write time
	// purely for query performance; the blob stays the source of truth
	// returned to callers.
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		path TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		modified_at INTEGER NOT NULL,
		analyzed_at INTEGER NOT NULL,
		container_format TEXT,
		video_codec TEXT,
		audio_codec TEXT,
		width INTEGER,
		height INTEGER,
		duration_sec REAL,
		bit_rate INTEGER,
		is_ok INTEGER NOT NULL DEFAULT 1,
		record TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_kind ON analyses(kind);
	CREATE INDEX IF NOT EXISTS idx_analyses_container ON analyses(container_format);
	CREATE INDEX IF NOT EXISTS idx_analyses_video_codec ON analyses(video_codec);
	CREATE INDEX IF NOT EXISTS idx_analyses_audio_codec ON analyses(audio_codec);
	CREATE INDEX IF NOT EXISTS idx_analyses_resolution ON analyses(width, height);
	CREATE INDEX IF NOT EXISTS idx_analyses_ok ON analyses(is_ok);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Available reports whether the store is configured and usable.
func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if !s.Available() {
		return nil
	}
	return s.db.Close()
}

// UpsertResult reports how many records an upsert attempted vs stored.
type UpsertResult struct {
	Attempted int `json:"attempted"`
	Stored    int `json:"stored"`
}

// Upsert inserts or fully replaces one row per record, keyed by path, and
// refreshes analyzed_at. Records with an empty path are counted as attempted
// but silently skipped. Idempotent: re-upserting the same record leaves one
// row for its path.
func (s *Store) Upsert(ctx context.Context, records []analysis.Record) (UpsertResult, error) {
	res := UpsertResult{Attempted: len(records)}
	if !s.Available() {
		return res, nil
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("upsert", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin upsert transaction: %w", err)
	}

	query := `
	INSERT INTO analyses (
		path, kind, size_bytes, modified_at, analyzed_at,
		container_format, video_codec, audio_codec, width, height,
		duration_sec, bit_rate, is_ok, record
	)
	VALUES (?, ?, ?, ?, strftime('%s', 'now'), ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		kind = excluded.kind,
		size_bytes = excluded.size_bytes,
		modified_at = excluded.modified_at,
		analyzed_at = strftime('%s', 'now'),
		container_format = excluded.container_format,
		video_codec = excluded.video_codec,
		audio_codec = excluded.audio_codec,
		width = excluded.width,
		height = excluded.height,
		duration_sec = excluded.duration_sec,
		bit_rate = excluded.bit_rate,
		is_ok = excluded.is_ok,
		record = excluded.record
	`

	for i := range records {
		rec := &records[i]
		if rec.Path == "" {
			continue
		}

		blob, encErr := json.Marshal(rec)
		if encErr != nil {
			logging.Warn("failed to encode record for %s: %v", rec.Path, encErr)
			continue
		}

		cols := scalarColumns(rec)
		if _, execErr := tx.ExecContext(ctx, query,
			rec.Path,
			string(rec.Kind),
			rec.SizeBytes,
			rec.ModifiedAt.Unix(),
			cols.containerFormat,
			cols.videoCodec,
			cols.audioCodec,
			cols.width,
			cols.height,
			cols.durationSec,
			cols.bitRate,
			boolToInt(rec.OK()),
			string(blob),
		); execErr != nil {
			logging.Warn("failed to upsert record for %s: %v", rec.Path, execErr)
			continue
		}
		res.Stored++
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit upsert: %w", err)
	}

	s.updateRecordGauge(ctx)
	return res, nil
}

// GetByPaths returns the stored record for each requested path. Paths with
// no stored analysis are simply absent from the result; absence means "not
// yet analyzed", not an error.
func (s *Store) GetByPaths(ctx context.Context, paths []string) (map[string]analysis.Record, error) {
	result := make(map[string]analysis.Record, len(paths))
	if !s.Available() || len(paths) == 0 {
		return result, nil
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("get_by_paths", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	placeholders := strings.Repeat("?,", len(paths))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(paths))
	for i, p := range paths {
		args[i] = p
	}

	s.mu.RLock()
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, record FROM analyses WHERE path IN ("+placeholders+")",
		args...,
	)
	s.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("batch lookup failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path, blob string
		if err = rows.Scan(&path, &blob); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		var rec analysis.Record
		if decErr := json.Unmarshal([]byte(blob), &rec); decErr != nil {
			logging.Warn("corrupt record blob for %s: %v", path, decErr)
			continue
		}
		result[path] = rec
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// scalars are the denormalized columns for one record, NULL where the record
// has no value.
type scalars struct {
	containerFormat sql.NullString
	videoCodec      sql.NullString
	audioCodec      sql.NullString
	width           sql.NullInt64
	height          sql.NullInt64
	durationSec     sql.NullFloat64
	bitRate         sql.NullInt64
}

func scalarColumns(rec *analysis.Record) scalars {
	var c scalars
	if rec.Container != nil && rec.Container.FormatName != "" {
		c.containerFormat = sql.NullString{String: rec.Container.FormatName, Valid: true}
	}
	if rec.Video != nil {
		if rec.Video.Codec != "" {
			c.videoCodec = sql.NullString{String: rec.Video.Codec, Valid: true}
		}
		if rec.Video.Width > 0 && rec.Video.Height > 0 {
			c.width = sql.NullInt64{Int64: int64(rec.Video.Width), Valid: true}
			c.height = sql.NullInt64{Int64: int64(rec.Video.Height), Valid: true}
		}
	}
	if rec.Audio != nil && rec.Audio.Codec != "" {
		c.audioCodec = sql.NullString{String: rec.Audio.Codec, Valid: true}
	}
	if rec.DurationSec != nil {
		c.durationSec = sql.NullFloat64{Float64: *rec.DurationSec, Valid: true}
	}
	if rec.BitRate != nil {
		c.bitRate = sql.NullInt64{Int64: *rec.BitRate, Valid: true}
	}
	return c
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) updateRecordGauge(ctx context.Context) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&count); err == nil {
		metrics.StoreRecords.Set(float64(count))
	}
}

// recordQuery records store query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StoreQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.StoreQueryDuration.WithLabelValues(operation).Observe(duration)
}

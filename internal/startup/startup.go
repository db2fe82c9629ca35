package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"media-inspector/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration, read from the environment.
type Config struct {
	MediaDir    string `env:"MEDIA_DIR" env-default:"/media"`
	DatabaseDir string `env:"DATABASE_DIR" env-default:"/database"`
	Port        string `env:"PORT" env-default:"8080"`

	// StoreEnabled turns persistence off entirely; the system then runs
	// degraded (no metadata search, no stored dashboard).
	StoreEnabled bool `env:"STORE_ENABLED" env-default:"true"`

	ProbeBinary  string        `env:"PROBE_BINARY" env-default:"ffprobe"`
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT" env-default:"30s"`

	WatchEnabled  bool          `env:"WATCH_ENABLED" env-default:"true"`
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE" env-default:"2s"`

	AnalyzeChunkSize int `env:"ANALYZE_CHUNK_SIZE" env-default:"100"`
	SearchMaxLimit   int `env:"SEARCH_MAX_LIMIT" env-default:"200"`
	ProbeCacheSize   int `env:"PROBE_CACHE_SIZE" env-default:"4096"`

	// Derived
	DatabasePath string
}

// LoadConfig loads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  MEDIA_DIR:          %s", cfg.MediaDir)
	logging.Info("  DATABASE_DIR:       %s", cfg.DatabaseDir)
	logging.Info("  PORT:               %s", cfg.Port)
	logging.Info("  STORE_ENABLED:      %v", cfg.StoreEnabled)
	logging.Info("  PROBE_BINARY:       %s", cfg.ProbeBinary)
	logging.Info("  PROBE_TIMEOUT:      %s", cfg.ProbeTimeout)
	logging.Info("  WATCH_ENABLED:      %v", cfg.WatchEnabled)
	logging.Info("  WATCH_DEBOUNCE:     %s", cfg.WatchDebounce)
	logging.Info("  ANALYZE_CHUNK_SIZE: %d", cfg.AnalyzeChunkSize)
	logging.Info("  SEARCH_MAX_LIMIT:   %d", cfg.SearchMaxLimit)
	logging.Info("  PROBE_CACHE_SIZE:   %d", cfg.ProbeCacheSize)
	logging.Info("  LOG_LEVEL:          %s", logging.GetLevel())

	mediaDir, err := filepath.Abs(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	cfg.MediaDir = mediaDir

	if err := ensureDirectory(cfg.MediaDir, "media"); err != nil {
		logging.Warn("  Media directory issue: %v", err)
	}

	if cfg.StoreEnabled {
		databaseDir, err := filepath.Abs(cfg.DatabaseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
		}
		cfg.DatabaseDir = databaseDir
		cfg.DatabasePath = filepath.Join(databaseDir, "inspector.db")

		if err := ensureDirectory(databaseDir, "database"); err != nil {
			return nil, fmt.Errorf("database directory error: %w", err)
		}
		if err := testWriteAccess(databaseDir); err != nil {
			return nil, fmt.Errorf("database directory is not writable: %w", err)
		}
		logging.Info("  [OK] Database directory is writable")
	} else {
		logging.Warn("  Persistence disabled: running without an analysis store")
	}

	return &cfg, nil
}

// ensureDirectory checks that a directory exists, creating it if missing.
func ensureDirectory(dir, label string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s path %s exists but is not a directory", label, dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access %s directory %s: %w", label, dir, err)
	}

	logging.Info("  Creating %s directory: %s", label, dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", label, err)
	}
	return nil
}

// testWriteAccess verifies a directory is writable by creating and removing
// a probe file.
func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return err
	}
	return os.Remove(testFile)
}

// LogFatal logs a fatal startup error and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

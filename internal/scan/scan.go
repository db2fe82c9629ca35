package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"media-inspector/internal/analysis"
	"media-inspector/internal/logging"
	"media-inspector/internal/mediakind"
)

// ErrPathEscape marks a relative path that resolves outside the media root.
// Such paths are rejected before any filesystem or probe access.
var ErrPathEscape = errors.New("path escapes media root")

// Root is the resolved media root every path in the system is anchored to.
type Root struct {
	dir string
}

// NewRoot resolves dir to an absolute path. The directory must exist.
func NewRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("media root not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("media root %s is not a directory", abs)
	}

	return &Root{dir: abs}, nil
}

// Dir returns the absolute media root directory.
func (r *Root) Dir() string {
	return r.dir
}

// Resolve turns a root-relative path into an absolute one, rejecting any
// input that escapes the root (.. traversal, absolute paths).
func (r *Root) Resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) {
		return "", ErrPathEscape
	}

	abs := filepath.Join(r.dir, cleaned)
	if abs != r.dir && !strings.HasPrefix(abs, r.dir+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return abs, nil
}

// Rel converts an absolute path inside the root back to the canonical
// POSIX-style relative form records are keyed by.
func (r *Root) Rel(absPath string) (string, error) {
	rel, err := filepath.Rel(r.dir, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrPathEscape
	}
	return filepath.ToSlash(rel), nil
}

// Contains reports whether absPath lies inside the root. Used by the watcher
// as a boundary check on incoming event paths.
func (r *Root) Contains(absPath string) bool {
	_, err := r.Rel(filepath.Clean(absPath))
	return err == nil
}

// Stat returns the normalizer's view of one root-relative path.
func (r *Root) Stat(relPath string) (analysis.FileStat, error) {
	abs, err := r.Resolve(relPath)
	if err != nil {
		return analysis.FileStat{}, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return analysis.FileStat{}, err
	}

	return analysis.FileStat{
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime(),
		IsRegular:  info.Mode().IsRegular(),
	}, nil
}

// ListMediaFiles walks the tree under scope (root-relative, "" for the whole
// root) and returns the relative paths of all regular media files, in walk
// order. Hidden files and directories are skipped, as are files whose
// extension no media kind claims.
func (r *Root) ListMediaFiles(scope string) ([]string, error) {
	base, err := r.Resolve(scope)
	if err != nil {
		return nil, err
	}

	var files []string
	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn("error accessing path %s: %v", path, err)
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") && path != base {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if !mediakind.IsMediaFile(path) {
			return nil
		}

		rel, relErr := r.Rel(path)
		if relErr != nil {
			return nil
		}
		files = append(files, rel)
		return nil
	})

	if walkErr != nil {
		return nil, fmt.Errorf("walk error: %w", walkErr)
	}
	return files, nil
}

package artifacts

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
)

// Scanner walks an artifact directory tree and yields file paths
type Scanner struct {
	log *slog.Logger
}

// NewScanner creates a new artifact scanner
func NewScanner(log *slog.Logger) *Scanner {
	return &Scanner{log: log}
}

// Scan returns every file below root whose root-relative path does not match
// exclude and, when include is non-empty, does match include. Unreadable entries below the
// root are skipped with a warning; an unreadable root is an error.
func (s *Scanner) Scan(root, exclude, include string) ([]string, error) {
	var excludeRe, includeRe *regexp.Regexp
	var err error
	if exclude != "" {
		if excludeRe, err = regexp.Compile(exclude); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", exclude, err)
		}
	}
	if include != "" {
		if includeRe, err = regexp.Compile(include); err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			s.log.Warn("skipping unreadable artifact entry", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		// Patterns apply to the path below root so the root's own location never filters
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		slashed := filepath.ToSlash(rel)
		if excludeRe != nil && excludeRe.MatchString(slashed) {
			return nil
		}
		if includeRe != nil && !includeRe.MatchString(slashed) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifacts in %s: %w", root, err)
	}

	return files, nil
}

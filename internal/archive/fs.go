// Package archive stores the raw HTML of fetched listing pages on the local
// filesystem so failed parses can be inspected after the fact.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes fetched page bodies under a base directory, one file per
// page, named page-N.html.
type Store struct {
	baseDir string
}

// New creates the base directory when missing and verifies it is writable.
func New(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("archive directory is required")
	}

	info, err := os.Stat(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(baseDir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("create archive directory: %w", mkErr)
			}
		} else {
			return nil, fmt.Errorf("stat archive directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("archive path is not a directory")
	}

	// Probe for write permissions up front so the run fails before any
	// pages are fetched.
	probe := filepath.Join(baseDir, ".writable_test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("archive directory is not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("clean up probe file: %w", err)
	}

	return &Store{baseDir: baseDir}, nil
}

// SavePage writes body to page-N.html under the base directory, overwriting
// any previous run's copy, and returns the file path.
func (s *Store) SavePage(page int, body []byte) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("page number must be >= 1, got %d", page)
	}

	path := filepath.Join(s.baseDir, fmt.Sprintf("page-%d.html", page))
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", fmt.Errorf("write page file: %w", err)
	}
	return path, nil
}

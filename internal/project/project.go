// Package project locates the root directory a snapshot is taken of
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMarkers are the entries that identify a project root
var DefaultMarkers = []string{".git", "go.mod", "package.json"}

// FindRoot walks up from start to the nearest directory that contains one of
// markers (DefaultMarkers when none are given). If no ancestor has a marker,
// start itself is returned.
func FindRoot(start string, markers ...string) (string, error) {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}

	absStart, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("project: failed to get absolute path for '%s': %w", start, err)
	}

	info, err := os.Stat(absStart)
	if err != nil {
		return "", fmt.Errorf("project: cannot access '%s': %w", absStart, err)
	}
	if !info.IsDir() {
		absStart = filepath.Dir(absStart)
	}

	for dir := absStart; ; {
		for _, marker := range markers {
			if _, err := os.Lstat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return absStart, nil
		}
		dir = parent
	}
}

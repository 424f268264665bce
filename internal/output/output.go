// Package output persists finished snapshots under a date-named directory
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// DayLayout names the per-day directory, e.g. Mon-10-19-2026
	DayLayout = "Mon-01-02-2006"
	// ClockLayout is the time part of the file name, e.g. 2-05-pm
	ClockLayout = "3-04-pm"

	lockFileName = ".snapshot.lock"
)

// Path returns where the snapshot taken at now is stored:
// <outputDir>/<Mon-01-02-2006>/snap-<Mon-01-02-2006>--<3-04-pm>.md
func Path(outputDir string, now time.Time, ext string) string {
	if ext == "" {
		ext = ".md"
	}
	day := now.Format(DayLayout)
	name := fmt.Sprintf("snap-%s--%s%s", day, now.Format(ClockLayout), ext)
	return filepath.Join(outputDir, day, name)
}

// Write stores data at path in one step. Missing directories are created, a
// lock file in the target directory serialises concurrent writers, and data
// is written to a temp file that is renamed into place, so a failed run never
// leaves a partial snapshot behind.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output: failed to create directory %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("output: failed to acquire lock on %s: %w", dir, err)
	}
	defer lock.Unlock()

	return atomicWrite(path, data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	// Same directory as the target so the rename stays on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-snap-*")
	if err != nil {
		return fmt.Errorf("output: failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	cleanup := func() {
		tempFile.Close()
		os.Remove(tempPath)
	}

	if _, err := tempFile.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("output: failed to write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("output: failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("output: failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("output: failed to set permissions on %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("output: failed to write %s: %w", path, err)
	}
	return nil
}

// Package summary reports what a snapshot run did
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/dir-snapshot/internal/walker"
	"github.com/fatih/color"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// Stats are the counts reported after a run
type Stats struct {
	Files        int
	Dirs         int
	Placeholders int
	Skipped      int
	Destination  string
	Duration     time.Duration
}

// DisplayResults shows the end results of a snapshot run
func DisplayResults(logger Logger, stats Stats, quiet bool) {
	if quiet {
		return
	}
	logger.Info("Captured %d files in %d directories (%d placeholders, %d excluded).",
		stats.Files, stats.Dirs, stats.Placeholders, stats.Skipped)
	if stats.Destination != "" {
		logger.Info("Snapshot written to %s", stats.Destination)
	}
	logger.Info("Snapshot complete in %v.", stats.Duration.Round(time.Millisecond))
}

// DisplaySkippedItems prints every skipped item, sorted by path, to output
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) == 0 {
		infoLog("No items were skipped.")
		infoLog("--- End Skipped Items ---")
		return
	}

	items := make([]walker.SkippedItem, len(skippedItems))
	copy(items, skippedItems)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})

	dirLabel := color.New(color.FgYellow).SprintFunc()
	for _, item := range items {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = dirLabel("DIR ")
		}
		fmt.Fprintf(output, "Skipped %s: %-.*s [%s]\n",
			typeStr,
			50, // Max width for path column
			item.Path,
			item.Reason,
		)
	}
	infoLog("--- End Skipped Items ---")
}

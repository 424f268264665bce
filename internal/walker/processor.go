package walker

import (
	"fmt"
	"io/fs"
	"math"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// FileContent is the text emitted for one file: its content, or a
// placeholder when the file is too large or could not be read
type FileContent struct {
	Entry     *Entry
	Text      string
	Oversized bool
	Err       error
}

// Placeholder reports whether Text stands in for the real content
func (fc FileContent) Placeholder() bool {
	return fc.Oversized || fc.Err != nil
}

// ReadContents reads every file of the tree. Per-file failures become
// placeholders; only cancellation of the walk context returns an error.
// Results are always in Files() order, also when reads run concurrently.
func (t *Tree) ReadContents() ([]FileContent, error) {
	options := t.options
	results := make([]FileContent, len(t.files))

	var processed atomic.Int64
	var progressMu sync.Mutex
	report := func(relativePath string) {
		n := processed.Add(1)
		if options.ProgressFn == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		options.ProgressFn(ProgressStats{
			TotalFiles:      int64(len(t.files)),
			ProcessedFiles:  n,
			TotalDirs:       int64(t.dirs),
			CurrentFilePath: relativePath,
		})
	}

	if !options.Concurrent {
		options.Logger.Debug("Walker: Reading %d files sequentially.", len(t.files))
		for i, entry := range t.files {
			if err := options.Context.Err(); err != nil {
				return nil, err
			}
			results[i] = processFile(t.fsys, entry, options)
			report(entry.RelPath)
		}
		return results, nil
	}

	options.Logger.Debug("Walker: Reading %d files with %d workers.", len(t.files), options.MaxWorkers)
	g, ctx := errgroup.WithContext(options.Context)
	g.SetLimit(options.MaxWorkers)
	for i, entry := range t.files {
		i, entry := i, entry
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = processFile(t.fsys, entry, options)
			report(entry.RelPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// processFile reads one file as text. It never fails: errors and oversized
// files are turned into placeholder text.
func processFile(fsys fs.FS, entry *Entry, options WalkOptions) FileContent {
	options.Logger.Debug("processFile: Reading [%s]", entry.RelPath)

	// A UTF-8 character is at most 4 bytes, so anything larger is certainly
	// over the limit and is not read at all.
	if info, err := fs.Stat(fsys, entry.RelPath); err == nil && info.Mode().IsRegular() &&
		info.Size() > int64(options.MaxChars)*utf8.UTFMax {
		options.Logger.Debug("processFile Skipping [%s]: %d bytes exceeds limit", entry.RelPath, info.Size())
		return FileContent{Entry: entry, Text: tooLargePlaceholder(info.Size()), Oversized: true}
	}

	content, err := fs.ReadFile(fsys, entry.RelPath)
	if err != nil {
		options.Logger.Warn("processFile Error [%s]: Failed to read file: %v", entry.RelPath, err)
		return FileContent{Entry: entry, Text: readErrorPlaceholder(err), Err: err}
	}

	// Every invalid byte decodes to its own U+FFFD, in the count and the text
	if utf8.RuneCount(content) > options.MaxChars {
		options.Logger.Debug("processFile Skipping [%s]: more than %d characters", entry.RelPath, options.MaxChars)
		return FileContent{Entry: entry, Text: tooLargePlaceholder(int64(len(content))), Oversized: true}
	}

	options.Logger.Debug("processFile Success [%s]: Read %d bytes.", entry.RelPath, len(content))
	return FileContent{Entry: entry, Text: decodeText(content)}
}

// decodeText returns content as UTF-8 text, replacing each invalid byte with
// utf8.RuneError
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return string([]rune(string(content)))
}

func tooLargePlaceholder(size int64) string {
	kb := int64(math.Round(float64(size) / 1024))
	return fmt.Sprintf("[File too large to display: ~%d KB]", kb)
}

func readErrorPlaceholder(err error) string {
	return fmt.Sprintf("[Error reading file: %v]", err)
}

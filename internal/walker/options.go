package walker

import (
	"context"
	"io/fs"
	"strings"

	"github.com/bethropolis/dir-snapshot/internal/utils"
)

// DefaultMaxChars is the largest file, in characters, whose content is
// included verbatim
const DefaultMaxChars = 100_000

// WalkOptions configures BuildTree and the content pass that follows it
type WalkOptions struct {
	Logger       utils.Logger
	FS           fs.FS // nil means the real tree below root
	Locale       string
	Concurrent   bool
	MaxWorkers   int
	MaxChars     int
	ExtensionMap map[string]struct{}
	Context      context.Context
	ProgressFn   ProgressCallback
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the content pass
type ProgressStats struct {
	TotalFiles      int64  // Files in the tree
	ProcessedFiles  int64  // Files read so far
	TotalDirs       int64  // Directories in the tree
	CurrentFilePath string // Path of the file just read (relative)
}

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:     utils.NoopLogger{},
		Locale:     "en",
		Concurrent: false,
		MaxWorkers: 10,
		MaxChars:   DefaultMaxChars,
		Context:    context.Background(),
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		opts.Logger = utils.OrNoop(logger)
	}
}

// WithFS lists and reads entries through fsys instead of the real filesystem.
// fsys must be rooted at the walk root.
func WithFS(fsys fs.FS) Option {
	return func(opts *WalkOptions) {
		opts.FS = fsys
	}
}

// WithLocale sets the BCP 47 tag used to collate entry names
func WithLocale(locale string) Option {
	return func(opts *WalkOptions) {
		if locale != "" {
			opts.Locale = locale
		}
	}
}

// WithConcurrency enables or disables concurrent content reads
func WithConcurrency(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Concurrent = enabled
	}
}

// WithMaxWorkers sets the maximum number of concurrent readers
func WithMaxWorkers(workers int) Option {
	return func(opts *WalkOptions) {
		if workers > 0 {
			opts.MaxWorkers = workers
		}
	}
}

// WithMaxChars sets the size threshold above which content is replaced by a
// placeholder
func WithMaxChars(maxChars int) Option {
	return func(opts *WalkOptions) {
		if maxChars > 0 {
			opts.MaxChars = maxChars
		}
	}
}

// WithExtensions limits files to these extensions (without the dot)
func WithExtensions(extensions []string) Option {
	return func(opts *WalkOptions) {
		if len(extensions) == 0 {
			opts.ExtensionMap = nil
			return
		}
		extMap := make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			extMap[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
		opts.ExtensionMap = extMap
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}

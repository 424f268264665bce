// Package setup turns a Config into a compiled matcher and walker options
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/dir-snapshot/internal/config"
	"github.com/bethropolis/dir-snapshot/internal/ignore"
	"github.com/bethropolis/dir-snapshot/internal/utils"
	"github.com/bethropolis/dir-snapshot/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// ReadRules loads the exclusion file of root. A missing file yields no rules.
func ReadRules(root, ignoreFile string) ([]string, error) {
	if ignoreFile == "" {
		return nil, nil
	}
	path := ignoreFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, ignoreFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("setup: failed to read exclusion file %s: %w", path, err)
	}
	return ignore.ParseRules(string(data)), nil
}

// ConfigureMatcher compiles the exclusion file plus any extra rules from cfg.
// The output directory is always reserved.
func ConfigureMatcher(root string, cfg *config.Config, log utils.Logger, infoLog InfoLogger) (*ignore.Matcher, error) {
	rules, err := ReadRules(root, cfg.IgnoreFile)
	if err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		infoLog("Loaded %d exclusion rules from %s", len(rules), cfg.IgnoreFile)
	}

	// --- Extra patterns from flags/config ---
	var extra []string
	for _, pattern := range cfg.Ignore {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			extra = append(extra, pattern)
		}
	}
	if len(extra) > 0 {
		infoLog("Using custom ignore patterns: %v", extra)
		rules = append(rules, extra...)
	}

	if cfg.IgnoreHidden {
		infoLog("Ignoring hidden files/directories (starting with '.').")
	}

	// An output directory outside root gives a "../" path that never matches
	outputDir := cfg.ResolveOutputDir(root)
	reserved := ignore.DefaultOutputDir
	if rel, err := filepath.Rel(root, outputDir); err == nil {
		if rel == "." {
			return nil, fmt.Errorf("setup: output directory %s is the project root; snapshots would capture earlier snapshots", outputDir)
		}
		reserved = filepath.ToSlash(rel)
	}

	matcher, err := ignore.NewFromConfig(ignore.Config{
		RootDir:      root,
		Rules:        rules,
		OutputDir:    reserved,
		Engine:       ignore.Engine(strings.ToLower(cfg.Engine)),
		IgnoreHidden: cfg.IgnoreHidden,
		IgnoreGit:    cfg.IgnoreGit,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing ignore rules: %w", err)
	}

	utils.OrNoop(log).Debug("Matcher rooted at %s reserves %q (output excluded: %v)",
		matcher.RootDir(), matcher.Reserved(), matcher.IsExcluded(outputDir, true))
	return matcher, nil
}

// ConfigureWalker builds the walker options for cfg
func ConfigureWalker(ctx context.Context, cfg *config.Config, log utils.Logger, infoLog InfoLogger, progressOut io.Writer) []walker.Option {
	walkOptions := []walker.Option{
		walker.WithLogger(log),
		walker.WithContext(ctx),
		walker.WithLocale(cfg.Locale),
		walker.WithMaxChars(cfg.MaxChars),
		walker.WithConcurrency(cfg.Concurrent),
		walker.WithMaxWorkers(cfg.MaxWorkers),
	}

	if cfg.Concurrent {
		infoLog("Using concurrent reads with %d workers.", cfg.MaxWorkers)
	}

	// --- File extensions ---
	var exts, shown []string
	for _, ext := range cfg.Extensions {
		cleanExt := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
		if cleanExt != "" {
			exts = append(exts, cleanExt)
			shown = append(shown, "."+cleanExt)
		}
	}
	if len(exts) > 0 {
		infoLog("Filtering enabled. Only including extensions: %s", strings.Join(shown, ", "))
		walkOptions = append(walkOptions, walker.WithExtensions(exts))
	}

	if cfg.ShowProgress && !cfg.Quiet && progressOut != nil {
		walkOptions = append(walkOptions, walker.WithProgress(ProgressPrinter(progressOut)))
	}

	return walkOptions
}

// ProgressPrinter returns a callback that redraws a single status line on w
func ProgressPrinter(w io.Writer) walker.ProgressCallback {
	return func(stats walker.ProgressStats) {
		path := stats.CurrentFilePath
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}
		fmt.Fprintf(w, "\rReading: %-40s | Files: %d/%d | Dirs: %d",
			path, stats.ProcessedFiles, stats.TotalFiles, stats.TotalDirs)
		if stats.ProcessedFiles == stats.TotalFiles {
			fmt.Fprintln(w)
		}
	}
}

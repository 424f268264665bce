// Package app runs one snapshot from configuration to persisted document
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bethropolis/dir-snapshot/internal/config"
	"github.com/bethropolis/dir-snapshot/internal/logger"
	"github.com/bethropolis/dir-snapshot/internal/output"
	"github.com/bethropolis/dir-snapshot/internal/printer"
	"github.com/bethropolis/dir-snapshot/internal/project"
	"github.com/bethropolis/dir-snapshot/internal/setup"
	"github.com/bethropolis/dir-snapshot/internal/snapshot"
	"github.com/bethropolis/dir-snapshot/internal/summary"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

// App encapsulates the main application functionality
type App struct {
	cfg   *config.Config
	flags *pflag.FlagSet

	// Output receives the document in --stdout mode
	Output io.Writer
	// Stderr receives logs, progress and the skipped list
	Stderr io.Writer
	// Now is the clock; it is read exactly once per run
	Now func() time.Time
	// Getwd is where root discovery starts when --dir is not given
	Getwd func() (string, error)
}

// New creates a new App instance. flags are the parsed command-line flags;
// they decide which config file values may apply.
func New(cfg *config.Config, flags *pflag.FlagSet) *App {
	return &App{
		cfg:    cfg,
		flags:  flags,
		Output: os.Stdout,
		Stderr: os.Stderr,
		Now:    time.Now,
		Getwd:  os.Getwd,
	}
}

// Run takes one snapshot. Nothing is written unless the whole document was
// built successfully.
func (a *App) Run(ctx context.Context) error {
	startTime := time.Now()
	now := a.Now()

	root, err := a.resolveRoot()
	if err != nil {
		return err
	}

	if err := a.cfg.Merge(a.cfg.ConfigPath(root), a.flags); err != nil {
		return err
	}
	stderrFile, _ := a.Stderr.(*os.File)
	a.cfg.Finalize(stderrFile)
	color.NoColor = !a.cfg.UseColors

	log := logger.New(a.Stderr, false, a.cfg.UseColors)
	if err := log.SetLevel(a.cfg.LogLevel); err != nil {
		log.Warn("%v, using info", err)
	}

	infoLog := func(format string, args ...interface{}) {
		if !a.cfg.Quiet {
			log.Info(format, args...)
		}
	}

	if log.Enabled(logger.LevelDebug) {
		log.Debug("Directory: %s", root)
		log.Debug("Output directory: %s (stdout: %v)", a.cfg.ResolveOutputDir(root), a.cfg.Stdout)
		log.Debug("Engine: %s, locale: %s, max chars: %d", a.cfg.Engine, a.cfg.Locale, a.cfg.MaxChars)
		log.Debug("Log level: %s", log.Level())
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	format, err := printer.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}

	matcher, err := setup.ConfigureMatcher(root, a.cfg, log, infoLog)
	if err != nil {
		return err
	}
	walkOptions := setup.ConfigureWalker(ctx, a.cfg, log, infoLog, a.Stderr)

	infoLog("Taking snapshot of %s", root)
	builder := snapshot.New(
		snapshot.WithLogger(log),
		snapshot.WithFormat(format),
		snapshot.WithWalkOptions(walkOptions...),
	)
	res, err := builder.Build(root, matcher, now)
	if err != nil {
		return fmt.Errorf("snapshot of %s failed: %w", root, err)
	}

	destination := ""
	if a.cfg.Stdout {
		if _, err := a.Output.Write(res.Document); err != nil {
			return fmt.Errorf("failed to write snapshot to stdout: %w", err)
		}
	} else {
		ext := ".md"
		if format == printer.FormatJSON {
			ext = ".json"
		}
		destination = output.Path(a.cfg.ResolveOutputDir(root), now, ext)
		if err := output.Write(destination, res.Document); err != nil {
			return err
		}
	}

	summary.DisplayResults(log, summary.Stats{
		Files:        res.Files,
		Dirs:         res.Tree.DirCount(),
		Placeholders: res.Placeholders,
		Skipped:      len(res.Tree.Skipped),
		Destination:  destination,
		Duration:     time.Since(startTime),
	}, a.cfg.Quiet)

	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(log, res.Tree.Skipped, a.Stderr, a.cfg.Quiet)
	}
	return nil
}

// resolveRoot validates --dir, or discovers the project root from the
// working directory
func (a *App) resolveRoot() (string, error) {
	if a.cfg.RootDir == "" {
		wd, err := a.Getwd()
		if err != nil {
			return "", fmt.Errorf("cannot determine working directory: %w", err)
		}
		return project.FindRoot(wd)
	}

	absRootDir, err := filepath.Abs(a.cfg.RootDir)
	if err != nil {
		return "", fmt.Errorf("invalid root directory path '%s': %w", a.cfg.RootDir, err)
	}

	dirInfo, err := os.Stat(absRootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("root directory '%s' not found", absRootDir)
		}
		return "", fmt.Errorf("could not access root directory '%s': %w", absRootDir, err)
	}
	if !dirInfo.IsDir() {
		return "", fmt.Errorf("specified path '%s' is not a directory", absRootDir)
	}
	return absRootDir, nil
}

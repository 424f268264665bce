// Package config holds the settings of a snapshot run. Values come from
// defaults, then an optional YAML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the project root when --config is not given
const DefaultFileName = ".dir-snapshot.yaml"

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir    string `yaml:"-"`
	ConfigFile string `yaml:"-"`
	OutputDir  string `yaml:"output_dir"`
	Stdout     bool   `yaml:"stdout"`
	Format     string `yaml:"format"`

	// Filtering settings
	IgnoreFile   string   `yaml:"ignore_file"`
	Ignore       []string `yaml:"ignore"`
	IgnoreHidden bool     `yaml:"ignore_hidden"`
	IgnoreGit    bool     `yaml:"ignore_git"`
	Engine       string   `yaml:"engine"`
	Extensions   []string `yaml:"extensions"`

	// Processing settings
	Locale     string        `yaml:"locale"`
	MaxChars   int           `yaml:"max_chars"`
	Concurrent bool          `yaml:"concurrent"`
	MaxWorkers int           `yaml:"workers"`
	Timeout    time.Duration `yaml:"timeout"`

	// Logging settings
	LogLevel     string `yaml:"log_level"`
	Verbose      bool   `yaml:"verbose"`
	Quiet        bool   `yaml:"quiet"`
	NoColor      bool   `yaml:"no_color"`
	ShowSkipped  bool   `yaml:"show_skipped"`
	ShowProgress bool   `yaml:"progress"`
	UseColors    bool   `yaml:"-"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		OutputDir:  "snapshots",
		Format:     "markdown",
		IgnoreFile: ".gitignore",
		Engine:     "basic",
		Locale:     "en",
		MaxChars:   100_000,
		MaxWorkers: runtime.NumCPU(),
		LogLevel:   "info",
	}
}

// BindFlags registers every setting on fs, using the current values of c as
// defaults
func BindFlags(fs *pflag.FlagSet, c *Config) {
	fs.StringVarP(&c.RootDir, "dir", "d", c.RootDir, "Project root to snapshot (default: nearest ancestor with .git, go.mod or package.json)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML config file (default: <root>/"+DefaultFileName+")")
	fs.StringVarP(&c.OutputDir, "output", "o", c.OutputDir, "Output directory, relative to the root unless absolute")
	fs.BoolVar(&c.Stdout, "stdout", c.Stdout, "Print the snapshot instead of writing it to the output directory")
	fs.StringVar(&c.Format, "format", c.Format, "Document format (markdown, json)")

	fs.StringVar(&c.IgnoreFile, "ignore-file", c.IgnoreFile, "Exclusion file read from the root")
	fs.StringSliceVar(&c.Ignore, "ignore", c.Ignore, "Extra exclusion rules (comma-separated)")
	fs.BoolVar(&c.IgnoreHidden, "hidden", c.IgnoreHidden, "Exclude hidden files/directories (starting with '.')")
	fs.BoolVar(&c.IgnoreGit, "git", c.IgnoreGit, "Exclude .git directories")
	fs.StringVar(&c.Engine, "engine", c.Engine, "Rule engine (basic, gitignore)")
	fs.StringSliceVar(&c.Extensions, "ext", c.Extensions, "Only include files with these extensions (comma-separated, e.g. 'go,md')")

	fs.StringVar(&c.Locale, "locale", c.Locale, "Locale used to sort entry names")
	fs.IntVar(&c.MaxChars, "max-chars", c.MaxChars, "Files longer than this many characters are replaced by a placeholder")
	fs.BoolVar(&c.Concurrent, "concurrent", c.Concurrent, "Read file contents concurrently")
	fs.IntVar(&c.MaxWorkers, "workers", c.MaxWorkers, "Max number of concurrent readers")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Maximum execution time (e.g. '30s', '5m')")

	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Logging level (debug, info, warn, error, none)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Enable debug logging")
	fs.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "Only log warnings and errors")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable color output")
	fs.BoolVar(&c.ShowSkipped, "show-skipped", c.ShowSkipped, "List excluded and skipped paths at the end")
	fs.BoolVar(&c.ShowProgress, "progress", c.ShowProgress, "Show progress while reading files")
}

// LoadFile reads a YAML config file. It returns the parsed config and true,
// or nil and false when the file does not exist.
func LoadFile(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, false, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return &fileCfg, true, nil
}

// Merge copies settings from the file config into c for every flag the user
// did not set explicitly. Only keys present in raw YAML are considered, so a
// file never resets a default it does not mention.
func (c *Config) Merge(path string, flags *pflag.FlagSet) error {
	fileCfg, ok, err := LoadFile(path)
	if err != nil || !ok {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	var present map[string]yaml.Node
	if err := yaml.Unmarshal(data, &present); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	apply := func(key, flag string, set func()) {
		if _, inFile := present[key]; !inFile {
			return
		}
		if flags != nil && flags.Changed(flag) {
			return
		}
		set()
	}

	apply("output_dir", "output", func() { c.OutputDir = fileCfg.OutputDir })
	apply("stdout", "stdout", func() { c.Stdout = fileCfg.Stdout })
	apply("format", "format", func() { c.Format = fileCfg.Format })
	apply("ignore_file", "ignore-file", func() { c.IgnoreFile = fileCfg.IgnoreFile })
	apply("ignore", "ignore", func() { c.Ignore = fileCfg.Ignore })
	apply("ignore_hidden", "hidden", func() { c.IgnoreHidden = fileCfg.IgnoreHidden })
	apply("ignore_git", "git", func() { c.IgnoreGit = fileCfg.IgnoreGit })
	apply("engine", "engine", func() { c.Engine = fileCfg.Engine })
	apply("extensions", "ext", func() { c.Extensions = fileCfg.Extensions })
	apply("locale", "locale", func() { c.Locale = fileCfg.Locale })
	apply("max_chars", "max-chars", func() { c.MaxChars = fileCfg.MaxChars })
	apply("concurrent", "concurrent", func() { c.Concurrent = fileCfg.Concurrent })
	apply("workers", "workers", func() { c.MaxWorkers = fileCfg.MaxWorkers })
	apply("timeout", "timeout", func() { c.Timeout = fileCfg.Timeout })
	apply("log_level", "log-level", func() { c.LogLevel = fileCfg.LogLevel })
	apply("verbose", "verbose", func() { c.Verbose = fileCfg.Verbose })
	apply("quiet", "quiet", func() { c.Quiet = fileCfg.Quiet })
	apply("no_color", "no-color", func() { c.NoColor = fileCfg.NoColor })
	apply("show_skipped", "show-skipped", func() { c.ShowSkipped = fileCfg.ShowSkipped })
	apply("progress", "progress", func() { c.ShowProgress = fileCfg.ShowProgress })
	return nil
}

// ConfigPath returns the config file to read for root
func (c *Config) ConfigPath(root string) string {
	if c.ConfigFile != "" {
		return c.ConfigFile
	}
	return filepath.Join(root, DefaultFileName)
}

// ResolveOutputDir returns the absolute output directory for root
func (c *Config) ResolveOutputDir(root string) string {
	if filepath.IsAbs(c.OutputDir) {
		return filepath.Clean(c.OutputDir)
	}
	return filepath.Join(root, c.OutputDir)
}

// Finalize derives settings that depend on others and the terminal
func (c *Config) Finalize(stderr *os.File) {
	if c.Verbose {
		c.LogLevel = "debug"
	} else if c.Quiet && (c.LogLevel == "" || c.LogLevel == "info") {
		c.LogLevel = "warn"
	}

	c.UseColors = !c.NoColor && stderr != nil && isatty.IsTerminal(stderr.Fd())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Config, *pflag.FlagSet) {
	t.Helper()
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, cfg)
	require.NoError(t, fs.Parse(args))
	return cfg, fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, _ := parse(t)

	assert.Equal(t, "snapshots", cfg.OutputDir)
	assert.Equal(t, ".gitignore", cfg.IgnoreFile)
	assert.Equal(t, "basic", cfg.Engine)
	assert.Equal(t, 100_000, cfg.MaxChars)
	assert.False(t, cfg.IgnoreHidden)
	assert.False(t, cfg.Concurrent)
	assert.Positive(t, cfg.MaxWorkers)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg, _ := parse(t, "--dir", "/src/app", "--ignore", "dist,*.tmp", "--engine", "gitignore", "--max-chars", "10", "-q")

	assert.Equal(t, "/src/app", cfg.RootDir)
	assert.Equal(t, []string{"dist", "*.tmp"}, cfg.Ignore)
	assert.Equal(t, "gitignore", cfg.Engine)
	assert.Equal(t, 10, cfg.MaxChars)
	assert.True(t, cfg.Quiet)
}

func TestMergeFileUnderFlags(t *testing.T) {
	path := writeConfig(t, `
output_dir: .snapshots
ignore:
  - vendor
  - "*.pb.go"
concurrent: true
workers: 3
timeout: 30s
log_level: debug
`)
	cfg, fs := parse(t, "--workers", "8")

	require.NoError(t, cfg.Merge(path, fs))

	assert.Equal(t, ".snapshots", cfg.OutputDir)
	assert.Equal(t, []string{"vendor", "*.pb.go"}, cfg.Ignore)
	assert.True(t, cfg.Concurrent)
	assert.Equal(t, 8, cfg.MaxWorkers, "explicit flag wins over the file")
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ".gitignore", cfg.IgnoreFile, "keys absent from the file keep their defaults")
}

func TestMergeMissingFileIsNoop(t *testing.T) {
	cfg, fs := parse(t)
	before := *cfg

	require.NoError(t, cfg.Merge(filepath.Join(t.TempDir(), "absent.yaml"), fs))
	assert.Equal(t, before, *cfg)
}

func TestMergeRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "ignore: [unclosed\n")
	cfg, fs := parse(t)

	err := cfg.Merge(path, fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestConfigPathAndOutputDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/p", DefaultFileName), cfg.ConfigPath("/p"))
	assert.Equal(t, filepath.Join("/p", "snapshots"), cfg.ResolveOutputDir("/p"))

	cfg.ConfigFile = "/etc/snap.yaml"
	cfg.OutputDir = "/var/snaps/"
	assert.Equal(t, "/etc/snap.yaml", cfg.ConfigPath("/p"))
	assert.Equal(t, "/var/snaps", cfg.ResolveOutputDir("/p"))
}

func TestFinalize(t *testing.T) {
	cfg := Default()
	cfg.Quiet = true
	cfg.Finalize(nil)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.UseColors)

	cfg = Default()
	cfg.Verbose = true
	cfg.Quiet = true
	cfg.Finalize(nil)
	assert.Equal(t, "debug", cfg.LogLevel)
}

package setup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/dir-snapshot/internal/config"
	"github.com/bethropolis/dir-snapshot/internal/utils"
	"github.com/bethropolis/dir-snapshot/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noInfo(string, ...interface{}) {}

func TestReadRules(t *testing.T) {
	root := t.TempDir()

	rules, err := ReadRules(root, ".gitignore")
	require.NoError(t, err)
	assert.Nil(t, rules, "missing exclusion file means no rules")

	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("# deps\nnode_modules\n\n*.log\n"), 0o644))
	rules, err = ReadRules(root, ".gitignore")
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules", "*.log"}, rules)

	rules, err = ReadRules(root, "")
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestConfigureMatcher(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("dist\n"), 0o644))

	cfg := config.Default()
	cfg.Ignore = []string{" *.tmp ", ""}
	cfg.OutputDir = "out/snaps"

	var logged []string
	m, err := ConfigureMatcher(root, cfg, utils.NoopLogger{}, func(format string, args ...interface{}) {
		logged = append(logged, format)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dist", "*.tmp"}, m.Rules())
	assert.True(t, m.Excluded("out/snaps/Mon-10-19-2026/snap.md", false))
	assert.False(t, m.Excluded("snapshots/x.md", false), "only the configured output dir is reserved")
	assert.True(t, m.Excluded("a/b.tmp", false))
	assert.NotEmpty(t, logged)
}

func TestConfigureMatcherOutputOutsideRoot(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "elsewhere")

	m, err := ConfigureMatcher(root, cfg, nil, noInfo)
	require.NoError(t, err)

	assert.False(t, m.Excluded("snapshots", true))
	assert.False(t, m.Excluded("elsewhere", true))
}

func TestConfigureMatcherRejectsRootAsOutput(t *testing.T) {
	root := t.TempDir()

	for _, out := range []string{".", "./", root} {
		cfg := config.Default()
		cfg.OutputDir = out

		_, err := ConfigureMatcher(root, cfg, nil, noInfo)
		require.Error(t, err, out)
		assert.Contains(t, err.Error(), "project root")
	}
}

func TestConfigureWalkerExtensions(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.go", "b.md", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	cfg := config.Default()
	cfg.Extensions = []string{".GO", " md "}

	opts := ConfigureWalker(context.Background(), cfg, nil, noInfo, nil)
	tree, err := walker.BuildTree(root, nil, opts...)
	require.NoError(t, err)

	var got []string
	for _, f := range tree.Files() {
		got = append(got, f.RelPath)
	}
	assert.Equal(t, []string{"a.go", "b.md"}, got)
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	progress := ProgressPrinter(&buf)

	progress(walker.ProgressStats{TotalFiles: 2, ProcessedFiles: 1, TotalDirs: 1, CurrentFilePath: "src/main.go"})
	assert.Contains(t, buf.String(), "\rReading: src/main.go")
	assert.Contains(t, buf.String(), "Files: 1/2 | Dirs: 1")
	assert.NotContains(t, buf.String(), "\n")

	progress(walker.ProgressStats{TotalFiles: 2, ProcessedFiles: 2, CurrentFilePath: "a/very/long/path/that/keeps/going/and/going/file.go"})
	assert.Contains(t, buf.String(), "...")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

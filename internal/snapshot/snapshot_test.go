package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/dir-snapshot/internal/ignore"
	"github.com/bethropolis/dir-snapshot/internal/printer"
	"github.com/bethropolis/dir-snapshot/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 19, 14, 5, 0, 0, time.UTC)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "demo-app")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeFiles(t, root, files)
	return root
}

func matcherFor(t *testing.T, root, ignoreFile string) *ignore.Matcher {
	t.Helper()
	m, err := ignore.New(root, ignore.ParseRules(ignoreFile))
	require.NoError(t, err)
	return m
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"/work/my-cool_app":  "My Cool App",
		"/work/project":      "Project",
		"/work/dir-snapshot": "Dir Snapshot",
		"/work/myAPI-server": "MyAPI Server",
		"/work/__":           "__",
	}
	for in, want := range tests {
		assert.Equal(t, want, Title(in), in)
	}
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "Mon, October 19, 2026 at 2:05 PM", Timestamp(fixedNow))
	morning := time.Date(2026, time.March, 3, 9, 7, 0, 0, time.UTC)
	assert.Equal(t, "Tue, March 3, 2026 at 9:07 AM", Timestamp(morning))
}

func TestBuildDocument(t *testing.T) {
	root := newProject(t, map[string]string{
		".gitignore":        "node_modules\n*.log\n",
		"main.go":           "package main\n",
		"lib/util.go":       "package lib\n",
		"node_modules/x.js": "ignored",
		"debug.log":         "ignored",
		"snapshots/old.md":  "ignored",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	rules, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)

	res, err := New().Build(root, matcherFor(t, root, string(rules)), fixedNow)
	require.NoError(t, err)

	want := "# Demo App\n\n" +
		"**Snapshot Date:** Mon, October 19, 2026 at 2:05 PM\n\n" +
		"---\n\n" +
		"## Project Structure\n\n" +
		"```\n" +
		"demo-app\n" +
		"├── empty\n" +
		"├── lib\n" +
		"│   └── util.go\n" +
		"├── .gitignore\n" +
		"└── main.go\n" +
		"```\n\n" +
		"## File Contents\n\n" +
		"### lib/util.go\n\n```go\npackage lib\n```\n\n" +
		"### .gitignore\n\n```\nnode_modules\n*.log\n```\n\n" +
		"### main.go\n\n```go\npackage main\n```\n\n"

	assert.Equal(t, want, string(res.Document))
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 0, res.Placeholders)
	assert.Equal(t, "Demo App", res.Title)
}

func TestBuildIsDeterministic(t *testing.T) {
	files := map[string]string{}
	for _, p := range []string{"b/z.txt", "b/a.txt", "A/q.txt", "a/q.txt", "x.md", "Y.md"} {
		files[p] = "content of " + p
	}
	root := newProject(t, files)
	m := matcherFor(t, root, "")

	first, err := New().Build(root, m, fixedNow)
	require.NoError(t, err)
	second, err := New(WithWalkOptions(walker.WithConcurrency(true), walker.WithMaxWorkers(3))).Build(root, m, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, string(first.Document), string(second.Document))
}

func TestBuildSizeThreshold(t *testing.T) {
	root := newProject(t, map[string]string{
		"exact.txt": strings.Repeat("x", walker.DefaultMaxChars),
		"over.txt":  strings.Repeat("x", walker.DefaultMaxChars+1),
	})

	res, err := New().Build(root, matcherFor(t, root, ""), fixedNow)
	require.NoError(t, err)

	doc := string(res.Document)
	assert.Contains(t, doc, "### exact.txt\n\n```\n"+strings.Repeat("x", walker.DefaultMaxChars)+"\n```")
	assert.Contains(t, doc, "### over.txt\n\n```\n[File too large to display: ~98 KB]\n```")
	assert.NotContains(t, doc, strings.Repeat("x", walker.DefaultMaxChars+1))
	assert.Equal(t, 1, res.Placeholders)
}

func TestBuildEmptyRulesIncludeEverything(t *testing.T) {
	root := newProject(t, map[string]string{
		".env":           "SECRET=1",
		"src/a.txt":      "a",
		"snapshots/x.md": "old snapshot",
	})

	res, err := New().Build(root, matcherFor(t, root, ""), fixedNow)
	require.NoError(t, err)

	doc := string(res.Document)
	assert.Contains(t, doc, "### .env\n")
	assert.Contains(t, doc, "### src/a.txt\n")
	assert.Contains(t, doc, "└── .env\n")
	assert.NotContains(t, doc, "snapshots")
	assert.NotContains(t, doc, "old snapshot")
}

func TestBuildJSONFormat(t *testing.T) {
	root := newProject(t, map[string]string{"a.txt": "alpha"})

	res, err := New(WithFormat(printer.FormatJSON)).Build(root, matcherFor(t, root, ""), fixedNow)
	require.NoError(t, err)

	assert.Contains(t, string(res.Document), `"title": "Demo App"`)
	assert.Contains(t, string(res.Document), `"content": "alpha"`)
}

func TestBuildMissingRootIsFatal(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gone")

	_, err := New().Build(root, nil, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone")
}

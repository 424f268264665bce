// Package snapshot assembles the snapshot document for a project root
package snapshot

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/dir-snapshot/internal/printer"
	"github.com/bethropolis/dir-snapshot/internal/utils"
	"github.com/bethropolis/dir-snapshot/internal/walker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TimestampLayout is the human-readable date written under the title
const TimestampLayout = "Mon, January 2, 2006 at 3:04 PM"

// Builder turns a project root into a snapshot document
type Builder struct {
	logger      utils.Logger
	format      printer.Format
	walkOptions []walker.Option
}

// Option is a functional option for configuring the Builder
type Option func(*Builder)

func WithLogger(logger utils.Logger) Option {
	return func(b *Builder) {
		b.logger = utils.OrNoop(logger)
	}
}

// WithFormat selects the document format
func WithFormat(format printer.Format) Option {
	return func(b *Builder) {
		b.format = format
	}
}

// WithWalkOptions passes options through to the walker and content reader
func WithWalkOptions(opts ...walker.Option) Option {
	return func(b *Builder) {
		b.walkOptions = append(b.walkOptions, opts...)
	}
}

// New creates a Builder
func New(opts ...Option) *Builder {
	b := &Builder{
		logger: utils.NoopLogger{},
		format: printer.FormatMarkdown,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is a finished, not yet persisted, snapshot
type Result struct {
	Title        string
	Timestamp    string
	Document     []byte
	Tree         *walker.Tree
	Files        int
	Placeholders int
}

// Build walks rootDir once and renders the whole document in memory. All
// date-derived text comes from now. Per-file problems become placeholders;
// only a root that cannot be listed (or a cancelled walk) fails the build.
func (b *Builder) Build(rootDir string, matcher walker.Matcher, now time.Time) (*Result, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: failed to get absolute path for '%s': %w", rootDir, err)
	}

	title := Title(absRootDir)
	timestamp := Timestamp(now)
	b.logger.Debug("snapshot.Build: %q at %s", title, timestamp)

	opts := append([]walker.Option{walker.WithLogger(b.logger)}, b.walkOptions...)
	tree, err := walker.BuildTree(absRootDir, matcher, opts...)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	contents, err := tree.ReadContents()
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading contents: %w", err)
	}

	var buf bytes.Buffer
	p := printer.New(&buf).WithFormat(b.format)
	p.WriteHeader(title, timestamp)
	p.WriteTree(tree.Root.Name, tree.Root.Children)

	placeholders := 0
	for _, c := range contents {
		if c.Placeholder() {
			placeholders++
		}
		p.PrintFile(c.Entry.RelPath, c.Text, c.Placeholder())
	}
	if err := p.Finalize(); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	return &Result{
		Title:        title,
		Timestamp:    timestamp,
		Document:     buf.Bytes(),
		Tree:         tree,
		Files:        int(p.GetCount()),
		Placeholders: placeholders,
	}, nil
}

// Title derives a display title from the base name of rootDir:
// "my-cool_app" becomes "My Cool App"
func Title(rootDir string) string {
	name := filepath.Base(rootDir)
	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(segments) == 0 {
		return name
	}

	caser := cases.Title(language.English, cases.NoLower)
	for i, s := range segments {
		segments[i] = caser.String(s)
	}
	return strings.Join(segments, " ")
}

// Timestamp formats now for the document header
func Timestamp(now time.Time) string {
	return now.Format(TimestampLayout)
}

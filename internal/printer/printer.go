// Package printer renders the entry tree and writes the snapshot document
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"

	"github.com/bethropolis/dir-snapshot/internal/walker"
)

// Format selects the document layout
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat maps a flag value to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("printer: unknown format %q", s)
	}
}

// Printer writes one snapshot document. Calls must follow the order
// WriteHeader, WriteTree, PrintFile..., Finalize.
type Printer struct {
	output io.Writer
	count  atomic.Int64
	format Format

	// Collected for FormatJSON and written by Finalize
	doc jsonDocument
}

// New creates a Printer writing markdown to w
func New(w io.Writer) *Printer {
	return &Printer{
		output: w,
		format: FormatMarkdown,
	}
}

// WithFormat sets the document format
func (p *Printer) WithFormat(format Format) *Printer {
	p.format = format
	return p
}

// JSONFileEntry represents a file entry in JSON output
type JSONFileEntry struct {
	Path        string `json:"path"`
	Content     string `json:"content"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type jsonDocument struct {
	Title string          `json:"title"`
	Date  string          `json:"date"`
	Tree  string          `json:"tree"`
	Files []JSONFileEntry `json:"files"`
}

// WriteHeader writes the title and snapshot date
func (p *Printer) WriteHeader(title, timestamp string) {
	if p.format == FormatJSON {
		p.doc.Title = title
		p.doc.Date = timestamp
		return
	}
	fmt.Fprintf(p.output, "# %s\n\n**Snapshot Date:** %s\n\n---\n\n", title, timestamp)
}

// WriteTree writes the structure section: the root name on its own line,
// followed by the rendered children
func (p *Printer) WriteTree(rootName string, children []*walker.Entry) {
	tree := rootName + "\n" + RenderTree(children)
	if p.format == FormatJSON {
		p.doc.Tree = tree
		return
	}
	fmt.Fprintf(p.output, "## Project Structure\n\n```\n%s```\n\n## File Contents\n\n", tree)
}

// PrintFile writes one file section
func (p *Printer) PrintFile(relativePath, content string, placeholder bool) {
	p.count.Add(1)

	if p.format == FormatJSON {
		p.doc.Files = append(p.doc.Files, JSONFileEntry{
			Path:        relativePath,
			Content:     content,
			Placeholder: placeholder,
		})
		return
	}

	lang := ""
	if !placeholder {
		lang = Language(relativePath)
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	fence := fenceFor(content)
	fmt.Fprintf(p.output, "### %s\n\n%s%s\n%s%s\n\n", relativePath, fence, lang, content, fence)
}

// Finalize completes any pending output (the whole JSON document)
func (p *Printer) Finalize() error {
	if p.format != FormatJSON {
		return nil
	}
	if p.doc.Files == nil {
		p.doc.Files = []JSONFileEntry{}
	}
	data, err := json.MarshalIndent(p.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("printer: failed to marshal document: %w", err)
	}
	_, err = fmt.Fprintf(p.output, "%s\n", data)
	return err
}

// GetCount returns the number of files printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}

// fenceFor returns a backtick fence longer than any run inside content
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

var languages = map[string]string{
	".go":   "go",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "jsx",
	".ts":   "typescript",
	".tsx":  "tsx",
	".py":   "python",
	".rb":   "ruby",
	".rs":   "rust",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".sh":   "bash",
	".md":   "markdown",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".html": "html",
	".css":  "css",
	".sql":  "sql",
	".xml":  "xml",
}

// Language returns the fenced-block hint for a file, or "" when unknown
func Language(relativePath string) string {
	return languages[strings.ToLower(path.Ext(relativePath))]
}

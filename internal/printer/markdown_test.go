package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bethropolis/dir-snapshot/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type parsedBlock struct {
	lang string
	body string
}

// parseDocument returns the level-3 headings and fenced blocks of a rendered
// document, as a CommonMark reader sees them
func parseDocument(t *testing.T, source []byte) ([]string, []parsedBlock) {
	t.Helper()
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var headings []string
	var blocks []parsedBlock
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 3 {
				headings = append(headings, headingText(node, source))
			}
		case *ast.FencedCodeBlock:
			var body strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				body.Write(seg.Value(source))
			}
			blocks = append(blocks, parsedBlock{lang: string(node.Language(source)), body: body.String()})
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return headings, blocks
}

func headingText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}

func TestMarkdownDocumentStructure(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.WriteHeader("Demo", "now")
	p.WriteTree("demo", []*walker.Entry{d("docs", f("guide.md")), f("main.go")})
	p.PrintFile("docs/guide.md", "# Guide\n\n```sh\nmake build\n```\n", false)
	p.PrintFile("main.go", "package main\n", false)
	require.NoError(t, p.Finalize())

	headings, blocks := parseDocument(t, buf.Bytes())

	assert.Equal(t, []string{"docs/guide.md", "main.go"}, headings,
		"fences inside file content must not leak headings")
	require.Len(t, blocks, 3)
	assert.Equal(t, "demo\n├── docs\n│   └── guide.md\n└── main.go\n", blocks[0].body)
	assert.Equal(t, parsedBlock{lang: "markdown", body: "# Guide\n\n```sh\nmake build\n```\n"}, blocks[1])
	assert.Equal(t, parsedBlock{lang: "go", body: "package main\n"}, blocks[2])
}

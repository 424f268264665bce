package printer

import (
	"strings"

	"github.com/bethropolis/dir-snapshot/internal/walker"
)

const (
	branch     = "├── "
	lastBranch = "└── "
	pipeIndent = "│   "
	openIndent = "    "
)

// RenderTree draws children as an ASCII tree, one line per entry. The root
// line is the caller's responsibility. There is no depth limit.
func RenderTree(children []*walker.Entry) string {
	var sb strings.Builder
	renderLevel(&sb, children, "")
	return sb.String()
}

func renderLevel(sb *strings.Builder, children []*walker.Entry, indent string) {
	for i, child := range children {
		last := i == len(children)-1

		connector, childIndent := branch, pipeIndent
		if last {
			connector, childIndent = lastBranch, openIndent
		}

		sb.WriteString(indent)
		sb.WriteString(connector)
		sb.WriteString(child.Name)
		sb.WriteByte('\n')

		if child.IsDir() {
			renderLevel(sb, child.Children, indent+childIndent)
		}
	}
}

// Package output renders checklist trees as markdown, HTML, or JSON.
package output

import (
	"fmt"
	"strings"

	"github.com/temirov/foldertodo/internal/types"
)

const (
	titleFormat    = "# Todo List for: %s"
	bylineFormat   = "*Generated from folder structure: `%s`*"
	sectionHeading = "## Directory Structure Tasks"

	checkboxPrefix      = "- [ ] "
	directoryNameFormat = "**%s/**"
	codeSpanFormat      = " `%s`"
	sizeSpanFormat      = " `(%s)`"
	indentSpacer        = "  "
	lineSeparator       = "\n"

	detailsOpenTag = "<details>"
	detailsEndTag  = "</details>"
	summaryFormat  = "<summary>%s</summary>"
)

// MarkdownOptions selects the markdown layout.
type MarkdownOptions struct {
	// Collapsible wraps directories that have rendered children in <details> blocks.
	Collapsible bool
}

// RenderMarkdown returns the checklist document for root: a header naming the
// root followed by one task item per rendered descendant.
func RenderMarkdown(root *types.ChecklistNode, options MarkdownOptions) string {
	if root == nil {
		return ""
	}
	lines := []string{
		fmt.Sprintf(titleFormat, root.Name),
		"",
		fmt.Sprintf(bylineFormat, root.Path),
		"",
		sectionHeading,
		"",
	}
	headerLength := len(lines)
	if options.Collapsible {
		lines = appendCollapsibleLines(lines, root.Children)
	} else {
		lines = appendIndentedLines(lines, root.Children, 0)
	}
	for len(lines) > headerLength && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, lineSeparator)
}

// ChecklistLine renders the task item for a single node without indentation.
func ChecklistLine(node *types.ChecklistNode) string {
	var builder strings.Builder
	builder.WriteString(checkboxPrefix)
	if node.IsDirectory() {
		fmt.Fprintf(&builder, directoryNameFormat, node.Name)
		for _, tag := range node.Tags {
			fmt.Fprintf(&builder, codeSpanFormat, tag)
		}
		return builder.String()
	}
	builder.WriteString(node.Name)
	if node.HasSize {
		fmt.Fprintf(&builder, sizeSpanFormat, node.Size)
	}
	return builder.String()
}

func appendIndentedLines(lines []string, nodes []*types.ChecklistNode, level int) []string {
	indent := strings.Repeat(indentSpacer, level)
	for _, node := range nodes {
		if node == nil {
			continue
		}
		lines = append(lines, indent+ChecklistLine(node))
		if node.IsDirectory() {
			lines = appendIndentedLines(lines, node.Children, level+1)
		}
	}
	return lines
}

// appendCollapsibleLines nests directories through <details> blocks instead of indentation.
// An HTML block ends at a blank line, so blank lines surround every block body.
func appendCollapsibleLines(lines []string, nodes []*types.ChecklistNode) []string {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if !node.IsDirectory() || len(node.Children) == 0 {
			lines = append(lines, ChecklistLine(node))
			continue
		}
		lines = appendBlankLine(lines)
		lines = append(lines, detailsOpenTag, fmt.Sprintf(summaryFormat, ChecklistLine(node)), "")
		lines = appendCollapsibleLines(lines, node.Children)
		lines = appendBlankLine(lines)
		lines = append(lines, detailsEndTag, "")
	}
	return lines
}

func appendBlankLine(lines []string) []string {
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		return lines
	}
	return append(lines, "")
}

// Package types defines every cross‑package data structure used by the foldertodo CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// Configuration is the resolved set of traversal and rendering options.
type Configuration struct {
	ExcludeDirs         []string
	ExcludeFilePatterns []string
	TagFilter           []string
	// MaxDepth limits rendered depth below the root; nil means unlimited.
	MaxDepth      *int
	IncludeFiles  bool
	IncludeSizes  bool
	IncludeHidden bool
	Collapsible   bool
}

// ChecklistNode is a single filesystem entry of the rendered checklist tree.
type ChecklistNode struct {
	Path      string           `json:"path"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Size      string           `json:"size,omitempty"`
	SizeBytes int64            `json:"sizeBytes,omitempty"`
	HasSize   bool             `json:"-"`
	Tags      []string         `json:"tags,omitempty"`
	Children  []*ChecklistNode `json:"children,omitempty"`
}

// IsDirectory reports whether the node represents a directory.
func (node *ChecklistNode) IsDirectory() bool {
	return node != nil && node.Type == NodeTypeDirectory
}

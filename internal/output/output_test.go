package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/foldertodo/internal/output"
	"github.com/temirov/foldertodo/internal/types"
)

const expectedHeader = "# Todo List for: project\n\n" +
	"*Generated from folder structure: `/tmp/project`*\n\n" +
	"## Directory Structure Tasks\n"

const expectedIndented = expectedHeader + "\n" +
	"- [ ] **A/** `urgent`\n" +
	"  - [ ] **B/**\n" +
	"    - [ ] notes.txt `(500 B)`\n" +
	"- [ ] **C/**\n" +
	"- [ ] readme.md"

const expectedCollapsible = expectedHeader + "\n" +
	"<details>\n" +
	"<summary>- [ ] **A/** `urgent`</summary>\n\n" +
	"<details>\n" +
	"<summary>- [ ] **B/**</summary>\n\n" +
	"- [ ] notes.txt `(500 B)`\n\n" +
	"</details>\n\n" +
	"</details>\n\n" +
	"- [ ] **C/**\n" +
	"- [ ] readme.md"

func sampleTree() *types.ChecklistNode {
	notes := &types.ChecklistNode{Path: "/tmp/project/A/B/notes.txt", Name: "notes.txt", Type: types.NodeTypeFile, Size: "500 B", SizeBytes: 500, HasSize: true}
	directoryB := &types.ChecklistNode{Path: "/tmp/project/A/B", Name: "B", Type: types.NodeTypeDirectory, Children: []*types.ChecklistNode{notes}}
	directoryA := &types.ChecklistNode{Path: "/tmp/project/A", Name: "A", Type: types.NodeTypeDirectory, Tags: []string{"urgent"}, Children: []*types.ChecklistNode{directoryB}}
	directoryC := &types.ChecklistNode{Path: "/tmp/project/C", Name: "C", Type: types.NodeTypeDirectory}
	readme := &types.ChecklistNode{Path: "/tmp/project/readme.md", Name: "readme.md", Type: types.NodeTypeFile}
	return &types.ChecklistNode{
		Path:     "/tmp/project",
		Name:     "project",
		Type:     types.NodeTypeDirectory,
		Children: []*types.ChecklistNode{directoryA, directoryC, readme},
	}
}

func TestRenderMarkdownIndented(t *testing.T) {
	rendered := output.RenderMarkdown(sampleTree(), output.MarkdownOptions{})
	require.Equal(t, expectedIndented, rendered)
}

func TestRenderMarkdownCollapsible(t *testing.T) {
	rendered := output.RenderMarkdown(sampleTree(), output.MarkdownOptions{Collapsible: true})
	require.Equal(t, expectedCollapsible, rendered)
	require.Equal(t, strings.Count(rendered, "<details>"), strings.Count(rendered, "</details>"))
	require.NotContains(t, rendered, "<summary>- [ ] **C/**</summary>")
}

func TestRenderMarkdownModesEndAlike(t *testing.T) {
	root := sampleTree()
	root.Children = root.Children[:1]
	indented := output.RenderMarkdown(root, output.MarkdownOptions{})
	collapsible := output.RenderMarkdown(root, output.MarkdownOptions{Collapsible: true})
	require.True(t, strings.HasSuffix(indented, "- [ ] notes.txt `(500 B)`"))
	require.True(t, strings.HasSuffix(collapsible, "</details>\n\n</details>"))
}

func TestRenderMarkdownEmptyBody(t *testing.T) {
	root := &types.ChecklistNode{Path: "/tmp/project", Name: "project", Type: types.NodeTypeDirectory}
	for _, collapsible := range []bool{false, true} {
		rendered := output.RenderMarkdown(root, output.MarkdownOptions{Collapsible: collapsible})
		require.Equal(t, expectedHeader, rendered)
	}
}

func TestChecklistLine(t *testing.T) {
	testCases := []struct {
		name     string
		node     *types.ChecklistNode
		expected string
	}{
		{
			name:     "directory with sorted tags",
			node:     &types.ChecklistNode{Name: "api-#backend", Type: types.NodeTypeDirectory, Tags: []string{"backend", "urgent"}},
			expected: "- [ ] **api-#backend/** `backend` `urgent`",
		},
		{
			name:     "file without size",
			node:     &types.ChecklistNode{Name: "main.go", Type: types.NodeTypeFile},
			expected: "- [ ] main.go",
		},
		{
			name:     "file with size",
			node:     &types.ChecklistNode{Name: "main.go", Type: types.NodeTypeFile, Size: "2.0 KB", HasSize: true},
			expected: "- [ ] main.go `(2.0 KB)`",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, output.ChecklistLine(testCase.node))
		})
	}
}

func TestRenderHTML(t *testing.T) {
	rendered, renderError := output.RenderHTML(output.RenderMarkdown(sampleTree(), output.MarkdownOptions{}))
	require.NoError(t, renderError)
	require.Contains(t, rendered, `type="checkbox"`)
	require.Contains(t, rendered, "<strong>A/</strong>")
	require.Contains(t, rendered, "<code>urgent</code>")

	collapsed, collapsedError := output.RenderHTML(output.RenderMarkdown(sampleTree(), output.MarkdownOptions{Collapsible: true}))
	require.NoError(t, collapsedError)
	require.Contains(t, collapsed, "<details>")
	require.Contains(t, collapsed, "</details>")
	require.Contains(t, collapsed, "<summary>")
}

func TestRenderJSON(t *testing.T) {
	rendered, renderError := output.RenderJSON(sampleTree())
	require.NoError(t, renderError)

	var decoded struct {
		Name     string `json:"name"`
		Children []struct {
			Name string   `json:"name"`
			Type string   `json:"type"`
			Tags []string `json:"tags"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	require.Equal(t, "project", decoded.Name)
	require.Len(t, decoded.Children, 3)
	require.Equal(t, []string{"urgent"}, decoded.Children[0].Tags)
	require.Equal(t, types.NodeTypeFile, decoded.Children[2].Type)
}

func TestWriteToFileCreatesParents(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "nested", "deeper", "todo.md")
	require.NoError(t, output.WriteToFile("# Todo", destination))

	written, readError := os.ReadFile(destination)
	require.NoError(t, readError)
	require.Equal(t, "# Todo\n", string(written))
}

func TestReportSaved(t *testing.T) {
	var buffer bytes.Buffer
	output.ReportSaved(&buffer, "todo.md", false)
	require.Equal(t, "Todo list saved to: todo.md\n", buffer.String())
}

package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/foldertodo/internal/output"
	"github.com/temirov/foldertodo/internal/types"
)

// Generate walks rootPath and renders the markdown checklist for it.
// The returned error matches ErrNotFound when rootPath is missing or not a directory.
func Generate(rootPath string, configuration types.Configuration) (string, error) {
	return GenerateWithLogger(rootPath, configuration, nil)
}

// GenerateWithLogger is Generate with skipped entries reported to logger at debug level.
func GenerateWithLogger(rootPath string, configuration types.Configuration, logger *zap.Logger) (string, error) {
	treeBuilder, builderError := NewTreeBuilder(configuration, logger)
	if builderError != nil {
		return "", builderError
	}
	rootNode, buildError := treeBuilder.BuildTree(rootPath)
	if buildError != nil {
		return "", buildError
	}
	return output.RenderMarkdown(rootNode, output.MarkdownOptions{Collapsible: configuration.Collapsible}), nil
}

// Package commands contains the directory traversal that turns a folder into checklist nodes.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/foldertodo/internal/types"
	"github.com/temirov/foldertodo/internal/utils"
)

// ErrNotFound reports a root path that does not exist or is not a directory.
var ErrNotFound = errors.New("path not found")

const (
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
	errorRootMissingFormat   = "%w: %s does not exist"
	errorRootNotDirFormat    = "%w: %s is not a directory"
	errorStatRootFormat      = "stat %s: %w"
	errorReadDirectoryFormat = "reading directory %s: %w"

	skipEntryMessage       = "skipping entry"
	skipSubdirMessage      = "skipping subdirectory contents"
	skipTagFileMessage     = "ignoring unreadable tag file"
	skipSymlinkLoopMessage = "not following directory already on the current path"
)

// TreeBuilder walks a directory tree and produces checklist nodes for the configured options.
type TreeBuilder struct {
	configuration types.Configuration
	logger        *zap.Logger
	matcher       *exclusionMatcher
	tagFilter     map[string]struct{}
}

// NewTreeBuilder validates the configuration and prepares a builder. A nil logger discards output.
func NewTreeBuilder(configuration types.Configuration, logger *zap.Logger) (*TreeBuilder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	matcher, matcherError := newExclusionMatcher(configuration)
	if matcherError != nil {
		return nil, matcherError
	}
	treeBuilder := &TreeBuilder{
		configuration: configuration,
		logger:        logger,
		matcher:       matcher,
	}
	if tags := utils.NormalizeList(configuration.TagFilter); len(tags) > 0 {
		treeBuilder.tagFilter = make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			treeBuilder.tagFilter[tag] = struct{}{}
		}
	}
	return treeBuilder, nil
}

// BuildTree returns the root node for rootDirectoryPath with its retained descendants.
// Only a missing, non-directory, or unreadable root is an error; failures below the root are skipped.
func (treeBuilder *TreeBuilder) BuildTree(rootDirectoryPath string) (*types.ChecklistNode, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		if errors.Is(rootStatError, fs.ErrNotExist) {
			return nil, fmt.Errorf(errorRootMissingFormat, ErrNotFound, absoluteRootPath)
		}
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirFormat, ErrNotFound, absoluteRootPath)
	}

	rootEntries, readError := os.ReadDir(absoluteRootPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, absoluteRootPath, readError)
	}

	rootNode := &types.ChecklistNode{
		Path: absoluteRootPath,
		Name: filepath.Base(absoluteRootPath),
		Type: types.NodeTypeDirectory,
		Tags: treeBuilder.discoverTags(absoluteRootPath, filepath.Base(absoluteRootPath)),
	}
	ancestors := map[string]struct{}{resolvePath(absoluteRootPath): {}}
	rootNode.Children = treeBuilder.buildChildren(absoluteRootPath, rootEntries, 1, ancestors)
	if !treeBuilder.retains(rootNode) {
		rootNode.Children = nil
	}
	rootNode.Children = treeBuilder.truncateBeyondLimit(rootNode.Children, 1)
	return rootNode, nil
}

// directoryChild is a listed entry after symlink resolution.
type directoryChild struct {
	name        string
	path        string
	isDirectory bool
	info        fs.FileInfo
}

// buildChildren converts the entries of one directory into nodes at the given depth.
// Directories come first, then files, each group sorted case-insensitively.
// With a tag filter, directories below the depth limit are still built so that
// matches there keep their rendered ancestors; truncateBeyondLimit drops them afterwards.
func (treeBuilder *TreeBuilder) buildChildren(directoryPath string, entries []os.DirEntry, depth int, ancestors map[string]struct{}) []*types.ChecklistNode {
	beyondLimit := !treeBuilder.withinDepth(depth)
	if beyondLimit && treeBuilder.tagFilter == nil {
		return nil
	}

	var directories, files []directoryChild
	for _, entry := range entries {
		child, ok := treeBuilder.inspectEntry(directoryPath, entry)
		if !ok {
			continue
		}
		if child.isDirectory {
			directories = append(directories, child)
		} else {
			files = append(files, child)
		}
	}
	sortChildren(directories)
	sortChildren(files)

	var nodes []*types.ChecklistNode
	for _, directory := range directories {
		if treeBuilder.matcher.excludesDirectory(directory.name) {
			continue
		}
		node := treeBuilder.buildDirectoryNode(directory, depth, ancestors)
		if !treeBuilder.retains(node) {
			continue
		}
		nodes = append(nodes, node)
	}

	if beyondLimit || !treeBuilder.configuration.IncludeFiles {
		return nodes
	}
	for _, file := range files {
		if treeBuilder.matcher.excludesFile(file.name) {
			continue
		}
		node := &types.ChecklistNode{
			Path: file.path,
			Name: file.name,
			Type: types.NodeTypeFile,
		}
		if treeBuilder.configuration.IncludeSizes && file.info != nil {
			node.SizeBytes = file.info.Size()
			node.Size = utils.FormatFileSize(node.SizeBytes)
			node.HasSize = true
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (treeBuilder *TreeBuilder) buildDirectoryNode(directory directoryChild, depth int, ancestors map[string]struct{}) *types.ChecklistNode {
	node := &types.ChecklistNode{
		Path: directory.path,
		Name: directory.name,
		Type: types.NodeTypeDirectory,
		Tags: treeBuilder.discoverTags(directory.path, directory.name),
	}
	if !treeBuilder.withinDepth(depth+1) && treeBuilder.tagFilter == nil {
		return node
	}

	resolvedPath := resolvePath(directory.path)
	if _, onCurrentPath := ancestors[resolvedPath]; onCurrentPath {
		treeBuilder.logger.Debug(skipSymlinkLoopMessage, zap.String("path", directory.path))
		return node
	}
	entries, readError := os.ReadDir(directory.path)
	if readError != nil {
		treeBuilder.logger.Debug(skipSubdirMessage, zap.String("path", directory.path), zap.Error(readError))
		return node
	}

	ancestors[resolvedPath] = struct{}{}
	node.Children = treeBuilder.buildChildren(directory.path, entries, depth+1, ancestors)
	delete(ancestors, resolvedPath)
	return node
}

// inspectEntry resolves symlinks and file information for a listed entry. Broken entries are skipped.
func (treeBuilder *TreeBuilder) inspectEntry(directoryPath string, entry os.DirEntry) (directoryChild, bool) {
	child := directoryChild{
		name: entry.Name(),
		path: filepath.Join(directoryPath, entry.Name()),
	}
	var info fs.FileInfo
	var infoError error
	if entry.Type()&fs.ModeSymlink != 0 {
		info, infoError = os.Stat(child.path)
	} else {
		info, infoError = entry.Info()
	}
	if infoError != nil {
		treeBuilder.logger.Debug(skipEntryMessage, zap.String("path", child.path), zap.Error(infoError))
		return directoryChild{}, false
	}
	child.isDirectory = info.IsDir()
	child.info = info
	return child, true
}

func (treeBuilder *TreeBuilder) discoverTags(directoryPath string, directoryName string) []string {
	fileTags, loadError := LoadTagFile(directoryPath)
	if loadError != nil {
		treeBuilder.logger.Debug(skipTagFileMessage, zap.String("path", directoryPath), zap.Error(loadError))
		fileTags = nil
	}
	return mergeTags(ExtractTags(directoryName), fileTags)
}

// retains applies the tag filter: a directory stays when its own tags match
// or when a retained directory remains among its children.
func (treeBuilder *TreeBuilder) retains(node *types.ChecklistNode) bool {
	if len(treeBuilder.tagFilter) == 0 {
		return true
	}
	for _, tag := range node.Tags {
		if _, wanted := treeBuilder.tagFilter[tag]; wanted {
			return true
		}
	}
	for _, child := range node.Children {
		if child.IsDirectory() {
			return true
		}
	}
	return false
}

// truncateBeyondLimit removes nodes deeper than MaxDepth once retention has been decided.
func (treeBuilder *TreeBuilder) truncateBeyondLimit(nodes []*types.ChecklistNode, depth int) []*types.ChecklistNode {
	if !treeBuilder.withinDepth(depth) {
		return nil
	}
	for _, node := range nodes {
		node.Children = treeBuilder.truncateBeyondLimit(node.Children, depth+1)
	}
	return nodes
}

func (treeBuilder *TreeBuilder) withinDepth(depth int) bool {
	maxDepth := treeBuilder.configuration.MaxDepth
	return maxDepth == nil || depth <= *maxDepth
}

func sortChildren(children []directoryChild) {
	sort.SliceStable(children, func(leftIndex, rightIndex int) bool {
		leftName := strings.ToLower(children[leftIndex].name)
		rightName := strings.ToLower(children[rightIndex].name)
		if leftName != rightName {
			return leftName < rightName
		}
		return children[leftIndex].name < children[rightIndex].name
	})
}

func resolvePath(path string) string {
	resolvedPath, resolveError := filepath.EvalSymlinks(path)
	if resolveError != nil {
		return path
	}
	return resolvedPath
}

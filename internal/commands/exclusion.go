package commands

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/temirov/foldertodo/internal/types"
	"github.com/temirov/foldertodo/internal/utils"
)

const (
	hiddenEntryPrefix = "."

	errorInvalidPatternFormat = "invalid file exclusion pattern %q: %w"
)

var (
	// DefaultExcludedDirectories are skipped in every traversal.
	DefaultExcludedDirectories = []string{utils.GitDirectoryName, "__pycache__", ".vscode", "node_modules", ".idea"}
	// DefaultExcludedFiles are system artifacts skipped in every traversal.
	DefaultExcludedFiles = []string{".DS_Store", ".gitignore", "Thumbs.db"}
)

// exclusionMatcher decides which directory entries are left out of the checklist.
type exclusionMatcher struct {
	directoryNames map[string]struct{}
	fileNames      map[string]struct{}
	filePatterns   []glob.Glob
	includeHidden  bool
}

func newExclusionMatcher(configuration types.Configuration) (*exclusionMatcher, error) {
	matcher := &exclusionMatcher{
		directoryNames: make(map[string]struct{}),
		fileNames:      map[string]struct{}{TagFileName: {}},
		includeHidden:  configuration.IncludeHidden,
	}
	for _, directoryName := range append(append([]string{}, DefaultExcludedDirectories...), configuration.ExcludeDirs...) {
		matcher.directoryNames[strings.TrimSuffix(directoryName, "/")] = struct{}{}
	}
	for _, fileName := range DefaultExcludedFiles {
		matcher.fileNames[fileName] = struct{}{}
	}
	for _, pattern := range utils.DeduplicatePatterns(configuration.ExcludeFilePatterns) {
		compiledPattern, compileError := glob.Compile(pattern)
		if compileError != nil {
			return nil, fmt.Errorf(errorInvalidPatternFormat, pattern, compileError)
		}
		matcher.filePatterns = append(matcher.filePatterns, compiledPattern)
	}
	return matcher, nil
}

func (matcher *exclusionMatcher) excludesDirectory(name string) bool {
	if _, excluded := matcher.directoryNames[name]; excluded {
		return true
	}
	return matcher.isHidden(name)
}

func (matcher *exclusionMatcher) excludesFile(name string) bool {
	if _, excluded := matcher.fileNames[name]; excluded {
		return true
	}
	if matcher.isHidden(name) {
		return true
	}
	for _, pattern := range matcher.filePatterns {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}

func (matcher *exclusionMatcher) isHidden(name string) bool {
	return !matcher.includeHidden && strings.HasPrefix(name, hiddenEntryPrefix)
}

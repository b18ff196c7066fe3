package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"unicode/utf8"
)

const (
	// TagFileName is the sidecar file inside a directory listing additional #tags.
	TagFileName = ".tags"

	errorMalformedTagFileFormat = "tag file %s is not valid UTF-8 at line %d"
)

var tagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractTags returns every #word token found in text, in order of appearance.
// Words are runs of Unicode letters, digits, and underscores.
func ExtractTags(text string) []string {
	var tags []string
	for _, match := range tagPattern.FindAllStringSubmatch(text, -1) {
		tags = append(tags, match[1])
	}
	return tags
}

// LoadTagFile reads the sidecar tag file of a directory. A missing file yields no tags and no error.
//
// #nosec G304
func LoadTagFile(directoryPath string) ([]string, error) {
	tagFilePath := filepath.Join(directoryPath, TagFileName)
	fileHandle, openError := os.Open(tagFilePath)
	if openError != nil {
		if errors.Is(openError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, openError
	}
	defer fileHandle.Close()

	var tags []string
	lineNumber := 0
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf(errorMalformedTagFileFormat, tagFilePath, lineNumber)
		}
		tags = append(tags, ExtractTags(line)...)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return tags, nil
}

// mergeTags combines tag sources into a sorted set.
func mergeTags(sources ...[]string) []string {
	tagSet := make(map[string]struct{})
	for _, source := range sources {
		for _, tag := range source {
			tagSet[tag] = struct{}{}
		}
	}
	if len(tagSet) == 0 {
		return nil
	}
	merged := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		merged = append(merged, tag)
	}
	sort.Strings(merged)
	return merged
}

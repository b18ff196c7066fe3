// Package utils contains general helper functions used across the foldertodo tool.
package utils

import "strings"

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

const listSeparator = ","

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeList splits comma-separated values, trims whitespace, drops empty
// entries and removes duplicates while preserving order.
func NormalizeList(values []string) []string {
	var normalized []string
	for _, value := range values {
		for _, part := range strings.Split(value, listSeparator) {
			trimmedPart := strings.TrimSpace(part)
			if trimmedPart == EmptyString {
				continue
			}
			normalized = append(normalized, trimmedPart)
		}
	}
	return DeduplicatePatterns(normalized)
}

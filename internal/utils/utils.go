// Package utils contains general helper functions used across vpdoc.
package utils

import (
	"path/filepath"
	"strings"
)

const patternListSeparator = ','

const (
	pathSegmentSeparator = "/"
	hiddenEntryPrefix    = "."
)

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

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// SplitPatternList splits a comma-separated glob list, dropping blank items. Commas inside
// brace alternatives such as "*.{js,ts}" do not split.
func SplitPatternList(rawList string) []string {
	var patterns []string
	appendItem := func(item string) {
		if trimmedItem := strings.TrimSpace(item); trimmedItem != "" {
			patterns = append(patterns, trimmedItem)
		}
	}
	braceDepth := 0
	itemStart := 0
	for index, character := range rawList {
		switch character {
		case '{':
			braceDepth++
		case '}':
			if braceDepth > 0 {
				braceDepth--
			}
		case patternListSeparator:
			if braceDepth == 0 {
				appendItem(rawList[itemStart:index])
				itemStart = index + 1
			}
		}
	}
	appendItem(rawList[itemStart:])
	return patterns
}

// ExpandPatternLists flattens values that may each hold comma-separated patterns.
func ExpandPatternLists(values []string) []string {
	var patterns []string
	for _, value := range values {
		patterns = append(patterns, SplitPatternList(value)...)
	}
	return DeduplicatePatterns(patterns)
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// TrimPathPrefix strips prefix from path the way a plain string replacement would,
// then removes any leading separators. The result always uses forward slashes.
func TrimPathPrefix(path, prefix string) string {
	trimmed := path
	if prefix != "" {
		trimmed = strings.Replace(path, prefix, "", 1)
	}
	trimmed = filepath.ToSlash(trimmed)
	return strings.TrimLeft(trimmed, pathSegmentSeparator)
}

// IsHiddenPath reports whether any segment of path starts with a dot.
// The segments "." and ".." are not considered hidden.
func IsHiddenPath(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), pathSegmentSeparator) {
		if segment == "." || segment == ".." {
			continue
		}
		if strings.HasPrefix(segment, hiddenEntryPrefix) {
			return true
		}
	}
	return false
}

// NormalizeSourceFolder drops a leading "./" and trailing separators from a source folder flag.
func NormalizeSourceFolder(folder string) string {
	normalized := strings.TrimPrefix(filepath.ToSlash(folder), "./")
	normalized = strings.TrimRight(normalized, pathSegmentSeparator)
	if normalized == "" {
		return "."
	}
	return filepath.FromSlash(normalized)
}

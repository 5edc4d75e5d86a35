// Package config loads configuration files and ignore files into vpdoc settings.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/vpdoc/internal/utils"
)

const (
	commentPrefix            = "#"
	errorLoadDocIgnoreFormat = "loading %s from %s: %w"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns. Blank lines and
// lines starting with # are skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadExcludePatterns combines the .docignore patterns of sourceDirectory with
// exclusionPatterns, dropping duplicates and keeping first occurrences in order.
func LoadExcludePatterns(sourceDirectory string, exclusionPatterns []string) ([]string, error) {
	ignoreFilePath := filepath.Join(sourceDirectory, utils.DocIgnoreFileName)
	ignoreFilePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf(errorLoadDocIgnoreFormat, utils.DocIgnoreFileName, sourceDirectory, loadError)
	}

	combinedPatterns := utils.DeduplicatePatterns(exclusionPatterns)
	for _, pattern := range ignoreFilePatterns {
		if !utils.ContainsString(combinedPatterns, pattern) {
			combinedPatterns = append(combinedPatterns, pattern)
		}
	}
	return combinedPatterns, nil
}

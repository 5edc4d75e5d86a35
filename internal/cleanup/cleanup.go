// Package cleanup removes previously generated documentation before a fresh build.
package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	errorGlobFormat           = "expanding %s: %w"
	errorRemoveFormat         = "removing %s: %w"
	errorCreateDocsFormat     = "creating documentation folder %s: %w"
	docsFolderContentsPattern = "**/*"
	docsFolderPermissions     = 0o755
)

// PathRemover deletes every path matching a set of glob patterns and remembers what it
// removed. Protected paths are never deleted.
type PathRemover struct {
	protected    map[string]struct{}
	deletedPaths []string
}

// NewPathRemover returns a remover that keeps the protected paths.
func NewPathRemover(protectedPaths ...string) *PathRemover {
	protected := make(map[string]struct{}, len(protectedPaths))
	for _, protectedPath := range protectedPaths {
		protected[filepath.Clean(protectedPath)] = struct{}{}
	}
	return &PathRemover{protected: protected}
}

// Delete removes the matches of patterns, deepest paths first. It reports whether every
// match was removed; the first removal error is returned after all patterns were tried.
func (remover *PathRemover) Delete(patterns []string) (bool, error) {
	var matches []string
	seen := map[string]struct{}{}
	for _, pattern := range patterns {
		patternMatches, globError := doublestar.FilepathGlob(pattern)
		if globError != nil {
			return false, fmt.Errorf(errorGlobFormat, pattern, globError)
		}
		for _, match := range patternMatches {
			cleaned := filepath.Clean(match)
			if _, duplicate := seen[cleaned]; duplicate {
				continue
			}
			seen[cleaned] = struct{}{}
			matches = append(matches, cleaned)
		}
	}
	sort.SliceStable(matches, func(left, right int) bool {
		return strings.Count(matches[left], string(filepath.Separator)) > strings.Count(matches[right], string(filepath.Separator))
	})

	allDeleted := true
	var firstError error
	for _, match := range matches {
		if remover.holdsProtected(match) {
			allDeleted = false
			continue
		}
		if removeError := os.RemoveAll(match); removeError != nil {
			allDeleted = false
			if firstError == nil {
				firstError = fmt.Errorf(errorRemoveFormat, match, removeError)
			}
			continue
		}
		remover.deletedPaths = append(remover.deletedPaths, match)
	}
	return allDeleted, firstError
}

// holdsProtected reports whether path is protected or is a directory containing a
// protected path.
func (remover *PathRemover) holdsProtected(path string) bool {
	for protectedPath := range remover.protected {
		if protectedPath == path || strings.HasPrefix(protectedPath, path+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// DeletedPaths returns the removed paths in removal order.
func (remover *PathRemover) DeletedPaths() []string {
	return remover.deletedPaths
}

// DocsFolderPatterns returns the patterns that empty docsFolder followed by the extra
// removal patterns.
func DocsFolderPatterns(docsFolder string, removePatterns []string) []string {
	patterns := []string{filepath.ToSlash(filepath.Join(docsFolder, docsFolderContentsPattern))}
	return append(patterns, removePatterns...)
}

// CreateDocsFolder makes sure docsFolder exists.
func CreateDocsFolder(docsFolder string) error {
	if makeDirError := os.MkdirAll(docsFolder, docsFolderPermissions); makeDirError != nil {
		return fmt.Errorf(errorCreateDocsFormat, docsFolder, makeDirError)
	}
	return nil
}

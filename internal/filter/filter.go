// Package filter decides which directory entries take part in documentation generation.
package filter

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/vpdoc/internal/types"
	"github.com/temirov/vpdoc/internal/utils"
)

// errorInvalidPatternFormat reports a glob that cannot be compiled.
const errorInvalidPatternFormat = "invalid glob pattern %q"

// rule is a single entry of the combined pattern list. matchesHidden is set for include
// globs that name a dot segment themselves.
type rule struct {
	pattern       string
	negated       bool
	matchesHidden bool
}

// PatternFilter matches entry paths against include globs and negated exclude globs.
type PatternFilter struct {
	rules []rule
}

// NewPatternFilter builds the combined rule list: include globs in order followed by
// every exclude glob as a negation.
func NewPatternFilter(include []string, exclude []string) *PatternFilter {
	rules := make([]rule, 0, len(include)+len(exclude))
	for _, pattern := range include {
		slashPattern := filepath.ToSlash(pattern)
		rules = append(rules, rule{pattern: slashPattern, matchesHidden: utils.IsHiddenPath(slashPattern)})
	}
	for _, pattern := range exclude {
		rules = append(rules, rule{pattern: filepath.ToSlash(pattern), negated: true})
	}
	return &PatternFilter{rules: rules}
}

// Validate returns an error for the first pattern doublestar cannot compile.
func (patternFilter *PatternFilter) Validate() error {
	for _, currentRule := range patternFilter.rules {
		if !doublestar.ValidatePattern(currentRule.pattern) {
			return fmt.Errorf(errorInvalidPatternFormat, currentRule.pattern)
		}
	}
	return nil
}

// ShouldInclude reports whether entity, found inside currentPath, is included.
// Directories are always included so their children can be filtered one level deeper.
func (patternFilter *PatternFilter) ShouldInclude(entity types.DirectoryEntity, currentPath string, anchorPath string) bool {
	if entity.IsDir {
		return true
	}
	return patternFilter.Matches(RelativeMatchPath(entity.Name, currentPath, anchorPath))
}

// Matches reports whether relativePath satisfies every rule. An empty rule list matches everything.
// Include globs do not match paths with a hidden segment unless the glob names one itself.
func (patternFilter *PatternFilter) Matches(relativePath string) bool {
	isHidden := utils.IsHiddenPath(relativePath)
	for _, currentRule := range patternFilter.rules {
		isMatched, matchError := doublestar.Match(currentRule.pattern, relativePath)
		if matchError != nil {
			isMatched = false
		}
		if isHidden && !currentRule.negated && !currentRule.matchesHidden {
			isMatched = false
		}
		if isMatched == currentRule.negated {
			return false
		}
	}
	return true
}

// RelativeMatchPath computes the path used for matching: currentPath with the base
// stripped, joined with entryName. The base is anchorPath, or currentPath when the
// anchor is empty.
func RelativeMatchPath(entryName string, currentPath string, anchorPath string) string {
	basePath := anchorPath
	if basePath == "" {
		basePath = currentPath
	}
	relativeDirectory := utils.TrimPathPrefix(currentPath, basePath)
	if relativeDirectory == "" {
		return entryName
	}
	return relativeDirectory + "/" + entryName
}

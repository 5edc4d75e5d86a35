package commands

import (
	"github.com/temirov/vpdoc/internal/filter"
	"github.com/temirov/vpdoc/internal/reader"
	"github.com/temirov/vpdoc/internal/types"
)

// FilterStrategy decides whether an entry found in currentPath takes part in the traversal.
type FilterStrategy interface {
	ShouldInclude(entity types.DirectoryEntity, currentPath string, anchorPath string) bool
}

// TreeBuilder builds the documentation tree using configured options.
type TreeBuilder struct {
	Options types.TraversalOptions
	Reader  reader.DirectoryReader
	Filter  FilterStrategy
}

// NewTreeBuilder returns a TreeBuilder reading from the host file system and filtering
// with the include and exclude globs of options.
func NewTreeBuilder(options types.TraversalOptions) *TreeBuilder {
	return &TreeBuilder{
		Options: options,
		Reader:  reader.NewOSDirectoryReader(),
		Filter:  filter.NewPatternFilter(options.Include, options.Exclude),
	}
}

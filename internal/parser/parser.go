// Package parser turns source files into markdown pages. Parsers are registered per file
// extension so new file types can be added without touching the dispatch.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/vpdoc/internal/types"
)

// ErrUnsupportedFileType is returned when no parser is registered for an extension.
var ErrUnsupportedFileType = errors.New("unsupported file type")

const errorUnsupportedFileTypeFormat = "%w: %q"

// Parser renders one source file into a markdown page.
type Parser interface {
	SupportedExtensions() []string
	Parse(ctx context.Context, file types.DirectoryFile, config types.ParserConfig) (*types.ParseResult, error)
}

// Registry routes files to parsers by extension.
type Registry struct {
	extensionToParser map[string]Parser
}

// NewRegistry returns a registry with the JSDoc and Vue parsers registered.
func NewRegistry() *Registry {
	registry := &Registry{extensionToParser: map[string]Parser{}}
	registry.Register(NewJSDocParser())
	registry.Register(NewVueParser())
	return registry
}

// Register adds parser for every extension it supports, replacing earlier registrations.
func (registry *Registry) Register(parser Parser) {
	for _, extension := range parser.SupportedExtensions() {
		registry.extensionToParser[strings.ToLower(extension)] = parser
	}
}

// Lookup returns the parser registered for extension.
func (registry *Registry) Lookup(extension string) (Parser, error) {
	parser, found := registry.extensionToParser[strings.ToLower(extension)]
	if !found {
		return nil, fmt.Errorf(errorUnsupportedFileTypeFormat, ErrUnsupportedFileType, extension)
	}
	return parser, nil
}

// ParseFile dispatches file to its parser. Directories and files without a folder yield nil.
func (registry *Registry) ParseFile(ctx context.Context, file types.DirectoryFile, config types.ParserConfig) (*types.ParseResult, error) {
	if file.IsDir || file.Folder == "" {
		return nil, nil
	}
	parser, lookupError := registry.Lookup(file.Ext)
	if lookupError != nil {
		return nil, lookupError
	}
	return parser.Parse(ctx, file, config)
}

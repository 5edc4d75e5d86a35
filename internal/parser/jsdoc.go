package parser

import (
	"context"
	"fmt"
	"os"

	"github.com/temirov/vpdoc/internal/types"
)

const (
	errorReadSourceFormat     = "reading %s: %w"
	javaScriptExtension       = ".js"
	typeScriptExtension       = ".ts"
	typeScriptModuleExtension = ".mts"
	tsxExtension              = ".tsx"
)

var jsDocExtensions = []string{javaScriptExtension, ".mjs", ".cjs", ".jsx", typeScriptExtension, typeScriptModuleExtension, tsxExtension}

// JSDocParser renders the /** */ documentation of JavaScript and TypeScript modules.
type JSDocParser struct {
	extractor declarationExtractor
}

// NewJSDocParser returns a parser using tree-sitter when available.
func NewJSDocParser() *JSDocParser {
	return &JSDocParser{extractor: newDeclarationExtractor()}
}

// SupportedExtensions lists the script extensions handled by the parser.
func (parser *JSDocParser) SupportedExtensions() []string {
	return jsDocExtensions
}

// Parse reads file and returns its page: the front matter header followed by one section
// per documented declaration. Success is false when nothing was documented.
//
// #nosec G304
func (parser *JSDocParser) Parse(ctx context.Context, file types.DirectoryFile, config types.ParserConfig) (*types.ParseResult, error) {
	source, readError := os.ReadFile(file.Path)
	if readError != nil {
		return nil, fmt.Errorf(errorReadSourceFormat, file.Path, readError)
	}
	pageRenderer, rendererError := newRenderer(config)
	if rendererError != nil {
		return nil, rendererError
	}
	entries, extractError := parser.extractor.Extract(ctx, source, file.Ext)
	if extractError != nil {
		return nil, fmt.Errorf(errorReadSourceFormat, file.Path, extractError)
	}
	markdown, renderError := pageRenderer.renderPage(entries)
	if renderError != nil {
		return nil, renderError
	}
	header := buildPageHeader(string(source), file)
	return newResult(file, config, header+markdown, markdown != ""), nil
}

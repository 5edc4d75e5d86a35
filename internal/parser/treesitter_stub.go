//go:build !cgo

package parser

// newDeclarationExtractor falls back to the line scanner when cgo is unavailable and the
// tree-sitter bindings cannot be built.
func newDeclarationExtractor() declarationExtractor {
	return newLineExtractor()
}

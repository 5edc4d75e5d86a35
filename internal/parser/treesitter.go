//go:build cgo

package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

const (
	syntaxCommentNodeType    = "comment"
	syntaxExportNodeType     = "export_statement"
	syntaxClassBodyNodeType  = "class_body"
	syntaxDeclaratorNodeType = "variable_declarator"
	syntaxMethodNodeType     = "method_definition"
	syntaxNameField          = "name"
	syntaxBodyField          = "body"
	syntaxValueField         = "value"
	syntaxDeclarationField   = "declaration"
	errorSyntaxTreeFormat    = "parsing syntax tree: %w"
)

var syntaxDeclarationKinds = map[string]string{
	"function_declaration":           docKindFunction,
	"generator_function_declaration": docKindFunction,
	"function_signature":             docKindFunction,
	"class_declaration":              docKindClass,
	"abstract_class_declaration":     docKindClass,
	"interface_declaration":          docKindInterface,
	"type_alias_declaration":         docKindType,
	"enum_declaration":               docKindEnum,
	"lexical_declaration":            docKindConstant,
	"variable_declaration":           docKindConstant,
}

var syntaxCallableValueTypes = map[string]struct{}{
	"arrow_function":      {},
	"function":            {},
	"function_expression": {},
	"generator_function":  {},
}

// syntaxTreeExtractor walks a tree-sitter syntax tree and pairs each /** */ comment with
// the declaration that follows it.
type syntaxTreeExtractor struct{}

func newDeclarationExtractor() declarationExtractor {
	return syntaxTreeExtractor{}
}

func syntaxLanguage(extension string) *sitter.Language {
	switch strings.ToLower(extension) {
	case typeScriptExtension, typeScriptModuleExtension:
		return typescript.GetLanguage()
	case tsxExtension:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

func (syntaxTreeExtractor) Extract(ctx context.Context, source []byte, extension string) ([]docEntry, error) {
	if len(source) == 0 {
		return nil, nil
	}
	syntaxParser := sitter.NewParser()
	defer syntaxParser.Close()
	syntaxParser.SetLanguage(syntaxLanguage(extension))
	tree, parseError := syntaxParser.ParseCtx(ctx, nil, source)
	if parseError != nil {
		return nil, fmt.Errorf(errorSyntaxTreeFormat, parseError)
	}
	defer tree.Close()

	var entries []docEntry
	collectDocumentedNodes(tree.RootNode(), source, "", &entries)
	return entries, nil
}

// collectDocumentedNodes visits the named children of container in order.
func collectDocumentedNodes(container *sitter.Node, source []byte, className string, entries *[]docEntry) {
	pendingComment := ""
	for childIndex := 0; childIndex < int(container.NamedChildCount()); childIndex++ {
		child := container.NamedChild(childIndex)
		if child == nil {
			continue
		}
		if child.Type() == syntaxCommentNodeType {
			pendingComment = ""
			if commentText := child.Content(source); isDocComment(commentText) {
				pendingComment = commentText
			}
			continue
		}
		declaration := unwrapExport(child)
		if pendingComment != "" {
			if name, kind, matched := describeDeclaration(declaration, source, className); matched {
				entry := parseDocComment(pendingComment)
				entry.Name = name
				entry.Kind = kind
				*entries = append(*entries, entry)
			}
		}
		pendingComment = ""
		if body := classBody(declaration); body != nil {
			nameNode := declaration.ChildByFieldName(syntaxNameField)
			if nameNode != nil {
				collectDocumentedNodes(body, source, nameNode.Content(source), entries)
			}
		}
	}
}

func unwrapExport(node *sitter.Node) *sitter.Node {
	if node.Type() != syntaxExportNodeType {
		return node
	}
	if declaration := node.ChildByFieldName(syntaxDeclarationField); declaration != nil {
		return declaration
	}
	for childIndex := 0; childIndex < int(node.NamedChildCount()); childIndex++ {
		child := node.NamedChild(childIndex)
		if child == nil || child.Type() == syntaxCommentNodeType {
			continue
		}
		if _, known := syntaxDeclarationKinds[child.Type()]; known {
			return child
		}
	}
	return node
}

func classBody(node *sitter.Node) *sitter.Node {
	if kind := syntaxDeclarationKinds[node.Type()]; kind != docKindClass {
		return nil
	}
	body := node.ChildByFieldName(syntaxBodyField)
	if body == nil || body.Type() != syntaxClassBodyNodeType {
		return nil
	}
	return body
}

// describeDeclaration returns the documented name and kind of node.
func describeDeclaration(node *sitter.Node, source []byte, className string) (string, string, bool) {
	if node.Type() == syntaxMethodNodeType {
		nameNode := node.ChildByFieldName(syntaxNameField)
		if nameNode == nil {
			return "", "", false
		}
		name := nameNode.Content(source)
		if className != "" {
			name = className + "." + name
		}
		return name, docKindMethod, true
	}

	kind, known := syntaxDeclarationKinds[node.Type()]
	if !known {
		return "", "", false
	}
	if kind != docKindConstant {
		nameNode := node.ChildByFieldName(syntaxNameField)
		if nameNode == nil {
			return "", "", false
		}
		return nameNode.Content(source), kind, true
	}

	for childIndex := 0; childIndex < int(node.NamedChildCount()); childIndex++ {
		declarator := node.NamedChild(childIndex)
		if declarator == nil || declarator.Type() != syntaxDeclaratorNodeType {
			continue
		}
		nameNode := declarator.ChildByFieldName(syntaxNameField)
		if nameNode == nil {
			return "", "", false
		}
		valueNode := declarator.ChildByFieldName(syntaxValueField)
		if valueNode != nil {
			if _, callable := syntaxCallableValueTypes[valueNode.Type()]; callable {
				return nameNode.Content(source), docKindFunction, true
			}
			if valueNode.Type() == "class" {
				return nameNode.Content(source), docKindClass, true
			}
		}
		return nameNode.Content(source), docKindConstant, true
	}
	return "", "", false
}

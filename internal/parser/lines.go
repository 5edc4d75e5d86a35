package parser

import (
	"context"
	"strings"
	"unicode"
)

// declarationExtractor finds documented declarations in JavaScript or TypeScript source.
type declarationExtractor interface {
	Extract(ctx context.Context, source []byte, extension string) ([]docEntry, error)
}

// lineExtractor scans source line by line, attaching each /** */ block to the
// declaration on the next non-blank line.
type lineExtractor struct{}

func newLineExtractor() declarationExtractor {
	return lineExtractor{}
}

func (lineExtractor) Extract(ctx context.Context, source []byte, extension string) ([]docEntry, error) {
	if len(source) == 0 {
		return nil, nil
	}
	lines := strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")
	var entries []docEntry
	pendingComment := ""

	lineIndex := 0
	for lineIndex < len(lines) {
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		currentLine := strings.TrimSpace(lines[lineIndex])
		if strings.HasPrefix(currentLine, "/**") {
			comment, nextIndex := collectBlockComment(lines, lineIndex)
			pendingComment = ""
			if isDocComment(comment) {
				pendingComment = comment
			}
			lineIndex = nextIndex
			continue
		}
		if pendingComment == "" || currentLine == "" || strings.HasPrefix(currentLine, "//") || strings.HasPrefix(currentLine, "@") {
			lineIndex++
			continue
		}
		declarationName, declarationKind, matched := matchDeclaration(currentLine)
		if matched {
			entry := parseDocComment(pendingComment)
			entry.Name = declarationName
			entry.Kind = declarationKind
			entries = append(entries, entry)
		}
		pendingComment = ""
		lineIndex++
	}
	return entries, nil
}

// collectBlockComment returns the block comment starting at startIndex and the index of
// the first line after it.
func collectBlockComment(lines []string, startIndex int) (string, int) {
	var buffer []string
	for currentIndex := startIndex; currentIndex < len(lines); currentIndex++ {
		buffer = append(buffer, lines[currentIndex])
		if strings.Contains(lines[currentIndex], "*/") {
			return strings.Join(buffer, "\n"), currentIndex + 1
		}
	}
	return strings.Join(buffer, "\n"), len(lines)
}

// matchDeclaration recognizes function, class, interface, type, enum and const declarations.
func matchDeclaration(line string) (string, string, bool) {
	trimmed := line
	for _, modifier := range []string{"export ", "default ", "declare ", "abstract ", "async "} {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, modifier))
	}

	keywordKinds := []struct {
		keyword string
		kind    string
	}{
		{keyword: "function* ", kind: docKindFunction},
		{keyword: "function ", kind: docKindFunction},
		{keyword: "class ", kind: docKindClass},
		{keyword: "interface ", kind: docKindInterface},
		{keyword: "type ", kind: docKindType},
		{keyword: "enum ", kind: docKindEnum},
		{keyword: "const enum ", kind: docKindEnum},
	}
	for _, keywordKind := range keywordKinds {
		if strings.HasPrefix(trimmed, keywordKind.keyword) {
			name := readIdentifier(strings.TrimSpace(trimmed[len(keywordKind.keyword):]))
			if name == "" {
				return "", "", false
			}
			return name, keywordKind.kind, true
		}
	}

	for _, prefix := range []string{"const ", "let ", "var "} {
		if !strings.HasPrefix(trimmed, prefix) {
			continue
		}
		remainder := strings.TrimSpace(trimmed[len(prefix):])
		name := readIdentifier(remainder)
		if name == "" {
			return "", "", false
		}
		remainder = strings.TrimSpace(remainder[len(name):])
		equalsIndex := strings.Index(remainder, "=")
		if equalsIndex < 0 {
			return name, docKindConstant, true
		}
		initializer := strings.TrimSpace(remainder[equalsIndex+1:])
		if strings.HasPrefix(initializer, "async ") {
			initializer = strings.TrimSpace(initializer[len("async "):])
		}
		switch {
		case strings.HasPrefix(initializer, "function") || strings.Contains(initializer, "=>"):
			return name, docKindFunction, true
		case strings.HasPrefix(initializer, "class"):
			return name, docKindClass, true
		default:
			return name, docKindConstant, true
		}
	}
	return "", "", false
}

func readIdentifier(input string) string {
	builder := strings.Builder{}
	for _, runeValue := range input {
		if unicode.IsLetter(runeValue) || unicode.IsDigit(runeValue) || runeValue == '_' || runeValue == '$' {
			builder.WriteRune(runeValue)
			continue
		}
		break
	}
	return builder.String()
}

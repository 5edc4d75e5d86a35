package parser

import (
	"strings"
)

const (
	docKindFunction  = "function"
	docKindClass     = "class"
	docKindMethod    = "method"
	docKindConstant  = "constant"
	docKindInterface = "interface"
	docKindType      = "type"
	docKindEnum      = "enum"

	tagParam      = "@param"
	tagArgument   = "@arg"
	tagReturns    = "@returns"
	tagReturn     = "@return"
	tagExample    = "@example"
	tagDeprecated = "@deprecated"
	tagPrivate    = "@private"
	tagAccess     = "@access"
)

// docParam is a documented function parameter.
type docParam struct {
	Name        string
	Type        string
	Description string
}

// docEntry is one documented declaration.
type docEntry struct {
	Kind        string
	Name        string
	Description string
	Params      []docParam
	ReturnType  string
	Returns     string
	Examples    []string
	Deprecated  string
	IsPrivate   bool
}

// isDocComment reports whether raw is a /** */ comment that is not a page header block.
func isDocComment(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return strings.HasPrefix(trimmed, "/**") && !strings.HasPrefix(trimmed, "/***") && !strings.Contains(trimmed, vitepressMarker)
}

// commentLines strips the comment delimiters and leading asterisks of a /** */ block.
func commentLines(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "/**")
	trimmed = strings.TrimSuffix(trimmed, "*/")
	rawLines := strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(rawLines))
	for _, rawLine := range rawLines {
		line := strings.TrimSpace(rawLine)
		line = strings.TrimPrefix(line, "*")
		if strings.HasPrefix(line, " ") {
			line = line[1:]
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	return lines
}

// parseDocComment fills an entry from a /** */ block. Kind and Name are left to the caller.
func parseDocComment(raw string) docEntry {
	var entry docEntry
	var descriptionLines []string
	var exampleLines []string
	inExample := false
	seenTag := false

	flushExample := func() {
		if inExample {
			example := strings.Trim(strings.Join(exampleLines, "\n"), "\n")
			if example != "" {
				entry.Examples = append(entry.Examples, example)
			}
		}
		exampleLines = nil
		inExample = false
	}

	for _, line := range commentLines(raw) {
		trimmedLine := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmedLine, "@") {
			if inExample {
				exampleLines = append(exampleLines, line)
				continue
			}
			if !seenTag {
				descriptionLines = append(descriptionLines, trimmedLine)
			}
			continue
		}

		flushExample()
		seenTag = true
		tag, remainder := splitTag(trimmedLine)
		switch tag {
		case tagParam, tagArgument:
			entry.Params = append(entry.Params, parseParamTag(remainder))
		case tagReturns, tagReturn:
			entry.ReturnType, entry.Returns = splitTypeExpression(remainder)
		case tagExample:
			inExample = true
			if remainder != "" {
				exampleLines = append(exampleLines, remainder)
			}
		case tagDeprecated:
			entry.Deprecated = remainder
			if entry.Deprecated == "" {
				entry.Deprecated = "deprecated"
			}
		case tagPrivate:
			entry.IsPrivate = true
		case tagAccess:
			entry.IsPrivate = remainder == "private"
		}
	}
	flushExample()
	entry.Description = strings.TrimSpace(strings.Join(descriptionLines, "\n"))
	return entry
}

func splitTag(line string) (string, string) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.TrimSpace(fields[1])
}

// splitTypeExpression separates a leading {type} from the rest of a tag.
func splitTypeExpression(text string) (string, string) {
	if !strings.HasPrefix(text, "{") {
		return "", text
	}
	depth := 0
	for index, runeValue := range text {
		switch runeValue {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(text[1:index]), strings.TrimSpace(text[index+1:])
			}
		}
	}
	return "", text
}

// parseParamTag reads "{type} name - description" with optional type and dash.
func parseParamTag(text string) docParam {
	typeExpression, remainder := splitTypeExpression(text)
	name, description := splitTag(remainder)
	description = strings.TrimSpace(strings.TrimPrefix(description, "-"))
	return docParam{
		Name:        strings.Trim(name, "[]"),
		Type:        typeExpression,
		Description: description,
	}
}

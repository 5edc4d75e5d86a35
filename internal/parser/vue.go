package parser

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/temirov/vpdoc/internal/types"
)

const (
	vueLanguageTypeScript = "ts"
	propsObjectKey        = "props"
	definePropsCall       = "defineProps"
)

var (
	scriptBlockPattern   = regexp.MustCompile(`(?is)<script([^>]*)>(.*?)</script>`)
	docsBlockPattern     = regexp.MustCompile(`(?is)<docs[^>]*>(.*?)</docs>`)
	languageAttrPattern  = regexp.MustCompile(`lang\s*=\s*["']([a-zA-Z]+)["']`)
	componentDocPattern  = regexp.MustCompile(`(?s)(/\*\*(?:[^*]|\*[^/])*\*/)\s*export\s+default`)
	propTypeFieldPattern = regexp.MustCompile(`type\s*:\s*([A-Za-z_$][\w$.]*|\[[^\]]*\])`)
)

// vueProp is a declared component property.
type vueProp struct {
	Name string
	Type string
}

// vueComponent is the data rendered by the component template.
type vueComponent struct {
	Name        string
	Description string
	Props       []vueProp
	Docs        string
	Entries     []docEntry
}

// VueParser documents single file components: props, the component comment, a <docs>
// block and documented script declarations.
type VueParser struct {
	extractor declarationExtractor
}

// NewVueParser returns a parser for .vue files.
func NewVueParser() *VueParser {
	return &VueParser{extractor: newDeclarationExtractor()}
}

// SupportedExtensions lists the extensions handled by the parser.
func (parser *VueParser) SupportedExtensions() []string {
	return []string{vueExtension}
}

// Parse renders the component page. Success is false when the file has no script block.
//
// #nosec G304
func (parser *VueParser) Parse(ctx context.Context, file types.DirectoryFile, config types.ParserConfig) (*types.ParseResult, error) {
	source, readError := os.ReadFile(file.Path)
	if readError != nil {
		return nil, fmt.Errorf(errorReadSourceFormat, file.Path, readError)
	}
	pageRenderer, rendererError := newRenderer(config)
	if rendererError != nil {
		return nil, rendererError
	}

	script, scriptExtension, hasScript := extractScriptBlock(string(source))
	component := vueComponent{
		Name: types.OutputName(file),
		Docs: extractDocsBlock(string(source)),
	}
	if hasScript {
		entries, extractError := parser.extractor.Extract(ctx, []byte(script), scriptExtension)
		if extractError != nil {
			return nil, fmt.Errorf(errorReadSourceFormat, file.Path, extractError)
		}
		component.Entries = entries
		component.Props = extractProps(script)
		if match := componentDocPattern.FindStringSubmatch(script); match != nil {
			component.Description = parseDocComment(match[1]).Description
		}
	}

	markdown, renderError := pageRenderer.renderComponent(component)
	if renderError != nil {
		return nil, renderError
	}
	header := buildPageHeader(string(source), file)
	return newResult(file, config, header+markdown, hasScript), nil
}

// extractScriptBlock returns the contents of every <script> block joined together and
// the extension matching their language.
func extractScriptBlock(source string) (string, string, bool) {
	matches := scriptBlockPattern.FindAllStringSubmatch(source, -1)
	if len(matches) == 0 {
		return "", "", false
	}
	extension := javaScriptExtension
	scripts := make([]string, 0, len(matches))
	for _, match := range matches {
		if language := languageAttrPattern.FindStringSubmatch(match[1]); language != nil && strings.EqualFold(language[1], vueLanguageTypeScript) {
			extension = typeScriptExtension
		}
		scripts = append(scripts, match[2])
	}
	return strings.Join(scripts, "\n"), extension, true
}

func extractDocsBlock(source string) string {
	match := docsBlockPattern.FindStringSubmatch(source)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// extractProps reads prop names and types from a props option, a defineProps call
// argument or a defineProps type parameter.
func extractProps(script string) []vueProp {
	for _, marker := range []string{definePropsCall + "<", definePropsCall + "(", propsObjectKey + ":"} {
		markerIndex := strings.Index(script, marker)
		if markerIndex < 0 {
			continue
		}
		remainder := strings.TrimLeft(script[markerIndex+len(marker):], " \t\r\n")
		if strings.HasPrefix(remainder, "[") {
			return arrayProps(remainder)
		}
		if strings.HasPrefix(remainder, "{") {
			return objectProps(remainder)
		}
	}
	return nil
}

// arrayProps parses props: ['a', "b"].
func arrayProps(text string) []vueProp {
	closing := strings.Index(text, "]")
	if closing < 0 {
		return nil
	}
	var props []vueProp
	for _, item := range strings.Split(text[1:closing], ",") {
		name := strings.Trim(strings.TrimSpace(item), `'"`+"`")
		if name != "" {
			props = append(props, vueProp{Name: name})
		}
	}
	return props
}

// objectProps parses the top-level members of an object literal or type literal
// starting at text[0] == '{'.
func objectProps(text string) []vueProp {
	var props []vueProp
	depth := 0
	memberStart := 1
	previousRune := ' '
	flush := func(end int) {
		member := strings.TrimSpace(text[memberStart:end])
		memberStart = end + 1
		if prop, parsed := parsePropMember(member); parsed {
			props = append(props, prop)
		}
	}
	for index, runeValue := range text {
		isArrow := runeValue == '>' && previousRune == '='
		previousRune = runeValue
		if isArrow {
			continue
		}
		switch runeValue {
		case '{', '[', '(', '<':
			depth++
		case '}', ']', ')', '>':
			depth--
			if depth == 0 {
				flush(index)
				return props
			}
		case ',', ';', '\n':
			if depth == 1 {
				flush(index)
			}
		}
	}
	return props
}

func parsePropMember(member string) (vueProp, bool) {
	colonIndex := strings.Index(member, ":")
	if colonIndex <= 0 {
		name := readIdentifier(member)
		if name == "" || name != member {
			return vueProp{}, false
		}
		return vueProp{Name: name}, true
	}
	name := strings.Trim(strings.TrimSpace(member[:colonIndex]), `'"?`)
	if readIdentifier(name) != name || name == "" {
		return vueProp{}, false
	}
	value := strings.TrimSpace(member[colonIndex+1:])
	if strings.HasPrefix(value, "{") {
		if match := propTypeFieldPattern.FindStringSubmatch(value); match != nil {
			return vueProp{Name: name, Type: match[1]}, true
		}
		return vueProp{Name: name}, true
	}
	return vueProp{Name: name, Type: value}, true
}

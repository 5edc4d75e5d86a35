package parser

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/temirov/vpdoc/internal/types"
)

const (
	pageTemplateName        = "page"
	componentTemplateName   = "component"
	errorTemplateGlobFormat = "resolving template pattern %s: %w"
	errorTemplateFileFormat = "parsing template %s: %w"
	errorRenderFormat       = "rendering %s: %w"
	errorJSDocConfigFormat  = "reading jsdoc configuration %s: %w"
)

//go:embed templates/page.md.tmpl
var defaultTemplates string

// renderOptions is the subset of a jsdoc configuration file that affects rendering.
// JSON configuration files are valid YAML and load the same way.
type renderOptions struct {
	Kinds []string `yaml:"kinds"`
	Opts  struct {
		Private bool `yaml:"private"`
	} `yaml:"opts"`
}

// renderer executes the default templates overridden by user partials and helpers.
type renderer struct {
	templates *template.Template
	options   renderOptions
}

func newRenderer(config types.ParserConfig) (*renderer, error) {
	templates, parseError := template.New("vpdoc").Funcs(template.FuncMap{
		"callable": isCallableKind,
		"escape":   escapeTableCell,
	}).Parse(defaultTemplates)
	if parseError != nil {
		return nil, parseError
	}
	for _, pattern := range append(append([]string{}, config.Partials...), config.Helpers...) {
		matches, globError := doublestar.FilepathGlob(pattern)
		if globError != nil {
			return nil, fmt.Errorf(errorTemplateGlobFormat, pattern, globError)
		}
		for _, match := range matches {
			if _, overrideError := templates.ParseFiles(match); overrideError != nil {
				return nil, fmt.Errorf(errorTemplateFileFormat, match, overrideError)
			}
		}
	}

	options, optionsError := loadRenderOptions(config.JSDocConfig)
	if optionsError != nil {
		return nil, optionsError
	}
	return &renderer{templates: templates, options: options}, nil
}

// #nosec G304
func loadRenderOptions(configPath string) (renderOptions, error) {
	var options renderOptions
	if configPath == "" {
		return options, nil
	}
	content, readError := os.ReadFile(configPath)
	if readError != nil {
		return options, fmt.Errorf(errorJSDocConfigFormat, configPath, readError)
	}
	if unmarshalError := yaml.Unmarshal(content, &options); unmarshalError != nil {
		return options, fmt.Errorf(errorJSDocConfigFormat, configPath, unmarshalError)
	}
	return options, nil
}

// visible drops private entries unless enabled and entries of kinds not listed.
func (renderer *renderer) visible(entries []docEntry) []docEntry {
	var result []docEntry
	for _, entry := range entries {
		if entry.IsPrivate && !renderer.options.Opts.Private {
			continue
		}
		if len(renderer.options.Kinds) > 0 && !containsFold(renderer.options.Kinds, entry.Kind) {
			continue
		}
		result = append(result, entry)
	}
	return result
}

func (renderer *renderer) renderPage(entries []docEntry) (string, error) {
	visibleEntries := renderer.visible(entries)
	if len(visibleEntries) == 0 {
		return "", nil
	}
	return renderer.execute(pageTemplateName, struct{ Entries []docEntry }{Entries: visibleEntries})
}

func (renderer *renderer) renderComponent(component vueComponent) (string, error) {
	component.Entries = renderer.visible(component.Entries)
	return renderer.execute(componentTemplateName, component)
}

func (renderer *renderer) execute(templateName string, data any) (string, error) {
	var buffer bytes.Buffer
	if executeError := renderer.templates.ExecuteTemplate(&buffer, templateName, data); executeError != nil {
		return "", fmt.Errorf(errorRenderFormat, templateName, executeError)
	}
	return strings.TrimRight(buffer.String(), "\n") + "\n", nil
}

func isCallableKind(kind string) bool {
	return kind == docKindFunction || kind == docKindMethod
}

func escapeTableCell(text string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text, "|", `\|`), "\n", " ")
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

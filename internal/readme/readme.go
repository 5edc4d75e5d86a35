// Package readme publishes the project README as the landing page of the documentation.
package readme

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/temirov/vpdoc/internal/filelock"
	"github.com/temirov/vpdoc/internal/types"
)

const (
	defaultReadmeFormat = `# Welcome to %s

Thank you for checking out this project! This is a default README message, as a custom README was not provided. Feel free to contribute or reach out with any questions or suggestions.
`
	headingFormat          = "# %s\n\n"
	frontMatterPrefix      = "---\n"
	errorWriteReadmeFormat = "writing %s: %w"
	logMessageDefault      = "README not readable, writing default page"
	logFieldPath           = "path"
)

// Options locate the README source and the documentation folder.
type Options struct {
	SourceFolder string
	// CodeFolder is the documentation subfolder below the dist folder.
	CodeFolder string
	DocsFolder string
	Title      string
	// ReadmePath overrides SourceFolder/README.md.
	ReadmePath string
}

// Reporter receives README progress lines.
type Reporter interface {
	PrintReadme(source string, destination string)
}

// Generator writes DocsFolder/README.md.
type Generator struct {
	options  Options
	reporter Reporter
	logger   *zap.Logger
	markdown goldmark.Markdown
}

// NewGenerator returns a README generator. reporter may be nil.
func NewGenerator(options Options, reporter Reporter, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{options: options, reporter: reporter, logger: logger, markdown: goldmark.New()}
}

// SourcePath returns the README the generator copies from.
func (generator *Generator) SourcePath() string {
	if generator.options.ReadmePath != "" {
		return generator.options.ReadmePath
	}
	return filepath.Join(generator.options.SourceFolder, types.ReadmeFileName)
}

// DestinationPath returns the generated README location.
func (generator *Generator) DestinationPath() string {
	return filepath.Join(generator.options.DocsFolder, types.ReadmeFileName)
}

// Generate copies the source README into the documentation folder, or writes a default
// welcome page when it cannot be read. The copy is announced when deletedPaths shows that
// a previous build published a README.
//
// #nosec G304
func (generator *Generator) Generate(deletedPaths []string) error {
	sourcePath := generator.SourcePath()
	destinationPath := generator.DestinationPath()

	content, readError := os.ReadFile(sourcePath)
	if readError != nil {
		generator.logger.Debug(logMessageDefault, zap.String(logFieldPath, sourcePath), zap.Error(readError))
		content = []byte(fmt.Sprintf(defaultReadmeFormat, generator.options.Title))
		generator.report("", destinationPath)
	} else {
		content = generator.ensureHeading(content)
		if replacesPublishedReadme(deletedPaths, generator.options.CodeFolder) {
			generator.report(sourcePath, destinationPath)
		}
	}

	if writeError := filelock.AtomicWrite(destinationPath, content); writeError != nil {
		return fmt.Errorf(errorWriteReadmeFormat, destinationPath, writeError)
	}
	return nil
}

func (generator *Generator) report(source string, destination string) {
	if generator.reporter != nil {
		generator.reporter.PrintReadme(source, destination)
	}
}

// ensureHeading prepends a title heading when the document does not open with one.
// Documents carrying front matter are left untouched.
func (generator *Generator) ensureHeading(content []byte) []byte {
	if bytes.HasPrefix(content, []byte(frontMatterPrefix)) || generator.options.Title == "" {
		return content
	}
	document := generator.markdown.Parser().Parse(text.NewReader(content))
	firstBlock := document.FirstChild()
	if firstBlock != nil && firstBlock.Kind() == ast.KindHeading {
		return content
	}
	return append([]byte(fmt.Sprintf(headingFormat, generator.options.Title)), content...)
}

func replacesPublishedReadme(deletedPaths []string, codeFolder string) bool {
	publishedSuffix := filepath.Join(codeFolder, types.ReadmeFileName)
	for _, deletedPath := range deletedPaths {
		if strings.Contains(deletedPath, publishedSuffix) {
			return true
		}
	}
	return false
}

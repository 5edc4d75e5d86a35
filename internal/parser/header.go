package parser

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/vpdoc/internal/types"
)

const (
	vitepressMarker      = "@vitepress"
	frontMatterDelimiter = "---"
	vueExtension         = ".vue"
)

var blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)

// pageAttributes are the front matter keys that influence the page header.
type pageAttributes struct {
	Title    string `yaml:"title"`
	Headline string `yaml:"headline"`
}

// frontMatter is the YAML carried by a @vitepress comment block.
type frontMatter struct {
	raw        string
	attributes pageAttributes
	found      bool
}

// parseVitepressComment returns the front matter of the first block comment containing
// the @vitepress marker. Malformed YAML keeps the raw text but yields no attributes.
func parseVitepressComment(source string) frontMatter {
	for _, block := range blockCommentPattern.FindAllString(source, -1) {
		if !strings.Contains(block, vitepressMarker) {
			continue
		}
		raw := extractFrontMatter(cleanCommentBlock(block))
		var attributes pageAttributes
		if unmarshalError := yaml.Unmarshal([]byte(raw), &attributes); unmarshalError != nil {
			return frontMatter{raw: raw, found: raw != ""}
		}
		return frontMatter{raw: raw, attributes: attributes, found: raw != ""}
	}
	return frontMatter{}
}

// cleanCommentBlock strips comment delimiters, leading asterisks and the marker.
func cleanCommentBlock(block string) string {
	trimmedBlock := strings.TrimSuffix(strings.TrimPrefix(block, "/*"), "*/")
	lines := strings.Split(strings.ReplaceAll(trimmedBlock, "\r\n", "\n"), "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLine := strings.TrimLeft(line, " \t")
		cleanedLine = strings.TrimPrefix(cleanedLine, "*")
		cleanedLine = strings.TrimPrefix(cleanedLine, " ")
		cleanedLine = strings.ReplaceAll(cleanedLine, vitepressMarker, "")
		cleanedLines = append(cleanedLines, strings.TrimRight(cleanedLine, " \t"))
	}
	return strings.TrimSpace(strings.Join(cleanedLines, "\n"))
}

// extractFrontMatter returns the text between the first pair of --- delimiters, or the
// whole text when no delimiters are present.
func extractFrontMatter(text string) string {
	lines := strings.Split(text, "\n")
	start := -1
	for index, line := range lines {
		if strings.TrimSpace(line) != frontMatterDelimiter {
			continue
		}
		if start < 0 {
			start = index
			continue
		}
		return strings.TrimSpace(strings.Join(lines[start+1:index], "\n"))
	}
	return strings.TrimSpace(text)
}

// buildPageHeader renders the front matter section and the optional headline of a page.
// Vue components only get a headline when the block declares a title.
func buildPageHeader(source string, file types.DirectoryFile) string {
	matter := parseVitepressComment(source)
	pageName := types.OutputName(file)
	hasTitle := matter.attributes.Title != ""

	builder := strings.Builder{}
	builder.WriteString(frontMatterDelimiter + "\n")
	if !hasTitle {
		builder.WriteString("title: " + pageName)
	}
	if matter.found {
		if !hasTitle {
			builder.WriteString("\n")
		}
		builder.WriteString(matter.raw)
	}
	builder.WriteString("\n" + frontMatterDelimiter + "\n")

	if hasTitle || file.Ext != vueExtension {
		headline := pageName
		if matter.attributes.Headline != "" {
			headline = matter.attributes.Headline
		} else if hasTitle {
			headline = matter.attributes.Title
		}
		builder.WriteString("\n# " + headline + "\n\n")
	}
	return builder.String()
}

package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/temirov/vpdoc/internal/types"
	"github.com/temirov/vpdoc/internal/utils"
)

const (
	statisticLineFormat = " %s %s -> %s\n"
	excludedLineFormat  = " %s %s\n"
	updateLineFormat    = "update %s\n"
	readmeCopiedFormat  = "\n README  %s -> %s\n"
	readmeDefaultLine   = "\n README  Add default README.md\n"
	watchingLine        = "\n---\n\n watching files...\n"
	elapsedLineFormat   = "\n Time elapsed: %s\n"
	clearLineSequence   = "\r\x1b[2K"
)

// Reporter prints generation statistics and watcher status to a console stream.
type Reporter struct {
	out         io.Writer
	interactive bool
	colors      map[types.StatisticType]*color.Color
}

// NewReporter returns a reporter writing to out. Interactive enables colours and line
// clearing and is expected to be set when out is a terminal.
func NewReporter(out io.Writer, interactive bool) *Reporter {
	colors := map[types.StatisticType]*color.Color{
		types.StatisticInclude: color.New(color.FgGreen),
		types.StatisticEmpty:   color.New(color.FgYellow),
		types.StatisticExclude: color.New(color.FgCyan),
		types.StatisticError:   color.New(color.FgRed, color.Bold),
	}
	for _, statisticColor := range colors {
		if interactive {
			statisticColor.EnableColor()
		} else {
			statisticColor.DisableColor()
		}
	}
	return &Reporter{out: out, interactive: interactive, colors: colors}
}

func (reporter *Reporter) label(statisticType types.StatisticType) string {
	if statisticColor, found := reporter.colors[statisticType]; found {
		return statisticColor.Sprint(string(statisticType))
	}
	return string(statisticType)
}

// PrintStats prints one EXCLUDE line per excluded file, a blank line, then one line per
// result mapping its source to its page.
func (reporter *Reporter) PrintStats(excluded []types.DirectoryFile, results []*types.ParseResult) {
	for _, file := range excluded {
		fmt.Fprintf(reporter.out, excludedLineFormat, reporter.label(types.StatisticExclude), file.Folder+file.FileName())
	}
	fmt.Fprintln(reporter.out)
	for _, result := range results {
		if result == nil || result.File.Name == "" {
			continue
		}
		sourcePath := result.RelativePathSrc + result.File.FileName()
		destinationPath := filepath.Join(result.RelativePathDest, types.OutputName(result.File)+types.MarkdownExtension)
		fmt.Fprintf(reporter.out, statisticLineFormat, reporter.label(result.Type), sourcePath, destinationPath)
	}
}

// PrintReadme reports the README source, or the default page when source is empty.
func (reporter *Reporter) PrintReadme(source string, destination string) {
	if source == "" {
		fmt.Fprint(reporter.out, readmeDefaultLine)
		return
	}
	fmt.Fprintf(reporter.out, readmeCopiedFormat, source, destination)
}

// PrintElapsed prints the total generation time in seconds.
func (reporter *Reporter) PrintElapsed(seconds float64) {
	fmt.Fprintf(reporter.out, elapsedLineFormat, utils.FormatElapsedSeconds(seconds))
}

// PrintWatching announces the start of watch mode.
func (reporter *Reporter) PrintWatching() {
	fmt.Fprint(reporter.out, watchingLine)
}

// PrintUpdate clears the status line on terminals and names the regenerated file.
func (reporter *Reporter) PrintUpdate(file types.DirectoryFile) {
	reporter.ClearLine()
	fmt.Fprintf(reporter.out, updateLineFormat, file.FileName())
}

// ClearLine erases the current terminal line. It does nothing on non-interactive streams.
func (reporter *Reporter) ClearLine() {
	if reporter.interactive {
		fmt.Fprint(reporter.out, clearLineSequence)
	}
}

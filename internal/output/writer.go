// Package output writes generated pages and reports what happened to them.
package output

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/temirov/vpdoc/internal/filelock"
	"github.com/temirov/vpdoc/internal/types"
)

var (
	// ErrMissingResult is returned when the writer receives no parse result.
	ErrMissingResult = errors.New("parse result is undefined")
	// ErrMissingDestination is returned when a parse result has no destination.
	ErrMissingDestination = errors.New("destination is undefined")
)

const errorWritePageFormat = "writing page %s: %w"

// Writer stores parse results as markdown pages.
type Writer struct {
	WorkingDirectory string
}

// NewWriter returns a writer resolving relative destinations against workingDirectory.
func NewWriter(workingDirectory string) *Writer {
	return &Writer{WorkingDirectory: workingDirectory}
}

// PagePath returns the page location of result below destination.
func (writer *Writer) PagePath(result *types.ParseResult, destination string) string {
	if !filepath.IsAbs(destination) && writer.WorkingDirectory != "" {
		destination = filepath.Join(writer.WorkingDirectory, destination)
	}
	return filepath.Join(destination, types.OutputName(result.File)+types.MarkdownExtension)
}

// Write stores result below destination and returns a copy annotated with its statistic
// type. Results without content are not written. A failed write yields the ERROR type
// together with the error.
func (writer *Writer) Write(result *types.ParseResult, destination string) (*types.ParseResult, error) {
	if result == nil {
		return nil, ErrMissingResult
	}
	if result.Dest == "" {
		return nil, ErrMissingDestination
	}
	annotated := *result
	annotated.Type = types.StatisticError
	if result.Excluded {
		annotated.Type = types.StatisticExclude
	}

	if result.Content != "" {
		pagePath := writer.PagePath(result, destination)
		if writeError := filelock.AtomicWrite(pagePath, []byte(result.Content)); writeError != nil {
			annotated.Type = types.StatisticError
			return &annotated, fmt.Errorf(errorWritePageFormat, pagePath, writeError)
		}
		annotated.Type = types.StatisticInclude
		if result.Empty {
			annotated.Type = types.StatisticEmpty
		}
	}
	return &annotated, nil
}

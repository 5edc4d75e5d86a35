// Package generate runs a complete documentation build: cleanup, traversal, parsing,
// writing, statistics and README publication.
package generate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/vpdoc/internal/cleanup"
	"github.com/temirov/vpdoc/internal/commands"
	"github.com/temirov/vpdoc/internal/metrics"
	"github.com/temirov/vpdoc/internal/parser"
	"github.com/temirov/vpdoc/internal/types"
	"github.com/temirov/vpdoc/internal/utils"
)

// ErrMissingCollaborator is returned when a required dependency was not provided.
var ErrMissingCollaborator = errors.New("generate: missing collaborator")

const (
	errorMissingCollaboratorFormat = "%w: %s"
	errorTraversalFormat           = "traversing %s: %w"
	errorReadmeFormat              = "publishing README: %w"

	logMessageCleanupFailed = "cleanup incomplete"
	logMessageParseFailed   = "parsing failed"
	logMessageWriteFailed   = "writing failed"
	logFieldPath            = "path"
	logFieldPatterns        = "patterns"
)

// ContentParser renders one source file. A nil result means the entry is not a page.
type ContentParser interface {
	ParseFile(ctx context.Context, file types.DirectoryFile, config types.ParserConfig) (*types.ParseResult, error)
}

// PageWriter stores a parse result below destination and classifies it.
type PageWriter interface {
	Write(result *types.ParseResult, destination string) (*types.ParseResult, error)
}

// ReadmeGenerator publishes the documentation landing page.
type ReadmeGenerator interface {
	Generate(deletedPaths []string) error
}

// PathRemover deletes glob matches and remembers them.
type PathRemover interface {
	Delete(patterns []string) (bool, error)
	DeletedPaths() []string
}

// TreeBuilder produces one traversal of the source folder.
type TreeBuilder interface {
	Build() (types.TraversalResult, error)
}

// Reporter prints the outcome of a build.
type Reporter interface {
	PrintStats(excluded []types.DirectoryFile, results []*types.ParseResult)
	PrintElapsed(seconds float64)
}

// Options configure a build.
type Options struct {
	Traversal      types.TraversalOptions
	ParserConfig   types.ParserConfig
	RemovePatterns []string
	// Concurrency bounds parallel page generation. Zero uses the number of CPUs.
	Concurrency int
}

// Service wires the collaborators of a build. Reporter and Metrics are optional.
type Service struct {
	Options   Options
	Parser    ContentParser
	Writer    PageWriter
	Readme    ReadmeGenerator
	Remover   PathRemover
	Reporter  Reporter
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	BuildTree func(types.TraversalOptions) TreeBuilder
	now       func() time.Time
}

// Summary describes a finished build.
type Summary struct {
	Traversal types.TraversalResult
	Results   []*types.ParseResult
	Elapsed   time.Duration
}

// NewTreeBuilder adapts commands.NewTreeBuilder to the BuildTree field.
func NewTreeBuilder(options types.TraversalOptions) TreeBuilder {
	return commands.NewTreeBuilder(options)
}

func (service *Service) validate() error {
	missing := ""
	switch {
	case service.Parser == nil:
		missing = "parser"
	case service.Writer == nil:
		missing = "writer"
	case service.Readme == nil:
		missing = "readme generator"
	case service.Remover == nil:
		missing = "path remover"
	}
	if missing != "" {
		return fmt.Errorf(errorMissingCollaboratorFormat, ErrMissingCollaborator, missing)
	}
	return nil
}

func (service *Service) clock() time.Time {
	if service.now != nil {
		return service.now()
	}
	return time.Now()
}

// Run executes a complete build. Traversal, docs folder creation and README failures abort
// the build; parse and write failures are isolated per file with the ERROR statistic.
func (service *Service) Run(ctx context.Context) (*Summary, error) {
	if validationError := service.validate(); validationError != nil {
		return nil, validationError
	}
	logger := utils.LoggerOrNop(service.Logger)
	startedAt := service.clock()
	docsFolder := service.Options.ParserConfig.DocsFolder

	patterns := cleanup.DocsFolderPatterns(docsFolder, service.Options.RemovePatterns)
	if _, deleteError := service.Remover.Delete(patterns); deleteError != nil {
		logger.Warn(logMessageCleanupFailed, zap.Strings(logFieldPatterns, patterns), zap.Error(deleteError))
	}

	traversal, traversalError := service.Traverse()
	if traversalError != nil {
		return nil, traversalError
	}
	if createError := cleanup.CreateDocsFolder(docsFolder); createError != nil {
		return nil, createError
	}

	results, generateError := service.GenerateAll(ctx, traversal.Paths)
	if generateError != nil {
		return nil, generateError
	}
	if service.Reporter != nil {
		service.Reporter.PrintStats(traversal.Excluded, results)
	}
	if readmeError := service.Readme.Generate(service.Remover.DeletedPaths()); readmeError != nil {
		return nil, fmt.Errorf(errorReadmeFormat, readmeError)
	}

	elapsed := service.clock().Sub(startedAt)
	if service.Reporter != nil {
		service.Reporter.PrintElapsed(elapsed.Seconds())
	}
	return &Summary{Traversal: traversal, Results: results, Elapsed: elapsed}, nil
}

// Traverse builds the source tree once and records its duration.
func (service *Service) Traverse() (types.TraversalResult, error) {
	buildTree := service.BuildTree
	if buildTree == nil {
		buildTree = NewTreeBuilder
	}
	startedAt := service.clock()
	traversal, buildError := buildTree(service.Options.Traversal).Build()
	service.Metrics.ObserveTraversal(service.clock().Sub(startedAt))
	if buildError != nil {
		return types.TraversalResult{}, fmt.Errorf(errorTraversalFormat, service.Options.Traversal.SourcePath, buildError)
	}
	return traversal, nil
}

// GenerateAll generates every file with bounded concurrency. Results keep the order of
// files; entries that are not pages are dropped. Only context cancellation is returned.
func (service *Service) GenerateAll(ctx context.Context, files []types.DirectoryFile) ([]*types.ParseResult, error) {
	limit := service.Options.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	slots := make([]*types.ParseResult, len(files))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for fileIndex := range files {
		fileIndex := fileIndex
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			slots[fileIndex] = service.GenerateFile(groupContext, files[fileIndex])
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	results := make([]*types.ParseResult, 0, len(slots))
	for _, result := range slots {
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

// GenerateFile parses and writes one file. Failures are logged and reported as a result
// with the ERROR statistic; nil is returned for entries that are not pages.
func (service *Service) GenerateFile(ctx context.Context, file types.DirectoryFile) *types.ParseResult {
	logger := utils.LoggerOrNop(service.Logger)
	config := service.Options.ParserConfig

	parsed, parseError := service.Parser.ParseFile(ctx, file, config)
	if parseError != nil {
		logger.Error(logMessageParseFailed, zap.String(logFieldPath, file.Path), zap.Error(parseError))
		return service.failed(file)
	}
	if parsed == nil {
		return nil
	}

	written, writeError := service.Writer.Write(parsed, parsed.RelativePathDest)
	if writeError != nil {
		logger.Error(logMessageWriteFailed, zap.String(logFieldPath, file.Path), zap.Error(writeError))
		if written == nil {
			return service.failed(file)
		}
	}
	service.Metrics.FileGenerated(written.Type)
	return written
}

func (service *Service) failed(file types.DirectoryFile) *types.ParseResult {
	relativePathDest, destination := parser.ComputePaths(file, service.Options.ParserConfig)
	service.Metrics.FileGenerated(types.StatisticError)
	return &types.ParseResult{
		File:             file,
		RelativePathSrc:  file.Folder,
		RelativePathDest: relativePathDest,
		Dest:             destination,
		Type:             types.StatisticError,
	}
}

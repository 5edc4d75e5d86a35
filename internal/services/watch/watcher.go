// Package watch regenerates single pages while source files change.
package watch

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/vpdoc/internal/metrics"
	"github.com/temirov/vpdoc/internal/types"
	"github.com/temirov/vpdoc/internal/utils"
)

const (
	logMessageTraversalFailed = "rebuilding tree failed"
	logMessageReadmeFailed    = "regenerating README failed"
	logMessageWatchError      = "watcher error"
	logMessageChange          = "change detected"
	logMessageIgnored         = "change ignored"
	logFieldCycle             = "cycle"
	logFieldPath              = "path"
)

// Generator rebuilds the tree and regenerates single files.
type Generator interface {
	Traverse() (types.TraversalResult, error)
	GenerateFile(ctx context.Context, file types.DirectoryFile) *types.ParseResult
}

// ReadmeGenerator republishes the README.
type ReadmeGenerator interface {
	Generate(deletedPaths []string) error
}

// Reporter prints watch progress.
type Reporter interface {
	PrintWatching()
	PrintUpdate(file types.DirectoryFile)
}

// Options name the README locations that trigger README regeneration.
type Options struct {
	SourceFolder string
	// ReadmePath is the optional README override.
	ReadmePath string
}

// Watcher consumes change events one at a time. Event N+1 is handled only after the
// rebuild and regeneration of event N completed.
type Watcher struct {
	Options   Options
	Source    EventSource
	Generator Generator
	Readme    ReadmeGenerator
	Reporter  Reporter
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Run handles events until ctx is cancelled or the source is exhausted. The source is
// closed on return.
func (watcher *Watcher) Run(ctx context.Context) error {
	defer watcher.Source.Close()
	logger := utils.LoggerOrNop(watcher.Logger)
	if watcher.Reporter != nil {
		watcher.Reporter.PrintWatching()
	}
	events := watcher.Source.Events()
	watchErrors := watcher.Source.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			watcher.HandleChange(ctx, path)
		case watchError, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			logger.Warn(logMessageWatchError, zap.Error(watchError))
		}
	}
}

// HandleChange rebuilds the tree, republishes the README when path is one of its
// locations and regenerates the page of path when it is an eligible file. It returns the
// metrics outcome of the change.
func (watcher *Watcher) HandleChange(ctx context.Context, path string) string {
	logger := utils.LoggerOrNop(watcher.Logger).With(
		zap.String(logFieldCycle, uuid.NewString()),
		zap.String(logFieldPath, path),
	)
	logger.Debug(logMessageChange)

	traversal, traversalError := watcher.Generator.Traverse()
	if traversalError != nil {
		logger.Error(logMessageTraversalFailed, zap.Error(traversalError))
		watcher.Metrics.WatchEvent(metrics.OutcomeFailed)
		return metrics.OutcomeFailed
	}
	file, found := findFile(traversal.Paths, path)

	outcome := metrics.OutcomeIgnored
	if watcher.isReadme(path) {
		outcome = metrics.OutcomeReadme
		if readmeError := watcher.Readme.Generate(nil); readmeError != nil {
			logger.Error(logMessageReadmeFailed, zap.Error(readmeError))
			outcome = metrics.OutcomeFailed
		}
	}

	if found {
		if watcher.Reporter != nil {
			watcher.Reporter.PrintUpdate(file)
		}
		result := watcher.Generator.GenerateFile(ctx, file)
		outcome = metrics.OutcomeRegenerated
		if result != nil && result.Type == types.StatisticError {
			outcome = metrics.OutcomeFailed
		}
	}

	if outcome == metrics.OutcomeIgnored {
		logger.Debug(logMessageIgnored)
	}
	watcher.Metrics.WatchEvent(outcome)
	return outcome
}

func (watcher *Watcher) isReadme(path string) bool {
	cleaned := filepath.Clean(path)
	if watcher.Options.ReadmePath != "" && cleaned == filepath.Clean(watcher.Options.ReadmePath) {
		return true
	}
	return cleaned == filepath.Join(watcher.Options.SourceFolder, types.ReadmeFileName)
}

func findFile(files []types.DirectoryFile, path string) (types.DirectoryFile, bool) {
	cleaned := filepath.Clean(path)
	for _, file := range files {
		if filepath.Clean(file.Path) == cleaned {
			return file, true
		}
	}
	return types.DirectoryFile{}, false
}

// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/vpdoc/internal/cleanup"
	"github.com/temirov/vpdoc/internal/config"
	"github.com/temirov/vpdoc/internal/filelock"
	"github.com/temirov/vpdoc/internal/filter"
	"github.com/temirov/vpdoc/internal/metrics"
	"github.com/temirov/vpdoc/internal/output"
	"github.com/temirov/vpdoc/internal/parser"
	"github.com/temirov/vpdoc/internal/readme"
	"github.com/temirov/vpdoc/internal/services/generate"
	"github.com/temirov/vpdoc/internal/services/watch"
	"github.com/temirov/vpdoc/internal/types"
	"github.com/temirov/vpdoc/internal/utils"
)

const (
	sourceFlagName         = "source"
	distFlagName           = "dist"
	folderFlagName         = "folder"
	titleFlagName          = "title"
	readmeFlagName         = "readme"
	includeFlagName        = "include"
	excludeFlagName        = "exclude"
	watchFlagName          = "watch"
	removePatternFlagName  = "rm-pattern"
	partialsFlagName       = "partials"
	helpersFlagName        = "helpers"
	jsdocConfigFlagName    = "jsdoc-config"
	metricsAddressFlagName = "metrics-address"
	configFlagName         = "config"
	concurrencyFlagName    = "concurrency"
	versionFlagName        = "version"
	globalFlagName         = "global"
	forceFlagName          = "force"

	defaultSource = "./src"
	defaultDist   = "./docs"
	defaultFolder = "code"
	defaultTitle  = "API"

	versionTemplate      = "vpdoc version: %s\n"
	rootUse              = "vpdoc"
	rootShortDescription = "generate VitePress markdown from JavaScript, TypeScript and Vue sources"
	rootLongDescription  = `vpdoc walks a source folder, renders the documentation comments of every
matching .js, .ts and .vue file into markdown pages for VitePress and publishes the
project README as the landing page. Running vpdoc without a subcommand is the same as
running vpdoc generate.`
	generateUse              = "generate"
	generateAlias            = "gen"
	generateShortDescription = "generate the documentation folder (" + generateAlias + ")"
	generateUsageExample     = `  # Generate docs/code from ./src, skipping tests
  vpdoc generate --source ./src --dist ./docs --exclude "*.test.ts"

  # Keep regenerating pages while files change
  vpdoc -w -i "*.{ts,vue}"`
	initUse              = "init"
	initShortDescription = "write a default " + utils.ConfigFileName + " configuration"

	sourceFlagDescription         = "source folder containing .js, .ts or .vue files"
	distFlagDescription           = "destination folder for generated markdown"
	folderFlagDescription         = "folder inside the destination, recreated on every run"
	titleFlagDescription          = "documentation title used by the default README"
	readmeFlagDescription         = "custom README file"
	includeFlagDescription        = "comma-separated globs a file must all match, e.g. \"*.{js,ts,vue}\""
	excludeFlagDescription        = "comma-separated globs of files to exclude"
	watchFlagDescription          = "regenerate pages when source files change"
	removePatternFlagDescription  = "additional globs removed before generation"
	partialsFlagDescription       = "template files overriding the default partials"
	helpersFlagDescription        = "template files defining additional helpers"
	jsdocConfigFlagDescription    = "JSDoc configuration file"
	metricsAddressFlagDescription = "serve Prometheus metrics on this address while running"
	configFlagDescription         = "configuration file overriding " + utils.ConfigFileName
	concurrencyFlagDescription    = "number of files generated in parallel (0 uses all CPUs)"
	versionFlagDescription        = "display application version"
	globalFlagDescription         = "write the configuration to the home directory"
	forceFlagDescription          = "overwrite an existing configuration"

	configurationWrittenFormat  = "configuration written to %s\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorInvalidPatternsFormat  = "invalid include or exclude pattern: %w"
	errorWatchFormat            = "starting watcher: %w"
	logMessageMetricsServing    = "serving metrics"
	logMessageMetricsFailed     = "metrics server stopped"
	logFieldAddress             = "address"
)

// Execute runs the vpdoc application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	rootOptions := &generateOptions{}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runGenerate(command, rootOptions, logger)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	addGenerateFlags(rootCommand, rootOptions)
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(logger),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// generateOptions stores the flag values of a generate run.
type generateOptions struct {
	source         string
	dist           string
	folder         string
	title          string
	readme         string
	include        []string
	exclude        []string
	watch          bool
	removePatterns []string
	partials       []string
	helpers        []string
	jsdocConfig    string
	metricsAddress string
	configPath     string
	concurrency    int
}

// addGenerateFlags registers the generate flags on command.
func addGenerateFlags(command *cobra.Command, options *generateOptions) {
	flagSet := command.Flags()
	flagSet.StringVarP(&options.source, sourceFlagName, "s", defaultSource, sourceFlagDescription)
	flagSet.StringVarP(&options.dist, distFlagName, "d", defaultDist, distFlagDescription)
	flagSet.StringVarP(&options.folder, folderFlagName, "f", defaultFolder, folderFlagDescription)
	flagSet.StringVarP(&options.title, titleFlagName, "t", defaultTitle, titleFlagDescription)
	flagSet.StringVarP(&options.readme, readmeFlagName, "r", "", readmeFlagDescription)
	flagSet.StringArrayVarP(&options.include, includeFlagName, "i", nil, includeFlagDescription)
	flagSet.StringArrayVarP(&options.exclude, excludeFlagName, "e", nil, excludeFlagDescription)
	registerBooleanFlag(flagSet, &options.watch, watchFlagName, "w", false, watchFlagDescription)
	flagSet.StringArrayVar(&options.removePatterns, removePatternFlagName, nil, removePatternFlagDescription)
	flagSet.StringSliceVarP(&options.partials, partialsFlagName, "p", nil, partialsFlagDescription)
	flagSet.StringSliceVar(&options.helpers, helpersFlagName, nil, helpersFlagDescription)
	flagSet.StringVarP(&options.jsdocConfig, jsdocConfigFlagName, "c", "", jsdocConfigFlagDescription)
	flagSet.StringVar(&options.metricsAddress, metricsAddressFlagName, "", metricsAddressFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.IntVar(&options.concurrency, concurrencyFlagName, 0, concurrencyFlagDescription)
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(logger *zap.Logger) *cobra.Command {
	options := &generateOptions{}
	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    rootLongDescription,
		Example: generateUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runGenerate(command, options, logger)
		},
	}
	addGenerateFlags(generateCommand, options)
	return generateCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveConfiguration layers defaults, configuration files and explicitly set flags.
func resolveConfiguration(command *cobra.Command, options *generateOptions, workingDirectory string) (config.ApplicationConfiguration, error) {
	fileConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if loadError != nil {
		return config.ApplicationConfiguration{}, loadError
	}
	defaults := config.ApplicationConfiguration{
		Source: defaultSource,
		Dist:   defaultDist,
		Folder: defaultFolder,
		Title:  defaultTitle,
	}

	changed := command.Flags().Changed
	var flagConfiguration config.ApplicationConfiguration
	if changed(sourceFlagName) {
		flagConfiguration.Source = options.source
	}
	if changed(distFlagName) {
		flagConfiguration.Dist = options.dist
	}
	if changed(folderFlagName) {
		flagConfiguration.Folder = options.folder
	}
	if changed(titleFlagName) {
		flagConfiguration.Title = options.title
	}
	if changed(readmeFlagName) {
		flagConfiguration.Readme = options.readme
	}
	if changed(includeFlagName) {
		flagConfiguration.Include = utils.ExpandPatternLists(options.include)
	}
	if changed(excludeFlagName) {
		flagConfiguration.Exclude = utils.ExpandPatternLists(options.exclude)
	}
	if changed(watchFlagName) {
		watchEnabled := options.watch
		flagConfiguration.Watch = &watchEnabled
	}
	if changed(removePatternFlagName) {
		flagConfiguration.RemovePatterns = utils.ExpandPatternLists(options.removePatterns)
	}
	if changed(partialsFlagName) {
		flagConfiguration.Partials = options.partials
	}
	if changed(helpersFlagName) {
		flagConfiguration.Helpers = options.helpers
	}
	if changed(jsdocConfigFlagName) {
		flagConfiguration.JSDocConfig = options.jsdocConfig
	}
	if changed(metricsAddressFlagName) {
		flagConfiguration.MetricsAddress = options.metricsAddress
	}
	if changed(concurrencyFlagName) {
		concurrency := options.concurrency
		flagConfiguration.Concurrency = &concurrency
	}
	return defaults.Merge(fileConfiguration).Merge(flagConfiguration), nil
}

// runGenerate performs a build and, when requested, keeps watching the sources.
func runGenerate(command *cobra.Command, options *generateOptions, logger *zap.Logger) error {
	logger = utils.LoggerOrNop(logger)
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	settings, resolveError := resolveConfiguration(command, options, workingDirectory)
	if resolveError != nil {
		return resolveError
	}

	sourceFolder := utils.NormalizeSourceFolder(settings.Source)
	docsFolder := filepath.Join(settings.Dist, settings.Folder)
	excludePatterns, excludeError := config.LoadExcludePatterns(sourceFolder, settings.Exclude)
	if excludeError != nil {
		return excludeError
	}
	if validationError := filter.NewPatternFilter(settings.Include, excludePatterns).Validate(); validationError != nil {
		return fmt.Errorf(errorInvalidPatternsFormat, validationError)
	}

	docsLock := filelock.NewFileLock(filepath.Join(settings.Dist, utils.LockFileName))
	if lockError := docsLock.TryLock(); lockError != nil {
		return lockError
	}
	defer func() {
		if unlockError := docsLock.Unlock(); unlockError != nil {
			logger.Warn(unlockError.Error())
		}
	}()

	parentContext := command.Context()
	if parentContext == nil {
		parentContext = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentContext, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := command.OutOrStdout()
	reporter := output.NewReporter(out, isTerminal(out))
	collectors := metrics.New()
	if settings.MetricsAddress != "" {
		address, serveError := collectors.Serve(ctx, settings.MetricsAddress, func(serverError error) {
			logger.Error(logMessageMetricsFailed, zap.Error(serverError))
		})
		if serveError != nil {
			return serveError
		}
		logger.Info(logMessageMetricsServing, zap.String(logFieldAddress, address.String()))
	}

	readmeGenerator := readme.NewGenerator(readme.Options{
		SourceFolder: sourceFolder,
		CodeFolder:   settings.Folder,
		DocsFolder:   docsFolder,
		Title:        settings.Title,
		ReadmePath:   settings.Readme,
	}, reporter, logger)

	concurrency := 0
	if settings.Concurrency != nil {
		concurrency = *settings.Concurrency
	}
	service := &generate.Service{
		Options: generate.Options{
			Traversal: types.TraversalOptions{
				SourcePath: sourceFolder,
				Include:    settings.Include,
				Exclude:    excludePatterns,
			},
			ParserConfig: types.ParserConfig{
				SourceFolder:   sourceFolder,
				DocsFolder:     docsFolder,
				JSDocConfig:    settings.JSDocConfig,
				Partials:       settings.Partials,
				Helpers:        settings.Helpers,
				WorkingDirPath: workingDirectory,
			},
			RemovePatterns: settings.RemovePatterns,
			Concurrency:    concurrency,
		},
		Parser:   parser.NewRegistry(),
		Writer:   output.NewWriter(workingDirectory),
		Readme:   readmeGenerator,
		Remover:  cleanup.NewPathRemover(docsLock.Path()),
		Reporter: reporter,
		Metrics:  collectors,
		Logger:   logger,
	}
	if _, runError := service.Run(ctx); runError != nil {
		return runError
	}
	if settings.Watch == nil || !*settings.Watch {
		return nil
	}

	eventSource, sourceError := watch.NewFSNotifySource(
		sourceFolder,
		[]string{settings.Readme, filepath.Join(sourceFolder, types.ReadmeFileName)},
		watch.DefaultDebounceDelay,
	)
	if sourceError != nil {
		return fmt.Errorf(errorWatchFormat, sourceError)
	}
	watcher := &watch.Watcher{
		Options:   watch.Options{SourceFolder: sourceFolder, ReadmePath: settings.Readme},
		Source:    eventSource,
		Generator: service,
		Readme:    readmeGenerator,
		Reporter:  reporter,
		Metrics:   collectors,
		Logger:    logger,
	}
	return watcher.Run(ctx)
}

// isTerminal reports whether out is a terminal file descriptor.
func isTerminal(out io.Writer) bool {
	file, isFile := out.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

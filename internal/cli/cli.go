// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/foldertodo/internal/commands"
	"github.com/temirov/foldertodo/internal/config"
	"github.com/temirov/foldertodo/internal/output"
	"github.com/temirov/foldertodo/internal/services/clipboard"
	"github.com/temirov/foldertodo/internal/types"
	"github.com/temirov/foldertodo/internal/utils"
)

const (
	rootUse              = "foldertodo [path]"
	rootShortDescription = "turn a folder structure into a markdown checklist"
	rootLongDescription  = `foldertodo walks a directory tree and writes a markdown checklist mirroring it.
Directories may carry #tags in their names or in a .tags file; use --tags to keep only
the matching parts of the tree. Use --format to export markdown, html, or json.`
	rootUsageExample = `  # Print a checklist for the current directory
  foldertodo

  # Two levels of a project, collapsible, saved to a file
  foldertodo ./project --max-depth 2 --collapsible -o TODO.md

  # Only directories tagged #backend, without files
  foldertodo --tags backend --no-files`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.ConfigFileName + `, or with --global to
~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + `. Existing files are kept unless --force is given.`

	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	maxDepthFlagName     = "max-depth"
	excludeDirsFlagName  = "exclude-dirs"
	excludeFilesFlagName = "exclude-files"
	tagsFlagName         = "tags"
	noFilesFlagName      = "no-files"
	noSizesFlagName      = "no-sizes"
	hiddenFlagName       = "hidden"
	collapsibleFlagName  = "collapsible"
	formatFlagName       = "format"
	copyFlagName         = "copy"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"
	globalFlagName       = "global"
	forceFlagName        = "force"

	outputFlagDescription       = "write the checklist to this file instead of stdout"
	maxDepthFlagDescription     = "deepest level to render below the root (integer or \"unlimited\")"
	excludeDirsFlagDescription  = "directory names to skip (comma separated or repeated)"
	excludeFilesFlagDescription = "file name glob patterns to skip (comma separated or repeated)"
	tagsFlagDescription         = "keep only directories carrying one of these tags and their ancestors"
	noFilesFlagDescription      = "list directories only"
	noSizesFlagDescription      = "omit file sizes"
	hiddenFlagDescription       = "include entries whose names start with a dot"
	collapsibleFlagDescription  = "wrap directories in collapsible <details> blocks"
	formatFlagDescription       = "output format: markdown, html, or json"
	copyFlagDescription         = "also copy the result to the system clipboard"
	configFlagDescription       = "configuration file to use instead of ./" + utils.ConfigFileName
	verboseFlagDescription      = "log skipped entries"
	versionFlagDescription      = "display application version"
	globalFlagDescription       = "write the global configuration file"
	forceFlagDescription        = "overwrite an existing configuration file"

	defaultPath            = "."
	versionTemplate        = "foldertodo version: %s\n"
	initCompletedTemplate  = "Configuration written to: %s\n"
	invalidFormatMessage   = "unsupported format %q; use markdown, html, or json"
	workingDirectoryFormat = "unable to determine working directory: %w"
	loadConfigFormat       = "loading configuration: %w"
	absoluteOutputFormat   = "resolving output path %s: %w"
	clipboardCopyFormat    = "copying to clipboard: %w"
	clipboardCopiedMessage = "copied checklist to clipboard"
)

// environment carries the collaborators of the command tree.
type environment struct {
	logger           *zap.Logger
	level            zap.AtomicLevel
	copier           clipboard.Copier
	workingDirectory string
	colorOutput      bool
}

// checklistOptions stores the flag values of the root command.
type checklistOptions struct {
	outputPath   string
	maxDepth     depthFlagValue
	excludeDirs  []string
	excludeFiles []string
	tags         []string
	noFiles      bool
	noSizes      bool
	hidden       bool
	collapsible  bool
	format       string
	copy         bool
	configPath   string
	verbose      bool
	showVersion  bool
}

// runSettings is the effective configuration after merging files and flags.
type runSettings struct {
	configuration types.Configuration
	format        string
	outputPath    string
	copy          bool
}

// Execute runs the foldertodo application. The level is raised to debug by --verbose.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryFormat, workingDirectoryError)
	}
	rootCommand := createRootCommand(environment{
		logger:           logger,
		level:            level,
		copier:           clipboard.NewService(),
		workingDirectory: workingDirectory,
		colorOutput:      isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(env environment) *cobra.Command {
	var options checklistOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.verbose {
				env.level.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			settings, settingsError := resolveSettings(command, options, env)
			if settingsError != nil {
				return settingsError
			}
			return runChecklist(command, env, rootPath, settings)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, utils.EmptyString, outputFlagDescription)
	flagSet.Var(&options.maxDepth, maxDepthFlagName, maxDepthFlagDescription)
	flagSet.StringSliceVar(&options.excludeDirs, excludeDirsFlagName, nil, excludeDirsFlagDescription)
	flagSet.StringSliceVar(&options.excludeFiles, excludeFilesFlagName, nil, excludeFilesFlagDescription)
	flagSet.StringSliceVar(&options.tags, tagsFlagName, nil, tagsFlagDescription)
	registerToggleFlag(flagSet, &options.noFiles, noFilesFlagName, false, noFilesFlagDescription)
	registerToggleFlag(flagSet, &options.noSizes, noSizesFlagName, false, noSizesFlagDescription)
	registerToggleFlag(flagSet, &options.hidden, hiddenFlagName, false, hiddenFlagDescription)
	registerToggleFlag(flagSet, &options.collapsible, collapsibleFlagName, false, collapsibleFlagDescription)
	registerToggleFlag(flagSet, &options.copy, copyFlagName, false, copyFlagDescription)
	registerToggleFlag(flagSet, &options.showVersion, versionFlagName, false, versionFlagDescription)
	flagSet.StringVar(&options.format, formatFlagName, types.FormatMarkdown, formatFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	registerToggleFlag(rootCommand.PersistentFlags(), &options.verbose, verboseFlagName, false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand(env))
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(env environment) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: env.workingDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), initCompletedTemplate, destinationPath)
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveSettings merges configuration files with the flags that were set on the command line.
func resolveSettings(command *cobra.Command, options checklistOptions, env environment) (runSettings, error) {
	fileConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: env.workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if loadError != nil {
		return runSettings{}, fmt.Errorf(loadConfigFormat, loadError)
	}

	settings := runSettings{
		configuration: types.Configuration{
			IncludeFiles: true,
			IncludeSizes: true,
		},
		format: types.FormatMarkdown,
	}
	applyFileConfiguration(&settings, fileConfiguration)

	flags := command.Flags()
	if flags.Changed(outputFlagName) {
		settings.outputPath = options.outputPath
	}
	if flags.Changed(maxDepthFlagName) {
		settings.configuration.MaxDepth = options.maxDepth.limit
	}
	if flags.Changed(excludeDirsFlagName) {
		settings.configuration.ExcludeDirs = utils.NormalizeList(options.excludeDirs)
	}
	if flags.Changed(excludeFilesFlagName) {
		settings.configuration.ExcludeFilePatterns = utils.NormalizeList(options.excludeFiles)
	}
	if flags.Changed(tagsFlagName) {
		settings.configuration.TagFilter = utils.NormalizeList(options.tags)
	}
	if flags.Changed(noFilesFlagName) {
		settings.configuration.IncludeFiles = !options.noFiles
	}
	if flags.Changed(noSizesFlagName) {
		settings.configuration.IncludeSizes = !options.noSizes
	}
	if flags.Changed(hiddenFlagName) {
		settings.configuration.IncludeHidden = options.hidden
	}
	if flags.Changed(collapsibleFlagName) {
		settings.configuration.Collapsible = options.collapsible
	}
	if flags.Changed(formatFlagName) {
		settings.format = options.format
	}
	if flags.Changed(copyFlagName) {
		settings.copy = options.copy
	}

	settings.format = strings.ToLower(strings.TrimSpace(settings.format))
	if !isSupportedFormat(settings.format) {
		return runSettings{}, fmt.Errorf(invalidFormatMessage, settings.format)
	}
	return settings, nil
}

func applyFileConfiguration(settings *runSettings, fileConfiguration config.ApplicationConfiguration) {
	if fileConfiguration.Format != "" {
		settings.format = fileConfiguration.Format
	}
	if fileConfiguration.Output != "" {
		settings.outputPath = fileConfiguration.Output
	}
	if fileConfiguration.MaxDepth != nil && *fileConfiguration.MaxDepth >= 0 {
		maxDepth := *fileConfiguration.MaxDepth
		settings.configuration.MaxDepth = &maxDepth
	}
	if fileConfiguration.Files != nil {
		settings.configuration.IncludeFiles = *fileConfiguration.Files
	}
	if fileConfiguration.Sizes != nil {
		settings.configuration.IncludeSizes = *fileConfiguration.Sizes
	}
	if fileConfiguration.Hidden != nil {
		settings.configuration.IncludeHidden = *fileConfiguration.Hidden
	}
	if fileConfiguration.Collapsible != nil {
		settings.configuration.Collapsible = *fileConfiguration.Collapsible
	}
	if fileConfiguration.Clipboard != nil {
		settings.copy = *fileConfiguration.Clipboard
	}
	settings.configuration.TagFilter = fileConfiguration.Tags
	settings.configuration.ExcludeDirs = fileConfiguration.Paths.ExcludeDirs
	settings.configuration.ExcludeFilePatterns = fileConfiguration.Paths.ExcludeFiles
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatMarkdown, types.FormatHTML, types.FormatJSON:
		return true
	default:
		return false
	}
}

// runChecklist builds the tree for rootPath, renders it, and delivers the result.
func runChecklist(command *cobra.Command, env environment, rootPath string, settings runSettings) error {
	if !filepath.IsAbs(rootPath) {
		rootPath = filepath.Join(env.workingDirectory, rootPath)
	}
	treeBuilder, builderError := commands.NewTreeBuilder(settings.configuration, env.logger)
	if builderError != nil {
		return builderError
	}
	rootNode, buildError := treeBuilder.BuildTree(rootPath)
	if buildError != nil {
		return buildError
	}

	rendered, renderError := render(rootNode, settings)
	if renderError != nil {
		return renderError
	}

	if settings.outputPath == "" {
		if writeError := writeWithNewline(command.OutOrStdout(), rendered); writeError != nil {
			return writeError
		}
	} else {
		destinationPath := settings.outputPath
		if !filepath.IsAbs(destinationPath) {
			destinationPath = filepath.Join(env.workingDirectory, destinationPath)
		}
		destinationPath, absoluteError := filepath.Abs(destinationPath)
		if absoluteError != nil {
			return fmt.Errorf(absoluteOutputFormat, settings.outputPath, absoluteError)
		}
		if writeError := output.WriteToFile(rendered, destinationPath); writeError != nil {
			return writeError
		}
		output.ReportSaved(command.ErrOrStderr(), destinationPath, env.colorOutput)
	}

	if settings.copy && env.copier != nil {
		if copyError := env.copier.Copy(rendered); copyError != nil {
			return fmt.Errorf(clipboardCopyFormat, copyError)
		}
		env.logger.Debug(clipboardCopiedMessage, zap.Int("bytes", len(rendered)))
	}
	return nil
}

func render(rootNode *types.ChecklistNode, settings runSettings) (string, error) {
	if settings.format == types.FormatJSON {
		return output.RenderJSON(rootNode)
	}
	markdown := output.RenderMarkdown(rootNode, output.MarkdownOptions{Collapsible: settings.configuration.Collapsible})
	if settings.format == types.FormatHTML {
		return output.RenderHTML(markdown)
	}
	return markdown, nil
}

func writeWithNewline(writer io.Writer, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, writeError := io.WriteString(writer, content)
	return writeError
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gitshell/internal/execshell"
	"github.com/temirov/gitshell/internal/utils"
)

const (
	applicationNameConstant                 = "gitshell"
	applicationShortDescriptionConstant     = "Command-line interface for gitshell repository tooling"
	applicationLongDescriptionConstant      = "gitshell drives the git executable through a typed control layer for inspecting, creating, and snapshotting local repositories."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	gitExecutableFlagNameConstant           = "git-executable"
	gitExecutableFlagUsageConstant          = "Override the git executable used for every command."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonLogFileConfigKeyConstant          = commonConfigurationKeyConstant + ".log_file"
	gitConfigurationKeyConstant             = "git"
	gitExecutableConfigKeyConstant          = gitConfigurationKeyConstant + ".executable"
	gitCommandTimeoutConfigKeyConstant      = gitConfigurationKeyConstant + ".command_timeout"
	gitGracefulFailuresConfigKeyConstant    = gitConfigurationKeyConstant + ".disable_graceful_failures"
	environmentPrefixConstant               = "GITSHELL"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	executorCreationErrorTemplateConstant   = "unable to create shell executor: %w"
	rootCommandInfoMessageConstant          = "gitshell CLI executed"
	rootCommandDebugMessageConstant         = "gitshell CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Git    ApplicationGitConfiguration    `mapstructure:"git"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// ApplicationGitConfiguration stores execution settings applied to every git command.
type ApplicationGitConfiguration struct {
	Executable              string        `mapstructure:"executable"`
	CommandTimeout          time.Duration `mapstructure:"command_timeout"`
	DisableGracefulFailures bool          `mapstructure:"disable_graceful_failures"`
}

// Application wires the Cobra root command, configuration loader, shell executor, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	gitExecutableFlagValue string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.gitExecutableFlagValue, gitExecutableFlagNameConstant, "", gitExecutableFlagUsageConstant)

	inspectBuilder := InspectCommandBuilder{
		LoggerProvider:   application.loggerProvider,
		ExecutorProvider: application.executorProvider,
	}
	if inspectCommand, inspectBuildError := inspectBuilder.Build(); inspectBuildError == nil {
		cobraCommand.AddCommand(inspectCommand)
	}

	initializeBuilder := InitializeCommandBuilder{
		LoggerProvider:   application.loggerProvider,
		ExecutorProvider: application.executorProvider,
	}
	if initializeCommand, initializeBuildError := initializeBuilder.Build(); initializeBuildError == nil {
		cobraCommand.AddCommand(initializeCommand)
	}

	snapshotBuilder := SnapshotCommandBuilder{
		LoggerProvider:   application.loggerProvider,
		ExecutorProvider: application.executorProvider,
	}
	if snapshotCommand, snapshotBuildError := snapshotBuilder.Build(); snapshotBuildError == nil {
		cobraCommand.AddCommand(snapshotCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// RootCommand exposes the assembled Cobra hierarchy for embedding and testing.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

func (application *Application) loggerProvider() *zap.Logger {
	return application.logger
}

func (application *Application) executorProvider(executionContext context.Context) (*execshell.ShellExecutor, error) {
	gitExecutablePath := strings.TrimSpace(application.configuration.Git.Executable)
	if contextExecutablePath, overridePresent := application.commandContextAccessor.GitExecutablePath(executionContext); overridePresent && len(strings.TrimSpace(contextExecutablePath)) > 0 {
		gitExecutablePath = strings.TrimSpace(contextExecutablePath)
	}

	executorConfiguration := execshell.ExecutorConfiguration{
		GitExecutablePath:       gitExecutablePath,
		CommandTimeout:          application.configuration.Git.CommandTimeout,
		DisableGracefulFailures: application.configuration.Git.DisableGracefulFailures,
	}

	executor, creationError := execshell.NewShellExecutorWithConfiguration(application.logger, execshell.NewOSCommandRunner(), executorConfiguration)
	if creationError != nil {
		return nil, fmt.Errorf(executorCreationErrorTemplateConstant, creationError)
	}
	return executor, nil
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:      string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:     string(utils.LogFormatStructured),
		commonLogFileConfigKeyConstant:       "",
		gitExecutableConfigKeyConstant:       "",
		gitCommandTimeoutConfigKeyConstant:   time.Duration(0),
		gitGracefulFailuresConfigKeyConstant: false,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, gitExecutableFlagNameConstant) {
		application.configuration.Git.Executable = application.gitExecutableFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLoggerWithRotatingFile(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		utils.RotatingFileSettings{FilePath: application.configuration.Common.LogFile},
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithGitExecutablePath(
			updatedContext,
			application.configuration.Git.Executable,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}
		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

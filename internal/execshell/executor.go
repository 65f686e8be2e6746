package execshell

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	gitExecutableNameConstant        = "git"
	logFieldCommandConstant          = "command"
	logFieldArgumentsConstant        = "arguments"
	logFieldWorkingDirectoryConstant = "working_directory"
	logFieldExitCodeConstant         = "exit_code"
)

// CommandName identifies the external tool a ShellCommand targets.
type CommandName string

// CommandGit names the git executable driven by this package.
const CommandGit CommandName = CommandName(gitExecutableNameConstant)

// CommandDetails describes a single tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs a tool identity with invocation details. ExecutablePath,
// when set, names the concrete binary to spawn in place of the command name.
type ShellCommand struct {
	Name           CommandName
	ExecutablePath string
	Details        CommandDetails
}

func (command ShellCommand) label() string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandLabelSeparatorConstant + strings.Join(command.Details.Arguments, commandLabelSeparatorConstant)
	}
	return commandLabel
}

func (command ShellCommand) program() string {
	trimmedExecutablePath := strings.TrimSpace(command.ExecutablePath)
	if len(trimmedExecutablePath) > 0 {
		return trimmedExecutablePath
	}
	return string(command.Name)
}

// ExecutionResult captures the observable outcome of a subprocess execution.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ExecutorConfiguration carries per-executor execution policy. The zero value
// uses the discovered git binary, no timeout, and graceful failures enabled.
type ExecutorConfiguration struct {
	// GitExecutablePath overrides the discovered git binary when non-empty.
	GitExecutablePath string
	// CommandTimeout forcibly terminates commands running longer than the duration when positive.
	CommandTimeout time.Duration
	// DisableGracefulFailures raises an error for every non-zero exit regardless of stream contents.
	DisableGracefulFailures bool
}

var discoverGitExecutablePath = sync.OnceValue(func() string {
	resolvedPath, lookupError := exec.LookPath(gitExecutableNameConstant)
	if lookupError != nil {
		return gitExecutableNameConstant
	}
	return resolvedPath
})

// ShellExecutor coordinates subprocess execution, logging, and failure classification.
type ShellExecutor struct {
	logger                *zap.Logger
	commandRunner         CommandRunner
	configuration         ExecutorConfiguration
	resolvedExecutable    string
	eventObserver         CommandEventObserver
	messageFormatter      CommandMessageFormatter
	lastStandardErrorText string
}

// NewShellExecutor constructs a ShellExecutor with default configuration.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithConfiguration(logger, commandRunner, ExecutorConfiguration{})
}

// NewShellExecutorWithConfiguration constructs a ShellExecutor honoring the provided configuration.
func NewShellExecutorWithConfiguration(logger *zap.Logger, commandRunner CommandRunner, configuration ExecutorConfiguration) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	resolvedExecutable := strings.TrimSpace(configuration.GitExecutablePath)
	if len(resolvedExecutable) == 0 {
		resolvedExecutable = discoverGitExecutablePath()
	}

	return &ShellExecutor{
		logger:             logger,
		commandRunner:      commandRunner,
		configuration:      configuration,
		resolvedExecutable: resolvedExecutable,
		eventObserver:      noopCommandEventObserver{},
		messageFormatter:   CommandMessageFormatter{},
	}, nil
}

// SetCommandEventObserver installs an observer notified for every command lifecycle event.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// GitExecutablePath reports the binary the executor spawns for git commands.
func (executor *ShellExecutor) GitExecutablePath() string {
	return executor.resolvedExecutable
}

// LastStandardError returns the standard error text captured by the most recent
// command, success or failure. It is reset at the start of every command.
func (executor *ShellExecutor) LastStandardError() string {
	return executor.lastStandardErrorText
}

// ExecuteGit runs git with the provided details and classifies the outcome.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	command := ShellCommand{Name: CommandGit, ExecutablePath: executor.resolvedExecutable, Details: details}
	return executor.execute(executionContext, command)
}

func (executor *ShellExecutor) execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.lastStandardErrorText = ""

	if executionContext == nil {
		executionContext = context.Background()
	}

	boundedContext := executionContext
	var cancelBoundedContext context.CancelFunc
	if executor.configuration.CommandTimeout > 0 {
		boundedContext, cancelBoundedContext = context.WithTimeout(executionContext, executor.configuration.CommandTimeout)
		defer cancelBoundedContext()
	}

	executor.eventObserver.CommandStarted(command)
	executor.logger.Info(
		executor.messageFormatter.BuildStartedMessage(command),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, runError := executor.commandRunner.Run(boundedContext, command)

	if timeoutError := executor.classifyTimeout(boundedContext, command); timeoutError != nil {
		executor.eventObserver.CommandExecutionFailed(command, timeoutError)
		executor.logger.Error(
			executor.messageFormatter.BuildExecutionFailureMessage(command, timeoutError),
			zap.String(logFieldCommandConstant, string(command.Name)),
		)
		return ExecutionResult{}, timeoutError
	}

	if runError != nil {
		executionError := CommandExecutionError{Command: command, Cause: runError}
		executor.eventObserver.CommandExecutionFailed(command, executionError)
		executor.logger.Error(
			executor.messageFormatter.BuildExecutionFailureMessage(command, executionError),
			zap.String(logFieldCommandConstant, string(command.Name)),
		)
		return ExecutionResult{}, executionError
	}

	executor.lastStandardErrorText = executionResult.StandardError
	executor.eventObserver.CommandCompleted(command, executionResult)

	if executor.commandSucceeded(executionResult) {
		executor.logger.Info(
			executor.messageFormatter.BuildSuccessMessage(command),
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
		return executionResult, nil
	}

	failure := CommandFailedError{Command: command, Result: executionResult}
	executor.logger.Error(
		executor.messageFormatter.BuildFailureMessage(command, executionResult),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)
	return ExecutionResult{}, failure
}

// commandSucceeded applies the graceful-failure policy. A non-zero exit with
// an empty standard error stream and non-empty standard output is treated as
// success because some no-op git operations, such as an empty commit, exit
// non-zero while emitting only informational stdout.
func (executor *ShellExecutor) commandSucceeded(executionResult ExecutionResult) bool {
	if executionResult.ExitCode == 0 {
		return true
	}
	if executor.configuration.DisableGracefulFailures {
		return false
	}
	if len(executionResult.StandardError) > 0 {
		return false
	}
	return len(executionResult.StandardOutput) > 0
}

func (executor *ShellExecutor) classifyTimeout(boundedContext context.Context, command ShellCommand) error {
	if executor.configuration.CommandTimeout <= 0 {
		return nil
	}
	if boundedContext.Err() != context.DeadlineExceeded {
		return nil
	}
	return CommandTimedOutError{Command: command, Timeout: executor.configuration.CommandTimeout}
}

package execshell

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	commandFailedErrorTemplateConstant        = "%s failed with exit code %d%s"
	commandFailureDetailSuffixTemplate        = ": %s"
	commandExecutionErrorTemplateConstant     = "%s could not be started: %s"
	commandTimedOutErrorTemplateConstant      = "%s timed out after %s"
	noOutputReturnedMessageConstant           = "no output returned"
	unknownExecutionFailureMessageConstant    = "unknown execution failure"
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
)

// Sentinel construction errors reported by NewShellExecutor.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a subprocess that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including its exit code and standard error text.
// Commands producing no output on either stream are reported with a fixed message instead.
func (failedError CommandFailedError) Error() string {
	failureDetail := strings.TrimSpace(failedError.Result.StandardError)
	if len(failureDetail) == 0 {
		failureDetail = noOutputReturnedMessageConstant
	}
	return fmt.Sprintf(
		commandFailedErrorTemplateConstant,
		failedError.Command.label(),
		failedError.Result.ExitCode,
		fmt.Sprintf(commandFailureDetailSuffixTemplate, failureDetail),
	)
}

// ExitCode exposes the subprocess exit status carried by the failure.
func (failedError CommandFailedError) ExitCode() int {
	return failedError.Result.ExitCode
}

// StandardError exposes the captured standard error text carried by the failure.
func (failedError CommandFailedError) StandardError() string {
	return failedError.Result.StandardError
}

// CommandExecutionError reports a subprocess that could not be spawned at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the spawn failure.
func (executionError CommandExecutionError) Error() string {
	causeDescription := unknownExecutionFailureMessageConstant
	if executionError.Cause != nil {
		causeDescription = executionError.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, executionError.Command.label(), causeDescription)
}

// Unwrap exposes the underlying spawn failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// CommandTimedOutError reports a subprocess terminated after exceeding the configured timeout.
type CommandTimedOutError struct {
	Command ShellCommand
	Timeout time.Duration
}

// Error describes the elapsed timeout.
func (timedOutError CommandTimedOutError) Error() string {
	return fmt.Sprintf(commandTimedOutErrorTemplateConstant, timedOutError.Command.label(), timedOutError.Timeout)
}

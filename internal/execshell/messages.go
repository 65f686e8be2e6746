package execshell

import (
	"fmt"
	"strings"
)

const (
	commandLabelSeparatorConstant          = " "
	startedMessageTemplateConstant         = "Running %s%s"
	successMessageTemplateConstant         = "Completed %s%s"
	failureMessageTemplateConstant         = "%s%s failed with exit code %d%s"
	executionFailureMessageTemplate        = "%s%s failed: %s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	standardErrorSuffixTemplateConstant    = ": %s"
	emptyStringConstant                    = ""
	unknownFailureMessageConstant          = "unknown error"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, command.label(), formatter.formatWorkingDirectorySuffix(command))
}

// BuildSuccessMessage formats the message describing a completed command.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(successMessageTemplateConstant, command.label(), formatter.formatWorkingDirectorySuffix(command))
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return fmt.Sprintf(
		failureMessageTemplateConstant,
		command.label(),
		formatter.formatWorkingDirectorySuffix(command),
		result.ExitCode,
		formatter.formatStandardErrorSuffix(result.StandardError),
	)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureDescription := unknownFailureMessageConstant
	if failure != nil {
		failureDescription = failure.Error()
	}
	return fmt.Sprintf(executionFailureMessageTemplate, command.label(), formatter.formatWorkingDirectorySuffix(command), failureDescription)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

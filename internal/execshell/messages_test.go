package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitshell/internal/execshell"
)

func TestCommandMessageFormatterDescribesLifecycle(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"status", "--porcelain"}, WorkingDirectory: "/tmp/repository"},
	}

	require.Equal(testInstance, "Running git status --porcelain (in /tmp/repository)", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "Completed git status --porcelain (in /tmp/repository)", formatter.BuildSuccessMessage(command))
	require.Equal(
		testInstance,
		"git status --porcelain (in /tmp/repository) failed with exit code 128: fatal: not a git repository",
		formatter.BuildFailureMessage(command, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository\n"}),
	)
	require.Equal(
		testInstance,
		"git status --porcelain (in /tmp/repository) failed: executable file not found",
		formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found")),
	)
}

func TestCommandMessageFormatterOmitsEmptyWorkingDirectory(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"--version"}}}

	require.Equal(testInstance, "Running git --version", formatter.BuildStartedMessage(command))
}

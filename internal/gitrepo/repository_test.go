package gitrepo_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitshell/internal/execshell"
	"github.com/temirov/gitshell/internal/gitrepo"
)

const (
	testRepositorySubtestTemplateConstant = "%d_%s"
	testCommitMessageConstant             = "initial commit"
	testBranchNameConstant                = "feature/login"
	testTagNameConstant                   = "v1.0.0"
	testTagMessageConstant                = "release v1.0.0"
	testEnvironmentVariableNameConstant   = "GIT_SSH_COMMAND"
	testEnvironmentVariableValueConstant  = "ssh -i /tmp/deploy_key"
	testDescriptionTextConstant           = "example project description"
)

// scriptedExecutor replays prepared results in order and records every
// command issued through it.
type scriptedExecutor struct {
	executedCommands []execshell.CommandDetails
	scriptedResults  []execshell.ExecutionResult
	scriptedErrors   []error
}

func (executor *scriptedExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	commandIndex := len(executor.executedCommands)
	executor.executedCommands = append(executor.executedCommands, details)

	var scriptedResult execshell.ExecutionResult
	if commandIndex < len(executor.scriptedResults) {
		scriptedResult = executor.scriptedResults[commandIndex]
	}
	var scriptedError error
	if commandIndex < len(executor.scriptedErrors) {
		scriptedError = executor.scriptedErrors[commandIndex]
	}
	return scriptedResult, scriptedError
}

func (executor *scriptedExecutor) LastStandardError() string {
	return ""
}

func newWorkingTreeRepository(testInstance *testing.T, executor gitrepo.GitExecutor) *gitrepo.Repository {
	repositoryPath := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(repositoryPath, testWorkingTreeMarkerNameConstant), testDirectoryPermissionsConstant))

	openedRepository, openError := gitrepo.OpenRepository(context.Background(), executor, repositoryPath)
	require.NoError(testInstance, openError)
	return openedRepository
}

func TestOpenRepositoryRequiresExecutor(testInstance *testing.T) {
	_, openError := gitrepo.OpenRepository(context.Background(), nil, testInstance.TempDir())
	require.ErrorIs(testInstance, openError, gitrepo.ErrExecutorNotConfigured)
}

func TestRepositoryGitDirectory(testInstance *testing.T) {
	testInstance.Run("0_working_tree_metadata_directory", func(testInstance *testing.T) {
		openedRepository := newWorkingTreeRepository(testInstance, &scriptedExecutor{})

		require.Equal(testInstance, gitrepo.RepositoryKindWorkingTree, openedRepository.Kind())
		require.Equal(testInstance, filepath.Join(openedRepository.Path(), testWorkingTreeMarkerNameConstant), openedRepository.GitDirectory())
	})

	testInstance.Run("1_bare_metadata_directory", func(testInstance *testing.T) {
		repositoryPath := testInstance.TempDir()
		configurationPath := filepath.Join(repositoryPath, testBareConfigurationNameConstant)
		require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testBareConfigurationContentConstant), testFilePermissionsConstant))

		openedRepository, openError := gitrepo.OpenRepository(context.Background(), &scriptedExecutor{}, repositoryPath)
		require.NoError(testInstance, openError)

		require.Equal(testInstance, gitrepo.RepositoryKindBare, openedRepository.Kind())
		require.Equal(testInstance, openedRepository.Path(), openedRepository.GitDirectory())
	})
}

func TestRepositoryOperationArguments(testInstance *testing.T) {
	testCases := []struct {
		name              string
		scriptedResults   []execshell.ExecutionResult
		performOperation  func(testInstance *testing.T, repository *gitrepo.Repository) error
		expectedArguments []string
	}{
		{
			name: "stage_single_file",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Stage(context.Background(), gitrepo.SingleFile("README.md"))
			},
			expectedArguments: []string{"add", "--", "README.md"},
		},
		{
			name: "stage_file_collection",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Stage(context.Background(), gitrepo.FileList("a.txt", "b.txt"))
			},
			expectedArguments: []string{"add", "--", "a.txt", "b.txt"},
		},
		{
			name: "stage_all",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.StageAll(context.Background())
			},
			expectedArguments: []string{"add", "--all"},
		},
		{
			name: "remove_from_index_only",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Remove(context.Background(), gitrepo.SingleFile("secret.txt"), gitrepo.RemoveOptions{KeepWorkingTree: true})
			},
			expectedArguments: []string{"rm", "--cached", "--", "secret.txt"},
		},
		{
			name: "commit_with_message",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Commit(context.Background(), testCommitMessageConstant, gitrepo.CommitOptions{})
			},
			expectedArguments: []string{"commit", "-m", testCommitMessageConstant},
		},
		{
			name: "commit_allow_empty_staging_modified",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Commit(context.Background(), testCommitMessageConstant, gitrepo.CommitOptions{AllowEmpty: true, StageModified: true})
			},
			expectedArguments: []string{"commit", "--allow-empty", "--all", "-m", testCommitMessageConstant},
		},
		{
			name: "create_branch",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.CreateBranch(context.Background(), testBranchNameConstant, gitrepo.CreateBranchOptions{})
			},
			expectedArguments: []string{"branch", testBranchNameConstant},
		},
		{
			name: "create_branch_from_start_point",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.CreateBranch(context.Background(), testBranchNameConstant, gitrepo.CreateBranchOptions{StartPoint: "main"})
			},
			expectedArguments: []string{"branch", testBranchNameConstant, "main"},
		},
		{
			name: "delete_branch_forcefully",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.DeleteBranch(context.Background(), testBranchNameConstant, true)
			},
			expectedArguments: []string{"branch", "--delete", "--force", testBranchNameConstant},
		},
		{
			name: "checkout_reference",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Checkout(context.Background(), testBranchNameConstant)
			},
			expectedArguments: []string{"checkout", testBranchNameConstant},
		},
		{
			name: "merge_without_fast_forward",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Merge(context.Background(), testBranchNameConstant, gitrepo.MergeOptions{NoFastForward: true})
			},
			expectedArguments: []string{"merge", "--no-ff", testBranchNameConstant},
		},
		{
			name: "fetch_tags_from_remote",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Fetch(context.Background(), gitrepo.FetchOptions{RemoteName: gitrepo.DefaultRemoteNameConstant, Tags: true})
			},
			expectedArguments: []string{"fetch", "--tags", gitrepo.DefaultRemoteNameConstant},
		},
		{
			name: "pull_with_rebase",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Pull(context.Background(), gitrepo.PullOptions{RemoteName: gitrepo.DefaultRemoteNameConstant, Rebase: true})
			},
			expectedArguments: []string{"pull", "--rebase", gitrepo.DefaultRemoteNameConstant},
		},
		{
			name: "push_with_flags",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Push(context.Background(), gitrepo.PushOptions{RemoteName: gitrepo.DefaultRemoteNameConstant, Force: true, DryRun: true, Tags: true})
			},
			expectedArguments: []string{"push", "--force", "--dry-run", "--tags", gitrepo.DefaultRemoteNameConstant},
		},
		{
			name: "create_lightweight_tag",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.CreateTag(context.Background(), testTagNameConstant, gitrepo.TagOptions{})
			},
			expectedArguments: []string{"tag", testTagNameConstant},
		},
		{
			name: "create_annotated_tag",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.CreateTag(context.Background(), testTagNameConstant, gitrepo.TagOptions{Message: testTagMessageConstant})
			},
			expectedArguments: []string{"tag", "-m", testTagMessageConstant, testTagNameConstant},
		},
		{
			name: "clean_untracked_directories",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.Clean(context.Background(), gitrepo.CleanOptions{RemoveDirectories: true})
			},
			expectedArguments: []string{"clean", "--force", "-d"},
		},
		{
			name: "add_remote",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.AddRemote(context.Background(), gitrepo.NewRemote("upstream", testCloneOriginURLConstant))
			},
			expectedArguments: []string{"remote", "add", "upstream", testCloneOriginURLConstant},
		},
		{
			name: "remove_remote",
			performOperation: func(_ *testing.T, repository *gitrepo.Repository) error {
				return repository.RemoveRemote(context.Background(), "upstream")
			},
			expectedArguments: []string{"remote", "remove", "upstream"},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testRepositorySubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			recordingExecutor := &scriptedExecutor{scriptedResults: testCase.scriptedResults}
			openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

			operationError := testCase.performOperation(testInstance, openedRepository)

			require.NoError(testInstance, operationError)
			require.Len(testInstance, recordingExecutor.executedCommands, 1)
			require.Equal(testInstance, testCase.expectedArguments, recordingExecutor.executedCommands[0].Arguments)
			require.Equal(testInstance, openedRepository.Path(), recordingExecutor.executedCommands[0].WorkingDirectory)
		})
	}
}

func TestRepositoryListingOperations(testInstance *testing.T) {
	testInstance.Run("0_branches", func(testInstance *testing.T) {
		recordingExecutor := &scriptedExecutor{scriptedResults: []execshell.ExecutionResult{{StandardOutput: "* main\n  develop\n"}}}
		openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

		branchNames, listingError := openedRepository.Branches(context.Background())

		require.NoError(testInstance, listingError)
		require.Equal(testInstance, []string{"main", "develop"}, branchNames)
		require.Equal(testInstance, []string{"branch"}, recordingExecutor.executedCommands[0].Arguments)
	})

	testInstance.Run("1_remote_branches_drop_head_pointer", func(testInstance *testing.T) {
		recordingExecutor := &scriptedExecutor{scriptedResults: []execshell.ExecutionResult{{StandardOutput: "  origin/HEAD -> origin/main\n  origin/main\n"}}}
		openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

		remoteBranchNames, listingError := openedRepository.RemoteBranches(context.Background())

		require.NoError(testInstance, listingError)
		require.Equal(testInstance, []string{"origin/main"}, remoteBranchNames)
		require.Equal(testInstance, []string{"branch", "--remotes"}, recordingExecutor.executedCommands[0].Arguments)
	})

	testInstance.Run("2_current_branch", func(testInstance *testing.T) {
		recordingExecutor := &scriptedExecutor{scriptedResults: []execshell.ExecutionResult{{StandardOutput: "  develop\n* main\n"}}}
		openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

		activeBranch, lookupError := openedRepository.CurrentBranch(context.Background())

		require.NoError(testInstance, lookupError)
		require.Equal(testInstance, "main", activeBranch)
	})

	testInstance.Run("3_tags", func(testInstance *testing.T) {
		recordingExecutor := &scriptedExecutor{scriptedResults: []execshell.ExecutionResult{{StandardOutput: "v1.0.0\nv1.1.0\n"}}}
		openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

		tagNames, listingError := openedRepository.Tags(context.Background())

		require.NoError(testInstance, listingError)
		require.Equal(testInstance, []string{"v1.0.0", "v1.1.0"}, tagNames)
	})

	testInstance.Run("4_remotes", func(testInstance *testing.T) {
		remoteListing := "origin\t" + testCloneOriginURLConstant + " (fetch)\norigin\t" + testCloneOriginURLConstant + " (push)\n"
		recordingExecutor := &scriptedExecutor{scriptedResults: []execshell.ExecutionResult{{StandardOutput: remoteListing}}}
		openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

		registeredRemotes, listingError := openedRepository.Remotes(context.Background())

		require.NoError(testInstance, listingError)
		require.Equal(testInstance, []gitrepo.Remote{{Name: "origin", URL: testCloneOriginURLConstant, Direction: gitrepo.RemoteDirectionPushAndFetch}}, registeredRemotes)
		require.Equal(testInstance, []string{"remote", "--verbose"}, recordingExecutor.executedCommands[0].Arguments)
	})

	testInstance.Run("5_status_and_has_changes", func(testInstance *testing.T) {
		recordingExecutor := &scriptedExecutor{scriptedResults: []execshell.ExecutionResult{
			{StandardOutput: " M README.md\n"},
			{StandardOutput: ""},
		}}
		openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

		dirtyState, firstError := openedRepository.HasChanges(context.Background())
		require.NoError(testInstance, firstError)
		require.True(testInstance, dirtyState)

		cleanState, secondError := openedRepository.HasChanges(context.Background())
		require.NoError(testInstance, secondError)
		require.False(testInstance, cleanState)

		require.Equal(testInstance, []string{"status", "--porcelain"}, recordingExecutor.executedCommands[0].Arguments)
	})
}

func TestRepositoryInvalidSelectorShortCircuits(testInstance *testing.T) {
	recordingExecutor := &scriptedExecutor{}
	openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

	stageError := openedRepository.Stage(context.Background(), gitrepo.FileSelector{})

	selectorFailure := gitrepo.InvalidSelectorError{}
	require.ErrorAs(testInstance, stageError, &selectorFailure)
	require.Empty(testInstance, recordingExecutor.executedCommands)
}

func TestRepositoryLastStandardErrorRetention(testInstance *testing.T) {
	failedCommand := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"merge", testBranchNameConstant}}}
	mergeFailure := execshell.CommandFailedError{
		Command: failedCommand,
		Result:  execshell.ExecutionResult{StandardError: "merge conflict in README.md", ExitCode: 1},
	}
	recordingExecutor := &scriptedExecutor{
		scriptedResults: []execshell.ExecutionResult{{}, {StandardError: "warning: redirecting"}},
		scriptedErrors:  []error{mergeFailure, nil},
	}
	openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)

	mergeError := openedRepository.Merge(context.Background(), testBranchNameConstant, gitrepo.MergeOptions{})
	require.Error(testInstance, mergeError)
	require.Equal(testInstance, "merge conflict in README.md", openedRepository.LastStandardError())

	pullError := openedRepository.Pull(context.Background(), gitrepo.PullOptions{})
	require.NoError(testInstance, pullError)
	require.Equal(testInstance, "warning: redirecting", openedRepository.LastStandardError())
}

func TestRepositoryEnvironmentVariablePassthrough(testInstance *testing.T) {
	recordingExecutor := &scriptedExecutor{}
	openedRepository := newWorkingTreeRepository(testInstance, recordingExecutor)
	openedRepository.SetEnvironmentVariable(testEnvironmentVariableNameConstant, testEnvironmentVariableValueConstant)

	fetchError := openedRepository.Fetch(context.Background(), gitrepo.FetchOptions{})

	require.NoError(testInstance, fetchError)
	require.Len(testInstance, recordingExecutor.executedCommands, 1)
	require.Equal(testInstance, testEnvironmentVariableValueConstant, recordingExecutor.executedCommands[0].EnvironmentVariables[testEnvironmentVariableNameConstant])
}

func TestRepositoryDescriptionRoundTrip(testInstance *testing.T) {
	openedRepository := newWorkingTreeRepository(testInstance, &scriptedExecutor{})

	initialDescription, initialReadError := openedRepository.Description()
	require.NoError(testInstance, initialReadError)
	require.Empty(testInstance, initialDescription)

	require.NoError(testInstance, openedRepository.SetDescription(testDescriptionTextConstant))

	storedDescription, readError := openedRepository.Description()
	require.NoError(testInstance, readError)
	require.Equal(testInstance, testDescriptionTextConstant, storedDescription)

	storedContents, fileReadError := os.ReadFile(filepath.Join(openedRepository.GitDirectory(), "description"))
	require.NoError(testInstance, fileReadError)
	require.Equal(testInstance, testDescriptionTextConstant+"\n", string(storedContents))
}

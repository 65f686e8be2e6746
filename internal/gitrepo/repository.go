package gitrepo

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/temirov/gitshell/internal/execshell"
)

const (
	gitAddSubcommandConstant       = "add"
	gitRemoveSubcommandConstant    = "rm"
	gitCommitSubcommandConstant    = "commit"
	gitBranchSubcommandConstant    = "branch"
	gitCheckoutSubcommandConstant  = "checkout"
	gitMergeSubcommandConstant     = "merge"
	gitFetchSubcommandConstant     = "fetch"
	gitPullSubcommandConstant      = "pull"
	gitPushSubcommandConstant      = "push"
	gitTagSubcommandConstant       = "tag"
	gitCleanSubcommandConstant     = "clean"
	gitStatusSubcommandConstant    = "status"
	gitRemoteSubcommandConstant    = "remote"
	gitRemoteAddSubcommandConstant = "add"
	gitRemoteRemoveSubcommand      = "remove"

	gitAllFlagConstant            = "--all"
	gitCachedFlagConstant         = "--cached"
	gitMessageFlagConstant        = "-m"
	gitAllowEmptyFlagConstant     = "--allow-empty"
	gitDeleteFlagConstant         = "--delete"
	gitForceFlagConstant          = "--force"
	gitNoFastForwardFlagConstant  = "--no-ff"
	gitTagsFlagConstant           = "--tags"
	gitRebaseFlagConstant         = "--rebase"
	gitDryRunFlagConstant         = "--dry-run"
	gitRemotesFlagConstant        = "--remotes"
	gitVerboseFlagConstant        = "--verbose"
	gitPorcelainFlagConstant      = "--porcelain"
	gitDirectoriesFlagConstant    = "-d"
	gitPathspecSeparatorConstant  = "--"
	executorRequiredMessageConst  = "git executor not configured"
)

// ErrExecutorNotConfigured reports repository construction without a git executor.
var ErrExecutorNotConfigured = errors.New(executorRequiredMessageConst)

// Repository composes path classification, command execution, and output
// parsing behind higher-level git operations. The resolved path and kind
// never change after construction; all repository mutation happens externally
// through git and is observed, never cached, by this layer.
type Repository struct {
	path                  string
	kind                  RepositoryKind
	executor              GitExecutor
	environmentVariables  map[string]string
	lastStandardErrorText string
}

// CreateOptions controls repository creation for CreateRepository.
type CreateOptions struct {
	// Bare creates a bare repository.
	Bare bool
	// OriginURL clones from the named source instead of initializing in place.
	OriginURL string
}

// OpenRepository resolves an existing repository at the provided path.
func OpenRepository(executionContext context.Context, executor GitExecutor, repositoryPath string) (*Repository, error) {
	return resolveRepository(executionContext, executor, repositoryPath, ResolveOptions{})
}

// CreateRepository resolves the provided path, initializing or cloning a
// repository when the path does not already hold one.
func CreateRepository(executionContext context.Context, executor GitExecutor, repositoryPath string, options CreateOptions) (*Repository, error) {
	resolveOptions := ResolveOptions{CreateIfMissing: true, Bare: options.Bare, OriginURL: options.OriginURL}
	return resolveRepository(executionContext, executor, repositoryPath, resolveOptions)
}

func resolveRepository(executionContext context.Context, executor GitExecutor, repositoryPath string, options ResolveOptions) (*Repository, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	classifier := NewPathClassifier(executor)
	classification, classificationError := classifier.Resolve(executionContext, repositoryPath, options)
	if classificationError != nil {
		return nil, classificationError
	}

	return &Repository{
		path:                 classification.Path,
		kind:                 classification.Kind,
		executor:             executor,
		environmentVariables: map[string]string{},
	}, nil
}

// Path reports the resolved repository root.
func (repository *Repository) Path() string {
	return repository.path
}

// Kind reports whether the repository is a working tree or bare.
func (repository *Repository) Kind() RepositoryKind {
	return repository.kind
}

// GitDirectory reports the metadata directory: the repository root for bare
// repositories, the working-tree marker directory otherwise.
func (repository *Repository) GitDirectory() string {
	if repository.kind == RepositoryKindBare {
		return repository.path
	}
	return filepath.Join(repository.path, workingTreeMarkerDirectoryNameConstant)
}

// LastStandardError returns the standard error text captured by the most
// recent command issued through this repository, success or failure.
func (repository *Repository) LastStandardError() string {
	return repository.lastStandardErrorText
}

// SetEnvironmentVariable adds an environment override applied to every
// subsequent command, merged over the inherited process environment.
func (repository *Repository) SetEnvironmentVariable(variableName string, variableValue string) {
	repository.environmentVariables[variableName] = variableValue
}

// Stage adds the selected files to the index.
func (repository *Repository) Stage(executionContext context.Context, selector FileSelector) error {
	selectedPaths, selectorError := selector.Paths()
	if selectorError != nil {
		return selectorError
	}

	stageArguments := append([]string{gitAddSubcommandConstant, gitPathspecSeparatorConstant}, selectedPaths...)
	_, executionError := repository.runGit(executionContext, stageArguments)
	return executionError
}

// StageAll adds every change in the working tree to the index.
func (repository *Repository) StageAll(executionContext context.Context) error {
	_, executionError := repository.runGit(executionContext, []string{gitAddSubcommandConstant, gitAllFlagConstant})
	return executionError
}

// RemoveOptions controls file removal.
type RemoveOptions struct {
	// KeepWorkingTree removes files from the index only.
	KeepWorkingTree bool
}

// Remove deletes the selected files from the index and, unless retained, the working tree.
func (repository *Repository) Remove(executionContext context.Context, selector FileSelector, options RemoveOptions) error {
	selectedPaths, selectorError := selector.Paths()
	if selectorError != nil {
		return selectorError
	}

	removeArguments := []string{gitRemoveSubcommandConstant}
	if options.KeepWorkingTree {
		removeArguments = append(removeArguments, gitCachedFlagConstant)
	}
	removeArguments = append(removeArguments, gitPathspecSeparatorConstant)
	removeArguments = append(removeArguments, selectedPaths...)

	_, executionError := repository.runGit(executionContext, removeArguments)
	return executionError
}

// CommitOptions controls commit creation.
type CommitOptions struct {
	// AllowEmpty records a commit even when the index matches the current head.
	AllowEmpty bool
	// StageModified stages every modified tracked file before committing.
	StageModified bool
}

// Commit records the staged changes with the provided message.
func (repository *Repository) Commit(executionContext context.Context, commitMessage string, options CommitOptions) error {
	commitArguments := []string{gitCommitSubcommandConstant}
	if options.AllowEmpty {
		commitArguments = append(commitArguments, gitAllowEmptyFlagConstant)
	}
	if options.StageModified {
		commitArguments = append(commitArguments, gitAllFlagConstant)
	}
	commitArguments = append(commitArguments, gitMessageFlagConstant, commitMessage)

	_, executionError := repository.runGit(executionContext, commitArguments)
	return executionError
}

// CreateBranchOptions controls branch creation.
type CreateBranchOptions struct {
	// StartPoint names the revision the branch begins at; the current head when empty.
	StartPoint string
}

// CreateBranch creates a local branch without switching to it.
func (repository *Repository) CreateBranch(executionContext context.Context, branchName string, options CreateBranchOptions) error {
	branchArguments := []string{gitBranchSubcommandConstant, branchName}
	trimmedStartPoint := strings.TrimSpace(options.StartPoint)
	if len(trimmedStartPoint) > 0 {
		branchArguments = append(branchArguments, trimmedStartPoint)
	}

	_, executionError := repository.runGit(executionContext, branchArguments)
	return executionError
}

// DeleteBranch removes a local branch, forcing removal when requested.
func (repository *Repository) DeleteBranch(executionContext context.Context, branchName string, forceDeletion bool) error {
	deleteArguments := []string{gitBranchSubcommandConstant, gitDeleteFlagConstant}
	if forceDeletion {
		deleteArguments = append(deleteArguments, gitForceFlagConstant)
	}
	deleteArguments = append(deleteArguments, branchName)

	_, executionError := repository.runGit(executionContext, deleteArguments)
	return executionError
}

// Branches lists local branch names in git's emission order with the active marker stripped.
func (repository *Repository) Branches(executionContext context.Context) ([]string, error) {
	executionResult, executionError := repository.runGit(executionContext, []string{gitBranchSubcommandConstant})
	if executionError != nil {
		return nil, executionError
	}
	return ParseBranchListing(executionResult.StandardOutput, BranchListingOptions{}), nil
}

// RemoteBranches lists remote-tracking branch names, discarding symbolic HEAD pointers.
func (repository *Repository) RemoteBranches(executionContext context.Context) ([]string, error) {
	executionResult, executionError := repository.runGit(executionContext, []string{gitBranchSubcommandConstant, gitRemotesFlagConstant})
	if executionError != nil {
		return nil, executionError
	}
	return ParseRemoteBranchListing(executionResult.StandardOutput), nil
}

// CurrentBranch reports the branch carrying the active marker in the branch listing.
func (repository *Repository) CurrentBranch(executionContext context.Context) (string, error) {
	executionResult, executionError := repository.runGit(executionContext, []string{gitBranchSubcommandConstant})
	if executionError != nil {
		return "", executionError
	}
	return ActiveBranchFromListing(executionResult.StandardOutput)
}

// Checkout switches the working tree to the named reference.
func (repository *Repository) Checkout(executionContext context.Context, reference string) error {
	_, executionError := repository.runGit(executionContext, []string{gitCheckoutSubcommandConstant, reference})
	return executionError
}

// MergeOptions controls merge behavior.
type MergeOptions struct {
	// NoFastForward records a merge commit even when the merge could fast-forward.
	NoFastForward bool
	// Message overrides the generated merge commit message when non-empty.
	Message string
}

// Merge joins the named reference into the current branch.
func (repository *Repository) Merge(executionContext context.Context, reference string, options MergeOptions) error {
	mergeArguments := []string{gitMergeSubcommandConstant}
	if options.NoFastForward {
		mergeArguments = append(mergeArguments, gitNoFastForwardFlagConstant)
	}
	trimmedMessage := strings.TrimSpace(options.Message)
	if len(trimmedMessage) > 0 {
		mergeArguments = append(mergeArguments, gitMessageFlagConstant, options.Message)
	}
	mergeArguments = append(mergeArguments, reference)

	_, executionError := repository.runGit(executionContext, mergeArguments)
	return executionError
}

// FetchOptions controls fetch behavior.
type FetchOptions struct {
	// RemoteName limits the fetch to one remote; all remotes when empty.
	RemoteName string
	// Tags fetches every tag from the remote.
	Tags bool
}

// Fetch downloads objects and references from a remote.
func (repository *Repository) Fetch(executionContext context.Context, options FetchOptions) error {
	fetchArguments := []string{gitFetchSubcommandConstant}
	if options.Tags {
		fetchArguments = append(fetchArguments, gitTagsFlagConstant)
	}
	trimmedRemoteName := strings.TrimSpace(options.RemoteName)
	if len(trimmedRemoteName) > 0 {
		fetchArguments = append(fetchArguments, trimmedRemoteName)
	}

	_, executionError := repository.runGit(executionContext, fetchArguments)
	return executionError
}

// PullOptions controls pull behavior.
type PullOptions struct {
	// RemoteName names the remote to pull from; git's configured default when empty.
	RemoteName string
	// Rebase replays local commits on top of the fetched head instead of merging.
	Rebase bool
}

// Pull fetches from a remote and integrates the result into the current branch.
func (repository *Repository) Pull(executionContext context.Context, options PullOptions) error {
	pullArguments := []string{gitPullSubcommandConstant}
	if options.Rebase {
		pullArguments = append(pullArguments, gitRebaseFlagConstant)
	}
	trimmedRemoteName := strings.TrimSpace(options.RemoteName)
	if len(trimmedRemoteName) > 0 {
		pullArguments = append(pullArguments, trimmedRemoteName)
	}

	_, executionError := repository.runGit(executionContext, pullArguments)
	return executionError
}

// PushOptions controls push behavior.
type PushOptions struct {
	// RemoteName names the remote to push to; git's configured default when empty.
	RemoteName string
	// Force overwrites the remote reference.
	Force bool
	// DryRun reports what would be pushed without transferring anything.
	DryRun bool
	// Tags pushes every local tag.
	Tags bool
}

// Push uploads local references to a remote.
func (repository *Repository) Push(executionContext context.Context, options PushOptions) error {
	pushArguments := []string{gitPushSubcommandConstant}
	if options.Force {
		pushArguments = append(pushArguments, gitForceFlagConstant)
	}
	if options.DryRun {
		pushArguments = append(pushArguments, gitDryRunFlagConstant)
	}
	if options.Tags {
		pushArguments = append(pushArguments, gitTagsFlagConstant)
	}
	trimmedRemoteName := strings.TrimSpace(options.RemoteName)
	if len(trimmedRemoteName) > 0 {
		pushArguments = append(pushArguments, trimmedRemoteName)
	}

	_, executionError := repository.runGit(executionContext, pushArguments)
	return executionError
}

// TagOptions controls tag creation.
type TagOptions struct {
	// Message creates an annotated tag carrying the message; lightweight when empty.
	Message string
}

// CreateTag records a tag pointing at the current head.
func (repository *Repository) CreateTag(executionContext context.Context, tagName string, options TagOptions) error {
	tagArguments := []string{gitTagSubcommandConstant}
	trimmedMessage := strings.TrimSpace(options.Message)
	if len(trimmedMessage) > 0 {
		tagArguments = append(tagArguments, gitMessageFlagConstant, options.Message)
	}
	tagArguments = append(tagArguments, tagName)

	_, executionError := repository.runGit(executionContext, tagArguments)
	return executionError
}

// Tags lists tag names in git's emission order.
func (repository *Repository) Tags(executionContext context.Context) ([]string, error) {
	executionResult, executionError := repository.runGit(executionContext, []string{gitTagSubcommandConstant})
	if executionError != nil {
		return nil, executionError
	}
	return ParseTagListing(executionResult.StandardOutput), nil
}

// CleanOptions controls working-tree cleanup.
type CleanOptions struct {
	// RemoveDirectories removes untracked directories in addition to files.
	RemoveDirectories bool
}

// Clean removes untracked files from the working tree.
func (repository *Repository) Clean(executionContext context.Context, options CleanOptions) error {
	cleanArguments := []string{gitCleanSubcommandConstant, gitForceFlagConstant}
	if options.RemoveDirectories {
		cleanArguments = append(cleanArguments, gitDirectoriesFlagConstant)
	}

	_, executionError := repository.runGit(executionContext, cleanArguments)
	return executionError
}

// Status reports the porcelain working-tree status text.
func (repository *Repository) Status(executionContext context.Context) (string, error) {
	executionResult, executionError := repository.runGit(executionContext, []string{gitStatusSubcommandConstant, gitPorcelainFlagConstant})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// HasChanges reports whether the working tree carries staged or unstaged changes.
func (repository *Repository) HasChanges(executionContext context.Context) (bool, error) {
	statusText, statusError := repository.Status(executionContext)
	if statusError != nil {
		return false, statusError
	}
	return len(strings.TrimSpace(statusText)) > 0, nil
}

// AddRemote registers a named remote endpoint with git.
func (repository *Repository) AddRemote(executionContext context.Context, remote Remote) error {
	_, executionError := repository.runGit(executionContext, []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remote.Name, remote.URL})
	return executionError
}

// RemoveRemote deletes a named remote endpoint from git.
func (repository *Repository) RemoveRemote(executionContext context.Context, remoteName string) error {
	_, executionError := repository.runGit(executionContext, []string{gitRemoteSubcommandConstant, gitRemoteRemoveSubcommand, remoteName})
	return executionError
}

// Remotes lists the registered remote endpoints with their directionality.
func (repository *Repository) Remotes(executionContext context.Context) ([]Remote, error) {
	executionResult, executionError := repository.runGit(executionContext, []string{gitRemoteSubcommandConstant, gitVerboseFlagConstant})
	if executionError != nil {
		return nil, executionError
	}
	return ParseRemoteListing(executionResult.StandardOutput), nil
}

// runGit issues a git command in the repository working directory. The most
// recent standard error text is reset before the command runs and recaptured
// from the result or the classified failure afterwards.
func (repository *Repository) runGit(executionContext context.Context, commandArguments []string) (execshell.ExecutionResult, error) {
	repository.lastStandardErrorText = ""

	commandDetails := execshell.CommandDetails{
		Arguments:        commandArguments,
		WorkingDirectory: repository.path,
	}
	if len(repository.environmentVariables) > 0 {
		commandDetails.EnvironmentVariables = repository.environmentVariables
	}

	executionResult, executionError := repository.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			repository.lastStandardErrorText = failedError.Result.StandardError
		}
		return execshell.ExecutionResult{}, executionError
	}

	repository.lastStandardErrorText = executionResult.StandardError
	return executionResult, nil
}

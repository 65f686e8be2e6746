package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/gitshell/internal/execshell"
)

const (
	workingTreeMarkerDirectoryNameConstant = ".git"
	bareConfigurationFileNameConstant      = "config"
	createdDirectoryPermissionsConstant    = 0o755
	configurationSectionPrefixConstant     = "["
	configurationSectionSuffixConstant     = "]"
	configurationAssignmentSeparatorRune   = '='
	configurationCommentPrefixHashConstant = "#"
	configurationCommentPrefixSemicolon    = ";"
	coreConfigurationSectionNameConstant   = "core"
	bareConfigurationKeyNameConstant       = "bare"
	gitInitSubcommandConstant              = "init"
	gitCloneSubcommandConstant             = "clone"
	gitBareFlagConstant                    = "--bare"
	cloneIntoCurrentDirectoryArgConstant   = "."
)

// RepositoryKind classifies a resolved repository directory.
type RepositoryKind string

// Repository kinds produced by classification.
const (
	// RepositoryKindWorkingTree identifies a repository with a checked-out file tree.
	RepositoryKindWorkingTree RepositoryKind = "working-tree"
	// RepositoryKindBare identifies a repository storing only metadata and history.
	RepositoryKindBare RepositoryKind = "bare"
)

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	LastStandardError() string
}

// ResolveOptions controls repository creation during path resolution.
type ResolveOptions struct {
	// CreateIfMissing initializes or clones a repository when the path holds none.
	CreateIfMissing bool
	// Bare requests a bare repository when creating.
	Bare bool
	// OriginURL, when non-empty, clones from the named source instead of initializing in place.
	OriginURL string
}

// Classification reports the resolved repository root and its kind.
type Classification struct {
	Path string
	Kind RepositoryKind
}

// PathClassifier inspects filesystem paths and determines repository kind,
// creating or initializing a repository on demand.
type PathClassifier struct {
	executor GitExecutor
}

// NewPathClassifier constructs a classifier issuing creation commands through the executor.
func NewPathClassifier(executor GitExecutor) *PathClassifier {
	return &PathClassifier{executor: executor}
}

// Resolve canonicalizes the requested path and classifies it. Classification
// is ordered: an existing working-tree marker wins, then a bare configuration
// marker, then creation when requested. A path resolving to a regular file is
// always rejected; creation never overwrites a file. Creation side effects
// (directory creation, git init or clone) are not rolled back on partial
// failure.
func (classifier *PathClassifier) Resolve(executionContext context.Context, requestedPath string, options ResolveOptions) (Classification, error) {
	trimmedPath := strings.TrimSpace(requestedPath)
	absolutePath, absoluteError := filepath.Abs(trimmedPath)
	if absoluteError != nil {
		return Classification{}, absoluteError
	}

	pathInformation, statError := os.Stat(absolutePath)
	switch {
	case statError == nil:
		resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
		if resolveError != nil {
			return Classification{}, resolveError
		}
		if !pathInformation.IsDir() {
			return Classification{}, classificationError(resolvedPath, ErrNotADirectory)
		}
		return classifier.classifyExistingDirectory(executionContext, resolvedPath, options)
	case os.IsNotExist(statError):
		if !options.CreateIfMissing {
			return Classification{}, classificationError(absolutePath, ErrRepositoryNotFound)
		}
		return classifier.createMissingDirectory(executionContext, absolutePath, options)
	default:
		return Classification{}, statError
	}
}

func (classifier *PathClassifier) classifyExistingDirectory(executionContext context.Context, resolvedPath string, options ResolveOptions) (Classification, error) {
	markerInformation, markerStatError := os.Stat(filepath.Join(resolvedPath, workingTreeMarkerDirectoryNameConstant))
	if markerStatError == nil && markerInformation.IsDir() {
		return Classification{Path: resolvedPath, Kind: RepositoryKindWorkingTree}, nil
	}

	configurationContents, configurationReadError := os.ReadFile(filepath.Join(resolvedPath, bareConfigurationFileNameConstant))
	if configurationReadError == nil && isBareRepositoryConfiguration(string(configurationContents)) {
		return Classification{Path: resolvedPath, Kind: RepositoryKindBare}, nil
	}

	if !options.CreateIfMissing {
		return Classification{}, classificationError(resolvedPath, ErrNotARepository)
	}

	return classifier.createInPlace(executionContext, resolvedPath, options)
}

func (classifier *PathClassifier) createMissingDirectory(executionContext context.Context, absolutePath string, options ResolveOptions) (Classification, error) {
	parentPath := filepath.Dir(absolutePath)
	parentInformation, parentStatError := os.Stat(parentPath)
	if parentStatError != nil || !parentInformation.IsDir() {
		return Classification{}, classificationError(parentPath, ErrParentDirectoryNotFound)
	}

	if directoryCreationError := os.Mkdir(absolutePath, createdDirectoryPermissionsConstant); directoryCreationError != nil {
		return Classification{}, directoryCreationError
	}

	return classifier.createInPlace(executionContext, absolutePath, options)
}

// createInPlace runs git init or git clone inside the directory, then
// re-derives the kind from the on-disk markers so bare creation and clone
// results classify through the same inspection path.
func (classifier *PathClassifier) createInPlace(executionContext context.Context, resolvedPath string, options ResolveOptions) (Classification, error) {
	creationArguments := buildCreationArguments(options)
	commandDetails := execshell.CommandDetails{Arguments: creationArguments, WorkingDirectory: resolvedPath}
	if _, creationError := classifier.executor.ExecuteGit(executionContext, commandDetails); creationError != nil {
		return Classification{}, creationError
	}

	return classifier.classifyExistingDirectory(executionContext, resolvedPath, ResolveOptions{})
}

func buildCreationArguments(options ResolveOptions) []string {
	trimmedOriginURL := strings.TrimSpace(options.OriginURL)
	if len(trimmedOriginURL) > 0 {
		cloneArguments := []string{gitCloneSubcommandConstant}
		if options.Bare {
			cloneArguments = append(cloneArguments, gitBareFlagConstant)
		}
		return append(cloneArguments, trimmedOriginURL, cloneIntoCurrentDirectoryArgConstant)
	}

	initArguments := []string{gitInitSubcommandConstant}
	if options.Bare {
		initArguments = append(initArguments, gitBareFlagConstant)
	}
	return initArguments
}

// isBareRepositoryConfiguration applies a minimal key/value parse to a git
// configuration file and consumes only the core.bare boolean. Malformed input
// classifies as "not bare" rather than failing.
func isBareRepositoryConfiguration(configurationContents string) bool {
	currentSectionName := ""
	for _, configurationLine := range strings.Split(configurationContents, "\n") {
		trimmedLine := strings.TrimSpace(configurationLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedLine, configurationCommentPrefixHashConstant) || strings.HasPrefix(trimmedLine, configurationCommentPrefixSemicolon) {
			continue
		}
		if strings.HasPrefix(trimmedLine, configurationSectionPrefixConstant) && strings.HasSuffix(trimmedLine, configurationSectionSuffixConstant) {
			sectionBody := strings.TrimSuffix(strings.TrimPrefix(trimmedLine, configurationSectionPrefixConstant), configurationSectionSuffixConstant)
			currentSectionName = strings.ToLower(strings.TrimSpace(sectionBody))
			continue
		}

		assignmentIndex := strings.IndexRune(trimmedLine, configurationAssignmentSeparatorRune)
		if assignmentIndex <= 0 {
			continue
		}
		configurationKey := strings.ToLower(strings.TrimSpace(trimmedLine[:assignmentIndex]))
		configurationValue := strings.ToLower(strings.TrimSpace(trimmedLine[assignmentIndex+1:]))
		if currentSectionName == coreConfigurationSectionNameConstant && configurationKey == bareConfigurationKeyNameConstant {
			return isTrueConfigurationValue(configurationValue)
		}
	}
	return false
}

func isTrueConfigurationValue(configurationValue string) bool {
	switch configurationValue {
	case "true", "yes", "on", "1":
		return true
	default:
		return false
	}
}

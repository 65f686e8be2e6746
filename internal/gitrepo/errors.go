package gitrepo

import (
	"errors"
	"fmt"
)

const (
	repositoryNotFoundMessageConstant     = "repository path does not exist"
	notADirectoryMessageConstant          = "repository path is not a directory"
	notARepositoryMessageConstant         = "directory is not a git repository"
	parentDirectoryMissingMessageConstant = "parent directory does not exist"
	activeBranchMissingMessageConstant    = "branch listing carries no active marker"
	classificationErrorTemplateConstant   = "%s: %w"
	invalidSelectorTemplateConstant       = "invalid file selector: %s"
	requiredValueMessageConstant          = "value is required"
)

// Classification failures reported when resolving repository paths. Callers
// distinguish expected negative classifications from execution faults with
// errors.Is against these sentinels.
var (
	// ErrRepositoryNotFound reports a path that does not exist while creation was not requested.
	ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)
	// ErrNotADirectory reports a path resolving to a regular file; creation never overwrites files.
	ErrNotADirectory = errors.New(notADirectoryMessageConstant)
	// ErrNotARepository reports an existing directory carrying neither repository marker.
	ErrNotARepository = errors.New(notARepositoryMessageConstant)
	// ErrParentDirectoryNotFound reports a creation request whose parent directory is missing.
	ErrParentDirectoryNotFound = errors.New(parentDirectoryMissingMessageConstant)
	// ErrActiveBranchNotFound reports a branch listing without an active-branch marker.
	ErrActiveBranchNotFound = errors.New(activeBranchMissingMessageConstant)
)

func classificationError(path string, sentinel error) error {
	return fmt.Errorf(classificationErrorTemplateConstant, path, sentinel)
}

// InvalidSelectorError reports a file selector whose shape is neither a single
// identifier nor an ordered collection of identifiers.
type InvalidSelectorError struct {
	Reason string
}

// Error describes the malformed selector.
func (selectorError InvalidSelectorError) Error() string {
	return fmt.Sprintf(invalidSelectorTemplateConstant, selectorError.Reason)
}

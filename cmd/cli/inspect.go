package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitshell/internal/gitrepo"
)

const (
	inspectCommandUseConstant              = "inspect <path>"
	inspectCommandShortDescription         = "Inspect a repository path and report its branches, tags, and remotes"
	inspectCommandLongDescription          = "inspect classifies the provided path as a working tree or bare repository and reports its current branch, local and remote branches, tags, remotes, and description."
	inspectExecutionErrorTemplateConstant  = "repository inspection failed: %w"
	inspectKindLineTemplateConstant        = "kind: %s\n"
	inspectPathLineTemplateConstant        = "path: %s\n"
	inspectCurrentBranchTemplateConstant   = "current branch: %s\n"
	inspectDescriptionTemplateConstant     = "description: %s\n"
	inspectBranchesHeadingConstant         = "branches:"
	inspectRemoteBranchesHeadingConstant   = "remote branches:"
	inspectTagsHeadingConstant             = "tags:"
	inspectRemotesHeadingConstant          = "remotes:"
	inspectListEntryTemplateConstant       = "  %s\n"
	inspectRemoteEntryTemplateConstant     = "  %s %s (%s)\n"
	inspectLogMessageConstant              = "repository inspected"
	inspectLogRepositoryPathFieldConstant  = "repository_path"
	inspectLogRepositoryKindFieldConstant  = "repository_kind"
)

// InspectCommandBuilder assembles the Cobra command for repository inspection.
type InspectCommandBuilder struct {
	LoggerProvider   LoggerProvider
	ExecutorProvider ExecutorProvider
}

// Build constructs the inspect command.
func (builder *InspectCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   inspectCommandUseConstant,
		Short: inspectCommandShortDescription,
		Long:  inspectCommandLongDescription,
		Args:  cobra.ExactArgs(repositoryPathArgumentCountConstant),
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *InspectCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath, pathError := resolveRepositoryPathArgument(arguments)
	if pathError != nil {
		return pathError
	}

	executor, executorError := resolveExecutor(command.Context(), builder.ExecutorProvider)
	if executorError != nil {
		return executorError
	}

	repository, openError := gitrepo.OpenRepository(command.Context(), executor, repositoryPath)
	if openError != nil {
		return fmt.Errorf(inspectExecutionErrorTemplateConstant, openError)
	}

	logger := resolveLogger(builder.LoggerProvider)
	logger.Info(
		inspectLogMessageConstant,
		zap.String(inspectLogRepositoryPathFieldConstant, repository.Path()),
		zap.String(inspectLogRepositoryKindFieldConstant, string(repository.Kind())),
	)

	outputWriter := command.OutOrStdout()
	fmt.Fprintf(outputWriter, inspectPathLineTemplateConstant, repository.Path())
	fmt.Fprintf(outputWriter, inspectKindLineTemplateConstant, repository.Kind())

	if repository.Kind() == gitrepo.RepositoryKindWorkingTree {
		if activeBranch, branchError := repository.CurrentBranch(command.Context()); branchError == nil {
			fmt.Fprintf(outputWriter, inspectCurrentBranchTemplateConstant, activeBranch)
		}
	}

	if repositoryDescription, descriptionError := repository.Description(); descriptionError == nil && len(strings.TrimSpace(repositoryDescription)) > 0 {
		fmt.Fprintf(outputWriter, inspectDescriptionTemplateConstant, repositoryDescription)
	}

	branchNames, branchListingError := repository.Branches(command.Context())
	if branchListingError != nil {
		return fmt.Errorf(inspectExecutionErrorTemplateConstant, branchListingError)
	}
	printNamedListing(outputWriter, inspectBranchesHeadingConstant, branchNames)

	remoteBranchNames, remoteBranchListingError := repository.RemoteBranches(command.Context())
	if remoteBranchListingError != nil {
		return fmt.Errorf(inspectExecutionErrorTemplateConstant, remoteBranchListingError)
	}
	printNamedListing(outputWriter, inspectRemoteBranchesHeadingConstant, remoteBranchNames)

	tagNames, tagListingError := repository.Tags(command.Context())
	if tagListingError != nil {
		return fmt.Errorf(inspectExecutionErrorTemplateConstant, tagListingError)
	}
	printNamedListing(outputWriter, inspectTagsHeadingConstant, tagNames)

	registeredRemotes, remoteListingError := repository.Remotes(command.Context())
	if remoteListingError != nil {
		return fmt.Errorf(inspectExecutionErrorTemplateConstant, remoteListingError)
	}
	if len(registeredRemotes) > 0 {
		fmt.Fprintln(outputWriter, inspectRemotesHeadingConstant)
		for _, registeredRemote := range registeredRemotes {
			fmt.Fprintf(outputWriter, inspectRemoteEntryTemplateConstant, registeredRemote.Name, registeredRemote.URL, registeredRemote.Direction)
		}
	}

	return nil
}

func printNamedListing(outputWriter io.Writer, heading string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(outputWriter, heading)
	for _, entry := range entries {
		fmt.Fprintf(outputWriter, inspectListEntryTemplateConstant, entry)
	}
}

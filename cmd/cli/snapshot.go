package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitshell/internal/gitrepo"
	"github.com/temirov/gitshell/internal/utils/flags"
)

const (
	snapshotCommandUseConstant             = "snapshot <path>"
	snapshotCommandShortDescription        = "Stage every change and record a commit"
	snapshotCommandLongDescription         = "snapshot stages all working-tree changes in the repository at the provided path and records a commit with the supplied message."
	snapshotExecutionErrorTemplateConstant = "repository snapshot failed: %w"
	snapshotMessageFlagNameConstant        = "message"
	snapshotMessageFlagShorthandConstant   = "m"
	snapshotMessageFlagUsageConstant       = "Commit message recorded with the snapshot."
	snapshotAllowEmptyFlagNameConstant     = "allow-empty"
	snapshotAllowEmptyFlagUsageConstant    = "Record a commit even when nothing changed."
	snapshotMissingMessageConstant         = "a commit message is required"
	snapshotNoChangesMessageConstant       = "nothing to snapshot\n"
	snapshotResultTemplateConstant         = "snapshot recorded in %s\n"
	snapshotLogMessageConstant             = "repository snapshot recorded"
	snapshotLogPathFieldConstant           = "repository_path"
	snapshotLogMessageFieldConstant        = "commit_message"
)

var errMissingCommitMessage = errors.New(snapshotMissingMessageConstant)

// SnapshotCommandBuilder assembles the Cobra command for staging and committing every change.
type SnapshotCommandBuilder struct {
	LoggerProvider   LoggerProvider
	ExecutorProvider ExecutorProvider

	allowEmptyFlagValue bool
}

// Build constructs the snapshot command.
func (builder *SnapshotCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   snapshotCommandUseConstant,
		Short: snapshotCommandShortDescription,
		Long:  snapshotCommandLongDescription,
		Args:  cobra.ExactArgs(repositoryPathArgumentCountConstant),
		RunE:  builder.run,
	}

	command.Flags().StringP(snapshotMessageFlagNameConstant, snapshotMessageFlagShorthandConstant, "", snapshotMessageFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &builder.allowEmptyFlagValue, snapshotAllowEmptyFlagNameConstant, "", false, snapshotAllowEmptyFlagUsageConstant)

	return command, nil
}

func (builder *SnapshotCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath, pathError := resolveRepositoryPathArgument(arguments)
	if pathError != nil {
		return pathError
	}

	commitMessageValue, _ := command.Flags().GetString(snapshotMessageFlagNameConstant)
	trimmedCommitMessage := strings.TrimSpace(commitMessageValue)
	if len(trimmedCommitMessage) == 0 {
		return errMissingCommitMessage
	}

	executor, executorError := resolveExecutor(command.Context(), builder.ExecutorProvider)
	if executorError != nil {
		return executorError
	}

	repository, openError := gitrepo.OpenRepository(command.Context(), executor, repositoryPath)
	if openError != nil {
		return fmt.Errorf(snapshotExecutionErrorTemplateConstant, openError)
	}

	pendingChanges, stateError := repository.HasChanges(command.Context())
	if stateError != nil {
		return fmt.Errorf(snapshotExecutionErrorTemplateConstant, stateError)
	}
	if !pendingChanges && !builder.allowEmptyFlagValue {
		fmt.Fprint(command.OutOrStdout(), snapshotNoChangesMessageConstant)
		return nil
	}

	if pendingChanges {
		if stageError := repository.StageAll(command.Context()); stageError != nil {
			return fmt.Errorf(snapshotExecutionErrorTemplateConstant, stageError)
		}
	}

	commitOptions := gitrepo.CommitOptions{AllowEmpty: builder.allowEmptyFlagValue}
	if commitError := repository.Commit(command.Context(), trimmedCommitMessage, commitOptions); commitError != nil {
		return fmt.Errorf(snapshotExecutionErrorTemplateConstant, commitError)
	}

	logger := resolveLogger(builder.LoggerProvider)
	logger.Info(
		snapshotLogMessageConstant,
		zap.String(snapshotLogPathFieldConstant, repository.Path()),
		zap.String(snapshotLogMessageFieldConstant, trimmedCommitMessage),
	)

	fmt.Fprintf(command.OutOrStdout(), snapshotResultTemplateConstant, repository.Path())
	return nil
}

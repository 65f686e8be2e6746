package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitshell/internal/gitrepo"
	"github.com/temirov/gitshell/internal/utils/flags"
)

const (
	initializeCommandUseConstant             = "init <path>"
	initializeCommandShortDescription        = "Create a repository at the provided path"
	initializeCommandLongDescription         = "init resolves the provided path and initializes a repository there, cloning from an origin URL when one is provided. Existing repositories resolve without modification."
	initializeExecutionErrorTemplateConstant = "repository initialization failed: %w"
	initializeBareFlagNameConstant           = "bare"
	initializeBareFlagUsageConstant          = "Create a bare repository."
	initializeOriginFlagNameConstant         = "origin"
	initializeOriginFlagUsageConstant        = "Clone from the provided remote URL instead of initializing in place."
	initializeResultTemplateConstant         = "%s repository ready at %s\n"
	initializeLogMessageConstant             = "repository initialized"
	initializeLogPathFieldConstant           = "repository_path"
	initializeLogKindFieldConstant           = "repository_kind"
	initializeLogOriginFieldConstant         = "origin_url"
)

// InitializeCommandBuilder assembles the Cobra command for repository creation.
type InitializeCommandBuilder struct {
	LoggerProvider   LoggerProvider
	ExecutorProvider ExecutorProvider

	bareFlagValue bool
}

// Build constructs the init command.
func (builder *InitializeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   initializeCommandUseConstant,
		Short: initializeCommandShortDescription,
		Long:  initializeCommandLongDescription,
		Args:  cobra.ExactArgs(repositoryPathArgumentCountConstant),
		RunE:  builder.run,
	}

	flags.AddToggleFlag(command.Flags(), &builder.bareFlagValue, initializeBareFlagNameConstant, "", false, initializeBareFlagUsageConstant)
	command.Flags().String(initializeOriginFlagNameConstant, "", initializeOriginFlagUsageConstant)

	return command, nil
}

func (builder *InitializeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath, pathError := resolveRepositoryPathArgument(arguments)
	if pathError != nil {
		return pathError
	}

	originURLValue, _ := command.Flags().GetString(initializeOriginFlagNameConstant)
	trimmedOriginURL := strings.TrimSpace(originURLValue)
	if len(trimmedOriginURL) > 0 {
		if _, parseError := gitrepo.ParseRemoteURL(trimmedOriginURL); parseError != nil {
			return fmt.Errorf(initializeExecutionErrorTemplateConstant, parseError)
		}
	}

	executor, executorError := resolveExecutor(command.Context(), builder.ExecutorProvider)
	if executorError != nil {
		return executorError
	}

	creationOptions := gitrepo.CreateOptions{Bare: builder.bareFlagValue, OriginURL: trimmedOriginURL}
	repository, creationError := gitrepo.CreateRepository(command.Context(), executor, repositoryPath, creationOptions)
	if creationError != nil {
		return fmt.Errorf(initializeExecutionErrorTemplateConstant, creationError)
	}

	logger := resolveLogger(builder.LoggerProvider)
	logger.Info(
		initializeLogMessageConstant,
		zap.String(initializeLogPathFieldConstant, repository.Path()),
		zap.String(initializeLogKindFieldConstant, string(repository.Kind())),
		zap.String(initializeLogOriginFieldConstant, trimmedOriginURL),
	)

	fmt.Fprintf(command.OutOrStdout(), initializeResultTemplateConstant, repository.Kind(), repository.Path())
	return nil
}

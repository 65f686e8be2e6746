package cli

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/gitshell/internal/execshell"
	pathutils "github.com/temirov/gitshell/internal/utils/path"
)

const (
	missingPathArgumentMessageConstant  = "a repository path argument is required"
	executorProviderMissingMessage      = "shell executor provider not configured"
	repositoryPathArgumentCountConstant = 1
)

var (
	errMissingPathArgument      = errors.New(missingPathArgumentMessageConstant)
	errExecutorProviderMissing  = errors.New(executorProviderMissingMessage)
	sharedRepositoryPathCleaner = pathutils.NewRepositoryPathSanitizer()
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ExecutorProvider supplies a shell executor configured for the supplied command context.
type ExecutorProvider func(executionContext context.Context) (*execshell.ShellExecutor, error)

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveExecutor(executionContext context.Context, provider ExecutorProvider) (*execshell.ShellExecutor, error) {
	if provider == nil {
		return nil, errExecutorProviderMissing
	}
	return provider(executionContext)
}

func resolveRepositoryPathArgument(arguments []string) (string, error) {
	sanitizedPaths := sharedRepositoryPathCleaner.Sanitize(arguments)
	if len(sanitizedPaths) < repositoryPathArgumentCountConstant {
		return "", errMissingPathArgument
	}
	return sanitizedPaths[0], nil
}

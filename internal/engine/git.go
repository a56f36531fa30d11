package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/execshell"
)

const (
	gitRevParseSubcommandConstant        = "rev-parse"
	gitStatusSubcommandConstant          = "status"
	revParseVerifyFlagConstant           = "--verify"
	revParseQuietFlagConstant            = "--quiet"
	revParseAbbrevRefFlagConstant        = "--abbrev-ref"
	revParseShowTopLevelFlagConstant     = "--show-toplevel"
	revParseGitCommonDirFlagConstant     = "--git-common-dir"
	statusPorcelainFlagConstant          = "--porcelain"
	headReferenceNameConstant            = "HEAD"
	detachedHeadLabelConstant            = "HEAD"
	executorNotConfiguredMessageConstant = "shell executor not configured"
)

// ErrExecutorNotConfigured indicates the engine was constructed without a shell executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor abstracts execshell.ShellExecutor for testability.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitEngine performs typed git operations inside one repository working tree.
type GitEngine struct {
	executor GitExecutor
}

// NewGitEngine constructs a GitEngine around the provided executor.
func NewGitEngine(executor GitExecutor) (*GitEngine, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &GitEngine{executor: executor}, nil
}

func (gitEngine *GitEngine) run(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	executionResult, executionError := gitEngine.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (gitEngine *GitEngine) runWithInput(executionContext context.Context, repositoryPath string, standardInput []byte, environment map[string]string, arguments ...string) (string, error) {
	executionResult, executionError := gitEngine.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: environment,
		StandardInput:        standardInput,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ResolveCommit resolves a revision expression to a full commit identifier.
func (gitEngine *GitEngine) ResolveCommit(executionContext context.Context, repositoryPath string, revision string) (string, error) {
	return gitEngine.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, revParseVerifyFlagConstant, revParseQuietFlagConstant, revision)
}

// CommitExists reports whether the revision resolves to an object in the repository.
func (gitEngine *GitEngine) CommitExists(executionContext context.Context, repositoryPath string, revision string) bool {
	_, resolveError := gitEngine.ResolveCommit(executionContext, repositoryPath, revision)
	return resolveError == nil
}

// HeadCommit resolves the current HEAD commit identifier.
func (gitEngine *GitEngine) HeadCommit(executionContext context.Context, repositoryPath string) (string, error) {
	return gitEngine.ResolveCommit(executionContext, repositoryPath, headReferenceNameConstant)
}

// HeadBranch resolves the checked-out branch name, or an empty string for a detached HEAD.
func (gitEngine *GitEngine) HeadBranch(executionContext context.Context, repositoryPath string) (string, error) {
	branchName, resolveError := gitEngine.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, revParseAbbrevRefFlagConstant, headReferenceNameConstant)
	if resolveError != nil {
		return "", resolveError
	}
	if branchName == detachedHeadLabelConstant {
		return "", nil
	}
	return branchName, nil
}

// TopLevelDirectory resolves the absolute path of the working tree root.
func (gitEngine *GitEngine) TopLevelDirectory(executionContext context.Context, repositoryPath string) (string, error) {
	return gitEngine.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, revParseShowTopLevelFlagConstant)
}

// CommonDirectory resolves the repository's shared .git directory.
func (gitEngine *GitEngine) CommonDirectory(executionContext context.Context, repositoryPath string) (string, error) {
	return gitEngine.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, revParseGitCommonDirFlagConstant)
}

// IsWorkingTreeClean reports whether the working tree carries no staged or unstaged changes.
func (gitEngine *GitEngine) IsWorkingTreeClean(executionContext context.Context, repositoryPath string) (bool, error) {
	statusOutput, statusError := gitEngine.run(executionContext, repositoryPath, gitStatusSubcommandConstant, statusPorcelainFlagConstant)
	if statusError != nil {
		return false, statusError
	}
	return len(statusOutput) == 0, nil
}

func splitOutputLines(output string) []string {
	trimmedOutput := strings.TrimSpace(output)
	if len(trimmedOutput) == 0 {
		return nil
	}
	outputLines := strings.Split(trimmedOutput, "\n")
	for lineIndex := range outputLines {
		outputLines[lineIndex] = strings.TrimSpace(outputLines[lineIndex])
	}
	return outputLines
}

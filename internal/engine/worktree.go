package engine

import (
	"context"
	"strings"
)

const (
	gitWorktreeSubcommandConstant    = "worktree"
	gitReadTreeSubcommandConstant    = "read-tree"
	gitCommitSubcommandConstant      = "commit"
	gitAddSubcommandConstant         = "add"
	gitRmSubcommandConstant          = "rm"
	gitMergeSubcommandConstant       = "merge"
	gitRebaseSubcommandConstant      = "rebase"
	worktreeAddActionConstant        = "add"
	worktreeRemoveActionConstant     = "remove"
	worktreeForceFlagConstant        = "--force"
	readTreeUpdateFlagConstant       = "-u"
	commitMessageFlagConstant        = "-m"
	addAllFlagConstant               = "--all"
	rmRecursiveFlagConstant          = "-r"
	rmCachedFlagConstant             = "--cached"
	rmIgnoreUnmatchFlagConstant      = "--ignore-unmatch"
	rmQuietFlagConstant              = "-q"
	mergeNoEditFlagConstant          = "--no-edit"
	mergeAbortFlagConstant           = "--abort"
	rebaseAbortFlagConstant          = "--abort"
	conflictMarkerConstant           = "CONFLICT"
	unresolvedMarkerConstant         = "needs merge"
	readTreePrefixFlagPrefixConstant = "--prefix="
	strategyOptionFlagPrefixConstant = "--strategy-option="
)

// MergeStrategyOption selects a whole-side conflict preference.
type MergeStrategyOption string

// Supported merge strategy options.
const (
	MergeStrategyOptionNone   MergeStrategyOption = ""
	MergeStrategyOptionOurs   MergeStrategyOption = "ours"
	MergeStrategyOptionTheirs MergeStrategyOption = "theirs"
)

// AddWorktree materializes the revision as a linked working tree at the target path.
func (gitEngine *GitEngine) AddWorktree(executionContext context.Context, repositoryPath string, worktreePath string, revision string) error {
	_, worktreeError := gitEngine.run(executionContext, repositoryPath, gitWorktreeSubcommandConstant, worktreeAddActionConstant, worktreeForceFlagConstant, worktreePath, revision)
	return worktreeError
}

// RemoveWorktree detaches and deletes a linked working tree.
func (gitEngine *GitEngine) RemoveWorktree(executionContext context.Context, repositoryPath string, worktreePath string) error {
	_, worktreeError := gitEngine.run(executionContext, repositoryPath, gitWorktreeSubcommandConstant, worktreeRemoveActionConstant, worktreeForceFlagConstant, worktreePath)
	return worktreeError
}

// ReplaceSubtree swaps the content beneath the prefix with the provided tree and stages the result.
func (gitEngine *GitEngine) ReplaceSubtree(executionContext context.Context, repositoryPath string, pathPrefix string, treeIdentifier string) error {
	_, removeError := gitEngine.run(executionContext, repositoryPath, gitRmSubcommandConstant, rmRecursiveFlagConstant, rmCachedFlagConstant, rmIgnoreUnmatchFlagConstant, rmQuietFlagConstant, pathspecSeparatorConstant, pathPrefix)
	if removeError != nil {
		return removeError
	}
	_, readTreeError := gitEngine.run(executionContext, repositoryPath, gitReadTreeSubcommandConstant, readTreeUpdateFlagConstant, formatReadTreePrefixFlag(pathPrefix), treeIdentifier)
	return readTreeError
}

// StageAll stages every change in the working tree.
func (gitEngine *GitEngine) StageAll(executionContext context.Context, repositoryPath string) error {
	_, addError := gitEngine.run(executionContext, repositoryPath, gitAddSubcommandConstant, addAllFlagConstant)
	return addError
}

// CommitStaged records the staged content as a new commit on the current branch.
func (gitEngine *GitEngine) CommitStaged(executionContext context.Context, repositoryPath string, message string) error {
	_, commitError := gitEngine.run(executionContext, repositoryPath, gitCommitSubcommandConstant, commitMessageFlagConstant, message)
	return commitError
}

// Merge integrates the revision into the current branch.
//
// A conflicted merge is aborted before ErrMergeConflict is returned so the
// working tree never stays in an unfinished merge state.
func (gitEngine *GitEngine) Merge(executionContext context.Context, repositoryPath string, revision string, strategyOption MergeStrategyOption) error {
	arguments := []string{gitMergeSubcommandConstant, mergeNoEditFlagConstant}
	if strategyOption != MergeStrategyOptionNone {
		arguments = append(arguments, formatMergeStrategyOptionFlag(strategyOption))
	}
	arguments = append(arguments, revision)

	_, mergeError := gitEngine.run(executionContext, repositoryPath, arguments...)
	if mergeError != nil {
		if isConflictFailure(mergeError) {
			_, _ = gitEngine.run(executionContext, repositoryPath, gitMergeSubcommandConstant, mergeAbortFlagConstant)
			return ErrMergeConflict
		}
		return mergeError
	}
	return nil
}

// Rebase replays the current branch on top of the revision.
func (gitEngine *GitEngine) Rebase(executionContext context.Context, repositoryPath string, revision string, strategyOption MergeStrategyOption) error {
	arguments := []string{gitRebaseSubcommandConstant}
	if strategyOption != MergeStrategyOptionNone {
		arguments = append(arguments, formatMergeStrategyOptionFlag(strategyOption))
	}
	arguments = append(arguments, revision)

	_, rebaseError := gitEngine.run(executionContext, repositoryPath, arguments...)
	if rebaseError != nil {
		if isConflictFailure(rebaseError) {
			_, _ = gitEngine.run(executionContext, repositoryPath, gitRebaseSubcommandConstant, rebaseAbortFlagConstant)
			return ErrMergeConflict
		}
		return rebaseError
	}
	return nil
}

func formatReadTreePrefixFlag(pathPrefix string) string {
	return readTreePrefixFlagPrefixConstant + strings.TrimSuffix(pathPrefix, "/") + "/"
}

func formatMergeStrategyOptionFlag(strategyOption MergeStrategyOption) string {
	return strategyOptionFlagPrefixConstant + string(strategyOption)
}

func isConflictFailure(candidateError error) bool {
	failedError, isFailure := AsCommandFailure(candidateError)
	if !isFailure {
		return false
	}
	combinedOutput := failedError.Result.StandardOutput + failedError.Result.StandardError
	return strings.Contains(combinedOutput, conflictMarkerConstant) || strings.Contains(combinedOutput, unresolvedMarkerConstant)
}

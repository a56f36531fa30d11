package engine

import (
	"context"
	"fmt"
	"strings"
)

const (
	gitFetchSubcommandConstant      = "fetch"
	gitPushSubcommandConstant       = "push"
	gitBranchSubcommandConstant     = "branch"
	gitUpdateRefSubcommandConstant  = "update-ref"
	gitForEachRefSubcommandConstant = "for-each-ref"
	gitLSRemoteSubcommandConstant   = "ls-remote"
	fetchNoTagsFlagConstant         = "--no-tags"
	pushForceFlagConstant           = "--force"
	branchForceDeleteFlagConstant   = "-D"
	updateRefDeleteFlagConstant     = "-d"
	forEachRefFormatFlagConstant    = "--format=%(refname)"
	lsRemoteSymrefFlagConstant      = "--symref"
	lsRemoteHeadReferenceConstant   = "HEAD"
	symrefOutputPrefixConstant      = "ref:"
	branchReferencePrefixConstant   = "refs/heads/"
	fetchHeadReferenceNameConstant  = "FETCH_HEAD"
	refspecTemplateConstant         = "%s:%s"

	nonFastForwardMarkerConstant   = "non-fast-forward"
	fetchFirstMarkerConstant       = "fetch first"
	rejectedMarkerConstant         = "[rejected]"
	missingRemoteRefMarkerConstant = "couldn't find remote ref"
)

// Fetch downloads the named reference from the remote address and resolves the fetched tip.
func (gitEngine *GitEngine) Fetch(executionContext context.Context, repositoryPath string, remoteAddress string, referenceName string) (string, error) {
	_, fetchError := gitEngine.run(executionContext, repositoryPath, gitFetchSubcommandConstant, fetchNoTagsFlagConstant, remoteAddress, referenceName)
	if fetchError != nil {
		if failedError, isFailure := AsCommandFailure(fetchError); isFailure && strings.Contains(failedError.Result.StandardError, missingRemoteRefMarkerConstant) {
			return "", ErrRemoteRefMissing
		}
		return "", fetchError
	}
	return gitEngine.ResolveCommit(executionContext, repositoryPath, fetchHeadReferenceNameConstant)
}

// Push uploads a local revision to the remote branch.
//
// Without force the push is fast-forward only and a rejection surfaces as
// ErrNonFastForward.
func (gitEngine *GitEngine) Push(executionContext context.Context, repositoryPath string, remoteAddress string, localRevision string, remoteBranch string, force bool) error {
	arguments := []string{gitPushSubcommandConstant}
	if force {
		arguments = append(arguments, pushForceFlagConstant)
	}
	refspec := fmt.Sprintf(refspecTemplateConstant, localRevision, branchReferencePrefixConstant+remoteBranch)
	arguments = append(arguments, remoteAddress, refspec)

	_, pushError := gitEngine.run(executionContext, repositoryPath, arguments...)
	if pushError != nil {
		if failedError, isFailure := AsCommandFailure(pushError); isFailure {
			combinedOutput := failedError.Result.StandardError + failedError.Result.StandardOutput
			if strings.Contains(combinedOutput, nonFastForwardMarkerConstant) ||
				strings.Contains(combinedOutput, fetchFirstMarkerConstant) ||
				strings.Contains(combinedOutput, rejectedMarkerConstant) {
				return ErrNonFastForward
			}
		}
		return pushError
	}
	return nil
}

// RemoteDefaultBranch resolves the branch the remote's HEAD points at.
func (gitEngine *GitEngine) RemoteDefaultBranch(executionContext context.Context, repositoryPath string, remoteAddress string) (string, error) {
	symrefOutput, symrefError := gitEngine.run(executionContext, repositoryPath, gitLSRemoteSubcommandConstant, lsRemoteSymrefFlagConstant, remoteAddress, lsRemoteHeadReferenceConstant)
	if symrefError != nil {
		return "", symrefError
	}
	for _, outputLine := range splitOutputLines(symrefOutput) {
		if !strings.HasPrefix(outputLine, symrefOutputPrefixConstant) {
			continue
		}
		lineFields := strings.Fields(outputLine)
		if len(lineFields) < 2 {
			continue
		}
		return strings.TrimPrefix(lineFields[1], branchReferencePrefixConstant), nil
	}
	return "", nil
}

// UpdateRef points the named reference at the revision, creating it when absent.
func (gitEngine *GitEngine) UpdateRef(executionContext context.Context, repositoryPath string, referenceName string, revision string) error {
	_, updateError := gitEngine.run(executionContext, repositoryPath, gitUpdateRefSubcommandConstant, referenceName, revision)
	return updateError
}

// DeleteRef removes the named reference when it exists.
func (gitEngine *GitEngine) DeleteRef(executionContext context.Context, repositoryPath string, referenceName string) error {
	if !gitEngine.CommitExists(executionContext, repositoryPath, referenceName) {
		return nil
	}
	_, deleteError := gitEngine.run(executionContext, repositoryPath, gitUpdateRefSubcommandConstant, updateRefDeleteFlagConstant, referenceName)
	return deleteError
}

// ListRefs enumerates fully qualified reference names beneath the prefix.
func (gitEngine *GitEngine) ListRefs(executionContext context.Context, repositoryPath string, referencePrefix string) ([]string, error) {
	refsOutput, refsError := gitEngine.run(executionContext, repositoryPath, gitForEachRefSubcommandConstant, forEachRefFormatFlagConstant, referencePrefix)
	if refsError != nil {
		return nil, refsError
	}
	return splitOutputLines(refsOutput), nil
}

// CreateBranch points a local branch at the revision, replacing any previous tip.
func (gitEngine *GitEngine) CreateBranch(executionContext context.Context, repositoryPath string, branchName string, revision string) error {
	return gitEngine.UpdateRef(executionContext, repositoryPath, branchReferencePrefixConstant+branchName, revision)
}

// DeleteBranch removes a local branch when it exists.
func (gitEngine *GitEngine) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if !gitEngine.CommitExists(executionContext, repositoryPath, branchReferencePrefixConstant+branchName) {
		return nil
	}
	_, deleteError := gitEngine.run(executionContext, repositoryPath, gitBranchSubcommandConstant, branchForceDeleteFlagConstant, branchName)
	return deleteError
}

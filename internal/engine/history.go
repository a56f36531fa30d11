package engine

import (
	"context"
	"fmt"
	"strings"
)

const (
	gitRevListSubcommandConstant      = "rev-list"
	gitMergeBaseSubcommandConstant    = "merge-base"
	gitCommitTreeSubcommandConstant   = "commit-tree"
	gitLogSubcommandConstant          = "log"
	revListReverseFlagConstant        = "--reverse"
	revListAncestryPathFlagConstant   = "--ancestry-path"
	revListTopoOrderFlagConstant      = "--topo-order"
	mergeBaseIsAncestorFlagConstant   = "--is-ancestor"
	pathspecSeparatorConstant         = "--"
	commitTreeParentFlagConstant      = "-p"
	logFormatFlagTemplateConstant     = "--format=%s"
	commitMetadataFormatConstant      = "%an%x00%ae%x00%ad%x00%cn%x00%ce%x00%cd%x00%B"
	logMaxCountOneFlagConstant        = "-1"
	treeRevisionSuffixConstant        = "^{tree}"
	treePathTemplateConstant          = "%s:%s"
	commitMetadataFieldCountConstant  = 7
	malformedMetadataTemplateConstant = "unexpected commit metadata for %s"

	authorNameEnvironmentKeyConstant     = "GIT_AUTHOR_NAME"
	authorEmailEnvironmentKeyConstant    = "GIT_AUTHOR_EMAIL"
	authorDateEnvironmentKeyConstant     = "GIT_AUTHOR_DATE"
	committerNameEnvironmentKeyConstant  = "GIT_COMMITTER_NAME"
	committerEmailEnvironmentKeyConstant = "GIT_COMMITTER_EMAIL"
	committerDateEnvironmentKeyConstant  = "GIT_COMMITTER_DATE"
)

// RevListOptions controls commit enumeration.
type RevListOptions struct {
	// Range limits enumeration to a revision expression such as a tip or from..to span.
	Range string
	// PathPrefix restricts enumeration to commits touching the prefix.
	PathPrefix string
	// AncestryPath keeps only commits on the ancestry chain of the range endpoints.
	AncestryPath bool
	// OldestFirst reverses the enumeration so ancestors precede descendants.
	OldestFirst bool
}

// CommitIdentity carries the author and committer identity of one commit.
type CommitIdentity struct {
	AuthorName     string
	AuthorEmail    string
	AuthorDate     string
	CommitterName  string
	CommitterEmail string
	CommitterDate  string
	Message        string
}

// EnvironmentOverrides converts the identity into git environment variables for commit creation.
func (identity CommitIdentity) EnvironmentOverrides() map[string]string {
	return map[string]string{
		authorNameEnvironmentKeyConstant:     identity.AuthorName,
		authorEmailEnvironmentKeyConstant:    identity.AuthorEmail,
		authorDateEnvironmentKeyConstant:     identity.AuthorDate,
		committerNameEnvironmentKeyConstant:  identity.CommitterName,
		committerEmailEnvironmentKeyConstant: identity.CommitterEmail,
		committerDateEnvironmentKeyConstant:  identity.CommitterDate,
	}
}

// ListCommits enumerates commits according to the provided options.
func (gitEngine *GitEngine) ListCommits(executionContext context.Context, repositoryPath string, options RevListOptions) ([]string, error) {
	arguments := []string{gitRevListSubcommandConstant, revListTopoOrderFlagConstant}
	if options.OldestFirst {
		arguments = append(arguments, revListReverseFlagConstant)
	}
	if options.AncestryPath {
		arguments = append(arguments, revListAncestryPathFlagConstant)
	}
	arguments = append(arguments, options.Range)
	if len(options.PathPrefix) > 0 {
		arguments = append(arguments, pathspecSeparatorConstant, options.PathPrefix)
	}

	revListOutput, revListError := gitEngine.run(executionContext, repositoryPath, arguments...)
	if revListError != nil {
		return nil, revListError
	}
	return splitOutputLines(revListOutput), nil
}

// IsAncestor reports whether ancestorRevision is an ancestor of descendantRevision.
func (gitEngine *GitEngine) IsAncestor(executionContext context.Context, repositoryPath string, ancestorRevision string, descendantRevision string) (bool, error) {
	_, mergeBaseError := gitEngine.run(executionContext, repositoryPath, gitMergeBaseSubcommandConstant, mergeBaseIsAncestorFlagConstant, ancestorRevision, descendantRevision)
	if mergeBaseError == nil {
		return true, nil
	}
	if failedError, isFailure := AsCommandFailure(mergeBaseError); isFailure && failedError.Result.ExitCode == 1 {
		return false, nil
	}
	return false, mergeBaseError
}

// TreeOfRevision resolves the tree identifier of a revision.
func (gitEngine *GitEngine) TreeOfRevision(executionContext context.Context, repositoryPath string, revision string) (string, error) {
	return gitEngine.ResolveCommit(executionContext, repositoryPath, revision+treeRevisionSuffixConstant)
}

// TreeOfPath resolves the tree identifier of a path prefix within a revision.
//
// An empty identifier with a nil error means the revision does not contain the prefix.
func (gitEngine *GitEngine) TreeOfPath(executionContext context.Context, repositoryPath string, revision string, pathPrefix string) (string, error) {
	treeIdentifier, resolveError := gitEngine.ResolveCommit(executionContext, repositoryPath, fmt.Sprintf(treePathTemplateConstant, revision, strings.TrimSuffix(pathPrefix, "/")+"/"))
	if resolveError != nil {
		if failedError, isFailure := AsCommandFailure(resolveError); isFailure && failedError.Result.ExitCode != 0 {
			return "", nil
		}
		return "", resolveError
	}
	return treeIdentifier, nil
}

// CommitIdentityOf reads the author and committer identity of a commit.
func (gitEngine *GitEngine) CommitIdentityOf(executionContext context.Context, repositoryPath string, revision string) (CommitIdentity, error) {
	metadataOutput, metadataError := gitEngine.run(executionContext, repositoryPath, gitLogSubcommandConstant, logMaxCountOneFlagConstant, fmt.Sprintf(logFormatFlagTemplateConstant, commitMetadataFormatConstant), revision)
	if metadataError != nil {
		return CommitIdentity{}, metadataError
	}

	metadataFields := strings.SplitN(metadataOutput, "\x00", commitMetadataFieldCountConstant)
	if len(metadataFields) != commitMetadataFieldCountConstant {
		return CommitIdentity{}, fmt.Errorf(malformedMetadataTemplateConstant, revision)
	}

	return CommitIdentity{
		AuthorName:     metadataFields[0],
		AuthorEmail:    metadataFields[1],
		AuthorDate:     metadataFields[2],
		CommitterName:  metadataFields[3],
		CommitterEmail: metadataFields[4],
		CommitterDate:  metadataFields[5],
		Message:        strings.TrimSpace(metadataFields[6]),
	}, nil
}

// CreateCommit writes a commit object for the provided tree, parents, and identity.
//
// Carrying the source commit's identity keeps repeated rewrites content
// addressed, so rebuilding an unchanged history yields identical commits.
func (gitEngine *GitEngine) CreateCommit(executionContext context.Context, repositoryPath string, treeIdentifier string, parentRevisions []string, message string, identity CommitIdentity) (string, error) {
	arguments := []string{gitCommitTreeSubcommandConstant, treeIdentifier}
	for _, parentRevision := range parentRevisions {
		arguments = append(arguments, commitTreeParentFlagConstant, parentRevision)
	}
	return gitEngine.runWithInput(executionContext, repositoryPath, []byte(message), identity.EnvironmentOverrides(), arguments...)
}

const (
	gitLsTreeSubcommandConstant = "ls-tree"
	gitMkTreeSubcommandConstant = "mktree"
)

// ListTreeEntries lists the immediate entries of a tree object in ls-tree format.
func (gitEngine *GitEngine) ListTreeEntries(executionContext context.Context, repositoryPath string, treeIdentifier string) ([]string, error) {
	entriesOutput, listError := gitEngine.run(executionContext, repositoryPath, gitLsTreeSubcommandConstant, treeIdentifier)
	if listError != nil {
		return nil, listError
	}
	return splitOutputLines(entriesOutput), nil
}

// MakeTree writes a tree object from ls-tree formatted entry lines and returns its identifier.
func (gitEngine *GitEngine) MakeTree(executionContext context.Context, repositoryPath string, entryLines []string) (string, error) {
	treeInput := ""
	if len(entryLines) > 0 {
		treeInput = strings.Join(entryLines, "\n") + "\n"
	}
	return gitEngine.runWithInput(executionContext, repositoryPath, []byte(treeInput), nil, gitMkTreeSubcommandConstant)
}

package subrepo_test

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/engine"
)

// fakeCommitRecord mirrors the commit metadata the protocols consult.
type fakeCommitRecord struct {
	tree    string
	parents []string
	message string
}

// fakeEngine is an in-memory commit graph standing in for a live repository.
//
// Commit and tree creation is content addressed the way git's object store is,
// so replaying identical inputs lands on identical identifiers.
type fakeEngine struct {
	commits        map[string]fakeCommitRecord
	subtreeTrees   map[string]map[string]string
	treeEntries    map[string][]string
	identities     map[string]engine.CommitIdentity
	history        map[string][]string
	remoteBranches map[string]string
	refs           map[string]string
	branches       map[string]string
	worktreeHeads  map[string]string

	headCommit    string
	headBranch    string
	worktreeClean bool
	defaultBranch string
	mergeConflict bool
	rejectPush    bool

	metadataCommitCount int
	pushedRevisions     []string
	replacedTrees       []string
	stagedCount         int
	commitMessages      []string
	removedWorktrees    []string
	mergeStrategies     []engine.MergeStrategyOption
	rebaseStrategies    []engine.MergeStrategyOption
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		commits:        map[string]fakeCommitRecord{},
		subtreeTrees:   map[string]map[string]string{},
		treeEntries:    map[string][]string{},
		identities:     map[string]engine.CommitIdentity{},
		history:        map[string][]string{},
		remoteBranches: map[string]string{},
		refs:           map[string]string{},
		branches:       map[string]string{},
		worktreeHeads:  map[string]string{},
		headCommit:     "parent-head",
		headBranch:     "main",
		worktreeClean:  true,
		defaultBranch:  "main",
	}
}

func (fake *fakeEngine) seedCommit(identifier string, tree string, parents ...string) {
	fake.commits[identifier] = fakeCommitRecord{tree: tree, parents: parents}
}

func (fake *fakeEngine) seedSubtree(commitIdentifier string, pathPrefix string, treeIdentifier string) {
	if fake.subtreeTrees[commitIdentifier] == nil {
		fake.subtreeTrees[commitIdentifier] = map[string]string{}
	}
	fake.subtreeTrees[commitIdentifier][pathPrefix] = treeIdentifier
}

func (fake *fakeEngine) seedHistory(revisionRange string, pathPrefix string, commitIdentifiers ...string) {
	fake.history[revisionRange+"|"+pathPrefix] = commitIdentifiers
}

func (fake *fakeEngine) seedRemoteBranch(remoteAddress string, branchName string, tip string) {
	fake.remoteBranches[remoteAddress+"|"+branchName] = tip
}

func contentAddress(kind string, parts ...string) string {
	digest := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s-%x", kind, digest[:6])
}

func (fake *fakeEngine) ResolveCommit(_ context.Context, _ string, revision string) (string, error) {
	if _, known := fake.commits[revision]; known {
		return revision, nil
	}
	return "", fmt.Errorf("unknown revision %s", revision)
}

func (fake *fakeEngine) CommitExists(_ context.Context, _ string, revision string) bool {
	_, known := fake.commits[revision]
	return known
}

func (fake *fakeEngine) HeadCommit(_ context.Context, repositoryPath string) (string, error) {
	if worktreeHead, isWorktree := fake.worktreeHeads[repositoryPath]; isWorktree {
		return worktreeHead, nil
	}
	return fake.headCommit, nil
}

func (fake *fakeEngine) HeadBranch(_ context.Context, _ string) (string, error) {
	return fake.headBranch, nil
}

func (fake *fakeEngine) TopLevelDirectory(_ context.Context, repositoryPath string) (string, error) {
	return repositoryPath, nil
}

func (fake *fakeEngine) CommonDirectory(_ context.Context, repositoryPath string) (string, error) {
	return repositoryPath + "/.git", nil
}

func (fake *fakeEngine) IsWorkingTreeClean(_ context.Context, _ string) (bool, error) {
	return fake.worktreeClean, nil
}

func (fake *fakeEngine) ListCommits(_ context.Context, _ string, options engine.RevListOptions) ([]string, error) {
	return fake.history[options.Range+"|"+options.PathPrefix], nil
}

func (fake *fakeEngine) IsAncestor(_ context.Context, _ string, ancestorRevision string, descendantRevision string) (bool, error) {
	if ancestorRevision == descendantRevision {
		return true, nil
	}
	pending := []string{descendantRevision}
	visited := map[string]bool{}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, parent := range fake.commits[current].parents {
			if parent == ancestorRevision {
				return true, nil
			}
			pending = append(pending, parent)
		}
	}
	return false, nil
}

func (fake *fakeEngine) TreeOfRevision(_ context.Context, _ string, revision string) (string, error) {
	commitRecord, known := fake.commits[revision]
	if !known {
		return "", fmt.Errorf("unknown revision %s", revision)
	}
	return commitRecord.tree, nil
}

func (fake *fakeEngine) TreeOfPath(_ context.Context, _ string, revision string, pathPrefix string) (string, error) {
	return fake.subtreeTrees[revision][pathPrefix], nil
}

func (fake *fakeEngine) CommitIdentityOf(_ context.Context, _ string, revision string) (engine.CommitIdentity, error) {
	if identity, seeded := fake.identities[revision]; seeded {
		return identity, nil
	}
	return engine.CommitIdentity{
		AuthorName:     "Fake Author",
		AuthorEmail:    "author@example.com",
		AuthorDate:     "2024-05-01T10:00:00+00:00",
		CommitterName:  "Fake Committer",
		CommitterEmail: "committer@example.com",
		CommitterDate:  "2024-05-01T10:00:00+00:00",
		Message:        "change " + revision,
	}, nil
}

func (fake *fakeEngine) CreateCommit(_ context.Context, _ string, treeIdentifier string, parentRevisions []string, message string, _ engine.CommitIdentity) (string, error) {
	identifier := contentAddress("commit", append([]string{treeIdentifier, message}, parentRevisions...)...)
	fake.commits[identifier] = fakeCommitRecord{tree: treeIdentifier, parents: parentRevisions, message: message}
	return identifier, nil
}

func (fake *fakeEngine) ListTreeEntries(_ context.Context, _ string, treeIdentifier string) ([]string, error) {
	if entries, seeded := fake.treeEntries[treeIdentifier]; seeded {
		return entries, nil
	}
	return []string{"100644 blob " + treeIdentifier + "\tcontent.txt"}, nil
}

func (fake *fakeEngine) MakeTree(_ context.Context, _ string, entryLines []string) (string, error) {
	for existingTree, existingEntries := range fake.treeEntries {
		if equalStringSlices(existingEntries, entryLines) {
			return existingTree, nil
		}
	}
	identifier := contentAddress("tree", entryLines...)
	fake.treeEntries[identifier] = append([]string(nil), entryLines...)
	return identifier, nil
}

func (fake *fakeEngine) Fetch(_ context.Context, _ string, remoteAddress string, referenceName string) (string, error) {
	tip, exists := fake.remoteBranches[remoteAddress+"|"+referenceName]
	if !exists {
		return "", fmt.Errorf("%w: %s", engine.ErrRemoteRefMissing, referenceName)
	}
	return tip, nil
}

func (fake *fakeEngine) Push(_ context.Context, _ string, remoteAddress string, localRevision string, remoteBranch string, force bool) error {
	if fake.rejectPush && !force {
		return fmt.Errorf("%w: %s", engine.ErrNonFastForward, remoteBranch)
	}
	fake.remoteBranches[remoteAddress+"|"+remoteBranch] = localRevision
	fake.pushedRevisions = append(fake.pushedRevisions, localRevision)
	return nil
}

func (fake *fakeEngine) RemoteDefaultBranch(_ context.Context, _ string, _ string) (string, error) {
	return fake.defaultBranch, nil
}

func (fake *fakeEngine) UpdateRef(_ context.Context, _ string, referenceName string, revision string) error {
	fake.refs[referenceName] = revision
	return nil
}

func (fake *fakeEngine) DeleteRef(_ context.Context, _ string, referenceName string) error {
	delete(fake.refs, referenceName)
	return nil
}

func (fake *fakeEngine) ListRefs(_ context.Context, _ string, referencePrefix string) ([]string, error) {
	var matching []string
	for referenceName := range fake.refs {
		if strings.HasPrefix(referenceName, referencePrefix) {
			matching = append(matching, referenceName)
		}
	}
	return matching, nil
}

func (fake *fakeEngine) CreateBranch(_ context.Context, _ string, branchName string, revision string) error {
	fake.branches[branchName] = revision
	return nil
}

func (fake *fakeEngine) DeleteBranch(_ context.Context, _ string, branchName string) error {
	delete(fake.branches, branchName)
	return nil
}

func (fake *fakeEngine) AddWorktree(_ context.Context, _ string, worktreePath string, revision string) error {
	fake.worktreeHeads[worktreePath] = revision
	return nil
}

func (fake *fakeEngine) RemoveWorktree(_ context.Context, _ string, worktreePath string) error {
	delete(fake.worktreeHeads, worktreePath)
	fake.removedWorktrees = append(fake.removedWorktrees, worktreePath)
	return nil
}

func (fake *fakeEngine) ReplaceSubtree(_ context.Context, _ string, pathPrefix string, treeIdentifier string) error {
	fake.replacedTrees = append(fake.replacedTrees, pathPrefix+"="+treeIdentifier)
	return nil
}

func (fake *fakeEngine) StageAll(_ context.Context, _ string) error {
	fake.stagedCount++
	return nil
}

func (fake *fakeEngine) CommitStaged(_ context.Context, _ string, message string) error {
	fake.metadataCommitCount++
	newHead := fmt.Sprintf("meta-%d", fake.metadataCommitCount)
	fake.commits[newHead] = fakeCommitRecord{tree: "tree-" + newHead, parents: []string{fake.headCommit}, message: message}
	fake.headCommit = newHead
	fake.commitMessages = append(fake.commitMessages, message)
	return nil
}

func (fake *fakeEngine) Merge(_ context.Context, repositoryPath string, revision string, strategyOption engine.MergeStrategyOption) error {
	fake.mergeStrategies = append(fake.mergeStrategies, strategyOption)
	return fake.reconcileInWorktree(repositoryPath, revision)
}

func (fake *fakeEngine) Rebase(_ context.Context, repositoryPath string, revision string, strategyOption engine.MergeStrategyOption) error {
	fake.rebaseStrategies = append(fake.rebaseStrategies, strategyOption)
	return fake.reconcileInWorktree(repositoryPath, revision)
}

func (fake *fakeEngine) reconcileInWorktree(worktreePath string, revision string) error {
	if fake.mergeConflict {
		return fmt.Errorf("%w: %s", engine.ErrMergeConflict, revision)
	}
	baseRevision := fake.worktreeHeads[worktreePath]
	mergedIdentifier := contentAddress("merge", baseRevision, revision)
	fake.commits[mergedIdentifier] = fakeCommitRecord{tree: "tree-" + mergedIdentifier, parents: []string{baseRevision, revision}}
	fake.worktreeHeads[worktreePath] = mergedIdentifier
	return nil
}

func equalStringSlices(left []string, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	for index := range left {
		if left[index] != right[index] {
			return false
		}
	}
	return true
}

package subrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/thorsten-klein/git-subrepo/internal/engine"
	"github.com/thorsten-klein/git-subrepo/internal/execshell"
	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

// Engine exposes the commit-graph operations the synchronization protocols require.
//
// Modeling the collaborator as a narrow interface keeps the protocols testable
// against an in-memory implementation instead of a live repository.
type Engine interface {
	ResolveCommit(executionContext context.Context, repositoryPath string, revision string) (string, error)
	CommitExists(executionContext context.Context, repositoryPath string, revision string) bool
	HeadCommit(executionContext context.Context, repositoryPath string) (string, error)
	HeadBranch(executionContext context.Context, repositoryPath string) (string, error)
	TopLevelDirectory(executionContext context.Context, repositoryPath string) (string, error)
	CommonDirectory(executionContext context.Context, repositoryPath string) (string, error)
	IsWorkingTreeClean(executionContext context.Context, repositoryPath string) (bool, error)

	ListCommits(executionContext context.Context, repositoryPath string, options engine.RevListOptions) ([]string, error)
	IsAncestor(executionContext context.Context, repositoryPath string, ancestorRevision string, descendantRevision string) (bool, error)
	TreeOfRevision(executionContext context.Context, repositoryPath string, revision string) (string, error)
	TreeOfPath(executionContext context.Context, repositoryPath string, revision string, pathPrefix string) (string, error)
	CommitIdentityOf(executionContext context.Context, repositoryPath string, revision string) (engine.CommitIdentity, error)
	CreateCommit(executionContext context.Context, repositoryPath string, treeIdentifier string, parentRevisions []string, message string, identity engine.CommitIdentity) (string, error)
	ListTreeEntries(executionContext context.Context, repositoryPath string, treeIdentifier string) ([]string, error)
	MakeTree(executionContext context.Context, repositoryPath string, entryLines []string) (string, error)

	Fetch(executionContext context.Context, repositoryPath string, remoteAddress string, referenceName string) (string, error)
	Push(executionContext context.Context, repositoryPath string, remoteAddress string, localRevision string, remoteBranch string, force bool) error
	RemoteDefaultBranch(executionContext context.Context, repositoryPath string, remoteAddress string) (string, error)
	UpdateRef(executionContext context.Context, repositoryPath string, referenceName string, revision string) error
	DeleteRef(executionContext context.Context, repositoryPath string, referenceName string) error
	ListRefs(executionContext context.Context, repositoryPath string, referencePrefix string) ([]string, error)
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string, revision string) error
	DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error

	AddWorktree(executionContext context.Context, repositoryPath string, worktreePath string, revision string) error
	RemoveWorktree(executionContext context.Context, repositoryPath string, worktreePath string) error
	ReplaceSubtree(executionContext context.Context, repositoryPath string, pathPrefix string, treeIdentifier string) error
	StageAll(executionContext context.Context, repositoryPath string) error
	CommitStaged(executionContext context.Context, repositoryPath string, message string) error
	Merge(executionContext context.Context, repositoryPath string, revision string, strategyOption engine.MergeStrategyOption) error
	Rebase(executionContext context.Context, repositoryPath string, revision string, strategyOption engine.MergeStrategyOption) error
}

// RecordStore exposes the tracking file operations the protocols require.
type RecordStore interface {
	Load(repositoryRoot string, subdirectory string) (gitrepo.SubrepoRecord, error)
	Save(repositoryRoot string, record gitrepo.SubrepoRecord) error
	Remove(repositoryRoot string, subdirectory string) error
}

// Discoverer enumerates governed subdirectories beneath a repository root.
type Discoverer interface {
	Discover(repositoryRoot string, policy DepthPolicy) ([]DiscoveredSubrepo, error)
}

// ResolveEngine returns the provided engine or constructs a git-backed default.
func ResolveEngine(existing Engine, logger *zap.Logger, observer execshell.CommandEventObserver) (Engine, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	if observer != nil {
		shellExecutor.SetCommandEventObserver(observer)
	}
	return engine.NewGitEngine(shellExecutor)
}

// ResolveRecordStore returns the provided store or the filesystem-backed default.
func ResolveRecordStore(existing RecordStore) RecordStore {
	if existing != nil {
		return existing
	}
	return gitrepo.NewMetadataStore()
}

// ResolveDiscoverer returns the provided discoverer or the filesystem-backed default.
func ResolveDiscoverer(existing Discoverer, store RecordStore) Discoverer {
	if existing != nil {
		return existing
	}
	return NewFilesystemDiscoverer(store)
}

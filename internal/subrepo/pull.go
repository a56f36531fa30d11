package subrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/engine"
	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

const (
	pullCommitMessageTemplateConstant  = "git subrepo pull %s"
	cloneCommitMessageTemplateConstant = "git subrepo clone %s into %s"
	unsupportedPolicyMessageTemplate   = "unsupported conflict resolution policy %q"
)

// ResolutionPolicy selects how overlapping edits are reconciled during a pull.
type ResolutionPolicy string

// Supported conflict resolution policies.
const (
	// ResolutionPolicyAuto performs a plain merge or rebase and surfaces conflicts.
	ResolutionPolicyAuto ResolutionPolicy = "auto"
	// ResolutionPolicyOurs keeps the local side of every conflicting hunk.
	ResolutionPolicyOurs ResolutionPolicy = "ours"
	// ResolutionPolicyTheirs keeps the upstream side of every conflicting hunk.
	ResolutionPolicyTheirs ResolutionPolicy = "theirs"
)

// StrategyOption maps the policy onto the git merge strategy option it implies.
func (policy ResolutionPolicy) StrategyOption() (engine.MergeStrategyOption, error) {
	switch policy {
	case ResolutionPolicyAuto, ResolutionPolicy(""):
		return engine.MergeStrategyOptionNone, nil
	case ResolutionPolicyOurs:
		return engine.MergeStrategyOptionOurs, nil
	case ResolutionPolicyTheirs:
		return engine.MergeStrategyOptionTheirs, nil
	default:
		return engine.MergeStrategyOptionNone, fmt.Errorf(unsupportedPolicyMessageTemplate, string(policy))
	}
}

// PullOptions controls one pull protocol run.
type PullOptions struct {
	// Remote overrides the recorded upstream repository for this run.
	Remote string
	// Branch overrides the recorded upstream branch for this run.
	Branch string
	// UpdateRecord persists Remote and Branch overrides into the tracking file.
	UpdateRecord bool
	// Force integrates the upstream tip even when it matches the recorded commit.
	Force bool
	// Method overrides the recorded reconciliation method for this run.
	Method gitrepo.ReconcileMethod
	// Policy selects the conflict resolution behavior.
	Policy ResolutionPolicy
	// Message overrides the generated integration commit message.
	Message string
}

// PullResult describes a completed pull.
type PullResult struct {
	// Tip is the upstream commit the subtree now reflects.
	Tip string
	// Record is the updated tracking record as persisted.
	Record gitrepo.SubrepoRecord
}

// PullEngine integrates upstream changes into a record's subtree.
type PullEngine struct {
	engine  Engine
	store   RecordStore
	builder *BranchBuilder
}

// NewPullEngine constructs a PullEngine around the provided collaborators.
func NewPullEngine(pullEngine Engine, store RecordStore) *PullEngine {
	resolvedStore := ResolveRecordStore(store)
	return &PullEngine{engine: pullEngine, store: resolvedStore, builder: NewBranchBuilder(pullEngine)}
}

// Pull runs the inbound synchronization protocol for one record.
//
// A conflict or any other failure leaves the tracking record untouched; the
// record update lands inside the integration commit as the final step.
func (pullEngine *PullEngine) Pull(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, options PullOptions) (PullResult, error) {
	recordedRemote, recordedBranch := record.RemoteURL, record.RemoteBranch
	record = applyUpstreamOverrides(record, options.Remote, options.Branch)
	if !record.HasRemote() {
		return PullResult{}, WrapOperationError(record.Subdirectory, fmt.Errorf(noRemoteBuildErrorTemplateConstant, record.Subdirectory))
	}

	strategyOption, policyError := options.Policy.StrategyOption()
	if policyError != nil {
		return PullResult{}, WrapOperationError(record.Subdirectory, policyError)
	}

	defer func() {
		_ = CleanupRefs(executionContext, pullEngine.engine, repositoryRoot, record.Subdirectory)
	}()

	remoteBuild, remoteBuildError := pullEngine.builder.Build(executionContext, repositoryRoot, record, BuildSourceRemote)
	if remoteBuildError != nil {
		return PullResult{}, WrapOperationError(record.Subdirectory, remoteBuildError)
	}
	if !options.Force && remoteBuild.Tip == record.UpstreamCommit {
		return PullResult{}, WrapOperationError(record.Subdirectory, ErrNoChanges)
	}

	localBuild, localBuildError := pullEngine.builder.Build(executionContext, repositoryRoot, record, BuildSourceLocal)
	if localBuildError != nil {
		return PullResult{}, WrapOperationError(record.Subdirectory, localBuildError)
	}

	integratedTip := remoteBuild.Tip
	if !options.Force && pullEngine.requiresReconciliation(executionContext, repositoryRoot, localBuild.Tip, remoteBuild.Tip) {
		reconciliationMethod := record.Method
		if len(options.Method) > 0 {
			reconciliationMethod = options.Method
		}
		reconciledTip, reconcileError := pullEngine.reconcile(executionContext, repositoryRoot, record, reconciliationMethod, localBuild.Tip, remoteBuild.Tip, strategyOption)
		if reconcileError != nil {
			return PullResult{}, WrapOperationError(record.Subdirectory, reconcileError)
		}
		integratedTip = reconciledTip
	}

	commitMessage := strings.TrimSpace(options.Message)
	if len(commitMessage) == 0 {
		commitMessage = fmt.Sprintf(pullCommitMessageTemplateConstant, record.Subdirectory)
	}

	if !options.UpdateRecord {
		record.RemoteURL, record.RemoteBranch = recordedRemote, recordedBranch
	}
	record.UpstreamCommit = remoteBuild.Tip
	updatedRecord, integrateError := pullEngine.integrate(executionContext, repositoryRoot, record, integratedTip, commitMessage)
	if integrateError != nil {
		return PullResult{}, WrapOperationError(record.Subdirectory, integrateError)
	}
	return PullResult{Tip: remoteBuild.Tip, Record: updatedRecord}, nil
}

// requiresReconciliation reports whether local subtree history diverged from upstream.
func (pullEngine *PullEngine) requiresReconciliation(executionContext context.Context, repositoryRoot string, localTip string, remoteTip string) bool {
	if len(localTip) == 0 || localTip == remoteTip {
		return false
	}
	ancestor, ancestorError := pullEngine.engine.IsAncestor(executionContext, repositoryRoot, localTip, remoteTip)
	if ancestorError != nil {
		return true
	}
	return !ancestor
}

// invertStrategySides flips the ours and theirs strategy options so the
// caller-facing policy always names the local side.
func invertStrategySides(strategyOption engine.MergeStrategyOption) engine.MergeStrategyOption {
	switch strategyOption {
	case engine.MergeStrategyOptionOurs:
		return engine.MergeStrategyOptionTheirs
	case engine.MergeStrategyOptionTheirs:
		return engine.MergeStrategyOptionOurs
	default:
		return strategyOption
	}
}

// reconcile combines diverged local and upstream subtree histories in a
// throwaway worktree using the record's reconciliation method.
func (pullEngine *PullEngine) reconcile(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, reconciliationMethod gitrepo.ReconcileMethod, localTip string, remoteTip string, strategyOption engine.MergeStrategyOption) (string, error) {
	commonDirectory, commonDirectoryError := pullEngine.engine.CommonDirectory(executionContext, repositoryRoot)
	if commonDirectoryError != nil {
		return "", commonDirectoryError
	}

	namespace := NewRefNamespace(record.Subdirectory)
	worktreePath := namespace.WorktreePath(commonDirectory)
	if addError := pullEngine.engine.AddWorktree(executionContext, repositoryRoot, worktreePath, localTip); addError != nil {
		return "", addError
	}
	defer func() {
		_ = pullEngine.engine.RemoveWorktree(executionContext, repositoryRoot, worktreePath)
	}()

	var reconcileError error
	switch reconciliationMethod {
	case gitrepo.ReconcileMethodRebase:
		// During a rebase git swaps sides: "ours" names the branch being
		// rebased onto, which is the upstream tip here.
		reconcileError = pullEngine.engine.Rebase(executionContext, worktreePath, remoteTip, invertStrategySides(strategyOption))
	default:
		reconcileError = pullEngine.engine.Merge(executionContext, worktreePath, remoteTip, strategyOption)
	}
	if reconcileError != nil {
		return "", reconcileError
	}
	return pullEngine.engine.HeadCommit(executionContext, worktreePath)
}

// integrate replaces the governed subtree with the integrated content and
// commits it together with the refreshed tracking record.
func (pullEngine *PullEngine) integrate(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, integratedTip string, commitMessage string) (gitrepo.SubrepoRecord, error) {
	integratedTree, treeError := pullEngine.engine.TreeOfRevision(executionContext, repositoryRoot, integratedTip)
	if treeError != nil {
		return gitrepo.SubrepoRecord{}, treeError
	}
	if replaceError := pullEngine.engine.ReplaceSubtree(executionContext, repositoryRoot, record.Subdirectory, integratedTree); replaceError != nil {
		return gitrepo.SubrepoRecord{}, replaceError
	}

	// The integration commit is about to be created on top of the current
	// HEAD, so that commit is the record's new parent.
	headCommit, headError := pullEngine.engine.HeadCommit(executionContext, repositoryRoot)
	if headError != nil {
		return gitrepo.SubrepoRecord{}, headError
	}
	record.ParentCommit = headCommit
	if saveError := pullEngine.store.Save(repositoryRoot, record); saveError != nil {
		return gitrepo.SubrepoRecord{}, saveError
	}
	// Pin the new upstream commit so the fetched objects stay reachable after
	// the scratch refs are cleaned.
	namespace := NewRefNamespace(record.Subdirectory)
	if pinError := pullEngine.engine.UpdateRef(executionContext, repositoryRoot, namespace.CommitRef(), record.UpstreamCommit); pinError != nil {
		return gitrepo.SubrepoRecord{}, pinError
	}
	if stageError := pullEngine.engine.StageAll(executionContext, repositoryRoot); stageError != nil {
		return gitrepo.SubrepoRecord{}, stageError
	}
	if commitError := pullEngine.engine.CommitStaged(executionContext, repositoryRoot, commitMessage); commitError != nil {
		return gitrepo.SubrepoRecord{}, commitError
	}
	return record, nil
}

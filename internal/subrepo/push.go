package subrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/engine"
	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

const (
	squashMessageTemplateConstant     = "git subrepo push %s (squashed)"
	pushCommitMessageTemplateConstant = "git subrepo push %s"
	pushStaleUpstreamMessageTemplate  = "upstream %s moved since the last sync, pull first"
)

// PushOptions controls one push protocol run.
type PushOptions struct {
	// Force overwrites the upstream branch even when the push is not a fast-forward.
	Force bool
	// Squash collapses the local subtree history into one commit before uploading.
	Squash bool
	// Message overrides the generated squash commit message.
	Message string
	// Remote overrides the recorded upstream repository for this run.
	Remote string
	// Branch overrides the recorded upstream branch for this run.
	Branch string
	// UpdateRecord persists Remote and Branch overrides into the tracking file.
	UpdateRecord bool
}

// PushResult describes a completed push.
type PushResult struct {
	// Tip is the upstream branch tip after the push.
	Tip string
	// Record is the updated tracking record as persisted.
	Record gitrepo.SubrepoRecord
}

// PushEngine uploads local subtree changes to a record's upstream repository.
type PushEngine struct {
	engine  Engine
	store   RecordStore
	builder *BranchBuilder
}

// NewPushEngine constructs a PushEngine around the provided collaborators.
func NewPushEngine(pushEngine Engine, store RecordStore) *PushEngine {
	resolvedStore := ResolveRecordStore(store)
	return &PushEngine{engine: pushEngine, store: resolvedStore, builder: NewBranchBuilder(pushEngine)}
}

// Push runs the outbound synchronization protocol for one record.
//
// Any failure leaves the tracking record untouched; the record update is the
// final step and only runs after the upstream accepted the new tip.
func (pushEngine *PushEngine) Push(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, options PushOptions) (PushResult, error) {
	recordedRemote, recordedBranch := record.RemoteURL, record.RemoteBranch
	record = applyUpstreamOverrides(record, options.Remote, options.Branch)
	if !record.HasRemote() {
		return PushResult{}, WrapOperationError(record.Subdirectory, fmt.Errorf(noRemoteBuildErrorTemplateConstant, record.Subdirectory))
	}

	namespace := NewRefNamespace(record.Subdirectory)
	defer func() {
		_ = CleanupRefs(executionContext, pushEngine.engine, repositoryRoot, record.Subdirectory)
	}()

	localBuild, buildError := pushEngine.builder.Build(executionContext, repositoryRoot, record, BuildSourceLocal)
	if buildError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, buildError)
	}
	if len(localBuild.Tip) == 0 || (!options.Force && localBuild.Tip == record.UpstreamCommit) {
		return PushResult{}, WrapOperationError(record.Subdirectory, ErrNoChanges)
	}

	remoteTip, remoteBranchExists, fetchError := pushEngine.fetchUpstreamTip(executionContext, repositoryRoot, record)
	if fetchError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, fetchError)
	}
	if remoteBranchExists && !options.Force && len(record.UpstreamCommit) > 0 && remoteTip != record.UpstreamCommit {
		return PushResult{}, WrapOperationError(record.Subdirectory, fmt.Errorf("%w: %s", engine.ErrNonFastForward, fmt.Sprintf(pushStaleUpstreamMessageTemplate, record.RemoteBranch)))
	}

	outboundTip := localBuild.Tip
	if options.Squash {
		squashedTip, squashError := pushEngine.squashTip(executionContext, repositoryRoot, record, localBuild.Tip, remoteTip, options.Message)
		if squashError != nil {
			return PushResult{}, WrapOperationError(record.Subdirectory, squashError)
		}
		outboundTip = squashedTip
	}
	if pinError := pushEngine.engine.UpdateRef(executionContext, repositoryRoot, namespace.PushRef(), outboundTip); pinError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, pinError)
	}

	if pushError := pushEngine.engine.Push(executionContext, repositoryRoot, record.RemoteURL, outboundTip, record.RemoteBranch, options.Force); pushError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, pushError)
	}

	headCommit, headError := pushEngine.engine.HeadCommit(executionContext, repositoryRoot)
	if headError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, headError)
	}

	if !options.UpdateRecord {
		record.RemoteURL, record.RemoteBranch = recordedRemote, recordedBranch
	}
	record.UpstreamCommit = outboundTip
	record.ParentCommit = headCommit
	if saveError := pushEngine.store.Save(repositoryRoot, record); saveError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, saveError)
	}
	// Pin the accepted tip so its objects stay reachable after the scratch
	// refs are cleaned.
	if pinError := pushEngine.engine.UpdateRef(executionContext, repositoryRoot, namespace.CommitRef(), outboundTip); pinError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, pinError)
	}
	if stageError := pushEngine.engine.StageAll(executionContext, repositoryRoot); stageError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, stageError)
	}
	if commitError := pushEngine.engine.CommitStaged(executionContext, repositoryRoot, fmt.Sprintf(pushCommitMessageTemplateConstant, record.Subdirectory)); commitError != nil {
		return PushResult{}, WrapOperationError(record.Subdirectory, commitError)
	}
	return PushResult{Tip: outboundTip, Record: record}, nil
}

func (pushEngine *PushEngine) fetchUpstreamTip(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord) (string, bool, error) {
	fetchedTip, fetchError := pushEngine.engine.Fetch(executionContext, repositoryRoot, record.RemoteURL, record.RemoteBranch)
	if fetchError != nil {
		if ClassifyError(fetchError) == ErrorKindNotFound {
			// The upstream branch does not exist yet; the push will create it.
			return "", false, nil
		}
		return "", false, fetchError
	}
	return fetchedTip, true, nil
}

func (pushEngine *PushEngine) squashTip(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, localTip string, remoteTip string, message string) (string, error) {
	localTree, treeError := pushEngine.engine.TreeOfRevision(executionContext, repositoryRoot, localTip)
	if treeError != nil {
		return "", treeError
	}

	identity, identityError := pushEngine.engine.CommitIdentityOf(executionContext, repositoryRoot, localTip)
	if identityError != nil {
		return "", identityError
	}

	squashMessage := strings.TrimSpace(message)
	if len(squashMessage) == 0 {
		squashMessage = fmt.Sprintf(squashMessageTemplateConstant, record.Subdirectory)
	}

	var parentRevisions []string
	if len(remoteTip) > 0 {
		parentRevisions = append(parentRevisions, remoteTip)
	}
	return pushEngine.engine.CreateCommit(executionContext, repositoryRoot, localTree, parentRevisions, squashMessage, identity)
}

func applyUpstreamOverrides(record gitrepo.SubrepoRecord, remoteOverride string, branchOverride string) gitrepo.SubrepoRecord {
	trimmedRemote := strings.TrimSpace(remoteOverride)
	if len(trimmedRemote) > 0 {
		record.RemoteURL = trimmedRemote
	}
	trimmedBranch := strings.TrimSpace(branchOverride)
	if len(trimmedBranch) > 0 {
		record.RemoteBranch = trimmedBranch
	}
	return record
}

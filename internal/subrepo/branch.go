package subrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

const (
	headRevisionNameConstant           = "HEAD"
	revisionRangeTemplateConstant      = "%s..%s"
	noRemoteBuildErrorTemplateConstant = "record %s tracks no upstream repository"
)

// BuildSource selects which history a branch build materializes.
type BuildSource string

// Supported build sources.
const (
	// BuildSourceRemote materializes the fetched upstream branch tip.
	BuildSourceRemote BuildSource = "remote"
	// BuildSourceLocal materializes the parent repository's subtree history.
	BuildSourceLocal BuildSource = "local"
)

// BuildResult describes a materialized branch.
type BuildResult struct {
	// Ref is the reference pointing at the built tip.
	Ref string
	// Tip is the commit the reference points at; empty when the source history is empty.
	Tip string
}

// BranchBuilder materializes subtree histories as branch references.
//
// Builds are idempotent: rebuilding with unchanged inputs reuses the carried
// commit identities, so content-addressed commit creation lands on the same
// commit every time instead of minting spurious new ones.
type BranchBuilder struct {
	engine Engine
}

// NewBranchBuilder constructs a BranchBuilder around the provided engine.
func NewBranchBuilder(buildEngine Engine) *BranchBuilder {
	return &BranchBuilder{engine: buildEngine}
}

// Build materializes the requested source history for the record and pins it in the record's ref namespace.
func (builder *BranchBuilder) Build(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, source BuildSource) (BuildResult, error) {
	if source == BuildSourceRemote {
		return builder.buildRemote(executionContext, repositoryRoot, record)
	}
	return builder.buildLocal(executionContext, repositoryRoot, record)
}

// buildRemote fetches the tracked upstream branch and pins its tip.
//
// Upstream history is already scoped to the child repository, so no subtree
// extraction is required.
func (builder *BranchBuilder) buildRemote(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord) (BuildResult, error) {
	if !record.HasRemote() {
		return BuildResult{}, fmt.Errorf(noRemoteBuildErrorTemplateConstant, record.Subdirectory)
	}

	namespace := NewRefNamespace(record.Subdirectory)
	fetchedTip, fetchError := builder.engine.Fetch(executionContext, repositoryRoot, record.RemoteURL, record.RemoteBranch)
	if fetchError != nil {
		return BuildResult{}, fetchError
	}
	if updateError := builder.engine.UpdateRef(executionContext, repositoryRoot, namespace.FetchRef(), fetchedTip); updateError != nil {
		return BuildResult{}, updateError
	}
	return BuildResult{Ref: namespace.FetchRef(), Tip: fetchedTip}, nil
}

// buildLocal replays the parent repository's subtree history into a scoped content branch.
func (builder *BranchBuilder) buildLocal(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord) (BuildResult, error) {
	namespace := NewRefNamespace(record.Subdirectory)

	baseCommit := strings.TrimSpace(record.UpstreamCommit)
	if len(baseCommit) > 0 && !builder.engine.CommitExists(executionContext, repositoryRoot, baseCommit) {
		// The recorded upstream commit is only usable when its object was fetched.
		baseCommit = ""
	}

	revisionRange := headRevisionNameConstant
	if len(strings.TrimSpace(record.ParentCommit)) > 0 && builder.engine.CommitExists(executionContext, repositoryRoot, record.ParentCommit) {
		revisionRange = fmt.Sprintf(revisionRangeTemplateConstant, record.ParentCommit, headRevisionNameConstant)
	}

	currentTip := baseCommit
	iterator := NewSubtreeHistoryIterator(builder.engine, repositoryRoot, revisionRange, record.Subdirectory)
	for iterator.Next(executionContext) {
		pair := iterator.Pair()

		if len(currentTip) > 0 {
			tipTree, tipTreeError := builder.engine.TreeOfRevision(executionContext, repositoryRoot, currentTip)
			if tipTreeError != nil {
				return BuildResult{}, tipTreeError
			}
			if tipTree == pair.Tree {
				// The subtree content did not change; skip the commit to keep
				// rebuilt history free of empty commits.
				continue
			}
		}

		identity, identityError := builder.engine.CommitIdentityOf(executionContext, repositoryRoot, pair.Commit)
		if identityError != nil {
			return BuildResult{}, identityError
		}

		var parentRevisions []string
		if len(currentTip) > 0 {
			parentRevisions = append(parentRevisions, currentTip)
		}
		rebuiltCommit, createError := builder.engine.CreateCommit(executionContext, repositoryRoot, pair.Tree, parentRevisions, identity.Message, identity)
		if createError != nil {
			return BuildResult{}, createError
		}
		currentTip = rebuiltCommit
	}
	if iterationError := iterator.Err(); iterationError != nil {
		return BuildResult{}, iterationError
	}

	if len(currentTip) == 0 {
		return BuildResult{Ref: namespace.BranchRef()}, nil
	}
	if updateError := builder.engine.UpdateRef(executionContext, repositoryRoot, namespace.BranchRef(), currentTip); updateError != nil {
		return BuildResult{}, updateError
	}
	return BuildResult{Ref: namespace.BranchRef(), Tip: currentTip}, nil
}

// MaterializeWorkingBranch points the checkout-able working branch at the built tip.
func (builder *BranchBuilder) MaterializeWorkingBranch(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, tip string) (string, error) {
	namespace := NewRefNamespace(record.Subdirectory)
	if createError := builder.engine.CreateBranch(executionContext, repositoryRoot, namespace.WorkingBranch(), tip); createError != nil {
		return "", createError
	}
	return namespace.WorkingBranch(), nil
}

// CleanupRefs removes the scratch references the record's operations created.
//
// The upstream pin survives cleanup so the recorded commit stays reachable
// between synchronizations.
func CleanupRefs(executionContext context.Context, cleanupEngine Engine, repositoryRoot string, subdirectory string) error {
	return cleanupNamespaceRefs(executionContext, cleanupEngine, repositoryRoot, subdirectory, true)
}

// RemoveAllRefs removes every reference in the record's namespace, the upstream pin included.
func RemoveAllRefs(executionContext context.Context, cleanupEngine Engine, repositoryRoot string, subdirectory string) error {
	return cleanupNamespaceRefs(executionContext, cleanupEngine, repositoryRoot, subdirectory, false)
}

func cleanupNamespaceRefs(executionContext context.Context, cleanupEngine Engine, repositoryRoot string, subdirectory string, preservePin bool) error {
	namespace := NewRefNamespace(subdirectory)
	listedRefs, listError := cleanupEngine.ListRefs(executionContext, repositoryRoot, namespace.Prefix())
	if listError != nil {
		return listError
	}
	for _, referenceName := range listedRefs {
		if preservePin && referenceName == namespace.CommitRef() {
			continue
		}
		if deleteError := cleanupEngine.DeleteRef(executionContext, repositoryRoot, referenceName); deleteError != nil {
			return deleteError
		}
	}
	return nil
}

package subrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
	"github.com/thorsten-klein/git-subrepo/internal/subrepo"
)

const (
	pushTestSubdirectoryConstant = "widgets"
	pushTestRemoteConstant       = "https://example.com/widgets.git"
	pushTestBranchConstant       = "main"
	pushTestRemoteKeyConstant    = pushTestRemoteConstant + "|" + pushTestBranchConstant
)

func buildPushTestRecord() gitrepo.SubrepoRecord {
	return gitrepo.SubrepoRecord{
		Subdirectory: pushTestSubdirectoryConstant,
		RemoteURL:    pushTestRemoteConstant,
		RemoteBranch: pushTestBranchConstant,
		Method:       gitrepo.ReconcileMethodMerge,
		ToolVersion:  subrepo.ToolVersion,
	}
}

func preparePushRepository(testInstance *testing.T, record gitrepo.SubrepoRecord) (string, gitrepo.MetadataStore) {
	testInstance.Helper()

	repositoryRoot := testInstance.TempDir()
	metadataStore := gitrepo.NewMetadataStore()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(repositoryRoot, pushTestSubdirectoryConstant), 0o755))
	require.NoError(testInstance, metadataStore.Save(repositoryRoot, record))
	return repositoryRoot, metadataStore
}

func seedLocalSubtreeHistory(fake *fakeEngine) {
	fake.headCommit = "p2"
	fake.seedCommit("p1", "parent-tree-1")
	fake.seedCommit("p2", "parent-tree-2", "p1")
	fake.seedHistory("HEAD", pushTestSubdirectoryConstant, "p1", "p2")
	fake.seedSubtree("p1", pushTestSubdirectoryConstant, "tree-one")
	fake.seedSubtree("p2", pushTestSubdirectoryConstant, "tree-two")
	fake.treeEntries["tree-one"] = []string{"100644 blob aaaa\tcontent.txt"}
	fake.treeEntries["tree-two"] = []string{"100644 blob bbbb\tcontent.txt"}
}

func TestPushCreatesUpstreamBranch(testInstance *testing.T) {
	repositoryRoot, metadataStore := preparePushRepository(testInstance, buildPushTestRecord())
	fake := newFakeEngine()
	seedLocalSubtreeHistory(fake)

	pushEngine := subrepo.NewPushEngine(fake, metadataStore)
	pushResult, pushError := pushEngine.Push(context.Background(), repositoryRoot, buildPushTestRecord(), subrepo.PushOptions{})
	require.NoError(testInstance, pushError)
	require.NotEmpty(testInstance, pushResult.Tip)
	require.Equal(testInstance, pushResult.Tip, fake.remoteBranches[pushTestRemoteKeyConstant])

	updatedRecord, loadError := metadataStore.Load(repositoryRoot, pushTestSubdirectoryConstant)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, pushResult.Tip, updatedRecord.UpstreamCommit)
	require.Equal(testInstance, "p2", updatedRecord.ParentCommit)
	require.Contains(testInstance, fake.commitMessages, "git subrepo push "+pushTestSubdirectoryConstant)
	// Scratch refs are cleaned up while the upstream pin survives.
	pinRef := subrepo.NewRefNamespace(pushTestSubdirectoryConstant).CommitRef()
	require.Equal(testInstance, map[string]string{pinRef: pushResult.Tip}, fake.refs)
}

func TestPushSecondRunReportsNothingToDo(testInstance *testing.T) {
	repositoryRoot, metadataStore := preparePushRepository(testInstance, buildPushTestRecord())
	fake := newFakeEngine()
	seedLocalSubtreeHistory(fake)

	pushEngine := subrepo.NewPushEngine(fake, metadataStore)
	firstResult, firstError := pushEngine.Push(context.Background(), repositoryRoot, buildPushTestRecord(), subrepo.PushOptions{})
	require.NoError(testInstance, firstError)

	recordPath := metadataStore.RecordFilePath(repositoryRoot, pushTestSubdirectoryConstant)
	recordBeforeRetry, readError := os.ReadFile(recordPath)
	require.NoError(testInstance, readError)

	// The metadata commit touches only the tracking file, so its stripped
	// subtree tree is identical to the pushed tip's tree.
	fake.seedHistory("p2..HEAD", pushTestSubdirectoryConstant, "meta-1")
	fake.seedSubtree("meta-1", pushTestSubdirectoryConstant, "tree-two-with-record")
	fake.treeEntries["tree-two-with-record"] = []string{"100644 blob bbbb\tcontent.txt", "100644 blob rrrr\t.gitrepo"}

	retryRecord, loadError := metadataStore.Load(repositoryRoot, pushTestSubdirectoryConstant)
	require.NoError(testInstance, loadError)

	_, retryError := pushEngine.Push(context.Background(), repositoryRoot, retryRecord, subrepo.PushOptions{})
	require.Error(testInstance, retryError)
	require.Equal(testInstance, subrepo.ErrorKindNoChanges, subrepo.ClassifyError(retryError))
	require.Zero(testInstance, subrepo.ExitCodeFor(retryError))

	recordAfterRetry, rereadError := os.ReadFile(recordPath)
	require.NoError(testInstance, rereadError)
	require.Equal(testInstance, recordBeforeRetry, recordAfterRetry)
	require.Equal(testInstance, []string{firstResult.Tip}, fake.pushedRevisions)
}

func TestPushRejectsStaleUpstream(testInstance *testing.T) {
	staleRecord := buildPushTestRecord()
	staleRecord.UpstreamCommit = "u-old"
	repositoryRoot, metadataStore := preparePushRepository(testInstance, staleRecord)

	fake := newFakeEngine()
	fake.headCommit = "p1"
	fake.seedCommit("p1", "parent-tree-1")
	fake.seedCommit("u-old", "tree-old")
	fake.seedCommit("u-new", "tree-new", "u-old")
	fake.seedHistory("HEAD", pushTestSubdirectoryConstant, "p1")
	fake.seedSubtree("p1", pushTestSubdirectoryConstant, "tree-one")
	fake.seedRemoteBranch(pushTestRemoteConstant, pushTestBranchConstant, "u-new")

	recordPath := metadataStore.RecordFilePath(repositoryRoot, pushTestSubdirectoryConstant)
	recordBeforePush, readError := os.ReadFile(recordPath)
	require.NoError(testInstance, readError)

	pushEngine := subrepo.NewPushEngine(fake, metadataStore)
	_, pushError := pushEngine.Push(context.Background(), repositoryRoot, staleRecord, subrepo.PushOptions{})
	require.Error(testInstance, pushError)
	require.Equal(testInstance, subrepo.ErrorKindRemoteRejected, subrepo.ClassifyError(pushError))
	require.Empty(testInstance, fake.pushedRevisions)

	recordAfterPush, rereadError := os.ReadFile(recordPath)
	require.NoError(testInstance, rereadError)
	require.Equal(testInstance, recordBeforePush, recordAfterPush)
}

func TestPushSquashCollapsesHistory(testInstance *testing.T) {
	repositoryRoot, metadataStore := preparePushRepository(testInstance, buildPushTestRecord())
	fake := newFakeEngine()
	seedLocalSubtreeHistory(fake)

	pushEngine := subrepo.NewPushEngine(fake, metadataStore)
	pushResult, pushError := pushEngine.Push(context.Background(), repositoryRoot, buildPushTestRecord(), subrepo.PushOptions{Squash: true, Message: "release widgets"})
	require.NoError(testInstance, pushError)

	squashedCommit := fake.commits[pushResult.Tip]
	require.Equal(testInstance, "tree-two", squashedCommit.tree)
	require.Empty(testInstance, squashedCommit.parents)
	require.Equal(testInstance, "release widgets", squashedCommit.message)
}

func TestPushThenStatusReportsClean(testInstance *testing.T) {
	repositoryRoot, metadataStore := preparePushRepository(testInstance, buildPushTestRecord())
	fake := newFakeEngine()
	seedLocalSubtreeHistory(fake)

	pushEngine := subrepo.NewPushEngine(fake, metadataStore)
	pushResult, pushError := pushEngine.Push(context.Background(), repositoryRoot, buildPushTestRecord(), subrepo.PushOptions{})
	require.NoError(testInstance, pushError)

	// The metadata commit touches only the tracking file, so rebuilding the
	// subtree history must land on the pushed tip again.
	fake.seedHistory("p2..HEAD", pushTestSubdirectoryConstant, "meta-1")
	fake.seedSubtree("meta-1", pushTestSubdirectoryConstant, "tree-two-with-record")
	fake.treeEntries["tree-two-with-record"] = []string{"100644 blob bbbb\tcontent.txt", "100644 blob rrrr\t.gitrepo"}

	syncedRecord, loadError := metadataStore.Load(repositoryRoot, pushTestSubdirectoryConstant)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, pushResult.Tip, syncedRecord.UpstreamCommit)

	state, classifyError := subrepo.NewStatusEngine(fake).Classify(context.Background(), repositoryRoot, syncedRecord, subrepo.StatusOptions{})
	require.NoError(testInstance, classifyError)
	require.Equal(testInstance, subrepo.SyncStateClean, state)
}

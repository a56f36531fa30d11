package subrepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thorsten-klein/git-subrepo/internal/subrepo"
)

const extractorTestPrefixConstant = "widgets"

func TestSubtreeHistoryIterator(testInstance *testing.T) {
	testInstance.Run("yields_prefix_scoped_pairs_oldest_first", func(testInstance *testing.T) {
		fake := newFakeEngine()
		fake.seedHistory("r1..r2", extractorTestPrefixConstant, "c1", "c2")
		fake.seedSubtree("c1", extractorTestPrefixConstant, "tree-one")
		fake.seedSubtree("c2", extractorTestPrefixConstant, "tree-two")
		fake.treeEntries["tree-one"] = []string{"100644 blob aaaa\tcontent.txt"}
		fake.treeEntries["tree-two"] = []string{"100644 blob bbbb\tcontent.txt"}

		iterator := subrepo.NewSubtreeHistoryIterator(fake, "/repo", "r1..r2", extractorTestPrefixConstant)

		var pairs []subrepo.SubtreePair
		for iterator.Next(context.Background()) {
			pairs = append(pairs, iterator.Pair())
		}
		require.NoError(testInstance, iterator.Err())
		require.Equal(testInstance, []subrepo.SubtreePair{
			{Commit: "c1", Tree: "tree-one"},
			{Commit: "c2", Tree: "tree-two"},
		}, pairs)
	})

	testInstance.Run("empty_history_yields_empty_sequence", func(testInstance *testing.T) {
		fake := newFakeEngine()

		iterator := subrepo.NewSubtreeHistoryIterator(fake, "/repo", "r1..r2", extractorTestPrefixConstant)
		require.False(testInstance, iterator.Next(context.Background()))
		require.NoError(testInstance, iterator.Err())
	})

	testInstance.Run("skips_commits_that_removed_the_prefix", func(testInstance *testing.T) {
		fake := newFakeEngine()
		fake.seedHistory("r1..r2", extractorTestPrefixConstant, "c1", "c2")
		fake.seedSubtree("c1", extractorTestPrefixConstant, "tree-one")
		fake.treeEntries["tree-one"] = []string{"100644 blob aaaa\tcontent.txt"}

		iterator := subrepo.NewSubtreeHistoryIterator(fake, "/repo", "r1..r2", extractorTestPrefixConstant)
		require.True(testInstance, iterator.Next(context.Background()))
		require.Equal(testInstance, "c1", iterator.Pair().Commit)
		require.False(testInstance, iterator.Next(context.Background()))
		require.NoError(testInstance, iterator.Err())
	})

	testInstance.Run("strips_the_tracking_file_from_extracted_trees", func(testInstance *testing.T) {
		fake := newFakeEngine()
		fake.seedHistory("r1..r2", extractorTestPrefixConstant, "c1", "c2")
		fake.seedSubtree("c1", extractorTestPrefixConstant, "tree-with-record")
		fake.seedSubtree("c2", extractorTestPrefixConstant, "tree-record-only")
		fake.treeEntries["tree-one"] = []string{"100644 blob aaaa\tcontent.txt"}
		fake.treeEntries["tree-with-record"] = []string{"100644 blob aaaa\tcontent.txt", "100644 blob rrrr\t.gitrepo"}
		fake.treeEntries["tree-record-only"] = []string{"100644 blob rrrr\t.gitrepo"}

		iterator := subrepo.NewSubtreeHistoryIterator(fake, "/repo", "r1..r2", extractorTestPrefixConstant)
		require.True(testInstance, iterator.Next(context.Background()))
		require.Equal(testInstance, subrepo.SubtreePair{Commit: "c1", Tree: "tree-one"}, iterator.Pair())

		// A commit whose subtree holds only the tracking file contributes nothing.
		require.False(testInstance, iterator.Next(context.Background()))
		require.NoError(testInstance, iterator.Err())
	})
}

package subrepo_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thorsten-klein/git-subrepo/internal/subrepo"
)

func TestEncodeSubref(testInstance *testing.T) {
	testCases := []struct {
		name         string
		subdirectory string
		expected     string
	}{
		{name: "plain", subdirectory: "widgets", expected: "widgets"},
		{name: "nested", subdirectory: "lib/bar", expected: "lib/bar"},
		{name: "punctuation_kept", subdirectory: "my-lib_v2.0", expected: "my-lib_v2.0"},
		{name: "space_escaped", subdirectory: "odd name", expected: "odd%20name"},
		{name: "colon_escaped", subdirectory: "a:b", expected: "a%3Ab"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, subrepo.EncodeSubref(testCase.subdirectory))
		})
	}
}

func TestRefNamespaceNames(testInstance *testing.T) {
	namespace := subrepo.NewRefNamespace("lib/bar")

	require.Equal(testInstance, "refs/subrepo/lib/bar/fetch", namespace.FetchRef())
	require.Equal(testInstance, "refs/subrepo/lib/bar/branch", namespace.BranchRef())
	require.Equal(testInstance, "refs/subrepo/lib/bar/commit", namespace.CommitRef())
	require.Equal(testInstance, "refs/subrepo/lib/bar/push", namespace.PushRef())
	require.Equal(testInstance, "refs/subrepo/lib/bar", namespace.Prefix())
	require.Equal(testInstance, "subrepo/lib/bar", namespace.WorkingBranch())
	require.Equal(testInstance, filepath.Join("/repo/.git", "tmp", "subrepo", "lib", "bar"), namespace.WorktreePath("/repo/.git"))
}

func TestDistinctSubdirectoriesYieldDistinctRefs(testInstance *testing.T) {
	first := subrepo.NewRefNamespace("a b")
	second := subrepo.NewRefNamespace("a%20b")
	require.NotEqual(testInstance, first.Prefix(), second.Prefix())
}

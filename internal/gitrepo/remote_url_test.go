package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    gitrepo.RemoteURL
		expectError bool
	}{
		{
			name:  "ssh_remote",
			input: "git@example.com:upstream/util.git",
			expected: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "example.com",
				Owner:      "upstream",
				Repository: "util",
			},
		},
		{
			name:  "https_remote",
			input: "https://example.com/upstream/util.git",
			expected: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "example.com",
				Owner:      "upstream",
				Repository: "util",
			},
		},
		{
			name:        "unsupported_remote",
			input:       "ftp://example.com/upstream/util.git",
			expectError: true,
		},
		{
			name:        "empty_remote",
			input:       "   ",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, parsedRemote)
		})
	}
}

func TestDeriveSubdirectoryName(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "https_remote", input: "https://example.com/upstream/util.git", expected: "util"},
		{name: "ssh_remote", input: "git@example.com:upstream/util.git", expected: "util"},
		{name: "local_path", input: "/srv/repos/util.git", expected: "util"},
		{name: "trailing_slash", input: "/srv/repos/util/", expected: "util"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, gitrepo.DeriveSubdirectoryName(testCase.input))
		})
	}
}

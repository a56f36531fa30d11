package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
)

type readmeConfigurationDocument struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Subrepo struct {
		Method string `yaml:"method"`
		Quiet  bool   `yaml:"quiet"`
		Fetch  bool   `yaml:"fetch"`
	} `yaml:"subrepo"`
}

func TestReadmeConfigurationSnippetParses(testInstance *testing.T) {
	readmePath := filepath.Join(parentDirectoryReferenceConstant, readmeFileNameConstant)
	readmeBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	readmeContent := string(readmeBytes)
	headerIndex := strings.Index(readmeContent, configHeaderMarkerConstant)
	require.GreaterOrEqual(testInstance, headerIndex, 0, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(readmeContent[:headerIndex], yamlFenceStartConstant)
	require.GreaterOrEqual(testInstance, fenceStartIndex, 0, missingStartFenceMessageConstant)

	snippetStart := fenceStartIndex + len(yamlFenceStartConstant)
	fenceEndOffset := strings.Index(readmeContent[snippetStart:], yamlFenceEndConstant)
	require.GreaterOrEqual(testInstance, fenceEndOffset, 0, missingEndFenceMessageConstant)

	snippetContent := readmeContent[snippetStart : snippetStart+fenceEndOffset]

	var document readmeConfigurationDocument
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &document))

	require.Equal(testInstance, "info", document.Common.LogLevel)
	require.Equal(testInstance, "structured", document.Common.LogFormat)
	require.Equal(testInstance, "merge", document.Subrepo.Method)
	require.False(testInstance, document.Subrepo.Quiet)
	require.False(testInstance, document.Subrepo.Fetch)
}

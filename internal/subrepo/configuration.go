package subrepo

import (
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

const (
	configurationMethodKeyConstant = "method"
	configurationQuietKeyConstant  = "quiet"
	configurationFetchKeyConstant  = "fetch"
	configurationKeySeparator      = "."
)

// CommandConfiguration captures configuration values shared by the subrepo commands.
type CommandConfiguration struct {
	// Method is the reconciliation method recorded by clone and init when no flag overrides it.
	Method string `mapstructure:"method"`
	// Quiet suppresses per-command progress output.
	Quiet bool `mapstructure:"quiet"`
	// FetchOnStatus refreshes upstream tips before classifying status.
	FetchOnStatus bool `mapstructure:"fetch"`
}

// DefaultCommandConfiguration provides baseline configuration values for the subrepo commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Method:        string(gitrepo.ReconcileMethodMerge),
		Quiet:         false,
		FetchOnStatus: false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the subrepo commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + configurationMethodKeyConstant: defaults.Method,
		rootKey + configurationKeySeparator + configurationQuietKeyConstant:  defaults.Quiet,
		rootKey + configurationKeySeparator + configurationFetchKeyConstant:  defaults.FetchOnStatus,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Method = strings.TrimSpace(configuration.Method)
	return sanitized
}

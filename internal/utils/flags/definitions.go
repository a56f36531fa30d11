// Package flags provides helpers for binding standardized flags to Cobra commands.
package flags

import "github.com/spf13/pflag"

const (
	// RemoteFlagName exposes the shared upstream remote flag name.
	RemoteFlagName = "remote"
	// RemoteFlagShorthand provides the shorthand for the upstream remote flag.
	RemoteFlagShorthand = "r"
	// RemoteFlagUsage describes the shared upstream remote flag purpose.
	RemoteFlagUsage = "Upstream repository to fetch from and push to"
	// BranchFlagName exposes the shared upstream branch flag name.
	BranchFlagName = "branch"
	// BranchFlagShorthand provides the shorthand for the upstream branch flag.
	BranchFlagShorthand = "b"
	// BranchFlagUsage describes the shared upstream branch flag purpose.
	BranchFlagUsage = "Upstream branch to track"
	// MethodFlagName exposes the shared reconciliation method flag name.
	MethodFlagName = "method"
	// MethodFlagShorthand provides the shorthand for the reconciliation method flag.
	MethodFlagShorthand = "M"
	// MessageFlagName exposes the shared commit message flag name.
	MessageFlagName = "message"
	// MessageFlagShorthand provides the shorthand for the commit message flag.
	MessageFlagShorthand = "m"
	// MessageFlagUsage describes the shared commit message flag purpose.
	MessageFlagUsage = "Commit message to use instead of the generated one"
	// ForceFlagName exposes the shared force flag name.
	ForceFlagName = "force"
	// ForceFlagShorthand provides the shorthand for the force flag.
	ForceFlagShorthand = "f"
	// AllSubreposFlagName exposes the flag selecting every top-level embedded repository.
	AllSubreposFlagName = "all"
	// AllSubreposFlagShorthand provides the shorthand for the top-level selection flag.
	AllSubreposFlagShorthand = "a"
	// AllSubreposFlagUsage describes the top-level selection flag purpose.
	AllSubreposFlagUsage = "Target every top-level embedded repository"
	// DeepSubreposFlagName exposes the flag selecting nested embedded repositories as well.
	DeepSubreposFlagName = "ALL"
	// DeepSubreposFlagShorthand provides the shorthand for the nested selection flag.
	DeepSubreposFlagShorthand = "A"
	// DeepSubreposFlagUsage describes the nested selection flag purpose.
	DeepSubreposFlagUsage = "Target every embedded repository, including nested ones"
	// SquashFlagName exposes the shared squash flag name.
	SquashFlagName = "squash"
	// SquashFlagShorthand provides the shorthand for the squash flag.
	SquashFlagShorthand = "s"
	// SquashFlagUsage describes the shared squash flag purpose.
	SquashFlagUsage = "Squash the local history into a single commit before pushing"
	// UpdateFlagName exposes the shared record update flag name.
	UpdateFlagName = "update"
	// UpdateFlagShorthand provides the shorthand for the record update flag.
	UpdateFlagShorthand = "u"
	// UpdateFlagUsage describes the shared record update flag purpose.
	UpdateFlagUsage = "Store the provided remote and branch in the tracking file"
	// FetchFlagName exposes the shared fetch flag name.
	FetchFlagName = "fetch"
	// FetchFlagShorthand provides the shorthand for the fetch flag.
	FetchFlagShorthand = "F"
	// FetchFlagUsage describes the shared fetch flag purpose.
	FetchFlagUsage = "Fetch the upstream content before running the command"
	// OursFlagName exposes the flag preferring the local side of conflicts.
	OursFlagName = "ours"
	// OursFlagUsage describes the local-side conflict preference flag purpose.
	OursFlagUsage = "Resolve conflicting hunks by keeping the local side"
	// TheirsFlagName exposes the flag preferring the upstream side of conflicts.
	TheirsFlagName = "theirs"
	// TheirsFlagUsage describes the upstream-side conflict preference flag purpose.
	TheirsFlagUsage = "Resolve conflicting hunks by keeping the upstream side"
	// QuietFlagName exposes the shared quiet flag name.
	QuietFlagName = "quiet"
	// QuietFlagShorthand provides the shorthand for the quiet flag.
	QuietFlagShorthand = "q"
	// QuietFlagUsage describes the shared quiet flag purpose.
	QuietFlagUsage = "Suppress command progress output"
)

// UpstreamFlagValues stores the upstream targeting flag values shared by several commands.
type UpstreamFlagValues struct {
	Remote string
	Branch string
}

// SelectionFlagValues stores the repository selection flag values shared by several commands.
type SelectionFlagValues struct {
	AllTopLevel bool
	AllNested   bool
}

// BindUpstreamFlags attaches the upstream remote and branch flags to the provided flag set.
func BindUpstreamFlags(flagSet *pflag.FlagSet, values *UpstreamFlagValues) {
	if flagSet == nil || values == nil {
		return
	}
	flagSet.StringVarP(&values.Remote, RemoteFlagName, RemoteFlagShorthand, "", RemoteFlagUsage)
	flagSet.StringVarP(&values.Branch, BranchFlagName, BranchFlagShorthand, "", BranchFlagUsage)
}

// BindSelectionFlags attaches the repository selection flags to the provided flag set.
func BindSelectionFlags(flagSet *pflag.FlagSet, values *SelectionFlagValues) {
	if flagSet == nil || values == nil {
		return
	}
	flagSet.BoolVarP(&values.AllTopLevel, AllSubreposFlagName, AllSubreposFlagShorthand, false, AllSubreposFlagUsage)
	flagSet.BoolVarP(&values.AllNested, DeepSubreposFlagName, DeepSubreposFlagShorthand, false, DeepSubreposFlagUsage)
}

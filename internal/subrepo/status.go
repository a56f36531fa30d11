package subrepo

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

// SyncState classifies how a subtree relates to its recorded upstream commit.
type SyncState string

// Supported synchronization states.
const (
	SyncStateClean    SyncState = "clean"
	SyncStateAhead    SyncState = "ahead"
	SyncStateBehind   SyncState = "behind"
	SyncStateDiverged SyncState = "diverged"
)

const (
	statusReportHeaderTemplateConstant = "%d subrepos:\n"
	statusReportLineTemplateConstant   = "  %s (%s)\n"
	statusReportErrorTemplateConstant  = "  %s (%s)\n"
)

// StatusOptions controls status computation.
type StatusOptions struct {
	// FetchRemote refreshes the upstream tip before classifying, so behind and
	// diverged states reflect the live remote instead of the recorded commit.
	FetchRemote bool
}

// StatusEntry reports one discovered subdirectory's state.
type StatusEntry struct {
	Subdirectory string
	State        SyncState
	Failure      error
}

// StatusEngine classifies the synchronization state of tracked subdirectories.
type StatusEngine struct {
	engine  Engine
	builder *BranchBuilder
}

// NewStatusEngine constructs a StatusEngine around the provided engine.
func NewStatusEngine(statusEngine Engine) *StatusEngine {
	return &StatusEngine{engine: statusEngine, builder: NewBranchBuilder(statusEngine)}
}

// Classify computes the state of a single record.
func (statusEngine *StatusEngine) Classify(executionContext context.Context, repositoryRoot string, record gitrepo.SubrepoRecord, options StatusOptions) (SyncState, error) {
	localBuild, buildError := statusEngine.builder.Build(executionContext, repositoryRoot, record, BuildSourceLocal)
	if buildError != nil {
		return "", WrapOperationError(record.Subdirectory, buildError)
	}

	upstreamTip := strings.TrimSpace(record.UpstreamCommit)
	if options.FetchRemote && record.HasRemote() {
		remoteBuild, remoteError := statusEngine.builder.Build(executionContext, repositoryRoot, record, BuildSourceRemote)
		if remoteError != nil {
			return "", WrapOperationError(record.Subdirectory, remoteError)
		}
		upstreamTip = remoteBuild.Tip
	}

	if localBuild.Tip == upstreamTip {
		return SyncStateClean, nil
	}
	if len(upstreamTip) == 0 || !statusEngine.engine.CommitExists(executionContext, repositoryRoot, upstreamTip) {
		// Nothing recorded or fetched to compare against; every local commit is new.
		return SyncStateAhead, nil
	}
	if len(localBuild.Tip) == 0 {
		return SyncStateBehind, nil
	}

	upstreamReachable, ancestryError := statusEngine.engine.IsAncestor(executionContext, repositoryRoot, upstreamTip, localBuild.Tip)
	if ancestryError != nil {
		return "", WrapOperationError(record.Subdirectory, ancestryError)
	}
	if upstreamReachable {
		return SyncStateAhead, nil
	}

	localReachable, ancestryError := statusEngine.engine.IsAncestor(executionContext, repositoryRoot, localBuild.Tip, upstreamTip)
	if ancestryError != nil {
		return "", WrapOperationError(record.Subdirectory, ancestryError)
	}
	if localReachable {
		return SyncStateBehind, nil
	}
	return SyncStateDiverged, nil
}

// Report classifies every discovered entry, best effort per record.
func (statusEngine *StatusEngine) Report(executionContext context.Context, repositoryRoot string, discovered []DiscoveredSubrepo, options StatusOptions) []StatusEntry {
	entries := make([]StatusEntry, 0, len(discovered))
	for _, discoveredEntry := range discovered {
		entry := StatusEntry{Subdirectory: discoveredEntry.Subdirectory}
		if discoveredEntry.LoadError != nil {
			entry.Failure = discoveredEntry.LoadError
			entries = append(entries, entry)
			continue
		}

		state, classifyError := statusEngine.Classify(executionContext, repositoryRoot, discoveredEntry.Record, options)
		if classifyError != nil {
			entry.Failure = classifyError
		} else {
			entry.State = state
		}
		entries = append(entries, entry)
	}
	return entries
}

var statusStateColors = map[SyncState]*color.Color{
	SyncStateClean:    color.New(color.FgGreen),
	SyncStateAhead:    color.New(color.FgYellow),
	SyncStateBehind:   color.New(color.FgCyan),
	SyncStateDiverged: color.New(color.FgRed),
}

var statusFailureColor = color.New(color.FgRed)

// WriteStatusReport renders the aggregate report with the count header and one line per record.
func WriteStatusReport(writer io.Writer, entries []StatusEntry) error {
	if _, headerError := fmt.Fprintf(writer, statusReportHeaderTemplateConstant, len(entries)); headerError != nil {
		return headerError
	}

	for _, entry := range entries {
		if entry.Failure != nil {
			failureLabel := statusFailureColor.Sprint(ClassifyError(entry.Failure))
			if _, lineError := fmt.Fprintf(writer, statusReportErrorTemplateConstant, entry.Subdirectory, failureLabel); lineError != nil {
				return lineError
			}
			continue
		}

		stateLabel := string(entry.State)
		if stateColor, hasColor := statusStateColors[entry.State]; hasColor {
			stateLabel = stateColor.Sprint(stateLabel)
		}
		if _, lineError := fmt.Fprintf(writer, statusReportLineTemplateConstant, entry.Subdirectory, stateLabel); lineError != nil {
			return lineError
		}
	}
	return nil
}

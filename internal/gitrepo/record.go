package gitrepo

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RecordFileName is the fixed name of the tracking file stored inside every governed subdirectory.
	RecordFileName = ".gitrepo"
	// NoRemotePlaceholder marks records created without an upstream repository.
	NoRemotePlaceholder = "none"

	reconcileMethodMergeStringConstant    = "merge"
	reconcileMethodRebaseStringConstant   = "rebase"
	unsupportedMethodTemplateConstant     = "%w: %s"
	unsupportedMethodMessageConstant      = "unsupported reconcile method"
	missingRequiredFieldTemplateConstant  = "missing required field %q"
	recordFieldRemoteNameConstant         = "remote"
	recordFieldBranchNameConstant         = "branch"
	recordFieldCommitNameConstant         = "commit"
	recordFieldParentNameConstant         = "parent"
	recordFieldMethodNameConstant         = "method"
	recordFieldCommandVersionNameConstant = "cmdver"
)

// ReconcileMethod selects how pull integrates upstream changes into the parent history.
type ReconcileMethod string

// Supported reconcile methods.
const (
	ReconcileMethodMerge  ReconcileMethod = ReconcileMethod(reconcileMethodMergeStringConstant)
	ReconcileMethodRebase ReconcileMethod = ReconcileMethod(reconcileMethodRebaseStringConstant)
)

// ErrUnsupportedMethod reports a reconcile method outside the supported set.
var ErrUnsupportedMethod = errors.New(unsupportedMethodMessageConstant)

// ParseReconcileMethod converts a textual method into a ReconcileMethod.
func ParseReconcileMethod(candidate string) (ReconcileMethod, error) {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	switch normalizedCandidate {
	case reconcileMethodMergeStringConstant:
		return ReconcileMethodMerge, nil
	case reconcileMethodRebaseStringConstant:
		return ReconcileMethodRebase, nil
	default:
		return "", fmt.Errorf(unsupportedMethodTemplateConstant, ErrUnsupportedMethod, candidate)
	}
}

// UnknownField preserves a key/value pair the tooling does not interpret.
type UnknownField struct {
	Key   string
	Value string
}

// SubrepoRecord captures the tracked state of one embedded repository.
type SubrepoRecord struct {
	// Subdirectory is the repository-relative path this record governs. It is
	// implied by the record file location and never serialized.
	Subdirectory string

	// RemoteURL addresses the independent upstream repository, or NoRemotePlaceholder.
	RemoteURL string
	// RemoteBranch names the branch tracked upstream.
	RemoteBranch string
	// UpstreamCommit is the last upstream commit fully merged into the subtree.
	UpstreamCommit string
	// ParentCommit anchors the parent history at the moment of the last synchronization.
	ParentCommit string
	// Method governs how pull integrates upstream changes.
	Method ReconcileMethod
	// ToolVersion tags the record format for compatibility checks.
	ToolVersion string

	// UnknownFields preserves unrecognized keys across load/save cycles.
	UnknownFields []UnknownField
}

// HasRemote reports whether the record tracks a real upstream repository.
func (record SubrepoRecord) HasRemote() bool {
	trimmedRemote := strings.TrimSpace(record.RemoteURL)
	return len(trimmedRemote) > 0 && trimmedRemote != NoRemotePlaceholder
}

// Validate confirms every required field carries a value.
func (record SubrepoRecord) Validate() error {
	requiredFields := []struct {
		name  string
		value string
	}{
		{name: recordFieldRemoteNameConstant, value: record.RemoteURL},
		{name: recordFieldBranchNameConstant, value: record.RemoteBranch},
		{name: recordFieldMethodNameConstant, value: string(record.Method)},
		{name: recordFieldCommandVersionNameConstant, value: record.ToolVersion},
	}
	for _, requiredField := range requiredFields {
		if len(strings.TrimSpace(requiredField.value)) == 0 {
			return fmt.Errorf(missingRequiredFieldTemplateConstant, requiredField.name)
		}
	}
	if _, methodError := ParseReconcileMethod(string(record.Method)); methodError != nil {
		return methodError
	}
	return nil
}

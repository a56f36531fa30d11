package subrepo

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	refNamespacePrefixConstant    = "refs/subrepo/"
	fetchRefSuffixConstant        = "fetch"
	branchRefSuffixConstant       = "branch"
	commitRefSuffixConstant       = "commit"
	pushRefSuffixConstant         = "push"
	workingBranchPrefixConstant   = "subrepo/"
	worktreeDirectoryPartConstant = "tmp"
	worktreeNamespacePartConstant = "subrepo"
	refComponentSeparatorConstant = "/"
	subrefEscapeTemplateConstant  = "%%%02X"
	subrefAllowedPunctuationRunes = "-_./"
)

// EncodeSubref converts a governed subdirectory into a name safe for use inside a git ref.
//
// Characters git rejects in reference names are percent-encoded so distinct
// subdirectories always yield distinct refs.
func EncodeSubref(subdirectory string) string {
	var encoded strings.Builder
	for _, currentByte := range []byte(subdirectory) {
		if isRefSafeByte(currentByte) {
			encoded.WriteByte(currentByte)
			continue
		}
		encoded.WriteString(fmt.Sprintf(subrefEscapeTemplateConstant, currentByte))
	}
	return encoded.String()
}

func isRefSafeByte(candidate byte) bool {
	switch {
	case candidate >= 'a' && candidate <= 'z':
		return true
	case candidate >= 'A' && candidate <= 'Z':
		return true
	case candidate >= '0' && candidate <= '9':
		return true
	default:
		return strings.IndexByte(subrefAllowedPunctuationRunes, candidate) >= 0
	}
}

// RefNamespace groups the temporary references one subdirectory's operations use.
type RefNamespace struct {
	subref string
}

// NewRefNamespace derives the reference namespace for a governed subdirectory.
func NewRefNamespace(subdirectory string) RefNamespace {
	return RefNamespace{subref: EncodeSubref(subdirectory)}
}

// FetchRef names the reference pinning the most recently fetched upstream tip.
func (namespace RefNamespace) FetchRef() string {
	return refNamespacePrefixConstant + namespace.subref + refComponentSeparatorConstant + fetchRefSuffixConstant
}

// BranchRef names the reference holding the materialized subtree branch.
func (namespace RefNamespace) BranchRef() string {
	return refNamespacePrefixConstant + namespace.subref + refComponentSeparatorConstant + branchRefSuffixConstant
}

// CommitRef names the reference pinning the recorded upstream commit.
func (namespace RefNamespace) CommitRef() string {
	return refNamespacePrefixConstant + namespace.subref + refComponentSeparatorConstant + commitRefSuffixConstant
}

// PushRef names the reference holding the rewritten commit prepared for upload.
func (namespace RefNamespace) PushRef() string {
	return refNamespacePrefixConstant + namespace.subref + refComponentSeparatorConstant + pushRefSuffixConstant
}

// Prefix names the namespace root, suitable for enumeration and cleanup.
func (namespace RefNamespace) Prefix() string {
	return refNamespacePrefixConstant + namespace.subref
}

// WorkingBranch names the checkout-able branch a branch command materializes.
func (namespace RefNamespace) WorkingBranch() string {
	return workingBranchPrefixConstant + namespace.subref
}

// WorktreePath resolves the disposable worktree location beneath the shared git directory.
func (namespace RefNamespace) WorktreePath(commonDirectory string) string {
	return filepath.Join(commonDirectory, worktreeDirectoryPartConstant, worktreeNamespacePartConstant, filepath.FromSlash(namespace.subref))
}

// AllRefsPrefix names the namespace root covering every subdirectory.
func AllRefsPrefix() string {
	return strings.TrimSuffix(refNamespacePrefixConstant, refComponentSeparatorConstant)
}

package subrepo

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

const gitMetadataDirectoryNameConstant = ".git"

// DepthPolicy controls whether discovery descends into governed subdirectories.
type DepthPolicy string

// Supported depth policies.
const (
	// DepthPolicyShallow stops descending once a governed subdirectory is found,
	// reporting only top-level embedded repositories.
	DepthPolicyShallow DepthPolicy = "shallow"
	// DepthPolicyDeep descends unconditionally, reporting nested embedded
	// repositories as well.
	DepthPolicyDeep DepthPolicy = "deep"
)

// DepthPolicyFromDeepFlag converts the nested-selection flag into a DepthPolicy.
func DepthPolicyFromDeepFlag(deepRequested bool) DepthPolicy {
	if deepRequested {
		return DepthPolicyDeep
	}
	return DepthPolicyShallow
}

// DiscoveredSubrepo pairs a governed subdirectory with its loaded record.
//
// A record that exists but cannot be parsed is still reported, carrying the
// load failure, so one malformed tracking file never aborts a whole scan.
type DiscoveredSubrepo struct {
	Subdirectory string
	Record       gitrepo.SubrepoRecord
	LoadError    error
}

// FilesystemDiscoverer locates governed subdirectories by walking the working tree.
type FilesystemDiscoverer struct {
	store RecordStore
}

// NewFilesystemDiscoverer constructs a discoverer backed by filepath.WalkDir.
func NewFilesystemDiscoverer(store RecordStore) *FilesystemDiscoverer {
	return &FilesystemDiscoverer{store: ResolveRecordStore(store)}
}

// Discover walks the repository root and reports every governed subdirectory in traversal order.
func (discoverer *FilesystemDiscoverer) Discover(repositoryRoot string, policy DepthPolicy) ([]DiscoveredSubrepo, error) {
	var discovered []DiscoveredSubrepo

	walkError := filepath.WalkDir(repositoryRoot, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == gitMetadataDirectoryNameConstant {
			return fs.SkipDir
		}
		if currentPath == repositoryRoot {
			return nil
		}

		recordFilePath := filepath.Join(currentPath, gitrepo.RecordFileName)
		if _, statError := os.Stat(recordFilePath); statError != nil {
			return nil
		}

		relativePath, relativeError := filepath.Rel(repositoryRoot, currentPath)
		if relativeError != nil {
			return nil
		}
		subdirectory := filepath.ToSlash(relativePath)

		entry := DiscoveredSubrepo{Subdirectory: subdirectory}
		loadedRecord, loadError := discoverer.store.Load(repositoryRoot, subdirectory)
		if loadError != nil {
			entry.LoadError = WrapOperationError(subdirectory, loadError)
		} else {
			entry.Record = loadedRecord
		}
		discovered = append(discovered, entry)

		if policy == DepthPolicyShallow {
			return fs.SkipDir
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return discovered, nil
}

// Subdirectories projects the discovered entries onto their subdirectory paths.
func Subdirectories(discovered []DiscoveredSubrepo) []string {
	subdirectories := make([]string, 0, len(discovered))
	for _, entry := range discovered {
		subdirectories = append(subdirectories, entry.Subdirectory)
	}
	return subdirectories
}

// IsGovernedNestedPath reports whether candidate lies strictly inside any of the governed paths.
func IsGovernedNestedPath(governedPaths []string, candidate string) bool {
	for _, governedPath := range governedPaths {
		if candidate != governedPath && strings.HasPrefix(candidate, governedPath+"/") {
			return true
		}
	}
	return false
}

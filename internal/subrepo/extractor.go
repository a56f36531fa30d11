package subrepo

import (
	"context"
	"strings"

	"github.com/thorsten-klein/git-subrepo/internal/engine"
	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

const trackingFileEntrySuffixConstant = "\t" + gitrepo.RecordFileName

func revListOptionsForSubtree(revisionRange string, pathPrefix string) engine.RevListOptions {
	return engine.RevListOptions{
		Range:       revisionRange,
		PathPrefix:  pathPrefix,
		OldestFirst: true,
	}
}

// SubtreePair couples one commit with its tree re-rooted at the extracted prefix.
type SubtreePair struct {
	Commit string
	Tree   string
}

// SubtreeHistoryIterator lazily walks the commits of a revision range that touched a path prefix.
//
// The sequence is finite, ordered oldest ancestor first, and not restartable.
// Merge commits appear only when they introduce a change under the prefix,
// which is the history simplification the engine's commit listing applies.
type SubtreeHistoryIterator struct {
	engine         Engine
	repositoryPath string
	revisionRange  string
	pathPrefix     string

	commits      []string
	listed       bool
	nextIndex    int
	currentPair  SubtreePair
	iterationErr error
}

// NewSubtreeHistoryIterator prepares an extraction of the prefix-scoped history of the range.
func NewSubtreeHistoryIterator(historyEngine Engine, repositoryPath string, revisionRange string, pathPrefix string) *SubtreeHistoryIterator {
	return &SubtreeHistoryIterator{
		engine:         historyEngine,
		repositoryPath: repositoryPath,
		revisionRange:  revisionRange,
		pathPrefix:     pathPrefix,
	}
}

// Next advances to the following pair, reporting false at the end of the sequence or on failure.
func (iterator *SubtreeHistoryIterator) Next(executionContext context.Context) bool {
	if iterator.iterationErr != nil {
		return false
	}
	if !iterator.listed {
		if !iterator.listCommits(executionContext) {
			return false
		}
	}

	for iterator.nextIndex < len(iterator.commits) {
		commitIdentifier := iterator.commits[iterator.nextIndex]
		iterator.nextIndex++

		treeIdentifier, treeError := iterator.engine.TreeOfPath(executionContext, iterator.repositoryPath, commitIdentifier, iterator.pathPrefix)
		if treeError != nil {
			iterator.iterationErr = treeError
			return false
		}
		if len(treeIdentifier) == 0 {
			// The commit removed the prefix entirely; nothing to extract.
			continue
		}

		strippedTree, hasContent, stripError := stripTrackingFile(executionContext, iterator.engine, iterator.repositoryPath, treeIdentifier)
		if stripError != nil {
			iterator.iterationErr = stripError
			return false
		}
		if !hasContent {
			// Only the tracking file lived under the prefix at this commit.
			continue
		}

		iterator.currentPair = SubtreePair{Commit: commitIdentifier, Tree: strippedTree}
		return true
	}
	return false
}

// stripTrackingFile rewrites the tree without the tracking file so metadata
// commits never enter extracted history and never reach any upstream.
func stripTrackingFile(executionContext context.Context, treeEngine Engine, repositoryPath string, treeIdentifier string) (string, bool, error) {
	entryLines, listError := treeEngine.ListTreeEntries(executionContext, repositoryPath, treeIdentifier)
	if listError != nil {
		return "", false, listError
	}

	keptEntries := make([]string, 0, len(entryLines))
	trackingFileDropped := false
	for _, entryLine := range entryLines {
		if strings.HasSuffix(entryLine, trackingFileEntrySuffixConstant) {
			trackingFileDropped = true
			continue
		}
		keptEntries = append(keptEntries, entryLine)
	}
	if len(keptEntries) == 0 {
		return "", false, nil
	}
	if !trackingFileDropped {
		return treeIdentifier, true, nil
	}

	strippedTree, makeError := treeEngine.MakeTree(executionContext, repositoryPath, keptEntries)
	if makeError != nil {
		return "", false, makeError
	}
	return strippedTree, true, nil
}

// Pair returns the pair the latest successful Next call produced.
func (iterator *SubtreeHistoryIterator) Pair() SubtreePair {
	return iterator.currentPair
}

// Err reports the failure that terminated iteration, if any.
func (iterator *SubtreeHistoryIterator) Err() error {
	return iterator.iterationErr
}

func (iterator *SubtreeHistoryIterator) listCommits(executionContext context.Context) bool {
	iterator.listed = true

	// A prefix with no history yields an empty sequence rather than an error.
	listedCommits, listError := iterator.engine.ListCommits(executionContext, iterator.repositoryPath, revListOptionsForSubtree(iterator.revisionRange, iterator.pathPrefix))
	if listError != nil {
		iterator.iterationErr = listError
		return false
	}
	iterator.commits = listedCommits
	return true
}

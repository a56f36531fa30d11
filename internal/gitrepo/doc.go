// Package gitrepo models the tracking metadata of embedded repositories.
//
// It exposes the SubrepoRecord type together with a MetadataStore that reads
// and writes the per-subdirectory tracking file, plus remote URL helpers used
// when deriving default subdirectory names from upstream addresses.
package gitrepo

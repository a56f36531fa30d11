// Package subrepo implements discovery and synchronization of embedded repositories.
//
// It walks a parent working tree to locate tracked subdirectories, rebuilds
// their subtree histories as branches, classifies their synchronization state,
// and drives the push and pull protocols that exchange content with each
// subdirectory's independent upstream repository.
package subrepo

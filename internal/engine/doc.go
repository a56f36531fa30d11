// Package engine exposes the typed git operations the synchronization logic depends on.
//
// GitEngine translates high level requests such as fetching an upstream
// branch, listing subtree history, or creating rewritten commits into git
// plumbing invocations executed through the execshell layer.
package engine

package engine

import (
	"errors"

	"github.com/thorsten-klein/git-subrepo/internal/execshell"
)

// Push rejection classifications derived from git output.
var (
	// ErrNonFastForward indicates the remote rejected a push that would rewrite its history.
	ErrNonFastForward = errors.New("remote rejected non-fast-forward push")
	// ErrRemoteRefMissing indicates the upstream branch does not exist yet.
	ErrRemoteRefMissing = errors.New("remote branch not found")
	// ErrMergeConflict indicates an integration attempt stopped on unresolved conflicts.
	ErrMergeConflict = errors.New("merge produced conflicts")
)

// AsCommandFailure extracts the non-zero exit failure from an engine error when present.
func AsCommandFailure(candidateError error) (execshell.CommandFailedError, bool) {
	failedError := execshell.CommandFailedError{}
	if errors.As(candidateError, &failedError) {
		return failedError, true
	}
	return execshell.CommandFailedError{}, false
}

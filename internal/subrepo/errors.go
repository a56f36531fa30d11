package subrepo

import (
	"errors"
	"fmt"

	"github.com/thorsten-klein/git-subrepo/internal/engine"
	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
)

// ErrorKind classifies every failure surfaced by subrepo operations.
type ErrorKind string

// Supported error kinds.
const (
	ErrorKindInvalidFormat  ErrorKind = "invalid format"
	ErrorKindNotFound       ErrorKind = "not found"
	ErrorKindNoChanges      ErrorKind = "nothing to do"
	ErrorKindRemoteRejected ErrorKind = "remote rejected"
	ErrorKindMergeConflict  ErrorKind = "merge conflict"
	ErrorKindEngineFailure  ErrorKind = "engine failure"
)

// Operation outcome sentinels.
var (
	// ErrNoChanges reports that a push or pull had nothing to do.
	ErrNoChanges = errors.New("nothing to do")
)

const (
	operationErrorTemplateConstant = "%s: %s: %s"
	successExitCodeConstant        = 0
	invalidFormatExitCodeConstant  = 2
	notFoundExitCodeConstant       = 3
	remoteRejectedExitCodeConstant = 4
	mergeConflictExitCodeConstant  = 5
	engineFailureExitCodeConstant  = 1
)

// OperationError attaches a classified kind and the affected subdirectory to a failure.
type OperationError struct {
	Kind         ErrorKind
	Subdirectory string
	Cause        error
}

// Error renders the stable prefix, the subdirectory, and the underlying cause.
func (operationError OperationError) Error() string {
	causeMessage := ""
	if operationError.Cause != nil {
		causeMessage = operationError.Cause.Error()
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Kind, operationError.Subdirectory, causeMessage)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// WrapOperationError classifies the failure and binds it to the subdirectory it affected.
func WrapOperationError(subdirectory string, cause error) error {
	if cause == nil {
		return nil
	}
	return OperationError{Kind: ClassifyError(cause), Subdirectory: subdirectory, Cause: cause}
}

// ClassifyError maps an arbitrary failure onto its error kind.
func ClassifyError(candidateError error) ErrorKind {
	operationError := OperationError{}
	if errors.As(candidateError, &operationError) {
		return operationError.Kind
	}

	formatError := gitrepo.InvalidFormatError{}
	switch {
	case errors.As(candidateError, &formatError):
		return ErrorKindInvalidFormat
	case errors.Is(candidateError, gitrepo.ErrUnsupportedMethod):
		return ErrorKindInvalidFormat
	case errors.Is(candidateError, gitrepo.ErrRecordNotFound):
		return ErrorKindNotFound
	case errors.Is(candidateError, ErrNoChanges):
		return ErrorKindNoChanges
	case errors.Is(candidateError, engine.ErrRemoteRefMissing):
		return ErrorKindNotFound
	case errors.Is(candidateError, engine.ErrNonFastForward):
		return ErrorKindRemoteRejected
	case errors.Is(candidateError, engine.ErrMergeConflict):
		return ErrorKindMergeConflict
	default:
		return ErrorKindEngineFailure
	}
}

// ExitCodeFor maps an operation outcome onto the process exit code contract.
//
// A no-change outcome is reported but still counts as success.
func ExitCodeFor(candidateError error) int {
	if candidateError == nil {
		return successExitCodeConstant
	}
	switch ClassifyError(candidateError) {
	case ErrorKindNoChanges:
		return successExitCodeConstant
	case ErrorKindInvalidFormat:
		return invalidFormatExitCodeConstant
	case ErrorKindNotFound:
		return notFoundExitCodeConstant
	case ErrorKindRemoteRejected:
		return remoteRejectedExitCodeConstant
	case ErrorKindMergeConflict:
		return mergeConflictExitCodeConstant
	default:
		return engineFailureExitCodeConstant
	}
}

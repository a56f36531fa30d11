package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	commandFailedErrorTemplateConstant    = "%s exited with code %d%s"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %s"
	commandErrorStderrSuffixTemplate      = ": %s"
	commandLabelSeparatorConstant         = " "
)

// CommandName identifies an external executable invoked through the executor.
type CommandName string

// Supported executables.
const (
	// CommandGit invokes the system git binary.
	CommandGit CommandName = "git"
)

// Sentinel construction errors.
var (
	// ErrLoggerNotConfigured indicates the executor was built without a logger.
	ErrLoggerNotConfigured = errors.New("execshell: logger not configured")
	// ErrCommandRunnerNotConfigured indicates the executor was built without a runner.
	ErrCommandRunnerNotConfigured = errors.New("execshell: command runner not configured")
)

// CommandDetails carries the arguments and environment for one invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the outcome of a completed process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes a shell command and reports its result.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including trailing standard error output.
func (failedError CommandFailedError) Error() string {
	standardErrorSuffix := ""
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) > 0 {
		standardErrorSuffix = fmt.Sprintf(commandErrorStderrSuffixTemplate, trimmedStandardError)
	}
	return fmt.Sprintf(commandFailedErrorTemplateConstant, commandLabel(failedError.Command), failedError.Result.ExitCode, standardErrorSuffix)
}

// CommandExecutionError reports a command that could not be started at all.
type CommandExecutionError struct {
	Command ShellCommand
	Failure error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	failureMessage := "unknown error"
	if executionError.Failure != nil {
		failureMessage = executionError.Failure.Error()
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, commandLabel(executionError.Command), failureMessage)
}

// Unwrap exposes the underlying failure for errors.Is inspection.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Failure
}

func commandLabel(command ShellCommand) string {
	labelParts := []string{string(command.Name)}
	labelParts = append(labelParts, command.Details.Arguments...)
	return strings.Join(labelParts, commandLabelSeparatorConstant)
}

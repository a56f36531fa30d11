package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitFetchSubcommandNameConstant     = "fetch"
	gitPushSubcommandNameConstant      = "push"
	gitMergeSubcommandNameConstant     = "merge"
	gitRebaseSubcommandNameConstant    = "rebase"
	gitBranchSubcommandNameConstant    = "branch"
	gitWorktreeSubcommandNameConstant  = "worktree"
	gitUpdateRefSubcommandNameConstant = "update-ref"
	gitReadTreeSubcommandNameConstant  = "read-tree"
	gitCommitSubcommandNameConstant    = "commit"
	gitLSRemoteSubcommandNameConstant  = "ls-remote"
	gitDeleteBranchFlagConstant        = "-D"
	gitDeleteRefFlagConstant           = "-d"
	gitPrefixFlagPrefixConstant        = "--prefix="
	gitFetchAllRemotesLabelConstant    = "all remotes"
	flagArgumentPrefixConstant         = "-"
	referenceListSeparatorConstant     = ", "
)

const (
	gitFetchStartTemplateConstant               = "Fetching %s from %s in %s"
	gitFetchWithoutRefsStartTemplateConstant    = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant             = "Fetched %s from %s in %s"
	gitFetchWithoutRefsSuccessTemplateConstant  = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant             = "Failed to fetch %s from %s in %s (exit code %d%s)"
	gitFetchWithoutRefsFailureTemplateConstant  = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant    = "Unable to fetch from %s in %s: %s"
	gitPushStartTemplateConstant                = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant              = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant              = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant     = "Unable to push %s to %s from %s: %s"
	gitMergeStartTemplateConstant               = "Merging %s in %s"
	gitMergeSuccessTemplateConstant             = "Merged %s in %s"
	gitMergeFailureTemplateConstant             = "Failed to merge %s in %s (exit code %d%s)"
	gitMergeExecutionFailureTemplateConstant    = "Unable to merge %s in %s: %s"
	gitRebaseStartTemplateConstant              = "Rebasing onto %s in %s"
	gitRebaseSuccessTemplateConstant            = "Rebased onto %s in %s"
	gitRebaseFailureTemplateConstant            = "Failed to rebase onto %s in %s (exit code %d%s)"
	gitRebaseExecutionFailureTemplateConstant   = "Unable to rebase onto %s in %s: %s"
	gitBranchDeletionStartTemplateConstant      = "Removing local branch %s in %s"
	gitBranchDeletionSuccessTemplateConstant    = "Removed local branch %s in %s"
	gitBranchDeletionFailureTemplateConstant    = "Failed to remove local branch %s in %s (exit code %d%s)"
	gitBranchCreationStartTemplateConstant      = "Creating branch %s in %s"
	gitBranchCreationSuccessTemplateConstant    = "Created branch %s in %s"
	gitBranchCreationFailureTemplateConstant    = "Failed to create branch %s in %s (exit code %d%s)"
	gitBranchExecutionFailureTemplateConstant   = "Unable to update branch %s in %s: %s"
	gitWorktreeStartTemplateConstant            = "Updating worktrees in %s"
	gitWorktreeSuccessTemplateConstant          = "Updated worktrees in %s"
	gitWorktreeFailureTemplateConstant          = "Failed to update worktrees in %s (exit code %d%s)"
	gitWorktreeExecutionFailureTemplateConstant = "Unable to update worktrees in %s: %s"
	gitRefUpdateStartTemplateConstant           = "Updating ref %s in %s"
	gitRefUpdateSuccessTemplateConstant         = "Updated ref %s in %s"
	gitRefDeleteStartTemplateConstant           = "Removing ref %s in %s"
	gitRefDeleteSuccessTemplateConstant         = "Removed ref %s in %s"
	gitRefFailureTemplateConstant               = "Failed to update ref %s in %s (exit code %d%s)"
	gitRefExecutionFailureTemplateConstant      = "Unable to update ref %s in %s: %s"
	gitReadTreeStartTemplateConstant            = "Reading tree into %s in %s"
	gitReadTreeSuccessTemplateConstant          = "Read tree into %s in %s"
	gitReadTreeFailureTemplateConstant          = "Failed to read tree into %s in %s (exit code %d%s)"
	gitReadTreeExecutionFailureTemplateConstant = "Unable to read tree into %s in %s: %s"
	gitCommitStartTemplateConstant              = "Creating commit in %s"
	gitCommitSuccessTemplateConstant            = "Created commit in %s"
	gitCommitFailureTemplateConstant            = "Failed to create commit in %s (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant   = "Unable to create commit in %s: %s"
	gitLSRemoteStartTemplateConstant            = "Querying remote references on %s"
	gitLSRemoteSuccessTemplateConstant          = "Queried remote references on %s"
	gitLSRemoteFailureTemplateConstant          = "Failed to query remote references on %s (exit code %d%s)"
	gitLSRemoteExecutionFailureTemplateConstant = "Unable to query remote references on %s: %s"
)

type targetedTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a command that completed with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing a command that could not run at all.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommandName := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommandName {
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	case gitMergeSubcommandNameConstant:
		mergeTemplates := targetedTemplates{
			start:            gitMergeStartTemplateConstant,
			success:          gitMergeSuccessTemplateConstant,
			failure:          gitMergeFailureTemplateConstant,
			executionFailure: gitMergeExecutionFailureTemplateConstant,
		}
		return formatter.describeTargetedMessage(command, result, failure, stage, mergeTemplates, formatter.extractLastPositionalArgument(command.Details.Arguments[1:]))
	case gitRebaseSubcommandNameConstant:
		rebaseTemplates := targetedTemplates{
			start:            gitRebaseStartTemplateConstant,
			success:          gitRebaseSuccessTemplateConstant,
			failure:          gitRebaseFailureTemplateConstant,
			executionFailure: gitRebaseExecutionFailureTemplateConstant,
		}
		return formatter.describeTargetedMessage(command, result, failure, stage, rebaseTemplates, formatter.extractFirstPositionalArgument(command.Details.Arguments[1:]))
	case gitBranchSubcommandNameConstant:
		return formatter.describeGitBranchMessage(command, result, failure, stage)
	case gitWorktreeSubcommandNameConstant:
		worktreeTemplates := targetedTemplates{
			start:            gitWorktreeStartTemplateConstant,
			success:          gitWorktreeSuccessTemplateConstant,
			failure:          gitWorktreeFailureTemplateConstant,
			executionFailure: gitWorktreeExecutionFailureTemplateConstant,
		}
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, worktreeTemplates)
	case gitUpdateRefSubcommandNameConstant:
		return formatter.describeGitRefMessage(command, result, failure, stage)
	case gitReadTreeSubcommandNameConstant:
		readTreeTemplates := targetedTemplates{
			start:            gitReadTreeStartTemplateConstant,
			success:          gitReadTreeSuccessTemplateConstant,
			failure:          gitReadTreeFailureTemplateConstant,
			executionFailure: gitReadTreeExecutionFailureTemplateConstant,
		}
		return formatter.describeTargetedMessage(command, result, failure, stage, readTreeTemplates, formatter.extractReadTreePrefix(command.Details.Arguments))
	case gitCommitSubcommandNameConstant:
		commitTemplates := targetedTemplates{
			start:            gitCommitStartTemplateConstant,
			success:          gitCommitSuccessTemplateConstant,
			failure:          gitCommitFailureTemplateConstant,
			executionFailure: gitCommitExecutionFailureTemplateConstant,
		}
		return formatter.describeWorkingDirectoryMessage(command, result, failure, stage, commitTemplates)
	case gitLSRemoteSubcommandNameConstant:
		return formatter.describeGitLSRemoteMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectoryLabel := formatter.describeWorkingDirectory(command)
	remoteName, referenceNames := formatter.extractRemoteAndReferences(command.Details.Arguments[1:])
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = gitFetchAllRemotesLabelConstant
	}
	joinedReferenceNames := strings.Join(referenceNames, referenceListSeparatorConstant)

	switch stage {
	case messageStageStart:
		if len(joinedReferenceNames) > 0 {
			return fmt.Sprintf(gitFetchStartTemplateConstant, joinedReferenceNames, trimmedRemoteName, workingDirectoryLabel)
		}
		return fmt.Sprintf(gitFetchWithoutRefsStartTemplateConstant, trimmedRemoteName, workingDirectoryLabel)
	case messageStageSuccess:
		if len(joinedReferenceNames) > 0 {
			return fmt.Sprintf(gitFetchSuccessTemplateConstant, joinedReferenceNames, trimmedRemoteName, workingDirectoryLabel)
		}
		return fmt.Sprintf(gitFetchWithoutRefsSuccessTemplateConstant, trimmedRemoteName, workingDirectoryLabel)
	case messageStageFailure:
		if len(joinedReferenceNames) > 0 {
			return fmt.Sprintf(gitFetchFailureTemplateConstant, joinedReferenceNames, trimmedRemoteName, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(gitFetchWithoutRefsFailureTemplateConstant, trimmedRemoteName, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, trimmedRemoteName, workingDirectoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectoryLabel := formatter.describeWorkingDirectory(command)
	remoteName, referenceNames := formatter.extractRemoteAndReferences(command.Details.Arguments[1:])
	trimmedRemoteName := formatter.ensureValue(remoteName)
	refspecLabel := formatter.ensureValue(strings.Join(referenceNames, referenceListSeparatorConstant))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, refspecLabel, trimmedRemoteName, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, refspecLabel, trimmedRemoteName, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, refspecLabel, trimmedRemoteName, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, refspecLabel, trimmedRemoteName, workingDirectoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitBranchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectoryLabel := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(formatter.extractFirstPositionalArgument(command.Details.Arguments[1:]))
	branchTemplates := targetedTemplates{
		start:            gitBranchCreationStartTemplateConstant,
		success:          gitBranchCreationSuccessTemplateConstant,
		failure:          gitBranchCreationFailureTemplateConstant,
		executionFailure: gitBranchExecutionFailureTemplateConstant,
	}
	if containsArgument(command.Details.Arguments, gitDeleteBranchFlagConstant) {
		branchTemplates.start = gitBranchDeletionStartTemplateConstant
		branchTemplates.success = gitBranchDeletionSuccessTemplateConstant
		branchTemplates.failure = gitBranchDeletionFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(branchTemplates.start, branchName, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(branchTemplates.success, branchName, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(branchTemplates.failure, branchName, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(branchTemplates.executionFailure, branchName, workingDirectoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRefMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectoryLabel := formatter.describeWorkingDirectory(command)
	referenceName := formatter.ensureValue(formatter.extractFirstPositionalArgument(command.Details.Arguments[1:]))
	startTemplate := gitRefUpdateStartTemplateConstant
	successTemplate := gitRefUpdateSuccessTemplateConstant
	if containsArgument(command.Details.Arguments, gitDeleteRefFlagConstant) {
		startTemplate = gitRefDeleteStartTemplateConstant
		successTemplate = gitRefDeleteSuccessTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, referenceName, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, referenceName, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitRefFailureTemplateConstant, referenceName, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRefExecutionFailureTemplateConstant, referenceName, workingDirectoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitLSRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	remoteName := formatter.ensureValue(formatter.extractFirstPositionalArgument(command.Details.Arguments[1:]))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitLSRemoteStartTemplateConstant, remoteName)
	case messageStageSuccess:
		return fmt.Sprintf(gitLSRemoteSuccessTemplateConstant, remoteName)
	case messageStageFailure:
		return fmt.Sprintf(gitLSRemoteFailureTemplateConstant, remoteName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitLSRemoteExecutionFailureTemplateConstant, remoteName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeTargetedMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, templates targetedTemplates, target string) string {
	workingDirectoryLabel := formatter.describeWorkingDirectory(command)
	targetLabel := formatter.ensureValue(target)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, targetLabel, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, targetLabel, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, targetLabel, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, targetLabel, workingDirectoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeWorkingDirectoryMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage, templates targetedTemplates) string {
	workingDirectoryLabel := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, workingDirectoryLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	workingDirectorySuffix := emptyStringConstant
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	referenceNames := []string{}
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagArgumentPrefixConstant) {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmedArgument
			continue
		}
		referenceNames = append(referenceNames, trimmedArgument)
	}
	return remoteName, referenceNames
}

func (formatter CommandMessageFormatter) extractFirstPositionalArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagArgumentPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractLastPositionalArgument(arguments []string) string {
	for argumentIndex := len(arguments) - 1; argumentIndex >= 0; argumentIndex-- {
		trimmedArgument := strings.TrimSpace(arguments[argumentIndex])
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagArgumentPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractReadTreePrefix(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, gitPrefixFlagPrefixConstant) {
			return strings.TrimSuffix(strings.TrimPrefix(trimmedArgument, gitPrefixFlagPrefixConstant), "/")
		}
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

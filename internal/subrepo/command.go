package subrepo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thorsten-klein/git-subrepo/internal/execshell"
	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
	"github.com/thorsten-klein/git-subrepo/internal/ui"
	"github.com/thorsten-klein/git-subrepo/internal/utils"
	utilsflags "github.com/thorsten-klein/git-subrepo/internal/utils/flags"
)

const (
	cloneCommandUseConstant           = "clone <remote> [<subdirectory>]"
	cloneCommandShortDescription      = "Embed a remote repository's branch as a subdirectory"
	initCommandUseConstant            = "init <subdirectory>"
	initCommandShortDescription       = "Mark an existing subdirectory as a subrepo"
	pullCommandUseConstant            = "pull [<subdirectory>...]"
	pullCommandShortDescription       = "Integrate upstream changes into tracked subdirectories"
	pushCommandUseConstant            = "push [<subdirectory>...]"
	pushCommandShortDescription       = "Upload local subtree changes to tracked upstreams"
	branchCommandUseConstant          = "branch [<subdirectory>...]"
	branchCommandShortDescription     = "Materialize a subrepo's history as a checkout-able branch"
	fetchCommandUseConstant           = "fetch [<subdirectory>...]"
	fetchCommandShortDescription      = "Fetch and pin the upstream tips of tracked subdirectories"
	statusCommandUseConstant          = "status [<subdirectory>...]"
	statusCommandShortDescription     = "Report the synchronization state of tracked subdirectories"
	configCommandUseConstant          = "config <subdirectory> <key> [<value>]"
	configCommandShortDescription     = "Read or update a subrepo tracking record value"
	cleanCommandUseConstant           = "clean [<subdirectory>...]"
	cleanCommandShortDescription      = "Remove the temporary branches and refs subrepo commands create"
	forcePushFlagUsageConstant        = "Overwrite the upstream branch even when the push is not a fast-forward"
	forcePullFlagUsageConstant        = "Re-clone the subdirectory at the upstream tip, discarding local subtree changes"
	forceCloneFlagUsageConstant       = "Replace an existing subdirectory with a fresh clone"
	forceConfigFlagUsageConstant      = "Allow changing keys that guard repository history"
	forceCleanFlagUsageConstant       = "Also remove the pinned fetch and branch refs"
	methodFlagDescriptionConstant     = "Reconciliation method for integrating upstream changes"
	clonedMessageTemplateConstant     = "Subrepo '%s' (%s) cloned into '%s'.\n"
	initializedMessageTemplate        = "Subrepo created from '%s' (%s) in '%s'.\n"
	pulledMessageTemplateConstant     = "Subrepo '%s' pulled to '%s'.\n"
	pushedMessageTemplateConstant     = "Subrepo '%s' pushed to '%s' (%s).\n"
	upToDateMessageTemplateConstant   = "Subrepo '%s' is up to date.\n"
	branchedMessageTemplateConstant   = "Created branch '%s' for subrepo '%s'.\n"
	fetchedMessageTemplateConstant    = "Fetched '%s' for subrepo '%s'.\n"
	cleanedMessageTemplateConstant    = "Cleaned subrepo '%s'.\n"
	configSetMessageTemplateConstant  = "Subrepo '%s' key '%s' set to '%s'.\n"
	configValueTemplateConstant       = "%s\n"
	quietPathTemplateConstant         = "%s\n"
	conflictingPolicyMessageConstant  = "only one of --ours and --theirs may be provided"
	workingDirectoryErrorTemplate     = "unable to determine working directory: %w"
	repositoryRootErrorTemplate       = "unable to resolve repository top level: %w"
	cloneRemoteArgumentPositionIndex  = 0
	cloneSubdirArgumentPositionIndex  = 1
	configSubdirArgumentPositionIndex = 0
	configKeyArgumentPositionIndex    = 1
	configValueArgumentPositionIndex  = 2
)

var reconcileMethodChoices = []string{string(gitrepo.ReconcileMethodMerge), string(gitrepo.ReconcileMethodRebase)}

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the subrepo cobra commands with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	Service                      *Service
	CommandEventsObserver        execshell.CommandEventObserver
	WorkingDirectory             string
}

// Build constructs the full set of subrepo cobra commands.
func (builder *CommandBuilder) Build() ([]*cobra.Command, error) {
	return []*cobra.Command{
		builder.buildCloneCommand(),
		builder.buildInitCommand(),
		builder.buildPullCommand(),
		builder.buildPushCommand(),
		builder.buildBranchCommand(),
		builder.buildFetchCommand(),
		builder.buildStatusCommand(),
		builder.buildConfigCommand(),
		builder.buildCleanCommand(),
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider != nil {
		return builder.ConfigurationProvider().sanitize()
	}
	return DefaultCommandConfiguration()
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger) (*Service, error) {
	if builder.Service != nil {
		return builder.Service, nil
	}
	commandEventsObserver := builder.CommandEventsObserver
	if commandEventsObserver == nil && builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		commandEventsObserver = ui.NewConsoleCommandEventLogger(logger)
	}
	resolvedEngine, engineError := ResolveEngine(nil, logger, commandEventsObserver)
	if engineError != nil {
		return nil, engineError
	}
	return NewService(resolvedEngine, nil, nil, logger), nil
}

func (builder *CommandBuilder) resolveRepositoryRoot(command *cobra.Command, service *Service) (string, error) {
	startPath := strings.TrimSpace(builder.WorkingDirectory)
	if len(startPath) == 0 {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf(workingDirectoryErrorTemplate, workingDirectoryError)
		}
		startPath = workingDirectory
	}

	repositoryRoot, rootError := service.RepositoryRoot(command.Context(), startPath)
	if rootError != nil {
		return "", fmt.Errorf(repositoryRootErrorTemplate, rootError)
	}
	return repositoryRoot, nil
}

type commandRuntime struct {
	service        *Service
	repositoryRoot string
	configuration  CommandConfiguration
	output         io.Writer
}

func (builder *CommandBuilder) resolveRuntime(command *cobra.Command) (commandRuntime, error) {
	logger := builder.resolveLogger()
	service, serviceError := builder.resolveService(logger)
	if serviceError != nil {
		return commandRuntime{}, serviceError
	}
	repositoryRoot, rootError := builder.resolveRepositoryRoot(command, service)
	if rootError != nil {
		return commandRuntime{}, rootError
	}
	return commandRuntime{
		service:        service,
		repositoryRoot: repositoryRoot,
		configuration:  builder.resolveConfiguration(),
		output:         utils.NewFlushingWriter(command.OutOrStdout()),
	}, nil
}

func (runtime commandRuntime) report(format string, values ...any) {
	if runtime.configuration.Quiet {
		return
	}
	fmt.Fprintf(runtime.output, format, values...)
}

func (builder *CommandBuilder) buildCloneCommand() *cobra.Command {
	var upstreamFlags utilsflags.UpstreamFlagValues
	var methodFlagValue string
	var forceFlagValue bool

	command := &cobra.Command{
		Use:   cloneCommandUseConstant,
		Short: cloneCommandShortDescription,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}
			if preflightError := runtime.service.Preflight(command.Context(), runtime.repositoryRoot, true); preflightError != nil {
				return preflightError
			}

			reconcileMethod, methodError := resolveMethodValue(methodFlagValue, runtime.configuration.Method)
			if methodError != nil {
				return methodError
			}

			subdirectoryArgument := ""
			if len(arguments) > cloneSubdirArgumentPositionIndex {
				subdirectoryArgument = arguments[cloneSubdirArgumentPositionIndex]
			}

			cloneResult, cloneError := runtime.service.Clone(command.Context(), runtime.repositoryRoot, arguments[cloneRemoteArgumentPositionIndex], subdirectoryArgument, upstreamFlags.Branch, reconcileMethod, forceFlagValue)
			if cloneError != nil {
				return cloneError
			}
			runtime.report(clonedMessageTemplateConstant, cloneResult.Record.RemoteURL, cloneResult.Record.RemoteBranch, cloneResult.Record.Subdirectory)
			return nil
		},
	}

	command.Flags().StringVarP(&upstreamFlags.Branch, utilsflags.BranchFlagName, utilsflags.BranchFlagShorthand, "", utilsflags.BranchFlagUsage)
	command.Flags().StringVarP(&methodFlagValue, utilsflags.MethodFlagName, utilsflags.MethodFlagShorthand, "", utilsflags.FormatChoiceUsage(string(gitrepo.ReconcileMethodMerge), reconcileMethodChoices, methodFlagDescriptionConstant))
	command.Flags().BoolVarP(&forceFlagValue, utilsflags.ForceFlagName, utilsflags.ForceFlagShorthand, false, forceCloneFlagUsageConstant)
	return command
}

func (builder *CommandBuilder) buildInitCommand() *cobra.Command {
	var upstreamFlags utilsflags.UpstreamFlagValues
	var methodFlagValue string

	command := &cobra.Command{
		Use:   initCommandUseConstant,
		Short: initCommandShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}
			if preflightError := runtime.service.Preflight(command.Context(), runtime.repositoryRoot, true); preflightError != nil {
				return preflightError
			}

			reconcileMethod, methodError := resolveMethodValue(methodFlagValue, runtime.configuration.Method)
			if methodError != nil {
				return methodError
			}

			record, initError := runtime.service.Init(command.Context(), runtime.repositoryRoot, arguments[0], upstreamFlags.Remote, upstreamFlags.Branch, reconcileMethod)
			if initError != nil {
				return initError
			}
			runtime.report(initializedMessageTemplate, record.RemoteURL, record.RemoteBranch, record.Subdirectory)
			return nil
		},
	}

	utilsflags.BindUpstreamFlags(command.Flags(), &upstreamFlags)
	command.Flags().StringVarP(&methodFlagValue, utilsflags.MethodFlagName, utilsflags.MethodFlagShorthand, "", utilsflags.FormatChoiceUsage(string(gitrepo.ReconcileMethodMerge), reconcileMethodChoices, methodFlagDescriptionConstant))
	return command
}

func (builder *CommandBuilder) buildPullCommand() *cobra.Command {
	var upstreamFlags utilsflags.UpstreamFlagValues
	var selectionFlags utilsflags.SelectionFlagValues
	var methodFlagValue string
	var messageFlagValue string
	var forceFlagValue bool
	var updateFlagValue bool
	var oursFlagValue bool
	var theirsFlagValue bool

	command := &cobra.Command{
		Use:   pullCommandUseConstant,
		Short: pullCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}
			if preflightError := runtime.service.Preflight(command.Context(), runtime.repositoryRoot, true); preflightError != nil {
				return preflightError
			}

			resolutionPolicy, policyError := resolvePolicyFlags(oursFlagValue, theirsFlagValue)
			if policyError != nil {
				return policyError
			}
			methodOverride, methodError := resolveMethodOverride(methodFlagValue)
			if methodError != nil {
				return methodError
			}

			targets, targetsError := runtime.service.ResolveTargets(runtime.repositoryRoot, arguments, DepthPolicyFromDeepFlag(selectionFlags.AllNested), selectionFlags.AllTopLevel || selectionFlags.AllNested)
			if targetsError != nil {
				return targetsError
			}

			pullOptions := PullOptions{
				Remote:       upstreamFlags.Remote,
				Branch:       upstreamFlags.Branch,
				UpdateRecord: updateFlagValue,
				Force:        forceFlagValue,
				Method:       methodOverride,
				Policy:       resolutionPolicy,
				Message:      messageFlagValue,
			}
			for _, target := range targets {
				pullResult, pullError := runtime.service.Pull(command.Context(), runtime.repositoryRoot, target, pullOptions)
				if pullError != nil {
					if ClassifyError(pullError) == ErrorKindNoChanges {
						runtime.report(upToDateMessageTemplateConstant, target)
						continue
					}
					return pullError
				}
				runtime.report(pulledMessageTemplateConstant, target, pullResult.Tip)
			}
			return nil
		},
	}

	utilsflags.BindUpstreamFlags(command.Flags(), &upstreamFlags)
	utilsflags.BindSelectionFlags(command.Flags(), &selectionFlags)
	command.Flags().StringVarP(&methodFlagValue, utilsflags.MethodFlagName, utilsflags.MethodFlagShorthand, "", utilsflags.FormatChoiceUsage(string(gitrepo.ReconcileMethodMerge), reconcileMethodChoices, methodFlagDescriptionConstant))
	command.Flags().StringVarP(&messageFlagValue, utilsflags.MessageFlagName, utilsflags.MessageFlagShorthand, "", utilsflags.MessageFlagUsage)
	command.Flags().BoolVarP(&forceFlagValue, utilsflags.ForceFlagName, utilsflags.ForceFlagShorthand, false, forcePullFlagUsageConstant)
	command.Flags().BoolVarP(&updateFlagValue, utilsflags.UpdateFlagName, utilsflags.UpdateFlagShorthand, false, utilsflags.UpdateFlagUsage)
	command.Flags().BoolVar(&oursFlagValue, utilsflags.OursFlagName, false, utilsflags.OursFlagUsage)
	command.Flags().BoolVar(&theirsFlagValue, utilsflags.TheirsFlagName, false, utilsflags.TheirsFlagUsage)
	return command
}

func (builder *CommandBuilder) buildPushCommand() *cobra.Command {
	var upstreamFlags utilsflags.UpstreamFlagValues
	var selectionFlags utilsflags.SelectionFlagValues
	var messageFlagValue string
	var forceFlagValue bool
	var squashFlagValue bool
	var updateFlagValue bool

	command := &cobra.Command{
		Use:   pushCommandUseConstant,
		Short: pushCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}
			if preflightError := runtime.service.Preflight(command.Context(), runtime.repositoryRoot, true); preflightError != nil {
				return preflightError
			}

			targets, targetsError := runtime.service.ResolveTargets(runtime.repositoryRoot, arguments, DepthPolicyFromDeepFlag(selectionFlags.AllNested), selectionFlags.AllTopLevel || selectionFlags.AllNested)
			if targetsError != nil {
				return targetsError
			}

			pushOptions := PushOptions{
				Force:        forceFlagValue,
				Squash:       squashFlagValue,
				Message:      messageFlagValue,
				Remote:       upstreamFlags.Remote,
				Branch:       upstreamFlags.Branch,
				UpdateRecord: updateFlagValue,
			}
			for _, target := range targets {
				pushResult, pushError := runtime.service.Push(command.Context(), runtime.repositoryRoot, target, pushOptions)
				if pushError != nil {
					if ClassifyError(pushError) == ErrorKindNoChanges {
						runtime.report(upToDateMessageTemplateConstant, target)
						continue
					}
					return pushError
				}
				runtime.report(pushedMessageTemplateConstant, target, pushResult.Record.RemoteBranch, pushResult.Tip)
			}
			return nil
		},
	}

	utilsflags.BindUpstreamFlags(command.Flags(), &upstreamFlags)
	utilsflags.BindSelectionFlags(command.Flags(), &selectionFlags)
	command.Flags().StringVarP(&messageFlagValue, utilsflags.MessageFlagName, utilsflags.MessageFlagShorthand, "", utilsflags.MessageFlagUsage)
	command.Flags().BoolVarP(&forceFlagValue, utilsflags.ForceFlagName, utilsflags.ForceFlagShorthand, false, forcePushFlagUsageConstant)
	command.Flags().BoolVarP(&squashFlagValue, utilsflags.SquashFlagName, utilsflags.SquashFlagShorthand, false, utilsflags.SquashFlagUsage)
	command.Flags().BoolVarP(&updateFlagValue, utilsflags.UpdateFlagName, utilsflags.UpdateFlagShorthand, false, utilsflags.UpdateFlagUsage)
	return command
}

func (builder *CommandBuilder) buildBranchCommand() *cobra.Command {
	var selectionFlags utilsflags.SelectionFlagValues

	command := &cobra.Command{
		Use:   branchCommandUseConstant,
		Short: branchCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}

			targets, targetsError := runtime.service.ResolveTargets(runtime.repositoryRoot, arguments, DepthPolicyFromDeepFlag(selectionFlags.AllNested), selectionFlags.AllTopLevel || selectionFlags.AllNested)
			if targetsError != nil {
				return targetsError
			}

			for _, target := range targets {
				branchName, branchError := runtime.service.Branch(command.Context(), runtime.repositoryRoot, target)
				if branchError != nil {
					if ClassifyError(branchError) == ErrorKindNoChanges {
						runtime.report(upToDateMessageTemplateConstant, target)
						continue
					}
					return branchError
				}
				runtime.report(branchedMessageTemplateConstant, branchName, target)
			}
			return nil
		},
	}

	utilsflags.BindSelectionFlags(command.Flags(), &selectionFlags)
	return command
}

func (builder *CommandBuilder) buildFetchCommand() *cobra.Command {
	var selectionFlags utilsflags.SelectionFlagValues

	command := &cobra.Command{
		Use:   fetchCommandUseConstant,
		Short: fetchCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}

			targets, targetsError := runtime.service.ResolveTargets(runtime.repositoryRoot, arguments, DepthPolicyFromDeepFlag(selectionFlags.AllNested), selectionFlags.AllTopLevel || selectionFlags.AllNested)
			if targetsError != nil {
				return targetsError
			}

			for _, target := range targets {
				fetchResult, fetchError := runtime.service.Fetch(command.Context(), runtime.repositoryRoot, target)
				if fetchError != nil {
					return fetchError
				}
				runtime.report(fetchedMessageTemplateConstant, fetchResult.Tip, target)
			}
			return nil
		},
	}

	utilsflags.BindSelectionFlags(command.Flags(), &selectionFlags)
	return command
}

func (builder *CommandBuilder) buildStatusCommand() *cobra.Command {
	var selectionFlags utilsflags.SelectionFlagValues
	var fetchFlagValue bool
	var quietFlagValue bool

	command := &cobra.Command{
		Use:   statusCommandUseConstant,
		Short: statusCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}

			statusOptions := StatusOptions{FetchRemote: fetchFlagValue || runtime.configuration.FetchOnStatus}
			entries, statusError := runtime.service.Status(command.Context(), runtime.repositoryRoot, arguments, DepthPolicyFromDeepFlag(selectionFlags.AllNested), statusOptions)
			if statusError != nil {
				return statusError
			}

			if quietFlagValue {
				for _, entry := range entries {
					fmt.Fprintf(runtime.output, quietPathTemplateConstant, entry.Subdirectory)
				}
				return nil
			}
			return WriteStatusReport(runtime.output, entries)
		},
	}

	utilsflags.BindSelectionFlags(command.Flags(), &selectionFlags)
	command.Flags().BoolVarP(&fetchFlagValue, utilsflags.FetchFlagName, utilsflags.FetchFlagShorthand, false, utilsflags.FetchFlagUsage)
	command.Flags().BoolVarP(&quietFlagValue, utilsflags.QuietFlagName, utilsflags.QuietFlagShorthand, false, utilsflags.QuietFlagUsage)
	return command
}

func (builder *CommandBuilder) buildConfigCommand() *cobra.Command {
	var forceFlagValue bool

	command := &cobra.Command{
		Use:   configCommandUseConstant,
		Short: configCommandShortDescription,
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}

			subdirectoryArgument := arguments[configSubdirArgumentPositionIndex]
			keyArgument := arguments[configKeyArgumentPositionIndex]
			if len(arguments) <= configValueArgumentPositionIndex {
				configValue, readError := runtime.service.ReadConfig(runtime.repositoryRoot, subdirectoryArgument, keyArgument)
				if readError != nil {
					return readError
				}
				fmt.Fprintf(runtime.output, configValueTemplateConstant, configValue)
				return nil
			}

			updatedRecord, writeError := runtime.service.WriteConfig(runtime.repositoryRoot, subdirectoryArgument, keyArgument, arguments[configValueArgumentPositionIndex], forceFlagValue)
			if writeError != nil {
				return writeError
			}
			runtime.report(configSetMessageTemplateConstant, updatedRecord.Subdirectory, keyArgument, arguments[configValueArgumentPositionIndex])
			return nil
		},
	}

	command.Flags().BoolVarP(&forceFlagValue, utilsflags.ForceFlagName, utilsflags.ForceFlagShorthand, false, forceConfigFlagUsageConstant)
	return command
}

func (builder *CommandBuilder) buildCleanCommand() *cobra.Command {
	var selectionFlags utilsflags.SelectionFlagValues
	var forceFlagValue bool

	command := &cobra.Command{
		Use:   cleanCommandUseConstant,
		Short: cleanCommandShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.resolveRuntime(command)
			if runtimeError != nil {
				return runtimeError
			}

			targets, targetsError := runtime.service.ResolveTargets(runtime.repositoryRoot, arguments, DepthPolicyFromDeepFlag(selectionFlags.AllNested), selectionFlags.AllTopLevel || selectionFlags.AllNested)
			if targetsError != nil {
				return targetsError
			}

			for _, target := range targets {
				if cleanError := runtime.service.Clean(command.Context(), runtime.repositoryRoot, target, forceFlagValue); cleanError != nil {
					return cleanError
				}
				runtime.report(cleanedMessageTemplateConstant, target)
			}
			if forceFlagValue {
				// Also drop refs whose subdirectory is no longer tracked at all.
				if sweepError := runtime.service.SweepStaleRefs(command.Context(), runtime.repositoryRoot); sweepError != nil {
					return sweepError
				}
			}
			return nil
		},
	}

	utilsflags.BindSelectionFlags(command.Flags(), &selectionFlags)
	command.Flags().BoolVarP(&forceFlagValue, utilsflags.ForceFlagName, utilsflags.ForceFlagShorthand, false, forceCleanFlagUsageConstant)
	return command
}

func resolveMethodValue(flagValue string, configuredValue string) (gitrepo.ReconcileMethod, error) {
	candidate := strings.TrimSpace(flagValue)
	if len(candidate) == 0 {
		candidate = strings.TrimSpace(configuredValue)
	}
	if len(candidate) == 0 {
		return gitrepo.ReconcileMethodMerge, nil
	}
	return gitrepo.ParseReconcileMethod(candidate)
}

func resolveMethodOverride(flagValue string) (gitrepo.ReconcileMethod, error) {
	candidate := strings.TrimSpace(flagValue)
	if len(candidate) == 0 {
		return "", nil
	}
	return gitrepo.ParseReconcileMethod(candidate)
}

func resolvePolicyFlags(oursRequested bool, theirsRequested bool) (ResolutionPolicy, error) {
	switch {
	case oursRequested && theirsRequested:
		return "", fmt.Errorf(conflictingPolicyMessageConstant)
	case oursRequested:
		return ResolutionPolicyOurs, nil
	case theirsRequested:
		return ResolutionPolicyTheirs, nil
	default:
		return ResolutionPolicyAuto, nil
	}
}

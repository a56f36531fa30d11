package subrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/thorsten-klein/git-subrepo/internal/gitrepo"
	pathutils "github.com/thorsten-klein/git-subrepo/internal/utils/path"
)

// ToolVersion is recorded in every tracking file this build writes.
const ToolVersion = "1.0.0"

const (
	initCommitMessageTemplateConstant      = "git subrepo init %s"
	cloneSubdirectoryExistsMessageTemplate = "subdirectory %s already exists, use force to re-clone"
	initAlreadyGovernedMessageTemplate     = "subdirectory %s is already a subrepo"
	initMissingDirectoryMessageTemplate    = "subdirectory %s does not exist"
	dirtyWorktreeMessageConstant           = "working tree has uncommitted changes"
	detachedHeadMessageConstant            = "repository is not on a branch"
	workingBranchCheckedOutMessageTemplate = "cannot run while branch %s is checked out"
	configUnknownKeyMessageTemplate        = "unknown configuration key %q"
	configProtectedKeyMessageTemplate      = "key %q requires force to change"
)

// Configuration keys accepted by ReadConfig and WriteConfig.
const (
	ConfigKeyRemote  = "remote"
	ConfigKeyBranch  = "branch"
	ConfigKeyCommit  = "commit"
	ConfigKeyParent  = "parent"
	ConfigKeyMethod  = "method"
	ConfigKeyVersion = "cmdver"
)

// Service wires the synchronization engines behind the command surface.
type Service struct {
	engine     Engine
	store      RecordStore
	discoverer Discoverer
	logger     *zap.Logger
	pushEngine *PushEngine
	pullEngine *PullEngine
	builder    *BranchBuilder
}

// NewService constructs a Service around the provided collaborators.
func NewService(serviceEngine Engine, store RecordStore, discoverer Discoverer, logger *zap.Logger) *Service {
	resolvedStore := ResolveRecordStore(store)
	resolvedDiscoverer := ResolveDiscoverer(discoverer, resolvedStore)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:     serviceEngine,
		store:      resolvedStore,
		discoverer: resolvedDiscoverer,
		logger:     logger,
		pushEngine: NewPushEngine(serviceEngine, resolvedStore),
		pullEngine: NewPullEngine(serviceEngine, resolvedStore),
		builder:    NewBranchBuilder(serviceEngine),
	}
}

// RepositoryRoot resolves the working tree top level containing the start path.
func (service *Service) RepositoryRoot(executionContext context.Context, startPath string) (string, error) {
	return service.engine.TopLevelDirectory(executionContext, startPath)
}

// Preflight validates the repository preconditions shared by mutating commands.
func (service *Service) Preflight(executionContext context.Context, repositoryRoot string, requireCleanWorktree bool) error {
	headBranch, headBranchError := service.engine.HeadBranch(executionContext, repositoryRoot)
	if headBranchError != nil {
		return headBranchError
	}
	if len(headBranch) == 0 {
		return fmt.Errorf(detachedHeadMessageConstant)
	}
	if strings.HasPrefix(headBranch, workingBranchPrefixConstant) {
		return fmt.Errorf(workingBranchCheckedOutMessageTemplate, headBranch)
	}
	if requireCleanWorktree {
		clean, cleanError := service.engine.IsWorkingTreeClean(executionContext, repositoryRoot)
		if cleanError != nil {
			return cleanError
		}
		if !clean {
			return fmt.Errorf(dirtyWorktreeMessageConstant)
		}
	}
	return nil
}

// Clone embeds a remote repository's branch as a governed subdirectory.
func (service *Service) Clone(executionContext context.Context, repositoryRoot string, remoteAddress string, subdirectory string, branchName string, method gitrepo.ReconcileMethod, force bool) (PullResult, error) {
	trimmedSubdirectory := strings.TrimSpace(subdirectory)
	if len(trimmedSubdirectory) == 0 {
		trimmedSubdirectory = gitrepo.DeriveSubdirectoryName(remoteAddress)
	}
	normalizedSubdirectory, normalizeError := pathutils.NormalizeSubdirectory(trimmedSubdirectory)
	if normalizeError != nil {
		return PullResult{}, WrapOperationError(trimmedSubdirectory, normalizeError)
	}

	if _, statError := os.Stat(filepath.Join(repositoryRoot, normalizedSubdirectory)); statError == nil && !force {
		return PullResult{}, WrapOperationError(normalizedSubdirectory, fmt.Errorf(cloneSubdirectoryExistsMessageTemplate, normalizedSubdirectory))
	}

	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		detectedBranch, detectError := service.engine.RemoteDefaultBranch(executionContext, repositoryRoot, remoteAddress)
		if detectError != nil {
			return PullResult{}, WrapOperationError(normalizedSubdirectory, detectError)
		}
		trimmedBranch = detectedBranch
	}
	if len(method) == 0 {
		method = gitrepo.ReconcileMethodMerge
	}

	record := gitrepo.SubrepoRecord{
		Subdirectory: normalizedSubdirectory,
		RemoteURL:    strings.TrimSpace(remoteAddress),
		RemoteBranch: trimmedBranch,
		Method:       method,
		ToolVersion:  ToolVersion,
	}
	pullResult, pullError := service.pullEngine.Pull(executionContext, repositoryRoot, record, PullOptions{
		Force:   true,
		Message: fmt.Sprintf(cloneCommitMessageTemplateConstant, record.RemoteURL, record.Subdirectory),
	})
	if pullError != nil {
		return PullResult{}, pullError
	}
	return pullResult, nil
}

// Init marks an existing subdirectory as a subrepo without contacting any upstream.
func (service *Service) Init(executionContext context.Context, repositoryRoot string, subdirectory string, remoteAddress string, branchName string, method gitrepo.ReconcileMethod) (gitrepo.SubrepoRecord, error) {
	normalizedSubdirectory, normalizeError := pathutils.NormalizeSubdirectory(subdirectory)
	if normalizeError != nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(subdirectory, normalizeError)
	}

	directoryInfo, statError := os.Stat(filepath.Join(repositoryRoot, normalizedSubdirectory))
	if statError != nil || !directoryInfo.IsDir() {
		return gitrepo.SubrepoRecord{}, WrapOperationError(normalizedSubdirectory, fmt.Errorf(initMissingDirectoryMessageTemplate, normalizedSubdirectory))
	}
	if _, loadError := service.store.Load(repositoryRoot, normalizedSubdirectory); loadError == nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(normalizedSubdirectory, fmt.Errorf(initAlreadyGovernedMessageTemplate, normalizedSubdirectory))
	}

	trimmedRemote := strings.TrimSpace(remoteAddress)
	if len(trimmedRemote) == 0 {
		trimmedRemote = gitrepo.NoRemotePlaceholder
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		trimmedBranch = gitrepo.NoRemotePlaceholder
	}
	if len(method) == 0 {
		method = gitrepo.ReconcileMethodMerge
	}

	record := gitrepo.SubrepoRecord{
		Subdirectory: normalizedSubdirectory,
		RemoteURL:    trimmedRemote,
		RemoteBranch: trimmedBranch,
		Method:       method,
		ToolVersion:  ToolVersion,
	}
	if saveError := service.store.Save(repositoryRoot, record); saveError != nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(normalizedSubdirectory, saveError)
	}
	if stageError := service.engine.StageAll(executionContext, repositoryRoot); stageError != nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(normalizedSubdirectory, stageError)
	}
	if commitError := service.engine.CommitStaged(executionContext, repositoryRoot, fmt.Sprintf(initCommitMessageTemplateConstant, normalizedSubdirectory)); commitError != nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(normalizedSubdirectory, commitError)
	}
	return record, nil
}

// Pull integrates upstream changes for one governed subdirectory.
func (service *Service) Pull(executionContext context.Context, repositoryRoot string, subdirectory string, options PullOptions) (PullResult, error) {
	record, loadError := service.loadRecord(repositoryRoot, subdirectory)
	if loadError != nil {
		return PullResult{}, loadError
	}
	return service.pullEngine.Pull(executionContext, repositoryRoot, record, options)
}

// Push uploads local subtree changes for one governed subdirectory.
func (service *Service) Push(executionContext context.Context, repositoryRoot string, subdirectory string, options PushOptions) (PushResult, error) {
	record, loadError := service.loadRecord(repositoryRoot, subdirectory)
	if loadError != nil {
		return PushResult{}, loadError
	}
	return service.pushEngine.Push(executionContext, repositoryRoot, record, options)
}

// Fetch refreshes the pinned upstream tip for one governed subdirectory.
func (service *Service) Fetch(executionContext context.Context, repositoryRoot string, subdirectory string) (BuildResult, error) {
	record, loadError := service.loadRecord(repositoryRoot, subdirectory)
	if loadError != nil {
		return BuildResult{}, loadError
	}
	buildResult, buildError := service.builder.Build(executionContext, repositoryRoot, record, BuildSourceRemote)
	if buildError != nil {
		return BuildResult{}, WrapOperationError(record.Subdirectory, buildError)
	}
	return buildResult, nil
}

// Branch materializes the subtree history as a checkout-able working branch.
func (service *Service) Branch(executionContext context.Context, repositoryRoot string, subdirectory string) (string, error) {
	record, loadError := service.loadRecord(repositoryRoot, subdirectory)
	if loadError != nil {
		return "", loadError
	}
	localBuild, buildError := service.builder.Build(executionContext, repositoryRoot, record, BuildSourceLocal)
	if buildError != nil {
		return "", WrapOperationError(record.Subdirectory, buildError)
	}
	if len(localBuild.Tip) == 0 {
		return "", WrapOperationError(record.Subdirectory, ErrNoChanges)
	}
	branchName, materializeError := service.builder.MaterializeWorkingBranch(executionContext, repositoryRoot, record, localBuild.Tip)
	if materializeError != nil {
		return "", WrapOperationError(record.Subdirectory, materializeError)
	}
	return branchName, nil
}

// Clean removes the working branch, worktree, and optionally the pinned refs of one subdirectory.
func (service *Service) Clean(executionContext context.Context, repositoryRoot string, subdirectory string, removeRefs bool) error {
	record, loadError := service.loadRecord(repositoryRoot, subdirectory)
	if loadError != nil {
		return loadError
	}

	namespace := NewRefNamespace(record.Subdirectory)
	commonDirectory, commonDirectoryError := service.engine.CommonDirectory(executionContext, repositoryRoot)
	if commonDirectoryError == nil {
		_ = service.engine.RemoveWorktree(executionContext, repositoryRoot, namespace.WorktreePath(commonDirectory))
	}
	if deleteError := service.engine.DeleteBranch(executionContext, repositoryRoot, namespace.WorkingBranch()); deleteError != nil {
		return WrapOperationError(record.Subdirectory, deleteError)
	}
	if removeRefs {
		if cleanupError := RemoveAllRefs(executionContext, service.engine, repositoryRoot, record.Subdirectory); cleanupError != nil {
			return WrapOperationError(record.Subdirectory, cleanupError)
		}
	}
	return nil
}

// SweepStaleRefs deletes references left behind by subdirectories that no
// longer carry a tracking file.
func (service *Service) SweepStaleRefs(executionContext context.Context, repositoryRoot string) error {
	discovered, discoveryError := service.discoverer.Discover(repositoryRoot, DepthPolicyDeep)
	if discoveryError != nil {
		return discoveryError
	}
	trackedPrefixes := make([]string, 0, len(discovered))
	for _, discoveredEntry := range discovered {
		trackedPrefixes = append(trackedPrefixes, NewRefNamespace(discoveredEntry.Subdirectory).Prefix()+refComponentSeparatorConstant)
	}

	listedRefs, listError := service.engine.ListRefs(executionContext, repositoryRoot, AllRefsPrefix()+refComponentSeparatorConstant)
	if listError != nil {
		return listError
	}
	for _, referenceName := range listedRefs {
		if hasAnyPrefix(referenceName, trackedPrefixes) {
			continue
		}
		if deleteError := service.engine.DeleteRef(executionContext, repositoryRoot, referenceName); deleteError != nil {
			return deleteError
		}
	}
	return nil
}

func hasAnyPrefix(candidate string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(candidate, prefix) {
			return true
		}
	}
	return false
}

// ReadConfig returns one tracking record value.
func (service *Service) ReadConfig(repositoryRoot string, subdirectory string, key string) (string, error) {
	record, loadError := service.loadRecord(repositoryRoot, subdirectory)
	if loadError != nil {
		return "", loadError
	}
	switch key {
	case ConfigKeyRemote:
		return record.RemoteURL, nil
	case ConfigKeyBranch:
		return record.RemoteBranch, nil
	case ConfigKeyCommit:
		return record.UpstreamCommit, nil
	case ConfigKeyParent:
		return record.ParentCommit, nil
	case ConfigKeyMethod:
		return string(record.Method), nil
	case ConfigKeyVersion:
		return record.ToolVersion, nil
	default:
		return "", WrapOperationError(record.Subdirectory, fmt.Errorf(configUnknownKeyMessageTemplate, key))
	}
}

// WriteConfig updates one tracking record value. Only the reconciliation
// method may change without force; every other key guards repository history.
func (service *Service) WriteConfig(repositoryRoot string, subdirectory string, key string, value string, force bool) (gitrepo.SubrepoRecord, error) {
	record, loadError := service.loadRecord(repositoryRoot, subdirectory)
	if loadError != nil {
		return gitrepo.SubrepoRecord{}, loadError
	}
	if key != ConfigKeyMethod && !force {
		return gitrepo.SubrepoRecord{}, WrapOperationError(record.Subdirectory, fmt.Errorf(configProtectedKeyMessageTemplate, key))
	}

	trimmedValue := strings.TrimSpace(value)
	switch key {
	case ConfigKeyRemote:
		record.RemoteURL = trimmedValue
	case ConfigKeyBranch:
		record.RemoteBranch = trimmedValue
	case ConfigKeyCommit:
		record.UpstreamCommit = trimmedValue
	case ConfigKeyParent:
		record.ParentCommit = trimmedValue
	case ConfigKeyMethod:
		parsedMethod, parseError := gitrepo.ParseReconcileMethod(trimmedValue)
		if parseError != nil {
			return gitrepo.SubrepoRecord{}, WrapOperationError(record.Subdirectory, parseError)
		}
		record.Method = parsedMethod
	case ConfigKeyVersion:
		record.ToolVersion = trimmedValue
	default:
		return gitrepo.SubrepoRecord{}, WrapOperationError(record.Subdirectory, fmt.Errorf(configUnknownKeyMessageTemplate, key))
	}

	if saveError := service.store.Save(repositoryRoot, record); saveError != nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(record.Subdirectory, saveError)
	}
	return record, nil
}

// Status reports the synchronization state of the selected subdirectories.
func (service *Service) Status(executionContext context.Context, repositoryRoot string, subdirectories []string, policy DepthPolicy, options StatusOptions) ([]StatusEntry, error) {
	discovered, selectError := service.selectTargets(repositoryRoot, subdirectories, policy)
	if selectError != nil {
		return nil, selectError
	}
	statusEngine := NewStatusEngine(service.engine)
	return statusEngine.Report(executionContext, repositoryRoot, discovered, options), nil
}

// ResolveTargets expands explicit subdirectory arguments or a discovery policy
// into the list of governed subdirectories a command should operate on.
func (service *Service) ResolveTargets(repositoryRoot string, subdirectories []string, policy DepthPolicy, discoverAll bool) ([]string, error) {
	if len(subdirectories) == 0 && !discoverAll {
		return nil, fmt.Errorf("no subdirectory selected")
	}
	if len(subdirectories) > 0 {
		sanitizer := pathutils.NewSubdirectorySanitizerWithConfiguration(pathutils.SubdirectorySanitizerConfiguration{
			PruneNestedPaths: policy == DepthPolicyShallow,
		})
		return sanitizer.Sanitize(subdirectories), nil
	}
	discovered, discoverError := service.discoverer.Discover(repositoryRoot, policy)
	if discoverError != nil {
		return nil, discoverError
	}
	targets := make([]string, 0, len(discovered))
	for _, candidate := range discovered {
		targets = append(targets, candidate.Subdirectory)
	}
	return targets, nil
}

func (service *Service) selectTargets(repositoryRoot string, subdirectories []string, policy DepthPolicy) ([]DiscoveredSubrepo, error) {
	if len(subdirectories) == 0 {
		return service.discoverer.Discover(repositoryRoot, policy)
	}
	sanitizer := pathutils.NewSubdirectorySanitizer()
	sanitizedTargets := sanitizer.Sanitize(subdirectories)
	discovered := make([]DiscoveredSubrepo, 0, len(sanitizedTargets))
	for _, target := range sanitizedTargets {
		record, loadError := service.store.Load(repositoryRoot, target)
		discovered = append(discovered, DiscoveredSubrepo{Subdirectory: target, Record: record, LoadError: wrapLoadError(target, loadError)})
	}
	return discovered, nil
}

func (service *Service) loadRecord(repositoryRoot string, subdirectory string) (gitrepo.SubrepoRecord, error) {
	normalizedSubdirectory, normalizeError := pathutils.NormalizeSubdirectory(subdirectory)
	if normalizeError != nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(subdirectory, normalizeError)
	}
	record, loadError := service.store.Load(repositoryRoot, normalizedSubdirectory)
	if loadError != nil {
		return gitrepo.SubrepoRecord{}, WrapOperationError(normalizedSubdirectory, loadError)
	}
	return record, nil
}

func wrapLoadError(subdirectory string, loadError error) error {
	if loadError == nil {
		return nil
	}
	return WrapOperationError(subdirectory, loadError)
}

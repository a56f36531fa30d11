package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	recordHeaderCommentConstant = "; DO NOT EDIT (unless you know what you are doing)\n" +
		";\n" +
		"; This subdirectory is a git \"subrepo\", and this file is maintained by the\n" +
		"; git-subrepo command.\n" +
		";\n"
	recordSectionHeaderConstant          = "[subrepo]"
	recordLineTemplateConstant           = "\t%s = %s\n"
	recordCommentPrefixSemicolonConstant = ";"
	recordCommentPrefixHashConstant      = "#"
	recordKeyValueSeparatorConstant      = "="
	sectionOpenBracketConstant           = "["
	invalidFormatTemplateConstant        = "%s: invalid tracking file: %s"
	unexpectedLineReasonTemplateConstant = "unexpected line %q"
	duplicateKeyReasonTemplateConstant   = "duplicate key %q"
	missingSectionReasonConstant         = "missing [subrepo] section"
	recordReadErrorTemplateConstant      = "read tracking file: %w"
	recordWriteErrorTemplateConstant     = "write tracking file: %w"
	recordRemoveErrorTemplateConstant    = "remove tracking file: %w"
	recordFilePermissionsConstant        = 0o644
	recordTemporaryFilePatternConstant   = RecordFileName + ".*"
)

// ErrRecordNotFound indicates that no tracking file exists at the expected path.
var ErrRecordNotFound = errors.New("subrepo record not found")

// InvalidFormatError indicates a tracking file that cannot be parsed into a valid record.
type InvalidFormatError struct {
	Path   string
	Reason string
}

// Error describes the malformed tracking file.
func (formatError InvalidFormatError) Error() string {
	return fmt.Sprintf(invalidFormatTemplateConstant, formatError.Path, formatError.Reason)
}

// MetadataStore reads and writes SubrepoRecord tracking files.
type MetadataStore struct{}

// NewMetadataStore constructs a MetadataStore instance.
func NewMetadataStore() MetadataStore {
	return MetadataStore{}
}

// RecordFilePath resolves the tracking file location for a governed subdirectory.
func (store MetadataStore) RecordFilePath(repositoryRoot string, subdirectory string) string {
	return filepath.Join(repositoryRoot, filepath.FromSlash(subdirectory), RecordFileName)
}

// Load reads the tracking file governing the provided subdirectory.
func (store MetadataStore) Load(repositoryRoot string, subdirectory string) (SubrepoRecord, error) {
	recordFilePath := store.RecordFilePath(repositoryRoot, subdirectory)
	fileContents, readError := os.ReadFile(recordFilePath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return SubrepoRecord{}, fmt.Errorf("%s: %w", subdirectory, ErrRecordNotFound)
		}
		return SubrepoRecord{}, fmt.Errorf(recordReadErrorTemplateConstant, readError)
	}

	parsedRecord, parseError := store.Parse(recordFilePath, string(fileContents))
	if parseError != nil {
		return SubrepoRecord{}, parseError
	}
	parsedRecord.Subdirectory = subdirectory
	return parsedRecord, nil
}

// Save writes the record's tracking file beneath the provided repository root.
//
// The file lands through a temporary sibling and a rename, so a crash mid-write
// never leaves a truncated tracking file behind.
func (store MetadataStore) Save(repositoryRoot string, record SubrepoRecord) error {
	if validationError := record.Validate(); validationError != nil {
		return InvalidFormatError{Path: record.Subdirectory, Reason: validationError.Error()}
	}

	recordFilePath := store.RecordFilePath(repositoryRoot, record.Subdirectory)
	temporaryFile, createError := os.CreateTemp(filepath.Dir(recordFilePath), recordTemporaryFilePatternConstant)
	if createError != nil {
		return fmt.Errorf(recordWriteErrorTemplateConstant, createError)
	}
	temporaryPath := temporaryFile.Name()

	if _, writeError := temporaryFile.WriteString(store.Serialize(record)); writeError != nil {
		_ = temporaryFile.Close()
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(recordWriteErrorTemplateConstant, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(recordWriteErrorTemplateConstant, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, recordFilePermissionsConstant); chmodError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(recordWriteErrorTemplateConstant, chmodError)
	}
	if renameError := os.Rename(temporaryPath, recordFilePath); renameError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(recordWriteErrorTemplateConstant, renameError)
	}
	return nil
}

// Remove deletes the tracking file while leaving the subtree content untouched.
func (store MetadataStore) Remove(repositoryRoot string, subdirectory string) error {
	recordFilePath := store.RecordFilePath(repositoryRoot, subdirectory)
	removeError := os.Remove(recordFilePath)
	if removeError != nil {
		if errors.Is(removeError, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", subdirectory, ErrRecordNotFound)
		}
		return fmt.Errorf(recordRemoveErrorTemplateConstant, removeError)
	}
	return nil
}

// Parse converts tracking file text into a SubrepoRecord.
//
// Key order is irrelevant, blank lines and comment lines are tolerated, and
// unrecognized keys are preserved for the next save.
func (store MetadataStore) Parse(sourcePath string, contents string) (SubrepoRecord, error) {
	record := SubrepoRecord{}
	seenKeys := map[string]struct{}{}
	sectionSeen := false

	for _, rawLine := range strings.Split(contents, "\n") {
		trimmedLine := strings.TrimSpace(rawLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedLine, recordCommentPrefixSemicolonConstant) || strings.HasPrefix(trimmedLine, recordCommentPrefixHashConstant) {
			continue
		}
		if strings.HasPrefix(trimmedLine, sectionOpenBracketConstant) {
			if trimmedLine == recordSectionHeaderConstant {
				sectionSeen = true
				continue
			}
			return SubrepoRecord{}, InvalidFormatError{Path: sourcePath, Reason: fmt.Sprintf(unexpectedLineReasonTemplateConstant, trimmedLine)}
		}

		separatorIndex := strings.Index(trimmedLine, recordKeyValueSeparatorConstant)
		if separatorIndex <= 0 {
			return SubrepoRecord{}, InvalidFormatError{Path: sourcePath, Reason: fmt.Sprintf(unexpectedLineReasonTemplateConstant, trimmedLine)}
		}
		fieldKey := strings.TrimSpace(trimmedLine[:separatorIndex])
		fieldValue := strings.TrimSpace(trimmedLine[separatorIndex+1:])

		if _, duplicate := seenKeys[fieldKey]; duplicate {
			return SubrepoRecord{}, InvalidFormatError{Path: sourcePath, Reason: fmt.Sprintf(duplicateKeyReasonTemplateConstant, fieldKey)}
		}
		seenKeys[fieldKey] = struct{}{}

		switch fieldKey {
		case recordFieldRemoteNameConstant:
			record.RemoteURL = fieldValue
		case recordFieldBranchNameConstant:
			record.RemoteBranch = fieldValue
		case recordFieldCommitNameConstant:
			record.UpstreamCommit = fieldValue
		case recordFieldParentNameConstant:
			record.ParentCommit = fieldValue
		case recordFieldMethodNameConstant:
			record.Method = ReconcileMethod(fieldValue)
		case recordFieldCommandVersionNameConstant:
			record.ToolVersion = fieldValue
		default:
			record.UnknownFields = append(record.UnknownFields, UnknownField{Key: fieldKey, Value: fieldValue})
		}
	}

	if !sectionSeen {
		return SubrepoRecord{}, InvalidFormatError{Path: sourcePath, Reason: missingSectionReasonConstant}
	}
	if validationError := record.Validate(); validationError != nil {
		return SubrepoRecord{}, InvalidFormatError{Path: sourcePath, Reason: validationError.Error()}
	}
	return record, nil
}

// Serialize renders the record as tracking file text with a stable key order.
func (store MetadataStore) Serialize(record SubrepoRecord) string {
	var builder strings.Builder
	builder.WriteString(recordHeaderCommentConstant)
	builder.WriteString(recordSectionHeaderConstant + "\n")

	writeField := func(fieldKey string, fieldValue string) {
		if len(fieldValue) == 0 {
			return
		}
		builder.WriteString(fmt.Sprintf(recordLineTemplateConstant, fieldKey, fieldValue))
	}

	writeField(recordFieldRemoteNameConstant, record.RemoteURL)
	writeField(recordFieldBranchNameConstant, record.RemoteBranch)
	writeField(recordFieldCommitNameConstant, record.UpstreamCommit)
	writeField(recordFieldParentNameConstant, record.ParentCommit)
	writeField(recordFieldMethodNameConstant, string(record.Method))
	writeField(recordFieldCommandVersionNameConstant, record.ToolVersion)

	preservedFields := append([]UnknownField{}, record.UnknownFields...)
	sort.SliceStable(preservedFields, func(first int, second int) bool {
		return preservedFields[first].Key < preservedFields[second].Key
	})
	for _, preservedField := range preservedFields {
		writeField(preservedField.Key, preservedField.Value)
	}

	return builder.String()
}

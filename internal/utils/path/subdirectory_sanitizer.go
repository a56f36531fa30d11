package pathutils

import (
	"errors"
	"path"
	"sort"
	"strings"
)

const (
	currentDirectoryLiteralConstant = "."
	parentDirectoryPrefixConstant   = ".."
	forwardSlashConstant            = "/"
	backslashConstant               = "\\"
)

// ErrInvalidSubdirectory reports a candidate path that cannot address a directory inside the repository.
var ErrInvalidSubdirectory = errors.New("invalid repository subdirectory")

// SubdirectorySanitizerConfiguration controls subdirectory sanitization behavior.
type SubdirectorySanitizerConfiguration struct {
	// PruneNestedPaths removes subdirectories that are nested within other provided subdirectories.
	PruneNestedPaths bool
}

// SubdirectorySanitizer normalizes repository subdirectory inputs consistently across commands.
type SubdirectorySanitizer struct {
	configuration SubdirectorySanitizerConfiguration
}

// NewSubdirectorySanitizer constructs a SubdirectorySanitizer with default behavior.
func NewSubdirectorySanitizer() *SubdirectorySanitizer {
	return NewSubdirectorySanitizerWithConfiguration(SubdirectorySanitizerConfiguration{})
}

// NewSubdirectorySanitizerWithConfiguration constructs a SubdirectorySanitizer using the provided configuration.
func NewSubdirectorySanitizerWithConfiguration(configuration SubdirectorySanitizerConfiguration) *SubdirectorySanitizer {
	return &SubdirectorySanitizer{configuration: configuration}
}

// NormalizeSubdirectory converts a candidate path into a clean slash-separated path relative to the repository root.
func NormalizeSubdirectory(candidate string) (string, error) {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return "", ErrInvalidSubdirectory
	}

	slashedCandidate := strings.ReplaceAll(trimmedCandidate, backslashConstant, forwardSlashConstant)
	if strings.HasPrefix(slashedCandidate, forwardSlashConstant) {
		return "", ErrInvalidSubdirectory
	}

	cleanedCandidate := path.Clean(slashedCandidate)
	if cleanedCandidate == currentDirectoryLiteralConstant {
		return "", ErrInvalidSubdirectory
	}
	if cleanedCandidate == parentDirectoryPrefixConstant || strings.HasPrefix(cleanedCandidate, parentDirectoryPrefixConstant+forwardSlashConstant) {
		return "", ErrInvalidSubdirectory
	}

	return cleanedCandidate, nil
}

// Sanitize normalizes the candidates, drops invalid entries, and optionally prunes nested subdirectories.
func (sanitizer *SubdirectorySanitizer) Sanitize(candidatePaths []string) []string {
	configuration := SubdirectorySanitizerConfiguration{}
	if sanitizer != nil {
		configuration = sanitizer.configuration
	}

	sanitizedPaths := make([]string, 0, len(candidatePaths))
	seenPaths := make(map[string]struct{}, len(candidatePaths))
	for candidateIndex := range candidatePaths {
		normalizedPath, normalizationError := NormalizeSubdirectory(candidatePaths[candidateIndex])
		if normalizationError != nil {
			continue
		}
		if _, alreadySeen := seenPaths[normalizedPath]; alreadySeen {
			continue
		}
		seenPaths[normalizedPath] = struct{}{}
		sanitizedPaths = append(sanitizedPaths, normalizedPath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}

	if configuration.PruneNestedPaths {
		return pruneNestedSubdirectories(sanitizedPaths)
	}

	return sanitizedPaths
}

func pruneNestedSubdirectories(candidatePaths []string) []string {
	type subdirectoryDetails struct {
		originalIndex int
		value         string
	}

	orderedPaths := make([]subdirectoryDetails, 0, len(candidatePaths))
	for index := range candidatePaths {
		orderedPaths = append(orderedPaths, subdirectoryDetails{originalIndex: index, value: candidatePaths[index]})
	}

	sort.SliceStable(orderedPaths, func(first int, second int) bool {
		firstLength := len(orderedPaths[first].value)
		secondLength := len(orderedPaths[second].value)
		if firstLength == secondLength {
			return orderedPaths[first].value < orderedPaths[second].value
		}
		return firstLength < secondLength
	})

	selectedPaths := make([]subdirectoryDetails, 0, len(orderedPaths))
	for _, candidate := range orderedPaths {
		nested := false
		for _, existing := range selectedPaths {
			if IsNestedSubdirectory(existing.value, candidate.value) {
				nested = true
				break
			}
		}
		if !nested {
			selectedPaths = append(selectedPaths, candidate)
		}
	}

	sort.SliceStable(selectedPaths, func(first int, second int) bool {
		return selectedPaths[first].originalIndex < selectedPaths[second].originalIndex
	})

	prunedPaths := make([]string, 0, len(selectedPaths))
	for _, candidate := range selectedPaths {
		prunedPaths = append(prunedPaths, candidate.value)
	}

	return prunedPaths
}

// IsNestedSubdirectory reports whether candidate equals parent or lives underneath it.
func IsNestedSubdirectory(parent string, candidate string) bool {
	if candidate == parent {
		return true
	}
	return strings.HasPrefix(candidate, parent+forwardSlashConstant)
}

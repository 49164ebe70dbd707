package layer

import (
	"path/filepath"
	"strings"
)

// normalizeSegment strips a numeric prefix, collapses separators, and
// lowercases a path or name segment for lexicon matching.
func normalizeSegment(segment string) string {
	s := segment
	if m := numberedPrefix.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
	return s
}

// hadNumberedPrefix reports whether the raw segment carried a numeric
// prefix, for the directory pass's confidence boost.
func hadNumberedPrefix(segment string) bool {
	return numberedPrefix.MatchString(segment)
}

// matchLexicon checks a normalized segment against the primary and
// secondary keyword sets and returns the best (layer, confidence) match.
func matchLexicon(normalized string) (Kind, float64, bool) {
	bestKind := Kind("")
	bestConfidence := 0.0
	found := false

	for _, kind := range layerOrder {
		for _, term := range primaryKeywords[kind] {
			if normalized == term {
				if primaryExactConfidence > bestConfidence {
					bestKind, bestConfidence, found = kind, primaryExactConfidence, true
				}
			} else if strings.Contains(normalized, term) || strings.Contains(term, normalized) {
				if primarySubstringConfidence > bestConfidence {
					bestKind, bestConfidence, found = kind, primarySubstringConfidence, true
				}
			}
		}
	}
	if found {
		return bestKind, bestConfidence, true
	}

	for _, kind := range layerOrder {
		for _, term := range secondaryKeywords[kind] {
			if strings.Contains(normalized, term) {
				if secondaryConfidence > bestConfidence {
					bestKind, bestConfidence, found = kind, secondaryConfidence, true
				}
			}
		}
	}
	return bestKind, bestConfidence, found
}

// DirectoryPass walks projectDir's path segments, relative to solutionRoot,
// consulting the lexicon for the highest-confidence layer match. It stops
// early once a match reaches directoryStopConfidence.
func DirectoryPass(solutionRoot, projectDir string) (Kind, float64, bool) {
	rel, err := filepath.Rel(solutionRoot, projectDir)
	if err != nil {
		rel = projectDir
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")

	bestKind := Kind("")
	bestConfidence := 0.0
	found := false

	for _, raw := range segments {
		if raw == "" || raw == "." {
			continue
		}
		lower := strings.ToLower(raw)
		if blocklistedSegments[lower] {
			continue
		}
		if strings.HasPrefix(lower, "_") || strings.HasPrefix(lower, ".") {
			continue
		}

		normalized := normalizeSegment(raw)
		kind, confidence, ok := matchLexicon(normalized)
		if !ok {
			continue
		}
		if hadNumberedPrefix(raw) {
			confidence += numberedPrefixBoost
			if confidence > numberedPrefixConfidenceCap {
				confidence = numberedPrefixConfidenceCap
			}
		}
		if confidence > bestConfidence {
			bestKind, bestConfidence, found = kind, confidence, true
		}
		if bestConfidence >= directoryStopConfidence {
			break
		}
	}

	return bestKind, bestConfidence, found
}

// isUIToken matches "ui" as a standalone path/name component, never as a
// substring of a larger word like "build".
func isUIToken(name string) bool {
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	}) {
		if strings.ToLower(part) == "ui" {
			return true
		}
	}
	return false
}

// NamingPass applies the priority-ordered name tests: compound
// keywords, then suffix patterns (with the "business" exception), then
// whole-word UI tokens, then a general keyword scan. "app" is deliberately
// excluded from the general scan (false positives like "approval").
func NamingPass(projectName string) (Kind, float64, Source) {
	lower := strings.ToLower(projectName)
	normalized := normalizeSegment(projectName)

	for keyword, kind := range compoundKeywords {
		if strings.Contains(normalized, keyword) {
			return kind, namingCompoundConfidence, SourceNaming
		}
	}

	containsBusiness := strings.Contains(lower, "business")
	for suffix, kind := range suffixKeywords {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		if (suffix == ".data" || suffix == ".repository") && containsBusiness {
			continue
		}
		return kind, namingSuffixConfidence, SourceNaming
	}

	if isUIToken(lower) {
		return Presentation, namingUIConfidence, SourceNaming
	}

	for _, kind := range layerOrder {
		for _, term := range primaryKeywords[kind] {
			if term == "app" || term == "ui" {
				continue
			}
			if strings.Contains(lower, term) {
				return kind, secondaryConfidence, SourceNaming
			}
		}
	}

	return Business, namingDefaultConfidence, SourceDefault
}

// Project is the minimal input Classify needs about one project.
type Project struct {
	Name string
	Dir  string
}

// Classify assigns one project to a layer, running the directory pass,
// the naming pass, or both depending on mode ("auto", "directory",
// "naming").
func Classify(solutionRoot string, project Project, mode string) Result {
	result := Result{ProjectName: project.Name, ProjectPath: project.Dir}

	if mode == "auto" || mode == "directory" {
		if kind, confidence, ok := DirectoryPass(solutionRoot, project.Dir); ok {
			result.Layer = kind
			result.Confidence = confidence
			result.Source = SourceDirectory
			if mode == "directory" || confidence >= directoryStopConfidence {
				addValidationWarnings(&result)
				return result
			}
		}
	}

	if mode == "auto" || mode == "naming" {
		kind, confidence, source := NamingPass(project.Name)
		if result.Source == "" || confidence > result.Confidence {
			result.Layer = kind
			result.Confidence = confidence
			result.Source = source
		}
		addValidationWarnings(&result)
		return result
	}

	if result.Source == "" {
		result.Layer = Business
		result.Confidence = namingDefaultConfidence
		result.Source = SourceDefault
	}
	addValidationWarnings(&result)
	return result
}

// addValidationWarnings cross-checks a classification against the
// project's own name for naming/layer inconsistencies. Warnings
// never change the classification.
func addValidationWarnings(result *Result) {
	lower := strings.ToLower(result.ProjectName)
	switch result.Layer {
	case Services:
		if strings.Contains(lower, "businessentities") || strings.Contains(lower, "dataaccess") {
			result.Warnings = append(result.Warnings,
				"classified as services but name suggests business/data responsibilities")
		}
	case Business:
		if strings.Contains(lower, "daemon") {
			result.Warnings = append(result.Warnings,
				"classified as business but name suggests an infrastructure daemon")
		}
	}
}

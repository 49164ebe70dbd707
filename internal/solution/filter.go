package solution

import (
	"regexp"
	"strings"

	"grafo/internal/logging"
)

// Filter implements ProjectFilter (C2): a set of compiled, case-insensitive
// regular expressions checked against each project's name and path, plus an
// optional include-only regex that narrows the set further. Invalid
// patterns are dropped at construction time and logged, never fatal.
type Filter struct {
	patterns    []*regexp.Regexp
	includeOnly *regexp.Regexp
	logger      *logging.Logger
}

// NewFilter compiles excludePatterns (case-insensitive). Patterns that fail
// to compile are skipped and logged as a warning.
func NewFilter(excludePatterns []string, logger *logging.Logger) *Filter {
	return NewFilterWithInclude(excludePatterns, "", logger)
}

// NewFilterWithInclude additionally compiles includeOnly (case-insensitive):
// when set, a project must also match it to survive Apply. An invalid
// includeOnly pattern is skipped and logged, same as an exclude pattern.
func NewFilterWithInclude(excludePatterns []string, includeOnly string, logger *logging.Logger) *Filter {
	f := &Filter{logger: logger}
	for _, raw := range excludePatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping invalid exclude pattern", map[string]interface{}{
					"pattern": raw,
					"error":   err.Error(),
				})
			}
			continue
		}
		f.patterns = append(f.patterns, re)
	}

	includeOnly = strings.TrimSpace(includeOnly)
	if includeOnly != "" {
		re, err := regexp.Compile("(?i)" + includeOnly)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping invalid include-only pattern", map[string]interface{}{
					"pattern": includeOnly,
					"error":   err.Error(),
				})
			}
		} else {
			f.includeOnly = re
		}
	}
	return f
}

// Excludes reports whether project should be excluded: any pattern
// matching either its name or its path.
func (f *Filter) Excludes(project Project) bool {
	for _, re := range f.patterns {
		if re.MatchString(project.Name) || re.MatchString(project.Path) {
			return true
		}
	}
	return false
}

// Apply returns the subset of projects that survive the filter, in their
// original order: excluded by pattern, or (when set) not matched by the
// include-only pattern.
func (f *Filter) Apply(projects []Project) []Project {
	if len(f.patterns) == 0 && f.includeOnly == nil {
		return projects
	}
	kept := make([]Project, 0, len(projects))
	for _, p := range projects {
		if f.Excludes(p) {
			continue
		}
		if f.includeOnly != nil && !f.includeOnly.MatchString(p.Name) && !f.includeOnly.MatchString(p.Path) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

package resolve

import (
	"sort"
	"strings"

	"grafo/internal/semantic"
)

// Index is the three-way symbol index C5 builds before resolution: by
// exact fully qualified name, by simple name (case-insensitive,
// multi-valued), and by project (multi-valued). Only component-bearing
// kinds participate.
type Index struct {
	byFQN     map[string]semantic.SymbolRecord
	byName    map[string][]semantic.SymbolRecord
	byProject map[string][]semantic.SymbolRecord
}

// BuildIndex constructs an Index in one pass over symbols.
func BuildIndex(symbols []semantic.SymbolRecord) *Index {
	idx := &Index{
		byFQN:     make(map[string]semantic.SymbolRecord),
		byName:    make(map[string][]semantic.SymbolRecord),
		byProject: make(map[string][]semantic.SymbolRecord),
	}
	for _, s := range symbols {
		if !componentKinds[s.Kind] {
			continue
		}
		idx.byFQN[s.FullyQualifiedName] = s
		key := strings.ToLower(s.Name)
		idx.byName[key] = append(idx.byName[key], s)
		idx.byProject[s.Project] = append(idx.byProject[s.Project], s)
	}
	return idx
}

// ExactFQN looks up a symbol by its exact fully qualified name.
func (idx *Index) ExactFQN(fqn string) (semantic.SymbolRecord, bool) {
	s, ok := idx.byFQN[fqn]
	return s, ok
}

// BySimpleName returns every symbol whose simple name matches name,
// case-insensitively.
func (idx *Index) BySimpleName(name string) []semantic.SymbolRecord {
	return idx.byName[strings.ToLower(name)]
}

// preferProject returns the first candidate belonging to project, or the
// first candidate overall if none belong to project.
func preferProject(candidates []semantic.SymbolRecord, project string) (semantic.SymbolRecord, bool) {
	if len(candidates) == 0 {
		return semantic.SymbolRecord{}, false
	}
	for _, c := range candidates {
		if c.Project == project {
			return c, true
		}
	}
	return candidates[0], true
}

// suffixScan scans every indexed symbol for one whose fullyQualifiedName
// ends with "."+token, case-insensitively. Ties are broken by the lexically
// smallest fully qualified name, so the result is deterministic.
func (idx *Index) suffixScan(token string) (semantic.SymbolRecord, bool) {
	suffix := "." + strings.ToLower(token)
	fqns := make([]string, 0, len(idx.byFQN))
	for fqn := range idx.byFQN {
		if strings.HasSuffix(strings.ToLower(fqn), suffix) {
			fqns = append(fqns, fqn)
		}
	}
	if len(fqns) == 0 {
		return semantic.SymbolRecord{}, false
	}
	sort.Strings(fqns)
	return idx.byFQN[fqns[0]], true
}

// Package batch implements the --batch-config surface: a YAML or JSON file
// naming multiple solutions to run in one invocation, each with optional
// per-solution overrides layered onto the base configuration.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"grafo/internal/config"
)

// SolutionEntry is one solution listed in a batch-config file.
type SolutionEntry struct {
	Solution string   `yaml:"solution" json:"solution"`
	Output   string   `yaml:"output,omitempty" json:"output,omitempty"`
	Graph    string   `yaml:"graph,omitempty" json:"graph,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// File is the decoded shape of a batch-config document.
type File struct {
	Solutions []SolutionEntry `yaml:"solutions" json:"solutions"`
}

// Load reads a batch-config file, choosing a YAML or JSON decoder by
// extension (.json decodes as JSON; anything else as YAML, which is a
// superset of JSON's object syntax).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch config: %w", err)
	}

	var f File
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("invalid JSON batch config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("invalid YAML batch config: %w", err)
		}
	}

	if len(f.Solutions) == 0 {
		return nil, fmt.Errorf("batch config %s lists no solutions", path)
	}
	return &f, nil
}

// Overlay applies entry's per-solution overrides onto a copy of base,
// leaving base untouched for the next entry in the batch.
func Overlay(base *config.Config, entry SolutionEntry) *config.Config {
	cfg := *base
	if len(entry.Exclude) > 0 {
		cfg.ProjectFilter.ExcludePatterns = append(append([]string{}, base.ProjectFilter.ExcludePatterns...), entry.Exclude...)
	}
	return &cfg
}

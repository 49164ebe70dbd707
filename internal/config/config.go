// Package config loads and validates the extraction pipeline's runtime
// configuration: a viper-backed JSON file with a documented table of
// environment-variable overrides, nesting one sub-config per component.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvOverride records an environment variable override that was applied.
type EnvOverride struct {
	EnvVar    string
	Path      string
	Value     interface{}
	FromValue string
}

// LoadResult carries the loaded config plus metadata about how it was loaded.
type LoadResult struct {
	Config       *Config
	ConfigPath   string
	EnvOverrides []EnvOverride
	UsedDefaults bool
}

// Config is the complete pipeline configuration, one sub-config per
// component (C1-C10).
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Compilation         CompilationConfig         `json:"compilation" mapstructure:"compilation"`
	ProjectFilter       ProjectFilterConfig       `json:"projectFilter" mapstructure:"projectFilter"`
	LayerClassification LayerClassificationConfig `json:"layerClassification" mapstructure:"layerClassification"`
	Resolution          ResolutionConfig          `json:"resolution" mapstructure:"resolution"`
	Output              OutputConfig              `json:"output" mapstructure:"output"`
	Store               StoreConfig               `json:"store" mapstructure:"store"`
	Incremental         IncrementalConfig         `json:"incremental" mapstructure:"incremental"`
	Logging             LoggingConfig             `json:"logging" mapstructure:"logging"`
}

// CompilationConfig configures CompilationHost (C1).
type CompilationConfig struct {
	AllowCompilationErrors bool   `json:"allowCompilationErrors" mapstructure:"allowCompilationErrors"`
	BuildTimeoutSeconds    int    `json:"buildTimeoutSeconds" mapstructure:"buildTimeoutSeconds"`
	BinderStrategy         string `json:"binderStrategy" mapstructure:"binderStrategy"` // "workspace" | "manual"
}

// ProjectFilterConfig configures ProjectFilter (C2).
type ProjectFilterConfig struct {
	ExcludePatterns []string `json:"excludePatterns" mapstructure:"excludePatterns"`
	IncludeOnly     string   `json:"includeOnly" mapstructure:"includeOnly"`
}

// LayerClassificationConfig configures LayerClassifier (C3).
type LayerClassificationConfig struct {
	Mode        string `json:"mode" mapstructure:"mode"` // "auto" | "directory" | "naming"
	Interactive bool   `json:"interactive" mapstructure:"interactive"`
}

// ResolutionConfig configures RelationResolver (C5).
type ResolutionConfig struct {
	PermitExternalBaseClasses bool `json:"permitExternalBaseClasses" mapstructure:"permitExternalBaseClasses"`
}

// OutputConfig configures GraphSerializer (C8).
type OutputConfig struct {
	Format             string `json:"format" mapstructure:"format"` // "ndjson" | "json" | "jsonld" | "json-legacy" | "xml"
	Directory          string `json:"directory" mapstructure:"directory"`
	RepoNameInOutput   bool   `json:"repoNameInOutput" mapstructure:"repoNameInOutput"`
	GenerateGraphs     bool   `json:"generateGraphs" mapstructure:"generateGraphs"`
	GenerateStatistics bool   `json:"generateStatistics" mapstructure:"generateStatistics"`
}

// StoreConfig configures GraphIngester (C9).
type StoreConfig struct {
	Path      string `json:"path" mapstructure:"path"`
	BatchSize int    `json:"batchSize" mapstructure:"batchSize"`
}

// IncrementalConfig configures IncrementalProcessor (C10).
type IncrementalConfig struct {
	Threshold float64 `json:"threshold" mapstructure:"threshold"`
}

// LoggingConfig configures the ambient structured logger.
type LoggingConfig struct {
	Format  string `json:"format" mapstructure:"format"`
	Verbose bool   `json:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Compilation: CompilationConfig{
			AllowCompilationErrors: true,
			BuildTimeoutSeconds:    600,
			BinderStrategy:         "workspace",
		},
		ProjectFilter: ProjectFilterConfig{
			ExcludePatterns: []string{},
			IncludeOnly:     "",
		},
		LayerClassification: LayerClassificationConfig{
			Mode:        "auto",
			Interactive: false,
		},
		Resolution: ResolutionConfig{
			PermitExternalBaseClasses: false,
		},
		Output: OutputConfig{
			Format:             "ndjson",
			Directory:          ".",
			RepoNameInOutput:   false,
			GenerateGraphs:     false,
			GenerateStatistics: false,
		},
		Store: StoreConfig{
			Path:      "grafo.db",
			BatchSize: 500,
		},
		Incremental: IncrementalConfig{
			Threshold: 1.0,
		},
		Logging: LoggingConfig{
			Format:  "human",
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from .grafo/config.json (or GRAFO_CONFIG_PATH).
// For override diagnostics, use LoadConfigWithDetails.
func LoadConfig(repoRoot string) (*Config, error) {
	result, err := LoadConfigWithDetails(repoRoot)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadConfigWithDetails loads configuration and reports how it was loaded:
// which file (if any) and which environment variables overrode it.
func LoadConfigWithDetails(repoRoot string) (*LoadResult, error) {
	result := &LoadResult{}

	if configPath := os.Getenv("GRAFO_CONFIG_PATH"); configPath != "" {
		cfg, err := loadConfigFromPath(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from GRAFO_CONFIG_PATH=%s: %w", configPath, err)
		}
		result.Config = cfg
		result.ConfigPath = configPath
	} else {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(filepath.Join(repoRoot, ".grafo"))

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				result.Config = DefaultConfig()
				result.UsedDefaults = true
			} else {
				return nil, err
			}
		} else {
			cfg := DefaultConfig()
			if err := v.Unmarshal(cfg); err != nil {
				return nil, err
			}
			result.Config = cfg
			result.ConfigPath = v.ConfigFileUsed()
		}
	}

	result.EnvOverrides = applyEnvOverrides(result.Config)
	return result, nil
}

func loadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid JSON in config file: %w", err)
	}
	return cfg, nil
}

// envVarDef describes a single documented environment-variable override.
type envVarDef struct {
	path    string
	varType string // "string", "int", "bool", "float"
}

// envVarMappings is the declarative table driving every override documented
// in the external-interfaces section: env var name -> (config path, type).
var envVarMappings = map[string]envVarDef{
	"EXCLUDE_PROJECTS_REGEX":   {path: "projectFilter.excludePatterns", varType: "string"},
	"ALLOW_COMPILATION_ERRORS": {path: "compilation.allowCompilationErrors", varType: "bool"},
	"GRAFO_DEFAULT_VERSION":    {path: "version", varType: "int"},
	"USE_REPO_NAME_IN_OUTPUT":  {path: "output.repoNameInOutput", varType: "bool"},
	"DEFAULT_OUTPUT_DIR":       {path: "output.directory", varType: "string"},
	"VERBOSE_MODE":             {path: "logging.verbose", varType: "bool"},
	"GENERATE_GRAPHS":          {path: "output.generateGraphs", varType: "bool"},
	"GENERATE_STATISTICS":      {path: "output.generateStatistics", varType: "bool"},
	"GRAFO_STORE_PATH":         {path: "store.path", varType: "string"},
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) []EnvOverride {
	var overrides []EnvOverride

	for envVar, def := range envVarMappings {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		var parsedValue interface{}
		var err error

		switch def.varType {
		case "string":
			parsedValue = value
		case "int":
			parsedValue, err = strconv.Atoi(value)
			if err != nil {
				continue
			}
		case "bool":
			parsedValue, err = strconv.ParseBool(value)
			if err != nil {
				continue
			}
		case "float":
			parsedValue, err = strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
		}

		if applyOverride(cfg, def.path, parsedValue) {
			overrides = append(overrides, EnvOverride{
				EnvVar:    envVar,
				Path:      def.path,
				Value:     parsedValue,
				FromValue: value,
			})
		}
	}

	return overrides
}

// applyOverride applies a single override to the config struct.
func applyOverride(cfg *Config, path string, value interface{}) bool {
	parts := strings.Split(path, ".")

	switch parts[0] {
	case "version":
		if v, ok := value.(int); ok {
			cfg.Version = v
			return true
		}
	case "projectFilter":
		if len(parts) < 2 {
			return false
		}
		if parts[1] == "excludePatterns" {
			if v, ok := value.(string); ok {
				cfg.ProjectFilter.ExcludePatterns = []string{v}
				return true
			}
		}
	case "compilation":
		if len(parts) < 2 {
			return false
		}
		if parts[1] == "allowCompilationErrors" {
			if v, ok := value.(bool); ok {
				cfg.Compilation.AllowCompilationErrors = v
				return true
			}
		}
	case "output":
		if len(parts) < 2 {
			return false
		}
		switch parts[1] {
		case "repoNameInOutput":
			if v, ok := value.(bool); ok {
				cfg.Output.RepoNameInOutput = v
				return true
			}
		case "directory":
			if v, ok := value.(string); ok {
				cfg.Output.Directory = v
				return true
			}
		case "generateGraphs":
			if v, ok := value.(bool); ok {
				cfg.Output.GenerateGraphs = v
				return true
			}
		case "generateStatistics":
			if v, ok := value.(bool); ok {
				cfg.Output.GenerateStatistics = v
				return true
			}
		}
	case "logging":
		if len(parts) < 2 {
			return false
		}
		if parts[1] == "verbose" {
			if v, ok := value.(bool); ok {
				cfg.Logging.Verbose = v
				return true
			}
		}
	case "store":
		if len(parts) < 2 {
			return false
		}
		if parts[1] == "path" {
			if v, ok := value.(string); ok {
				cfg.Store.Path = v
				return true
			}
		}
	}

	return false
}

// GetSupportedEnvVars returns every environment variable this loader honors.
func GetSupportedEnvVars() []string {
	vars := make([]string, 0, len(envVarMappings))
	for v := range envVarMappings {
		vars = append(vars, v)
	}
	return vars
}

// Save writes the configuration to .grafo/config.json.
func (c *Config) Save(repoRoot string) error {
	configPath := filepath.Join(repoRoot, ".grafo", "config.json")
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

var validFormats = map[string]bool{
	"ndjson":      true,
	"json":        true,
	"jsonld":      true,
	"json-legacy": true,
	"xml":         true,
}

var validBinderStrategies = map[string]bool{"workspace": true, "manual": true}
var validLayerModes = map[string]bool{"auto": true, "directory": true, "naming": true}

// Validate checks regex compilability and enum membership before a run
// starts, so configuration mistakes surface as a ConfigurationError rather
// than a mid-run panic.
func (c *Config) Validate() error {
	for _, pattern := range c.ProjectFilter.ExcludePatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return &ConfigError{Field: "projectFilter.excludePatterns", Message: fmt.Sprintf("invalid regex %q: %v", pattern, err)}
		}
	}
	if c.ProjectFilter.IncludeOnly != "" {
		if _, err := regexp.Compile(c.ProjectFilter.IncludeOnly); err != nil {
			return &ConfigError{Field: "projectFilter.includeOnly", Message: fmt.Sprintf("invalid regex %q: %v", c.ProjectFilter.IncludeOnly, err)}
		}
	}
	if !validFormats[c.Output.Format] {
		return &ConfigError{Field: "output.format", Message: fmt.Sprintf("unsupported format %q", c.Output.Format)}
	}
	if !validBinderStrategies[c.Compilation.BinderStrategy] {
		return &ConfigError{Field: "compilation.binderStrategy", Message: fmt.Sprintf("unsupported binder strategy %q", c.Compilation.BinderStrategy)}
	}
	if !validLayerModes[c.LayerClassification.Mode] {
		return &ConfigError{Field: "layerClassification.mode", Message: fmt.Sprintf("unsupported layer classification mode %q", c.LayerClassification.Mode)}
	}
	if c.Store.BatchSize <= 0 {
		return &ConfigError{Field: "store.batchSize", Message: "must be positive"}
	}
	return nil
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Compilation.AllowCompilationErrors {
		t.Error("AllowCompilationErrors should default to true")
	}
	if cfg.Compilation.BinderStrategy != "workspace" {
		t.Errorf("BinderStrategy = %q, want %q", cfg.Compilation.BinderStrategy, "workspace")
	}
	if cfg.LayerClassification.Mode != "auto" {
		t.Errorf("LayerClassification.Mode = %q, want %q", cfg.LayerClassification.Mode, "auto")
	}
	if cfg.Resolution.PermitExternalBaseClasses {
		t.Error("PermitExternalBaseClasses should default to false")
	}
	if cfg.Output.Format != "ndjson" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "ndjson")
	}
	if cfg.Store.BatchSize <= 0 {
		t.Error("Store.BatchSize should be positive")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate cleanly: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"bad exclude pattern", func(c *Config) { c.ProjectFilter.ExcludePatterns = []string{"("} }, true},
		{"bad include-only pattern", func(c *Config) { c.ProjectFilter.IncludeOnly = "[" }, true},
		{"unsupported format", func(c *Config) { c.Output.Format = "yaml" }, true},
		{"unsupported binder strategy", func(c *Config) { c.Compilation.BinderStrategy = "magic" }, true},
		{"unsupported layer mode", func(c *Config) { c.LayerClassification.Mode = "never" }, true},
		{"non-positive batch size", func(c *Config) { c.Store.BatchSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() should have returned an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}
			if err != nil {
				if _, ok := err.(*ConfigError); !ok {
					t.Errorf("Validate() error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "output.format", Message: "unsupported format \"yaml\""}
	got := err.Error()
	want := "config error in field 'output.format': unsupported format \"yaml\""
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Format != "ndjson" {
		t.Errorf("Output.Format = %q, want default %q", cfg.Output.Format, "ndjson")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	grafoDir := filepath.Join(tmpDir, ".grafo")
	if err := os.MkdirAll(grafoDir, 0755); err != nil {
		t.Fatalf("Failed to create .grafo dir: %v", err)
	}

	configContent := `{
		"version": 1,
		"compilation": {"allowCompilationErrors": false, "buildTimeoutSeconds": 120, "binderStrategy": "manual"},
		"output": {"format": "jsonld", "directory": "out", "repoNameInOutput": true}
	}`
	if err := os.WriteFile(filepath.Join(grafoDir, "config.json"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	result, err := LoadConfigWithDetails(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigWithDetails() error = %v", err)
	}
	if result.UsedDefaults {
		t.Error("UsedDefaults should be false when a config file was found")
	}
	if result.Config.Compilation.AllowCompilationErrors {
		t.Error("AllowCompilationErrors should be false as loaded from file")
	}
	if result.Config.Compilation.BinderStrategy != "manual" {
		t.Errorf("BinderStrategy = %q, want %q", result.Config.Compilation.BinderStrategy, "manual")
	}
	if result.Config.Output.Format != "jsonld" {
		t.Errorf("Output.Format = %q, want %q", result.Config.Output.Format, "jsonld")
	}
	if !result.Config.Output.RepoNameInOutput {
		t.Error("RepoNameInOutput should be true as loaded from file")
	}
}

func TestLoadConfig_ConfigPathOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom-config.json")
	configContent := `{"store": {"path": "custom.db", "batchSize": 250}}`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("GRAFO_CONFIG_PATH", configPath)

	result, err := LoadConfigWithDetails(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigWithDetails() error = %v", err)
	}
	if result.ConfigPath != configPath {
		t.Errorf("ConfigPath = %q, want %q", result.ConfigPath, configPath)
	}
	if result.Config.Store.Path != "custom.db" {
		t.Errorf("Store.Path = %q, want %q", result.Config.Store.Path, "custom.db")
	}
	if result.Config.Store.BatchSize != 250 {
		t.Errorf("Store.BatchSize = %d, want 250", result.Config.Store.BatchSize)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ALLOW_COMPILATION_ERRORS", "false")
	t.Setenv("USE_REPO_NAME_IN_OUTPUT", "true")
	t.Setenv("DEFAULT_OUTPUT_DIR", "/tmp/out")
	t.Setenv("GRAFO_STORE_PATH", "/tmp/grafo.db")

	cfg := DefaultConfig()
	overrides := applyEnvOverrides(cfg)

	if cfg.Compilation.AllowCompilationErrors {
		t.Error("ALLOW_COMPILATION_ERRORS=false should have been applied")
	}
	if !cfg.Output.RepoNameInOutput {
		t.Error("USE_REPO_NAME_IN_OUTPUT=true should have been applied")
	}
	if cfg.Output.Directory != "/tmp/out" {
		t.Errorf("Output.Directory = %q, want %q", cfg.Output.Directory, "/tmp/out")
	}
	if cfg.Store.Path != "/tmp/grafo.db" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "/tmp/grafo.db")
	}
	if len(overrides) != 4 {
		t.Errorf("len(overrides) = %d, want 4", len(overrides))
	}
}

func TestGetSupportedEnvVars(t *testing.T) {
	vars := GetSupportedEnvVars()
	want := []string{"EXCLUDE_PROJECTS_REGEX", "ALLOW_COMPILATION_ERRORS", "GRAFO_STORE_PATH"}
	for _, w := range want {
		found := false
		for _, v := range vars {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("GetSupportedEnvVars() missing %q", w)
		}
	}
}

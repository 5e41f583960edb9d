// reltag - version-file driven release tagging
// Source: https://github.com/ariel-frischer/reltag

// Package config provides hierarchical configuration management for reltag using koanf.
// Configuration is loaded with priority: environment variables > explicit --config file
// > project config (<repo>/.reltag.yml or .reltag.json) > user config
// (~/.config/reltag/config.yml) > defaults. Command-line flags are applied on
// top of the result by the cli package.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables mapped onto config keys.
const EnvPrefix = "RELTAG_"

// Configuration represents the reltag configuration
type Configuration struct {
	// RepoPath is the directory of the repository to tag. Relative version
	// and changelog paths are resolved against it.
	RepoPath string `koanf:"repo_path" yaml:"repo_path" validate:"required"`
	// TagPrefix is prepended to the version string to form tag names.
	TagPrefix string `koanf:"tag_prefix" yaml:"tag_prefix"`
	// ChangelogFilter is the regular expression a commit line must match
	// to be included in a changelog section.
	ChangelogFilter string `koanf:"changelog_filter" yaml:"changelog_filter"`
	// Backend selects how git is accessed: "gogit" (library) or "git" (CLI).
	Backend string `koanf:"backend" yaml:"backend" validate:"oneof=gogit git"`
	// GitBinary is the executable used by the "git" backend.
	GitBinary string `koanf:"git_binary" yaml:"git_binary" validate:"required"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// RepoPath is where the project config is looked up (default: current directory).
	RepoPath string
	// ConfigPath is an explicit config file loaded after the project config.
	// Its format is chosen by extension (.json, otherwise YAML).
	ConfigPath string
	// UserConfigPath overrides the user config location (for testing).
	UserConfigPath string
	// SkipUserConfig disables loading the user config entirely.
	SkipUserConfig bool
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
}

// Load loads configuration from defaults, config files and the environment.
func Load(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
			return nil, err
		}
	}

	repoPath := opts.RepoPath
	if repoPath == "" {
		repoPath = "."
	}
	if err := loadProjectConfig(k, repoPath, warningWriter); err != nil {
		return nil, err
	}

	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return nil, fmt.Errorf("config file %s not found", opts.ConfigPath)
		}
		if err := loadFile(k, opts.ConfigPath, "explicit"); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	if opts.RepoPath != "" {
		k.Set("repo_path", opts.RepoPath)
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf, override string) error {
	path := override
	if path == "" {
		var err error
		path, err = UserConfigPath()
		if err != nil {
			// No resolvable config dir (e.g. HOME unset); defaults still apply.
			return nil
		}
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads .reltag.yml, or .reltag.json when no YAML file exists.
// Warns when both exist (YAML used, JSON ignored).
func loadProjectConfig(k *koanf.Koanf, repoPath string, warningWriter io.Writer) error {
	yamlPath := ProjectConfigPath(repoPath)
	jsonPath := ProjectJSONConfigPath(repoPath)

	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if jsonExists {
			fmt.Fprintf(warningWriter, "Warning: %s ignored, using %s\n", jsonPath, yamlPath)
		}
	case jsonExists:
		if err := loadJSONConfig(k, jsonPath, "project"); err != nil {
			return fmt.Errorf("loading project JSON config: %w", err)
		}
	}
	return nil
}

// loadFile loads a config file, choosing the parser by extension.
func loadFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSONConfig(k, path, configType)
	}
	return loadYAMLConfig(k, path, configType)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.RepoPath = expandHomePath(cfg.RepoPath)
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: RELTAG_TAG_PREFIX -> tag_prefix
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

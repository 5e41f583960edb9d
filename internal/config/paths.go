package config

import (
	"os"
	"path/filepath"
)

const (
	// ProjectConfigName is the project-level YAML config file, read from the repository directory.
	ProjectConfigName = ".reltag.yml"
	// ProjectJSONConfigName is the project-level JSON alternative.
	ProjectJSONConfigName = ".reltag.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/reltag/config.yml
// - macOS: ~/Library/Application Support/reltag/config.yml
// - Windows: %APPDATA%\reltag\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "reltag", "config.yml"), nil
}

// ProjectConfigPath returns the YAML project config path inside repoPath.
func ProjectConfigPath(repoPath string) string {
	return filepath.Join(repoPath, ProjectConfigName)
}

// ProjectJSONConfigPath returns the JSON project config path inside repoPath.
func ProjectJSONConfigPath(repoPath string) string {
	return filepath.Join(repoPath, ProjectJSONConfigName)
}

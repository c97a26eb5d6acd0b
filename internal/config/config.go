package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// SecretPermissions is used for files holding credentials (owner only)
	SecretPermissions = 0600
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

// Local override file names looked up in the working directory
const (
	localConfigFile      = ".sihui.yaml"
	localCredentialsFile = ".sihui-credentials.json"
)

var (
	// ConfigDir is the global configuration directory (~/.sihui)
	ConfigDir string

	// ConfigFile is the global settings file
	ConfigFile string

	// CredentialsFile holds the persisted session credentials
	CredentialsFile string

	// DatabaseFile is the SQLite database for the request log and analytics
	DatabaseFile string

	// MockConfigFile is the default route file for the mock backend
	MockConfigFile string
)

// Initialize sets up the configuration directory and default files
// It creates ~/.sihui/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".sihui"))
}

// InitializeAt is Initialize rooted at an arbitrary directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	CredentialsFile = filepath.Join(ConfigDir, "credentials.json")
	DatabaseFile = filepath.Join(ConfigDir, "sihui.db")
	MockConfigFile = filepath.Join(ConfigDir, "mock.yaml")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Seed a settings file so users have something to edit
	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		if err := os.WriteFile(ConfigFile, []byte(defaultConfigYAML), FilePermissions); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

// GetConfigFilePath returns the settings file path (local or global)
func GetConfigFilePath() string {
	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}
	return ConfigFile
}

// GetCredentialsFilePath returns the credentials file path (local or global)
func GetCredentialsFilePath() string {
	if _, err := os.Stat(localCredentialsFile); err == nil {
		return localCredentialsFile
	}
	return CredentialsFile
}

const defaultConfigYAML = `# sihui settings
# api_url: http://localhost:8080/api
timeout: 10s
retries: 0
retry_delay: 1s
rate_limit: 0
history_enabled: true
log_level: info
output: text
`

package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "testagent"

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// GetConfigFile returns the configuration file path
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.json")
}

// GetLogsDir returns the logs directory path
func GetLogsDir() string {
	return filepath.Join(GetConfigDir(), "logs")
}

// GetSessionDir returns the directory used by the file keyring backend
func GetSessionDir() string {
	return filepath.Join(GetConfigDir(), "session")
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(GetConfigDir(), 0700)
}

// EnsureLogsDir creates the logs directory if it doesn't exist
func EnsureLogsDir() error {
	return os.MkdirAll(GetLogsDir(), 0700)
}

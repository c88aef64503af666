package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns PELUSA_CONFIG if set, else ~/.pelusa/config.
func GetConfigPath() (string, error) {
	e, err := ParseEnv()
	if err != nil {
		return "", err
	}
	if e.ConfigPath != "" {
		return e.ConfigPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".pelusa", "config"), nil
}

// EnsureConfigDir creates the directory holding the config file.
func EnsureConfigDir() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

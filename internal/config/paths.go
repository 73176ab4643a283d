package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file, following
// the platform config directory convention (XDG on Linux).
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "molt", "config.yml"), nil
}

// ProjectConfigPath returns the project-level config path, always
// .molt/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".molt", "config.yml")
}

// ProjectConfigDir returns the project-level config directory.
func ProjectConfigDir() string {
	return ".molt"
}

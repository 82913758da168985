package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "VERITY_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "verity.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "verity"
)

// FindConfigPath returns the first existing config file among, in
// order: $VERITY_CONFIG, ./verity.yaml, $XDG_CONFIG_HOME/verity/,
// ~/.config/verity/, /etc/verity/. Empty string when none exist.
func FindConfigPath() string {
	for _, path := range configCandidates() {
		if path == "" || !fileExists(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

func configCandidates() []string {
	paths := []string{
		os.Getenv(EnvConfigPath),
		ConfigFileName,
	}
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	dir := filepath.Dir(configPath)
	return os.MkdirAll(dir, 0755)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

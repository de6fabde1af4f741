package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// xdgDir returns $env/chartpack, or ~/fallback/chartpack when env is unset.
func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, fallback, appName), nil
}

// cacheDir returns the file cache directory (~/.cache/chartpack).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// configPath returns the default config file
// (~/.config/chartpack/config.toml).
func configPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

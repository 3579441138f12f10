package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves the runtime directory before any config is
// parsed, so the setup wizard and .env loading can use it.
func GetRuntimePath() string {
	path := os.Getenv("MIRA_RUNTIME_PATH")
	if path == "" {
		path = ".mira"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}

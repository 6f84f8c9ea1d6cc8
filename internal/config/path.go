package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir  = "/etc/velrecover"
	DefaultConfigName = "config.yaml"
)

const EnvConfigPath = "VELRECOVER_CONFIG"

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigName)
}

// ResolveConfigPath prefers an explicit path, then the environment
// override, then the packaged default.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath()
}

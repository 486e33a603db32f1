// Package paths resolves configuration and data directory locations for
// the codelink CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDir is the per-user directory name used under platform config and
// data roots.
const appDir = "codelink"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".codelink"
	DefaultDataDirName   = ".codelink-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CODELINK_CONFIG_DIR"
	EnvDataDir   = "CODELINK_DATA_DIR"
)

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/codelink (fallback ~/.config/codelink)
// macOS:   ~/Library/Application Support/codelink
// Windows: %APPDATA%/codelink
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return linuxDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/codelink (fallback ~/.local/share/codelink)
// macOS:   ~/Library/Application Support/codelink
// Windows: %APPDATA%/codelink
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return linuxDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

// linuxDir resolves an XDG base directory with its home-relative fallback.
func linuxDir(xdgVar, homeFallback string) (string, error) {
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, appDir), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > CODELINK_CONFIG_DIR env > DefaultConfigDir().
// Relative flag and env values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml value > CODELINK_DATA_DIR env > $(CWD)/.codelink-db.
// The CWD-relative default keeps data next to the project being annotated.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

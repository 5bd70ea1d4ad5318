package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the configuration directories.
const appName = "mdlive"

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// System is the system-wide config path (e.g., /etc/mdlive/config.yaml).
	System string

	// User is the user-level config path (e.g., ~/.config/mdlive/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.mdlive.yml).
	Project string

	// Explicit is a config path provided via --config flag.
	Explicit string
}

// projectConfigFiles are the config file names we search for, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	".mdlive.yml",
	".mdlive.yaml",
	".mdlive.toml",
	"mdlive.yml",
	"mdlive.yaml",
	"mdlive.toml",
}

// dirConfigFiles are the config file names looked up in system and user
// config directories.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dirConfigFiles = []string{"config.yaml", "config.yml", "config.toml"}

// vcsRootMarkers are directories that indicate a VCS root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in standard locations.
// It searches for:
//   - System config at /etc/mdlive/config.{yaml,yml,toml}
//   - User config at $XDG_CONFIG_HOME/mdlive/config.{yaml,yml,toml}
//   - Project config by searching upward from workDir for .mdlive.{yml,yaml,toml}
//
// Missing files are represented as empty strings (not errors).
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	paths := &ConfigPaths{
		System: findSystemConfig(),
		User:   findUserConfig(),
	}

	projectConfig, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = projectConfig

	return paths, nil
}

// findSystemConfig returns the path to the system-wide config file, if it exists.
func findSystemConfig() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return findConfigInDir(filepath.Join(programData, appName))
	}

	return findConfigInDir(filepath.Join("/etc", appName))
}

// UserConfigDir returns the directory holding the user-level config.
func UserConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName), nil
}

// findUserConfig returns the path to the user-level config file, if it exists.
func findUserConfig() string {
	dir, err := UserConfigDir()
	if err != nil {
		return ""
	}
	return findConfigInDir(dir)
}

// findConfigInDir looks for config files in the given directory.
// Returns the path to the first found file, or empty string if none.
func findConfigInDir(dir string) string {
	for _, name := range dirConfigFiles {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config file.
// Returns the path to the first config file found, or empty string if none.
// Stops at VCS roots, the home directory, or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		// If we can't get home dir, we'll just skip the home boundary check.
		homeDir = ""
	}

	currentDir := absDir
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		for _, name := range projectConfigFiles {
			path := filepath.Join(currentDir, name)
			if fileExists(path) {
				return path, nil
			}
		}

		if isVCSRoot(currentDir) {
			return "", nil
		}

		if homeDir != "" && currentDir == homeDir {
			return "", nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

// isVCSRoot returns true if the directory contains a VCS root marker.
func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

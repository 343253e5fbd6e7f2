package xdg

import (
	"os"
	"path/filepath"
)

// XDGDirs provides access to XDG Base Directory Specification compliant paths
type XDGDirs struct {
	stateHome string
	cacheHome string
}

// NewXDGDirs creates a new XDGDirs instance with defaults according to the XDG spec
func NewXDGDirs() *XDGDirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp"
		}
	}

	xdg := &XDGDirs{}

	// XDG_STATE_HOME: user-specific state data
	xdg.stateHome = os.Getenv("XDG_STATE_HOME")
	if xdg.stateHome == "" {
		xdg.stateHome = filepath.Join(homeDir, ".local", "state")
	}

	// XDG_CACHE_HOME: user-specific non-essential (cached) data
	xdg.cacheHome = os.Getenv("XDG_CACHE_HOME")
	if xdg.cacheHome == "" {
		xdg.cacheHome = filepath.Join(homeDir, ".cache")
	}

	return xdg
}

func (x *XDGDirs) StateHome() string {
	return x.stateHome
}

func (x *XDGDirs) CacheHome() string {
	return x.cacheHome
}

// AppStateDir returns the application-specific state directory
func (x *XDGDirs) AppStateDir(appName string) string {
	return filepath.Join(x.stateHome, appName)
}

// AppCacheDir returns the application-specific cache directory
func (x *XDGDirs) AppCacheDir(appName string) string {
	return filepath.Join(x.cacheHome, appName)
}

// EnsureDir creates the directory if it doesn't exist
func (x *XDGDirs) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

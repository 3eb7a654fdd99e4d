package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the default data directory for llamaup.
// Windows: %LOCALAPPDATA%\llamaup
// Linux/Mac: ~/.local/share/llamaup
func DataDir() string {
	if dir := os.Getenv("LLAMAUP_DATA_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "llamaup")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "llamaup")
}

// LogDir returns the directory where the spawned service's output is kept.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}

// ConfigPath returns the default config file location.
// Windows: %APPDATA%\llamaup\config.toml
// Linux/Mac: ~/.config/llamaup/config.toml
func ConfigPath() string {
	if path := os.Getenv("LLAMAUP_CONFIG"); path != "" {
		return path
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "llamaup", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "llamaup", "config.toml")
}

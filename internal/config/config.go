package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultModel is the model pulled by "llamaup setup" when nothing
// else is configured.
const DefaultModel = "llama3.2"

// DefaultInstallURL is the official Ollama installer script.
const DefaultInstallURL = "https://ollama.com/install.sh"

// Config holds the llamaup configuration.
type Config struct {
	// HostURL is the base URL of the Ollama daemon.
	HostURL string `toml:"host_url"`

	// Model is the default model identifier used by setup and chat.
	Model string `toml:"model"`

	// InstallURL is where the installer script is fetched from.
	InstallURL string `toml:"install_url"`

	// ReadyTimeout bounds how long setup waits for the service to
	// answer after spawning it.
	ReadyTimeout duration `toml:"ready_timeout"`

	// LogDir is where the spawned service's output is written.
	LogDir string `toml:"log_dir"`
}

// duration wraps time.Duration so it can be written as "30s" in TOML.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HostURL:      "http://127.0.0.1:11434",
		Model:        DefaultModel,
		InstallURL:   DefaultInstallURL,
		ReadyTimeout: duration{30 * time.Second},
		LogDir:       LogDir(),
	}
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error; the defaults are returned unchanged. Environment
// variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LLAMAUP_HOST"); v != "" {
		cfg.HostURL = v
	}
	if v := os.Getenv("LLAMAUP_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LLAMAUP_INSTALL_URL"); v != "" {
		cfg.InstallURL = v
	}
	if v := os.Getenv("LLAMAUP_READY_TIMEOUT"); v != "" {
		t, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse LLAMAUP_READY_TIMEOUT: %w", err)
		}
		cfg.ReadyTimeout.Duration = t
	}
	if v := os.Getenv("LLAMAUP_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	return nil
}

// EnsureDirs creates the directories llamaup writes into.
func EnsureDirs(cfg *Config) error {
	for _, dir := range []string{DataDir(), cfg.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

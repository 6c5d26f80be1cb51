package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds aaron-asm's optional on-disk settings, loaded with
// -config or from the platform default path. Every field has a usable
// zero-config default, so running without any config file at all is the
// common case.
type Config struct {
	// Execution settings.
	Execution struct {
		MemoryLimit int    `toml:"memory_limit"` // highest legal register index
		MaxSteps    uint64 `toml:"max_steps"`    // 0 = unlimited
	} `toml:"execution"`

	// Display settings. No command reads NumberFormat; numbers are
	// always printed in decimal.
	Display struct {
		NumberFormat string `toml:"number_format"` // "decimal" is the only format Putn supports today
	} `toml:"display"`

	// Lint settings, consulted by -lint.
	Lint struct {
		Enabled    bool `toml:"enabled"`
		WarnNoHalt bool `toml:"warn_no_halt"`
		WarnUnused bool `toml:"warn_unused_labels"`
	} `toml:"lint"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MemoryLimit = 100000
	cfg.Execution.MaxSteps = 0

	cfg.Display.NumberFormat = "decimal"

	cfg.Lint.Enabled = true
	cfg.Lint.WarnNoHalt = true
	cfg.Lint.WarnUnused = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path,
// creating its parent directory if necessary.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "aaron-asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "aaron-asm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path, creating
// it if necessary. aaron-asm itself writes no logs today; this exists so
// a future diagnostics mode has somewhere conventional to write to.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "aaron-asm", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "aaron-asm", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file, or returns
// defaults if it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, or returns defaults if path
// doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Package config loads and persists PLAS's TOML configuration file,
// using the platform-specific config/log directory conventions common to
// CLI tools (SPEC_FULL.md §B.1).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is PLAS's persisted configuration.
type Config struct {
	// Execution controls the VM's dispatch loop.
	Execution struct {
		MaxSteps   int  `toml:"max_steps"`   // 0 = unlimited, matching the core's default (§5)
		DataStrict bool `toml:"data_strict"` // promote `data` from a warning to a fatal error
	} `toml:"execution"`

	// Display controls diagnostic rendering.
	Display struct {
		ColorOutput bool `toml:"color_output"`
	} `toml:"display"`

	// Debugger controls the interactive debugger's defaults.
	Debugger struct {
		UseTUI          bool   `toml:"use_tui"`
		BreakpointsFile string `toml:"breakpoints_file"`
	} `toml:"debugger"`

	// API controls the remote execution server.
	API struct {
		Port int `toml:"port"`
	} `toml:"api"`
}

// DefaultConfig returns PLAS's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxSteps = 10_000_000
	cfg.Execution.DataStrict = false

	cfg.Display.ColorOutput = true

	cfg.Debugger.UseTUI = false
	cfg.Debugger.BreakpointsFile = ""

	cfg.API.Port = 4077

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its directory if necessary.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "plas")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "plas")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific directory for trace/log
// artifacts, creating it if necessary.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "plas", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "plas", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config path, falling back to
// DefaultConfig if no file exists yet.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path.
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

// Save persists c to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo persists c to path.
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

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

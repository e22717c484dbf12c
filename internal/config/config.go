package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds promptvault application configuration (.vault/vault.yaml).
// The lexicon and technique tables live in separate documents, see Store.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Table documents (relative paths resolve against the .vault directory)
	Tables TablesConfig `yaml:"tables"`

	// Feature toggles applied when the engine starts
	Features Features `yaml:"features"`

	// Enhancement history journal
	History HistoryConfig `yaml:"history"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// TablesConfig locates the two table documents.
type TablesConfig struct {
	ConfigPath     string `yaml:"config_path"`
	TechniquesPath string `yaml:"techniques_path"`
}

// HistoryConfig configures the SQLite report journal.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig configures `vault watch`.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DirName is the per-workspace directory holding vault state.
const DirName = ".vault"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "promptvault",
		Version: "0.3.0",

		Tables: TablesConfig{
			ConfigPath:     "config.json",
			TechniquesPath: "techniques.json",
		},

		Features: Features{
			Emotional:  true,
			Cognitive:  true,
			Behavioral: false,
		},

		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "history.db",
		},

		Watch: WatchConfig{
			Debounce: "250ms",
		},

		Logging: LoggingConfig{
			Level:      "info",
			DebugMode:  false,
			JSONFormat: false,
		},
	}
}

// DefaultConfigPath returns the path of vault.yaml inside a workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, DirName, "vault.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults when the workspace was never initialized
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("VAULT_CONFIG_TABLES"); p != "" {
		c.Tables.ConfigPath = p
	}
	if p := os.Getenv("VAULT_TECHNIQUES"); p != "" {
		c.Tables.TechniquesPath = p
	}
	if p := os.Getenv("VAULT_DB"); p != "" {
		c.History.DatabasePath = p
	}
	if v := os.Getenv("VAULT_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = on
			if on {
				c.Logging.Level = "debug"
			}
		}
	}
}

// ResolvePath resolves p against the workspace's .vault directory unless it
// is already absolute.
func ResolvePath(workspace, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, DirName, p)
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond
	}
	return d
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Tables.ConfigPath == "" {
		return fmt.Errorf("tables.config_path not configured (set VAULT_CONFIG_TABLES)")
	}
	if c.Tables.TechniquesPath == "" {
		return fmt.Errorf("tables.techniques_path not configured (set VAULT_TECHNIQUES)")
	}
	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("history enabled but history.database_path is empty")
	}

	if c.Logging.Level != "" {
		valid := false
		for _, l := range ValidLogLevels {
			if c.Logging.Level == l {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
		}
	}

	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
		}
	}

	return nil
}

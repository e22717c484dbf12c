package config

// LoggingConfig configures file logging under .vault/logs.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`             // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"`   // Master toggle - false = no logging
	JSONFormat bool            `yaml:"json_format" json:"json_format,omitempty"` // JSON lines instead of console text
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"`   // Per-category toggles
}

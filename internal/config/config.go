package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables consumed at run time. The systemd service unit sets
// these two; when present they take precedence over the [sheets] section.
const (
	EnvSpreadsheetID      = "GRIDDER_SPREADSHEET_ID"
	EnvServiceAccountFile = "GRIDDER_SERVICE_ACCOUNT_FILE"
)

// Load loads configuration from a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no file read.
// Used when the process is driven entirely by environment variables, which is
// how the timer-triggered service invokes it.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg
}

// applyDefaults fills in default values for unset fields.
func applyDefaults(c *Config) {
	if c.Schedule.Username == "" {
		c.Schedule.Username = "gridder"
	}
	if c.Schedule.Group == "" {
		c.Schedule.Group = "gridder"
	}

	if c.Output.FilenameFormat == "" {
		c.Output.FilenameFormat = "./2006-01-02-_ITEM_.csv"
	}

	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "gridder/1.0"
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = 3
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// expandEnvVars expands ${VAR} references in secret-bearing fields.
func expandEnvVars(c *Config) {
	c.Sheets.SpreadsheetID = expandEnv(c.Sheets.SpreadsheetID)
	c.Sheets.ServiceAccountFile = expandEnv(c.Sheets.ServiceAccountFile)
	c.Notify.Telegram.Token = expandEnv(c.Notify.Telegram.Token)
}

// applyEnvOverrides applies the GRIDDER_* process environment, which wins
// over anything the file says.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv(EnvSpreadsheetID); v != "" {
		c.Sheets.SpreadsheetID = v
		c.Sheets.Enabled = true
	}
	if v := os.Getenv(EnvServiceAccountFile); v != "" {
		c.Sheets.ServiceAccountFile = v
	}
}

// expandEnv expands an environment variable reference of the form
// ${VAR} or ${VAR:default}.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		key := parts[0]
		defaultVal := parts[1]
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}

	return os.Getenv(content)
}

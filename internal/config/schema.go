// Package config provides configuration loading and validation for gridder.
// It supports TOML configuration files with environment variable expansion,
// default values, and comprehensive validation.
//
// Configuration structure:
//   - [schedule]: daily timer settings and the unprivileged run identity
//   - [sheets]: Google Sheets publication target
//   - [output]: CSV file output
//   - [fetch]: HTTP fetch settings for the hints page
//   - [notify.telegram]: optional run report channel
//   - [metrics]: Prometheus endpoint for serve mode
//   - [logging]: logging level, format, and output
//
// Environment variables can be referenced using ${VAR} or ${VAR:default}
// syntax. In addition, GRIDDER_SPREADSHEET_ID and GRIDDER_SERVICE_ACCOUNT_FILE
// override the corresponding [sheets] fields when set, which is how the
// systemd service unit passes them in.
package config

// Config represents the main application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Sheets   SheetsConfig   `toml:"sheets"`
	Output   OutputConfig   `toml:"output"`
	Fetch    FetchConfig    `toml:"fetch"`
	Notify   NotifyConfig   `toml:"notify"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ScheduleConfig holds the daily trigger and the execution identity.
// MinuteDelay is the offset in minutes past the fixed 03:00 hour
// (America/New_York) at which the daily run fires. Username and Group name
// the dedicated unprivileged identity the service runs as.
type ScheduleConfig struct {
	Enabled     bool   `toml:"enabled"`
	MinuteDelay int    `toml:"minute_delay"`
	Username    string `toml:"username"`
	Group       string `toml:"group"`
}

// SheetsConfig holds the Google Sheets publication target. The service
// account file is read by the Sheets client at run time; its existence is
// deliberately not checked at configuration time.
type SheetsConfig struct {
	Enabled            bool   `toml:"enabled"`
	SpreadsheetID      string `toml:"spreadsheet_id"`
	ServiceAccountFile string `toml:"service_account_file"`
}

// OutputConfig holds CSV file output settings. FilenameFormat is a path whose
// final element is a Go time layout, with the literal _ITEM_ replaced by
// "lengths" or "pairs".
type OutputConfig struct {
	Enabled        bool   `toml:"enabled"`
	FilenameFormat string `toml:"filename_format"`
}

// FetchConfig holds HTTP settings for fetching the hints page.
type FetchConfig struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

// NotifyConfig groups the optional notification channels.
type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

// TelegramConfig holds the optional Telegram run report channel.
type TelegramConfig struct {
	Enabled bool   `toml:"enabled"`
	Token   string `toml:"token"`
	ChatID  int64  `toml:"chat_id"`
}

// MetricsConfig holds the Prometheus endpoint settings for serve mode.
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

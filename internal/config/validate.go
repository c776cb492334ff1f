package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration and returns all problems found.
// Validation errors are authoring mistakes: they are fatal to the current
// evaluation and are never retried.
func (c *Config) Validate() []error {
	var errors []error

	// Schedule: minute offset must fit within the fixed hour.
	if c.Schedule.MinuteDelay < 0 || c.Schedule.MinuteDelay > 59 {
		errors = append(errors, fmt.Errorf("schedule.minute_delay must be in range [0, 60), got %d", c.Schedule.MinuteDelay))
	}
	if c.Schedule.Username == "" {
		errors = append(errors, fmt.Errorf("schedule.username cannot be empty"))
	}
	if c.Schedule.Group == "" {
		errors = append(errors, fmt.Errorf("schedule.group cannot be empty"))
	}

	// The service unit carries the spreadsheet target in its environment, so
	// an enabled schedule needs the sheets fields even if ad-hoc runs are
	// CSV-only.
	if c.Sheets.Enabled || c.Schedule.Enabled {
		if c.Sheets.SpreadsheetID == "" {
			errors = append(errors, fmt.Errorf("sheets.spreadsheet_id is required"))
		}
		if c.Sheets.ServiceAccountFile == "" {
			errors = append(errors, fmt.Errorf("sheets.service_account_file is required"))
		}
		// Whether the file exists and is readable is the Sheets client's
		// problem at run time, not a configuration question.
	}

	if c.Output.Enabled {
		if c.Output.FilenameFormat == "" {
			errors = append(errors, fmt.Errorf("output.filename_format cannot be empty when output is enabled"))
		} else if strings.HasSuffix(c.Output.FilenameFormat, "/") {
			errors = append(errors, fmt.Errorf("output.filename_format must not end in a slash: %s", c.Output.FilenameFormat))
		} else if !strings.Contains(c.Output.FilenameFormat, "_ITEM_") {
			errors = append(errors, fmt.Errorf("output.filename_format must contain the _ITEM_ placeholder: %s", c.Output.FilenameFormat))
		}
	}

	if c.Fetch.TimeoutSeconds < 1 {
		errors = append(errors, fmt.Errorf("fetch.timeout_seconds must be >= 1, got %d", c.Fetch.TimeoutSeconds))
	}
	if c.Fetch.MaxAttempts < 1 {
		errors = append(errors, fmt.Errorf("fetch.max_attempts must be >= 1, got %d", c.Fetch.MaxAttempts))
	}

	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.Token == "" {
			errors = append(errors, fmt.Errorf("notify.telegram.token is required when telegram notifications are enabled"))
		}
		if c.Notify.Telegram.ChatID == 0 {
			errors = append(errors, fmt.Errorf("notify.telegram.chat_id is required when telegram notifications are enabled"))
		}
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		errors = append(errors, fmt.Errorf("metrics.listen_addr cannot be empty when metrics are enabled"))
	}

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	return errors
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Schedule.Enabled = true
	cfg.Schedule.MinuteDelay = 2
	cfg.Sheets.Enabled = true
	cfg.Sheets.SpreadsheetID = "1abcDEF"
	cfg.Sheets.ServiceAccountFile = "/var/lib/gridder/sa.json"
	return cfg
}

func TestLoad(t *testing.T) {
	t.Run("loads full config", func(t *testing.T) {
		path := writeConfig(t, `
[schedule]
enabled = true
minute_delay = 45

[sheets]
enabled = true
spreadsheet_id = "1abcDEF"
service_account_file = "/etc/gridder/sa.json"

[logging]
level = "debug"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.True(t, cfg.Schedule.Enabled)
		assert.Equal(t, 45, cfg.Schedule.MinuteDelay)
		assert.Equal(t, "1abcDEF", cfg.Sheets.SpreadsheetID)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("fails on missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.toml")
		require.Error(t, err)
	})

	t.Run("fails on malformed toml", func(t *testing.T) {
		path := writeConfig(t, "[schedule\nenabled = maybe")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		path := writeConfig(t, "")
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "gridder", cfg.Schedule.Username)
		assert.Equal(t, "gridder", cfg.Schedule.Group)
		assert.Equal(t, "./2006-01-02-_ITEM_.csv", cfg.Output.FilenameFormat)
		assert.Equal(t, 30, cfg.Fetch.TimeoutSeconds)
		assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "stdout", cfg.Logging.Output)
	})

	t.Run("env overrides win over file", func(t *testing.T) {
		t.Setenv(EnvSpreadsheetID, "env-sheet")
		t.Setenv(EnvServiceAccountFile, "/run/creds/sa.json")

		path := writeConfig(t, `
[sheets]
spreadsheet_id = "file-sheet"
service_account_file = "/etc/sa.json"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "env-sheet", cfg.Sheets.SpreadsheetID)
		assert.Equal(t, "/run/creds/sa.json", cfg.Sheets.ServiceAccountFile)
		assert.True(t, cfg.Sheets.Enabled)
	})

	t.Run("expands env references", func(t *testing.T) {
		t.Setenv("MY_TG_TOKEN", "123:abc")

		path := writeConfig(t, `
[notify.telegram]
token = "${MY_TG_TOKEN}"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "123:abc", cfg.Notify.Telegram.Token)
	})

	t.Run("expands env references with defaults", func(t *testing.T) {
		path := writeConfig(t, `
[sheets]
spreadsheet_id = "${GRIDDER_UNSET_VAR:fallback-id}"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "fallback-id", cfg.Sheets.SpreadsheetID)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		cfg := validConfig()
		assert.Empty(t, cfg.Validate())
	})

	t.Run("minute_delay range", func(t *testing.T) {
		cases := []struct {
			delay int
			valid bool
		}{
			{-1, false},
			{0, true},
			{2, true},
			{45, true},
			{59, true},
			{60, false},
			{120, false},
		}
		for _, tc := range cases {
			cfg := validConfig()
			cfg.Schedule.MinuteDelay = tc.delay
			errs := cfg.Validate()
			if tc.valid {
				assert.Empty(t, errs, "minute_delay=%d", tc.delay)
			} else {
				require.NotEmpty(t, errs, "minute_delay=%d", tc.delay)
				assert.Contains(t, errs[0].Error(), "schedule.minute_delay")
			}
		}
	})

	t.Run("spreadsheet_id required when sheets enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sheets.SpreadsheetID = ""
		errs := cfg.Validate()
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0].Error(), "sheets.spreadsheet_id")
	})

	t.Run("sheets fields required when schedule enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sheets.Enabled = false
		cfg.Sheets.SpreadsheetID = ""
		cfg.Sheets.ServiceAccountFile = ""
		errs := cfg.Validate()
		assert.Len(t, errs, 2)
	})

	t.Run("sheets fields optional when everything disabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Schedule.Enabled = false
		cfg.Sheets.Enabled = false
		cfg.Sheets.SpreadsheetID = ""
		cfg.Sheets.ServiceAccountFile = ""
		assert.Empty(t, cfg.Validate())
	})

	t.Run("filename_format must keep placeholder", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output.Enabled = true
		cfg.Output.FilenameFormat = "./2006-01-02.csv"
		errs := cfg.Validate()
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0].Error(), "_ITEM_")
	})

	t.Run("filename_format must not be a directory", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output.Enabled = true
		cfg.Output.FilenameFormat = "./out/_ITEM_/"
		errs := cfg.Validate()
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0].Error(), "slash")
	})

	t.Run("telegram requires token and chat", func(t *testing.T) {
		cfg := validConfig()
		cfg.Notify.Telegram.Enabled = true
		errs := cfg.Validate()
		assert.Len(t, errs, 2)
	})

	t.Run("invalid logging level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "loud"
		errs := cfg.Validate()
		require.NotEmpty(t, errs)
		assert.Contains(t, errs[0].Error(), "logging.level")
	})
}

package systemd

import (
	"strings"
	"testing"

	"github.com/spellgrid/gridder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduleConfig(minuteDelay int) *config.Config {
	cfg := config.Default()
	cfg.Schedule.Enabled = true
	cfg.Schedule.MinuteDelay = minuteDelay
	cfg.Sheets.SpreadsheetID = "1abcDEF"
	cfg.Sheets.ServiceAccountFile = "/var/lib/gridder/sa.json"
	return cfg
}

func TestCompose(t *testing.T) {
	t.Run("disabled schedule produces nothing", func(t *testing.T) {
		cfg := scheduleConfig(2)
		cfg.Schedule.Enabled = false

		artifacts, err := Compose(cfg, "")
		require.NoError(t, err)
		assert.Nil(t, artifacts)
	})

	t.Run("enabled schedule produces one service and one timer", func(t *testing.T) {
		artifacts, err := Compose(scheduleConfig(2), "")
		require.NoError(t, err)
		require.NotNil(t, artifacts)

		assert.Equal(t, "gridder.service", artifacts.Service.Name)
		assert.Equal(t, "gridder.timer", artifacts.Timer.Name)
		assert.NotEmpty(t, artifacts.Sysusers)
	})

	t.Run("service environment carries values verbatim", func(t *testing.T) {
		cfg := scheduleConfig(2)
		cfg.Sheets.SpreadsheetID = "1x_Y-z:with/odd chars"
		cfg.Sheets.ServiceAccountFile = "/path with spaces/sa.json"

		artifacts, err := Compose(cfg, "")
		require.NoError(t, err)

		rendered := artifacts.Service.Render()
		assert.Contains(t, rendered, "Environment=GRIDDER_SPREADSHEET_ID=1x_Y-z:with/odd chars\n")
		assert.Contains(t, rendered, "Environment=GRIDDER_SERVICE_ACCOUNT_FILE=/path with spaces/sa.json\n")
	})

	t.Run("identity defaults to gridder", func(t *testing.T) {
		artifacts, err := Compose(scheduleConfig(2), "")
		require.NoError(t, err)

		rendered := artifacts.Service.Render()
		assert.Contains(t, rendered, "User=gridder\n")
		assert.Contains(t, rendered, "Group=gridder\n")
		assert.Contains(t, artifacts.Sysusers, "u gridder ")
		assert.Contains(t, artifacts.Sysusers, "g gridder ")
	})

	t.Run("custom identity is respected", func(t *testing.T) {
		cfg := scheduleConfig(2)
		cfg.Schedule.Username = "beekeeper"
		cfg.Schedule.Group = "hive"

		artifacts, err := Compose(cfg, "")
		require.NoError(t, err)

		rendered := artifacts.Service.Render()
		assert.Contains(t, rendered, "User=beekeeper\n")
		assert.Contains(t, rendered, "Group=hive\n")
		assert.Contains(t, artifacts.Sysusers, "g hive -\n")
		assert.Contains(t, artifacts.Sysusers, "u beekeeper ")
	})

	t.Run("timer references the service and the trigger", func(t *testing.T) {
		artifacts, err := Compose(scheduleConfig(45), "")
		require.NoError(t, err)

		rendered := artifacts.Timer.Render()
		assert.Contains(t, rendered, "OnCalendar=*-*-* 03:45:00 America/New_York\n")
		assert.Contains(t, rendered, "Unit=gridder.service\n")
		assert.Contains(t, rendered, "Persistent=true\n")
		assert.Contains(t, rendered, "WantedBy=timers.target\n")
	})

	t.Run("exec start defaults and can be overridden", func(t *testing.T) {
		artifacts, err := Compose(scheduleConfig(2), "")
		require.NoError(t, err)
		assert.Contains(t, artifacts.Service.Render(), "ExecStart=/usr/bin/gridder run\n")

		artifacts, err = Compose(scheduleConfig(2), "/opt/gridder/bin/gridder run --csv-only")
		require.NoError(t, err)
		assert.Contains(t, artifacts.Service.Render(), "ExecStart=/opt/gridder/bin/gridder run --csv-only\n")
	})

	t.Run("rejects out of range minute delay", func(t *testing.T) {
		cfg := scheduleConfig(60)
		_, err := Compose(cfg, "")
		assert.Error(t, err)
	})

	t.Run("composition is idempotent", func(t *testing.T) {
		cfg := scheduleConfig(7)

		first, err := Compose(cfg, "")
		require.NoError(t, err)
		second, err := Compose(cfg, "")
		require.NoError(t, err)

		assert.Equal(t, first.Service.Render(), second.Service.Render())
		assert.Equal(t, first.Timer.Render(), second.Timer.Render())
		assert.Equal(t, first.Sysusers, second.Sysusers)
	})
}

func TestUnitRender(t *testing.T) {
	unit := Unit{
		Name: "test.service",
		Sections: []Section{
			{Name: "Unit", Entries: []Entry{{"Description", "test"}}},
			{Name: "Service", Entries: []Entry{
				{"Environment", "A=1"},
				{"Environment", "B=2"},
			}},
		},
	}

	rendered := unit.Render()
	want := "[Unit]\nDescription=test\n\n[Service]\nEnvironment=A=1\nEnvironment=B=2\n"
	assert.Equal(t, want, rendered)
	assert.False(t, strings.HasPrefix(rendered, "\n"))
}

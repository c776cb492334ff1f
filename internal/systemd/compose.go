package systemd

import (
	"fmt"

	"github.com/spellgrid/gridder/internal/config"
)

// DefaultExecStart is the command line the service unit runs. The binary is
// built and installed separately; this module only references it.
const DefaultExecStart = "/usr/bin/gridder run"

// Artifacts is the full set of descriptors consumed by the host: the service
// unit, the timer that fires it, and the sysusers fragment that creates the
// run identity.
type Artifacts struct {
	Service  Unit
	Timer    Unit
	Sysusers string
}

// Compose builds the deployment artifacts from a validated configuration.
// When the schedule is disabled it returns (nil, nil): no service, no timer,
// and no identity. ExecStart falls back to DefaultExecStart when empty.
func Compose(cfg *config.Config, execStart string) (*Artifacts, error) {
	if !cfg.Schedule.Enabled {
		return nil, nil
	}

	trigger, err := OnCalendar(cfg.Schedule.MinuteDelay)
	if err != nil {
		return nil, err
	}

	if execStart == "" {
		execStart = DefaultExecStart
	}

	service := Unit{
		Name: "gridder.service",
		Sections: []Section{
			{
				Name: "Unit",
				Entries: []Entry{
					{"Description", "Collect the daily hints grid and publish it"},
					{"Wants", "network-online.target"},
					{"After", "network-online.target"},
				},
			},
			{
				Name: "Service",
				Entries: []Entry{
					{"Type", "oneshot"},
					{"ExecStart", execStart},
					{"User", cfg.Schedule.Username},
					{"Group", cfg.Schedule.Group},
					// Values pass through verbatim; the program reads them
					// from its environment and nothing else.
					{"Environment", fmt.Sprintf("%s=%s", config.EnvSpreadsheetID, cfg.Sheets.SpreadsheetID)},
					{"Environment", fmt.Sprintf("%s=%s", config.EnvServiceAccountFile, cfg.Sheets.ServiceAccountFile)},
				},
			},
		},
	}

	timer := Unit{
		Name: "gridder.timer",
		Sections: []Section{
			{
				Name: "Unit",
				Entries: []Entry{
					{"Description", "Daily gridder run"},
				},
			},
			{
				Name: "Timer",
				Entries: []Entry{
					{"OnCalendar", trigger},
					{"Persistent", "true"},
					{"Unit", service.Name},
				},
			},
			{
				Name: "Install",
				Entries: []Entry{
					{"WantedBy", "timers.target"},
				},
			},
		},
	}

	return &Artifacts{
		Service:  service,
		Timer:    timer,
		Sysusers: renderSysusers(cfg.Schedule.Username, cfg.Schedule.Group),
	}, nil
}

// renderSysusers builds a sysusers.d fragment declaring the group and the
// system user the service runs as. Conflicts with pre-existing identities
// are the host's to report.
func renderSysusers(username, group string) string {
	return fmt.Sprintf("g %s -\nu %s - \"gridder scheduled run\" - -\n", group, username)
}

// Package systemd composes the deployment artifacts for the scheduled daily
// run: a service unit, a timer unit, and a sysusers fragment for the
// unprivileged identity. Composition is pure; rendering the same
// configuration twice produces byte-identical output.
package systemd

import "fmt"

// The daily trigger fires at a fixed hour in a fixed zone; only the minute
// offset is configurable. The hour tracks when the upstream page reliably
// exists.
const (
	TriggerHour = 3
	TriggerZone = "America/New_York"
)

// OnCalendar returns the systemd calendar expression for a daily run at
// TriggerHour and the given minute offset, in TriggerZone. The minute field
// is always rendered as exactly two digits; the consuming scheduler parses
// the expression positionally.
func OnCalendar(minuteDelay int) (string, error) {
	if minuteDelay < 0 || minuteDelay > 59 {
		return "", fmt.Errorf("minute delay must be in range [0, 60), got %d", minuteDelay)
	}
	return fmt.Sprintf("*-*-* %02d:%02d:00 %s", TriggerHour, minuteDelay, TriggerZone), nil
}

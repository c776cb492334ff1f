package systemd

import "strings"

// Entry is a single key/value line in a unit file section. Repeated keys
// (Environment=) are separate entries.
type Entry struct {
	Key   string
	Value string
}

// Section is a named unit file section with ordered entries.
type Section struct {
	Name    string
	Entries []Entry
}

// Unit is a renderable unit file. Sections and entries keep their insertion
// order so rendering is deterministic.
type Unit struct {
	Name     string
	Sections []Section
}

// Render produces the unit file text.
func (u *Unit) Render() string {
	var b strings.Builder
	for i, sec := range u.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[")
		b.WriteString(sec.Name)
		b.WriteString("]\n")
		for _, e := range sec.Entries {
			b.WriteString(e.Key)
			b.WriteString("=")
			b.WriteString(e.Value)
			b.WriteString("\n")
		}
	}
	return b.String()
}

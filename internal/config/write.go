package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"chime/internal/lockfile"
)

// standardTemplates is the serialization order for the fixed template keys.
var standardTemplates = []string{"fiftyfive", "hour", "rules", "ad"}

// Write serializes a snapshot to path under an exclusive lock, in the same
// section layout the editor produces. Schedule entries are sorted by time
// key; fixed templates come before custom ones; custom template values are
// quoted with newlines and quotes escaped.
func Write(path string, snap *Snapshot) error {
	return lockfile.WithExclusive(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, func(f *os.File) error {
		var b strings.Builder

		b.WriteString("[credentials]\n")
		b.WriteString("server = " + snap.Credentials.Server + "\n")
		b.WriteString("database = " + snap.Credentials.Database + "\n")
		b.WriteString("username = " + snap.Credentials.Username + "\n")
		b.WriteString("password = " + snap.Credentials.Password + "\n\n")

		b.WriteString("[schedule]\n")
		times := make([]string, 0, len(snap.Schedule))
		for at := range snap.Schedule {
			times = append(times, at)
		}
		sort.Strings(times)
		for _, at := range times {
			fmt.Fprintf(&b, "%s = %s\n", at, snap.Schedule[at])
		}
		b.WriteString("\n[templates]\n")
		for _, key := range standardTemplates {
			if value, ok := snap.Templates[key]; ok {
				fmt.Fprintf(&b, "%s = %s\n", key, value)
			}
		}
		customs := make([]string, 0, len(snap.Templates))
		for key := range snap.Templates {
			if strings.HasPrefix(key, "custom_") {
				customs = append(customs, key)
			}
		}
		sort.Strings(customs)
		for _, key := range customs {
			escaped := strings.ReplaceAll(snap.Templates[key], "\n", `\n`)
			escaped = strings.ReplaceAll(escaped, `"`, `\"`)
			fmt.Fprintf(&b, "%s = \"%s\"\n", key, escaped)
		}

		b.WriteString("\n[voice]\n")
		b.WriteString("voice_id = " + snap.Voice.ID + "\n")
		b.WriteString("output_format = " + snap.Voice.OutputFormat + "\n")

		_, err := f.WriteString(b.String())
		return err
	})
}

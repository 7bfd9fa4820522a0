package config

import (
	"bufio"
	"io"
	"strings"
)

// parseDocument reads an INI-style document into a fresh snapshot. Blank
// lines and #-comments are skipped, [section] headers switch context
// case-insensitively, and surrounding quotes on values are stripped. Unknown
// sections and keys are ignored rather than rejected so editor versions may
// add fields without breaking older daemons.
func parseDocument(r io.Reader) (*Snapshot, error) {
	snap := New()
	section := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		switch section {
		case "credentials":
			switch strings.ToLower(key) {
			case "server":
				snap.Credentials.Server = value
			case "database":
				snap.Credentials.Database = value
			case "username":
				snap.Credentials.Username = value
			case "password":
				snap.Credentials.Password = value
			}
		case "schedule":
			// Keys are HH:MM strings; case is irrelevant but preserved.
			snap.Schedule[key] = value
		case "templates":
			snap.Templates[strings.ToLower(key)] = value
		case "voice":
			switch strings.ToLower(key) {
			case "voice_id":
				snap.Voice.ID = value
			case "output_format":
				snap.Voice.OutputFormat = strings.ToLower(value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

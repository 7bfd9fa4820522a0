package config

import (
	"fmt"
	"strings"
)

// Validate checks the invariants a snapshot must satisfy before the scheduler
// may use it. A missing or empty schedule is deliberately not an error.
func (s *Snapshot) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Credentials.Server) == "" {
		missing = append(missing, "credentials.server")
	}
	if strings.TrimSpace(s.Credentials.Database) == "" {
		missing = append(missing, "credentials.database")
	}
	if strings.TrimSpace(s.Credentials.Username) == "" {
		missing = append(missing, "credentials.username")
	}
	if strings.TrimSpace(s.Credentials.Password) == "" {
		missing = append(missing, "credentials.password")
	}
	if strings.TrimSpace(s.Voice.ID) == "" {
		missing = append(missing, "voice.voice_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}

package colors

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	_ "modernc.org/sqlite"

	"chime/internal/config"
	"chime/internal/schedule"
)

// Source yields the current position-to-color mapping, keyed color1..colorN.
// A nil map with a nil error means the store holds no color rows.
type Source interface {
	Fetch(ctx context.Context, creds config.Credentials) (map[string]string, error)
}

// SQLSource reads color rotation data from the operations database. With the
// sqlite driver the credential's Server field is the database path; the
// remaining credential fields are validated upstream and recorded for
// diagnostics.
type SQLSource struct {
	// PrinterGroup selects which ticket printer group's colors rotate.
	PrinterGroup int

	// RotationMinutes is the elapsed time per rotation step.
	RotationMinutes int

	// BusyTimeout bounds how long queries wait on a locked database.
	BusyTimeout time.Duration

	// Now is overridable for tests.
	Now func() time.Time
}

var titleCaser = cases.Title(language.English)

// Fetch connects, derives the current rotation interval from elapsed minutes
// since the shift start, and returns the adjusted position of every color.
func (s *SQLSource) Fetch(ctx context.Context, creds config.Credentials) (map[string]string, error) {
	db, err := sql.Open("sqlite", creds.Server)
	if err != nil {
		return nil, fmt.Errorf("open color database: %w", err)
	}
	defer db.Close()

	busy := s.BusyTimeout
	if busy <= 0 {
		busy = 30 * time.Second
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds())); err != nil {
		return nil, fmt.Errorf("apply busy timeout: %w", err)
	}

	var shiftStart string
	err = db.QueryRowContext(ctx, "SELECT shiftdatechangetime FROM applicationinfo").Scan(&shiftStart)
	if err != nil {
		return nil, fmt.Errorf("read shift start: %w", err)
	}
	hour, minute, err := schedule.ParseTimeOfDay(clipSeconds(shiftStart))
	if err != nil {
		return nil, fmt.Errorf("shift start %q: %w", shiftStart, err)
	}

	group := s.PrinterGroup
	if group == 0 {
		group = 1
	}
	rows, err := db.QueryContext(ctx,
		"SELECT color FROM ticketprintergroupcolors WHERE ticketprintergroupno = ? ORDER BY corder", group)
	if err != nil {
		return nil, fmt.Errorf("read printer group colors: %w", err)
	}
	defer rows.Close()

	var codes []int64
	for rows.Next() {
		var code int64
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan color row: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate color rows: %w", err)
	}
	if len(codes) == 0 {
		// No rows is "no data", not a failure; the caller supplies defaults.
		return nil, nil
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	interval := rotationInterval(now(), hour, minute, s.rotationMinutes(), len(codes))

	result := make(map[string]string, len(codes))
	for i, code := range codes {
		position := (i-interval+len(codes))%len(codes) + 1
		result[fmt.Sprintf("color%d", position)] = titleCaser.String(colorName(code))
	}
	return result, nil
}

func (s *SQLSource) rotationMinutes() int {
	if s.RotationMinutes > 0 {
		return s.RotationMinutes
	}
	return 30
}

// rotationInterval computes how many rotation steps have elapsed since the
// shift start, wrapping across midnight and cycling through the color count.
func rotationInterval(now time.Time, shiftHour, shiftMinute, rotationMinutes, total int) int {
	elapsed := (now.Hour()*60 + now.Minute()) - (shiftHour*60 + shiftMinute)
	if elapsed < 0 {
		elapsed += 24 * 60
	}
	return (elapsed / rotationMinutes) % total
}

// colorName maps the store's packed ARGB color codes to spoken names.
func colorName(code int64) string {
	switch code {
	case -65536:
		return "red"
	case -256:
		return "yellow"
	case -16711681:
		return "blue"
	case -16711936:
		return "green"
	case -23296:
		return "orange"
	default:
		return "unknown"
	}
}

// clipSeconds trims a trailing ":SS" component from HH:MM:SS values.
func clipSeconds(s string) string {
	if len(s) >= 8 && s[2] == ':' && s[5] == ':' {
		return s[:5]
	}
	return s
}

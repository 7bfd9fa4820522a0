package config

import "time"

// FallbackFile is the generic configuration used when no day-specific file
// exists.
const FallbackFile = "config.ini"

var dayFiles = [7]string{
	"mon.ini",
	"tue.ini",
	"wed.ini",
	"thurs.ini",
	"fri.ini",
	"sat.ini",
	"sun.ini",
}

// DayFile maps a weekday number (0=Monday .. 6=Sunday) to its configuration
// filename. Out-of-range input returns FallbackFile.
func DayFile(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return FallbackFile
	}
	return dayFiles[weekday]
}

// DayFileFor returns the configuration filename for the given wall-clock
// date. time.Weekday counts from Sunday; the schedule counts from Monday.
func DayFileFor(t time.Time) string {
	return DayFile((int(t.Weekday()) + 6) % 7)
}

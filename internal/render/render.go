// Package render turns a schedule entry and fetched color data into the text
// handed to speech synthesis.
package render

import (
	"errors"
	"fmt"
	"strings"

	"chime/internal/schedule"
)

// ErrMissingPlaceholder reports a template referencing a placeholder that has
// no value. The event is abandoned; the loop continues.
var ErrMissingPlaceholder = errors.New("template placeholder has no value")

// DefaultHourTemplate is used when an announcement tag has no configured
// template.
const DefaultHourTemplate = "Attention! It's {time}."

// colorKeys are the placeholder names filled from auxiliary data.
var colorKeys = [4]string{"color1", "color2", "color3", "color4"}

// TemplateKey maps an announcement type tag to its template key. Fixed tags
// map directly (with ":55" as a legacy spelling of fiftyfive), custom:<name>
// maps to custom_<name>, and anything unknown falls back to the hour
// template.
func TemplateKey(tag string) string {
	switch tag {
	case ":55", "fiftyfive":
		return "fiftyfive"
	case "hour", "rules", "ad":
		return tag
	}
	if name, ok := strings.CutPrefix(tag, "custom:"); ok {
		return "custom_" + name
	}
	return "hour"
}

// TemplateFor selects the template text for a tag from the configured set,
// falling back to DefaultHourTemplate.
func TemplateFor(templates map[string]string, tag string) string {
	if tpl, ok := templates[TemplateKey(tag)]; ok && tpl != "" {
		return tpl
	}
	return DefaultHourTemplate
}

// Announcement substitutes {time} and {color1..4} into the template. The
// time renders in 12-hour clock form; colors missing from the fetched data
// read as the literal "unknown". A placeholder the variable set does not
// cover is a rendering failure.
func Announcement(template, timeOfDay string, colors map[string]string) (string, error) {
	vars := map[string]string{"time": To12Hour(timeOfDay)}
	for _, key := range colorKeys {
		vars[key] = "unknown"
		if value, ok := colors[key]; ok && value != "" {
			vars[key] = value
		}
	}
	return substitute(template, vars)
}

// To12Hour converts "HH:MM" to 12-hour clock form with AM/PM. Midnight hours
// render as 12, afternoon hours drop 12. Unparseable input passes through
// unchanged.
func To12Hour(timeOfDay string) string {
	hour, minute, err := schedule.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return timeOfDay
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

func substitute(template string, vars map[string]string) (string, error) {
	var out strings.Builder
	rest := template
	for {
		before, after, found := strings.Cut(rest, "{")
		out.WriteString(before)
		if !found {
			return out.String(), nil
		}
		name, tail, closed := strings.Cut(after, "}")
		if !closed {
			return "", fmt.Errorf("%w: unterminated placeholder in %q", ErrMissingPlaceholder, template)
		}
		value, ok := vars[name]
		if !ok {
			return "", fmt.Errorf("%w: {%s}", ErrMissingPlaceholder, name)
		}
		out.WriteString(value)
		rest = tail
	}
}

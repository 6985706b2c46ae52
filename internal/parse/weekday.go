package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var dayRe = regexp.MustCompile(`^([a-z]{2,9})\.?$`)

// Weekday normalises a day name to its canonical English form, e.g.
// "mon", "Mon." and "MONDAY" all become "Monday". Any unambiguous prefix
// of at least two letters is accepted, so "tu" is Tuesday but "t" is not.
func Weekday(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	m := dayRe.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("unable to parse weekday: %q", raw)
	}

	match := ""
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if !strings.HasPrefix(strings.ToLower(name), m[1]) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("ambiguous weekday: %q", raw)
		}
		match = name
	}
	if match == "" {
		return "", fmt.Errorf("unable to parse weekday: %q", raw)
	}
	return match, nil
}

// WeekdayOr is Weekday with a fallback for unparseable input.
func WeekdayOr(raw, fallback string) string {
	if day, err := Weekday(raw); err == nil {
		return day
	}
	return fallback
}

package config

import (
	"strings"
	"time"
)

type CalendarConfig interface {
	GetWeekStart() time.Weekday
	GetLocation() *time.Location
}

type Calendar struct{}

var _ CalendarConfig = Calendar{}

// GetWeekStart reads WEEK_START as a weekday name ("monday", "Sun", ...). Defaults to Monday.
func (Calendar) GetWeekStart() time.Weekday {
	value := strings.ToLower(strings.TrimSpace(GetEnv("WEEK_START", "monday")))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if value == name || (len(value) >= 3 && strings.HasPrefix(name, value)) {
			return d
		}
	}
	return time.Monday
}

func (Calendar) GetLocation() *time.Location {
	tz := GetEnv("TZ", "")
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

// Package calendar builds the six week month grid shown by the calendar view.
package calendar

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// GridDays is the number of cells in a month grid: six weeks.
const GridDays = 42

// Day is one cell of a month grid. Date is midnight in the generator's location.
type Day struct {
	Date           time.Time
	IsPast         bool
	IsToday        bool
	IsCurrentMonth bool
}

// Grid is the generated view of one month.
type Grid struct {
	// Month is midnight on the 1st of the displayed month.
	Month     time.Time
	WeekStart time.Weekday
	Days      []Day
}

// Range returns the first and last dates of the grid.
func (g Grid) Range() (first, last time.Time) {
	if len(g.Days) == 0 {
		return time.Time{}, time.Time{}
	}
	return g.Days[0].Date, g.Days[len(g.Days)-1].Date
}

// Title is the month name and year, e.g. "March 2024".
func (g Grid) Title() string {
	return fmt.Sprintf("%s %d", g.Month.Month(), g.Month.Year())
}

// WeekdayNames lists the column headers starting at the week start.
func (g Grid) WeekdayNames() []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((int(g.WeekStart) + i) % 7).String()
	}
	return names
}

// Weeks splits the days into rows of seven.
func (g Grid) Weeks() [][]Day {
	weeks := make([][]Day, 0, len(g.Days)/7)
	for i := 0; i+7 <= len(g.Days); i += 7 {
		weeks = append(weeks, g.Days[i:i+7])
	}
	return weeks
}

func (g Grid) MarshalZerologObject(e *zerolog.Event) {
	first, last := g.Range()
	e.Str("month", g.Title()).
		Str("week_start", g.WeekStart.String()).
		Time("first", first).
		Time("last", last)
}

package calendar

import (
	"time"
)

// Generator produces month grids. Its output is a function of the reference
// date and the injected clock only.
type Generator struct {
	weekStart time.Weekday
	location  *time.Location
	nowFunc   func() time.Time
}

// GeneratorOption defines a function type to modify the Generator instance.
type GeneratorOption func(*Generator)

// WithWeekStart sets the first column of the grid (default Monday). Values
// outside Sunday..Saturday are ignored.
func WithWeekStart(day time.Weekday) GeneratorOption {
	return func(g *Generator) {
		if day >= time.Sunday && day <= time.Saturday {
			g.weekStart = day
		}
	}
}

// WithLocation sets the time zone the grid dates are expressed in (default time.Local).
func WithLocation(loc *time.Location) GeneratorOption {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

// WithNowFunc sets the clock used for the past and today flags (primarily for testing)
func WithNowFunc(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.nowFunc = now
	}
}

func NewGenerator(options ...GeneratorOption) *Generator {
	g := &Generator{
		weekStart: time.Monday,
		location:  time.Local,
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *Generator) WeekStart() time.Weekday {
	return g.weekStart
}

// Generate returns the 42 day grid for ref's month. The first cell is the
// latest week start on or before the 1st of the month.
func (g *Generator) Generate(ref time.Time) Grid {
	month := g.firstOfMonth(ref)
	offset := (int(month.Weekday()) - int(g.weekStart) + 7) % 7
	start := month.AddDate(0, 0, -offset)
	today := g.midnight(g.nowFunc())

	days := make([]Day, GridDays)
	for i := range days {
		date := start.AddDate(0, 0, i)
		days[i] = Day{
			Date:           date,
			IsPast:         date.Before(today),
			IsToday:        date.Equal(today),
			IsCurrentMonth: date.Month() == month.Month() && date.Year() == month.Year(),
		}
	}

	return Grid{
		Month:     month,
		WeekStart: g.weekStart,
		Days:      days,
	}
}

// Next generates the month after ref's month.
func (g *Generator) Next(ref time.Time) Grid {
	return g.Generate(g.firstOfMonth(ref).AddDate(0, 1, 0))
}

// Previous generates the month before ref's month.
func (g *Generator) Previous(ref time.Time) Grid {
	return g.Generate(g.firstOfMonth(ref).AddDate(0, -1, 0))
}

// Today generates the grid for the current month.
func (g *Generator) Today() Grid {
	return g.Generate(g.nowFunc())
}

func (g *Generator) firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.In(g.location).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, g.location)
}

func (g *Generator) midnight(t time.Time) time.Time {
	y, m, d := t.In(g.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.location)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jrsteele09/go-calendar-client/calendar"
	"github.com/jrsteele09/go-calendar-client/events"
	"github.com/jrsteele09/go-calendar-client/internal/utils"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	timeLayout  = "2006-01-02 15:04"
)

// month prints the grid for the requested month, marking days that have events.
func (a *app) month(ctx context.Context, args []string) error {
	grid, err := a.gridFor(args)
	if err != nil {
		return err
	}

	first, last := grid.Range()
	reqCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	list, err := a.events.ListInRange(reqCtx, first, last)
	if err != nil {
		return err
	}

	a.printf("%s\n", grid.Title())
	for _, name := range grid.WeekdayNames() {
		a.printf(" %-4s", name[:3])
	}
	a.printf("\n")
	for _, week := range grid.Weeks() {
		for _, day := range week {
			a.printf(" %s", dayCell(day, len(events.ForDay(list, day.Date)) > 0))
		}
		a.printf("\n")
	}
	return nil
}

func (a *app) gridFor(args []string) (calendar.Grid, error) {
	now := time.Now().In(a.cfg.GetLocation())
	if len(args) == 0 {
		return a.generator.Today(), nil
	}
	switch args[0] {
	case "next":
		return a.generator.Next(now), nil
	case "prev", "previous":
		return a.generator.Previous(now), nil
	}
	ref, err := time.ParseInLocation(monthLayout, args[0], a.cfg.GetLocation())
	if err != nil {
		return calendar.Grid{}, fmt.Errorf("month must be YYYY-MM, next or prev: %w", err)
	}
	return a.generator.Generate(ref), nil
}

// dayCell renders a day as four columns: [dd] for today, * for days with
// events and dim parentheses for days outside the month.
func dayCell(day calendar.Day, hasEvents bool) string {
	mark := " "
	if hasEvents {
		mark = "*"
	}
	switch {
	case day.IsToday:
		return fmt.Sprintf("[%2d]", day.Date.Day())
	case !day.IsCurrentMonth:
		return fmt.Sprintf("(%2d)", day.Date.Day())
	default:
		return fmt.Sprintf(" %2d%s", day.Date.Day(), mark)
	}
}

func (a *app) eventCommands(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listEvents(ctx, nil)
	}
	switch args[0] {
	case "list":
		return a.listEvents(ctx, args[1:])
	case "add":
		return a.addEvent(ctx, args[1:])
	case "delete", "rm":
		return a.deleteEvent(ctx, args[1:])
	default:
		return fmt.Errorf("unknown events command %q", args[0])
	}
}

func (a *app) listEvents(ctx context.Context, args []string) error {
	reqCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.events.List(reqCtx)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		day, err := time.ParseInLocation(dayLayout, args[0], a.cfg.GetLocation())
		if err != nil {
			return fmt.Errorf("day must be YYYY-MM-DD: %w", err)
		}
		list = events.ForDay(list, day)
	}

	if len(list) == 0 {
		a.printf("No events\n")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tEND\tREPEATS\tTITLE")
	for _, e := range list {
		repeats := string(e.Recurrence.Type)
		if repeats == "" {
			repeats = string(events.RecurrenceNone)
		}
		if e.Recurrence.RepeatUntil != nil {
			repeats += " until " + e.Recurrence.RepeatUntil.In(a.cfg.GetLocation()).Format(dayLayout)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID,
			e.StartDate.In(a.cfg.GetLocation()).Format(timeLayout),
			e.EndDate.In(a.cfg.GetLocation()).Format(timeLayout),
			repeats, e.Title)
	}
	return w.Flush()
}

func (a *app) addEvent(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("events add", flag.ContinueOnError)
	flags.SetOutput(a.out)
	title := flags.String("title", "", "event title")
	description := flags.String("description", "", "event description")
	start := flags.String("start", "", "start, YYYY-MM-DD or YYYY-MM-DD HH:MM")
	end := flags.String("end", "", "end, defaults to one hour after the start")
	repeat := flags.String("repeat", string(events.RecurrenceNone), "none, daily, weekly or monthly")
	until := flags.String("until", "", "last day of the repeat, YYYY-MM-DD")
	if err := flags.Parse(args); err != nil {
		return err
	}

	startAt, err := a.parseTime(*start)
	if err != nil {
		return fmt.Errorf("-start: %w", err)
	}
	endAt := startAt.Add(time.Hour)
	if *end != "" {
		if endAt, err = a.parseTime(*end); err != nil {
			return fmt.Errorf("-end: %w", err)
		}
	}

	e := &events.Event{
		Title:      strings.TrimSpace(*title),
		StartDate:  startAt,
		EndDate:    endAt,
		Recurrence: events.Recurrence{Type: events.RecurrenceType(strings.ToLower(*repeat))},
		UserID:     a.holder.Current().ID,
	}
	if *description != "" {
		e.Description = utils.Ptr(*description)
	}
	if *until != "" {
		untilAt, err := time.ParseInLocation(dayLayout, *until, a.cfg.GetLocation())
		if err != nil {
			return fmt.Errorf("-until: %w", err)
		}
		e.Recurrence.RepeatUntil = &untilAt
	}

	reqCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	created, err := a.events.Create(reqCtx, e)
	if err != nil {
		return err
	}
	a.printf("Created event %d: %s\n", created.ID, created.Title)
	return nil
}

func (a *app) deleteEvent(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("events delete needs an event id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q: %w", args[0], err)
	}

	reqCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.events.Delete(reqCtx, id); err != nil {
		return err
	}
	a.printf("Deleted event %d\n", id)
	return nil
}

func (a *app) parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("a date is required")
	}
	layout := timeLayout
	if len(value) == len(dayLayout) {
		layout = dayLayout
	}
	return time.ParseInLocation(layout, value, a.cfg.GetLocation())
}

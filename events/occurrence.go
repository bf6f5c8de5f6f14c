package events

import (
	"time"
)

// OccursOn reports whether any occurrence of the event overlaps the calendar
// day containing day, in day's location.
func (e *Event) OccursOn(day time.Time) bool {
	dayStart := midnight(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	span := e.EndDate.Sub(e.StartDate)
	if span < 0 {
		span = 0
	}

	var until time.Time
	if e.Recurrence.RepeatUntil != nil {
		until = midnight(e.Recurrence.RepeatUntil.In(e.StartDate.Location())).AddDate(0, 0, 1)
	}

	for k := e.firstCandidate(dayStart.Add(-span)); ; k++ {
		occStart := e.nth(k)
		if !occStart.Before(dayEnd) {
			return false
		}
		if !until.IsZero() && !occStart.Before(until) {
			return false
		}
		if overlaps(occStart, occStart.Add(span), dayStart, dayEnd) {
			return true
		}
		if !e.Recurrence.Repeats() {
			return false
		}
	}
}

// Occurrences lists the start of every occurrence beginning in [from, to).
func (e *Event) Occurrences(from, to time.Time) []time.Time {
	var until time.Time
	if e.Recurrence.RepeatUntil != nil {
		until = midnight(e.Recurrence.RepeatUntil.In(e.StartDate.Location())).AddDate(0, 0, 1)
	}

	var starts []time.Time
	for k := e.firstCandidate(from); ; k++ {
		occStart := e.nth(k)
		if !occStart.Before(to) || (!until.IsZero() && !occStart.Before(until)) {
			return starts
		}
		if !occStart.Before(from) {
			starts = append(starts, occStart)
		}
		if !e.Recurrence.Repeats() {
			return starts
		}
	}
}

// ForDay returns the events that occur on day, in their original order.
func ForDay(events []Event, day time.Time) []Event {
	var matched []Event
	for i := range events {
		if events[i].OccursOn(day) {
			matched = append(matched, events[i])
		}
	}
	return matched
}

// nth returns the start of occurrence k. Monthly occurrences keep the day of
// month of the first occurrence, clamped to the length of shorter months.
func (e *Event) nth(k int) time.Time {
	switch e.Recurrence.Type {
	case RecurrenceDaily:
		return e.StartDate.AddDate(0, 0, k)
	case RecurrenceWeekly:
		return e.StartDate.AddDate(0, 0, 7*k)
	case RecurrenceMonthly:
		return addMonths(e.StartDate, k)
	default:
		return e.StartDate
	}
}

// firstCandidate returns an occurrence index at or before the first occurrence
// that could start on or after t.
func (e *Event) firstCandidate(t time.Time) int {
	if !t.After(e.StartDate) || !e.Recurrence.Repeats() {
		return 0
	}
	var k int
	switch e.Recurrence.Type {
	case RecurrenceDaily:
		k = int(t.Sub(e.StartDate).Hours() / 24)
	case RecurrenceWeekly:
		k = int(t.Sub(e.StartDate).Hours() / (24 * 7))
	case RecurrenceMonthly:
		t = t.In(e.StartDate.Location())
		k = (t.Year()-e.StartDate.Year())*12 + int(t.Month()) - int(e.StartDate.Month())
	}
	if k--; k < 0 {
		return 0
	}
	return k
}

func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return first.AddDate(0, 0, day-1)
}

// overlaps treats a zero-length event as occupying its start instant.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aEnd.After(aStart) {
		return !aStart.Before(bStart) && aStart.Before(bEnd)
	}
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

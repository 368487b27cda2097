package timetable

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"
)

// FirstOccurrence is the first date on or after start that falls on day
func FirstOccurrence(day time.Weekday, start time.Time) time.Time {
	offset := (int(day) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

// Expand lists every dated occurrence of slot within the semester, one per week.
// The sequence is lazy and can be ranged over any number of times; each range
// starts again from the first week. A rule the recurrence library rejects is
// logged and expands to nothing, use Schedule to get the error instead.
func Expand(slot WeeklySlot, sem Semester) iter.Seq[Occurrence] {
	occurrences, err := Schedule(slot, sem)
	if err != nil {
		slog.Error("could not expand weekly slot", "slot", slot, "err", err)
		return func(func(Occurrence) bool) {}
	}
	return occurrences
}

// Schedule is Expand with the rule checked up front
func Schedule(slot WeeklySlot, sem Semester) (iter.Seq[Occurrence], error) {
	rule, err := weeklyRule(slot, sem)
	if err != nil {
		return nil, err
	}
	return func(yield func(Occurrence) bool) {
		if rule == nil {
			return
		}
		loc := sem.location()
		next := rule.Iterator()
		for start, ok := next(); ok; start, ok = next() {
			date := calendarDate(start, loc)
			occurrence := Occurrence{
				Date:  date,
				Start: start,
				End:   slot.End.On(date, loc),
				Room:  slot.Room,
			}
			if !yield(occurrence) {
				return
			}
		}
	}, nil
}

// CountOccurrences is the number of events Expand produces for slot
func CountOccurrences(slot WeeklySlot, sem Semester) int {
	n := 0
	for range Expand(slot, sem) {
		n++
	}
	return n
}

// Bounds is the start of the first occurrence of slot and the latest start the
// weekly recurrence may reach. ok is false when the slot never occurs.
func Bounds(slot WeeklySlot, sem Semester) (first, until time.Time, ok bool) {
	if !slot.Valid() {
		return time.Time{}, time.Time{}, false
	}
	loc := sem.location()
	firstDate := FirstOccurrence(slot.Day, calendarDate(sem.Start, loc))
	lastDate := calendarDate(sem.End, loc)
	if firstDate.After(lastDate) {
		return time.Time{}, time.Time{}, false
	}
	// until sits on the last semester date at the slot's own start so the
	// final week is included and nothing past it is
	return slot.Start.On(firstDate, loc), slot.Start.On(lastDate, loc), true
}

// weeklyRule is nil without an error when the slot never occurs in the semester
func weeklyRule(slot WeeklySlot, sem Semester) (*rrule.RRule, error) {
	first, until, ok := Bounds(slot, sem)
	if !ok {
		return nil, nil
	}
	return newRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: first,
		Until:   until,
	})
}

func newRule(opt rrule.ROption) (*rrule.RRule, error) {
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: recurrence rule: %w", ErrInvalidInput, err)
	}
	return rule, nil
}

func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

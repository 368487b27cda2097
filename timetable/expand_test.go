package timetable

import (
	"errors"
	"testing"
	"time"

	"github.com/teambition/rrule-go"
)

var kst = time.FixedZone("KST", 9*60*60)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, kst)
}

func fallSemester() Semester {
	return Semester{
		Code:     "2025-2",
		Start:    date(2025, time.September, 1),
		End:      date(2025, time.December, 19),
		Location: kst,
	}
}

func TestFirstOccurrence(t *testing.T) {
	start := date(2025, time.September, 1) // a monday
	tests := []struct {
		day  time.Weekday
		want time.Time
	}{
		{time.Monday, date(2025, time.September, 1)},
		{time.Tuesday, date(2025, time.September, 2)},
		{time.Saturday, date(2025, time.September, 6)},
		{time.Sunday, date(2025, time.September, 7)},
	}
	for _, tt := range tests {
		if got := FirstOccurrence(tt.day, start); !got.Equal(tt.want) {
			t.Errorf("FirstOccurrence(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestExpandFallSemesterMonday(t *testing.T) {
	slot := WeeklySlot{Day: time.Monday, Start: at(9, 0), End: at(10, 30), Room: "B-204"}

	var occurrences []Occurrence
	for o := range Expand(slot, fallSemester()) {
		occurrences = append(occurrences, o)
	}
	if len(occurrences) != 16 {
		t.Fatalf("expected 16 occurrences got %d", len(occurrences))
	}

	first := occurrences[0]
	if !first.Start.Equal(time.Date(2025, time.September, 1, 9, 0, 0, 0, kst)) {
		t.Errorf("first start %s", first.Start)
	}
	if !first.End.Equal(time.Date(2025, time.September, 1, 10, 30, 0, 0, kst)) {
		t.Errorf("first end %s", first.End)
	}
	if first.Room != "B-204" {
		t.Errorf("room was not carried over: %q", first.Room)
	}
	last := occurrences[len(occurrences)-1]
	if !last.Date.Equal(date(2025, time.December, 15)) {
		t.Errorf("last date %s", last.Date)
	}
	for i := 1; i < len(occurrences); i++ {
		if gap := occurrences[i].Start.Sub(occurrences[i-1].Start); gap != 7*24*time.Hour {
			t.Fatalf("occurrence %d is %s after the previous one", i, gap)
		}
		if occurrences[i].Date.Weekday() != time.Monday {
			t.Fatalf("occurrence %d is on %s", i, occurrences[i].Date.Weekday())
		}
	}
}

func TestExpandFullWeeks(t *testing.T) {
	for weeks := 1; weeks <= 20; weeks++ {
		sem := Semester{
			Start:    date(2025, time.March, 3),
			End:      date(2025, time.March, 3).AddDate(0, 0, 7*weeks-1),
			Location: kst,
		}
		for day := time.Sunday; day <= time.Saturday; day++ {
			slot := WeeklySlot{Day: day, Start: at(10, 0), End: at(11, 0)}
			if got := CountOccurrences(slot, sem); got != weeks {
				t.Fatalf("%d weeks on %s gave %d occurrences", weeks, day, got)
			}
		}
	}
}

func TestExpandSingleDay(t *testing.T) {
	day := date(2025, time.September, 1)
	sem := Semester{Start: day, End: day, Location: kst}

	matching := WeeklySlot{Day: time.Monday, Start: at(9, 0), End: at(10, 0)}
	if got := CountOccurrences(matching, sem); got != 1 {
		t.Errorf("expected exactly one occurrence got %d", got)
	}
	other := WeeklySlot{Day: time.Tuesday, Start: at(9, 0), End: at(10, 0)}
	if got := CountOccurrences(other, sem); got != 0 {
		t.Errorf("expected no occurrence got %d", got)
	}
}

func TestExpandEmptyAndInvalid(t *testing.T) {
	backwards := Semester{Start: date(2025, time.December, 1), End: date(2025, time.September, 1), Location: kst}
	slot := WeeklySlot{Day: time.Monday, Start: at(9, 0), End: at(10, 0)}
	if got := CountOccurrences(slot, backwards); got != 0 {
		t.Errorf("end before start gave %d occurrences", got)
	}

	inverted := WeeklySlot{Day: time.Monday, Start: at(10, 0), End: at(9, 0)}
	if got := CountOccurrences(inverted, fallSemester()); got != 0 {
		t.Errorf("inverted slot gave %d occurrences", got)
	}
}

func TestExpandIsRestartable(t *testing.T) {
	seq := Expand(WeeklySlot{Day: time.Wednesday, Start: at(15, 0), End: at(16, 0)}, fallSemester())

	var firstRun, secondRun []time.Time
	for o := range seq {
		firstRun = append(firstRun, o.Start)
	}
	for o := range seq {
		secondRun = append(secondRun, o.Start)
		if len(secondRun) == 3 {
			break
		}
	}
	var thirdRun []time.Time
	for o := range seq {
		thirdRun = append(thirdRun, o.Start)
	}

	if len(firstRun) == 0 || len(firstRun) != len(thirdRun) {
		t.Fatalf("runs differ in length: %d and %d", len(firstRun), len(thirdRun))
	}
	for i := range firstRun {
		if !firstRun[i].Equal(thirdRun[i]) {
			t.Fatalf("run differs at %d", i)
		}
	}
	for i := range secondRun {
		if !secondRun[i].Equal(firstRun[i]) {
			t.Fatalf("interrupted run differs at %d", i)
		}
	}
}

func TestNewRuleReportsRejectedOptions(t *testing.T) {
	_, err := newRule(rrule.ROption{
		Freq:     rrule.WEEKLY,
		Dtstart:  date(2025, time.September, 1),
		Interval: -1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
}

func TestSchedule(t *testing.T) {
	slot := WeeklySlot{Day: time.Monday, Start: at(9, 0), End: at(10, 30)}
	occurrences, err := Schedule(slot, fallSemester())
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range occurrences {
		n++
	}
	if n != 16 || n != CountOccurrences(slot, fallSemester()) {
		t.Errorf("schedule gave %d occurrences", n)
	}

	// never occurring is not an error
	inverted := WeeklySlot{Day: time.Monday, Start: at(10, 0), End: at(9, 0)}
	occurrences, err = Schedule(inverted, fallSemester())
	if err != nil {
		t.Fatal(err)
	}
	for range occurrences {
		t.Fatal("inverted slot should not occur")
	}
}

package timetable

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a wall clock time measured in minutes after midnight
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" (24 hour clock)
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On places the time of day on the calendar date of d in loc
func (t TimeOfDay) On(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, t.Hour(), t.Minute(), 0, 0, loc)
}

// WeeklySlot is one recurring teaching block of a course
type WeeklySlot struct {
	Day   time.Weekday `json:"dayOfWeek"`
	Start TimeOfDay    `json:"startTime"`
	End   TimeOfDay    `json:"endTime"`
	Room  string       `json:"room,omitempty"`
}

func (s WeeklySlot) Window() Window {
	return Window{Start: s.Start, End: s.End}
}

func (s WeeklySlot) Valid() bool {
	return s.Day >= time.Sunday && s.Day <= time.Saturday && s.Start < s.End
}

// Window is a same-day time range, rendered as "13:00-15:00"
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

func (w Window) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Semester is the date range lecture events are materialized over.
// Start and End are calendar dates, both inclusive.
type Semester struct {
	Code     string
	Start    time.Time
	End      time.Time
	Location *time.Location
}

func (s Semester) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

type Enrollment struct {
	ID           uuid.UUID `json:"enrollmentId"`
	StudentID    int64     `json:"studentId"`
	SemesterCode string    `json:"semesterCode"`
	CourseID     int64     `json:"courseId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type NewEnrollment struct {
	StudentID    int64
	SemesterCode string
	CourseID     int64
}

// EventMapping links an enrollment to one calendar event created on its behalf
type EventMapping struct {
	ID              int64
	EnrollmentID    uuid.UUID
	CalendarEventID int64
}

// Occurrence is one dated instance of a weekly slot. It is never stored.
type Occurrence struct {
	Date  time.Time
	Start time.Time
	End   time.Time
	Room  string
}

type Course struct {
	ID           int64  `json:"courseId"`
	SemesterCode string `json:"semesterCode"`
	Code         string `json:"courseCode"`
	Name         string `json:"name"`
	Professor    string `json:"professor,omitempty"`
	Section      string `json:"section,omitempty"`
	Credit       *int   `json:"credit,omitempty"`
}

// Title is the label lecture events are created with: "name (professor) - section"
func (c Course) Title() string {
	title := c.Name
	if p := strings.TrimSpace(c.Professor); p != "" {
		title += " (" + p + ")"
	}
	if s := strings.TrimSpace(c.Section); s != "" {
		title += " - " + s
	}
	return title
}

type NewCalendarEvent struct {
	Title   string
	Room    string
	Start   time.Time
	End     time.Time
	OwnerID int64
}

// Conflict reports one overlapping pair of an existing slot and a requested slot
type Conflict struct {
	ExistingEnrollmentID uuid.UUID    `json:"existingEnrollmentId"`
	ExistingCourseID     int64        `json:"existingCourseId"`
	ExistingCourseName   string       `json:"existingCourseName,omitempty"`
	Day                  time.Weekday `json:"-"`
	Existing             Window       `json:"existing"`
	Requested            Window       `json:"requested"`
}

// DayLabel renders the weekday the way the client expects it, e.g. "MON"
func (c Conflict) DayLabel() string {
	return strings.ToUpper(c.Day.String()[:3])
}

type Decision string

const (
	DecisionKeep    Decision = "KEEP"
	DecisionReplace Decision = "REPLACE"
)

func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToUpper(strings.TrimSpace(s))) {
	case DecisionKeep:
		return DecisionKeep, nil
	case DecisionReplace:
		return DecisionReplace, nil
	}
	return "", fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, s)
}

type TryAddResult struct {
	Conflict          bool
	Conflicts         []Conflict
	EnrollmentID      uuid.UUID
	CreatedEventCount int
}

type ResolveResult struct {
	Applied              bool
	EnrollmentID         uuid.UUID
	RemovedEnrollmentIDs []uuid.UUID
	CreatedEventCount    int
	DeletedEventCount    int
}

type RemoveResult struct {
	DeletedEventCount int
}

// EnrolledCourse is one row of a student's timetable
type EnrolledCourse struct {
	Enrollment Enrollment
	Course     Course
	Slots      []WeeklySlot
}

type Timetable struct {
	SemesterCode string
	Semester     Semester
	Courses      []EnrolledCourse
}

func (t Timetable) TotalCredits() int {
	total := 0
	for _, c := range t.Courses {
		if c.Course.Credit != nil {
			total += *c.Course.Credit
		}
	}
	return total
}

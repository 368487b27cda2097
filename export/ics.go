package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Pjt727/cample/timetable"
)

const (
	productID   = "-//cample//timetable//EN"
	utcLayout   = "20060102T150405Z"
	localLayout = "20060102T150405"
)

// Calendar renders a timetable as one recurring VEVENT per weekly slot
//
//	slots that never fall inside the semester are left out
func Calendar(tt timetable.Timetable, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Timetable " + tt.SemesterCode)
	zone, named := tzid(tt.Semester.Location)
	if named {
		cal.SetXWRTimezone(zone)
	}

	for _, enrolled := range tt.Courses {
		for i, slot := range enrolled.Slots {
			first, until, ok := timetable.Bounds(slot, tt.Semester)
			if !ok {
				continue
			}
			event := cal.AddEvent(fmt.Sprintf("%s-%d@cample", enrolled.Enrollment.ID, i))
			event.SetDtStampTime(now)
			event.SetCreatedTime(enrolled.Enrollment.CreatedAt)
			end := slot.End.On(first, first.Location())
			if named {
				// local wall clock so the weekly rule follows daylight saving like the created events do
				event.SetProperty(ics.ComponentPropertyDtStart, first.Format(localLayout), ics.WithTZID(zone))
				event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(localLayout), ics.WithTZID(zone))
			} else {
				event.SetStartAt(first)
				event.SetEndAt(end)
			}
			event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;UNTIL="+until.UTC().Format(utcLayout))
			event.SetSummary(enrolled.Course.Title())
			if room := strings.TrimSpace(slot.Room); room != "" {
				event.SetLocation(room)
			}
			event.SetDescription(describe(enrolled.Course))
		}
	}
	return cal
}

func WriteICS(w io.Writer, tt timetable.Timetable, now time.Time) error {
	return Calendar(tt, now).SerializeTo(w)
}

// tzid is the IANA name of loc. Fixed offsets and UTC have no usable name and
// never shift, so they are written as UTC instead.
func tzid(loc *time.Location) (string, bool) {
	if loc == nil || loc == time.UTC || loc == time.Local {
		return "", false
	}
	name := loc.String()
	if _, err := time.LoadLocation(name); err != nil {
		return "", false
	}
	return name, true
}

func describe(course timetable.Course) string {
	description := course.Code
	if course.Credit != nil {
		description += fmt.Sprintf(" (%d credits)", *course.Credit)
	}
	return description
}

package timetableentry

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pjt727/cample/data/db"
	"github.com/Pjt727/cample/timetable"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	eventTypeLecture     = "LECTURE"
	eventCategoryLecture = "LECTURE"
)

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromPgUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

func toPgTime(t timetable.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * int64(time.Minute/time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) timetable.TimeOfDay {
	return timetable.TimeOfDay(t.Microseconds / int64(time.Minute/time.Microsecond))
}

func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	return pgtype.Text{String: s, Valid: s != ""}
}

func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func toEnrollment(e db.Enrollment) timetable.Enrollment {
	return timetable.Enrollment{
		ID:           fromPgUUID(e.ID),
		StudentID:    e.StudentID,
		SemesterCode: e.SemesterCode,
		CourseID:     e.CourseID,
		CreatedAt:    e.CreatedAt.Time,
	}
}

func toCourse(c db.Course) timetable.Course {
	course := timetable.Course{
		ID:           c.ID,
		SemesterCode: c.SemesterCode,
		Code:         c.CourseCode,
		Name:         c.Name,
		Professor:    c.Professor.String,
		Section:      c.Section.String,
	}
	if c.Credit.Valid {
		credit := int(c.Credit.Int32)
		course.Credit = &credit
	}
	return course
}

func toSlot(ct db.CourseTime) (timetable.WeeklySlot, error) {
	if ct.DayOfWeek < int16(time.Sunday) || ct.DayOfWeek > int16(time.Saturday) {
		return timetable.WeeklySlot{}, fmt.Errorf("course time %d has day %d", ct.ID, ct.DayOfWeek)
	}
	return timetable.WeeklySlot{
		Day:   time.Weekday(ct.DayOfWeek),
		Start: fromPgTime(ct.StartTime),
		End:   fromPgTime(ct.EndTime),
		Room:  ct.Room.String,
	}, nil
}

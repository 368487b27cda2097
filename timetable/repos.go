package timetable

import (
	"context"

	"github.com/google/uuid"
)

type EnrollmentStore interface {
	// returns ErrDuplicateEnrollment when the student/semester/course triple exists
	Create(ctx context.Context, arg NewEnrollment) (Enrollment, error)
	ListByStudent(ctx context.Context, studentID int64, semesterCode string) ([]Enrollment, error)
	// returns ErrEnrollmentNotFound when absent
	FindByStudentAndCourse(ctx context.Context, studentID int64, semesterCode string, courseID int64) (Enrollment, error)
	Get(ctx context.Context, id uuid.UUID) (Enrollment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// held until the surrounding transaction ends
	LockStudent(ctx context.Context, studentID int64) error
}

type MappingStore interface {
	Create(ctx context.Context, enrollmentID uuid.UUID, calendarEventID int64) (EventMapping, error)
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]EventMapping, error)
	DeleteByEnrollment(ctx context.Context, enrollmentID uuid.UUID) error
}

// CourseCatalog is the read only view of the course service
type CourseCatalog interface {
	// returns ErrCourseNotFound when absent
	Course(ctx context.Context, courseID int64) (Course, error)
	Courses(ctx context.Context, courseIDs []int64) (map[int64]Course, error)
	Slots(ctx context.Context, courseID int64) ([]WeeklySlot, error)
	SlotsForCourses(ctx context.Context, courseIDs []int64) (map[int64][]WeeklySlot, error)
}

type CalendarSink interface {
	CreateEvent(ctx context.Context, arg NewCalendarEvent) (int64, error)
	// every id must belong to ownerID otherwise nothing is deleted and ErrForbidden is returned
	DeleteEvents(ctx context.Context, ownerID int64, eventIDs []int64) error
}

// Repos are bound to a single transaction
type Repos struct {
	Enrollments EnrollmentStore
	Mappings    MappingStore
	Courses     CourseCatalog
	Calendar    CalendarSink
}

// TxRunner commits when fn returns nil and rolls back every change made through repos otherwise
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
)

type Change struct {
	Kind         ChangeKind `json:"kind"`
	StudentID    int64      `json:"studentId"`
	EnrollmentID uuid.UUID  `json:"enrollmentId"`
	CourseID     int64      `json:"courseId"`
	EventCount   int        `json:"eventCount"`
}

// Notifier receives changes after they are committed
type Notifier interface {
	Publish(change Change)
}

type discardNotifier struct{}

func (discardNotifier) Publish(Change) {}

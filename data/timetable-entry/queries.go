package timetableentry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	log "github.com/sirupsen/logrus"

	"github.com/Pjt727/cample/data/db"
	"github.com/Pjt727/cample/timetable"
	"github.com/google/uuid"
)

// the timetable service only sees the repository interfaces
//   every type here shares one *db.Queries so they all run on the same transaction

const uniqueViolation = "23505"

func NewEntryQuery(database db.DBTX) *EntryQueries {
	return &EntryQueries{q: db.New(database)}
}

type EntryQueries struct {
	q *db.Queries
}

func (q *EntryQueries) WithTx(tx pgx.Tx) *EntryQueries {
	return &EntryQueries{
		q: q.q.WithTx(tx),
	}
}

func (q *EntryQueries) Repos() timetable.Repos {
	return timetable.Repos{
		Enrollments: enrollmentStore{q: q.q},
		Mappings:    mappingStore{q: q.q},
		Courses:     courseCatalog{q: q.q},
		Calendar:    calendarSink{q: q.q},
	}
}

// InsertCourse adds a course and its weekly slots to the catalog
func (q *EntryQueries) InsertCourse(
	ctx context.Context,
	course timetable.Course,
	slots []timetable.WeeklySlot,
) (int64, error) {
	params := db.InsertCourseParams{
		SemesterCode: course.SemesterCode,
		CourseCode:   course.Code,
		Name:         course.Name,
		Professor:    toPgText(course.Professor),
		Section:      toPgText(course.Section),
	}
	if course.Credit != nil {
		params.Credit = pgtype.Int4{Int32: int32(*course.Credit), Valid: true}
	}
	id, err := q.q.InsertCourse(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("error inserting course %s: %w", course.Code, err)
	}
	for _, slot := range slots {
		if !slot.Valid() {
			return 0, fmt.Errorf("%w: slot %s %s", timetable.ErrInvalidInput, slot.Day, slot.Window())
		}
		err := q.q.InsertCourseTime(ctx, db.InsertCourseTimeParams{
			CourseID:  id,
			DayOfWeek: int16(slot.Day),
			StartTime: toPgTime(slot.Start),
			EndTime:   toPgTime(slot.End),
			Room:      toPgText(slot.Room),
		})
		if err != nil {
			return 0, fmt.Errorf("error inserting time for course %s: %w", course.Code, err)
		}
	}
	return id, nil
}

// CountLectureEvents is the number of calendar events owned by the student
func (q *EntryQueries) CountLectureEvents(ctx context.Context, studentID int64) (int64, error) {
	return q.q.CountCalendarEventsByOwner(ctx, pgtype.Int8{Int64: studentID, Valid: true})
}

type enrollmentStore struct {
	q *db.Queries
}

func (s enrollmentStore) Create(ctx context.Context, arg timetable.NewEnrollment) (timetable.Enrollment, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return timetable.Enrollment{}, err
	}
	row, err := s.q.CreateEnrollment(ctx, db.CreateEnrollmentParams{
		ID:           toPgUUID(id),
		StudentID:    arg.StudentID,
		SemesterCode: arg.SemesterCode,
		CourseID:     arg.CourseID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return timetable.Enrollment{}, fmt.Errorf("%w: %s", timetable.ErrDuplicateEnrollment, pgErr.ConstraintName)
		}
		return timetable.Enrollment{}, err
	}
	return toEnrollment(row), nil
}

func (s enrollmentStore) ListByStudent(ctx context.Context, studentID int64, semesterCode string) ([]timetable.Enrollment, error) {
	rows, err := s.q.ListEnrollmentsByStudent(ctx, db.ListEnrollmentsByStudentParams{
		StudentID:    studentID,
		SemesterCode: semesterCode,
	})
	if err != nil {
		return nil, err
	}
	enrollments := make([]timetable.Enrollment, len(rows))
	for i, row := range rows {
		enrollments[i] = toEnrollment(row)
	}
	return enrollments, nil
}

func (s enrollmentStore) FindByStudentAndCourse(
	ctx context.Context,
	studentID int64,
	semesterCode string,
	courseID int64,
) (timetable.Enrollment, error) {
	row, err := s.q.GetEnrollmentByStudentAndCourse(ctx, db.GetEnrollmentByStudentAndCourseParams{
		StudentID:    studentID,
		SemesterCode: semesterCode,
		CourseID:     courseID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return timetable.Enrollment{}, timetable.ErrEnrollmentNotFound
	}
	if err != nil {
		return timetable.Enrollment{}, err
	}
	return toEnrollment(row), nil
}

func (s enrollmentStore) Get(ctx context.Context, id uuid.UUID) (timetable.Enrollment, error) {
	row, err := s.q.GetEnrollment(ctx, toPgUUID(id))
	if errors.Is(err, pgx.ErrNoRows) {
		return timetable.Enrollment{}, fmt.Errorf("%w: %s", timetable.ErrEnrollmentNotFound, id)
	}
	if err != nil {
		return timetable.Enrollment{}, err
	}
	return toEnrollment(row), nil
}

func (s enrollmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.q.DeleteEnrollment(ctx, toPgUUID(id))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", timetable.ErrEnrollmentNotFound, id)
	}
	return nil
}

func (s enrollmentStore) LockStudent(ctx context.Context, studentID int64) error {
	return s.q.LockStudentEnrollments(ctx, studentID)
}

type mappingStore struct {
	q *db.Queries
}

func (s mappingStore) Create(ctx context.Context, enrollmentID uuid.UUID, calendarEventID int64) (timetable.EventMapping, error) {
	row, err := s.q.CreateEventMapping(ctx, db.CreateEventMappingParams{
		EnrollmentID:    toPgUUID(enrollmentID),
		CalendarEventID: calendarEventID,
	})
	if err != nil {
		return timetable.EventMapping{}, err
	}
	return timetable.EventMapping{
		ID:              row.ID,
		EnrollmentID:    fromPgUUID(row.EnrollmentID),
		CalendarEventID: row.CalendarEventID,
	}, nil
}

func (s mappingStore) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]timetable.EventMapping, error) {
	rows, err := s.q.ListEventMappingsByEnrollment(ctx, toPgUUID(enrollmentID))
	if err != nil {
		return nil, err
	}
	mappings := make([]timetable.EventMapping, len(rows))
	for i, row := range rows {
		mappings[i] = timetable.EventMapping{
			ID:              row.ID,
			EnrollmentID:    fromPgUUID(row.EnrollmentID),
			CalendarEventID: row.CalendarEventID,
		}
	}
	return mappings, nil
}

func (s mappingStore) DeleteByEnrollment(ctx context.Context, enrollmentID uuid.UUID) error {
	return s.q.DeleteEventMappingsByEnrollment(ctx, toPgUUID(enrollmentID))
}

type courseCatalog struct {
	q *db.Queries
}

func (c courseCatalog) Course(ctx context.Context, courseID int64) (timetable.Course, error) {
	row, err := c.q.GetCourse(ctx, courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return timetable.Course{}, fmt.Errorf("%w: %d", timetable.ErrCourseNotFound, courseID)
	}
	if err != nil {
		return timetable.Course{}, err
	}
	return toCourse(row), nil
}

func (c courseCatalog) Courses(ctx context.Context, courseIDs []int64) (map[int64]timetable.Course, error) {
	courses := make(map[int64]timetable.Course, len(courseIDs))
	if len(courseIDs) == 0 {
		return courses, nil
	}
	rows, err := c.q.ListCoursesByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		courses[row.ID] = toCourse(row)
	}
	return courses, nil
}

func (c courseCatalog) Slots(ctx context.Context, courseID int64) ([]timetable.WeeklySlot, error) {
	rows, err := c.q.ListCourseTimes(ctx, courseID)
	if err != nil {
		return nil, err
	}
	slots := make([]timetable.WeeklySlot, 0, len(rows))
	for _, row := range rows {
		slot, err := toSlot(row)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (c courseCatalog) SlotsForCourses(ctx context.Context, courseIDs []int64) (map[int64][]timetable.WeeklySlot, error) {
	slots := make(map[int64][]timetable.WeeklySlot, len(courseIDs))
	if len(courseIDs) == 0 {
		return slots, nil
	}
	rows, err := c.q.ListCourseTimesByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		slot, err := toSlot(row)
		if err != nil {
			return nil, err
		}
		slots[row.CourseID] = append(slots[row.CourseID], slot)
	}
	return slots, nil
}

type calendarSink struct {
	q *db.Queries
}

func (c calendarSink) CreateEvent(ctx context.Context, arg timetable.NewCalendarEvent) (int64, error) {
	return c.q.CreateCalendarEvent(ctx, db.CreateCalendarEventParams{
		Title:     arg.Title,
		StartAt:   toPgTimestamptz(arg.Start),
		EndAt:     toPgTimestamptz(arg.End),
		Type:      eventTypeLecture,
		OwnerID:   pgtype.Int8{Int64: arg.OwnerID, Valid: true},
		Location:  toPgText(arg.Room),
		Category:  eventCategoryLecture,
		Important: false,
	})
}

// the rows are locked before the owner check so nothing can change hands in between
func (c calendarSink) DeleteEvents(ctx context.Context, ownerID int64, eventIDs []int64) error {
	rows, err := c.q.LockCalendarEvents(ctx, eventIDs)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if !row.OwnerID.Valid || row.OwnerID.Int64 != ownerID {
			return fmt.Errorf("%w: event %d is not owned by %d", timetable.ErrForbidden, row.ID, ownerID)
		}
	}
	deleted, err := c.q.DeleteCalendarEvents(ctx, db.DeleteCalendarEventsParams{
		Ids:     eventIDs,
		OwnerID: pgtype.Int8{Int64: ownerID, Valid: true},
	})
	if err != nil {
		return err
	}
	if int(deleted) != len(eventIDs) {
		// mapped events that were already gone are not an error
		log.WithFields(log.Fields{
			"owner":    ownerID,
			"expected": len(eventIDs),
			"deleted":  deleted,
		}).Warn("Some mapped calendar events no longer existed")
	}
	return nil
}

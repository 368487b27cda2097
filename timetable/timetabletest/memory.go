package timetabletest

// an in memory stand in for postgres, the calendar and the course catalog
// every InTx call works on a copy of the state that only replaces the real
//    state when the callback succeeds so rollbacks can be asserted on

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Pjt727/cample/timetable"
	"github.com/google/uuid"
)

var ErrInjected = errors.New("injected sink failure")

type CalendarEvent struct {
	ID      int64
	Title   string
	Room    string
	Start   time.Time
	End     time.Time
	OwnerID int64
}

type state struct {
	enrollments   map[uuid.UUID]timetable.Enrollment
	mappings      map[int64]timetable.EventMapping
	events        map[int64]CalendarEvent
	nextMappingID int64
	nextEventID   int64
	nextSeq       int64
}

func (s state) clone() state {
	return state{
		enrollments:   maps.Clone(s.enrollments),
		mappings:      maps.Clone(s.mappings),
		events:        maps.Clone(s.events),
		nextMappingID: s.nextMappingID,
		nextEventID:   s.nextEventID,
		nextSeq:       s.nextSeq,
	}
}

type Memory struct {
	mu      sync.Mutex
	state   state
	courses map[int64]timetable.Course
	slots   map[int64][]timetable.WeeklySlot
	clock   func() time.Time

	// the sink fails once this many events were created in a single transaction, 0 disables
	failCreateAfter int
	failDelete      bool
}

func NewMemory() *Memory {
	return &Memory{
		state: state{
			enrollments: map[uuid.UUID]timetable.Enrollment{},
			mappings:    map[int64]timetable.EventMapping{},
			events:      map[int64]CalendarEvent{},
		},
		courses: map[int64]timetable.Course{},
		slots:   map[int64][]timetable.WeeklySlot{},
		clock:   time.Now,
	}
}

func (m *Memory) AddCourse(course timetable.Course, slots ...timetable.WeeklySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[course.ID] = course
	m.slots[course.ID] = slots
}

// FailCreateAfter makes CreateEvent fail after n successful creations per transaction
func (m *Memory) FailCreateAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCreateAfter = n
}

func (m *Memory) FailDelete(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDelete = fail
}

// Enrollments is sorted by creation
func (m *Memory) Enrollments() []timetable.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedEnrollments(m.state.enrollments)
}

func (m *Memory) Events() []CalendarEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := slices.Collect(maps.Values(m.state.events))
	slices.SortFunc(events, func(a, b CalendarEvent) int { return int(a.ID - b.ID) })
	return events
}

func (m *Memory) Mappings() []timetable.EventMapping {
	m.mu.Lock()
	defer m.mu.Unlock()
	mappings := slices.Collect(maps.Values(m.state.mappings))
	slices.SortFunc(mappings, func(a, b timetable.EventMapping) int { return int(a.ID - b.ID) })
	return mappings
}

// InsertEvent puts an event into the calendar outside of any enrollment
func (m *Memory) InsertEvent(ownerID int64, title string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.nextEventID++
	id := m.state.nextEventID
	m.state.events[id] = CalendarEvent{ID: id, Title: title, OwnerID: ownerID}
	return id
}

func (m *Memory) InTx(ctx context.Context, fn func(ctx context.Context, repos timetable.Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{m: m, s: m.state.clone()}
	repos := timetable.Repos{
		Enrollments: enrollmentStore{tx},
		Mappings:    mappingStore{tx},
		Courses:     catalog{tx},
		Calendar:    sink{tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	m.state = tx.s
	return nil
}

type memoryTx struct {
	m       *Memory
	s       state
	created int
}

type enrollmentStore struct{ tx *memoryTx }

func (e enrollmentStore) Create(ctx context.Context, arg timetable.NewEnrollment) (timetable.Enrollment, error) {
	for _, existing := range e.tx.s.enrollments {
		if existing.StudentID == arg.StudentID &&
			existing.SemesterCode == arg.SemesterCode &&
			existing.CourseID == arg.CourseID {
			return timetable.Enrollment{}, timetable.ErrDuplicateEnrollment
		}
	}
	e.tx.s.nextSeq++
	enrollment := timetable.Enrollment{
		ID:           uuid.New(),
		StudentID:    arg.StudentID,
		SemesterCode: arg.SemesterCode,
		CourseID:     arg.CourseID,
		// strictly increasing so listing order is stable
		CreatedAt: e.tx.m.clock().Add(time.Duration(e.tx.s.nextSeq) * time.Nanosecond),
	}
	e.tx.s.enrollments[enrollment.ID] = enrollment
	return enrollment, nil
}

func (e enrollmentStore) ListByStudent(ctx context.Context, studentID int64, semesterCode string) ([]timetable.Enrollment, error) {
	var found []timetable.Enrollment
	for _, enrollment := range sortedEnrollments(e.tx.s.enrollments) {
		if enrollment.StudentID == studentID && enrollment.SemesterCode == semesterCode {
			found = append(found, enrollment)
		}
	}
	return found, nil
}

func (e enrollmentStore) FindByStudentAndCourse(
	ctx context.Context,
	studentID int64,
	semesterCode string,
	courseID int64,
) (timetable.Enrollment, error) {
	for _, enrollment := range e.tx.s.enrollments {
		if enrollment.StudentID == studentID &&
			enrollment.SemesterCode == semesterCode &&
			enrollment.CourseID == courseID {
			return enrollment, nil
		}
	}
	return timetable.Enrollment{}, timetable.ErrEnrollmentNotFound
}

func (e enrollmentStore) Get(ctx context.Context, id uuid.UUID) (timetable.Enrollment, error) {
	enrollment, ok := e.tx.s.enrollments[id]
	if !ok {
		return timetable.Enrollment{}, timetable.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (e enrollmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := e.tx.s.enrollments[id]; !ok {
		return timetable.ErrEnrollmentNotFound
	}
	delete(e.tx.s.enrollments, id)
	return nil
}

// the whole memory store is already locked for the transaction
func (e enrollmentStore) LockStudent(ctx context.Context, studentID int64) error {
	return nil
}

type mappingStore struct{ tx *memoryTx }

func (ms mappingStore) Create(ctx context.Context, enrollmentID uuid.UUID, calendarEventID int64) (timetable.EventMapping, error) {
	ms.tx.s.nextMappingID++
	mapping := timetable.EventMapping{
		ID:              ms.tx.s.nextMappingID,
		EnrollmentID:    enrollmentID,
		CalendarEventID: calendarEventID,
	}
	ms.tx.s.mappings[mapping.ID] = mapping
	return mapping, nil
}

func (ms mappingStore) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]timetable.EventMapping, error) {
	var found []timetable.EventMapping
	for _, mapping := range ms.tx.s.mappings {
		if mapping.EnrollmentID == enrollmentID {
			found = append(found, mapping)
		}
	}
	slices.SortFunc(found, func(a, b timetable.EventMapping) int { return int(a.ID - b.ID) })
	return found, nil
}

func (ms mappingStore) DeleteByEnrollment(ctx context.Context, enrollmentID uuid.UUID) error {
	maps.DeleteFunc(ms.tx.s.mappings, func(_ int64, mapping timetable.EventMapping) bool {
		return mapping.EnrollmentID == enrollmentID
	})
	return nil
}

type catalog struct{ tx *memoryTx }

func (c catalog) Course(ctx context.Context, courseID int64) (timetable.Course, error) {
	course, ok := c.tx.m.courses[courseID]
	if !ok {
		return timetable.Course{}, fmt.Errorf("%w: %d", timetable.ErrCourseNotFound, courseID)
	}
	return course, nil
}

func (c catalog) Courses(ctx context.Context, courseIDs []int64) (map[int64]timetable.Course, error) {
	found := make(map[int64]timetable.Course, len(courseIDs))
	for _, id := range courseIDs {
		if course, ok := c.tx.m.courses[id]; ok {
			found[id] = course
		}
	}
	return found, nil
}

func (c catalog) Slots(ctx context.Context, courseID int64) ([]timetable.WeeklySlot, error) {
	return slices.Clone(c.tx.m.slots[courseID]), nil
}

func (c catalog) SlotsForCourses(ctx context.Context, courseIDs []int64) (map[int64][]timetable.WeeklySlot, error) {
	found := make(map[int64][]timetable.WeeklySlot, len(courseIDs))
	for _, id := range courseIDs {
		if slots, ok := c.tx.m.slots[id]; ok {
			found[id] = slices.Clone(slots)
		}
	}
	return found, nil
}

type sink struct{ tx *memoryTx }

func (s sink) CreateEvent(ctx context.Context, arg timetable.NewCalendarEvent) (int64, error) {
	if s.tx.m.failCreateAfter > 0 && s.tx.created >= s.tx.m.failCreateAfter {
		return 0, ErrInjected
	}
	s.tx.created++
	s.tx.s.nextEventID++
	id := s.tx.s.nextEventID
	s.tx.s.events[id] = CalendarEvent{
		ID:      id,
		Title:   arg.Title,
		Room:    arg.Room,
		Start:   arg.Start,
		End:     arg.End,
		OwnerID: arg.OwnerID,
	}
	return id, nil
}

func (s sink) DeleteEvents(ctx context.Context, ownerID int64, eventIDs []int64) error {
	if s.tx.m.failDelete {
		return ErrInjected
	}
	for _, id := range eventIDs {
		if event, ok := s.tx.s.events[id]; ok && event.OwnerID != ownerID {
			return fmt.Errorf("%w: event %d", timetable.ErrForbidden, id)
		}
	}
	for _, id := range eventIDs {
		delete(s.tx.s.events, id)
	}
	return nil
}

func sortedEnrollments(enrollments map[uuid.UUID]timetable.Enrollment) []timetable.Enrollment {
	sorted := slices.Collect(maps.Values(enrollments))
	slices.SortFunc(sorted, func(a, b timetable.Enrollment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return sorted
}

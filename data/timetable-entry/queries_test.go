package timetableentry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Pjt727/cample/data/testdb"
	"github.com/Pjt727/cample/timetable"
	"github.com/google/uuid"
)

// these tests need a postgres database in TEST_DB_CONN and are skipped otherwise

func fallSemester(t *testing.T) timetable.Semester {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatal(err)
	}
	return timetable.Semester{
		Code:     "2025-2",
		Start:    time.Date(2025, time.September, 1, 0, 0, 0, 0, loc),
		End:      time.Date(2025, time.December, 19, 0, 0, 0, 0, loc),
		Location: loc,
	}
}

type pgFixture struct {
	q       *EntryQueries
	service *timetable.Service
	algebra int64
	physics int64
	history int64
}

func newPgFixture(t *testing.T) pgFixture {
	t.Helper()
	pool := testdb.Pool(t)
	q := NewEntryQuery(pool)
	ctx := context.Background()
	three := 3

	insert := func(course timetable.Course, slots ...timetable.WeeklySlot) int64 {
		id, err := q.InsertCourse(ctx, course, slots)
		if err != nil {
			t.Fatal(err)
		}
		return id
	}
	f := pgFixture{q: q, service: timetable.NewService(NewTxRunner(pool), fallSemester(t))}
	f.algebra = insert(
		timetable.Course{SemesterCode: "2025-2", Code: "MTH101", Name: "Algebra", Professor: "Kim", Section: "01", Credit: &three},
		timetable.WeeklySlot{Day: time.Monday, Start: timetable.NewTimeOfDay(13, 0), End: timetable.NewTimeOfDay(15, 0), Room: "B-101"},
	)
	f.physics = insert(
		timetable.Course{SemesterCode: "2025-2", Code: "PHY101", Name: "Physics", Credit: &three},
		timetable.WeeklySlot{Day: time.Monday, Start: timetable.NewTimeOfDay(14, 0), End: timetable.NewTimeOfDay(16, 0)},
	)
	f.history = insert(
		timetable.Course{SemesterCode: "2025-1", Code: "HIS100", Name: "History"},
		timetable.WeeklySlot{Day: time.Friday, Start: timetable.NewTimeOfDay(9, 0), End: timetable.NewTimeOfDay(10, 0)},
	)
	return f
}

func TestPostgresTryAddAndRemove(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	added, err := f.service.TryAdd(ctx, 42, f.algebra)
	if err != nil {
		t.Fatal(err)
	}
	if added.Conflict || added.CreatedEventCount != 16 {
		t.Fatalf("unexpected result %+v", added)
	}
	if count, err := f.q.CountLectureEvents(ctx, 42); err != nil || count != 16 {
		t.Fatalf("expected 16 lecture events got %d (%v)", count, err)
	}

	got, err := f.service.Timetable(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Courses) != 1 || got.Courses[0].Course.Title() != "Algebra (Kim) - 01" {
		t.Fatalf("timetable %+v", got)
	}
	if room := got.Courses[0].Slots[0].Room; room != "B-101" {
		t.Errorf("room %q", room)
	}

	removed, err := f.service.Remove(ctx, 42, added.EnrollmentID)
	if err != nil {
		t.Fatal(err)
	}
	if removed.DeletedEventCount != 16 {
		t.Errorf("deleted %d events", removed.DeletedEventCount)
	}
	if count, _ := f.q.CountLectureEvents(ctx, 42); count != 0 {
		t.Errorf("%d events left behind", count)
	}
}

func TestPostgresErrors(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	if _, err := f.service.TryAdd(ctx, 1, 999_999); !errors.Is(err, timetable.ErrCourseNotFound) {
		t.Errorf("expected course not found got %v", err)
	}
	if _, err := f.service.TryAdd(ctx, 1, f.history); !errors.Is(err, timetable.ErrSemesterMismatch) {
		t.Errorf("expected semester mismatch got %v", err)
	}
	if _, err := f.service.TryAdd(ctx, 1, f.algebra); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.TryAdd(ctx, 1, f.algebra); !errors.Is(err, timetable.ErrDuplicateEnrollment) {
		t.Errorf("expected duplicate got %v", err)
	}
	if _, err := f.service.Remove(ctx, 1, uuid.New()); !errors.Is(err, timetable.ErrEnrollmentNotFound) {
		t.Errorf("expected not found got %v", err)
	}
}

func TestPostgresReplace(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	first, err := f.service.TryAdd(ctx, 7, f.algebra)
	if err != nil {
		t.Fatal(err)
	}
	probe, err := f.service.TryAdd(ctx, 7, f.physics)
	if err != nil {
		t.Fatal(err)
	}
	if !probe.Conflict || len(probe.Conflicts) != 1 || probe.Conflicts[0].ExistingCourseName != "Algebra" {
		t.Fatalf("expected one conflict with Algebra got %+v", probe)
	}

	resolved, err := f.service.Resolve(ctx, 7, f.physics, timetable.DecisionReplace)
	if err != nil {
		t.Fatal(err)
	}
	if !resolved.Applied || resolved.DeletedEventCount != 16 || resolved.CreatedEventCount != 16 {
		t.Fatalf("unexpected result %+v", resolved)
	}
	if len(resolved.RemovedEnrollmentIDs) != 1 || resolved.RemovedEnrollmentIDs[0] != first.EnrollmentID {
		t.Errorf("removed %v", resolved.RemovedEnrollmentIDs)
	}
	if count, _ := f.q.CountLectureEvents(ctx, 7); count != 16 {
		t.Errorf("expected 16 events got %d", count)
	}
}

func TestPostgresConcurrentAddsOfTheSameCourse(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.service.TryAdd(ctx, 9, f.algebra)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, timetable.ErrDuplicateEnrollment):
			t.Errorf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one add to succeed got %d", succeeded)
	}
	if count, _ := f.q.CountLectureEvents(ctx, 9); count != 16 {
		t.Errorf("expected 16 events got %d", count)
	}
}

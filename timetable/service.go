package timetable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Service is the entry point for changing a student's timetable.
//
// Adding a course is a two step protocol: TryAdd commits straight away when
// nothing overlaps and otherwise reports the conflicts without touching
// anything. The caller then calls Resolve with KEEP or REPLACE. Resolve never
// trusts what TryAdd saw, every check runs again inside its own transaction.
type Service struct {
	tx           TxRunner
	semester     Semester
	materializer *Materializer
	notifier     Notifier
	logger       *slog.Logger
}

type Option func(*Service)

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(tx TxRunner, semester Semester, opts ...Option) *Service {
	s := &Service{
		tx:       tx,
		semester: semester,
		notifier: discardNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.materializer = NewMaterializer(semester, s.logger)
	return s
}

func (s *Service) Semester() Semester {
	return s.semester
}

type addPlan struct {
	course    Course
	slots     []WeeklySlot
	conflicts []Conflict
}

func (s *Service) TryAdd(ctx context.Context, studentID, courseID int64) (TryAddResult, error) {
	var result TryAddResult
	var changes []Change
	err := s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		if err := repos.Enrollments.LockStudent(ctx, studentID); err != nil {
			return err
		}
		plan, err := s.plan(ctx, repos, studentID, courseID)
		if err != nil {
			return err
		}
		if len(plan.conflicts) != 0 {
			result.Conflict = true
			result.Conflicts = plan.conflicts
			return nil
		}

		enrollment, created, err := s.add(ctx, repos, studentID, plan)
		if err != nil {
			return err
		}
		result.EnrollmentID = enrollment.ID
		result.CreatedEventCount = created
		changes = append(changes, addedChange(enrollment, created))
		return nil
	})
	if err != nil {
		return TryAddResult{}, err
	}

	s.logger.Info("try add",
		"student", studentID,
		"course", courseID,
		"conflicts", len(result.Conflicts),
		"created_events", result.CreatedEventCount,
	)
	s.publish(changes)
	return result, nil
}

func (s *Service) Resolve(
	ctx context.Context,
	studentID, courseID int64,
	decision Decision,
) (ResolveResult, error) {
	if decision != DecisionKeep && decision != DecisionReplace {
		return ResolveResult{}, fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, decision)
	}

	var result ResolveResult
	var changes []Change
	err := s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		if err := repos.Enrollments.LockStudent(ctx, studentID); err != nil {
			return err
		}
		plan, err := s.plan(ctx, repos, studentID, courseID)
		if err != nil {
			return err
		}

		if len(plan.conflicts) != 0 && decision == DecisionKeep {
			return nil
		}

		// removals complete before anything of the new course is created so no
		// committed state ever holds two overlapping enrollments
		for _, id := range DistinctEnrollments(plan.conflicts) {
			removed, deleted, err := s.remove(ctx, repos, id)
			if err != nil {
				return fmt.Errorf("could not replace enrollment %s: %w", id, err)
			}
			result.RemovedEnrollmentIDs = append(result.RemovedEnrollmentIDs, id)
			result.DeletedEventCount += deleted
			changes = append(changes, removedChange(removed, deleted))
		}

		enrollment, created, err := s.add(ctx, repos, studentID, plan)
		if err != nil {
			return err
		}
		result.Applied = true
		result.EnrollmentID = enrollment.ID
		result.CreatedEventCount = created
		changes = append(changes, addedChange(enrollment, created))
		return nil
	})
	if err != nil {
		return ResolveResult{}, err
	}
	if result.RemovedEnrollmentIDs == nil {
		result.RemovedEnrollmentIDs = []uuid.UUID{}
	}

	s.logger.Info("resolve",
		"student", studentID,
		"course", courseID,
		"decision", decision,
		"applied", result.Applied,
		"removed", len(result.RemovedEnrollmentIDs),
	)
	s.publish(changes)
	return result, nil
}

func (s *Service) Remove(ctx context.Context, studentID int64, enrollmentID uuid.UUID) (RemoveResult, error) {
	var result RemoveResult
	var changes []Change
	err := s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		if err := repos.Enrollments.LockStudent(ctx, studentID); err != nil {
			return err
		}
		enrollment, err := repos.Enrollments.Get(ctx, enrollmentID)
		if err != nil {
			return err
		}
		if enrollment.StudentID != studentID {
			return fmt.Errorf("%w: enrollment %s belongs to another student", ErrForbidden, enrollmentID)
		}
		removed, deleted, err := s.remove(ctx, repos, enrollmentID)
		if err != nil {
			return err
		}
		result.DeletedEventCount = deleted
		changes = append(changes, removedChange(removed, deleted))
		return nil
	})
	if err != nil {
		return RemoveResult{}, err
	}

	s.logger.Info("remove", "student", studentID, "enrollment", enrollmentID, "deleted_events", result.DeletedEventCount)
	s.publish(changes)
	return result, nil
}

// Timetable lists the student's enrollments for the configured semester
// together with each course and its weekly slots
func (s *Service) Timetable(ctx context.Context, studentID int64) (Timetable, error) {
	timetable := Timetable{SemesterCode: s.semester.Code, Semester: s.semester}
	err := s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		enrollments, err := repos.Enrollments.ListByStudent(ctx, studentID, s.semester.Code)
		if err != nil {
			return err
		}
		if len(enrollments) == 0 {
			return nil
		}
		ids := courseIDs(enrollments)
		courses, err := repos.Courses.Courses(ctx, ids)
		if err != nil {
			return err
		}
		slots, err := repos.Courses.SlotsForCourses(ctx, ids)
		if err != nil {
			return err
		}
		for _, enrollment := range enrollments {
			course, ok := courses[enrollment.CourseID]
			if !ok {
				course = Course{ID: enrollment.CourseID, SemesterCode: enrollment.SemesterCode}
			}
			timetable.Courses = append(timetable.Courses, EnrolledCourse{
				Enrollment: enrollment,
				Course:     course,
				Slots:      slots[enrollment.CourseID],
			})
		}
		return nil
	})
	if err != nil {
		return Timetable{}, err
	}
	return timetable, nil
}

func (s *Service) TotalCredits(ctx context.Context, studentID int64) (int, error) {
	timetable, err := s.Timetable(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return timetable.TotalCredits(), nil
}

// plan runs every validation and the conflict detection, it never writes
func (s *Service) plan(ctx context.Context, repos Repos, studentID, courseID int64) (addPlan, error) {
	_, err := repos.Enrollments.FindByStudentAndCourse(ctx, studentID, s.semester.Code, courseID)
	if err == nil {
		return addPlan{}, fmt.Errorf("%w: course %d", ErrDuplicateEnrollment, courseID)
	}
	if !errors.Is(err, ErrEnrollmentNotFound) {
		return addPlan{}, err
	}

	course, err := repos.Courses.Course(ctx, courseID)
	if err != nil {
		return addPlan{}, err
	}
	if course.SemesterCode != s.semester.Code {
		return addPlan{}, fmt.Errorf("%w: course %d is in %s", ErrSemesterMismatch, courseID, course.SemesterCode)
	}
	slots, err := repos.Courses.Slots(ctx, courseID)
	if err != nil {
		return addPlan{}, err
	}

	existing, err := repos.Enrollments.ListByStudent(ctx, studentID, s.semester.Code)
	if err != nil {
		return addPlan{}, err
	}
	plan := addPlan{course: course, slots: slots}
	if len(existing) == 0 || len(slots) == 0 {
		return plan, nil
	}
	slotsByCourse, err := repos.Courses.SlotsForCourses(ctx, courseIDs(existing))
	if err != nil {
		return addPlan{}, err
	}
	plan.conflicts = FindConflicts(existing, slotsByCourse, slots)
	if len(plan.conflicts) == 0 {
		return plan, nil
	}

	// names are looked up for this request only
	conflicting := make([]int64, 0, len(plan.conflicts))
	for _, c := range plan.conflicts {
		conflicting = append(conflicting, c.ExistingCourseID)
	}
	names, err := repos.Courses.Courses(ctx, conflicting)
	if err != nil {
		return addPlan{}, err
	}
	for i := range plan.conflicts {
		if c, ok := names[plan.conflicts[i].ExistingCourseID]; ok {
			plan.conflicts[i].ExistingCourseName = c.Name
		}
	}
	return plan, nil
}

func (s *Service) add(ctx context.Context, repos Repos, studentID int64, plan addPlan) (Enrollment, int, error) {
	enrollment, err := repos.Enrollments.Create(ctx, NewEnrollment{
		StudentID:    studentID,
		SemesterCode: s.semester.Code,
		CourseID:     plan.course.ID,
	})
	if err != nil {
		return Enrollment{}, 0, err
	}
	mappings, err := s.materializer.Materialize(ctx, repos, enrollment, plan.course.Title(), plan.slots)
	if err != nil {
		return Enrollment{}, 0, err
	}
	return enrollment, len(mappings), nil
}

// remove deletes the events first, then the mappings and finally the enrollment
func (s *Service) remove(ctx context.Context, repos Repos, enrollmentID uuid.UUID) (Enrollment, int, error) {
	enrollment, err := repos.Enrollments.Get(ctx, enrollmentID)
	if err != nil {
		return Enrollment{}, 0, err
	}
	deleted, err := s.materializer.Dematerialize(ctx, repos, enrollment)
	if err != nil {
		return Enrollment{}, 0, err
	}
	if err := repos.Enrollments.Delete(ctx, enrollmentID); err != nil {
		return Enrollment{}, 0, err
	}
	return enrollment, deleted, nil
}

func (s *Service) publish(changes []Change) {
	for _, change := range changes {
		s.notifier.Publish(change)
	}
}

func courseIDs(enrollments []Enrollment) []int64 {
	ids := make([]int64, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.CourseID
	}
	return ids
}

func addedChange(e Enrollment, events int) Change {
	return Change{Kind: ChangeAdded, StudentID: e.StudentID, EnrollmentID: e.ID, CourseID: e.CourseID, EventCount: events}
}

func removedChange(e Enrollment, events int) Change {
	return Change{Kind: ChangeRemoved, StudentID: e.StudentID, EnrollmentID: e.ID, CourseID: e.CourseID, EventCount: events}
}

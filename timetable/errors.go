package timetable

// repositories and sinks should wrap their failures with one of these
//    so the http layer can pick a status without knowing the backend
// a conflict is not an error, it is returned as part of a result

import "errors"

var (
	// the same course is already in the student's timetable for the semester
	ErrDuplicateEnrollment = errors.New("course already in timetable")

	ErrCourseNotFound = errors.New("course not found")

	// the course exists but is offered in another semester
	ErrSemesterMismatch = errors.New("course is not offered in this semester")

	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// the target belongs to another student
	ErrForbidden = errors.New("forbidden")

	// the calendar rejected or could not take a call, nothing was changed
	ErrSinkFailure = errors.New("calendar sink failure")

	ErrInvalidInput = errors.New("invalid input")
)

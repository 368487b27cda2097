package timetable

import (
	"context"
	"fmt"
	"log/slog"

	logginghelpers "github.com/Pjt727/cample/data/logging-helpers"
)

// Materializer turns an enrollment into dated calendar events and back.
// It never commits anything itself, the repos it is handed decide the
// transaction so a failure partway leaves nothing behind.
type Materializer struct {
	semester Semester
	logger   *slog.Logger
}

func NewMaterializer(semester Semester, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{semester: semester, logger: logger}
}

func (m *Materializer) Materialize(
	ctx context.Context,
	repos Repos,
	enrollment Enrollment,
	title string,
	slots []WeeklySlot,
) ([]EventMapping, error) {
	var mappings []EventMapping
	for _, slot := range slots {
		occurrences, err := Schedule(slot, m.semester)
		if err != nil {
			return nil, fmt.Errorf("could not expand %s slot: %w", slot.Day, err)
		}
		for occurrence := range occurrences {
			eventID, err := repos.Calendar.CreateEvent(ctx, NewCalendarEvent{
				Title:   title,
				Room:    occurrence.Room,
				Start:   occurrence.Start,
				End:     occurrence.End,
				OwnerID: enrollment.StudentID,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: create event on %s: %w",
					ErrSinkFailure, occurrence.Date.Format("2006-01-02"), err)
			}
			mapping, err := repos.Mappings.Create(ctx, enrollment.ID, eventID)
			if err != nil {
				return nil, fmt.Errorf("could not map event %d: %w", eventID, err)
			}
			mappings = append(mappings, mapping)
		}
	}
	m.logger.Log(ctx, logginghelpers.LevelReportIO, "materialized enrollment",
		"enrollment", enrollment.ID,
		"course", enrollment.CourseID,
		"events", len(mappings),
	)
	return mappings, nil
}

// Dematerialize deletes the enrollment's events in one sink call and then its
// mappings. The enrollment row itself is left for the caller.
func (m *Materializer) Dematerialize(ctx context.Context, repos Repos, enrollment Enrollment) (int, error) {
	mappings, err := repos.Mappings.ListByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return 0, fmt.Errorf("could not list event mappings: %w", err)
	}
	eventIDs := make([]int64, len(mappings))
	for i, mapping := range mappings {
		eventIDs[i] = mapping.CalendarEventID
	}

	if len(eventIDs) != 0 {
		if err := repos.Calendar.DeleteEvents(ctx, enrollment.StudentID, eventIDs); err != nil {
			return 0, fmt.Errorf("%w: delete %d events: %w", ErrSinkFailure, len(eventIDs), err)
		}
	}
	if err := repos.Mappings.DeleteByEnrollment(ctx, enrollment.ID); err != nil {
		return 0, fmt.Errorf("could not delete event mappings: %w", err)
	}
	m.logger.Log(ctx, logginghelpers.LevelReportIO, "dematerialized enrollment",
		"enrollment", enrollment.ID,
		"events", len(eventIDs),
	)
	return len(eventIDs), nil
}

package timetable

import "github.com/google/uuid"

// FindConflicts compares every slot of every existing enrollment against every
// candidate slot. All pairs are reported since the caller decides what to
// remove from the full picture.
func FindConflicts(
	existing []Enrollment,
	slotsByCourse map[int64][]WeeklySlot,
	candidate []WeeklySlot,
) []Conflict {
	var conflicts []Conflict
	for _, enrollment := range existing {
		for _, held := range slotsByCourse[enrollment.CourseID] {
			for _, requested := range candidate {
				if !slotsOverlap(held, requested) {
					continue
				}
				conflicts = append(conflicts, Conflict{
					ExistingEnrollmentID: enrollment.ID,
					ExistingCourseID:     enrollment.CourseID,
					Day:                  held.Day,
					Existing:             held.Window(),
					Requested:            requested.Window(),
				})
			}
		}
	}
	return conflicts
}

// DistinctEnrollments keeps the first-seen order
func DistinctEnrollments(conflicts []Conflict) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(conflicts))
	var ids []uuid.UUID
	for _, c := range conflicts {
		if _, ok := seen[c.ExistingEnrollmentID]; ok {
			continue
		}
		seen[c.ExistingEnrollmentID] = struct{}{}
		ids = append(ids, c.ExistingEnrollmentID)
	}
	return ids
}

package timetable

// Overlaps treats both ranges as half open so a slot ending at 10:00 does not
// collide with one starting at 10:00
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

func slotsOverlap(a, b WeeklySlot) bool {
	return a.Day == b.Day && Overlaps(a.Start, a.End, b.Start, b.End)
}

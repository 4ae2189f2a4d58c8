package timetable

// Overlaps reports whether two half-open [start,end) ranges on the same day
// intersect. Abutting ranges (one ending exactly when the other starts) do
// not overlap. String comparison is correct for zero-padded "HH:MM".
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// findOverlapping collects every existing slot whose time range intersects
// the candidate's, tagging each with the dimension that produced it.
func findOverlapping(candidate Slot, existing []Slot, dimension string) []SlotConflict {
	var conflicts []SlotConflict
	for _, slot := range existing {
		if slot.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate.StartTime, candidate.EndTime, slot.StartTime, slot.EndTime) {
			conflicts = append(conflicts, SlotConflict{
				SlotID:      slot.ID,
				SubjectName: slot.SubjectName,
				TeacherName: slot.TeacherName,
				Class:       slot.ClassOrBatch,
				StartTime:   slot.StartTime,
				EndTime:     slot.EndTime,
				Dimension:   dimension,
			})
		}
	}
	return conflicts
}

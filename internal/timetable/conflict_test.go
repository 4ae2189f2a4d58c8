package timetable

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       bool
	}{
		{
			name:   "identical ranges overlap",
			start1: "09:00", end1: "10:00", start2: "09:00", end2: "10:00",
			want: true,
		},
		{
			name:   "partial overlap",
			start1: "09:00", end1: "10:00", start2: "09:30", end2: "10:30",
			want: true,
		},
		{
			name:   "contained range overlaps",
			start1: "09:00", end1: "12:00", start2: "10:00", end2: "11:00",
			want: true,
		},
		{
			name:   "abutting ranges do not overlap",
			start1: "09:00", end1: "10:30", start2: "10:30", end2: "11:30",
			want: false,
		},
		{
			name:   "abutting the other way",
			start1: "10:30", end1: "11:30", start2: "09:00", end2: "10:30",
			want: false,
		},
		{
			name:   "disjoint ranges",
			start1: "09:00", end1: "10:00", start2: "14:00", end2: "15:00",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.start1, tt.end1, tt.start2, tt.end2); got != tt.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tt.start1, tt.end1, tt.start2, tt.end2, got, tt.want)
			}
		})
	}
}

func TestFindOverlapping(t *testing.T) {
	existing := []Slot{
		{ID: "a", SubjectName: "DBMS", ClassOrBatch: "3rd year - E1", StartTime: "09:00", EndTime: "10:00"},
		{ID: "b", SubjectName: "OS", ClassOrBatch: "3rd year - E1", StartTime: "11:00", EndTime: "12:00"},
	}

	t.Run("overlapping candidate is rejected", func(t *testing.T) {
		candidate := Slot{ClassOrBatch: "3rd year - E1", StartTime: "09:30", EndTime: "10:30"}
		conflicts := findOverlapping(candidate, existing, "section")
		if len(conflicts) != 1 {
			t.Fatalf("got %d conflicts, want 1", len(conflicts))
		}
		if conflicts[0].SlotID != "a" {
			t.Errorf("conflict slot = %s, want a", conflicts[0].SlotID)
		}
		if conflicts[0].Dimension != "section" {
			t.Errorf("dimension = %s, want section", conflicts[0].Dimension)
		}
	})

	t.Run("abutting candidate passes", func(t *testing.T) {
		candidate := Slot{ClassOrBatch: "3rd year - E1", StartTime: "10:00", EndTime: "11:00"}
		if conflicts := findOverlapping(candidate, existing, "section"); len(conflicts) != 0 {
			t.Errorf("got %d conflicts, want 0", len(conflicts))
		}
	})

	t.Run("candidate spanning both conflicts with both", func(t *testing.T) {
		candidate := Slot{ClassOrBatch: "3rd year - E1", StartTime: "09:30", EndTime: "11:30"}
		if conflicts := findOverlapping(candidate, existing, "section"); len(conflicts) != 2 {
			t.Errorf("got %d conflicts, want 2", len(conflicts))
		}
	})

	t.Run("candidate skips itself on re-check", func(t *testing.T) {
		candidate := Slot{ID: "a", ClassOrBatch: "3rd year - E1", StartTime: "09:00", EndTime: "10:00"}
		if conflicts := findOverlapping(candidate, existing, "section"); len(conflicts) != 0 {
			t.Errorf("got %d conflicts, want 0", len(conflicts))
		}
	})
}

func TestSlotValidate(t *testing.T) {
	valid := Slot{
		SubjectID:    "s1",
		TeacherID:    "t1",
		ClassOrBatch: "3rd year - E1",
		DayOfWeek:    1,
		StartTime:    "09:00",
		EndTime:      "10:00",
		SlotType:     TypeTheory,
	}

	tests := []struct {
		name    string
		mutate  func(*Slot)
		wantErr bool
	}{
		{name: "valid slot", mutate: func(*Slot) {}, wantErr: false},
		{name: "missing subject", mutate: func(s *Slot) { s.SubjectID = "" }, wantErr: true},
		{name: "day too large", mutate: func(s *Slot) { s.DayOfWeek = 7 }, wantErr: true},
		{name: "negative day", mutate: func(s *Slot) { s.DayOfWeek = -1 }, wantErr: true},
		{name: "bad time format", mutate: func(s *Slot) { s.StartTime = "9:00" }, wantErr: true},
		{name: "hour out of range", mutate: func(s *Slot) { s.EndTime = "24:00" }, wantErr: true},
		{name: "start after end", mutate: func(s *Slot) { s.StartTime = "11:00" }, wantErr: true},
		{name: "start equals end", mutate: func(s *Slot) { s.StartTime = "10:00" }, wantErr: true},
		{name: "unknown slot type", mutate: func(s *Slot) { s.SlotType = "seminar" }, wantErr: true},
		{name: "lab slot", mutate: func(s *Slot) { s.SlotType = TypeLab }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := valid
			tt.mutate(&slot)
			err := slot.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

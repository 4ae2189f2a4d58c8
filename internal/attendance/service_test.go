package attendance

import (
	"context"
	"errors"
	"testing"

	"classtrack/internal/timetable"
)

type stubSlots struct {
	slot timetable.Slot
	err  error
}

func (s stubSlots) Get(context.Context, string) (timetable.Slot, error) {
	return s.slot, s.err
}

func TestMarkRejectsBeforePersisting(t *testing.T) {
	ownedSlot := timetable.Slot{ID: "slot-1", TeacherID: "teacher-1", SubjectID: "db"}
	good := []StudentRecord{{StudentID: "s1", Status: StatusPresent}}

	tests := []struct {
		name      string
		slots     SlotGetter
		teacherID string
		date      string
		records   []StudentRecord
		wantErr   error
	}{
		{
			name:      "mismatched owner is forbidden, not not-found",
			slots:     stubSlots{slot: ownedSlot},
			teacherID: "teacher-2",
			date:      "2024-03-01",
			records:   good,
			wantErr:   ErrForbidden,
		},
		{
			name:      "missing slot surfaces not found",
			slots:     stubSlots{err: timetable.ErrNotFound},
			teacherID: "teacher-1",
			date:      "2024-03-01",
			records:   good,
			wantErr:   timetable.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// repo is nil: every rejection must happen before any persistence
			svc := NewService(nil, tt.slots)
			_, err := svc.Mark(context.Background(), tt.teacherID, "slot-1", tt.date, tt.records)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Mark() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarkValidation(t *testing.T) {
	svc := NewService(nil, stubSlots{slot: timetable.Slot{ID: "slot-1", TeacherID: "t1"}})

	tests := []struct {
		name    string
		date    string
		records []StudentRecord
	}{
		{name: "bad date", date: "03/01/2024", records: []StudentRecord{{StudentID: "s1", Status: StatusPresent}}},
		{name: "empty roll", date: "2024-03-01", records: nil},
		{name: "bad status", date: "2024-03-01", records: []StudentRecord{{StudentID: "s1", Status: "maybe"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Mark(context.Background(), "t1", "slot-1", tt.date, tt.records)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Mark() error = %v, want ValidationError", err)
			}
		})
	}
}

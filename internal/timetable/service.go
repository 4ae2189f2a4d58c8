package timetable

import (
	"context"
	"fmt"
)

// Service validates candidate slots against the schedule before persisting.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create checks the candidate against the section's schedule and then the
// teacher's schedule, and inserts only when both are clear. The check and
// the insert are not atomic; the exact-tuple unique index is the only
// guarantee under concurrent creation.
func (s *Service) Create(ctx context.Context, slot Slot) (Slot, error) {
	if slot.SlotType == "" {
		slot.SlotType = TypeTheory
	}
	if err := slot.Validate(); err != nil {
		return Slot{}, err
	}

	sectionSlots, err := s.repo.ListByClassDay(ctx, slot.ClassOrBatch, slot.DayOfWeek)
	if err != nil {
		return Slot{}, err
	}
	if conflicts := findOverlapping(slot, sectionSlots, "section"); len(conflicts) > 0 {
		return Slot{}, &ConflictError{Dimension: "section", Conflicts: conflicts}
	}

	teacherSlots, err := s.repo.ListByTeacherDay(ctx, slot.TeacherID, slot.DayOfWeek)
	if err != nil {
		return Slot{}, err
	}
	if conflicts := findOverlapping(slot, teacherSlots, "teacher"); len(conflicts) > 0 {
		return Slot{}, &ConflictError{Dimension: "teacher", Conflicts: conflicts}
	}

	return s.repo.Insert(ctx, slot)
}

// BulkFailure records why one slot of a bulk request was rejected.
type BulkFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkResult reports the outcome of a bulk create. Created can be lower
// than Requested; partial success is surfaced, never swallowed.
type BulkResult struct {
	Requested int           `json:"requested"`
	Created   int           `json:"created"`
	Slots     []Slot        `json:"slots"`
	Failures  []BulkFailure `json:"failures,omitempty"`
}

// BulkCreate inserts slots one at a time, applying the full conflict check
// to each. Earlier inserts are visible to later checks within the batch.
func (s *Service) BulkCreate(ctx context.Context, slots []Slot) (BulkResult, error) {
	result := BulkResult{Requested: len(slots), Slots: []Slot{}}
	for i, slot := range slots {
		created, err := s.Create(ctx, slot)
		if err != nil {
			result.Failures = append(result.Failures, BulkFailure{
				Index: i,
				Error: fmt.Sprintf("slot %d: %v", i, err),
			})
			continue
		}
		result.Created++
		result.Slots = append(result.Slots, created)
	}
	return result, nil
}

package attendance

import (
	"context"

	"classtrack/internal/timetable"
)

// SlotGetter is the part of the timetable the service needs.
type SlotGetter interface {
	Get(ctx context.Context, id string) (timetable.Slot, error)
}

// Service enforces ownership and validation around attendance documents.
type Service struct {
	repo  *Repository
	slots SlotGetter
}

// NewService creates a service.
func NewService(repo *Repository, slots SlotGetter) *Service {
	return &Service{repo: repo, slots: slots}
}

// Mark records the full roll for one class meeting. The entire submission
// is rejected if any record is malformed; the caller must own the slot
// (ownership mismatch is ErrForbidden, not ErrNotFound); and the stored
// document snapshots subject/teacher/class from the slot at write time.
// Marking the same (slot, date) again replaces the previous roll entirely.
func (s *Service) Mark(ctx context.Context, teacherID, timetableID, date string, records []StudentRecord) (Document, error) {
	if !ValidDate(date) {
		return Document{}, &ValidationError{Msg: "date must be YYYY-MM-DD"}
	}
	if err := ValidateRecords(records); err != nil {
		return Document{}, err
	}

	slot, err := s.slots.Get(ctx, timetableID)
	if err != nil {
		return Document{}, err
	}
	if slot.TeacherID != teacherID {
		return Document{}, ErrForbidden
	}

	doc := Document{
		Date:         date,
		TimetableID:  slot.ID,
		SubjectID:    slot.SubjectID,
		SubjectName:  slot.SubjectName,
		SubjectCode:  slot.SubjectCode,
		TeacherID:    slot.TeacherID,
		TeacherName:  slot.TeacherName,
		ClassOrBatch: slot.ClassOrBatch,
		Records:      records,
	}
	return s.repo.Upsert(ctx, doc)
}

// Check returns the existing document for (slot, date) so a teacher can
// pre-fill a re-mark, after verifying slot ownership.
func (s *Service) Check(ctx context.Context, teacherID, timetableID, date string) (*Document, error) {
	slot, err := s.slots.Get(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	if slot.TeacherID != teacherID {
		return nil, ErrForbidden
	}
	return s.repo.GetBySlotDate(ctx, timetableID, date)
}

// ForTeacher lists a teacher's own documents, optionally by subject.
func (s *Service) ForTeacher(ctx context.Context, teacherID, subjectID string) ([]Document, error) {
	return s.repo.ListByTeacher(ctx, teacherID, subjectID)
}

// ForStudent extracts the caller's own entries from every document of the
// student's class. Other students' statuses are never included.
func (s *Service) ForStudent(ctx context.Context, studentID, classOrBatch string) ([]StudentView, error) {
	docs, err := s.repo.ListByClass(ctx, classOrBatch)
	if err != nil {
		return nil, err
	}
	return FilterStudent(docs, studentID), nil
}

// FilterStudent projects one student's entries out of a document list.
func FilterStudent(docs []Document, studentID string) []StudentView {
	views := []StudentView{}
	for _, doc := range docs {
		for _, rec := range doc.Records {
			if rec.StudentID == studentID {
				views = append(views, StudentView{
					Date:         doc.Date,
					Subject:      doc.SubjectName,
					Teacher:      doc.TeacherName,
					ClassOrBatch: doc.ClassOrBatch,
					Status:       rec.Status,
				})
			}
		}
	}
	return views
}

// All lists every document (admin view).
func (s *Service) All(ctx context.Context) ([]Document, error) {
	return s.repo.ListAll(ctx)
}

package attendance

import (
	"errors"
	"regexp"
	"time"
)

// Record statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Sentinel errors; handlers map ErrForbidden to 403 and ErrNotFound to 404.
var (
	ErrNotFound  = errors.New("attendance record not found")
	ErrForbidden = errors.New("not the owner of this timetable slot")
)

// ValidationError marks a bad submission; mapped to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StudentRecord is one student's status inside a document's roll.
type StudentRecord struct {
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
}

// Document is one marked class meeting: the full roll for a (slot, date)
// pair. Subject, teacher and class fields are snapshots copied from the
// slot at write time; later slot changes do not rewrite history.
type Document struct {
	ID           string          `json:"_id"`
	Date         string          `json:"date"`
	TimetableID  string          `json:"timetableId"`
	SubjectID    string          `json:"subjectId"`
	SubjectName  string          `json:"subjectName"`
	SubjectCode  string          `json:"subjectCode"`
	TeacherID    string          `json:"teacherId"`
	TeacherName  string          `json:"teacherName"`
	ClassOrBatch string          `json:"classOrBatch"`
	Records      []StudentRecord `json:"records"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// StudentView is one student's status entry as exposed to that student.
type StudentView struct {
	Date         string `json:"date"`
	Subject      string `json:"subject"`
	Teacher      string `json:"teacher"`
	ClassOrBatch string `json:"classOrBatch"`
	Status       string `json:"status"`
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is an ISO calendar date.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidateRecords rejects the whole submission if any entry is malformed.
// Partial acceptance is never allowed.
func ValidateRecords(records []StudentRecord) error {
	if len(records) == 0 {
		return &ValidationError{Msg: "records must not be empty"}
	}
	for _, rec := range records {
		if rec.StudentID == "" {
			return &ValidationError{Msg: "every record needs a studentId"}
		}
		if rec.Status != StatusPresent && rec.Status != StatusAbsent {
			return &ValidationError{Msg: "status must be present or absent"}
		}
	}
	return nil
}

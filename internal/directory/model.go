package directory

import (
	"errors"
	"time"
)

// Roles a user can hold. Exactly one per user.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Assignment roles on a teacher's section assignment.
const (
	AssignmentTeaching   = "teaching"
	AssignmentMentorship = "mentorship"
)

// Sentinel errors shared by repository and service.
var (
	ErrNotFound = errors.New("not found")
)

// ValidationError marks a bad request; handlers map it to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// Assignment records one (year, section, subject) a teacher is responsible
// for. SubjectName is a snapshot taken when the assignment is made.
type Assignment struct {
	Year         string `json:"year"`
	Section      string `json:"section"`
	SubjectID    string `json:"subjectId"`
	SubjectName  string `json:"subjectName"`
	Role         string `json:"role"`
	ClassOrBatch string `json:"classOrBatch"`
}

// Mentorship is a teacher's single mentorship posting.
type Mentorship struct {
	Year         string `json:"year"`
	Section      string `json:"section"`
	Description  string `json:"description,omitempty"`
	ClassOrBatch string `json:"classOrBatch"`
}

// User is a person with exactly one role. Student and teacher fields are
// populated only for the matching role.
type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`

	// Student-only.
	Enrollment string `json:"enrollment,omitempty"`
	Batch      string `json:"batch,omitempty"`
	Section    string `json:"section,omitempty"`

	// Teacher-only.
	Sections    []string     `json:"sections,omitempty"`
	Assignments []Assignment `json:"teacherAssignments,omitempty"`
	Mentorship  *Mentorship  `json:"mentorship,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ClassOrBatch derives the "{batch} - {section}" label for a student, or
// "" when either part is missing.
func (u *User) ClassOrBatch() string {
	if u.Role != RoleStudent || u.Batch == "" || u.Section == "" {
		return ""
	}
	return DeriveClassOrBatch(u.Batch, u.Section)
}

// DeriveClassOrBatch joins a batch/year and section into the canonical label.
func DeriveClassOrBatch(batch, section string) string {
	return batch + " - " + section
}

// Subject is a course unit.
type Subject struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Year      string    `json:"year"`
	Semester  string    `json:"semester"`
	CreatedAt time.Time `json:"createdAt"`
}

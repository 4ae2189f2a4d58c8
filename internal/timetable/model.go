package timetable

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Slot types.
const (
	TypeTheory   = "theory"
	TypeLab      = "lab"
	TypeTutorial = "tutorial"
)

// ErrNotFound is returned for missing slots.
var ErrNotFound = errors.New("timetable slot not found")

// Slot is one recurring scheduled class period. Times are zero-padded
// "HH:MM" strings, which order correctly under string comparison.
type Slot struct {
	ID           string    `json:"_id"`
	SubjectID    string    `json:"subjectId"`
	SubjectName  string    `json:"subjectName,omitempty"`
	SubjectCode  string    `json:"subjectCode,omitempty"`
	TeacherID    string    `json:"teacherId"`
	TeacherName  string    `json:"teacherName,omitempty"`
	ClassOrBatch string    `json:"classOrBatch"`
	DayOfWeek    int       `json:"dayOfWeek"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	SlotType     string    `json:"slotType"`
	Room         string    `json:"room,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks a candidate slot's fields before any conflict checking.
func (s Slot) Validate() error {
	if s.SubjectID == "" || s.TeacherID == "" || s.ClassOrBatch == "" {
		return errors.New("subjectId, teacherId and classOrBatch are required")
	}
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return errors.New("dayOfWeek must be between 0 and 6")
	}
	if !timeRe.MatchString(s.StartTime) || !timeRe.MatchString(s.EndTime) {
		return errors.New("startTime and endTime must be HH:MM 24-hour strings")
	}
	if s.StartTime >= s.EndTime {
		return errors.New("startTime must be before endTime")
	}
	switch s.SlotType {
	case TypeTheory, TypeLab, TypeTutorial:
		return nil
	default:
		return errors.New("slotType must be theory, lab or tutorial")
	}
}

// SlotConflict describes one existing slot that blocks a candidate.
type SlotConflict struct {
	SlotID      string `json:"slotId"`
	SubjectName string `json:"subjectName"`
	TeacherName string `json:"teacherName,omitempty"`
	Class       string `json:"class,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Dimension   string `json:"dimension"`
}

// ConflictError is returned when a candidate slot overlaps existing ones.
type ConflictError struct {
	Dimension string         `json:"dimension"`
	Conflicts []SlotConflict `json:"conflicts"`
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s %s-%s", c.SubjectName, c.StartTime, c.EndTime))
	}
	return fmt.Sprintf("%s conflict with: %s", e.Dimension, strings.Join(parts, ", "))
}

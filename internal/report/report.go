// Package report aggregates attendance documents into summary statistics
// and serializes them for export.
package report

import (
	"context"
	"math"
	"sort"

	"classtrack/internal/attendance"
)

// Stat is one aggregation bucket (a subject, teacher or class).
type Stat struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Classes    int     `json:"classes"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Monthly is the aggregation of one calendar month.
type Monthly struct {
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	TotalClasses  int     `json:"totalClasses"`
	TotalMarkings int     `json:"totalMarkings"`
	TotalPresent  int     `json:"totalPresent"`
	TotalAbsent   int     `json:"totalAbsent"`
	Percentage    float64 `json:"percentage"`
	BySubject     []Stat  `json:"bySubject"`
	ByTeacher     []Stat  `json:"byTeacher"`
	ByClass       []Stat  `json:"byClass"`
}

// Percentage computes present/total as a percentage rounded to two
// decimals. A zero total yields 0, never NaN.
func Percentage(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*10000) / 100
}

// Aggregate folds documents into a monthly report.
func Aggregate(docs []attendance.Document, month, year int) Monthly {
	out := Monthly{
		Month:     month,
		Year:      year,
		BySubject: []Stat{},
		ByTeacher: []Stat{},
		ByClass:   []Stat{},
	}

	type bucket struct {
		id      string
		name    string
		classes int
		present int
		absent  int
	}
	subjects := map[string]*bucket{}
	teachers := map[string]*bucket{}
	classes := map[string]*bucket{}

	add := func(m map[string]*bucket, key, id, name string) *bucket {
		b, ok := m[key]
		if !ok {
			b = &bucket{id: id, name: name}
			m[key] = b
		}
		return b
	}

	for _, doc := range docs {
		out.TotalClasses++
		sb := add(subjects, doc.SubjectID, doc.SubjectID, doc.SubjectName)
		tb := add(teachers, doc.TeacherID, doc.TeacherID, doc.TeacherName)
		cb := add(classes, doc.ClassOrBatch, "", doc.ClassOrBatch)
		sb.classes++
		tb.classes++
		cb.classes++

		for _, rec := range doc.Records {
			out.TotalMarkings++
			if rec.Status == attendance.StatusPresent {
				out.TotalPresent++
				sb.present++
				tb.present++
				cb.present++
			} else {
				out.TotalAbsent++
				sb.absent++
				tb.absent++
				cb.absent++
			}
		}
	}

	out.Percentage = Percentage(out.TotalPresent, out.TotalMarkings)

	collect := func(m map[string]*bucket) []Stat {
		stats := make([]Stat, 0, len(m))
		for _, b := range m {
			total := b.present + b.absent
			stats = append(stats, Stat{
				ID:         b.id,
				Name:       b.name,
				Classes:    b.classes,
				Present:    b.present,
				Absent:     b.absent,
				Total:      total,
				Percentage: Percentage(b.present, total),
			})
		}
		sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
		return stats
	}
	out.BySubject = collect(subjects)
	out.ByTeacher = collect(teachers)
	out.ByClass = collect(classes)
	return out
}

// Service reads documents for reporting.
type Service struct {
	repo *attendance.Repository
}

// NewService creates a reporting service over the attendance repository.
func NewService(repo *attendance.Repository) *Service {
	return &Service{repo: repo}
}

// MonthlyFilter narrows a monthly report.
type MonthlyFilter struct {
	ClassOrBatch string
	SubjectID    string
	TeacherID    string
}

// Monthly aggregates one calendar month.
func (s *Service) Monthly(ctx context.Context, month, year int, f MonthlyFilter) (Monthly, error) {
	docs, err := s.repo.ListByMonth(ctx, month, year, f.ClassOrBatch, f.SubjectID, f.TeacherID)
	if err != nil {
		return Monthly{}, err
	}
	return Aggregate(docs, month, year), nil
}

// MonthlyDocuments returns the raw documents behind a monthly report, for
// the CSV variant.
func (s *Service) MonthlyDocuments(ctx context.Context, month, year int, f MonthlyFilter) ([]attendance.Document, error) {
	return s.repo.ListByMonth(ctx, month, year, f.ClassOrBatch, f.SubjectID, f.TeacherID)
}

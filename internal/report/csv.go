package report

import (
	"encoding/csv"
	"io"
	"time"

	"classtrack/internal/attendance"
)

// WriteCSV streams documents as CSV, one row per (document, student record).
// withTimestamp appends the document's updated-at column, used by the
// monthly export.
func WriteCSV(w io.Writer, docs []attendance.Document, withTimestamp bool) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Date", "Subject", "Subject Code", "Teacher", "Class", "Student ID", "Status"}
	if withTimestamp {
		header = append(header, "Marked At")
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, doc := range docs {
		for _, rec := range doc.Records {
			row := []string{
				doc.Date,
				doc.SubjectName,
				doc.SubjectCode,
				doc.TeacherName,
				doc.ClassOrBatch,
				rec.StudentID,
				rec.Status,
			}
			if withTimestamp {
				row = append(row, doc.UpdatedAt.UTC().Format(time.RFC3339))
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

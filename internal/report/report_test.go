package report

import (
	"bytes"
	"strings"
	"testing"

	"classtrack/internal/attendance"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name    string
		present int
		total   int
		want    float64
	}{
		{name: "zero total yields zero, not NaN", present: 0, total: 0, want: 0},
		{name: "all present", present: 10, total: 10, want: 100},
		{name: "two thirds rounds to two decimals", present: 2, total: 3, want: 66.67},
		{name: "one third rounds to two decimals", present: 1, total: 3, want: 33.33},
		{name: "none present", present: 0, total: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.present, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.present, tt.total, got, tt.want)
			}
		})
	}
}

func sampleDocs() []attendance.Document {
	return []attendance.Document{
		{
			Date: "2024-03-01", SubjectID: "db", SubjectName: "DBMS", SubjectCode: "DBMS",
			TeacherID: "t1", TeacherName: "Dr. Rao", ClassOrBatch: "3rd year - E1",
			Records: []attendance.StudentRecord{
				{StudentID: "a", Status: attendance.StatusPresent},
				{StudentID: "b", Status: attendance.StatusPresent},
				{StudentID: "c", Status: attendance.StatusAbsent},
			},
		},
		{
			Date: "2024-03-04", SubjectID: "os", SubjectName: "OS", SubjectCode: "OS",
			TeacherID: "t1", TeacherName: "Dr. Rao", ClassOrBatch: "3rd year - E2",
			Records: []attendance.StudentRecord{
				{StudentID: "d", Status: attendance.StatusAbsent},
			},
		},
	}
}

func TestAggregate(t *testing.T) {
	monthly := Aggregate(sampleDocs(), 3, 2024)

	if monthly.TotalClasses != 2 {
		t.Errorf("TotalClasses = %d, want 2", monthly.TotalClasses)
	}
	if monthly.TotalMarkings != 4 {
		t.Errorf("TotalMarkings = %d, want 4", monthly.TotalMarkings)
	}
	if monthly.TotalPresent != 2 || monthly.TotalAbsent != 2 {
		t.Errorf("present/absent = %d/%d, want 2/2", monthly.TotalPresent, monthly.TotalAbsent)
	}
	if monthly.Percentage != 50 {
		t.Errorf("Percentage = %v, want 50", monthly.Percentage)
	}

	if len(monthly.BySubject) != 2 {
		t.Fatalf("BySubject len = %d, want 2", len(monthly.BySubject))
	}
	dbms := monthly.BySubject[0]
	if dbms.Name != "DBMS" || dbms.Present != 2 || dbms.Total != 3 || dbms.Percentage != 66.67 {
		t.Errorf("unexpected DBMS stat: %+v", dbms)
	}

	if len(monthly.ByTeacher) != 1 {
		t.Fatalf("ByTeacher len = %d, want 1", len(monthly.ByTeacher))
	}
	if monthly.ByTeacher[0].Classes != 2 {
		t.Errorf("teacher classes = %d, want 2", monthly.ByTeacher[0].Classes)
	}

	if len(monthly.ByClass) != 2 {
		t.Errorf("ByClass len = %d, want 2", len(monthly.ByClass))
	}
}

func TestAggregateEmpty(t *testing.T) {
	monthly := Aggregate(nil, 1, 2024)
	if monthly.Percentage != 0 {
		t.Errorf("empty month Percentage = %v, want 0", monthly.Percentage)
	}
	if monthly.TotalClasses != 0 || monthly.TotalMarkings != 0 {
		t.Errorf("empty month totals = %d/%d, want 0/0", monthly.TotalClasses, monthly.TotalMarkings)
	}
	if monthly.BySubject == nil || monthly.ByTeacher == nil || monthly.ByClass == nil {
		t.Error("breakdowns should be empty slices, not nil")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleDocs(), false); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header + one row per (document, record)
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "Date,Subject,Subject Code,Teacher,Class,Student ID,Status") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "2024-03-01,DBMS,DBMS,Dr. Rao,3rd year - E1,a,present" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestWriteCSVWithTimestamp(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleDocs(), true); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.HasSuffix(lines[0], ",Marked At") {
		t.Errorf("timestamp header missing: %s", lines[0])
	}
}

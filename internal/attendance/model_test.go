package attendance

import "testing"

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []StudentRecord
		wantErr bool
	}{
		{
			name:    "all valid",
			records: []StudentRecord{{StudentID: "s1", Status: StatusPresent}, {StudentID: "s2", Status: StatusAbsent}},
			wantErr: false,
		},
		{
			name:    "empty submission",
			records: nil,
			wantErr: true,
		},
		{
			name:    "one bad status rejects the whole batch",
			records: []StudentRecord{{StudentID: "s1", Status: StatusPresent}, {StudentID: "s2", Status: "late"}},
			wantErr: true,
		},
		{
			name:    "missing student id",
			records: []StudentRecord{{StudentID: "", Status: StatusPresent}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecords(tt.records)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-01", true},
		{"2024-12-31", true},
		{"2024-13-01", false},
		{"2024-02-30", false},
		{"24-03-01", false},
		{"2024/03/01", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidDate(tt.date); got != tt.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestFilterStudent(t *testing.T) {
	docs := []Document{
		{
			Date: "2024-03-01", SubjectName: "DBMS", TeacherName: "Dr. Rao", ClassOrBatch: "3rd year - E1",
			Records: []StudentRecord{
				{StudentID: "alice", Status: StatusPresent},
				{StudentID: "bob", Status: StatusAbsent},
			},
		},
		{
			Date: "2024-03-02", SubjectName: "OS", TeacherName: "Dr. Iyer", ClassOrBatch: "3rd year - E1",
			Records: []StudentRecord{
				{StudentID: "bob", Status: StatusPresent},
			},
		},
	}

	t.Run("only own entries are returned", func(t *testing.T) {
		views := FilterStudent(docs, "alice")
		if len(views) != 1 {
			t.Fatalf("got %d views, want 1", len(views))
		}
		if views[0].Status != StatusPresent || views[0].Subject != "DBMS" {
			t.Errorf("unexpected view: %+v", views[0])
		}
	})

	t.Run("no other student leaks into the result", func(t *testing.T) {
		views := FilterStudent(docs, "bob")
		if len(views) != 2 {
			t.Fatalf("got %d views, want 2", len(views))
		}
		for _, v := range views {
			if v.Subject == "DBMS" && v.Status != StatusAbsent {
				t.Errorf("bob's DBMS status = %s, want absent", v.Status)
			}
		}
	})

	t.Run("unknown student gets empty slice", func(t *testing.T) {
		views := FilterStudent(docs, "carol")
		if views == nil || len(views) != 0 {
			t.Errorf("got %v, want empty non-nil slice", views)
		}
	})
}

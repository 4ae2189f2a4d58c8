package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance documents in Postgres. The per-student
// roll lives in a JSONB column; everything the roll is filtered or
// aggregated by is a proper column.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const docColumns = `id, date, timetable_id, subject_id, subject_name, subject_code, teacher_id, teacher_name, class_or_batch, records, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var (
		doc         Document
		recordsJSON []byte
	)
	err := row.Scan(&doc.ID, &doc.Date, &doc.TimetableID, &doc.SubjectID, &doc.SubjectName,
		&doc.SubjectCode, &doc.TeacherID, &doc.TeacherName, &doc.ClassOrBatch,
		&recordsJSON, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return Document{}, err
	}
	if err := json.Unmarshal(recordsJSON, &doc.Records); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (r *Repository) queryDocuments(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Upsert writes the document for (date, timetable_id), replacing the roll
// and snapshots wholesale when one already exists. Last write wins.
func (r *Repository) Upsert(ctx context.Context, doc Document) (Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	recordsJSON, err := json.Marshal(doc.Records)
	if err != nil {
		return Document{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, date, timetable_id, subject_id, subject_name, subject_code, teacher_id, teacher_name, class_or_batch, records, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
		ON CONFLICT (date, timetable_id) DO UPDATE SET
			subject_id = EXCLUDED.subject_id,
			subject_name = EXCLUDED.subject_name,
			subject_code = EXCLUDED.subject_code,
			teacher_id = EXCLUDED.teacher_id,
			teacher_name = EXCLUDED.teacher_name,
			class_or_batch = EXCLUDED.class_or_batch,
			records = EXCLUDED.records,
			updated_at = EXCLUDED.updated_at
		RETURNING `+docColumns+`
	`, doc.ID, doc.Date, doc.TimetableID, doc.SubjectID, doc.SubjectName, doc.SubjectCode,
		doc.TeacherID, doc.TeacherName, doc.ClassOrBatch, recordsJSON, now)
	return scanDocument(row)
}

// GetBySlotDate returns the document for one (slot, date), if any.
func (r *Repository) GetBySlotDate(ctx context.Context, timetableID, date string) (*Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+docColumns+` FROM attendance WHERE timetable_id = $1 AND date = $2`, timetableID, date)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListAll returns every document, newest date first.
func (r *Repository) ListAll(ctx context.Context) ([]Document, error) {
	return r.queryDocuments(ctx, `SELECT `+docColumns+` FROM attendance ORDER BY date DESC, subject_name`)
}

// ListByTeacher returns documents for slots a teacher owns, optionally
// limited to one subject.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID, subjectID string) ([]Document, error) {
	if subjectID != "" {
		return r.queryDocuments(ctx, `SELECT `+docColumns+` FROM attendance WHERE teacher_id = $1 AND subject_id = $2 ORDER BY date DESC`, teacherID, subjectID)
	}
	return r.queryDocuments(ctx, `SELECT `+docColumns+` FROM attendance WHERE teacher_id = $1 ORDER BY date DESC`, teacherID)
}

// ListByClass returns documents for one class-section.
func (r *Repository) ListByClass(ctx context.Context, classOrBatch string) ([]Document, error) {
	return r.queryDocuments(ctx, `SELECT `+docColumns+` FROM attendance WHERE class_or_batch = $1 ORDER BY date DESC`, classOrBatch)
}

// ListByMonth returns documents within a calendar month with optional
// class/subject/teacher filters. Date prefix match works because dates are
// stored as zero-padded ISO strings.
func (r *Repository) ListByMonth(ctx context.Context, month, year int, classOrBatch, subjectID, teacherID string) ([]Document, error) {
	prefix := monthPrefix(month, year)
	query := `SELECT ` + docColumns + ` FROM attendance WHERE date LIKE $1`
	args := []any{prefix + "%"}
	if classOrBatch != "" {
		args = append(args, classOrBatch)
		query += ` AND class_or_batch = $` + itoa(len(args))
	}
	if subjectID != "" {
		args = append(args, subjectID)
		query += ` AND subject_id = $` + itoa(len(args))
	}
	if teacherID != "" {
		args = append(args, teacherID)
		query += ` AND teacher_id = $` + itoa(len(args))
	}
	query += ` ORDER BY date`
	return r.queryDocuments(ctx, query, args...)
}

func monthPrefix(month, year int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func itoa(i int) string { return strconv.Itoa(i) }

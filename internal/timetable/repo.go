package timetable

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/store"
)

// Repository persists timetable slots in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Slots are read joined with subject and teacher names. Left joins keep
// slots visible after their subject or teacher is deleted.
const slotSelect = `
	SELECT t.id, t.subject_id, COALESCE(s.name, ''), COALESCE(s.code, ''),
	       t.teacher_id, COALESCE(u.name, ''),
	       t.class_or_batch, t.day_of_week, t.start_time, t.end_time,
	       t.slot_type, t.room, t.notes, t.created_at
	FROM timetable_slots t
	LEFT JOIN subjects s ON s.id = t.subject_id
	LEFT JOIN users u ON u.id = t.teacher_id
`

func scanSlot(row interface{ Scan(...any) error }) (Slot, error) {
	var (
		slot  Slot
		room  sql.NullString
		notes sql.NullString
	)
	err := row.Scan(&slot.ID, &slot.SubjectID, &slot.SubjectName, &slot.SubjectCode,
		&slot.TeacherID, &slot.TeacherName, &slot.ClassOrBatch, &slot.DayOfWeek,
		&slot.StartTime, &slot.EndTime, &slot.SlotType, &room, &notes, &slot.CreatedAt)
	if err != nil {
		return Slot{}, err
	}
	slot.Room = room.String
	slot.Notes = notes.String
	return slot, nil
}

func (r *Repository) querySlots(ctx context.Context, query string, args ...any) ([]Slot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Insert writes a new slot. The exact-tuple unique index turns duplicates
// into a DuplicateError.
func (r *Repository) Insert(ctx context.Context, slot Slot) (Slot, error) {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	var room, notes any
	if slot.Room != "" {
		room = slot.Room
	}
	if slot.Notes != "" {
		notes = slot.Notes
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO timetable_slots (id, subject_id, teacher_id, class_or_batch, day_of_week, start_time, end_time, slot_type, room, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, slot.ID, slot.SubjectID, slot.TeacherID, slot.ClassOrBatch, slot.DayOfWeek,
		slot.StartTime, slot.EndTime, slot.SlotType, room, notes, slot.CreatedAt)
	if err != nil {
		return Slot{}, store.TranslateDuplicate(err)
	}
	return slot, nil
}

// Get returns a slot by id.
func (r *Repository) Get(ctx context.Context, id string) (Slot, error) {
	row := r.db.QueryRowContext(ctx, slotSelect+` WHERE t.id = $1`, id)
	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Slot{}, ErrNotFound
	}
	return slot, err
}

// Delete removes a slot.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable_slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every slot ordered for timetable display.
func (r *Repository) ListAll(ctx context.Context) ([]Slot, error) {
	return r.querySlots(ctx, slotSelect+` ORDER BY t.day_of_week, t.start_time`)
}

// ListByClassDay returns a class-section's slots on one day.
func (r *Repository) ListByClassDay(ctx context.Context, classOrBatch string, day int) ([]Slot, error) {
	return r.querySlots(ctx, slotSelect+` WHERE t.class_or_batch = $1 AND t.day_of_week = $2 ORDER BY t.start_time`, classOrBatch, day)
}

// ListByTeacherDay returns a teacher's slots on one day across all sections.
func (r *Repository) ListByTeacherDay(ctx context.Context, teacherID string, day int) ([]Slot, error) {
	return r.querySlots(ctx, slotSelect+` WHERE t.teacher_id = $1 AND t.day_of_week = $2 ORDER BY t.start_time`, teacherID, day)
}

// ListByTeacher returns a teacher's slots, optionally limited to one day.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID string, day *int) ([]Slot, error) {
	if day != nil {
		return r.ListByTeacherDay(ctx, teacherID, *day)
	}
	return r.querySlots(ctx, slotSelect+` WHERE t.teacher_id = $1 ORDER BY t.day_of_week, t.start_time`, teacherID)
}

// ListByClass returns every slot for a class-section.
func (r *Repository) ListByClass(ctx context.Context, classOrBatch string) ([]Slot, error) {
	return r.querySlots(ctx, slotSelect+` WHERE t.class_or_batch = $1 ORDER BY t.day_of_week, t.start_time`, classOrBatch)
}

package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/store"
)

// Repository persists users and subjects in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, name, email, password_hash, role, phone, enrollment, batch, section, sections, assignments, mentorship, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var (
		u              User
		phone          sql.NullString
		enrollment     sql.NullString
		batch          sql.NullString
		section        sql.NullString
		sectionsJSON   []byte
		assignJSON     []byte
		mentorshipJSON []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &phone,
		&enrollment, &batch, &section, &sectionsJSON, &assignJSON, &mentorshipJSON, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	u.Phone = phone.String
	u.Enrollment = enrollment.String
	u.Batch = batch.String
	u.Section = section.String
	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &u.Sections); err != nil {
			return User{}, err
		}
	}
	if len(assignJSON) > 0 {
		if err := json.Unmarshal(assignJSON, &u.Assignments); err != nil {
			return User{}, err
		}
	}
	if len(mentorshipJSON) > 0 {
		if err := json.Unmarshal(mentorshipJSON, &u.Mentorship); err != nil {
			return User{}, err
		}
	}
	return u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateUser inserts a user. Unique violations come back as DuplicateError.
func (r *Repository) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.Sections == nil {
		u.Sections = []string{}
	}
	if u.Assignments == nil {
		u.Assignments = []Assignment{}
	}
	sectionsJSON, _ := json.Marshal(u.Sections)
	assignJSON, _ := json.Marshal(u.Assignments)
	var mentorshipJSON any
	if u.Mentorship != nil {
		mentorshipJSON, _ = json.Marshal(u.Mentorship)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, phone, enrollment, batch, section, sections, assignments, mentorship, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, nullable(u.Phone),
		nullable(u.Enrollment), nullable(u.Batch), nullable(u.Section),
		sectionsJSON, assignJSON, mentorshipJSON, u.CreatedAt)
	if err != nil {
		return User{}, store.TranslateDuplicate(err)
	}
	return u, nil
}

// GetUser returns a user by id.
func (r *Repository) GetUser(ctx context.Context, id string) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// GetUserByEmail resolves a user by email, case-insensitively.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// ListUsers returns users, optionally filtered by role.
func (r *Repository) ListUsers(ctx context.Context, role string) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListStudentsByClass returns students whose class label matches exactly.
// Exact equality only; no pattern matching on section names.
func (r *Repository) ListStudentsByClass(ctx context.Context, classOrBatch string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = 'student' AND batch || ' - ' || section = $1
		ORDER BY enrollment NULLS LAST, name
	`, classOrBatch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var students []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, rows.Err()
}

// UpdateUser rewrites a user's editable fields.
func (r *Repository) UpdateUser(ctx context.Context, u User) error {
	sectionsJSON, _ := json.Marshal(u.Sections)
	assignJSON, _ := json.Marshal(u.Assignments)
	var mentorshipJSON any
	if u.Mentorship != nil {
		mentorshipJSON, _ = json.Marshal(u.Mentorship)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, email = $3, phone = $4, enrollment = $5, batch = $6, section = $7,
		    sections = $8, assignments = $9, mentorship = $10
		WHERE id = $1
	`, u.ID, u.Name, u.Email, nullable(u.Phone), nullable(u.Enrollment),
		nullable(u.Batch), nullable(u.Section), sectionsJSON, assignJSON, mentorshipJSON)
	if err != nil {
		return store.TranslateDuplicate(err)
	}
	return checkAffected(res)
}

// UpdateTeacherData replaces a teacher's sections, assignments and mentorship.
func (r *Repository) UpdateTeacherData(ctx context.Context, id string, sections []string, assignments []Assignment, mentorship *Mentorship) error {
	if sections == nil {
		sections = []string{}
	}
	if assignments == nil {
		assignments = []Assignment{}
	}
	sectionsJSON, _ := json.Marshal(sections)
	assignJSON, _ := json.Marshal(assignments)
	var mentorshipJSON any
	if mentorship != nil {
		mentorshipJSON, _ = json.Marshal(mentorship)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET sections = $2, assignments = $3, mentorship = $4
		WHERE id = $1 AND role = 'teacher'
	`, id, sectionsJSON, assignJSON, mentorshipJSON)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// UpdatePassword replaces a user's password hash, keyed by email.
func (r *Repository) UpdatePassword(ctx context.Context, email, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE LOWER(email) = LOWER($1)`, email, hash)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// DeleteUser removes a user. Hard delete; historical attendance keeps its
// dangling references.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// HasAdmin reports whether any admin account exists.
func (r *Repository) HasAdmin(ctx context.Context) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&count)
	return count > 0, err
}

// CreateSubject inserts a subject.
func (r *Repository) CreateSubject(ctx context.Context, s Subject) (Subject, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subjects (id, name, code, year, semester, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, s.ID, s.Name, s.Code, s.Year, s.Semester, s.CreatedAt)
	if err != nil {
		return Subject{}, store.TranslateDuplicate(err)
	}
	return s, nil
}

// GetSubject returns a subject by id.
func (r *Repository) GetSubject(ctx context.Context, id string) (Subject, error) {
	var s Subject
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, code, year, semester, created_at FROM subjects WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Code, &s.Year, &s.Semester, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Subject{}, ErrNotFound
	}
	return s, err
}

// ListSubjects returns all subjects ordered by code.
func (r *Repository) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, code, year, semester, created_at FROM subjects ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subjects []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.Year, &s.Semester, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// DeleteSubject removes a subject. Slots referencing it are left dangling.
func (r *Repository) DeleteSubject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

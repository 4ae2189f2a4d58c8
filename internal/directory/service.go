package directory

import (
	"context"
	"strings"
)

// Service wraps the repository with validation and the assignment rules.
type Service struct {
	repo *Repository
}

// NewService creates a directory service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ValidateNewUser checks the fields common to registration and admin
// creation. Password length is checked against the plaintext before hashing.
func ValidateNewUser(name, email, password, role string) error {
	if strings.TrimSpace(name) == "" {
		return Invalid("name is required")
	}
	if !strings.Contains(email, "@") {
		return Invalid("a valid email is required")
	}
	if len(password) < 6 {
		return Invalid("password must be at least 6 characters")
	}
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return nil
	default:
		return Invalid("role must be admin, teacher or student")
	}
}

// CreateUser persists a validated user.
func (s *Service) CreateUser(ctx context.Context, u User) (User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == RoleStudent {
		u.Sections = nil
		u.Assignments = nil
		u.Mentorship = nil
	}
	if u.Role != RoleStudent {
		u.Enrollment = ""
		u.Batch = ""
		u.Section = ""
	}
	return s.repo.CreateUser(ctx, u)
}

// AssignSection adds a (year, section, subject) assignment to a teacher,
// snapshotting the subject name and recording the derived class label. The
// section is also added to the teacher's section list when new.
func (s *Service) AssignSection(ctx context.Context, teacherID, year, section, subjectID, role string) (User, error) {
	if year == "" || section == "" || subjectID == "" {
		return User{}, Invalid("year, section and subjectId are required")
	}
	if role == "" {
		role = AssignmentTeaching
	}
	if role != AssignmentTeaching && role != AssignmentMentorship {
		return User{}, Invalid("assignment role must be teaching or mentorship")
	}

	teacher, err := s.repo.GetUser(ctx, teacherID)
	if err != nil {
		return User{}, err
	}
	if teacher.Role != RoleTeacher {
		return User{}, Invalid("user is not a teacher")
	}
	subject, err := s.repo.GetSubject(ctx, subjectID)
	if err != nil {
		return User{}, err
	}

	assignment := Assignment{
		Year:         year,
		Section:      section,
		SubjectID:    subject.ID,
		SubjectName:  subject.Name,
		Role:         role,
		ClassOrBatch: DeriveClassOrBatch(year, section),
	}
	teacher.Assignments = append(teacher.Assignments, assignment)

	hasSection := false
	for _, sec := range teacher.Sections {
		if sec == section {
			hasSection = true
			break
		}
	}
	if !hasSection {
		teacher.Sections = append(teacher.Sections, section)
	}

	if err := s.repo.UpdateTeacherData(ctx, teacher.ID, teacher.Sections, teacher.Assignments, teacher.Mentorship); err != nil {
		return User{}, err
	}
	return teacher, nil
}

// RemoveAssignment deletes the assignment at the given index.
func (s *Service) RemoveAssignment(ctx context.Context, teacherID string, index int) (User, error) {
	teacher, err := s.repo.GetUser(ctx, teacherID)
	if err != nil {
		return User{}, err
	}
	if teacher.Role != RoleTeacher {
		return User{}, Invalid("user is not a teacher")
	}
	if index < 0 || index >= len(teacher.Assignments) {
		return User{}, Invalid("assignment index out of range")
	}
	teacher.Assignments = append(teacher.Assignments[:index], teacher.Assignments[index+1:]...)
	if err := s.repo.UpdateTeacherData(ctx, teacher.ID, teacher.Sections, teacher.Assignments, teacher.Mentorship); err != nil {
		return User{}, err
	}
	return teacher, nil
}

// AssignMentorship sets a teacher's single mentorship, replacing any prior one.
func (s *Service) AssignMentorship(ctx context.Context, teacherID, year, section, description string) (User, error) {
	if year == "" || section == "" {
		return User{}, Invalid("year and section are required")
	}
	teacher, err := s.repo.GetUser(ctx, teacherID)
	if err != nil {
		return User{}, err
	}
	if teacher.Role != RoleTeacher {
		return User{}, Invalid("user is not a teacher")
	}
	teacher.Mentorship = &Mentorship{
		Year:         year,
		Section:      section,
		Description:  description,
		ClassOrBatch: DeriveClassOrBatch(year, section),
	}
	if err := s.repo.UpdateTeacherData(ctx, teacher.ID, teacher.Sections, teacher.Assignments, teacher.Mentorship); err != nil {
		return User{}, err
	}
	return teacher, nil
}

// RemoveMentorship clears a teacher's mentorship.
func (s *Service) RemoveMentorship(ctx context.Context, teacherID string) (User, error) {
	teacher, err := s.repo.GetUser(ctx, teacherID)
	if err != nil {
		return User{}, err
	}
	if teacher.Role != RoleTeacher {
		return User{}, Invalid("user is not a teacher")
	}
	teacher.Mentorship = nil
	if err := s.repo.UpdateTeacherData(ctx, teacher.ID, teacher.Sections, teacher.Assignments, nil); err != nil {
		return User{}, err
	}
	return teacher, nil
}

// FindAssignment locates the assignment matching both subject and year.
func FindAssignment(assignments []Assignment, subjectID, year string) (Assignment, bool) {
	for _, a := range assignments {
		if a.SubjectID == subjectID && a.Year == year {
			return a, true
		}
	}
	return Assignment{}, false
}

// StudentsForTeacherSubject resolves the section a teacher is assigned for
// (subject, year) and returns the students of exactly that class. The
// assignment's own class label is authoritative; caller-supplied section
// hints are ignored. No matching assignment yields an empty list, not an
// error.
func (s *Service) StudentsForTeacherSubject(ctx context.Context, teacherID, subjectID, year string) ([]User, error) {
	teacher, err := s.repo.GetUser(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != RoleTeacher {
		return []User{}, nil
	}
	assignment, ok := FindAssignment(teacher.Assignments, subjectID, year)
	if !ok {
		return []User{}, nil
	}
	students, err := s.repo.ListStudentsByClass(ctx, assignment.ClassOrBatch)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []User{}
	}
	return students, nil
}

package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	statusActive   = "active"
	statusInactive = "inactive"
)

// Service provides validated CRUD operations over the directory store.
// Rendering, filtering and form UX belong to the callers; this layer only
// normalizes input and enforces referential basics.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a directory service.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("directory store is required")
	}
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Departments ---------------------------------------------------------------

func (s *Service) CreateDepartment(ctx context.Context, code, name, description string) (*Department, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: department code and name are required", ErrInvalidInput)
	}
	d := &Department{
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(description),
		Status:      statusActive,
	}
	if err := s.store.Departments(ctx).Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDepartment(ctx context.Context, id string) (*Department, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	return s.store.Departments(ctx).Find(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	return s.store.Departments(ctx).List(ctx)
}

func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	return s.store.Departments(ctx).Delete(ctx, id)
}

// Academic years ------------------------------------------------------------

func (s *Service) CreateAcademicYear(ctx context.Context, year string, start, end time.Time) (*AcademicYear, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return nil, fmt.Errorf("%w: year label is required", ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, fmt.Errorf("%w: end date must follow start date", ErrInvalidInput)
	}
	y := &AcademicYear{
		Year:      year,
		StartDate: start,
		EndDate:   end,
		Status:    statusActive,
	}
	if err := s.store.AcademicYears(ctx).Create(ctx, y); err != nil {
		return nil, err
	}
	return y, nil
}

func (s *Service) ListAcademicYears(ctx context.Context) ([]*AcademicYear, error) {
	return s.store.AcademicYears(ctx).List(ctx)
}

// SetCurrentAcademicYear marks the year current, clearing the flag on all
// others.
func (s *Service) SetCurrentAcademicYear(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: academic year id is required", ErrInvalidInput)
	}
	return s.store.AcademicYears(ctx).SetCurrent(ctx, id)
}

// Courses -------------------------------------------------------------------

func (s *Service) CreateCourse(ctx context.Context, departmentID, code, name, description string, units int) (*Course, error) {
	departmentID = strings.TrimSpace(departmentID)
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if departmentID == "" || code == "" || name == "" {
		return nil, fmt.Errorf("%w: department id, course code and name are required", ErrInvalidInput)
	}
	if units <= 0 || units > 12 {
		return nil, fmt.Errorf("%w: units must be between 1 and 12", ErrInvalidInput)
	}
	c := &Course{
		DepartmentID: departmentID,
		Code:         code,
		Name:         name,
		Description:  strings.TrimSpace(description),
		Units:        units,
		Status:       statusActive,
	}
	if err := s.store.Courses(ctx).Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCourses(ctx context.Context, departmentID string) ([]*Course, error) {
	departmentID = strings.TrimSpace(departmentID)
	if departmentID == "" {
		return nil, fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	return s.store.Courses(ctx).ListByDepartment(ctx, departmentID)
}

func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: course id is required", ErrInvalidInput)
	}
	return s.store.Courses(ctx).Delete(ctx, id)
}

// Students ------------------------------------------------------------------

func (s *Service) CreateStudent(ctx context.Context, st Student) (*Student, error) {
	st.UserID = strings.TrimSpace(st.UserID)
	st.DepartmentID = strings.TrimSpace(st.DepartmentID)
	st.StudentNo = strings.TrimSpace(st.StudentNo)
	st.Program = strings.TrimSpace(st.Program)
	if st.UserID == "" || st.DepartmentID == "" || st.StudentNo == "" {
		return nil, fmt.Errorf("%w: user id, department id and student number are required", ErrInvalidInput)
	}
	if st.YearLevel < 1 || st.YearLevel > 6 {
		return nil, fmt.Errorf("%w: year level must be between 1 and 6", ErrInvalidInput)
	}
	if st.Status == "" {
		st.Status = statusActive
	}
	if st.AdmissionDate.IsZero() {
		st.AdmissionDate = s.now().UTC()
	}
	if err := s.store.Students(ctx).Create(ctx, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Service) ListStudents(ctx context.Context, departmentID string) ([]*Student, error) {
	departmentID = strings.TrimSpace(departmentID)
	if departmentID == "" {
		return nil, fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	return s.store.Students(ctx).ListByDepartment(ctx, departmentID)
}

func (s *Service) EnrollStudent(ctx context.Context, studentID, courseID, academicYearID, semester string) error {
	studentID = strings.TrimSpace(studentID)
	courseID = strings.TrimSpace(courseID)
	academicYearID = strings.TrimSpace(academicYearID)
	semester = strings.TrimSpace(semester)
	if studentID == "" || courseID == "" || academicYearID == "" || semester == "" {
		return fmt.Errorf("%w: student, course, academic year and semester are required", ErrInvalidInput)
	}
	return s.store.Students(ctx).Enroll(ctx, StudentCourse{
		StudentID:      studentID,
		CourseID:       courseID,
		AcademicYearID: academicYearID,
		Semester:       semester,
	})
}

func (s *Service) StudentEnrollments(ctx context.Context, studentID string) ([]StudentCourse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrInvalidInput)
	}
	return s.store.Students(ctx).Enrollments(ctx, studentID)
}

func (s *Service) SetGrade(ctx context.Context, studentID, courseID, academicYearID, grade string) error {
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return fmt.Errorf("%w: grade is required", ErrInvalidInput)
	}
	return s.store.Students(ctx).SetGrade(ctx, strings.TrimSpace(studentID), strings.TrimSpace(courseID), strings.TrimSpace(academicYearID), grade)
}

// Faculty -------------------------------------------------------------------

func (s *Service) CreateFaculty(ctx context.Context, f Faculty) (*Faculty, error) {
	f.UserID = strings.TrimSpace(f.UserID)
	f.DepartmentID = strings.TrimSpace(f.DepartmentID)
	f.EmployeeNo = strings.TrimSpace(f.EmployeeNo)
	f.Position = strings.TrimSpace(f.Position)
	if f.UserID == "" || f.DepartmentID == "" || f.EmployeeNo == "" || f.Position == "" {
		return nil, fmt.Errorf("%w: user id, department id, employee number and position are required", ErrInvalidInput)
	}
	if f.Status == "" {
		f.Status = statusActive
	}
	if f.HireDate.IsZero() {
		f.HireDate = s.now().UTC()
	}
	if err := s.store.Faculty(ctx).Create(ctx, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Service) ListFaculty(ctx context.Context, departmentID string) ([]*Faculty, error) {
	departmentID = strings.TrimSpace(departmentID)
	if departmentID == "" {
		return nil, fmt.Errorf("%w: department id is required", ErrInvalidInput)
	}
	return s.store.Faculty(ctx).ListByDepartment(ctx, departmentID)
}

func (s *Service) AssignFacultyCourse(ctx context.Context, facultyID, courseID, academicYearID, semester string) error {
	facultyID = strings.TrimSpace(facultyID)
	courseID = strings.TrimSpace(courseID)
	academicYearID = strings.TrimSpace(academicYearID)
	semester = strings.TrimSpace(semester)
	if facultyID == "" || courseID == "" || academicYearID == "" || semester == "" {
		return fmt.Errorf("%w: faculty, course, academic year and semester are required", ErrInvalidInput)
	}
	return s.store.Faculty(ctx).Assign(ctx, FacultyCourse{
		FacultyID:      facultyID,
		CourseID:       courseID,
		AcademicYearID: academicYearID,
		Semester:       semester,
		Status:         statusActive,
	})
}

func (s *Service) FacultyAssignments(ctx context.Context, facultyID string) ([]FacultyCourse, error) {
	facultyID = strings.TrimSpace(facultyID)
	if facultyID == "" {
		return nil, fmt.Errorf("%w: faculty id is required", ErrInvalidInput)
	}
	return s.store.Faculty(ctx).Assignments(ctx, facultyID)
}

// Evaluations ---------------------------------------------------------------

// SubmitEvaluation validates per-criterion scores (1..5), computes the
// total and stores the record.
func (s *Service) SubmitEvaluation(ctx context.Context, e Evaluation) (*Evaluation, error) {
	e.AcademicYearID = strings.TrimSpace(e.AcademicYearID)
	e.CourseID = strings.TrimSpace(e.CourseID)
	e.FacultyID = strings.TrimSpace(e.FacultyID)
	e.EvaluatorID = strings.TrimSpace(e.EvaluatorID)
	e.Semester = strings.TrimSpace(e.Semester)
	if e.AcademicYearID == "" || e.CourseID == "" || e.FacultyID == "" || e.EvaluatorID == "" {
		return nil, fmt.Errorf("%w: academic year, course, faculty and evaluator are required", ErrInvalidInput)
	}
	if len(e.CriteriaScores) == 0 {
		return nil, fmt.Errorf("%w: at least one criterion score is required", ErrInvalidInput)
	}
	total := 0
	for name, score := range e.CriteriaScores {
		if score < 1 || score > 5 {
			return nil, fmt.Errorf("%w: score for %q must be between 1 and 5", ErrInvalidInput, name)
		}
		total += score
	}
	e.TotalScore = total
	if e.EvaluationDate.IsZero() {
		e.EvaluationDate = s.now().UTC()
	}
	if e.Status == "" {
		e.Status = "submitted"
	}
	if err := s.store.Evaluations(ctx).Create(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) FacultyEvaluations(ctx context.Context, facultyID string) ([]*Evaluation, error) {
	facultyID = strings.TrimSpace(facultyID)
	if facultyID == "" {
		return nil, fmt.Errorf("%w: faculty id is required", ErrInvalidInput)
	}
	return s.store.Evaluations(ctx).ListByFaculty(ctx, facultyID)
}

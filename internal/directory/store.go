package directory

import "context"

// Store describes persistence operations required by the directory
// service.
type Store interface {
	Departments(ctx context.Context) DepartmentStore
	AcademicYears(ctx context.Context) AcademicYearStore
	Courses(ctx context.Context) CourseStore
	Students(ctx context.Context) StudentStore
	Faculty(ctx context.Context) FacultyStore
	Evaluations(ctx context.Context) EvaluationStore
}

// DepartmentStore manages departments.
type DepartmentStore interface {
	Create(ctx context.Context, d *Department) error
	Find(ctx context.Context, id string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
	Delete(ctx context.Context, id string) error
}

// AcademicYearStore manages academic years.
type AcademicYearStore interface {
	Create(ctx context.Context, y *AcademicYear) error
	Find(ctx context.Context, id string) (*AcademicYear, error)
	List(ctx context.Context) ([]*AcademicYear, error)
	SetCurrent(ctx context.Context, id string) error
}

// CourseStore manages course catalog entries.
type CourseStore interface {
	Create(ctx context.Context, c *Course) error
	Find(ctx context.Context, id string) (*Course, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]*Course, error)
	Delete(ctx context.Context, id string) error
}

// StudentStore manages student profiles and enrollment.
type StudentStore interface {
	Create(ctx context.Context, s *Student) error
	Find(ctx context.Context, id string) (*Student, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]*Student, error)
	Enroll(ctx context.Context, enrollment StudentCourse) error
	Enrollments(ctx context.Context, studentID string) ([]StudentCourse, error)
	SetGrade(ctx context.Context, studentID, courseID, academicYearID, grade string) error
}

// FacultyStore manages faculty profiles and teaching assignments.
type FacultyStore interface {
	Create(ctx context.Context, f *Faculty) error
	Find(ctx context.Context, id string) (*Faculty, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]*Faculty, error)
	Assign(ctx context.Context, assignment FacultyCourse) error
	Assignments(ctx context.Context, facultyID string) ([]FacultyCourse, error)
}

// EvaluationStore manages peer evaluation records.
type EvaluationStore interface {
	Create(ctx context.Context, e *Evaluation) error
	ListByFaculty(ctx context.Context, facultyID string) ([]*Evaluation, error)
}

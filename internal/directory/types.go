package directory

import "time"

// Department groups faculty, students and courses.
type Department struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AcademicYear is a school-year window; at most one is marked current.
type AcademicYear struct {
	ID        string    `json:"id"`
	Year      string    `json:"year"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsCurrent bool      `json:"is_current"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Course is offered by a department and taught/taken per academic year.
type Course struct {
	ID           string    `json:"id"`
	DepartmentID string    `json:"department_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Units        int       `json:"units"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Student is the academic profile linked to an auth user account.
type Student struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	DepartmentID  string    `json:"department_id"`
	StudentNo     string    `json:"student_no"`
	YearLevel     int       `json:"year_level"`
	Program       string    `json:"program"`
	Status        string    `json:"status"`
	AdmissionDate time.Time `json:"admission_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Faculty is the employment profile linked to an auth user account.
type Faculty struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	DepartmentID   string    `json:"department_id"`
	EmployeeNo     string    `json:"employee_no"`
	Position       string    `json:"position"`
	Specialization string    `json:"specialization,omitempty"`
	Status         string    `json:"status"`
	HireDate       time.Time `json:"hire_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FacultyCourse is a teaching assignment for one semester.
type FacultyCourse struct {
	FacultyID      string    `json:"faculty_id"`
	CourseID       string    `json:"course_id"`
	AcademicYearID string    `json:"academic_year_id"`
	Semester       string    `json:"semester"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// StudentCourse is a course enrollment with an optional final grade.
type StudentCourse struct {
	StudentID      string    `json:"student_id"`
	CourseID       string    `json:"course_id"`
	AcademicYearID string    `json:"academic_year_id"`
	Semester       string    `json:"semester"`
	Grade          string    `json:"grade,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Evaluation is a peer evaluation of a faculty member for a course, with
// per-criterion scores and a computed total.
type Evaluation struct {
	ID             string         `json:"id"`
	AcademicYearID string         `json:"academic_year_id"`
	CourseID       string         `json:"course_id"`
	FacultyID      string         `json:"faculty_id"`
	EvaluatorID    string         `json:"evaluator_id"`
	Semester       string         `json:"semester"`
	EvaluationDate time.Time      `json:"evaluation_date"`
	CriteriaScores map[string]int `json:"criteria_scores"`
	Comments       string         `json:"comments,omitempty"`
	TotalScore     int            `json:"total_score"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}

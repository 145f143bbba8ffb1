package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"sfpms.org/internal/ids"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Departments(context.Context) DepartmentStore   { return &departmentStore{db: s.db} }
func (s *PGStore) AcademicYears(context.Context) AcademicYearStore {
	return &academicYearStore{db: s.db}
}
func (s *PGStore) Courses(context.Context) CourseStore         { return &courseStore{db: s.db} }
func (s *PGStore) Students(context.Context) StudentStore       { return &studentStore{db: s.db} }
func (s *PGStore) Faculty(context.Context) FacultyStore        { return &facultyStore{db: s.db} }
func (s *PGStore) Evaluations(context.Context) EvaluationStore { return &evaluationStore{db: s.db} }

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return ErrConflict
		case pgErrForeignKeyViolation:
			return ErrInvalidInput
		}
	}
	return err
}

// Department store ----------------------------------------------------------

type departmentStore struct{ db *sql.DB }

func (s *departmentStore) Create(ctx context.Context, d *Department) error {
	if d.ID == "" {
		d.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into departments(id, code, name, description, status) values($1,$2,$3,$4,$5)`,
		d.ID, d.Code, d.Name, d.Description, d.Status,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *departmentStore) Find(ctx context.Context, id string) (*Department, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, code, name, description, status, created_at, updated_at from departments where id=$1`, id)
	var d Department
	if err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *departmentStore) List(ctx context.Context) ([]*Department, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, code, name, description, status, created_at, updated_at from departments order by code asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &d)
	}
	return res, rows.Err()
}

func (s *departmentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from departments where id=$1`, id)
	if err != nil {
		return mapPGError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Academic year store -------------------------------------------------------

type academicYearStore struct{ db *sql.DB }

func (s *academicYearStore) Create(ctx context.Context, y *AcademicYear) error {
	if y.ID == "" {
		y.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into academic_years(id, year, start_date, end_date, is_current, status) values($1,$2,$3,$4,$5,$6)`,
		y.ID, y.Year, y.StartDate, y.EndDate, y.IsCurrent, y.Status,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *academicYearStore) Find(ctx context.Context, id string) (*AcademicYear, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, year, start_date, end_date, is_current, status, created_at, updated_at from academic_years where id=$1`, id)
	var y AcademicYear
	if err := row.Scan(&y.ID, &y.Year, &y.StartDate, &y.EndDate, &y.IsCurrent, &y.Status, &y.CreatedAt, &y.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &y, nil
}

func (s *academicYearStore) List(ctx context.Context) ([]*AcademicYear, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, year, start_date, end_date, is_current, status, created_at, updated_at from academic_years order by start_date desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*AcademicYear
	for rows.Next() {
		var y AcademicYear
		if err := rows.Scan(&y.ID, &y.Year, &y.StartDate, &y.EndDate, &y.IsCurrent, &y.Status, &y.CreatedAt, &y.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &y)
	}
	return res, rows.Err()
}

func (s *academicYearStore) SetCurrent(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `update academic_years set is_current=false where is_current=true`); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `update academic_years set is_current=true, updated_at=now() where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Course store --------------------------------------------------------------

type courseStore struct{ db *sql.DB }

func (s *courseStore) Create(ctx context.Context, c *Course) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into courses(id, department_id, code, name, description, units, status) values($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.DepartmentID, c.Code, c.Name, c.Description, c.Units, c.Status,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *courseStore) Find(ctx context.Context, id string) (*Course, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, department_id, code, name, description, units, status, created_at, updated_at from courses where id=$1`, id)
	var c Course
	if err := row.Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Name, &c.Description, &c.Units, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *courseStore) ListByDepartment(ctx context.Context, departmentID string) ([]*Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, department_id, code, name, description, units, status, created_at, updated_at
		 from courses where department_id=$1 order by code asc`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Name, &c.Description, &c.Units, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (s *courseStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from courses where id=$1`, id)
	if err != nil {
		return mapPGError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Student store -------------------------------------------------------------

type studentStore struct{ db *sql.DB }

func (s *studentStore) Create(ctx context.Context, st *Student) error {
	if st.ID == "" {
		st.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into students(id, user_id, department_id, student_no, year_level, program, status, admission_date)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		st.ID, st.UserID, st.DepartmentID, st.StudentNo, st.YearLevel, st.Program, st.Status, st.AdmissionDate,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *studentStore) Find(ctx context.Context, id string) (*Student, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, user_id, department_id, student_no, year_level, program, status, admission_date, created_at, updated_at
		 from students where id=$1`, id)
	var st Student
	if err := row.Scan(&st.ID, &st.UserID, &st.DepartmentID, &st.StudentNo, &st.YearLevel, &st.Program, &st.Status, &st.AdmissionDate, &st.CreatedAt, &st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *studentStore) ListByDepartment(ctx context.Context, departmentID string) ([]*Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, department_id, student_no, year_level, program, status, admission_date, created_at, updated_at
		 from students where department_id=$1 order by student_no asc`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.UserID, &st.DepartmentID, &st.StudentNo, &st.YearLevel, &st.Program, &st.Status, &st.AdmissionDate, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &st)
	}
	return res, rows.Err()
}

func (s *studentStore) Enroll(ctx context.Context, enrollment StudentCourse) error {
	_, err := s.db.ExecContext(ctx,
		`insert into student_courses(student_id, course_id, academic_year_id, semester) values($1,$2,$3,$4)`,
		enrollment.StudentID, enrollment.CourseID, enrollment.AcademicYearID, enrollment.Semester,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *studentStore) Enrollments(ctx context.Context, studentID string) ([]StudentCourse, error) {
	rows, err := s.db.QueryContext(ctx,
		`select student_id, course_id, academic_year_id, semester, coalesce(grade, ''), created_at
		 from student_courses where student_id=$1 order by created_at asc`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []StudentCourse
	for rows.Next() {
		var sc StudentCourse
		if err := rows.Scan(&sc.StudentID, &sc.CourseID, &sc.AcademicYearID, &sc.Semester, &sc.Grade, &sc.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, sc)
	}
	return res, rows.Err()
}

func (s *studentStore) SetGrade(ctx context.Context, studentID, courseID, academicYearID, grade string) error {
	res, err := s.db.ExecContext(ctx,
		`update student_courses set grade=$4 where student_id=$1 and course_id=$2 and academic_year_id=$3`,
		studentID, courseID, academicYearID, grade,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Faculty store -------------------------------------------------------------

type facultyStore struct{ db *sql.DB }

func (s *facultyStore) Create(ctx context.Context, f *Faculty) error {
	if f.ID == "" {
		f.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into faculty(id, user_id, department_id, employee_no, position, specialization, status, hire_date)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		f.ID, f.UserID, f.DepartmentID, f.EmployeeNo, f.Position, f.Specialization, f.Status, f.HireDate,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *facultyStore) Find(ctx context.Context, id string) (*Faculty, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, user_id, department_id, employee_no, position, specialization, status, hire_date, created_at, updated_at
		 from faculty where id=$1`, id)
	var f Faculty
	if err := row.Scan(&f.ID, &f.UserID, &f.DepartmentID, &f.EmployeeNo, &f.Position, &f.Specialization, &f.Status, &f.HireDate, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (s *facultyStore) ListByDepartment(ctx context.Context, departmentID string) ([]*Faculty, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, department_id, employee_no, position, specialization, status, hire_date, created_at, updated_at
		 from faculty where department_id=$1 order by employee_no asc`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Faculty
	for rows.Next() {
		var f Faculty
		if err := rows.Scan(&f.ID, &f.UserID, &f.DepartmentID, &f.EmployeeNo, &f.Position, &f.Specialization, &f.Status, &f.HireDate, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &f)
	}
	return res, rows.Err()
}

func (s *facultyStore) Assign(ctx context.Context, assignment FacultyCourse) error {
	_, err := s.db.ExecContext(ctx,
		`insert into faculty_courses(faculty_id, course_id, academic_year_id, semester, status) values($1,$2,$3,$4,$5)`,
		assignment.FacultyID, assignment.CourseID, assignment.AcademicYearID, assignment.Semester, assignment.Status,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *facultyStore) Assignments(ctx context.Context, facultyID string) ([]FacultyCourse, error) {
	rows, err := s.db.QueryContext(ctx,
		`select faculty_id, course_id, academic_year_id, semester, status, created_at
		 from faculty_courses where faculty_id=$1 order by created_at asc`, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []FacultyCourse
	for rows.Next() {
		var fc FacultyCourse
		if err := rows.Scan(&fc.FacultyID, &fc.CourseID, &fc.AcademicYearID, &fc.Semester, &fc.Status, &fc.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, fc)
	}
	return res, rows.Err()
}

// Evaluation store ----------------------------------------------------------

type evaluationStore struct{ db *sql.DB }

func (s *evaluationStore) Create(ctx context.Context, e *Evaluation) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	scores, err := json.Marshal(e.CriteriaScores)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into evaluations(id, academic_year_id, course_id, faculty_id, evaluator_id, semester, evaluation_date, criteria_scores, comments, total_score, status)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.ID, e.AcademicYearID, e.CourseID, e.FacultyID, e.EvaluatorID, e.Semester, e.EvaluationDate, scores, e.Comments, e.TotalScore, e.Status,
	)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (s *evaluationStore) ListByFaculty(ctx context.Context, facultyID string) ([]*Evaluation, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, academic_year_id, course_id, faculty_id, evaluator_id, semester, evaluation_date, criteria_scores, comments, total_score, status, created_at
		 from evaluations where faculty_id=$1 order by evaluation_date desc`, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Evaluation
	for rows.Next() {
		var (
			e      Evaluation
			scores []byte
		)
		if err := rows.Scan(&e.ID, &e.AcademicYearID, &e.CourseID, &e.FacultyID, &e.EvaluatorID, &e.Semester, &e.EvaluationDate, &scores, &e.Comments, &e.TotalScore, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &e.CriteriaScores); err != nil {
				return nil, err
			}
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}

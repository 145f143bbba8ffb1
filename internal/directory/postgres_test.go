package directory

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGDepartmentCreateAndFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into departments").
		WithArgs(sqlmock.AnyArg(), "CS", "Computer Science", "", "active").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("select id, code, name, description, status.*from departments where id").
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "description", "status", "created_at", "updated_at"}).
			AddRow("d1", "CS", "Computer Science", "", "active", created, created))

	store := NewPGStore(db)
	ctx := context.Background()

	d := &Department{Code: "CS", Name: "Computer Science", Status: "active"}
	if err := store.Departments(ctx).Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := store.Departments(ctx).Find(ctx, "d1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Code != "CS" {
		t.Fatalf("unexpected department: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGDepartmentFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, code, name, description, status.*from departments where id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	store := NewPGStore(db)
	ctx := context.Background()
	if _, err := store.Departments(ctx).Find(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestPGAcademicYearSetCurrent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("update academic_years set is_current=false").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("update academic_years set is_current=true").
		WithArgs("y1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewPGStore(db)
	ctx := context.Background()
	if err := store.AcademicYears(ctx).SetCurrent(ctx, "y1"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGAcademicYearSetCurrentUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("update academic_years set is_current=false").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("update academic_years set is_current=true").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	store := NewPGStore(db)
	ctx := context.Background()
	if err := store.AcademicYears(ctx).SetCurrent(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestPGStudentEnrollments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into student_courses").
		WithArgs("s1", "c1", "y1", "1st").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("select student_id, course_id, academic_year_id, semester.*from student_courses").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id", "academic_year_id", "semester", "grade", "created_at"}).
			AddRow("s1", "c1", "y1", "1st", "", created))

	store := NewPGStore(db)
	ctx := context.Background()

	err = store.Students(ctx).Enroll(ctx, StudentCourse{StudentID: "s1", CourseID: "c1", AcademicYearID: "y1", Semester: "1st"})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	got, err := store.Students(ctx).Enrollments(ctx, "s1")
	if err != nil {
		t.Fatalf("Enrollments: %v", err)
	}
	if len(got) != 1 || got[0].CourseID != "c1" {
		t.Fatalf("unexpected enrollments: %+v", got)
	}
}

func TestPGEvaluationRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into evaluations").
		WithArgs(sqlmock.AnyArg(), "y1", "c1", "f1", "s1", "1st", sqlmock.AnyArg(), sqlmock.AnyArg(), "solid teaching", 14, "submitted").
		WillReturnResult(sqlmock.NewResult(1, 1))

	when := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("select id, academic_year_id, course_id, faculty_id.*from evaluations where faculty_id").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "academic_year_id", "course_id", "faculty_id", "evaluator_id", "semester", "evaluation_date", "criteria_scores", "comments", "total_score", "status", "created_at"}).
			AddRow("e1", "y1", "c1", "f1", "s1", "1st", when, []byte(`{"mastery":5,"clarity":4,"fairness":5}`), "solid teaching", 14, "submitted", when))

	store := NewPGStore(db)
	ctx := context.Background()

	e := &Evaluation{
		AcademicYearID: "y1",
		CourseID:       "c1",
		FacultyID:      "f1",
		EvaluatorID:    "s1",
		Semester:       "1st",
		EvaluationDate: when,
		CriteriaScores: map[string]int{"mastery": 5, "clarity": 4, "fairness": 5},
		Comments:       "solid teaching",
		TotalScore:     14,
		Status:         "submitted",
	}
	if err := store.Evaluations(ctx).Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Evaluations(ctx).ListByFaculty(ctx, "f1")
	if err != nil {
		t.Fatalf("ListByFaculty: %v", err)
	}
	if len(got) != 1 || got[0].CriteriaScores["clarity"] != 4 {
		t.Fatalf("unexpected evaluations: %+v", got)
	}
}

package httpapi

import (
	"net/http"
	"time"

	"sfpms.org/internal/auth"
	"sfpms.org/internal/directory"
)

func (a *API) registerDirectoryRoutes() {
	if a.directory == nil {
		return
	}

	a.mux.HandleFunc("GET /v1/departments", a.handleListDepartments)
	a.mux.HandleFunc("POST /v1/departments", a.handleCreateDepartment)
	a.mux.HandleFunc("GET /v1/departments/{id}", a.handleGetDepartment)
	a.mux.HandleFunc("DELETE /v1/departments/{id}", a.handleDeleteDepartment)

	a.mux.HandleFunc("GET /v1/academic-years", a.handleListAcademicYears)
	a.mux.HandleFunc("POST /v1/academic-years", a.handleCreateAcademicYear)
	a.mux.HandleFunc("POST /v1/academic-years/{id}/current", a.handleSetCurrentAcademicYear)

	a.mux.HandleFunc("GET /v1/courses", a.handleListCourses)
	a.mux.HandleFunc("POST /v1/courses", a.handleCreateCourse)
	a.mux.HandleFunc("DELETE /v1/courses/{id}", a.handleDeleteCourse)

	a.mux.HandleFunc("GET /v1/students", a.handleListStudents)
	a.mux.HandleFunc("POST /v1/students", a.handleCreateStudent)
	a.mux.HandleFunc("GET /v1/students/{id}/enrollments", a.handleStudentEnrollments)
	a.mux.HandleFunc("POST /v1/students/{id}/enrollments", a.handleEnrollStudent)
	a.mux.HandleFunc("PUT /v1/students/{id}/grades", a.handleSetGrade)

	a.mux.HandleFunc("GET /v1/faculty", a.handleListFaculty)
	a.mux.HandleFunc("POST /v1/faculty", a.handleCreateFaculty)
	a.mux.HandleFunc("GET /v1/faculty/{id}/assignments", a.handleFacultyAssignments)
	a.mux.HandleFunc("POST /v1/faculty/{id}/assignments", a.handleAssignFacultyCourse)
	a.mux.HandleFunc("GET /v1/faculty/{id}/evaluations", a.handleFacultyEvaluations)

	a.mux.HandleFunc("POST /v1/evaluations", a.handleSubmitEvaluation)
}

// --- departments ---

type departmentRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	deps, err := a.directory.ListDepartments(r.Context())
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": deps})
}

func (a *API) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermDepartmentsManage); !ok {
		return
	}
	var req departmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dep, err := a.directory.CreateDepartment(r.Context(), req.Code, req.Name, req.Description)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"department": dep})
}

func (a *API) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	dep, err := a.directory.GetDepartment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"department": dep})
}

func (a *API) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermDepartmentsManage); !ok {
		return
	}
	if err := a.directory.DeleteDepartment(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- academic years ---

type academicYearRequest struct {
	Year      string    `json:"year"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (a *API) handleListAcademicYears(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	years, err := a.directory.ListAcademicYears(r.Context())
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"academic_years": years})
}

func (a *API) handleCreateAcademicYear(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermAcademicYearsManage); !ok {
		return
	}
	var req academicYearRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	year, err := a.directory.CreateAcademicYear(r.Context(), req.Year, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"academic_year": year})
}

func (a *API) handleSetCurrentAcademicYear(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermAcademicYearsManage); !ok {
		return
	}
	if err := a.directory.SetCurrentAcademicYear(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- courses ---

type courseRequest struct {
	DepartmentID string `json:"department_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Units        int    `json:"units"`
}

func (a *API) handleListCourses(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	courses, err := a.directory.ListCourses(r.Context(), r.URL.Query().Get("department_id"))
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

func (a *API) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermCoursesManage); !ok {
		return
	}
	var req courseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	course, err := a.directory.CreateCourse(r.Context(), req.DepartmentID, req.Code, req.Name, req.Description, req.Units)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"course": course})
}

func (a *API) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermCoursesManage); !ok {
		return
	}
	if err := a.directory.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- students ---

func (a *API) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	students, err := a.directory.ListStudents(r.Context(), r.URL.Query().Get("department_id"))
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"students": students})
}

func (a *API) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesWrite); !ok {
		return
	}
	var req directory.Student
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := a.directory.CreateStudent(r.Context(), req)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"student": st})
}

type enrollmentRequest struct {
	CourseID       string `json:"course_id"`
	AcademicYearID string `json:"academic_year_id"`
	Semester       string `json:"semester"`
}

func (a *API) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesWrite); !ok {
		return
	}
	var req enrollmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := a.directory.EnrollStudent(r.Context(), r.PathValue("id"), req.CourseID, req.AcademicYearID, req.Semester)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *API) handleStudentEnrollments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	enr, err := a.directory.StudentEnrollments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enrollments": enr})
}

type gradeRequest struct {
	CourseID       string `json:"course_id"`
	AcademicYearID string `json:"academic_year_id"`
	Grade          string `json:"grade"`
}

func (a *API) handleSetGrade(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesWrite); !ok {
		return
	}
	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := a.directory.SetGrade(r.Context(), r.PathValue("id"), req.CourseID, req.AcademicYearID, req.Grade)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- faculty ---

func (a *API) handleListFaculty(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	fac, err := a.directory.ListFaculty(r.Context(), r.URL.Query().Get("department_id"))
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"faculty": fac})
}

func (a *API) handleCreateFaculty(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesWrite); !ok {
		return
	}
	var req directory.Faculty
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := a.directory.CreateFaculty(r.Context(), req)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"faculty": f})
}

func (a *API) handleAssignFacultyCourse(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermCoursesManage); !ok {
		return
	}
	var req enrollmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := a.directory.AssignFacultyCourse(r.Context(), r.PathValue("id"), req.CourseID, req.AcademicYearID, req.Semester)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *API) handleFacultyAssignments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermProfilesRead); !ok {
		return
	}
	asg, err := a.directory.FacultyAssignments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": asg})
}

// --- evaluations ---

func (a *API) handleSubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	sess, ok := requirePermission(w, r, auth.PermReportsWrite)
	if !ok {
		return
	}
	var req directory.Evaluation
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.EvaluatorID == "" {
		req.EvaluatorID = sess.User.ID
	}
	ev, err := a.directory.SubmitEvaluation(r.Context(), req)
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"evaluation": ev})
}

func (a *API) handleFacultyEvaluations(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, auth.PermReportsRead); !ok {
		return
	}
	evs, err := a.directory.FacultyEvaluations(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, directoryErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"evaluations": evs})
}

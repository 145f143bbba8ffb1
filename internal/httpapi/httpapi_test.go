package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sfpms.org/internal/auth"
	"sfpms.org/internal/directory"
)

const (
	testAdminEmail    = "admin@university.edu"
	testAdminPassword = "Password!2345"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("SFPMS_AUTH_SECRET", "httpapi-test-secret")
	auth.ResetSecretForTests()
	t.Cleanup(auth.ResetSecretForTests)

	creds := auth.NewMemoryCredentialStore()
	seedUser(t, creds, testAdminEmail, testAdminPassword, auth.RoleAdmin)
	seedUser(t, creds, "student@university.edu", testAdminPassword, auth.RoleStudent)

	svc, err := auth.NewService(
		creds,
		auth.NewLockoutPolicy(auth.DefaultMaxFailedAttempts, auth.DefaultLockWindow),
		auth.NewMfaManager(auth.DefaultMfaTTL),
		auth.NewSessionManager(auth.WithTokenFunc(func(sess auth.Session) (string, error) {
			return auth.SignSessionToken(sess, auth.DefaultIdleTimeout)
		})),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dir, err := directory.NewService(stubStore{})
	if err != nil {
		t.Fatalf("directory.NewService: %v", err)
	}

	return New(ReadyProbe{}, "test", svc, dir).Handler()
}

func seedUser(t *testing.T, creds *auth.MemoryCredentialStore, email, password string, role auth.UserRole) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	err = creds.Create(context.Background(), &auth.Credential{
		User: auth.User{
			ID:       "user-" + string(role),
			Username: email,
			Email:    email,
			Role:     role,
			Status:   auth.UserStatusActive,
		},
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
}

// stubStore satisfies directory.Store with empty sub-stores. Directory
// handler tests here only exercise the authorization layer.
type stubStore struct{}

func (stubStore) Departments(context.Context) directory.DepartmentStore     { return stubDepartments{} }
func (stubStore) AcademicYears(context.Context) directory.AcademicYearStore { return nil }
func (stubStore) Courses(context.Context) directory.CourseStore             { return nil }
func (stubStore) Students(context.Context) directory.StudentStore           { return nil }
func (stubStore) Faculty(context.Context) directory.FacultyStore            { return nil }
func (stubStore) Evaluations(context.Context) directory.EvaluationStore     { return nil }

type stubDepartments struct{}

func (stubDepartments) Create(context.Context, *directory.Department) error { return nil }
func (stubDepartments) Find(context.Context, string) (*directory.Department, error) {
	return nil, directory.ErrNotFound
}
func (stubDepartments) List(context.Context) ([]*directory.Department, error) {
	return []*directory.Department{}, nil
}
func (stubDepartments) Delete(context.Context, string) error { return nil }

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// login runs both protocol steps and returns the bearer token.
func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body.String())
	}
	var challengeResp struct {
		Challenge auth.MfaChallenge `json:"challenge"`
	}
	decodeBody(t, rr, &challengeResp)

	rr = doJSON(t, h, http.MethodPost, "/v1/auth/mfa/verify", "", map[string]any{
		"mfa_id": challengeResp.Challenge.ID,
		"code":   challengeResp.Challenge.Secret,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", rr.Code, rr.Body.String())
	}
	var sessResp sessionResponse
	decodeBody(t, rr, &sessResp)
	if sessResp.Token == "" {
		t.Fatal("expected a bearer token")
	}
	return sessResp.Token
}

func TestHealthz(t *testing.T) {
	h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]any
	decodeBody(t, rr, &body)
	if body["status"] != "ok" {
		t.Fatalf("status field = %v", body["status"])
	}
}

func TestLoginFlow(t *testing.T) {
	h := newTestAPI(t)
	token := login(t, h, testAdminEmail, testAdminPassword)

	rr := doJSON(t, h, http.MethodGet, "/v1/auth/session", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("session status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/permissions", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("permissions status = %d", rr.Code)
	}
	var permResp struct {
		Role        auth.UserRole     `json:"role"`
		Permissions []auth.Permission `json:"permissions"`
	}
	decodeBody(t, rr, &permResp)
	if permResp.Role != auth.RoleAdmin {
		t.Fatalf("role = %q", permResp.Role)
	}
	found := false
	for _, p := range permResp.Permissions {
		if p == auth.PermUsersManage {
			found = true
		}
	}
	if !found {
		t.Fatalf("admin permissions missing %q: %v", auth.PermUsersManage, permResp.Permissions)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/auth/logout", token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/auth/session", token, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout session status = %d, want 401", rr.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newTestAPI(t)

	rr := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    testAdminEmail,
		"password": "wrong-password-123!A",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rr.Code)
	}
	wrongPassword := rr.Body.String()

	rr = doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    "nobody@university.edu",
		"password": "wrong-password-123!A",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user status = %d", rr.Code)
	}
	if rr.Body.String() != wrongPassword {
		t.Fatalf("unknown-user and wrong-password responses differ: %q vs %q", rr.Body.String(), wrongPassword)
	}
}

func TestLoginLockout(t *testing.T) {
	h := newTestAPI(t)

	for i := 0; i < auth.DefaultMaxFailedAttempts; i++ {
		rr := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]any{
			"email":    testAdminEmail,
			"password": "wrong-password-123!A",
		})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d", i+1, rr.Code)
		}
	}

	// Correct password no longer helps while the window is open.
	rr := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	if rr.Code != http.StatusLocked {
		t.Fatalf("locked status = %d, want %d", rr.Code, http.StatusLocked)
	}
}

func TestVerifyMfaErrors(t *testing.T) {
	h := newTestAPI(t)

	rr := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d", rr.Code)
	}
	var challengeResp struct {
		Challenge auth.MfaChallenge `json:"challenge"`
	}
	decodeBody(t, rr, &challengeResp)
	ch := challengeResp.Challenge

	rr = doJSON(t, h, http.MethodPost, "/v1/auth/mfa/verify", "", map[string]any{
		"mfa_id": ch.ID,
		"code":   "000000",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong code status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/auth/mfa/verify", "", map[string]any{
		"mfa_id": ch.ID,
		"code":   ch.Secret,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("verify status = %d", rr.Code)
	}

	// A consumed challenge cannot be replayed.
	rr = doJSON(t, h, http.MethodPost, "/v1/auth/mfa/verify", "", map[string]any{
		"mfa_id": ch.ID,
		"code":   ch.Secret,
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("replay status = %d, want 404", rr.Code)
	}
}

func TestProtectedPathsRequireToken(t *testing.T) {
	h := newTestAPI(t)

	rr := doJSON(t, h, http.MethodGet, "/v1/departments", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/departments", "not-a-jwt", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", rr.Code)
	}
}

func TestPermissionEnforcement(t *testing.T) {
	h := newTestAPI(t)

	adminToken := login(t, h, testAdminEmail, testAdminPassword)
	studentToken := login(t, h, "student@university.edu", testAdminPassword)

	rr := doJSON(t, h, http.MethodPost, "/v1/departments", studentToken, departmentRequest{
		Code: "cs", Name: "Computer Science",
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("student create department status = %d, want 403", rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/departments", adminToken, departmentRequest{
		Code: "cs", Name: "Computer Science",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("admin create department status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/departments", studentToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("student list departments status = %d", rr.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	h := newTestAPI(t)

	limited := false
	for i := 0; i < 30; i++ {
		rr := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]any{
			"email":    fmt.Sprintf("probe%d@university.edu", i),
			"password": "wrong-password-123!A",
		})
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d", i+1, rr.Code)
		}
	}
	if !limited {
		t.Fatal("expected the rate limiter to trip within 30 rapid attempts")
	}
}

func TestSessionTouchKeepsAlive(t *testing.T) {
	h := newTestAPI(t)
	token := login(t, h, testAdminEmail, testAdminPassword)

	for i := 0; i < 3; i++ {
		rr := doJSON(t, h, http.MethodGet, "/v1/auth/session", token, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rr.Code)
		}
		time.Sleep(time.Millisecond)
	}
}

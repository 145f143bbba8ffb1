package httpapi

import (
	"net/http"
	"strings"

	"sfpms.org/internal/auth"
)

// publicPath reports whether a request path is served without a session.
func publicPath(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/metrics", "/v1/info",
		"/v1/auth/login", "/v1/auth/mfa/verify", "/":
		return true
	}
	return false
}

// withAuth resolves the bearer token into a live session and attaches it
// to the request context. Protected paths without a usable session are
// rejected before reaching the mux.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPath(r.URL.Path) || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := auth.ParseSessionToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		sess, ok := a.auth.Session(claims.SessionID)
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		a.auth.TouchSession(sess.ID)

		ctx := auth.ContextWithSession(r.Context(), sess)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(raw) <= len(prefix) || !strings.EqualFold(raw[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(raw[len(prefix):])
}

// requirePermission enforces a role capability for the current session.
// It returns false after writing the error response.
func requirePermission(w http.ResponseWriter, r *http.Request, perm auth.Permission) (auth.Session, bool) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return auth.Session{}, false
	}
	if !auth.HasPermission(sess.User.Role, perm) {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return auth.Session{}, false
	}
	return sess, true
}

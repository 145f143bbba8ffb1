package httpapi

import (
	"errors"
	"net/http"
	"time"

	"sfpms.org/internal/audit"
	"sfpms.org/internal/auth"
	"sfpms.org/internal/obs"
)

type loginRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Remember bool         `json:"remember"`
	MfaType  auth.MfaType `json:"mfa_type,omitempty"`
}

type verifyRequest struct {
	MfaID    string `json:"mfa_id"`
	Code     string `json:"code"`
	Remember bool   `json:"remember"`
}

type sessionResponse struct {
	Session auth.Session `json:"session"`
	Token   string       `json:"token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ch, err := a.auth.Login(r.Context(), req.Email, req.Password, auth.LoginOptions{
		Remember: req.Remember,
		MfaType:  req.MfaType,
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, auth.ErrAccountLocked) {
			result = "locked"
		}
		obs.ObserveLogin(result)
		_ = audit.LogEvent(r.Context(), "auth.login.failed", map[string]any{
			"email":      req.Email,
			"reason":     err.Error(),
			"ip_address": clientIP(r),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
		writeError(w, authErrorStatus(err), err.Error())
		return
	}

	obs.ObserveLogin("success")
	_ = audit.LogEvent(r.Context(), "auth.login.challenge_issued", map[string]any{
		"email":      req.Email,
		"mfa_id":     ch.ID,
		"mfa_type":   ch.Type,
		"ip_address": clientIP(r),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
	writeJSON(w, http.StatusOK, map[string]any{"challenge": ch})
}

func (a *API) handleVerifyMfa(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.MfaID == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "mfa_id and code are required")
		return
	}

	sess, err := a.auth.VerifyMfa(r.Context(), req.MfaID, req.Code, auth.VerifyOptions{
		Remember:  req.Remember,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		obs.ObserveMfaVerification("failure")
		_ = audit.LogEvent(r.Context(), "auth.mfa.failed", map[string]any{
			"mfa_id":     req.MfaID,
			"reason":     err.Error(),
			"ip_address": clientIP(r),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
		writeError(w, authErrorStatus(err), err.Error())
		return
	}

	obs.ObserveMfaVerification("success")
	obs.SetActiveSessions(a.auth.Sessions().Len())

	ctx := auth.ContextWithSession(r.Context(), sess)
	_ = audit.LogEvent(ctx, "auth.login.succeeded", map[string]any{
		"session_id": sess.ID,
		"ip_address": sess.IPAddress,
		"timestamp":  sess.LoginTime.Format(time.RFC3339),
	})
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Token: sess.Token})
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sess})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	a.auth.Logout(sess.ID)
	obs.SetActiveSessions(a.auth.Sessions().Len())
	_ = audit.LogEvent(r.Context(), "auth.logout", map[string]any{
		"session_id": sess.ID,
		"ip_address": clientIP(r),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handlePermissions(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":        sess.User.Role,
		"permissions": auth.GetPermissions(sess.User.Role),
	})
}

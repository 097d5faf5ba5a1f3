package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"go.uber.org/zap"
)

type staticFetcher struct {
	user *auth.SessionUser
}

func (f staticFetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	if f.user != nil && f.user.ID == userID {
		return f.user
	}
	return nil
}

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "coursehub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyName(t *testing.T) {
	if _, err := auth.NewSessionManager("key", "", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty cookie name")
	}
}

func TestNewSessionManager_GeneratesDevKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "coursehub-test", "", false, zap.NewNop()); err != nil {
		t.Fatalf("expected generated dev key, got error: %v", err)
	}
}

func TestSignInThenLoad(t *testing.T) {
	sm := newManager(t)
	user := &auth.SessionUser{ID: "abc123", Name: "Jan", Email: "jan@example.com", Role: "teacher"}
	sm.SetUserFetcher(staticFetcher{user: user})

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, user.ID); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Replay the cookie through LoadSessionUser.
	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected a user in context after sign-in")
	}
	if got.Role != "teacher" || got.Email != "jan@example.com" {
		t.Errorf("got %+v", got)
	}
}

func TestRequireSignedIn_Unauthorized(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/courses", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newManager(t)
	mw := sm.RequireRole("teacher", "admin")

	ran := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	// Student is forbidden.
	rec := httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("POST", "/courses", nil),
		&auth.SessionUser{ID: "1", Role: "student"})
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("student: status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if ran {
		t.Error("handler ran for forbidden role")
	}

	// Teacher passes.
	rec = httptest.NewRecorder()
	req = auth.WithTestUser(httptest.NewRequest("POST", "/courses", nil),
		&auth.SessionUser{ID: "2", Role: "teacher"})
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !ran {
		t.Errorf("teacher: status = %d, ran = %v", rec.Code, ran)
	}

	// Signed out is unauthorized.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/courses", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSignOut(t *testing.T) {
	sm := newManager(t)
	user := &auth.SessionUser{ID: "abc123", Role: "teacher"}
	sm.SetUserFetcher(staticFetcher{user: user})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, user.ID); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	if err := sm.SignOut(rec2, req2); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	// The replacement cookie must be expired.
	out := rec2.Result().Cookies()
	if len(out) == 0 {
		t.Fatal("expected a replacement cookie")
	}
	if out[0].MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", out[0].MaxAge)
	}
}

package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/cogitoedu/coursehub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	role, _, _, id, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false without a user")
	}
	if role != "visitor" {
		t.Errorf("role = %q, want visitor", role)
	}
	if id != primitive.NilObjectID {
		t.Errorf("id = %v, want NilObjectID", id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: "not-an-object-id", Role: "admin"})
	if _, _, _, _, ok := authz.UserCtx(r); ok {
		t.Error("expected ok=false for a malformed user ID")
	}
}

func TestCanEditCourses(t *testing.T) {
	oid := primitive.NewObjectID().Hex()
	tests := []struct {
		role string
		want bool
	}{
		{"teacher", true},
		{"admin", true},
		{"Teacher", true}, // role comparison is case-insensitive
		{"student", false},
		{"", false},
	}
	for _, tt := range tests {
		r := auth.WithTestUser(httptest.NewRequest("POST", "/courses", nil),
			&auth.SessionUser{ID: oid, Role: tt.role})
		if got := authz.CanEditCourses(r); got != tt.want {
			t.Errorf("CanEditCourses(role=%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, email, Mongo
// ObjectID, and a found flag. If no user is present or the session's
// user ID is malformed, it fails closed: ok=false and a visitor role.
func UserCtx(r *http.Request) (role, name, email string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, user.Email, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsTeacher reports whether the current request's user is a teacher.
func IsTeacher(r *http.Request) bool {
	role, _, _, _, ok := UserCtx(r)
	return ok && role == "teacher"
}

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool {
	role, _, _, _, ok := UserCtx(r)
	return ok && role == "student"
}

// CanEditCourses reports whether the user may mutate course content.
// Only teachers and admins edit the tree; students read.
func CanEditCourses(r *http.Request) bool {
	role, _, _, _, ok := UserCtx(r)
	return ok && (role == "teacher" || role == "admin")
}

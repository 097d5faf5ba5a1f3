package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plaintext password every fixture user gets.
const FixturePassword = "password123"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Role:         role,
		Status:       "active",
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin")
}

// CreateTeacher creates a test teacher user.
func (f *Fixtures) CreateTeacher(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "teacher")
}

// CreateStudent creates a test student user.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "student")
}

// CreateCourse creates a minimal active course owned by the given teacher.
func (f *Fixtures) CreateCourse(ctx context.Context, title, teacherEmail string) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	folded := text.Fold(title)
	course := models.Course{
		ID:           primitive.NewObjectID(),
		Title:        title,
		TitleCI:      folded,
		Slug:         strings.ReplaceAll(folded, " ", "-"),
		Status:       "active",
		TeacherEmail: strings.ToLower(strings.TrimSpace(teacherEmail)),
		Rev:          1,
		CreatedAt:    now,
		UpdatedAt:    &now,
	}

	if _, err := f.db.Collection("courses").InsertOne(ctx, course); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return course
}

// CreateCourseWithSections creates a course that already has content.
func (f *Fixtures) CreateCourseWithSections(ctx context.Context, title, teacherEmail string, sections []models.Section) models.Course {
	f.t.Helper()

	course := f.CreateCourse(ctx, title, teacherEmail)
	course.Sections = sections

	_, err := f.db.Collection("courses").UpdateByID(ctx, course.ID,
		map[string]any{"$set": map[string]any{"sections": sections}})
	if err != nil {
		f.t.Fatalf("failed to set sections on test course: %v", err)
	}
	return course
}

// CreateEvent creates a calendar event assigned to the given emails.
func (f *Fixtures) CreateEvent(ctx context.Context, title, kind string, startsAt time.Time, assignedTo []string) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Kind:       kind,
		StartsAt:   startsAt,
		AssignedTo: assignedTo,
		CreatedAt:  now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/cogitoedu/coursehub/internal/app/store/users"
	"github.com/cogitoedu/coursehub/internal/app/system/indexes"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/cogitoedu/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "  Jane Doe  ",
		Email:    "Jane.Doe@Example.com",
		Role:     "teacher",
	}, "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullName != "Jane Doe" {
		t.Errorf("FullName not trimmed: %q", created.FullName)
	}
	if created.FullNameCI != "jane doe" {
		t.Errorf("FullNameCI: got %q", created.FullNameCI)
	}
	if created.Email != "jane.doe@example.com" {
		t.Errorf("Email not normalized: %q", created.Email)
	}
	if created.Status != "active" {
		t.Errorf("Status: got %q, want active", created.Status)
	}
	if created.PasswordHash == "" || created.PasswordHash == "s3cret-pass" {
		t.Error("expected password to be hashed")
	}
	if !store.VerifyPassword(&created, "s3cret-pass") {
		t.Error("VerifyPassword rejected the correct password")
	}
	if store.VerifyPassword(&created, "wrong-pass") {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestStore_Create_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		FullName: "X",
		Email:    "x@example.com",
		Role:     "superuser",
	}, "s3cret-pass")
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestStore_Create_WeakPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		FullName: "X",
		Email:    "x@example.com",
		Role:     "student",
	}, "short")
	if err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.User{FullName: "A", Email: "dup@example.com", Role: "student"}, "s3cret-pass"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{FullName: "B", Email: "DUP@example.com", Role: "student"}, "s3cret-pass")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{FullName: "Jane", Email: "jane@example.com", Role: "teacher"}, "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "  JANE@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Error("GetByEmail returned a different user")
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{FullName: "Jane", Email: "jane@example.com", Role: "teacher"}, "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{
		FullName: "Jane Q. Doe",
		Status:   "disabled",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FullName != "Jane Q. Doe" {
		t.Errorf("FullName: got %q", got.FullName)
	}
	if got.Status != "disabled" {
		t.Errorf("Status: got %q", got.Status)
	}
	// Email was not part of the update and must be unchanged.
	if got.Email != "jane@example.com" {
		t.Errorf("Email changed unexpectedly: %q", got.Email)
	}
}

func TestStore_SetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{FullName: "Jane", Email: "jane@example.com", Role: "teacher"}, "old-password")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetPassword(ctx, created.ID, "new-password"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	got, _ := store.GetByID(ctx, created.ID)
	if !store.VerifyPassword(got, "new-password") {
		t.Error("new password was not accepted")
	}
	if store.VerifyPassword(got, "old-password") {
		t.Error("old password still accepted")
	}
}

func TestStore_ListByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, u := range []struct{ name, email, role string }{
		{"Zoe", "zoe@example.com", "student"},
		{"Adam", "adam@example.com", "student"},
		{"Jane", "jane@example.com", "teacher"},
	} {
		if _, err := store.Create(ctx, models.User{FullName: u.name, Email: u.email, Role: u.role}, "s3cret-pass"); err != nil {
			t.Fatalf("Create %s failed: %v", u.email, err)
		}
	}

	students, err := store.ListByRole(ctx, "student")
	if err != nil {
		t.Fatalf("ListByRole failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}
	// Sorted by folded name.
	if students[0].FullName != "Adam" || students[1].FullName != "Zoe" {
		t.Errorf("unexpected order: %s, %s", students[0].FullName, students[1].FullName)
	}
}

func TestFetcher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{FullName: "Jane", Email: "jane@example.com", Role: "Teacher"}, "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	su := fetcher.FetchUser(ctx, created.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser returned nil for an active user")
	}
	if su.Role != "teacher" {
		t.Errorf("Role: got %q, want teacher", su.Role)
	}
	if su.Email != "jane@example.com" {
		t.Errorf("Email: got %q", su.Email)
	}

	// Disabled users must not resolve to a session.
	if err := store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{Status: "disabled"}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if fetcher.FetchUser(ctx, created.ID.Hex()) != nil {
		t.Error("FetchUser returned a session for a disabled user")
	}

	if fetcher.FetchUser(ctx, "not-an-id") != nil {
		t.Error("FetchUser returned a session for a malformed id")
	}
}

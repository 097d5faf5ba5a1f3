package eventstore_test

import (
	"testing"
	"time"

	eventstore "github.com/cogitoedu/coursehub/internal/app/store/events"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/cogitoedu/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	created, err := store.Create(ctx, models.Event{
		Title:      "Midterm",
		Kind:       models.EventExam,
		StartsAt:   start,
		AssignedTo: []string{"Ada@Example.com"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.AssignedTo[0] != "ada@example.com" {
		t.Errorf("assignee not normalized: %q", created.AssignedTo[0])
	}
	// A zero end time defaults to the start time.
	if !created.EndsAt.Equal(start) {
		t.Errorf("EndsAt: got %v, want %v", created.EndsAt, start)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Now().UTC()

	cases := []struct {
		name string
		ev   models.Event
	}{
		{"missing title", models.Event{Kind: models.EventExam, StartsAt: start, AssignedTo: []string{"a@b.co"}}},
		{"bad kind", models.Event{Title: "X", Kind: "party", StartsAt: start, AssignedTo: []string{"a@b.co"}}},
		{"end before start", models.Event{Title: "X", Kind: models.EventExam, StartsAt: start, EndsAt: start.Add(-time.Hour), AssignedTo: []string{"a@b.co"}}},
		{"no assignees", models.Event{Title: "X", Kind: models.EventExam, StartsAt: start}},
	}
	for _, tc := range cases {
		if _, err := store.Create(ctx, tc.ev); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestStore_ListForUser_Window(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	mk := func(title string, at time.Time, who string) {
		t.Helper()
		if _, err := store.Create(ctx, models.Event{
			Title: title, Kind: models.EventMeeting, StartsAt: at, AssignedTo: []string{who},
		}); err != nil {
			t.Fatalf("Create %s failed: %v", title, err)
		}
	}
	mk("in window", base.Add(24*time.Hour), "ada@example.com")
	mk("later", base.Add(24*time.Hour), "ada@example.com")
	mk("before window", base.Add(-24*time.Hour), "ada@example.com")
	mk("other user", base.Add(24*time.Hour), "bob@example.com")

	events, err := store.ListForUser(ctx, "ADA@example.com", base, base.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestStore_ListStartingWithin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for _, off := range []time.Duration{1 * time.Hour, 23 * time.Hour, 48 * time.Hour} {
		if _, err := store.Create(ctx, models.Event{
			Title: "deadline", Kind: models.EventAssignment,
			StartsAt: base.Add(off), AssignedTo: []string{"ada@example.com"},
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	due, err := store.ListStartingWithin(ctx, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListStartingWithin failed: %v", err)
	}
	if len(due) != 2 {
		t.Errorf("got %d events, want 2", len(due))
	}
}

func TestStore_DeleteForSection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courseID := primitive.NewObjectID()
	for _, sec := range []string{"sec-1", "sec-1", "sec-2"} {
		if _, err := store.Create(ctx, models.Event{
			Title: "due", Kind: models.EventAssignment,
			StartsAt:   time.Now().UTC(),
			CourseID:   &courseID,
			SectionID:  sec,
			AssignedTo: []string{"ada@example.com"},
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := store.DeleteForSection(ctx, courseID, "sec-1")
	if err != nil {
		t.Fatalf("DeleteForSection failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d events, want 2", n)
	}

	left, err := store.ListForCourse(ctx, courseID)
	if err != nil {
		t.Fatalf("ListForCourse failed: %v", err)
	}
	if len(left) != 1 || left[0].SectionID != "sec-2" {
		t.Errorf("unexpected remaining events: %+v", left)
	}
}

package notifications_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cogitoedu/coursehub/internal/app/features/notifications"
	notificationstore "github.com/cogitoedu/coursehub/internal/app/store/notifications"
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/cogitoedu/coursehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *notificationstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "coursehub_test", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	store := notificationstore.New(db)
	h := notifications.NewHandler(store, logger)
	return notifications.Routes(h, sessionMgr), store
}

func seed(t *testing.T, store *notificationstore.Store, email string, n int) []models.Notification {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	out := make([]models.Notification, 0, n)
	for i := 0; i < n; i++ {
		created, err := store.Create(ctx, models.Notification{
			UserEmail: email,
			Title:     "Notice",
		})
		if err != nil {
			t.Fatalf("seed notification: %v", err)
		}
		out = append(out, created)
	}
	return out
}

func TestListAndUnread(t *testing.T) {
	router, store := newTestRouter(t)
	student := testutil.StudentUser()
	seed(t, store, student.Email, 3)
	seed(t, store, "someone-else@test.com", 2)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", student))
	rec.AssertStatus(t, http.StatusOK)

	var list []models.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("list: got %d, want 3", len(list))
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/unread", student))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"unread":3`)
}

func TestMarkRead(t *testing.T) {
	router, store := newTestRouter(t)
	student := testutil.StudentUser()
	seeded := seed(t, store, student.Email, 1)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodPost, "/"+seeded[0].ID.Hex()+"/read", student))
	rec.AssertStatus(t, http.StatusNoContent)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/unread", student))
	rec.AssertContains(t, `"unread":0`)
}

func TestMarkRead_OtherUsersNotification(t *testing.T) {
	router, store := newTestRouter(t)
	seeded := seed(t, store, "owner@test.com", 1)

	// Someone else's notification behaves as not found.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodPost, "/"+seeded[0].ID.Hex()+"/read", testutil.StudentUser()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestMarkAllRead(t *testing.T) {
	router, store := newTestRouter(t)
	student := testutil.StudentUser()
	seed(t, store, student.Email, 4)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/read-all", student))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"marked":4`)
}

func TestDelete_Scoped(t *testing.T) {
	router, store := newTestRouter(t)
	student := testutil.StudentUser()
	mine := seed(t, store, student.Email, 1)
	theirs := seed(t, store, "owner@test.com", 1)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodDelete, "/"+theirs[0].ID.Hex(), student))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodDelete, "/"+mine[0].ID.Hex(), student))
	rec.AssertStatus(t, http.StatusNoContent)
}

func TestRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

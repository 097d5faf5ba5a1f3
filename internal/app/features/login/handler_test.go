package login_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cogitoedu/coursehub/internal/app/features/login"
	userstore "github.com/cogitoedu/coursehub/internal/app/store/users"
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/cogitoedu/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "coursehub_test", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return login.NewHandler(userstore.New(db), sessionMgr, logger), testutil.NewFixtures(t, db)
}

func loginBody(t *testing.T, email, password string) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func TestLogin(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTeacher(ctx, "Grace Hopper", "grace@test.com")

	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
		loginBody(t, "grace@test.com", testutil.FixturePassword)))
	rec.AssertStatus(t, http.StatusOK)

	if rec.Header().Get("Set-Cookie") == "" {
		t.Error("no session cookie set on successful login")
	}

	var res struct {
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.FullName != "Grace Hopper" || res.Role != "teacher" {
		t.Errorf("response: got %+v", res)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "Ada", "ada@test.com")

	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
		loginBody(t, "ada@test.com", "not-the-password")))
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
		loginBody(t, "nobody@test.com", "whatever")))
	rec.AssertStatus(t, http.StatusUnauthorized)
	// Same message as a wrong password, so accounts cannot be probed.
	rec.AssertContains(t, "invalid email or password")
}

func TestLogin_DisabledAccount(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateStudent(ctx, "Off Boarded", "gone@test.com")
	_, err := fixtures.DB().Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$set": bson.M{"status": "disabled"}})
	if err != nil {
		t.Fatalf("disable user: %v", err)
	}

	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
		loginBody(t, "gone@test.com", testutil.FixturePassword)))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestLogin_Validation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
		loginBody(t, "not-an-email", "pw")))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
}

func TestLogin_RateLimited(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "Ada", "ada@test.com")

	// Burn through the per-email window with bad passwords.
	for i := 0; i < 5; i++ {
		rec := testutil.NewRecorder()
		h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
			loginBody(t, "ada@test.com", "not-the-password")))
		rec.AssertStatus(t, http.StatusUnauthorized)
	}

	// Even the right password is refused until the window passes.
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
		loginBody(t, "ada@test.com", testutil.FixturePassword)))
	rec.AssertStatus(t, http.StatusTooManyRequests)
}

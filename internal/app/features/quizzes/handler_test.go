package quizzes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cogitoedu/coursehub/internal/app/features/quizzes"
	quizstore "github.com/cogitoedu/coursehub/internal/app/store/quizzes"
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/cogitoedu/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "coursehub_test", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := quizzes.NewHandler(quizstore.New(db), logger)
	return quizzes.Routes(h, sessionMgr)
}

func body(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func TestQuizLifecycle(t *testing.T) {
	router := newTestRouter(t)
	teacher := testutil.TeacherUser()
	courseID := primitive.NewObjectID().Hex()

	create := map[string]any{
		"title":     "Derivatives",
		"course_id": courseID,
		"questions": []map[string]any{
			{
				"prompt": "d/dx of x^2?",
				"type":   "math",
				"points": 2,
				"answers": []map[string]any{
					{"content": "2x", "type": "math", "correct": true},
					{"content": "x", "type": "math"},
				},
			},
		},
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/", body(t, create), teacher))
	rec.AssertStatus(t, http.StatusCreated)

	var quiz models.Quiz
	if err := json.Unmarshal(rec.Body.Bytes(), &quiz); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quiz.Questions[0].ID == "" || quiz.Questions[0].Answers[0].ID == "" {
		t.Error("question/answer IDs were not generated")
	}

	// Students can read.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodGet, "/"+quiz.ID.Hex(), testutil.StudentUser()))
	rec.AssertStatus(t, http.StatusOK)

	// But not write.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(
		http.MethodPost, "/", body(t, create), testutil.StudentUser()))
	rec.AssertStatus(t, http.StatusForbidden)

	// List by course.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodGet, "/course/"+courseID, teacher))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Derivatives")

	// Update.
	update := map[string]any{"title": "Derivatives I", "course_id": courseID}
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(
		http.MethodPut, "/"+quiz.ID.Hex(), body(t, update), teacher))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Derivatives I")

	// Delete, then a second delete is a 404.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodDelete, "/"+quiz.ID.Hex(), teacher))
	rec.AssertStatus(t, http.StatusNoContent)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(
		http.MethodDelete, "/"+quiz.ID.Hex(), teacher))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestCreateQuiz_BadQuestionType(t *testing.T) {
	router := newTestRouter(t)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedJSONRequest(http.MethodPost, "/",
		body(t, map[string]any{
			"title":     "Broken",
			"course_id": primitive.NewObjectID().Hex(),
			"questions": []map[string]any{{"prompt": "?", "type": "essay"}},
		}), testutil.TeacherUser()))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
}

// internal/app/features/quizzes/handler.go
package quizzes

import (
	"context"
	"net/http"

	quizstore "github.com/cogitoedu/coursehub/internal/app/store/quizzes"
	"github.com/cogitoedu/coursehub/internal/app/system/authz"
	"github.com/cogitoedu/coursehub/internal/app/system/httpjson"
	"github.com/cogitoedu/coursehub/internal/app/system/inputval"
	"github.com/cogitoedu/coursehub/internal/app/system/timeouts"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the quiz API. Quizzes are standalone documents; content
// blocks reference them by hex ID and nothing here enforces that a
// referenced quiz exists.
type Handler struct {
	Quizzes *quizstore.Store
	Log     *zap.Logger
}

func NewHandler(quizzes *quizstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Quizzes: quizzes, Log: logger}
}

type quizRequest struct {
	Title       string            `json:"title" label:"Title" validate:"required,max=300"`
	Description string            `json:"description" label:"Description" validate:"max=5000"`
	Subject     string            `json:"subject" label:"Subject" validate:"max=200"`
	CourseID    string            `json:"course_id" label:"Course" validate:"required,objectid"`
	Questions   []models.Question `json:"questions"`
}

// HandleCreate handles POST /quizzes.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusUnprocessableEntity, res.All())
		return
	}
	courseID, _ := primitive.ObjectIDFromHex(req.CourseID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	quiz := models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		CourseID:    courseID,
		Questions:   req.Questions,
	}
	if _, name, _, userID, ok := authz.UserCtx(r); ok {
		id := userID
		quiz.CreatedByID = &id
		quiz.CreatedByName = name
	}

	created, err := h.Quizzes.Create(ctx, quiz)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	httpjson.Respond(w, http.StatusCreated, created)
}

// HandleGet handles GET /quizzes/{quizID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "quizID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid quiz id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	quiz, err := h.Quizzes.GetByID(ctx, id)
	if err == quizstore.ErrNotFound {
		httpjson.Error(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		h.Log.Error("get quiz failed", zap.String("quiz_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load quiz")
		return
	}
	httpjson.Respond(w, http.StatusOK, quiz)
}

// HandleListForCourse handles GET /quizzes/course/{courseID}.
func (h *Handler) HandleListForCourse(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "courseID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid course id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Quizzes.ListForCourse(ctx, id)
	if err != nil {
		h.Log.Error("list quizzes failed", zap.String("course_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list quizzes")
		return
	}
	if list == nil {
		list = []models.Quiz{}
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// HandleUpdate handles PUT /quizzes/{quizID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "quizID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid quiz id")
		return
	}

	var req quizRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusUnprocessableEntity, res.All())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Quizzes.Update(ctx, id, models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Questions:   req.Questions,
	})
	if err == quizstore.ErrNotFound {
		httpjson.Error(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := h.Quizzes.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not reload quiz")
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /quizzes/{quizID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "quizID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid quiz id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Quizzes.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete quiz failed", zap.String("quiz_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete quiz")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "quiz not found")
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

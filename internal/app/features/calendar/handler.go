// internal/app/features/calendar/handler.go
package calendar

import (
	"context"
	"net/http"
	"time"

	eventstore "github.com/cogitoedu/coursehub/internal/app/store/events"
	"github.com/cogitoedu/coursehub/internal/app/system/authz"
	"github.com/cogitoedu/coursehub/internal/app/system/httpjson"
	"github.com/cogitoedu/coursehub/internal/app/system/inputval"
	"github.com/cogitoedu/coursehub/internal/app/system/timeouts"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the calendar event API.
type Handler struct {
	Events *eventstore.Store
	Log    *zap.Logger
}

// NewHandler constructs a calendar Handler.
func NewHandler(events *eventstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Log: logger}
}

// HandleList handles GET /calendar?from=RFC3339&to=RFC3339, returning
// the signed-in user's events inside the window. Without parameters the
// window is the current month.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := parseWindow(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.ListForUser(ctx, email, from, to)
	if err != nil {
		h.Log.Error("list events failed", zap.String("email", email), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list events")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	httpjson.Respond(w, http.StatusOK, events)
}

type eventRequest struct {
	Title       string     `json:"title" label:"Title" validate:"required,max=300"`
	Kind        string     `json:"kind" label:"Kind" validate:"required,eventkind"`
	Description string     `json:"description" label:"Description" validate:"max=5000"`
	StartsAt    time.Time  `json:"starts_at" label:"Start" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	CourseID    string     `json:"course_id" label:"Course" validate:"omitempty,objectid"`
	AssignedTo  []string   `json:"assigned_to" label:"Assignees" validate:"required,min=1,dive,email"`
}

// HandleCreate handles POST /calendar.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
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

	ev := models.Event{
		Title:       req.Title,
		Kind:        req.Kind,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		AssignedTo:  req.AssignedTo,
	}
	if req.EndsAt != nil {
		ev.EndsAt = *req.EndsAt
	}
	if req.CourseID != "" {
		id, _ := primitive.ObjectIDFromHex(req.CourseID)
		ev.CourseID = &id
	}
	if _, name, _, userID, ok := authz.UserCtx(r); ok {
		id := userID
		ev.CreatedByID = &id
		ev.CreatedByName = name
	}

	created, err := h.Events.Create(ctx, ev)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	httpjson.Respond(w, http.StatusCreated, created)
}

// HandleListForCourse handles GET /calendar/course/{courseID}.
func (h *Handler) HandleListForCourse(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "courseID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid course id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.ListForCourse(ctx, id)
	if err != nil {
		h.Log.Error("list course events failed", zap.String("course_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list events")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	httpjson.Respond(w, http.StatusOK, events)
}

// HandleUpdate handles PUT /calendar/{eventID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req eventRequest
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

	mut := models.Event{
		Title:       req.Title,
		Kind:        req.Kind,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		AssignedTo:  req.AssignedTo,
	}
	if req.EndsAt != nil {
		mut.EndsAt = *req.EndsAt
	}

	err = h.Events.Update(ctx, id, mut)
	if err == eventstore.ErrNotFound {
		httpjson.Error(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := h.Events.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not reload event")
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /calendar/{eventID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Events.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete event")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "event not found")
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// parseWindow reads the from/to query parameters, defaulting to the
// current calendar month.
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

// internal/app/features/courses/handler.go
package courses

import (
	"context"
	"net/http"

	coursestore "github.com/cogitoedu/coursehub/internal/app/store/courses"
	eventstore "github.com/cogitoedu/coursehub/internal/app/store/events"
	notificationstore "github.com/cogitoedu/coursehub/internal/app/store/notifications"
	"github.com/cogitoedu/coursehub/internal/app/system/authz"
	"github.com/cogitoedu/coursehub/internal/app/system/httpjson"
	"github.com/cogitoedu/coursehub/internal/app/system/inputval"
	"github.com/cogitoedu/coursehub/internal/app/system/normalize"
	"github.com/cogitoedu/coursehub/internal/app/system/status"
	"github.com/cogitoedu/coursehub/internal/app/system/timeouts"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the course API: metadata CRUD, student assignment, the
// content-tree mutation endpoints, and lesson file uploads.
//
// It is constructed once at startup in bootstrap with the shared stores
// and logger.
type Handler struct {
	Courses *coursestore.Store
	Events  *eventstore.Store
	Notifs  *notificationstore.Store
	Log     *zap.Logger

	// UploadDir is where lesson files land on disk; UploadBaseURL is the
	// public prefix the file server mounts them under.
	UploadDir     string
	UploadBaseURL string
}

// NewHandler constructs a course Handler bound to the given stores.
func NewHandler(courses *coursestore.Store, events *eventstore.Store, notifs *notificationstore.Store, uploadDir, uploadBaseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Courses:       courses,
		Events:        events,
		Notifs:        notifs,
		Log:           logger,
		UploadDir:     uploadDir,
		UploadBaseURL: uploadBaseURL,
	}
}

type createCourseRequest struct {
	Title        string   `json:"title" label:"Title" validate:"required,max=200"`
	Description  string   `json:"description" label:"Description" validate:"max=5000"`
	Subject      string   `json:"subject" label:"Subject" validate:"max=200"`
	YearOfStudy  int      `json:"year_of_study" label:"Year of study" validate:"min=0,max=12"`
	TeacherEmail string   `json:"teacher_email" label:"Teacher email" validate:"required,email"`
	Students     []string `json:"students" label:"Students" validate:"dive,email"`
}

// HandleCreate handles POST /courses.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
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

	course := models.Course{
		Title:         req.Title,
		Description:   req.Description,
		Subject:       req.Subject,
		YearOfStudy:   req.YearOfStudy,
		TeacherEmail:  req.TeacherEmail,
		AssignedUsers: req.Students,
	}
	if _, name, _, userID, ok := authz.UserCtx(r); ok {
		id := userID
		course.CreatedByID = &id
		course.CreatedByName = name
	}

	created, err := h.Courses.Create(ctx, course)
	if err == coursestore.ErrDuplicateTitle {
		httpjson.Error(w, http.StatusConflict, "a course with that title already exists")
		return
	}
	if err != nil {
		h.Log.Error("create course failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create course")
		return
	}

	h.Log.Info("course created",
		zap.String("course_id", created.ID.Hex()),
		zap.String("title", created.Title))
	httpjson.Respond(w, http.StatusCreated, created)
}

// HandleList handles GET /courses. Admins see everything, teachers see
// the courses they teach, students see active courses assigned to them.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var filter bson.M
	switch role {
	case "admin":
		filter = bson.M{}
	case "teacher":
		filter = bson.M{"teacher_email": normalize.Email(email)}
	default:
		filter = bson.M{"assigned_users": normalize.Email(email), "status": status.Active}
	}

	q := r.URL.Query()
	page, err := h.Courses.ListPage(ctx, filter, q.Get("before"), q.Get("after"))
	if err != nil {
		h.Log.Error("list courses failed", zap.String("role", role), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list courses")
		return
	}
	if page.Courses == nil {
		page.Courses = []models.Course{}
	}
	httpjson.Respond(w, http.StatusOK, page)
}

// HandleGet handles GET /courses/{courseID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}
	if !h.canView(r, course) {
		httpjson.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	httpjson.Respond(w, http.StatusOK, course)
}

type updateCourseRequest struct {
	Title       string `json:"title" label:"Title" validate:"omitempty,max=200"`
	Description string `json:"description" label:"Description" validate:"max=5000"`
	Subject     string `json:"subject" label:"Subject" validate:"max=200"`
	YearOfStudy int    `json:"year_of_study" label:"Year of study" validate:"min=0,max=12"`
	Status      string `json:"status" label:"Status" validate:"omitempty,oneof=active disabled"`
}

// HandleUpdate handles PUT /courses/{courseID}. Metadata only; the
// sections tree moves exclusively through the tree endpoints.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	var req updateCourseRequest
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

	err := h.Courses.Update(ctx, id, models.Course{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		YearOfStudy: req.YearOfStudy,
		Status:      req.Status,
	})
	switch err {
	case nil:
	case coursestore.ErrNotFound:
		httpjson.Error(w, http.StatusNotFound, "course not found")
		return
	case coursestore.ErrDuplicateTitle:
		httpjson.Error(w, http.StatusConflict, "a course with that title already exists")
		return
	default:
		h.Log.Error("update course failed", zap.String("course_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update course")
		return
	}

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not reload course")
		return
	}
	httpjson.Respond(w, http.StatusOK, course)
}

// HandleDelete handles DELETE /courses/{courseID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Courses.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete course failed", zap.String("course_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete course")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "course not found")
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

type assignRequest struct {
	Email string `json:"email" label:"Email" validate:"required,email"`
}

// HandleAssign handles POST /courses/{courseID}/students.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	var req assignRequest
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

	if err := h.Courses.AssignStudent(ctx, id, req.Email); err != nil {
		if err == coursestore.ErrNotFound {
			httpjson.Error(w, http.StatusNotFound, "course not found")
			return
		}
		h.Log.Error("assign student failed", zap.String("course_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not assign student")
		return
	}

	if course, err := h.Courses.GetByID(ctx, id); err == nil {
		if _, err := h.Notifs.Create(ctx, models.Notification{
			UserEmail: req.Email,
			Title:     "Enrolled in " + course.Title,
			Level:     models.NotifyInfo,
			CourseID:  &course.ID,
		}); err != nil {
			h.Log.Warn("enrollment notification failed", zap.Error(err))
		}
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// HandleUnassign handles DELETE /courses/{courseID}/students/{email}.
func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}
	email := chi.URLParam(r, "email")
	if email == "" {
		httpjson.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Courses.UnassignStudent(ctx, id, email); err != nil {
		if err == coursestore.ErrNotFound {
			httpjson.Error(w, http.StatusNotFound, "course not found")
			return
		}
		h.Log.Error("unassign student failed", zap.String("course_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not unassign student")
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// courseID extracts and parses the {courseID} route parameter, writing
// the error response itself so callers can just bail on !ok.
func courseID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "courseID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid course id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// loadCourse fetches the course named in the route, mapping missing
// documents to 404.
func (h *Handler) loadCourse(w http.ResponseWriter, r *http.Request) (models.Course, bool) {
	id, ok := courseID(w, r)
	if !ok {
		return models.Course{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	if err == coursestore.ErrNotFound || err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "course not found")
		return models.Course{}, false
	}
	if err != nil {
		h.Log.Error("load course failed", zap.String("course_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load course")
		return models.Course{}, false
	}
	return course, true
}

// canView reports whether the caller may read this course. Teachers see
// their own courses, students the ones they are assigned to, admins all.
func (h *Handler) canView(r *http.Request, course models.Course) bool {
	role, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case "admin":
		return true
	case "teacher":
		return course.TeacherEmail == email
	default:
		if course.Status != "active" {
			return false
		}
		for _, e := range course.AssignedUsers {
			if e == email {
				return true
			}
		}
		return false
	}
}

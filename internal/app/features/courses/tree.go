// internal/app/features/courses/tree.go

// Tree mutation endpoints. Every handler follows the same shape: load
// the course, apply a pure coursetree transition in memory, then commit
// the whole sections array guarded by the revision the client sent. A
// rejected transition writes nothing; a stale revision gets a 409 and
// the client re-fetches.
package courses

import (
	"context"
	"net/http"
	"strconv"
	"time"

	coursestore "github.com/cogitoedu/coursehub/internal/app/store/courses"
	"github.com/cogitoedu/coursehub/internal/app/system/authz"
	"github.com/cogitoedu/coursehub/internal/app/system/htmlsanitize"
	"github.com/cogitoedu/coursehub/internal/app/system/httpjson"
	"github.com/cogitoedu/coursehub/internal/app/system/inputval"
	"github.com/cogitoedu/coursehub/internal/app/system/timeouts"
	"github.com/cogitoedu/coursehub/internal/domain/coursetree"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// treeResponse is returned by every committed tree mutation. ID carries
// the generated node ID on add operations.
type treeResponse struct {
	Rev      int64            `json:"rev"`
	ID       string           `json:"id,omitempty"`
	Sections []models.Section `json:"sections"`
}

type addSectionRequest struct {
	Rev      int64      `json:"rev"`
	Name     string     `json:"name" label:"Name" validate:"required,max=200"`
	Kind     string     `json:"kind" label:"Kind" validate:"required,sectionkind"`
	Deadline *time.Time `json:"deadline"`
}

// HandleAddSection handles POST /courses/{courseID}/sections.
func (h *Handler) HandleAddSection(w http.ResponseWriter, r *http.Request) {
	var req addSectionRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	id, err := tree.AddSection(req.Name, req.Kind, req.Deadline)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !h.commitTree(w, r, &course, req.Rev, id) {
		return
	}

	if req.Kind == models.SectionAssignment && req.Deadline != nil {
		h.mirrorDeadline(r.Context(), course, id, req.Name, *req.Deadline)
	}
}

type updateSectionRequest struct {
	Rev      int64      `json:"rev"`
	Name     string     `json:"name" label:"Name" validate:"required,max=200"`
	Kind     string     `json:"kind" label:"Kind" validate:"required,sectionkind"`
	Deadline *time.Time `json:"deadline"`
}

// HandleUpdateSection handles PUT /courses/{courseID}/sections/{sectionID}.
func (h *Handler) HandleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req updateSectionRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")

	tree := coursetree.New(&course)
	if err := tree.UpdateSection(sectionID, req.Name, req.Kind, req.Deadline); err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !h.commitTree(w, r, &course, req.Rev, "") {
		return
	}

	// Re-mirror the deadline event: drop the old one, create the new.
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()
	if _, err := h.Events.DeleteForSection(ctx, course.ID, sectionID); err != nil {
		h.Log.Warn("deadline event cleanup failed",
			zap.String("course_id", course.ID.Hex()), zap.Error(err))
	}
	if req.Kind == models.SectionAssignment && req.Deadline != nil {
		h.mirrorDeadline(r.Context(), course, sectionID, req.Name, *req.Deadline)
	}
}

// HandleDeleteSection handles DELETE /courses/{courseID}/sections/{sectionID}.
// The expected revision rides in the ?rev= query parameter.
func (h *Handler) HandleDeleteSection(w http.ResponseWriter, r *http.Request) {
	rev, ok := queryRev(w, r)
	if !ok {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")

	tree := coursetree.New(&course)
	if err := tree.DeleteSection(sectionID); err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !h.commitTree(w, r, &course, rev, "") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()
	if _, err := h.Events.DeleteForSection(ctx, course.ID, sectionID); err != nil {
		h.Log.Warn("deadline event cleanup failed",
			zap.String("course_id", course.ID.Hex()), zap.Error(err))
	}
}

type reorderRequest struct {
	Rev  int64 `json:"rev"`
	From int   `json:"from"`
	To   int   `json:"to"`
}

// HandleReorderSections handles POST /courses/{courseID}/sections/reorder.
func (h *Handler) HandleReorderSections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	if err := tree.ReorderSections(req.From, req.To); err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, "")
}

type addSubsectionRequest struct {
	Rev  int64  `json:"rev"`
	Name string `json:"name" label:"Name" validate:"required,max=200"`
}

// HandleAddSubsection handles
// POST /courses/{courseID}/sections/{sectionID}/subsections.
func (h *Handler) HandleAddSubsection(w http.ResponseWriter, r *http.Request) {
	var req addSubsectionRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	id, err := tree.AddSubsection(chi.URLParam(r, "sectionID"), req.Name, author(r))
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, id)
}

// HandleRenameSubsection handles
// PUT /courses/{courseID}/sections/{sectionID}/subsections/{subsectionID}.
func (h *Handler) HandleRenameSubsection(w http.ResponseWriter, r *http.Request) {
	var req addSubsectionRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	err := tree.RenameSubsection(chi.URLParam(r, "sectionID"), chi.URLParam(r, "subsectionID"), req.Name)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, "")
}

// HandleDeleteSubsection handles
// DELETE /courses/{courseID}/sections/{sectionID}/subsections/{subsectionID}.
func (h *Handler) HandleDeleteSubsection(w http.ResponseWriter, r *http.Request) {
	rev, ok := queryRev(w, r)
	if !ok {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	err := tree.DeleteSubsection(chi.URLParam(r, "sectionID"), chi.URLParam(r, "subsectionID"))
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, rev, "")
}

// HandleReorderSubsections handles
// POST /courses/{courseID}/sections/{sectionID}/subsections/reorder.
func (h *Handler) HandleReorderSubsections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	if err := tree.ReorderSubsections(chi.URLParam(r, "sectionID"), req.From, req.To); err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, "")
}

type moveSubsectionRequest struct {
	Rev           int64  `json:"rev"`
	FromSectionID string `json:"from_section_id" label:"Source section" validate:"required"`
	FromIndex     int    `json:"from_index"`
	ToSectionID   string `json:"to_section_id" label:"Destination section" validate:"required"`
	ToIndex       int    `json:"to_index"`
}

// HandleMoveSubsection handles POST /courses/{courseID}/subsections/move.
func (h *Handler) HandleMoveSubsection(w http.ResponseWriter, r *http.Request) {
	var req moveSubsectionRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	err := tree.MoveSubsection(req.FromSectionID, req.FromIndex, req.ToSectionID, req.ToIndex)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, "")
}

type blockRequest struct {
	Rev  int64  `json:"rev"`
	Name string `json:"name" label:"Name" validate:"max=200"`
	Kind string `json:"kind" label:"Kind" validate:"required,blockkind"`

	Text     string `json:"text"`
	FileURL  string `json:"file_url" label:"File URL" validate:"omitempty,max=2000"`
	FileName string `json:"file_name" label:"File name" validate:"max=300"`
	FileSize int64  `json:"file_size"`
	VideoURL string `json:"video_url" label:"Video URL" validate:"omitempty,httpurl"`
	QuizID   string `json:"quiz_id" label:"Quiz" validate:"max=100"`
	Math     string `json:"math"`
}

// toBlock builds the ContentBlock, running inline payloads through the
// sanitizer so markup never enters the tree unchecked.
func (req *blockRequest) toBlock() models.ContentBlock {
	return models.ContentBlock{
		Name:     req.Name,
		Kind:     req.Kind,
		Text:     sanitizeText(req.Text),
		FileURL:  req.FileURL,
		FileName: req.FileName,
		FileSize: req.FileSize,
		VideoURL: req.VideoURL,
		QuizID:   req.QuizID,
		Math:     htmlsanitize.Sanitize(req.Math),
	}
}

// sanitizeText accepts either raw HTML or plain text; plain text is
// wrapped into paragraphs so the client always gets HTML back.
func sanitizeText(s string) string {
	if s == "" {
		return ""
	}
	if htmlsanitize.IsPlainText(s) {
		return htmlsanitize.PlainTextToHTML(s)
	}
	return htmlsanitize.Sanitize(s)
}

// HandleAddBlock handles
// POST /courses/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks.
func (h *Handler) HandleAddBlock(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	id, err := tree.AddBlock(chi.URLParam(r, "sectionID"), chi.URLParam(r, "subsectionID"), req.toBlock())
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, id)
}

// HandleUpdateBlock handles
// PUT /courses/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks/{blockID}.
func (h *Handler) HandleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	err := tree.UpdateBlock(chi.URLParam(r, "sectionID"), chi.URLParam(r, "subsectionID"),
		chi.URLParam(r, "blockID"), req.toBlock())
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, "")
}

// HandleDeleteBlock handles
// DELETE /courses/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks/{blockID}.
func (h *Handler) HandleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	rev, ok := queryRev(w, r)
	if !ok {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	err := tree.DeleteBlock(chi.URLParam(r, "sectionID"), chi.URLParam(r, "subsectionID"),
		chi.URLParam(r, "blockID"))
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, rev, "")
}

// HandleReorderBlocks handles
// POST /courses/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks/reorder.
func (h *Handler) HandleReorderBlocks(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	err := tree.ReorderBlocks(chi.URLParam(r, "sectionID"), chi.URLParam(r, "subsectionID"),
		req.From, req.To)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, "")
}

type moveBlockRequest struct {
	Rev              int64  `json:"rev"`
	FromSectionID    string `json:"from_section_id" label:"Source section" validate:"required"`
	FromSubsectionID string `json:"from_subsection_id" label:"Source lesson" validate:"required"`
	FromIndex        int    `json:"from_index"`
	ToSectionID      string `json:"to_section_id" label:"Destination section" validate:"required"`
	ToSubsectionID   string `json:"to_subsection_id" label:"Destination lesson" validate:"required"`
	ToIndex          int    `json:"to_index"`
}

// HandleMoveBlock handles POST /courses/{courseID}/blocks/move.
func (h *Handler) HandleMoveBlock(w http.ResponseWriter, r *http.Request) {
	var req moveBlockRequest
	if !h.decodeTreeBody(w, r, &req) {
		return
	}
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	tree := coursetree.New(&course)
	err := tree.MoveBlock(req.FromSectionID, req.FromSubsectionID, req.FromIndex,
		req.ToSectionID, req.ToSubsectionID, req.ToIndex)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.commitTree(w, r, &course, req.Rev, "")
}

// decodeTreeBody decodes and validates a tree mutation body, writing
// the error response itself.
func (h *Handler) decodeTreeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpjson.Decode(w, r, dst); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	if res := inputval.Validate(dst); res.HasErrors() {
		httpjson.Error(w, http.StatusUnprocessableEntity, res.All())
		return false
	}
	return true
}

// commitTree persists the mutated sections array guarded by expectedRev
// and writes the response. Returns false when the commit failed and the
// error response has already been written.
func (h *Handler) commitTree(w http.ResponseWriter, r *http.Request, course *models.Course, expectedRev int64, createdID string) bool {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	by := author(r)
	newRev, err := h.Courses.CommitSnapshot(ctx, course.ID, expectedRev, course.Sections, &by)
	switch err {
	case nil:
	case coursestore.ErrRevisionConflict:
		httpjson.Error(w, http.StatusConflict, "course was modified by someone else; reload and retry")
		return false
	case coursestore.ErrNotFound:
		httpjson.Error(w, http.StatusNotFound, "course not found")
		return false
	default:
		h.Log.Error("commit snapshot failed",
			zap.String("course_id", course.ID.Hex()),
			zap.Int64("expected_rev", expectedRev),
			zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save changes")
		return false
	}

	httpjson.Respond(w, http.StatusOK, treeResponse{
		Rev:      newRev,
		ID:       createdID,
		Sections: course.Sections,
	})
	return true
}

// author builds the coursetree author stamp from the session user.
func author(r *http.Request) coursetree.Author {
	_, name, _, userID, ok := authz.UserCtx(r)
	if !ok {
		return coursetree.Author{}
	}
	return coursetree.Author{ID: userID, Name: name}
}

// queryRev parses the expected revision for DELETE endpoints, which
// carry no body.
func queryRev(w http.ResponseWriter, r *http.Request) (int64, bool) {
	rev, err := strconv.ParseInt(r.URL.Query().Get("rev"), 10, 64)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "rev query parameter is required")
		return 0, false
	}
	return rev, true
}

// mirrorDeadline creates the calendar event and notification fan-out
// for an assignment deadline. Failures are logged, never surfaced: the
// tree commit already succeeded.
func (h *Handler) mirrorDeadline(parent context.Context, course models.Course, sectionID, name string, deadline time.Time) {
	if len(course.AssignedUsers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), timeouts.Long())
	defer cancel()

	if _, err := h.Events.Create(ctx, models.Event{
		Title:      name,
		Kind:       models.EventAssignment,
		StartsAt:   deadline,
		CourseID:   &course.ID,
		SectionID:  sectionID,
		AssignedTo: course.AssignedUsers,
	}); err != nil {
		h.Log.Warn("deadline event mirror failed",
			zap.String("course_id", course.ID.Hex()), zap.Error(err))
	}

	if _, err := h.Notifs.FanOut(ctx, models.Notification{
		Title:    "New assignment in " + course.Title + ": " + name,
		Level:    models.NotifyInfo,
		CourseID: &course.ID,
	}, course.AssignedUsers); err != nil {
		h.Log.Warn("assignment notification fan-out failed",
			zap.String("course_id", course.ID.Hex()), zap.Error(err))
	}
}

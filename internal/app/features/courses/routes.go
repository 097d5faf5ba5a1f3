// internal/app/features/courses/routes.go
package courses

import (
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the course API router. Mount under /courses with
// LoadSessionUser already applied. Reads require a signed-in user;
// every mutation requires the teacher or admin role.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Get("/{courseID}", h.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireRole("teacher", "admin"))

		r.Post("/", h.HandleCreate)
		r.Put("/{courseID}", h.HandleUpdate)
		r.Delete("/{courseID}", h.HandleDelete)

		r.Post("/{courseID}/students", h.HandleAssign)
		r.Delete("/{courseID}/students/{email}", h.HandleUnassign)

		r.Post("/{courseID}/files", h.HandleUpload)

		// Content tree mutations: load, pure transition, guarded commit.
		r.Post("/{courseID}/sections", h.HandleAddSection)
		r.Post("/{courseID}/sections/reorder", h.HandleReorderSections)
		r.Put("/{courseID}/sections/{sectionID}", h.HandleUpdateSection)
		r.Delete("/{courseID}/sections/{sectionID}", h.HandleDeleteSection)

		r.Post("/{courseID}/sections/{sectionID}/subsections", h.HandleAddSubsection)
		r.Post("/{courseID}/sections/{sectionID}/subsections/reorder", h.HandleReorderSubsections)
		r.Put("/{courseID}/sections/{sectionID}/subsections/{subsectionID}", h.HandleRenameSubsection)
		r.Delete("/{courseID}/sections/{sectionID}/subsections/{subsectionID}", h.HandleDeleteSubsection)
		r.Post("/{courseID}/subsections/move", h.HandleMoveSubsection)

		r.Post("/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks", h.HandleAddBlock)
		r.Post("/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks/reorder", h.HandleReorderBlocks)
		r.Put("/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks/{blockID}", h.HandleUpdateBlock)
		r.Delete("/{courseID}/sections/{sectionID}/subsections/{subsectionID}/blocks/{blockID}", h.HandleDeleteBlock)
		r.Post("/{courseID}/blocks/move", h.HandleMoveBlock)
	})

	return r
}

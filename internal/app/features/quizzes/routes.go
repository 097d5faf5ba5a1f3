// internal/app/features/quizzes/routes.go
package quizzes

import (
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the quiz router. Mount under /quizzes.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Get("/{quizID}", h.HandleGet)
	r.Get("/course/{courseID}", h.HandleListForCourse)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireRole("teacher", "admin"))
		r.Post("/", h.HandleCreate)
		r.Put("/{quizID}", h.HandleUpdate)
		r.Delete("/{quizID}", h.HandleDelete)
	})

	return r
}

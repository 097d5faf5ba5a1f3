// internal/app/features/calendar/routes.go
package calendar

import (
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the calendar router. Mount under /calendar.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Get("/course/{courseID}", h.HandleListForCourse)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireRole("teacher", "admin"))
		r.Post("/", h.HandleCreate)
		r.Put("/{eventID}", h.HandleUpdate)
		r.Delete("/{eventID}", h.HandleDelete)
	})

	return r
}

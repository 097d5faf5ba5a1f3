// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the notifications router. Mount under /notifications.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Get("/unread", h.HandleUnreadCount)
	r.Post("/read-all", h.HandleMarkAllRead)
	r.Post("/{notificationID}/read", h.HandleMarkRead)
	r.Delete("/{notificationID}", h.HandleDelete)

	return r
}

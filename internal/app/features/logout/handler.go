// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/cogitoedu/coursehub/internal/app/system/auth"
	"github.com/cogitoedu/coursehub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler clears the session cookie.
type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sessionMgr, Log: logger}
}

// HandleLogout handles POST /logout. Signing out twice is fine.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("sign-out failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not sign out")
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

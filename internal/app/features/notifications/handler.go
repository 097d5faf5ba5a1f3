// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"net/http"
	"strconv"

	notificationstore "github.com/cogitoedu/coursehub/internal/app/store/notifications"
	"github.com/cogitoedu/coursehub/internal/app/system/authz"
	"github.com/cogitoedu/coursehub/internal/app/system/httpjson"
	"github.com/cogitoedu/coursehub/internal/app/system/timeouts"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const defaultListLimit = 50

// Handler owns the per-user notification API. Every endpoint operates
// on the signed-in user's own notifications; IDs belonging to someone
// else behave as not found.
type Handler struct {
	Notifs *notificationstore.Store
	Log    *zap.Logger
}

func NewHandler(notifs *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifs: notifs, Log: logger}
}

// HandleList handles GET /notifications?limit=N.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := int64(defaultListLimit)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 1 || n > 500 {
			httpjson.Error(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notifs.ListForUser(ctx, email, limit)
	if err != nil {
		h.Log.Error("list notifications failed", zap.String("email", email), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list notifications")
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	httpjson.Respond(w, http.StatusOK, list)
}

// HandleUnreadCount handles GET /notifications/unread.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	_, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifs.CountUnread(ctx, email)
	if err != nil {
		h.Log.Error("count unread failed", zap.String("email", email), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not count notifications")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]int64{"unread": n})
}

// HandleMarkRead handles POST /notifications/{notificationID}/read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "notificationID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Notifs.MarkRead(ctx, id, email)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "notification not found")
		return
	}
	if err != nil {
		h.Log.Error("mark read failed", zap.String("notification_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not mark notification read")
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// HandleMarkAllRead handles POST /notifications/read-all.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Notifs.MarkAllRead(ctx, email)
	if err != nil {
		h.Log.Error("mark all read failed", zap.String("email", email), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not mark notifications read")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]int64{"marked": n})
}

// HandleDelete handles DELETE /notifications/{notificationID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, email, _, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "notificationID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifs.Delete(ctx, id, email)
	if err != nil {
		h.Log.Error("delete notification failed", zap.String("notification_id", id.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete notification")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "notification not found")
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

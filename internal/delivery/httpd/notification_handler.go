package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	notifications, err := h.notificationService.ListForUser(r.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, notifications)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	notificationID := chi.URLParam(r, "id")
	if notificationID == "" {
		writeError(w, http.StatusBadRequest, "Notification ID is required")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), actor.ID, notificationID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Notification marked as read",
	})
}

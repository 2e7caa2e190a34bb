package notification_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/auth"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/notification"
)

type Handler struct {
	Service *notification.Service
	Logger  *logger.Logger
}

// ListNotifications handles GET /api/notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	list, err := h.Service.ListForUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListNotifications: %v", err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// MarkRead handles PATCH /api/notifications/{notificationId}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	notificationID := chi.URLParam(r, "notificationId")

	if err := h.Service.MarkRead(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("MarkRead: %v", err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles PATCH /api/notifications/read-all.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	if err := h.Service.MarkAllRead(r.Context(), userID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("MarkAllRead: %v", err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotification handles DELETE /api/notifications/{notificationId}.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	notificationID := chi.URLParam(r, "notificationId")

	if err := h.Service.Delete(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteNotification: %v", err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

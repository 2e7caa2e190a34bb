package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/auth"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/order"
)

type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

// CancelOrder handles POST /api/orders/{orderId}/cancel.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("CancelOrder: orderId=%s user=%s", orderID, userID))

	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req models.CancelOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.Logger.Error("API", fmt.Sprintf("CancelOrder: failed to decode request body: %v", err))
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	ord, err := h.OrderService.Cancel(r.Context(), orderID, userID, req.Reason)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CancelOrder: %v", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ord)
}

// GetOrder handles GET /api/orders/{orderId}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	userID := auth.UserID(r.Context())

	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	ord, err := h.OrderService.GetOrder(r.Context(), orderID, userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: %v", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ord)
}

// GetOrderHistory handles GET /api/orders/{orderId}/history.
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	userID := auth.UserID(r.Context())

	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	history, err := h.OrderService.GetHistory(r.Context(), orderID, userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrderHistory: %v", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// AdminUpdateOrder handles PATCH /api/orders/{orderId}. Only supplied
// fields are applied.
func (h *Handler) AdminUpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	role := auth.Role(r.Context())
	h.Logger.Info("API", fmt.Sprintf("AdminUpdateOrder: orderId=%s role=%s", orderID, role))

	var req models.AdminOrderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("AdminUpdateOrder: failed to decode request body: %v", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := models.OrderPatch{
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	}
	if req.Status != nil {
		status := models.OrderStatus(*req.Status)
		patch.Status = &status
	}

	ord, err := h.OrderService.AdminTransition(r.Context(), orderID, role, patch)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("AdminUpdateOrder: %v", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ord)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		respondError(w, http.StatusNotFound, order.ErrNotFound.Error())
	case errors.Is(err, order.ErrForbidden):
		respondError(w, http.StatusForbidden, order.ErrForbidden.Error())
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

package payment_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/auth"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/payment"
)

type Handler struct {
	PaymentService *payment.Service
	Logger         *logger.Logger
}

// CreatePayment handles POST /api/payments/create.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePayment: failed to decode request body: %v", err))
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreatePayment: orderId=%s user=%s", req.OrderID, userID))

	intent, err := h.PaymentService.CreateIntent(r.Context(), req.OrderID, userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePayment: %v", err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, intent)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrNotFound):
		respondError(w, http.StatusNotFound, payment.ErrNotFound.Error())
	case errors.Is(err, payment.ErrAlreadyPaid), errors.Is(err, payment.ErrInProgress):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, payment.ErrGatewayUnavailable):
		respondError(w, http.StatusInternalServerError, payment.ErrGatewayUnavailable.Error())
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

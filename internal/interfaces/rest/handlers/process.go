package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopsphere/payment-gateway/internal/gateway"
)

type ProcessRequest struct {
	PayerID     string `json:"payerId"`
	GatewayType string `json:"gatewayType" validate:"required"`
}

// HandleProcess captures the payment for an approved order.
func (h *PaymentHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	if orderID == "" {
		respondWithError(w, &gateway.PaymentError{
			Kind:    gateway.KindClientError,
			Message: "order id is required",
		})
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, &gateway.PaymentError{
			Kind:    gateway.KindClientError,
			Message: "invalid request body",
		})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, &gateway.PaymentError{
			Kind:    gateway.KindClientError,
			Message: err.Error(),
		})
		return
	}

	capture, err := h.controller.ProcessPayment(r.Context(), orderID, req.PayerID, req.GatewayType)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, capture)
}

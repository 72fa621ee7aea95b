package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopsphere/payment-gateway/internal/gateway"
)

type CheckoutRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	GatewayType string  `json:"gatewayType" validate:"required"`
}

// HandleCheckout initiates a checkout by creating a provider order.
func (h *PaymentHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
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

	result, err := h.controller.InitiateCheckout(r.Context(), req.Amount, req.Currency, req.GatewayType)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

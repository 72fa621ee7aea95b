package handlers

import (
	"io"
	"net/http"

	"github.com/shopsphere/payment-gateway/internal/gateway"
)

// webhookBodyLimit caps inbound webhook payloads; provider events are small
// JSON documents.
const webhookBodyLimit = 1 << 20

// HandleWebhook receives provider event notifications. Business declines
// inside a verified event still acknowledge with 200 so the provider does
// not retry; only fingerprint, signature, and processing failures are
// non-200.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		respondWithError(w, &gateway.PaymentError{
			Kind:    gateway.KindClientError,
			Message: "failed to read webhook body",
		})
		return
	}

	if err := h.controller.HandleWebhook(r.Context(), r.Header, body); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Webhook processed successfully",
	})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/shopsphere/payment-gateway/internal/application"
)

// PaymentHandler exposes the payment endpoints over plain HTTP handlers.
type PaymentHandler struct {
	controller *application.PaymentController
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewPaymentHandler(controller *application.PaymentController, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		controller: controller,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/payments/checkout", h.HandleCheckout)
	mux.HandleFunc("POST /api/payments/process/{orderId}", h.HandleProcess)
	mux.HandleFunc("POST /api/payments/webhook", h.HandleWebhook)
}
